// Package command holds cobra helpers shared by the CLI entrypoints.
package command

import (
	"context"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

// NewSubcommandGroup returns a parent command that only dispatches to its
// subcommands, printing usage when invoked bare.
func NewSubcommandGroup(name string, subcommands ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use: name,
		Run: func(cmd *cobra.Command, _ []string) {
			if err := cmd.Help(); err != nil {
				log.Fatal().Err(err).Msg("Failed to print help")
			}
		},
	}
	cmd.AddCommand(subcommands...)
	return cmd
}

// WithServer initializes a fully wired server, runs fn against it and
// shuts the server down afterwards. Meant for one-shot commands that need
// database access.
func WithServer(ctx context.Context, cfg config.Server, fn func(ctx context.Context, s *api.Server) error) error {
	util.InitLogger(cfg.Logger)

	s := api.NewServer(cfg)
	if err := s.InitComponents(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.Shutdown(ctx); err != nil {
			log.Error().Err(err).Msg("Failed to shut down server")
		}
	}()

	return fn(ctx, s)
}
