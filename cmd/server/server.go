// Package server implements the long-running HTTP service command.
package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/api/handlers"
	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func New() *cobra.Command {
	return &cobra.Command{
		Use:   "server",
		Short: "Starts the HTTP key service",
		Run: func(_ *cobra.Command, _ []string) {
			runServer()
		},
	}
}

func runServer() {
	cfg := config.DefaultServiceConfigFromEnv()
	util.InitLogger(cfg.Logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s := api.NewServer(cfg)
	if err := s.InitComponents(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize server")
	}
	handlers.AttachAllRoutes(s)

	go func() {
		if err := s.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Echo.GracefulShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to shut down gracefully")
	}
}
