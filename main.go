package main

import (
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/cmd/db"
	"github.com/kashguard/go-hdkey-infra/cmd/keytool"
	"github.com/kashguard/go-hdkey-infra/cmd/probe"
	"github.com/kashguard/go-hdkey-infra/cmd/server"
)

func main() {
	root := &cobra.Command{
		Use:   "hdkeyd",
		Short: "Hierarchical-deterministic key service",
	}

	root.AddCommand(
		server.New(),
		db.New(),
		probe.New(),
		keytool.New(),
	)

	if err := root.Execute(); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
