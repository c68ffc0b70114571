// Package db implements one-shot database commands.
package db

import (
	"github.com/kashguard/go-hdkey-infra/internal/util/command"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("db",
		newMigrate(),
	)
}
