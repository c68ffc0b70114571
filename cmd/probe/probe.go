// Package probe implements the liveness and readiness probe commands used
// by container orchestration.
package probe

import (
	"github.com/kashguard/go-hdkey-infra/internal/util/command"
	"github.com/spf13/cobra"
)

const verboseFlag string = "verbose"

func New() *cobra.Command {
	return command.NewSubcommandGroup("probe",
		newLiveness(),
		newReadiness(),
	)
}
