// Package keytool implements offline key utilities that never touch the
// database: deriving from a raw seed, inspecting public key material and
// checking a passphrase against an encrypted blob.
package keytool

import (
	"github.com/kashguard/go-hdkey-infra/internal/util/command"
	"github.com/spf13/cobra"
)

func New() *cobra.Command {
	return command.NewSubcommandGroup("keytool",
		newDerive(),
		newInspect(),
		newDecrypt(),
	)
}
