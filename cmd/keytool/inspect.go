package keytool

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/chain"
	"github.com/kashguard/go-hdkey-infra/internal/hd"
)

func newInspect() *cobra.Command {
	var (
		pubHex       string
		chainCodeHex string
		network      string
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Prints identifier, fingerprint and address of a public key",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runInspect(pubHex, chainCodeHex, network); err != nil {
				fmt.Fprintf(os.Stderr, "inspect failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&pubHex, "public-key", "", "Hex-encoded compressed public key")
	cmd.Flags().StringVar(&chainCodeHex, "chain-code", "", "Hex-encoded 32-byte chain code")
	cmd.Flags().StringVar(&network, "network", "mainnet", "Network for address rendering")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("chain-code")
	return cmd
}

func runInspect(pubHex, chainCodeHex, network string) error {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return fmt.Errorf("public key is not valid hex: %w", err)
	}
	chainCode, err := hex.DecodeString(chainCodeHex)
	if err != nil {
		return fmt.Errorf("chain code is not valid hex: %w", err)
	}

	node, err := hd.NewKeyFromBytes(nil, chainCode, pub, nil, nil)
	if err != nil {
		return err
	}

	params, err := chain.ParamsForNetwork(network)
	if err != nil {
		return err
	}
	address, err := chain.NewBitcoinAdapter(params).GenerateAddress(node.PubKey())
	if err != nil {
		return err
	}

	fmt.Printf("identifier:  %s\n", hex.EncodeToString(node.Identifier()))
	fmt.Printf("fingerprint: %s\n", hex.EncodeToString(node.Fingerprint()))
	fmt.Printf("address:     %s\n", address)
	return nil
}
