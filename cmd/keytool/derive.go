package keytool

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/chain"
	"github.com/kashguard/go-hdkey-infra/internal/hd"
)

func newDerive() *cobra.Command {
	var (
		seedHex     string
		path        string
		network     string
		showPrivate bool
	)

	cmd := &cobra.Command{
		Use:   "derive",
		Short: "Derives a key from a raw seed along a BIP-32 path",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runDerive(seedHex, path, network, showPrivate); err != nil {
				fmt.Fprintf(os.Stderr, "derive failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&seedHex, "seed", "", "Hex-encoded seed (16-64 bytes)")
	cmd.Flags().StringVar(&path, "path", "m", "Derivation path, e.g. m/44'/0'/0'/0/0")
	cmd.Flags().StringVar(&network, "network", "mainnet", "Network for address rendering")
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "Prints the private key")
	_ = cmd.MarkFlagRequired("seed")
	return cmd
}

func runDerive(seedHex, path, network string, showPrivate bool) error {
	seed, err := hex.DecodeString(seedHex)
	if err != nil {
		return fmt.Errorf("seed is not valid hex: %w", err)
	}
	defer hd.ZeroBytes(seed)

	steps, err := hd.ParsePath(path)
	if err != nil {
		return err
	}

	node, err := hd.NewMaster(seed)
	if err != nil {
		return err
	}
	defer node.Wipe()

	for _, cn := range steps {
		node, err = hd.DeriveChildKey(node, cn)
		if err != nil {
			return err
		}
	}

	params, err := chain.ParamsForNetwork(network)
	if err != nil {
		return err
	}
	address, err := chain.NewBitcoinAdapter(params).GenerateAddress(node.PubKey())
	if err != nil {
		return err
	}

	fmt.Printf("path:        %s\n", node.PathString())
	fmt.Printf("public_key:  %s\n", hex.EncodeToString(node.PubKey()))
	fmt.Printf("chain_code:  %s\n", hex.EncodeToString(node.ChainCode()))
	fmt.Printf("fingerprint: %s\n", hex.EncodeToString(node.Fingerprint()))
	fmt.Printf("address:     %s\n", address)

	if showPrivate {
		priv, err := node.PrivKeyBytes33()
		if err != nil {
			return err
		}
		defer hd.ZeroBytes(priv)
		fmt.Printf("private_key: %s\n", hex.EncodeToString(priv[1:]))
	}
	return nil
}
