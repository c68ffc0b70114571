package keytool

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kashguard/go-hdkey-infra/internal/hd"
	"github.com/kashguard/go-hdkey-infra/internal/keycrypter"
)

func newDecrypt() *cobra.Command {
	var (
		pubHex       string
		chainCodeHex string
		blobHex      string
		saltHex      string
		passphrase   string
		scryptN      int
		scryptR      int
		scryptP      int
		showPrivate  bool
	)

	cmd := &cobra.Command{
		Use:   "decrypt",
		Short: "Checks a passphrase against an encrypted key blob",
		Long: "Decrypts a stored key blob offline and cross-checks the result " +
			"against the public key. A wrong passphrase produces garbage that " +
			"fails the cross-check; the blob itself cannot tell.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := runDecrypt(pubHex, chainCodeHex, blobHex, saltHex, passphrase, scryptN, scryptR, scryptP, showPrivate); err != nil {
				fmt.Fprintf(os.Stderr, "decrypt failed: %v\n", err)
				os.Exit(1)
			}
		},
	}

	cmd.Flags().StringVar(&pubHex, "public-key", "", "Hex-encoded compressed public key")
	cmd.Flags().StringVar(&chainCodeHex, "chain-code", "", "Hex-encoded 32-byte chain code")
	cmd.Flags().StringVar(&blobHex, "blob", "", "Hex-encoded encrypted private key blob")
	cmd.Flags().StringVar(&saltHex, "salt", "", "Hex-encoded KDF salt")
	cmd.Flags().StringVar(&passphrase, "passphrase", "", "Passphrase to check")
	cmd.Flags().IntVar(&scryptN, "scrypt-n", keycrypter.DefaultScryptN, "Scrypt N parameter")
	cmd.Flags().IntVar(&scryptR, "scrypt-r", keycrypter.DefaultScryptR, "Scrypt r parameter")
	cmd.Flags().IntVar(&scryptP, "scrypt-p", keycrypter.DefaultScryptP, "Scrypt p parameter")
	cmd.Flags().BoolVar(&showPrivate, "show-private", false, "Prints the decrypted private key")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("chain-code")
	_ = cmd.MarkFlagRequired("blob")
	_ = cmd.MarkFlagRequired("salt")
	_ = cmd.MarkFlagRequired("passphrase")
	return cmd
}

func runDecrypt(pubHex, chainCodeHex, blobHex, saltHex, passphrase string, scryptN, scryptR, scryptP int, showPrivate bool) error {
	pub, err := hex.DecodeString(pubHex)
	if err != nil {
		return fmt.Errorf("public key is not valid hex: %w", err)
	}
	chainCode, err := hex.DecodeString(chainCodeHex)
	if err != nil {
		return fmt.Errorf("chain code is not valid hex: %w", err)
	}
	blob, err := hex.DecodeString(blobHex)
	if err != nil {
		return fmt.Errorf("blob is not valid hex: %w", err)
	}
	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return fmt.Errorf("salt is not valid hex: %w", err)
	}

	crypter, err := keycrypter.NewScryptAESWithParams(salt, scryptN, scryptR, scryptP)
	if err != nil {
		return err
	}
	node, err := hd.NewEncryptedKey(nil, chainCode, pub, blob, crypter, nil)
	if err != nil {
		return err
	}

	aesKey, err := crypter.DeriveKey(passphrase)
	if err != nil {
		return err
	}
	defer hd.ZeroBytes(aesKey)

	decrypted, err := node.Decrypt(crypter, aesKey)
	if err != nil {
		return err
	}
	defer decrypted.Wipe()

	fmt.Printf("passphrase:  ok\n")
	fmt.Printf("fingerprint: %s\n", hex.EncodeToString(decrypted.Fingerprint()))

	if showPrivate {
		priv, err := decrypted.PrivKeyBytes33()
		if err != nil {
			return err
		}
		defer hd.ZeroBytes(priv)
		fmt.Printf("private_key: %s\n", hex.EncodeToString(priv[1:]))
	}
	return nil
}
