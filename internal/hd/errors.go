package hd

import "github.com/pkg/errors"

var (
	// ErrInvalidChainCode is returned by every constructor when the chain
	// code is not exactly 32 bytes. A key never exists with a bad chain code.
	ErrInvalidChainCode = errors.New("hd: chain code must be exactly 32 bytes")

	// ErrNoPrivateKey means the walk up the parent chain found no plaintext
	// private key material; the branch is watch-only.
	ErrNoPrivateKey = errors.New("hd: no private key available in this branch")

	// ErrNothingToDecrypt means neither this key nor any ancestor carries an
	// encrypted private key blob.
	ErrNothingToDecrypt = errors.New("hd: neither this key nor its parents have an encrypted private key")

	// ErrCipherMismatch means the key crypter passed to Decrypt differs from
	// the one recorded when the key was encrypted.
	ErrCipherMismatch = errors.New("hd: key crypter differs from the one used to encrypt this key")

	// ErrWrongPassphrase means decryption produced a structurally valid
	// private key whose public key does not match the stored one. This is
	// the expected signal for a wrong passphrase.
	ErrWrongPassphrase = errors.New("hd: decrypted private key does not match the stored public key")

	// ErrDerivationIntegrity means plaintext reconstruction re-derived a key
	// whose public key does not match the stored one. No user secret was
	// involved, so this indicates corrupted key data or a construction bug.
	// Callers must not attempt automatic recovery.
	ErrDerivationIntegrity = errors.New("hd: re-derived public key does not match the stored public key")

	// ErrHardenedFromPub means a hardened child was requested from a parent
	// without a private key.
	ErrHardenedFromPub = errors.New("hd: hardened derivation requires the parent private key")

	// ErrInvalidDerivedKey means the HMAC output fell outside the valid
	// scalar range for the curve. Per BIP-32 the caller should retry with
	// the next index.
	ErrInvalidDerivedKey = errors.New("hd: derived key is outside the valid range")

	// ErrInvalidSeed means the seed hashes to an invalid master key.
	ErrInvalidSeed = errors.New("hd: seed produces an invalid master key")
)
