package types

import (
	"encoding/hex"

	"github.com/pkg/errors"
)

// MinPassphraseLength guards against trivially weak passphrases at the API
// boundary; wallet-level policy beyond this is out of scope.
const MinPassphraseLength = 8

// PostCreateKeyPayload creates a new root key. When SeedHex is omitted a
// random 32-byte seed is generated server side and never returned.
type PostCreateKeyPayload struct {
	SeedHex     string            `json:"seed_hex,omitempty"`
	Passphrase  string            `json:"passphrase"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
}

func (p *PostCreateKeyPayload) Validate() error {
	if len(p.Passphrase) < MinPassphraseLength {
		return errors.Errorf("passphrase must be at least %d characters", MinPassphraseLength)
	}
	if p.SeedHex != "" {
		seed, err := hex.DecodeString(p.SeedHex)
		if err != nil {
			return errors.New("seed_hex must be valid hex")
		}
		if len(seed) < 16 || len(seed) > 64 {
			return errors.New("seed must be between 16 and 64 bytes")
		}
	}
	return nil
}

// PostDeriveKeyPayload derives a watch-only wallet key at a single
// non-hardened index under a root key.
type PostDeriveKeyPayload struct {
	RootKeyID   string `json:"root_key_id"`
	ChainType   string `json:"chain_type"`
	Index       int64  `json:"index"`
	Description string `json:"description,omitempty"`
}

func (p *PostDeriveKeyPayload) Validate() error {
	if p.RootKeyID == "" {
		return errors.New("root_key_id is required")
	}
	if p.Index < 0 || p.Index > 0x7FFFFFFF {
		return errors.New("index must be a 31-bit unsigned integer")
	}
	return nil
}

// PostDeriveKeyByPathPayload derives a wallet key along a full BIP-32 path.
// Hardened steps require the root key passphrase.
type PostDeriveKeyByPathPayload struct {
	RootKeyID   string `json:"root_key_id"`
	ChainType   string `json:"chain_type"`
	Path        string `json:"path"`
	Passphrase  string `json:"passphrase,omitempty"`
	Description string `json:"description,omitempty"`
}

func (p *PostDeriveKeyByPathPayload) Validate() error {
	if p.RootKeyID == "" {
		return errors.New("root_key_id is required")
	}
	if p.Path == "" {
		return errors.New("path is required")
	}
	return nil
}

// PostValidatePassphrasePayload checks a passphrase against a root key.
type PostValidatePassphrasePayload struct {
	Passphrase string `json:"passphrase"`
}

func (p *PostValidatePassphrasePayload) Validate() error {
	if p.Passphrase == "" {
		return errors.New("passphrase is required")
	}
	return nil
}

// PostSignPayload signs a 32-byte digest with a derived wallet key.
type PostSignPayload struct {
	Passphrase string `json:"passphrase"`
	DigestHex  string `json:"digest_hex"`
}

func (p *PostSignPayload) Validate() error {
	if p.Passphrase == "" {
		return errors.New("passphrase is required")
	}
	digest, err := hex.DecodeString(p.DigestHex)
	if err != nil {
		return errors.New("digest_hex must be valid hex")
	}
	if len(digest) != 32 {
		return errors.New("digest must be exactly 32 bytes")
	}
	return nil
}

// KeyResponse is the public projection of a root key. Private material and
// ciphertext never appear here.
type KeyResponse struct {
	KeyID       string            `json:"key_id"`
	PublicKey   string            `json:"public_key"`
	ChainCode   string            `json:"chain_code"`
	Fingerprint string            `json:"fingerprint"`
	Network     string            `json:"network"`
	Status      string            `json:"status"`
	Description string            `json:"description,omitempty"`
	Tags        map[string]string `json:"tags,omitempty"`
	CreatedAt   string            `json:"created_at"`
}

// WalletKeyResponse is the public projection of a derived wallet key.
type WalletKeyResponse struct {
	WalletID    string `json:"wallet_id"`
	RootKeyID   string `json:"root_key_id"`
	ChainType   string `json:"chain_type"`
	Path        string `json:"path"`
	PublicKey   string `json:"public_key"`
	ChainCode   string `json:"chain_code"`
	Address     string `json:"address"`
	Status      string `json:"status"`
	Description string `json:"description,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// KeyListResponse wraps a key listing.
type KeyListResponse struct {
	Keys []*KeyResponse `json:"keys"`
}

// WalletKeyListResponse wraps a wallet key listing.
type WalletKeyListResponse struct {
	WalletKeys []*WalletKeyResponse `json:"wallet_keys"`
}

// SignResponse carries a DER-encoded ECDSA signature.
type SignResponse struct {
	WalletID     string `json:"wallet_id"`
	SignatureDER string `json:"signature_der"`
}

// ValidatePassphraseResponse reports a passphrase check result.
type ValidatePassphraseResponse struct {
	KeyID string `json:"key_id"`
	Valid bool   `json:"valid"`
}
