// Package storage persists key metadata. Private key material only ever
// enters this layer in encrypted form.
package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("storage: record not found")

// RootKeyRecord is the persisted form of a root key: public material in the
// clear, private material as a ciphertext blob plus the KDF parameters
// needed to rebuild its crypter.
type RootKeyRecord struct {
	KeyID               string
	PublicKey           string // hex, 33-byte compressed point
	ChainCode           string // hex, 32 bytes
	EncryptedPrivateKey string // hex, crypter blob
	KDFSalt             string // hex
	ScryptN             int
	ScryptR             int
	ScryptP             int
	Network             string
	Status              string
	Description         string
	Tags                map[string]string
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// WalletKeyRecord is a derived, watch-only wallet key under a root key.
type WalletKeyRecord struct {
	WalletID    string
	RootKeyID   string
	ChainType   string
	Path        string // BIP-32 path string, e.g. "m/0/5"
	PublicKey   string // hex
	ChainCode   string // hex
	Address     string
	Status      string
	Description string
	CreatedAt   time.Time
}

// RootKeyFilter narrows ListRootKeys.
type RootKeyFilter struct {
	Status  string
	Network string
}

// MetadataStore is the persistence boundary for the key service.
type MetadataStore interface {
	SaveRootKey(ctx context.Context, rec *RootKeyRecord) error
	GetRootKey(ctx context.Context, keyID string) (*RootKeyRecord, error)
	ListRootKeys(ctx context.Context, filter *RootKeyFilter) ([]*RootKeyRecord, error)
	DeleteRootKey(ctx context.Context, keyID string) error

	SaveWalletKey(ctx context.Context, rec *WalletKeyRecord) error
	GetWalletKey(ctx context.Context, walletID string) (*WalletKeyRecord, error)
	ListWalletKeys(ctx context.Context, rootKeyID string) ([]*WalletKeyRecord, error)
	DeleteWalletKey(ctx context.Context, walletID string) error
}
