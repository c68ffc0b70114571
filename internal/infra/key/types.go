package key

// Key lifecycle states recorded in metadata.
const (
	StatusActive  = "active"
	StatusDeleted = "deleted"
)

// CreateRootKeyRequest creates a new root key. Seed is optional; when nil a
// random 32-byte seed is generated. The passphrase encrypts the master
// private key at rest and is never stored.
type CreateRootKeyRequest struct {
	Seed        []byte
	Passphrase  string
	Description string
	Tags        map[string]string
}

// DeriveWalletKeyRequest derives a watch-only wallet key at a single
// non-hardened index under a root key. No passphrase needed: the child
// public key is computed from the root public key alone.
type DeriveWalletKeyRequest struct {
	RootKeyID   string
	ChainType   string
	Index       uint32
	Description string
}

// DeriveWalletKeyByPathRequest derives a wallet key along a full BIP-32
// path, e.g. "m/44'/0'/0'/0/0". Hardened steps require the passphrase to
// unlock the root private key.
type DeriveWalletKeyByPathRequest struct {
	RootKeyID   string
	ChainType   string
	Path        string
	Passphrase  string
	Description string
}

// SignDigestRequest signs a 32-byte digest with a derived wallet key. The
// private key is reconstructed from the encrypted root, used once, and
// wiped.
type SignDigestRequest struct {
	WalletID   string
	Passphrase string
	Digest     []byte
}
