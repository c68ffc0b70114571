// Package hd implements a node in a BIP-32 hierarchical deterministic key
// tree: a (key, chain code) pair at a known path, with an optional link to
// its parent. Private key material may be held in plaintext, held as an
// encrypted blob, or absent entirely and reconstructed on demand by walking
// up to the nearest ancestor that has it and re-deriving forward.
package hd

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/btcsuite/btcd/btcec/v2"
	"github.com/btcsuite/btcd/btcec/v2/ecdsa"
	"github.com/kashguard/go-hdkey-infra/internal/keycrypter"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ripemd160"
)

// DeterministicKey is one position in an HD key tree.
//
// A key is immutable after construction except for the explicit Wipe
// operation. The parent link is a shared back-reference: children never own
// or mutate their parent, so arbitrarily many keys may point at the same
// ancestor.
type DeterministicKey struct {
	parent *DeterministicKey
	path   []ChildNumber

	chainCode []byte // always 32 bytes
	pub       []byte // always 33-byte compressed secp256k1 point

	priv          *big.Int // nil unless materialized in plaintext
	encryptedPriv []byte   // nil unless this key itself was encrypted
	crypter       keycrypter.KeyCrypter

	creationTime int64 // unix seconds, 0 if unknown
}

// NewKey constructs a key from a decoded public point. Path may be nil for a
// master key; priv and parent are optional.
func NewKey(path []ChildNumber, chainCode []byte, pub *btcec.PublicKey, priv *big.Int, parent *DeterministicKey) (*DeterministicKey, error) {
	if pub == nil {
		return nil, errors.New("hd: public key is required")
	}
	return NewKeyFromBytes(path, chainCode, pub.SerializeCompressed(), priv, parent)
}

// NewKeyFromBytes constructs a key from raw compressed public key bytes.
func NewKeyFromBytes(path []ChildNumber, chainCode, pub []byte, priv *big.Int, parent *DeterministicKey) (*DeterministicKey, error) {
	if len(chainCode) != 32 {
		return nil, errors.Wrapf(ErrInvalidChainCode, "got %d bytes", len(chainCode))
	}
	if len(pub) == 0 {
		return nil, errors.New("hd: public key is required")
	}
	if priv != nil {
		if err := checkPrivRange(priv); err != nil {
			return nil, err
		}
	}

	k := &DeterministicKey{
		parent:    parent,
		path:      copyPath(path),
		chainCode: append([]byte(nil), chainCode...),
		pub:       append([]byte(nil), pub...),
	}
	if priv != nil {
		k.priv = new(big.Int).Set(priv)
	}
	return k, nil
}

// NewKeyFromPrivate constructs a fully materialized key; the public key is
// computed from the private scalar.
func NewKeyFromPrivate(path []ChildNumber, chainCode []byte, priv *big.Int, parent *DeterministicKey) (*DeterministicKey, error) {
	if priv == nil {
		return nil, errors.New("hd: private key is required")
	}
	if err := checkPrivRange(priv); err != nil {
		return nil, err
	}

	raw := priv.FillBytes(make([]byte, 32))
	privKey, _ := btcec.PrivKeyFromBytes(raw)
	zeroBytes(raw)

	return NewKeyFromBytes(path, chainCode, privKey.PubKey().SerializeCompressed(), priv, parent)
}

// NewEncryptedKey constructs a key that carries ciphertext instead of a
// plaintext private key. The crypter records which cipher produced the blob
// so a later Decrypt with a different one can be rejected.
func NewEncryptedKey(path []ChildNumber, chainCode, pub, encryptedPriv []byte, crypter keycrypter.KeyCrypter, parent *DeterministicKey) (*DeterministicKey, error) {
	k, err := NewKeyFromBytes(path, chainCode, pub, nil, parent)
	if err != nil {
		return nil, err
	}
	k.encryptedPriv = append([]byte(nil), encryptedPriv...)
	k.crypter = crypter
	return k, nil
}

func checkPrivRange(priv *big.Int) error {
	if priv.Sign() <= 0 || priv.Cmp(btcec.S256().N) >= 0 {
		return errors.New("hd: private key is outside the valid range")
	}
	return nil
}

func copyPath(path []ChildNumber) []ChildNumber {
	if len(path) == 0 {
		return nil
	}
	return append([]ChildNumber(nil), path...)
}

// Path returns a copy of the derivation path from the master key to this
// key. An empty path means this is a master key.
func (k *DeterministicKey) Path() []ChildNumber {
	return copyPath(k.path)
}

// PathString renders the path in the human readable "m/44'/0'/1" form.
func (k *DeterministicKey) PathString() string {
	return FormatPath(k.path)
}

// Depth is the number of derivation steps from the master key.
func (k *DeterministicKey) Depth() int {
	return len(k.path)
}

// ChildNum returns the last path element, or ZeroChildNumber for a master key.
func (k *DeterministicKey) ChildNum() ChildNumber {
	if len(k.path) == 0 {
		return ZeroChildNumber
	}
	return k.path[len(k.path)-1]
}

// Parent returns the parent key, or nil for a master key or a detached node.
func (k *DeterministicKey) Parent() *DeterministicKey {
	return k.parent
}

// ChainCode returns a copy of the 32-byte chain code.
func (k *DeterministicKey) ChainCode() []byte {
	return append([]byte(nil), k.chainCode...)
}

// PubKey returns a copy of the 33-byte compressed public key.
func (k *DeterministicKey) PubKey() []byte {
	return append([]byte(nil), k.pub...)
}

// PubKeyExtended returns the public key immediately followed by the chain
// code, with no length prefix or separator.
func (k *DeterministicKey) PubKeyExtended() []byte {
	out := make([]byte, 0, len(k.pub)+len(k.chainCode))
	out = append(out, k.pub...)
	return append(out, k.chainCode...)
}

// Identifier returns RIPEMD160(SHA256(pub)).
func (k *DeterministicKey) Identifier() []byte {
	sha := sha256.Sum256(k.pub)
	h := ripemd160.New()
	h.Write(sha[:])
	return h.Sum(nil)
}

// Fingerprint returns the first 4 bytes of the identifier. BIP-32 calls the
// first 32 bits of the identifier the fingerprint; armory computes something
// different, and this form is kept as the documented behavior.
func (k *DeterministicKey) Fingerprint() []byte {
	return k.Identifier()[:4]
}

// CreationTime returns the creation time in unix seconds, 0 if unknown.
func (k *DeterministicKey) CreationTime() int64 {
	return k.creationTime
}

// SetCreationTime records when the key was created. Metadata only; it does
// not participate in equality.
func (k *DeterministicKey) SetCreationTime(unixSeconds int64) {
	k.creationTime = unixSeconds
}

// PrivKeyBytes33 returns the locally held private key as a fixed 33-byte
// big-endian buffer, left-padded with zeros. It never triggers tree-walk
// reconstruction; use PrivKey for that.
func (k *DeterministicKey) PrivKeyBytes33() ([]byte, error) {
	if k.priv == nil {
		return nil, errors.Wrap(ErrNoPrivateKey, "private key not materialized on this key")
	}
	return k.priv.FillBytes(make([]byte, 33)), nil
}

// EncryptedPrivKey returns a copy of this key's own ciphertext blob, nil
// when the key was not itself encrypted (even if an ancestor was).
func (k *DeterministicKey) EncryptedPrivKey() []byte {
	if k.encryptedPriv == nil {
		return nil
	}
	return append([]byte(nil), k.encryptedPriv...)
}

// IsPubKeyOnly reports whether the key holds neither a plaintext private key
// nor an encrypted blob.
func (k *DeterministicKey) IsPubKeyOnly() bool {
	return k.priv == nil && k.encryptedPriv == nil
}

// PubOnly returns the same key with all private material removed. If the key
// is already public-only the same instance is returned.
func (k *DeterministicKey) PubOnly() *DeterministicKey {
	if k.IsPubKeyOnly() {
		return k
	}
	stripped, err := NewKeyFromBytes(k.path, k.chainCode, k.pub, nil, k.parent)
	if err != nil {
		// Fields were already validated when k was built.
		panic(err)
	}
	stripped.creationTime = k.creationTime
	return stripped
}

// IsEncrypted reports whether private key material for this key exists only
// in encrypted form. A key with no blob of its own still counts as encrypted
// when an ancestor is, because its private key can be re-derived from that
// ancestor's decrypted material.
func (k *DeterministicKey) IsEncrypted() bool {
	if k.priv != nil {
		return false
	}
	if k.encryptedPriv != nil {
		return true
	}
	return k.parent != nil && k.parent.IsEncrypted()
}

// KeyCrypter returns the crypter that encrypted this key, or the nearest
// ancestor's, or nil. Mirrors the IsEncrypted inheritance rule.
func (k *DeterministicKey) KeyCrypter() keycrypter.KeyCrypter {
	if k.crypter != nil {
		return k.crypter
	}
	if k.parent != nil {
		return k.parent.KeyCrypter()
	}
	return nil
}

// PrivKey returns the private key, re-deriving it from the nearest ancestor
// holding plaintext material when this key does not. The cost is one HMAC
// derivation plus one scalar multiplication per level of depth difference;
// nothing is cached, so repeat callers should keep the result.
func (k *DeterministicKey) PrivKey() (*big.Int, error) {
	cursor := k
	for cursor != nil && cursor.priv == nil {
		cursor = cursor.parent
	}
	if cursor == nil {
		return nil, errors.Wrapf(ErrNoPrivateKey, "path %s", k.PathString())
	}

	down, err := k.deriveDownwards(cursor, cursor.priv)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(down.pub, k.pub) {
		return nil, errors.Wrapf(ErrDerivationIntegrity, "path %s", k.PathString())
	}
	return down.priv, nil
}

// deriveDownwards rebuilds this key's materialized form starting from an
// ancestor (cursor must lie on k's parent chain, or be k itself) and the
// plaintext private scalar that belongs at the ancestor's position. The
// caller is responsible for comparing the result's public key against k's.
func (k *DeterministicKey) deriveDownwards(cursor *DeterministicKey, priv *big.Int) (*DeterministicKey, error) {
	down, err := NewKeyFromBytes(cursor.path, cursor.chainCode, cursor.pub, priv, cursor.parent)
	if err != nil {
		return nil, err
	}
	for _, cn := range k.path[cursor.Depth():] {
		down, err = DeriveChildKey(down, cn)
		if err != nil {
			return nil, err
		}
	}
	return down, nil
}

// Decrypt reconstructs the plaintext private key from the nearest encrypted
// ancestor (this key included) and returns a new materialized key at the
// same position. The receiver is left untouched.
//
// A wrong key is not detected by the cipher itself; it surfaces as garbage
// plaintext and is caught by the public key cross-check, which returns
// ErrWrongPassphrase. This is the primary passphrase-validation signal.
func (k *DeterministicKey) Decrypt(crypter keycrypter.KeyCrypter, key []byte) (*DeterministicKey, error) {
	if crypter == nil {
		return nil, errors.New("hd: key crypter is required")
	}
	if k.crypter != nil && !k.crypter.Equal(crypter) {
		return nil, errors.Wrapf(ErrCipherMismatch, "path %s", k.PathString())
	}

	priv, err := k.findOrDecryptPrivateKey(crypter, key)
	if err != nil {
		return nil, err
	}

	decrypted, err := NewKeyFromPrivate(k.path, k.chainCode, priv, k.parent)
	if err != nil {
		// Garbage plaintext can fall outside the scalar range; that is
		// still just a wrong key from the caller's perspective.
		return nil, errors.Wrapf(ErrWrongPassphrase, "path %s", k.PathString())
	}
	if !bytes.Equal(decrypted.pub, k.pub) {
		decrypted.Wipe()
		return nil, errors.Wrapf(ErrWrongPassphrase, "path %s", k.PathString())
	}
	decrypted.creationTime = k.creationTime
	return decrypted, nil
}

// findOrDecryptPrivateKey climbs to the nearest key with an encrypted blob,
// decrypts it, and when the blob belongs to an ancestor re-derives forward
// to this key's position.
func (k *DeterministicKey) findOrDecryptPrivateKey(crypter keycrypter.KeyCrypter, key []byte) (*big.Int, error) {
	cursor := k
	for cursor != nil && cursor.encryptedPriv == nil {
		cursor = cursor.parent
	}
	if cursor == nil {
		return nil, errors.Wrapf(ErrNothingToDecrypt, "path %s", k.PathString())
	}

	plain, err := crypter.Decrypt(cursor.encryptedPriv, key)
	if err != nil {
		return nil, errors.Wrap(err, "hd: failed to decrypt private key blob")
	}
	priv := new(big.Int).SetBytes(plain)
	zeroBytes(plain)

	if cursor == k {
		return priv, nil
	}

	down, err := k.deriveDownwards(cursor, priv)
	if err != nil {
		// A garbage ancestor scalar from a wrong key can fail derivation
		// before the final cross-check.
		return nil, errors.Wrapf(ErrWrongPassphrase, "path %s", k.PathString())
	}
	return down.priv, nil
}

// Encrypt returns a copy of this key holding the private key only as a
// ciphertext blob. The new parent, when given, must itself be encrypted so
// the inheritance rule stays consistent. The receiver is left untouched.
func (k *DeterministicKey) Encrypt(crypter keycrypter.KeyCrypter, key []byte, newParent *DeterministicKey) (*DeterministicKey, error) {
	if crypter == nil {
		return nil, errors.New("hd: key crypter is required")
	}
	if k.priv == nil {
		return nil, errors.Wrap(ErrNoPrivateKey, "cannot encrypt a key without plaintext private material")
	}
	if newParent != nil && !newParent.IsEncrypted() {
		return nil, errors.New("hd: new parent of an encrypted key must be encrypted")
	}

	raw := k.priv.FillBytes(make([]byte, 32))
	blob, err := crypter.Encrypt(raw, key)
	zeroBytes(raw)
	if err != nil {
		return nil, errors.Wrap(err, "hd: failed to encrypt private key")
	}

	enc, err := NewEncryptedKey(k.path, k.chainCode, k.pub, blob, crypter, newParent)
	if err != nil {
		return nil, err
	}
	enc.creationTime = k.creationTime
	return enc, nil
}

// DeriveSoftened derives the normal (non-hardened) child at index.
func (k *DeterministicKey) DeriveSoftened(index uint32) (*DeterministicKey, error) {
	cn, err := NewChildNumber(index, false)
	if err != nil {
		return nil, err
	}
	return DeriveChildKey(k, cn)
}

// DeriveHardened derives the hardened child at index.
func (k *DeterministicKey) DeriveHardened(index uint32) (*DeterministicKey, error) {
	cn, err := NewChildNumber(index, true)
	if err != nil {
		return nil, err
	}
	return DeriveChildKey(k, cn)
}

// SignHash signs a 32-byte digest with ECDSA over secp256k1, reconstructing
// the private key through the parent chain when necessary. Returns the
// DER-encoded signature.
func (k *DeterministicKey) SignHash(digest []byte) ([]byte, error) {
	if len(digest) != 32 {
		return nil, errors.Errorf("hd: digest must be 32 bytes, got %d", len(digest))
	}
	priv, err := k.PrivKey()
	if err != nil {
		return nil, err
	}

	raw := priv.FillBytes(make([]byte, 32))
	privKey, _ := btcec.PrivKeyFromBytes(raw)
	zeroBytes(raw)
	defer privKey.Zero()

	sig := ecdsa.Sign(privKey, digest)
	return sig.Serialize(), nil
}

// ClearPrivateKey zeroes and drops the plaintext private key and any
// encrypted blob held by this key.
func (k *DeterministicKey) ClearPrivateKey() {
	if k.priv != nil {
		k.priv.SetInt64(0)
		k.priv = nil
	}
	zeroBytes(k.encryptedPriv)
	k.encryptedPriv = nil
}

// ClearChainCode zeroes the chain code in place.
func (k *DeterministicKey) ClearChainCode() {
	zeroBytes(k.chainCode)
}

// Wipe irreversibly zeroes the private key, chain code and public key bytes.
// The key is unusable afterwards; callers must not invoke other accessors on
// a wiped key. Wipe is destructive and must be externally synchronized
// against concurrent readers of the same key.
func (k *DeterministicKey) Wipe() {
	k.ClearPrivateKey()
	k.ClearChainCode()
	zeroBytes(k.pub)
}

// Equal compares public key, chain code and path. The parent link is
// deliberately excluded, so the same logical key reached through two
// different tree instances compares equal.
func (k *DeterministicKey) Equal(other *DeterministicKey) bool {
	if other == nil {
		return false
	}
	if !bytes.Equal(k.pub, other.pub) || !bytes.Equal(k.chainCode, other.chainCode) {
		return false
	}
	if len(k.path) != len(other.path) {
		return false
	}
	for i := range k.path {
		if k.path[i] != other.path[i] {
			return false
		}
	}
	return true
}

// Hash digests the same fields Equal compares, so equal keys hash
// identically regardless of how they were reached.
func (k *DeterministicKey) Hash() [32]byte {
	h := sha256.New()
	h.Write(k.pub)
	h.Write(k.chainCode)
	var idx [4]byte
	for _, cn := range k.path {
		idx[0] = byte(cn.Value() >> 24)
		idx[1] = byte(cn.Value() >> 16)
		idx[2] = byte(cn.Value() >> 8)
		idx[3] = byte(cn.Value())
		h.Write(idx[:])
	}
	var out [32]byte
	copy(out[:], h.Sum(nil))
	return out
}

// String renders the public fields only; the private key never appears.
func (k *DeterministicKey) String() string {
	s := fmt.Sprintf("DeterministicKey{pub=%x, chainCode=%x, path=%s, isEncrypted=%t, isPubKeyOnly=%t",
		k.pub, k.chainCode, k.PathString(), k.IsEncrypted(), k.IsPubKeyOnly())
	if k.creationTime > 0 {
		s += fmt.Sprintf(", creationTime=%d", k.creationTime)
	}
	return s + "}"
}
