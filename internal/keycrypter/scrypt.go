package keycrypter

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"

	"github.com/pkg/errors"
	"golang.org/x/crypto/scrypt"
)

// Default scrypt parameters. N=16384 keeps key stretching around tens of
// milliseconds on commodity hardware, matching common wallet practice.
const (
	DefaultScryptN = 16384
	DefaultScryptR = 8
	DefaultScryptP = 1

	SaltLength = 8
	KeyLength  = 32
)

// ScryptAES derives AES-256 keys from passphrases with scrypt and encrypts
// with AES-CTR. The blob layout is iv || ciphertext. CTR mode is used
// instead of an authenticated mode on purpose: a wrong passphrase must
// produce garbage bytes of the right length so the caller's public key
// cross-check is the single source of truth for passphrase validity.
type ScryptAES struct {
	salt    []byte
	n, r, p int
}

// NewScryptAES creates a crypter with a fresh random salt and default
// parameters.
func NewScryptAES() (*ScryptAES, error) {
	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "keycrypter: failed to generate salt")
	}
	return NewScryptAESWithParams(salt, DefaultScryptN, DefaultScryptR, DefaultScryptP)
}

// NewScryptAESWithParams reconstructs a crypter from stored parameters, e.g.
// when re-opening a persisted encrypted key.
func NewScryptAESWithParams(salt []byte, n, r, p int) (*ScryptAES, error) {
	if len(salt) == 0 {
		return nil, errors.New("keycrypter: salt is required")
	}
	if n <= 1 || r <= 0 || p <= 0 {
		return nil, errors.Errorf("keycrypter: invalid scrypt parameters N=%d r=%d p=%d", n, r, p)
	}
	return &ScryptAES{
		salt: append([]byte(nil), salt...),
		n:    n,
		r:    r,
		p:    p,
	}, nil
}

// Salt returns a copy of the KDF salt for persistence alongside the
// ciphertext.
func (s *ScryptAES) Salt() []byte {
	return append([]byte(nil), s.salt...)
}

// DeriveKey stretches the passphrase into a 32-byte AES key.
func (s *ScryptAES) DeriveKey(passphrase string) ([]byte, error) {
	key, err := scrypt.Key([]byte(passphrase), s.salt, s.n, s.r, s.p, KeyLength)
	if err != nil {
		return nil, errors.Wrap(err, "keycrypter: scrypt key derivation failed")
	}
	return key, nil
}

// Encrypt encrypts plain with AES-256-CTR under a random IV.
func (s *ScryptAES) Encrypt(plain, key []byte) ([]byte, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "keycrypter: invalid AES key")
	}

	out := make([]byte, aes.BlockSize+len(plain))
	iv := out[:aes.BlockSize]
	if _, err := rand.Read(iv); err != nil {
		return nil, errors.Wrap(err, "keycrypter: failed to generate IV")
	}

	cipher.NewCTR(block, iv).XORKeyStream(out[aes.BlockSize:], plain)
	return out, nil
}

// Decrypt reverses Encrypt. A wrong key produces garbage plaintext, not an
// error.
func (s *ScryptAES) Decrypt(blob, key []byte) ([]byte, error) {
	if len(blob) < aes.BlockSize {
		return nil, errors.Errorf("keycrypter: blob too short, got %d bytes", len(blob))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, errors.Wrap(err, "keycrypter: invalid AES key")
	}

	iv, ct := blob[:aes.BlockSize], blob[aes.BlockSize:]
	plain := make([]byte, len(ct))
	cipher.NewCTR(block, iv).XORKeyStream(plain, ct)
	return plain, nil
}

// Equal reports whether other is a ScryptAES with the same salt and
// parameters.
func (s *ScryptAES) Equal(other KeyCrypter) bool {
	o, ok := other.(*ScryptAES)
	if !ok {
		return false
	}
	return bytes.Equal(s.salt, o.salt) && s.n == o.n && s.r == o.r && s.p == o.p
}
