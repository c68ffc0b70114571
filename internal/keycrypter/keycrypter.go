// Package keycrypter provides passphrase-based symmetric encryption for raw
// private key bytes. The cipher deliberately carries no authentication: a
// wrong key yields garbage plaintext rather than an error, and callers are
// expected to validate the result against known public key material.
package keycrypter

// KeyCrypter encrypts and decrypts raw private key bytes with a symmetric
// key derived from a passphrase. Implementations carry an identity (KDF
// parameters and salt) so that a key encrypted with one crypter can reject
// decryption attempts with a different one.
type KeyCrypter interface {
	// DeriveKey stretches a passphrase into a symmetric key.
	DeriveKey(passphrase string) ([]byte, error)

	// Encrypt encrypts plaintext with the given symmetric key.
	Encrypt(plain, key []byte) ([]byte, error)

	// Decrypt decrypts a blob produced by Encrypt. A wrong key is not
	// detected here; it surfaces as garbage plaintext.
	Decrypt(blob, key []byte) ([]byte, error)

	// Equal reports whether other would produce the same ciphertext for the
	// same inputs, i.e. has the same parameters and salt.
	Equal(other KeyCrypter) bool
}
