package keycrypter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCrypter(t *testing.T, salt string) *ScryptAES {
	t.Helper()
	crypter, err := NewScryptAESWithParams([]byte(salt), 4, 2, 1)
	require.NoError(t, err)
	return crypter
}

func TestScryptAESRoundTrip(t *testing.T) {
	crypter := newTestCrypter(t, "salt-a")

	key, err := crypter.DeriveKey("passphrase")
	require.NoError(t, err)
	require.Len(t, key, KeyLength)

	plain := []byte("exactly thirty-two bytes of key!")
	blob, err := crypter.Encrypt(plain, key)
	require.NoError(t, err)
	assert.NotEqual(t, plain, blob)

	got, err := crypter.Decrypt(blob, key)
	require.NoError(t, err)
	assert.Equal(t, plain, got)
}

func TestScryptAESDeriveKeyDeterministic(t *testing.T) {
	crypter := newTestCrypter(t, "salt-a")

	k1, err := crypter.DeriveKey("passphrase")
	require.NoError(t, err)
	k2, err := crypter.DeriveKey("passphrase")
	require.NoError(t, err)
	assert.Equal(t, k1, k2)

	k3, err := crypter.DeriveKey("other")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k3)

	// Different salt, different key for the same passphrase.
	k4, err := newTestCrypter(t, "salt-b").DeriveKey("passphrase")
	require.NoError(t, err)
	assert.NotEqual(t, k1, k4)
}

func TestScryptAESWrongKeyYieldsGarbage(t *testing.T) {
	crypter := newTestCrypter(t, "salt-a")

	key, err := crypter.DeriveKey("correct")
	require.NoError(t, err)
	wrong, err := crypter.DeriveKey("wrong")
	require.NoError(t, err)

	plain := make([]byte, 32)
	blob, err := crypter.Encrypt(plain, key)
	require.NoError(t, err)

	// No authentication: decryption succeeds but yields different bytes of
	// the same length. Callers validate against public key material.
	got, err := crypter.Decrypt(blob, wrong)
	require.NoError(t, err)
	require.Len(t, got, len(plain))
	assert.NotEqual(t, plain, got)
}

func TestScryptAESRandomIV(t *testing.T) {
	crypter := newTestCrypter(t, "salt-a")

	key, err := crypter.DeriveKey("passphrase")
	require.NoError(t, err)

	plain := make([]byte, 32)
	blob1, err := crypter.Encrypt(plain, key)
	require.NoError(t, err)
	blob2, err := crypter.Encrypt(plain, key)
	require.NoError(t, err)
	assert.NotEqual(t, blob1, blob2)
}

func TestScryptAESDecryptShortBlob(t *testing.T) {
	crypter := newTestCrypter(t, "salt-a")

	key, err := crypter.DeriveKey("passphrase")
	require.NoError(t, err)

	_, err = crypter.Decrypt(make([]byte, 8), key)
	require.Error(t, err)
}

func TestScryptAESEqual(t *testing.T) {
	a := newTestCrypter(t, "salt-a")
	b := newTestCrypter(t, "salt-a")
	c := newTestCrypter(t, "salt-c")

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))

	d, err := NewScryptAESWithParams([]byte("salt-a"), 8, 2, 1)
	require.NoError(t, err)
	assert.False(t, a.Equal(d))
}

func TestNewScryptAES(t *testing.T) {
	crypter, err := NewScryptAES()
	require.NoError(t, err)
	assert.Len(t, crypter.Salt(), SaltLength)

	_, err = NewScryptAESWithParams(nil, 4, 2, 1)
	require.Error(t, err)
	_, err = NewScryptAESWithParams([]byte("salt"), 0, 2, 1)
	require.Error(t, err)
}
