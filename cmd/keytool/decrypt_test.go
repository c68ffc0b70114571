package keytool

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kashguard/go-hdkey-infra/internal/hd"
	"github.com/kashguard/go-hdkey-infra/internal/keycrypter"
)

func encryptedFixture(t *testing.T, passphrase string) (pubHex, chainCodeHex, blobHex, saltHex string) {
	t.Helper()

	seed, err := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	require.NoError(t, err)
	master, err := hd.NewMaster(seed)
	require.NoError(t, err)

	crypter, err := keycrypter.NewScryptAESWithParams([]byte("testsalt"), 4, 2, 1)
	require.NoError(t, err)
	aesKey, err := crypter.DeriveKey(passphrase)
	require.NoError(t, err)

	encrypted, err := master.Encrypt(crypter, aesKey, nil)
	require.NoError(t, err)

	return hex.EncodeToString(master.PubKey()),
		hex.EncodeToString(master.ChainCode()),
		hex.EncodeToString(encrypted.EncryptedPrivKey()),
		hex.EncodeToString(crypter.Salt())
}

func TestRunDecrypt(t *testing.T) {
	pub, chainCode, blob, salt := encryptedFixture(t, "correct horse")

	err := runDecrypt(pub, chainCode, blob, salt, "correct horse", 4, 2, 1, true)
	require.NoError(t, err)
}

func TestRunDecryptWrongPassphrase(t *testing.T) {
	pub, chainCode, blob, salt := encryptedFixture(t, "correct horse")

	err := runDecrypt(pub, chainCode, blob, salt, "battery staple", 4, 2, 1, false)
	require.ErrorIs(t, err, hd.ErrWrongPassphrase)
}

func TestRunDecryptRejectsBadInput(t *testing.T) {
	pub, chainCode, blob, salt := encryptedFixture(t, "correct horse")

	err := runDecrypt("zz", chainCode, blob, salt, "correct horse", 4, 2, 1, false)
	require.Error(t, err)

	err = runDecrypt(pub, chainCode, blob, "zz", "correct horse", 4, 2, 1, false)
	require.Error(t, err)
}
