package key

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"testing"

	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/hd"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockMetadataStore for testing
type MockMetadataStore struct {
	mock.Mock
}

func (m *MockMetadataStore) SaveRootKey(ctx context.Context, rec *storage.RootKeyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockMetadataStore) GetRootKey(ctx context.Context, keyID string) (*storage.RootKeyRecord, error) {
	args := m.Called(ctx, keyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.RootKeyRecord), args.Error(1)
}

func (m *MockMetadataStore) ListRootKeys(ctx context.Context, filter *storage.RootKeyFilter) ([]*storage.RootKeyRecord, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.RootKeyRecord), args.Error(1)
}

func (m *MockMetadataStore) DeleteRootKey(ctx context.Context, keyID string) error {
	args := m.Called(ctx, keyID)
	return args.Error(0)
}

func (m *MockMetadataStore) SaveWalletKey(ctx context.Context, rec *storage.WalletKeyRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}

func (m *MockMetadataStore) GetWalletKey(ctx context.Context, walletID string) (*storage.WalletKeyRecord, error) {
	args := m.Called(ctx, walletID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*storage.WalletKeyRecord), args.Error(1)
}

func (m *MockMetadataStore) ListWalletKeys(ctx context.Context, rootKeyID string) ([]*storage.WalletKeyRecord, error) {
	args := m.Called(ctx, rootKeyID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*storage.WalletKeyRecord), args.Error(1)
}

func (m *MockMetadataStore) DeleteWalletKey(ctx context.Context, walletID string) error {
	args := m.Called(ctx, walletID)
	return args.Error(0)
}

// Small scrypt parameters keep the suite fast; production values come from
// config defaults.
func testConfig() config.HD {
	return config.HD{
		Network: "mainnet",
		ScryptN: 4,
		ScryptR: 2,
		ScryptP: 1,
	}
}

func newTestService(t *testing.T, store storage.MetadataStore) *Service {
	t.Helper()
	svc, err := NewService(store, testConfig())
	require.NoError(t, err)
	return svc
}

func TestCreateRootKey(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)

	var saved *storage.RootKeyRecord
	store.On("SaveRootKey", mock.Anything, mock.AnythingOfType("*storage.RootKeyRecord")).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*storage.RootKeyRecord)
		}).Return(nil)

	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	rec, err := svc.CreateRootKey(context.Background(), &CreateRootKeyRequest{
		Seed:        append([]byte(nil), seed...),
		Passphrase:  "correct horse",
		Description: "unit",
	})
	require.NoError(t, err)
	require.NotNil(t, saved)

	assert.NotEmpty(t, rec.KeyID)
	assert.Equal(t, StatusActive, rec.Status)
	// Deterministic seed gives the BIP-32 vector 1 master public material.
	assert.Equal(t, "0339a36013301597daef41fbe593a02cc513d0b55527ec2df1050e2e8ff49c85c2", rec.PublicKey)
	assert.Equal(t, "873dff81c02f525623fd1fe5167eac3a55a049de3d314bb42ee227ffed37d508", rec.ChainCode)
	assert.NotEmpty(t, rec.EncryptedPrivateKey)
	assert.NotEmpty(t, rec.KDFSalt)
	store.AssertExpectations(t)
}

func TestCreateRootKeyRejectsBadSeed(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)

	_, err := svc.CreateRootKey(context.Background(), &CreateRootKeyRequest{
		Seed:       []byte{},
		Passphrase: "correct horse",
	})
	require.Error(t, err)
}

// createTestRoot runs the real creation path against the mock store and
// returns the captured record.
func createTestRoot(t *testing.T, svc *Service, store *MockMetadataStore, passphrase string) *storage.RootKeyRecord {
	t.Helper()

	var saved *storage.RootKeyRecord
	store.On("SaveRootKey", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			saved = args.Get(1).(*storage.RootKeyRecord)
		}).Return(nil).Once()

	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	_, err := svc.CreateRootKey(context.Background(), &CreateRootKeyRequest{
		Seed:       append([]byte(nil), seed...),
		Passphrase: passphrase,
	})
	require.NoError(t, err)
	require.NotNil(t, saved)
	return saved
}

func TestDeriveWalletKeyWatchOnly(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)
	root := createTestRoot(t, svc, store, "correct horse")

	store.On("GetRootKey", mock.Anything, root.KeyID).Return(root, nil)
	var savedWallet *storage.WalletKeyRecord
	store.On("SaveWalletKey", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedWallet = args.Get(1).(*storage.WalletKeyRecord)
		}).Return(nil)

	wallet, err := svc.DeriveWalletKey(context.Background(), &DeriveWalletKeyRequest{
		RootKeyID: root.KeyID,
		Index:     5,
	})
	require.NoError(t, err)
	require.NotNil(t, savedWallet)

	assert.Equal(t, "m/5", wallet.Path)
	assert.Equal(t, "bitcoin", wallet.ChainType)
	assert.NotEmpty(t, wallet.Address)

	// Watch-only derivation must match materialized derivation from the
	// same seed.
	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	master, err := hd.NewMaster(seed)
	require.NoError(t, err)
	child, err := master.DeriveSoftened(5)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(child.PubKey()), wallet.PublicKey)
}

func TestDeriveWalletKeyByPathHardened(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)
	root := createTestRoot(t, svc, store, "correct horse")

	store.On("GetRootKey", mock.Anything, root.KeyID).Return(root, nil)
	store.On("SaveWalletKey", mock.Anything, mock.Anything).Return(nil)

	wallet, err := svc.DeriveWalletKeyByPath(context.Background(), &DeriveWalletKeyByPathRequest{
		RootKeyID:  root.KeyID,
		Path:       "m/0'/5",
		Passphrase: "correct horse",
	})
	require.NoError(t, err)
	assert.Equal(t, "m/0'/5", wallet.Path)

	seed, _ := hex.DecodeString("000102030405060708090a0b0c0d0e0f")
	master, err := hd.NewMaster(seed)
	require.NoError(t, err)
	a, err := master.DeriveHardened(0)
	require.NoError(t, err)
	b, err := a.DeriveSoftened(5)
	require.NoError(t, err)
	assert.Equal(t, hex.EncodeToString(b.PubKey()), wallet.PublicKey)
}

func TestDeriveWalletKeyByPathHardenedNeedsPassphrase(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)
	root := createTestRoot(t, svc, store, "correct horse")

	store.On("GetRootKey", mock.Anything, root.KeyID).Return(root, nil)

	_, err := svc.DeriveWalletKeyByPath(context.Background(), &DeriveWalletKeyByPathRequest{
		RootKeyID: root.KeyID,
		Path:      "m/0'/5",
	})
	require.ErrorIs(t, err, hd.ErrHardenedFromPub)
}

func TestValidatePassphrase(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)
	root := createTestRoot(t, svc, store, "correct horse")

	store.On("GetRootKey", mock.Anything, root.KeyID).Return(root, nil)

	require.NoError(t, svc.ValidatePassphrase(context.Background(), root.KeyID, "correct horse"))

	err := svc.ValidatePassphrase(context.Background(), root.KeyID, "battery staple")
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestSignDigest(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)
	root := createTestRoot(t, svc, store, "correct horse")

	store.On("GetRootKey", mock.Anything, root.KeyID).Return(root, nil)
	var savedWallet *storage.WalletKeyRecord
	store.On("SaveWalletKey", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			savedWallet = args.Get(1).(*storage.WalletKeyRecord)
		}).Return(nil)

	_, err := svc.DeriveWalletKeyByPath(context.Background(), &DeriveWalletKeyByPathRequest{
		RootKeyID:  root.KeyID,
		Path:       "m/0'/5",
		Passphrase: "correct horse",
	})
	require.NoError(t, err)
	require.NotNil(t, savedWallet)

	store.On("GetWalletKey", mock.Anything, savedWallet.WalletID).Return(savedWallet, nil)

	digest := sha256.Sum256([]byte("spend"))
	sig, err := svc.SignDigest(context.Background(), &SignDigestRequest{
		WalletID:   savedWallet.WalletID,
		Passphrase: "correct horse",
		Digest:     digest[:],
	})
	require.NoError(t, err)
	assert.NotEmpty(t, sig)

	_, err = svc.SignDigest(context.Background(), &SignDigestRequest{
		WalletID:   savedWallet.WalletID,
		Passphrase: "battery staple",
		Digest:     digest[:],
	})
	require.ErrorIs(t, err, ErrWrongPassphrase)
}

func TestGetRootKeyNotFound(t *testing.T) {
	store := new(MockMetadataStore)
	svc := newTestService(t, store)

	store.On("GetRootKey", mock.Anything, "missing").Return(nil, storage.ErrNotFound)

	_, err := svc.GetRootKey(context.Background(), "missing")
	require.ErrorIs(t, err, storage.ErrNotFound)
}
