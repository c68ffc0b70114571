package keys_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/api/handlers"
	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
)

// memStore is an in-memory MetadataStore for handler tests.
type memStore struct {
	rootKeys   map[string]*storage.RootKeyRecord
	walletKeys map[string]*storage.WalletKeyRecord
}

func newMemStore() *memStore {
	return &memStore{
		rootKeys:   map[string]*storage.RootKeyRecord{},
		walletKeys: map[string]*storage.WalletKeyRecord{},
	}
}

func (m *memStore) SaveRootKey(_ context.Context, rec *storage.RootKeyRecord) error {
	m.rootKeys[rec.KeyID] = rec
	return nil
}

func (m *memStore) GetRootKey(_ context.Context, keyID string) (*storage.RootKeyRecord, error) {
	rec, ok := m.rootKeys[keyID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) ListRootKeys(_ context.Context, _ *storage.RootKeyFilter) ([]*storage.RootKeyRecord, error) {
	out := make([]*storage.RootKeyRecord, 0, len(m.rootKeys))
	for _, rec := range m.rootKeys {
		out = append(out, rec)
	}
	return out, nil
}

func (m *memStore) DeleteRootKey(_ context.Context, keyID string) error {
	delete(m.rootKeys, keyID)
	return nil
}

func (m *memStore) SaveWalletKey(_ context.Context, rec *storage.WalletKeyRecord) error {
	m.walletKeys[rec.WalletID] = rec
	return nil
}

func (m *memStore) GetWalletKey(_ context.Context, walletID string) (*storage.WalletKeyRecord, error) {
	rec, ok := m.walletKeys[walletID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return rec, nil
}

func (m *memStore) ListWalletKeys(_ context.Context, rootKeyID string) ([]*storage.WalletKeyRecord, error) {
	var out []*storage.WalletKeyRecord
	for _, rec := range m.walletKeys {
		if rec.RootKeyID == rootKeyID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *memStore) DeleteWalletKey(_ context.Context, walletID string) error {
	delete(m.walletKeys, walletID)
	return nil
}

func newTestServer(t *testing.T) (*api.Server, *memStore) {
	t.Helper()

	cfg := config.DefaultServiceConfigFromEnv()
	cfg.Auth.JWTSecret = ""
	cfg.HD = config.HD{Network: "mainnet", ScryptN: 4, ScryptR: 2, ScryptP: 1}

	store := newMemStore()
	svc, err := key.NewService(store, cfg.HD)
	require.NoError(t, err)

	s := api.NewServer(cfg)
	s.Store = store
	s.KeyService = svc
	s.InitRouter()
	handlers.AttachAllRoutes(s)
	return s, store
}

func doJSON(s *api.Server, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func TestPostCreateKey(t *testing.T) {
	s, store := newTestServer(t)

	res := doJSON(s, http.MethodPost, "/api/v1/keys",
		`{"passphrase":"correct horse battery","description":"test key"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	assert.Len(t, store.rootKeys, 1)
	assert.Contains(t, res.Body.String(), `"key_id"`)
	assert.Contains(t, res.Body.String(), `"fingerprint"`)
	assert.NotContains(t, res.Body.String(), "encrypted_private_key")
}

func TestPostCreateKeyRejectsShortPassphrase(t *testing.T) {
	s, _ := newTestServer(t)

	res := doJSON(s, http.MethodPost, "/api/v1/keys", `{"passphrase":"short"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "invalid_payload")
}

func TestDeriveAndSignFlow(t *testing.T) {
	s, _ := newTestServer(t)

	res := doJSON(s, http.MethodPost, "/api/v1/keys",
		`{"seed_hex":"000102030405060708090a0b0c0d0e0f","passphrase":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var created struct {
		KeyID string `json:"key_id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))

	res = doJSON(s, http.MethodPost, "/api/v1/keys/derive-path",
		`{"root_key_id":"`+created.KeyID+`","path":"m/0'/5","passphrase":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())

	var wallet struct {
		WalletID string `json:"wallet_id"`
		Path     string `json:"path"`
		Address  string `json:"address"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &wallet))
	assert.Equal(t, "m/0'/5", wallet.Path)
	assert.NotEmpty(t, wallet.Address)

	digest := strings.Repeat("ab", 32)
	res = doJSON(s, http.MethodPost, "/api/v1/wallet-keys/"+wallet.WalletID+"/sign",
		`{"passphrase":"correct horse battery","digest_hex":"`+digest+`"}`)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Contains(t, res.Body.String(), `"signature_der"`)

	res = doJSON(s, http.MethodPost, "/api/v1/wallet-keys/"+wallet.WalletID+"/sign",
		`{"passphrase":"battery staple horse","digest_hex":"`+digest+`"}`)
	require.Equal(t, http.StatusBadRequest, res.Code)
	assert.Contains(t, res.Body.String(), "invalid_passphrase")
}

func TestValidatePassphraseRoute(t *testing.T) {
	s, _ := newTestServer(t)

	res := doJSON(s, http.MethodPost, "/api/v1/keys", `{"passphrase":"correct horse battery"}`)
	require.Equal(t, http.StatusCreated, res.Code)

	var created struct {
		KeyID string `json:"key_id"`
	}
	require.NoError(t, json.Unmarshal(res.Body.Bytes(), &created))

	res = doJSON(s, http.MethodPost, "/api/v1/keys/"+created.KeyID+"/validate-passphrase",
		`{"passphrase":"correct horse battery"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"valid":true`)

	res = doJSON(s, http.MethodPost, "/api/v1/keys/"+created.KeyID+"/validate-passphrase",
		`{"passphrase":"battery staple horse"}`)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `"valid":false`)
}

func TestGetKeyNotFound(t *testing.T) {
	s, _ := newTestServer(t)

	res := doJSON(s, http.MethodGet, "/api/v1/keys/00000000-0000-0000-0000-000000000000", "")
	require.Equal(t, http.StatusNotFound, res.Code)
	assert.Contains(t, res.Body.String(), "key_not_found")
}
