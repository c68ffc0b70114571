// Package key implements the root key and wallet key service on top of the
// HD key core. Root private keys exist in plaintext only transiently inside
// a request; at rest they are scrypt/AES blobs in the metadata store.
package key

import (
	"bytes"
	"context"
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/btcsuite/btcd/chaincfg"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/kashguard/go-hdkey-infra/internal/chain"
	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/hd"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
	"github.com/kashguard/go-hdkey-infra/internal/keycrypter"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

// ErrWrongPassphrase is re-exported so API callers don't need to depend on
// the hd package to classify the failure.
var ErrWrongPassphrase = hd.ErrWrongPassphrase

// Service coordinates metadata storage, the HD key core and the chain
// adapter.
type Service struct {
	store   storage.MetadataStore
	adapter *chain.BitcoinAdapter
	params  *chaincfg.Params
	scrypt  config.HD
}

// NewService builds the key service from configuration.
func NewService(store storage.MetadataStore, cfg config.HD) (*Service, error) {
	params, err := chain.ParamsForNetwork(cfg.Network)
	if err != nil {
		return nil, err
	}
	return &Service{
		store:   store,
		adapter: chain.NewBitcoinAdapter(params),
		params:  params,
		scrypt:  cfg,
	}, nil
}

// CreateRootKey generates (or accepts) a seed, builds the master key,
// encrypts its private key under the passphrase and persists the result.
// All plaintext material is wiped before returning.
func (s *Service) CreateRootKey(ctx context.Context, req *CreateRootKeyRequest) (*storage.RootKeyRecord, error) {
	log := util.LogFromContext(ctx)

	seed := req.Seed
	if seed == nil {
		seed = make([]byte, 32)
		if _, err := rand.Read(seed); err != nil {
			return nil, errors.Wrap(err, "failed to generate seed")
		}
	}
	defer hd.ZeroBytes(seed)

	master, err := hd.NewMaster(seed)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create master key")
	}
	defer master.Wipe()
	master.SetCreationTime(time.Now().Unix())

	salt, err := randomSalt()
	if err != nil {
		return nil, err
	}
	crypter, err := keycrypter.NewScryptAESWithParams(salt, s.scrypt.ScryptN, s.scrypt.ScryptR, s.scrypt.ScryptP)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create key crypter")
	}
	aesKey, err := crypter.DeriveKey(req.Passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive encryption key")
	}
	defer hd.ZeroBytes(aesKey)

	encrypted, err := master.Encrypt(crypter, aesKey, nil)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encrypt master key")
	}

	now := time.Now().UTC()
	rec := &storage.RootKeyRecord{
		KeyID:               uuid.NewString(),
		PublicKey:           hex.EncodeToString(master.PubKey()),
		ChainCode:           hex.EncodeToString(master.ChainCode()),
		EncryptedPrivateKey: hex.EncodeToString(encrypted.EncryptedPrivKey()),
		KDFSalt:             hex.EncodeToString(crypter.Salt()),
		ScryptN:             s.scrypt.ScryptN,
		ScryptR:             s.scrypt.ScryptR,
		ScryptP:             s.scrypt.ScryptP,
		Network:             s.params.Name,
		Status:              StatusActive,
		Description:         req.Description,
		Tags:                req.Tags,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.store.SaveRootKey(ctx, rec); err != nil {
		return nil, err
	}

	rootKeysCreatedTotal.Inc()
	log.Info().Str("key_id", rec.KeyID).Str("network", rec.Network).Msg("Root key created")
	return rec, nil
}

// DeriveWalletKey derives a watch-only child at a non-hardened index and
// stores it with its rendered address. The root private key stays encrypted
// throughout; derivation works on public material alone.
func (s *Service) DeriveWalletKey(ctx context.Context, req *DeriveWalletKeyRequest) (*storage.WalletKeyRecord, error) {
	rec, err := s.store.GetRootKey(ctx, req.RootKeyID)
	if err != nil {
		return nil, err
	}

	root, _, err := s.rootNode(rec)
	if err != nil {
		return nil, err
	}

	child, err := root.DeriveSoftened(req.Index)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive wallet key")
	}

	return s.saveWalletKey(ctx, rec, child, req.ChainType, req.Description, "watch_only")
}

// DeriveWalletKeyByPath derives along a full path. A path containing
// hardened steps needs the passphrase; a soft-only path is derived
// watch-only exactly like DeriveWalletKey.
func (s *Service) DeriveWalletKeyByPath(ctx context.Context, req *DeriveWalletKeyByPathRequest) (*storage.WalletKeyRecord, error) {
	path, err := hd.ParsePath(req.Path)
	if err != nil {
		return nil, err
	}

	rec, err := s.store.GetRootKey(ctx, req.RootKeyID)
	if err != nil {
		return nil, err
	}

	root, crypter, err := s.rootNode(rec)
	if err != nil {
		return nil, err
	}

	hardened := false
	for _, cn := range path {
		if cn.IsHardened() {
			hardened = true
			break
		}
	}

	node := root
	if hardened {
		if req.Passphrase == "" {
			return nil, errors.Wrap(hd.ErrHardenedFromPub, "path contains hardened steps, passphrase required")
		}
		node, err = s.unlock(root, crypter, req.Passphrase)
		if err != nil {
			return nil, err
		}
		defer node.Wipe()
	}

	for _, cn := range path {
		node, err = hd.DeriveChildKey(node, cn)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to derive %s", req.Path)
		}
	}

	child := node.PubOnly()
	kind := "watch_only"
	if hardened {
		kind = "unlocked"
		defer node.ClearPrivateKey()
	}
	return s.saveWalletKey(ctx, rec, child, req.ChainType, req.Description, kind)
}

// ValidatePassphrase checks a passphrase against a root key by decrypting
// and cross-checking the public key. Wrong passphrases return
// ErrWrongPassphrase.
func (s *Service) ValidatePassphrase(ctx context.Context, keyID, passphrase string) error {
	rec, err := s.store.GetRootKey(ctx, keyID)
	if err != nil {
		return err
	}

	root, crypter, err := s.rootNode(rec)
	if err != nil {
		return err
	}

	decrypted, err := s.unlock(root, crypter, passphrase)
	if err != nil {
		return err
	}
	decrypted.Wipe()
	return nil
}

// SignDigest signs a 32-byte digest with a derived wallet key. The wallet
// key's private key is reconstructed by decrypting the root and re-deriving
// along the stored path, then wiped.
func (s *Service) SignDigest(ctx context.Context, req *SignDigestRequest) ([]byte, error) {
	wallet, err := s.store.GetWalletKey(ctx, req.WalletID)
	if err != nil {
		return nil, err
	}
	rec, err := s.store.GetRootKey(ctx, wallet.RootKeyID)
	if err != nil {
		return nil, err
	}

	path, err := hd.ParsePath(wallet.Path)
	if err != nil {
		return nil, err
	}

	root, crypter, err := s.rootNode(rec)
	if err != nil {
		return nil, err
	}
	node, err := s.unlock(root, crypter, req.Passphrase)
	if err != nil {
		return nil, err
	}
	defer node.Wipe()

	for _, cn := range path {
		node, err = hd.DeriveChildKey(node, cn)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to re-derive %s", wallet.Path)
		}
	}

	wantPub, err := hex.DecodeString(wallet.PublicKey)
	if err != nil {
		return nil, errors.Wrap(err, "stored wallet public key is not valid hex")
	}
	if !bytes.Equal(node.PubKey(), wantPub) {
		return nil, errors.Wrapf(hd.ErrDerivationIntegrity, "wallet %s", req.WalletID)
	}

	sig, err := node.SignHash(req.Digest)
	if err != nil {
		return nil, err
	}
	derivationsTotal.WithLabelValues("sign").Inc()
	return sig, nil
}

// GetRootKey fetches root key metadata.
func (s *Service) GetRootKey(ctx context.Context, keyID string) (*storage.RootKeyRecord, error) {
	return s.store.GetRootKey(ctx, keyID)
}

// ListRootKeys lists root key metadata.
func (s *Service) ListRootKeys(ctx context.Context, filter *storage.RootKeyFilter) ([]*storage.RootKeyRecord, error) {
	return s.store.ListRootKeys(ctx, filter)
}

// DeleteRootKey removes a root key and, via the schema, its wallet keys.
func (s *Service) DeleteRootKey(ctx context.Context, keyID string) error {
	return s.store.DeleteRootKey(ctx, keyID)
}

// GetWalletKey fetches wallet key metadata.
func (s *Service) GetWalletKey(ctx context.Context, walletID string) (*storage.WalletKeyRecord, error) {
	return s.store.GetWalletKey(ctx, walletID)
}

// ListWalletKeys lists the wallet keys under a root key.
func (s *Service) ListWalletKeys(ctx context.Context, rootKeyID string) ([]*storage.WalletKeyRecord, error) {
	return s.store.ListWalletKeys(ctx, rootKeyID)
}

// rootNode rebuilds the encrypted master node and its crypter from a stored
// record. The node carries the ciphertext blob, so IsEncrypted holds for it
// and every watch-only descendant derived from it.
func (s *Service) rootNode(rec *storage.RootKeyRecord) (*hd.DeterministicKey, *keycrypter.ScryptAES, error) {
	pub, err := hex.DecodeString(rec.PublicKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stored public key is not valid hex")
	}
	chainCode, err := hex.DecodeString(rec.ChainCode)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stored chain code is not valid hex")
	}
	blob, err := hex.DecodeString(rec.EncryptedPrivateKey)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stored key blob is not valid hex")
	}
	salt, err := hex.DecodeString(rec.KDFSalt)
	if err != nil {
		return nil, nil, errors.Wrap(err, "stored KDF salt is not valid hex")
	}

	crypter, err := keycrypter.NewScryptAESWithParams(salt, rec.ScryptN, rec.ScryptR, rec.ScryptP)
	if err != nil {
		return nil, nil, err
	}

	node, err := hd.NewEncryptedKey(nil, chainCode, pub, blob, crypter, nil)
	if err != nil {
		return nil, nil, err
	}
	return node, crypter, nil
}

// unlock decrypts a root node with a passphrase, counting cross-check
// failures.
func (s *Service) unlock(root *hd.DeterministicKey, crypter *keycrypter.ScryptAES, passphrase string) (*hd.DeterministicKey, error) {
	aesKey, err := crypter.DeriveKey(passphrase)
	if err != nil {
		return nil, errors.Wrap(err, "failed to derive encryption key")
	}
	defer hd.ZeroBytes(aesKey)

	decrypted, err := root.Decrypt(crypter, aesKey)
	if err != nil {
		if errors.Is(err, hd.ErrWrongPassphrase) {
			passphraseFailuresTotal.Inc()
		}
		return nil, err
	}
	return decrypted, nil
}

func (s *Service) saveWalletKey(ctx context.Context, root *storage.RootKeyRecord, child *hd.DeterministicKey, chainType, description, kind string) (*storage.WalletKeyRecord, error) {
	log := util.LogFromContext(ctx)

	if chainType == "" {
		chainType = "bitcoin"
	}
	address, err := s.adapter.GenerateAddress(child.PubKey())
	if err != nil {
		return nil, err
	}

	rec := &storage.WalletKeyRecord{
		WalletID:    uuid.NewString(),
		RootKeyID:   root.KeyID,
		ChainType:   chainType,
		Path:        child.PathString(),
		PublicKey:   hex.EncodeToString(child.PubKey()),
		ChainCode:   hex.EncodeToString(child.ChainCode()),
		Address:     address,
		Status:      StatusActive,
		Description: description,
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.store.SaveWalletKey(ctx, rec); err != nil {
		return nil, err
	}

	derivationsTotal.WithLabelValues(kind).Inc()
	log.Info().
		Str("wallet_id", rec.WalletID).
		Str("root_key_id", rec.RootKeyID).
		Str("path", rec.Path).
		Msg("Wallet key derived")
	return rec, nil
}

func randomSalt() ([]byte, error) {
	salt := make([]byte, keycrypter.SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, errors.Wrap(err, "failed to generate KDF salt")
	}
	return salt, nil
}
