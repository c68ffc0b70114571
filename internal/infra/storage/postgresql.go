package storage

import (
	"context"
	"database/sql"
	"encoding/json"

	"github.com/pkg/errors"

	// PostgreSQL driver registration.
	_ "github.com/lib/pq"
)

// PostgreSQLStore implements MetadataStore on a PostgreSQL database.
type PostgreSQLStore struct {
	db *sql.DB
}

// NewPostgreSQLStore wraps an open database handle.
func NewPostgreSQLStore(db *sql.DB) *PostgreSQLStore {
	return &PostgreSQLStore{db: db}
}

// Migrate creates the metadata tables when they do not exist yet.
func (s *PostgreSQLStore) Migrate(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS root_keys (
			key_id TEXT PRIMARY KEY,
			public_key TEXT NOT NULL,
			chain_code TEXT NOT NULL,
			encrypted_private_key TEXT NOT NULL,
			kdf_salt TEXT NOT NULL,
			scrypt_n INTEGER NOT NULL,
			scrypt_r INTEGER NOT NULL,
			scrypt_p INTEGER NOT NULL,
			network TEXT NOT NULL,
			status TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			tags JSONB NOT NULL DEFAULT '{}',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE TABLE IF NOT EXISTS wallet_keys (
			wallet_id TEXT PRIMARY KEY,
			root_key_id TEXT NOT NULL REFERENCES root_keys(key_id) ON DELETE CASCADE,
			chain_type TEXT NOT NULL,
			path TEXT NOT NULL,
			public_key TEXT NOT NULL,
			chain_code TEXT NOT NULL,
			address TEXT NOT NULL,
			status TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,
		`CREATE INDEX IF NOT EXISTS wallet_keys_root_key_id_idx ON wallet_keys (root_key_id)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return errors.Wrap(err, "failed to run migration")
		}
	}
	return nil
}

func (s *PostgreSQLStore) SaveRootKey(ctx context.Context, rec *RootKeyRecord) error {
	tags, err := json.Marshal(rec.Tags)
	if err != nil {
		return errors.Wrap(err, "failed to marshal tags")
	}

	query := `
		INSERT INTO root_keys (key_id, public_key, chain_code, encrypted_private_key, kdf_salt,
			scrypt_n, scrypt_r, scrypt_p, network, status, description, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		ON CONFLICT (key_id) DO UPDATE SET
			status = EXCLUDED.status,
			description = EXCLUDED.description,
			tags = EXCLUDED.tags,
			updated_at = NOW()
	`
	_, err = s.db.ExecContext(ctx, query,
		rec.KeyID, rec.PublicKey, rec.ChainCode, rec.EncryptedPrivateKey, rec.KDFSalt,
		rec.ScryptN, rec.ScryptR, rec.ScryptP, rec.Network, rec.Status, rec.Description,
		tags, rec.CreatedAt, rec.UpdatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to save root key")
	}
	return nil
}

func (s *PostgreSQLStore) GetRootKey(ctx context.Context, keyID string) (*RootKeyRecord, error) {
	query := `
		SELECT key_id, public_key, chain_code, encrypted_private_key, kdf_salt,
			scrypt_n, scrypt_r, scrypt_p, network, status, description, tags, created_at, updated_at
		FROM root_keys WHERE key_id = $1
	`
	rec, err := scanRootKey(s.db.QueryRowContext(ctx, query, keyID))
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "root key %s", keyID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get root key")
	}
	return rec, nil
}

func (s *PostgreSQLStore) ListRootKeys(ctx context.Context, filter *RootKeyFilter) ([]*RootKeyRecord, error) {
	query := `
		SELECT key_id, public_key, chain_code, encrypted_private_key, kdf_salt,
			scrypt_n, scrypt_r, scrypt_p, network, status, description, tags, created_at, updated_at
		FROM root_keys
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR network = $2)
		ORDER BY created_at DESC
	`
	var status, network string
	if filter != nil {
		status = filter.Status
		network = filter.Network
	}

	rows, err := s.db.QueryContext(ctx, query, status, network)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list root keys")
	}
	defer rows.Close()

	var out []*RootKeyRecord
	for rows.Next() {
		rec, err := scanRootKey(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan root key")
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate root keys")
}

func (s *PostgreSQLStore) DeleteRootKey(ctx context.Context, keyID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM root_keys WHERE key_id = $1`, keyID)
	if err != nil {
		return errors.Wrap(err, "failed to delete root key")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrNotFound, "root key %s", keyID)
	}
	return nil
}

func (s *PostgreSQLStore) SaveWalletKey(ctx context.Context, rec *WalletKeyRecord) error {
	query := `
		INSERT INTO wallet_keys (wallet_id, root_key_id, chain_type, path, public_key, chain_code,
			address, status, description, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.WalletID, rec.RootKeyID, rec.ChainType, rec.Path, rec.PublicKey, rec.ChainCode,
		rec.Address, rec.Status, rec.Description, rec.CreatedAt)
	if err != nil {
		return errors.Wrap(err, "failed to save wallet key")
	}
	return nil
}

func (s *PostgreSQLStore) GetWalletKey(ctx context.Context, walletID string) (*WalletKeyRecord, error) {
	query := `
		SELECT wallet_id, root_key_id, chain_type, path, public_key, chain_code,
			address, status, description, created_at
		FROM wallet_keys WHERE wallet_id = $1
	`
	rec := &WalletKeyRecord{}
	err := s.db.QueryRowContext(ctx, query, walletID).Scan(
		&rec.WalletID, &rec.RootKeyID, &rec.ChainType, &rec.Path, &rec.PublicKey, &rec.ChainCode,
		&rec.Address, &rec.Status, &rec.Description, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, errors.Wrapf(ErrNotFound, "wallet key %s", walletID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to get wallet key")
	}
	return rec, nil
}

func (s *PostgreSQLStore) ListWalletKeys(ctx context.Context, rootKeyID string) ([]*WalletKeyRecord, error) {
	query := `
		SELECT wallet_id, root_key_id, chain_type, path, public_key, chain_code,
			address, status, description, created_at
		FROM wallet_keys WHERE root_key_id = $1
		ORDER BY created_at DESC
	`
	rows, err := s.db.QueryContext(ctx, query, rootKeyID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list wallet keys")
	}
	defer rows.Close()

	var out []*WalletKeyRecord
	for rows.Next() {
		rec := &WalletKeyRecord{}
		if err := rows.Scan(
			&rec.WalletID, &rec.RootKeyID, &rec.ChainType, &rec.Path, &rec.PublicKey, &rec.ChainCode,
			&rec.Address, &rec.Status, &rec.Description, &rec.CreatedAt); err != nil {
			return nil, errors.Wrap(err, "failed to scan wallet key")
		}
		out = append(out, rec)
	}
	return out, errors.Wrap(rows.Err(), "failed to iterate wallet keys")
}

func (s *PostgreSQLStore) DeleteWalletKey(ctx context.Context, walletID string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM wallet_keys WHERE wallet_id = $1`, walletID)
	if err != nil {
		return errors.Wrap(err, "failed to delete wallet key")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return errors.Wrapf(ErrNotFound, "wallet key %s", walletID)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRootKey(row rowScanner) (*RootKeyRecord, error) {
	rec := &RootKeyRecord{}
	var tags []byte
	err := row.Scan(
		&rec.KeyID, &rec.PublicKey, &rec.ChainCode, &rec.EncryptedPrivateKey, &rec.KDFSalt,
		&rec.ScryptN, &rec.ScryptR, &rec.ScryptP, &rec.Network, &rec.Status, &rec.Description,
		&tags, &rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if len(tags) > 0 {
		if err := json.Unmarshal(tags, &rec.Tags); err != nil {
			return nil, errors.Wrap(err, "failed to unmarshal tags")
		}
	}
	return rec, nil
}
