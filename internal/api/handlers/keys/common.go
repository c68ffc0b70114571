// Package keys implements the HTTP handlers of the key API, one file per
// route.
package keys

import (
	"encoding/hex"
	"net/http"
	"time"

	"github.com/pkg/errors"

	"github.com/kashguard/go-hdkey-infra/internal/api/httperrors"
	"github.com/kashguard/go-hdkey-infra/internal/hd"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
	"github.com/kashguard/go-hdkey-infra/internal/types"
)

// mapServiceError translates service and storage failures into public HTTP
// errors. Anything unrecognized stays a 500 with the cause kept internal.
func mapServiceError(err error, title string) *httperrors.HTTPError {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return httperrors.NewHTTPError(http.StatusNotFound, types.PublicHTTPErrorTypeKeyNotFound, "Key not found")
	case errors.Is(err, key.ErrWrongPassphrase):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPassphrase, "Wrong passphrase")
	case errors.Is(err, hd.ErrHardenedFromPub):
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPayload, "Hardened derivation requires the passphrase")
	default:
		return httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, title, err)
	}
}

func newKeyResponse(rec *storage.RootKeyRecord) *types.KeyResponse {
	return &types.KeyResponse{
		KeyID:       rec.KeyID,
		PublicKey:   rec.PublicKey,
		ChainCode:   rec.ChainCode,
		Fingerprint: recordFingerprint(rec),
		Network:     rec.Network,
		Status:      rec.Status,
		Description: rec.Description,
		Tags:        rec.Tags,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}

func newWalletKeyResponse(rec *storage.WalletKeyRecord) *types.WalletKeyResponse {
	return &types.WalletKeyResponse{
		WalletID:    rec.WalletID,
		RootKeyID:   rec.RootKeyID,
		ChainType:   rec.ChainType,
		Path:        rec.Path,
		PublicKey:   rec.PublicKey,
		ChainCode:   rec.ChainCode,
		Address:     rec.Address,
		Status:      rec.Status,
		Description: rec.Description,
		CreatedAt:   rec.CreatedAt.Format(time.RFC3339),
	}
}

// recordFingerprint renders the BIP-32 fingerprint of a stored root key. A
// record that fails to decode yields an empty string rather than an error;
// the fingerprint is display-only.
func recordFingerprint(rec *storage.RootKeyRecord) string {
	pub, err := hex.DecodeString(rec.PublicKey)
	if err != nil {
		return ""
	}
	chainCode, err := hex.DecodeString(rec.ChainCode)
	if err != nil {
		return ""
	}
	node, err := hd.NewKeyFromBytes(nil, chainCode, pub, nil, nil)
	if err != nil {
		return ""
	}
	return hex.EncodeToString(node.Fingerprint())
}
