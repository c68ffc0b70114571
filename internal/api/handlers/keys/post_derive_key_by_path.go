package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func PostDeriveKeyByPathRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/keys/derive-path", postDeriveKeyByPathHandler(s))
}

// postDeriveKeyByPathHandler derives a wallet key along a full BIP-32 path.
// Soft-only paths are derived watch-only; paths with hardened steps need
// the root key passphrase.
func postDeriveKeyByPathHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostDeriveKeyByPathPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		wallet, err := s.KeyService.DeriveWalletKeyByPath(ctx, &key.DeriveWalletKeyByPathRequest{
			RootKeyID:   body.RootKeyID,
			ChainType:   body.ChainType,
			Path:        body.Path,
			Passphrase:  body.Passphrase,
			Description: body.Description,
		})
		if err != nil {
			log.Error().Err(err).Str("path", body.Path).Msg("Failed to derive wallet key by path")
			return mapServiceError(err, "Failed to derive wallet key")
		}

		log.Info().Str("wallet_id", wallet.WalletID).Str("path", wallet.Path).Msg("Wallet key derived")
		return c.JSON(http.StatusCreated, newWalletKeyResponse(wallet))
	}
}
