package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func PostDeriveKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/keys/derive", postDeriveKeyHandler(s))
}

// postDeriveKeyHandler derives a watch-only wallet key at a single
// non-hardened index. The root private key is never touched.
func postDeriveKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostDeriveKeyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		wallet, err := s.KeyService.DeriveWalletKey(ctx, &key.DeriveWalletKeyRequest{
			RootKeyID:   body.RootKeyID,
			ChainType:   body.ChainType,
			Index:       uint32(body.Index),
			Description: body.Description,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to derive wallet key")
			return mapServiceError(err, "Failed to derive wallet key")
		}

		log.Info().Str("wallet_id", wallet.WalletID).Str("path", wallet.Path).Msg("Wallet key derived")
		return c.JSON(http.StatusCreated, newWalletKeyResponse(wallet))
	}
}
