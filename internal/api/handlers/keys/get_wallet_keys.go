package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func GetWalletKeysRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.GET("/keys/:key_id/wallet-keys", getWalletKeysHandler(s))
}

func getWalletKeysHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		keyID := c.Param("key_id")

		recs, err := s.KeyService.ListWalletKeys(ctx, keyID)
		if err != nil {
			log.Error().Err(err).Str("key_id", keyID).Msg("Failed to list wallet keys")
			return mapServiceError(err, "Failed to list wallet keys")
		}

		response := &types.WalletKeyListResponse{WalletKeys: make([]*types.WalletKeyResponse, 0, len(recs))}
		for _, rec := range recs {
			response.WalletKeys = append(response.WalletKeys, newWalletKeyResponse(rec))
		}
		return c.JSON(http.StatusOK, response)
	}
}
