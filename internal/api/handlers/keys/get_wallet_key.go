package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func GetWalletKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.GET("/wallet-keys/:wallet_id", getWalletKeyHandler(s))
}

func getWalletKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		walletID := c.Param("wallet_id")

		rec, err := s.KeyService.GetWalletKey(ctx, walletID)
		if err != nil {
			log.Debug().Err(err).Str("wallet_id", walletID).Msg("Failed to fetch wallet key")
			return mapServiceError(err, "Failed to fetch wallet key")
		}

		return c.JSON(http.StatusOK, newWalletKeyResponse(rec))
	}
}
