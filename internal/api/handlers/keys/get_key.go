package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func GetKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.GET("/keys/:key_id", getKeyHandler(s))
}

func getKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		keyID := c.Param("key_id")

		rec, err := s.KeyService.GetRootKey(ctx, keyID)
		if err != nil {
			log.Debug().Err(err).Str("key_id", keyID).Msg("Failed to fetch root key")
			return mapServiceError(err, "Failed to fetch key")
		}

		return c.JSON(http.StatusOK, newKeyResponse(rec))
	}
}
