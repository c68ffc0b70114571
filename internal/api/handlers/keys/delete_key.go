package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func DeleteKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.DELETE("/keys/:key_id", deleteKeyHandler(s))
}

// deleteKeyHandler removes a root key and, via the schema cascade, every
// wallet key derived under it.
func deleteKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		keyID := c.Param("key_id")

		if err := s.KeyService.DeleteRootKey(ctx, keyID); err != nil {
			log.Error().Err(err).Str("key_id", keyID).Msg("Failed to delete root key")
			return mapServiceError(err, "Failed to delete key")
		}

		log.Info().Str("key_id", keyID).Msg("Root key deleted")
		return c.NoContent(http.StatusNoContent)
	}
}
