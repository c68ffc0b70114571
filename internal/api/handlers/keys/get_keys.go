package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func GetKeysRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.GET("/keys", getKeysHandler(s))
}

func getKeysHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		filter := &storage.RootKeyFilter{
			Status:  c.QueryParam("status"),
			Network: c.QueryParam("network"),
		}

		recs, err := s.KeyService.ListRootKeys(ctx, filter)
		if err != nil {
			log.Error().Err(err).Msg("Failed to list root keys")
			return mapServiceError(err, "Failed to list keys")
		}

		response := &types.KeyListResponse{Keys: make([]*types.KeyResponse, 0, len(recs))}
		for _, rec := range recs {
			response.Keys = append(response.Keys, newKeyResponse(rec))
		}
		return c.JSON(http.StatusOK, response)
	}
}
