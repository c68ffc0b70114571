package keys

import (
	"encoding/hex"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func PostCreateKeyRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/keys", postCreateKeyHandler(s))
}

func postCreateKeyHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		var body types.PostCreateKeyPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		var seed []byte
		if body.SeedHex != "" {
			// Validated as hex already, decode cannot fail here.
			seed, _ = hex.DecodeString(body.SeedHex)
		}

		rec, err := s.KeyService.CreateRootKey(ctx, &key.CreateRootKeyRequest{
			Seed:        seed,
			Passphrase:  body.Passphrase,
			Description: body.Description,
			Tags:        body.Tags,
		})
		if err != nil {
			log.Error().Err(err).Msg("Failed to create root key")
			return mapServiceError(err, "Failed to create root key")
		}

		log.Info().Str("key_id", rec.KeyID).Msg("Root key created")
		return c.JSON(http.StatusCreated, newKeyResponse(rec))
	}
}
