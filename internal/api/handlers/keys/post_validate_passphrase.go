package keys

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

func PostValidatePassphraseRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/keys/:key_id/validate-passphrase", postValidatePassphraseHandler(s))
}

// postValidatePassphraseHandler checks a passphrase by decrypting the root
// private key and cross-checking it against the stored public key. A wrong
// passphrase is a negative result, not an error.
func postValidatePassphraseHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		keyID := c.Param("key_id")

		var body types.PostValidatePassphrasePayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		err := s.KeyService.ValidatePassphrase(ctx, keyID, body.Passphrase)
		if err != nil && !errors.Is(err, key.ErrWrongPassphrase) {
			log.Error().Err(err).Str("key_id", keyID).Msg("Failed to validate passphrase")
			return mapServiceError(err, "Failed to validate passphrase")
		}

		return c.JSON(http.StatusOK, &types.ValidatePassphraseResponse{
			KeyID: keyID,
			Valid: err == nil,
		})
	}
}
