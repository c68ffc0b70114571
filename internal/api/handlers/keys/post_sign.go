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

func PostSignRoute(s *api.Server) *echo.Route {
	return s.Router.APIV1Keys.POST("/wallet-keys/:wallet_id/sign", postSignHandler(s))
}

// postSignHandler signs a 32-byte digest with a derived wallet key. The
// private key is reconstructed from the encrypted root, used once and
// wiped.
func postSignHandler(s *api.Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		log := util.LogFromContext(ctx)

		walletID := c.Param("wallet_id")

		var body types.PostSignPayload
		if err := util.BindAndValidateBody(c, &body); err != nil {
			return err
		}

		// Validated as 32 hex-encoded bytes already.
		digest, _ := hex.DecodeString(body.DigestHex)

		sig, err := s.KeyService.SignDigest(ctx, &key.SignDigestRequest{
			WalletID:   walletID,
			Passphrase: body.Passphrase,
			Digest:     digest,
		})
		if err != nil {
			log.Error().Err(err).Str("wallet_id", walletID).Msg("Failed to sign digest")
			return mapServiceError(err, "Failed to sign digest")
		}

		log.Info().Str("wallet_id", walletID).Msg("Digest signed")
		return c.JSON(http.StatusOK, &types.SignResponse{
			WalletID:     walletID,
			SignatureDER: hex.EncodeToString(sig),
		})
	}
}
