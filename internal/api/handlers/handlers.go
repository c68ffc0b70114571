// Package handlers attaches every route of the HTTP API to the server.
package handlers

import (
	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api"
	"github.com/kashguard/go-hdkey-infra/internal/api/handlers/keys"
)

// AttachAllRoutes registers all handlers on the server's route groups.
func AttachAllRoutes(s *api.Server) {
	s.Router.Routes = []*echo.Route{
		keys.PostCreateKeyRoute(s),
		keys.GetKeysRoute(s),
		keys.GetKeyRoute(s),
		keys.DeleteKeyRoute(s),
		keys.PostDeriveKeyRoute(s),
		keys.PostDeriveKeyByPathRoute(s),
		keys.PostValidatePassphraseRoute(s),
		keys.GetWalletKeysRoute(s),
		keys.GetWalletKeyRoute(s),
		keys.PostSignRoute(s),
	}
}
