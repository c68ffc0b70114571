package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/kashguard/go-hdkey-infra/internal/api/httperrors"
	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/types"
)

// ContextKeyClaims is the echo context key the verified token claims are
// stored under.
const ContextKeyClaims = "auth_claims"

// Claims carries the tenant scoping attached to API tokens.
type Claims struct {
	jwt.RegisteredClaims
	TenantID    string   `json:"tenant_id,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	AppID       string   `json:"app_id,omitempty"`
}

// JWTAuth verifies HS256 bearer tokens on the key API. An empty configured
// secret disables authentication, which is only acceptable in development.
func JWTAuth(cfg config.Auth) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if cfg.JWTSecret == "" {
				return next(c)
			}

			header := c.Request().Header.Get(echo.HeaderAuthorization)
			if !strings.HasPrefix(header, "Bearer ") {
				return httperrors.NewHTTPError(http.StatusUnauthorized, types.PublicHTTPErrorTypeUnauthorized, "Missing bearer token")
			}
			raw := strings.TrimPrefix(header, "Bearer ")

			claims := new(Claims)
			token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, jwt.ErrSignatureInvalid
				}
				return []byte(cfg.JWTSecret), nil
			}, jwt.WithIssuer(cfg.JWTIssuer))
			if err != nil || !token.Valid {
				return httperrors.NewHTTPErrorWithInternal(http.StatusUnauthorized, types.PublicHTTPErrorTypeUnauthorized, "Invalid bearer token", err)
			}

			c.Set(ContextKeyClaims, claims)
			return next(c)
		}
	}
}

// ClaimsFromContext returns the verified claims for the current request, or
// nil when authentication is disabled.
func ClaimsFromContext(c echo.Context) *Claims {
	claims, _ := c.Get(ContextKeyClaims).(*Claims)
	return claims
}
