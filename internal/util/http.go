package util

import (
	"net/http"

	"github.com/kashguard/go-hdkey-infra/internal/api/httperrors"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/labstack/echo/v4"
)

// Validatable is implemented by request payloads that can check their own
// required fields after binding.
type Validatable interface {
	Validate() error
}

// BindAndValidateBody binds the request body into v and runs its validation,
// translating failures into public 400 errors.
func BindAndValidateBody(c echo.Context, v Validatable) error {
	if err := c.Bind(v); err != nil {
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPayload, "Failed to parse request body")
	}
	if err := v.Validate(); err != nil {
		return httperrors.NewHTTPError(http.StatusBadRequest, types.PublicHTTPErrorTypeInvalidPayload, err.Error())
	}
	return nil
}
