package api

import (
	"net/http"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kashguard/go-hdkey-infra/internal/api/httperrors"
	"github.com/kashguard/go-hdkey-infra/internal/api/middleware"
	"github.com/kashguard/go-hdkey-infra/internal/types"
	"github.com/kashguard/go-hdkey-infra/internal/util"
)

// InitRouter creates the echo instance, installs the middleware chain and
// prepares the route groups. Handlers attach their routes afterwards via
// AttachAllRoutes.
func (s *Server) InitRouter() {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler(s)

	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.RequestLogger())

	s.Echo = e
	s.Router = &Router{
		Root:       e.Group(""),
		Management: e.Group("/-"),
		APIV1Keys:  e.Group("/api/v1", middleware.JWTAuth(s.Config.Auth)),
	}

	s.Router.Management.GET("/healthy", healthyHandler(s))
	s.Router.Management.GET("/ready", readyHandler(s))
	s.Router.Root.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
}

// errorHandler renders httperrors.HTTPError envelopes and hides everything
// else behind a generic payload when configured to.
func errorHandler(s *Server) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		log := util.LogFromEchoContext(c)

		var httpErr *httperrors.HTTPError
		switch e := err.(type) {
		case *httperrors.HTTPError:
			httpErr = e
		case *echo.HTTPError:
			title := http.StatusText(e.Code)
			if msg, ok := e.Message.(string); ok {
				title = msg
			}
			httpErr = httperrors.NewHTTPError(e.Code, types.PublicHTTPErrorTypeGeneric, title)
		default:
			title := "Internal server error"
			if !s.Config.Echo.HideInternalServerErrorDetails {
				title = err.Error()
			}
			httpErr = httperrors.NewHTTPErrorWithInternal(http.StatusInternalServerError, types.PublicHTTPErrorTypeGeneric, title, err)
		}

		if httpErr.Internal != nil {
			log.Error().Err(httpErr.Internal).Int("status", httpErr.Code).Msg("Request failed")
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(httpErr.Code)
		} else {
			err = c.JSON(httpErr.Code, httpErr)
		}
		if err != nil {
			log.Error().Err(err).Msg("Failed to write error response")
		}
	}
}

func healthyHandler(_ *Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}
}

func readyHandler(s *Server) echo.HandlerFunc {
	return func(c echo.Context) error {
		if !s.Ready() {
			return c.String(http.StatusServiceUnavailable, "Not ready")
		}
		if err := s.DB.PingContext(c.Request().Context()); err != nil {
			return c.String(http.StatusServiceUnavailable, "Database unreachable")
		}
		return c.String(http.StatusOK, "Ready")
	}
}
