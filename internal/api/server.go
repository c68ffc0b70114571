package api

import (
	"context"
	"database/sql"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/kashguard/go-hdkey-infra/internal/config"
	"github.com/kashguard/go-hdkey-infra/internal/infra/key"
	"github.com/kashguard/go-hdkey-infra/internal/infra/storage"
)

// Router holds the echo route groups handlers attach to.
type Router struct {
	Routes     []*echo.Route
	Root       *echo.Group
	Management *echo.Group
	APIV1Keys  *echo.Group
}

// Server bundles every component of the running service. Handlers receive
// the full server and pick what they need.
type Server struct {
	Config     config.Server
	DB         *sql.DB
	Echo       *echo.Echo
	Router     *Router
	Store      storage.MetadataStore
	KeyService *key.Service
}

// NewServer creates a server skeleton from configuration. InitComponents
// must be called before Start.
func NewServer(cfg config.Server) *Server {
	return &Server{
		Config: cfg,
	}
}

// Ready reports whether all components are initialized.
func (s *Server) Ready() bool {
	return s.DB != nil && s.Echo != nil && s.Router != nil && s.KeyService != nil
}

// InitComponents connects the database, runs migrations and wires the key
// service and HTTP router.
func (s *Server) InitComponents(ctx context.Context) error {
	db, err := sql.Open("postgres", s.Config.Database.ConnectionString())
	if err != nil {
		return errors.Wrap(err, "failed to open database")
	}
	if err := db.PingContext(ctx); err != nil {
		return errors.Wrap(err, "failed to ping database")
	}
	s.DB = db

	store := storage.NewPostgreSQLStore(db)
	if err := store.Migrate(ctx); err != nil {
		return errors.Wrap(err, "failed to migrate database")
	}
	s.Store = store

	svc, err := key.NewService(store, s.Config.HD)
	if err != nil {
		return errors.Wrap(err, "failed to init key service")
	}
	s.KeyService = svc

	s.InitRouter()
	return nil
}

// Start begins serving HTTP on the configured listen address. It blocks
// until the listener fails or Shutdown is called.
func (s *Server) Start() error {
	if !s.Ready() {
		return errors.New("server is not fully initialized")
	}
	log.Info().Str("address", s.Config.Echo.ListenAddress).Msg("Starting HTTP server")
	return s.Echo.Start(s.Config.Echo.ListenAddress)
}

// Shutdown stops the HTTP listener and closes the database.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Warn().Msg("Shutting down server")

	if s.Echo != nil {
		if err := s.Echo.Shutdown(ctx); err != nil {
			return err
		}
	}
	if s.DB != nil {
		return s.DB.Close()
	}
	return nil
}
