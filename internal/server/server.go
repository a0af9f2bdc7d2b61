// Package server wires the vault server together and runs its HTTP
// transport with signal-driven graceful shutdown.
package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/crypto"
	handler "github.com/safenode/vaultsync/internal/handler/http"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/service"
	"github.com/safenode/vaultsync/internal/store"
	"github.com/safenode/vaultsync/migrations"
)

// shutdownTimeout bounds how long in-flight requests may finish after a
// termination signal.
const shutdownTimeout = 10 * time.Second

// Server is the assembled vault server.
type Server struct {
	logger *logger.Logger
	config *config.StructuredConfig
	http   *http.Server
	db     *store.DB
}

// New connects to the database, runs migrations, and wires the repository,
// service, and handler layers.
func New(ctx context.Context, cfg *config.StructuredConfig, log *logger.Logger) (*Server, error) {
	db, err := store.NewConnectPostgres(ctx, cfg.Storage.DB, log.GetChildLogger())
	if err != nil {
		return nil, err
	}

	if err := migrations.Migrate(db.DB); err != nil {
		return nil, err
	}

	repos := store.NewRepositories(db, log.GetChildLogger())
	services := service.NewServices(repos, crypto.NewCipherService(), cfg, log.GetChildLogger())
	h := handler.NewHandler(services, log.GetChildLogger())

	return &Server{
		logger: log,
		config: cfg,
		db:     db,
		http: &http.Server{
			Addr:         cfg.Server.HTTPAddress,
			Handler:      http.TimeoutHandler(h.Routes(), cfg.Server.RequestTimeout, "request timed out"),
			ReadTimeout:  cfg.Server.RequestTimeout,
			WriteTimeout: cfg.Server.RequestTimeout + time.Second,
		},
	}, nil
}

// Run serves HTTP until the context is canceled or a SIGINT/SIGTERM arrives,
// then drains in-flight requests and closes the database.
func (s *Server) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().
			Str("address", s.config.Server.HTTPAddress).
			Str("version", s.config.App.Version).
			Msg("http server listening")
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.http.Shutdown(shutdownCtx)
	if closeErr := s.db.Close(); closeErr != nil {
		err = errors.Join(err, closeErr)
	}

	return err
}
