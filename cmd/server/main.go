package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/server"
)

func main() {
	log := logger.NewLogger("server")

	cfg, err := config.GetServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error loading configuration")
	}

	srv, err := server.New(context.Background(), cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error building server")
	}

	if err := srv.Run(context.Background()); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("server exited with error")
	}

	log.Info().Msg("server stopped")
}
