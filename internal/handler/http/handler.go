// Package http exposes the vault server over HTTP: auth, salt issuance,
// versioned vault push/pull, and device trust management. Routing is built
// on chi; every response body is JSON.
package http

import (
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/service"
)

// Handler holds the dependencies of all HTTP endpoints.
type Handler struct {
	logger   *logger.Logger
	services *service.Services
}

// NewHandler constructs the HTTP handler set.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	logger.Debug().Msg("creating http handler")
	return &Handler{
		logger:   logger,
		services: services,
	}
}
