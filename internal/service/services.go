// Package service implements the server-side business rules on top of the
// store layer: account auth, session lifecycle, device trust, and the
// versioned vault API.
package service

import (
	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/crypto"
	"github.com/safenode/vaultsync/internal/logger"
	"github.com/safenode/vaultsync/internal/store"
)

// Services bundles every server-side service for dependency wiring.
type Services struct {
	AuthService        AuthService
	SessionService     SessionService
	DeviceTrustService DeviceTrustService
	VaultService       VaultService
}

// NewServices wires all services to the repositories and configuration.
func NewServices(repos *store.Repositories, cipher crypto.CipherService, cfg *config.StructuredConfig, log *logger.Logger) *Services {
	sessions := NewSessionService(repos.SessionRepository, cfg.App, log)

	return &Services{
		AuthService:        NewAuthService(repos.UserRepository, sessions, log),
		SessionService:     sessions,
		DeviceTrustService: NewDeviceTrustService(repos.DeviceRepository, sessions, cfg.App.DeviceLimit, log),
		VaultService:       NewVaultService(repos.VaultRepository, cipher, log),
	}
}
