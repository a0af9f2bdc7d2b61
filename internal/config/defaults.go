package config

import "time"

// Fallback values applied after all sources are merged. Only fields that are
// safe to default are listed here; secrets and addresses must be provided
// explicitly and are checked by the validators.
const (
	defaultTokenIssuer    = "vaultsync"
	defaultTokenDuration  = 24 * time.Hour
	defaultRequestTimeout = 30 * time.Second
	defaultServerURL      = "http://localhost:8080"
	defaultSyncInterval   = 5 * time.Minute
	defaultRecencyWindow  = 24 * time.Hour
)

func applyDefaults(cfg *StructuredConfig) {
	if cfg.App.TokenIssuer == "" {
		cfg.App.TokenIssuer = defaultTokenIssuer
	}
	if cfg.App.TokenDuration == 0 {
		cfg.App.TokenDuration = defaultTokenDuration
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = defaultRequestTimeout
	}
	if cfg.Client.ServerURL == "" {
		cfg.Client.ServerURL = defaultServerURL
	}
	if cfg.Client.SyncInterval == 0 {
		cfg.Client.SyncInterval = defaultSyncInterval
	}
	if cfg.Client.RecencyWindow == 0 {
		cfg.Client.RecencyWindow = defaultRecencyWindow
	}
	if cfg.Client.RequestTimeout == 0 {
		cfg.Client.RequestTimeout = 15 * time.Second
	}
}
