package config

import "errors"

var (
	// ErrNoServerAddress: the server cannot start without a listen address.
	ErrNoServerAddress = errors.New("no server address provided")

	// ErrNoDatabaseDSN: the server requires a database connection string.
	ErrNoDatabaseDSN = errors.New("no database DSN provided")

	// ErrNoTokenSignKey: session tokens cannot be issued or verified
	// without a signing secret.
	ErrNoTokenSignKey = errors.New("no token signing key provided")

	// ErrNoServerURL: the client needs a server base URL to sync against.
	ErrNoServerURL = errors.New("no server URL provided")
)

func validateServer(cfg *StructuredConfig) error {
	var err error
	if cfg.Server.HTTPAddress == "" {
		err = errors.Join(err, ErrNoServerAddress)
	}
	if cfg.Storage.DB.DSN == "" {
		err = errors.Join(err, ErrNoDatabaseDSN)
	}
	if cfg.App.TokenSignKey == "" {
		err = errors.Join(err, ErrNoTokenSignKey)
	}
	return err
}

func validateClient(cfg *StructuredConfig) error {
	if cfg.Client.ServerURL == "" {
		return ErrNoServerURL
	}
	return nil
}
