// Package config loads the application configuration from three layered
// sources (environment variables, command-line flags, and an optional JSON
// file) and merges them with dario.cat/mergo. Earlier sources win: env over
// flags over JSON.
package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container shared by the
// server and client binaries. It is populated by the builder in builder.go.
//
// Struct tags:
//   - envPrefix: prefix applied to nested env lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds token parameters and trust-policy settings.
	App App `envPrefix:"APP_"`

	// Storage holds the server's database connection settings.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds the inbound HTTP transport settings.
	Server Server `envPrefix:"SERVER_"`

	// Client holds settings for the sync client binary.
	Client Client `envPrefix:"CLIENT_"`

	// JSONFilePath is the optional path to a JSON configuration file,
	// merged underneath env and flag values when non-empty.
	// Populated via the CONFIG env variable or the -c/-config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level settings shared across transports.
type App struct {
	// TokenSignKey is the HMAC secret used to sign and verify session JWTs.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim of every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration is how long an issued session token stays valid.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// DeviceLimit caps the number of active devices per account. It stands
	// in for the external plan predicate; zero means unlimited. Enforced
	// only when registering a new device, never on heartbeats.
	// Env: APP_DEVICE_LIMIT
	DeviceLimit int `env:"DEVICE_LIMIT"`

	// Version is the semantic version of the running binary.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage holds persistence settings for the server.
type Storage struct {
	DB DB `envPrefix:"DB_"`
}

// DB holds the relational database connection settings.
type DB struct {
	// DSN is the PostgreSQL connection string.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`
}

// Server holds network and timeout settings for the HTTP transport.
type Server struct {
	// HTTPAddress is the listen address in "host:port" form.
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// RequestTimeout bounds a single inbound request.
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// Client holds settings for the sync client binary.
type Client struct {
	// ServerURL is the base URL of the vault server.
	// Env: CLIENT_SERVER_URL
	ServerURL string `env:"SERVER_URL"`

	// StatePath is where the client keeps its local cache file (encrypted
	// blob, pending queue, device identity). Empty means in-memory only.
	// Env: CLIENT_STATE_PATH
	StatePath string `env:"STATE_PATH"`

	// SyncInterval is the period of the background sync job.
	// Env: CLIENT_SYNC_INTERVAL
	SyncInterval time.Duration `env:"SYNC_INTERVAL"`

	// RecencyWindow tunes the deleted-vs-just-synced conflict heuristic:
	// a one-sided entry modified within this window is treated as a
	// conflict instead of being silently carried through or dropped.
	// Env: CLIENT_RECENCY_WINDOW
	RecencyWindow time.Duration `env:"RECENCY_WINDOW"`

	// RequestTimeout bounds a single outbound request to the server.
	// Env: CLIENT_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
}

// GetServerConfig builds the server configuration from env, flags, and the
// optional JSON file, validated for server use.
func GetServerConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		build(validateServer)
}

// GetClientConfig builds the client configuration from env and the optional
// JSON file. Flags are left to the client's own command parser, which has
// subcommands of its own.
func GetClientConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withJSON().
		build(validateClient)
}
