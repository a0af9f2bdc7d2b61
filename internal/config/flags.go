package config

import (
	"flag"
	"os"
)

// parseFlags reads command-line flags into a partial configuration.
//
// Flags:
//
//	-a                server listen address in [host]:[port] form
//	-d                database DSN
//	-c/-config        JSON config file path
//	-token-sign-key   token signing key
//	-token-issuer     token issuer name
//	-token-duration   token lifetime (e.g. "24h")
//	-device-limit     max active devices per account (0 = unlimited)
//	-request-timeout  inbound request timeout (e.g. "30s")
//	-server-url       (client) base URL of the vault server
//	-state-path       (client) local state file path
//	-sync-interval    (client) background sync period
//	-recency-window   (client) conflict recency heuristic window
func parseFlags() *StructuredConfig {
	cfg := &StructuredConfig{}

	fs := flag.NewFlagSet(os.Args[0], flag.ExitOnError)

	fs.StringVar(&cfg.Server.HTTPAddress, "a", "", "server listen address host:port")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "database DSN")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "json config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "json config file path")
	fs.StringVar(&cfg.App.TokenSignKey, "token-sign-key", "", "token signing key")
	fs.StringVar(&cfg.App.TokenIssuer, "token-issuer", "", "token issuer name")
	fs.DurationVar(&cfg.App.TokenDuration, "token-duration", 0, "token lifetime")
	fs.IntVar(&cfg.App.DeviceLimit, "device-limit", 0, "max active devices per account")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "inbound request timeout")
	fs.StringVar(&cfg.Client.ServerURL, "server-url", "", "vault server base url")
	fs.StringVar(&cfg.Client.StatePath, "state-path", "", "client local state file path")
	fs.DurationVar(&cfg.Client.SyncInterval, "sync-interval", 0, "background sync period")
	fs.DurationVar(&cfg.Client.RecencyWindow, "recency-window", 0, "conflict recency window")

	// ExitOnError makes a parse failure terminate the process with usage.
	_ = fs.Parse(flagArgs())

	return cfg
}

// flagArgs is swapped in tests to feed synthetic command lines.
var flagArgs = func() []string { return os.Args[1:] }
