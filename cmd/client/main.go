package main

import (
	"fmt"
	"os"

	"github.com/safenode/vaultsync/internal/client"
	"github.com/safenode/vaultsync/internal/config"
	"github.com/safenode/vaultsync/internal/logger"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	log := logger.NewClientLogger("vaultsync-client")

	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	app, err := client.NewApp(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	root := client.NewRootCommand(app)
	root.Version = versionString()

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func versionString() string {
	version, date, commit := buildVersion, buildDate, buildCommit
	if version == "" {
		version = "N/A"
	}
	if date == "" {
		date = "N/A"
	}
	if commit == "" {
		commit = "N/A"
	}
	return fmt.Sprintf("%s (built %s, commit %s)", version, date, commit)
}
