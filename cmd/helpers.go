package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/ziadkadry99/hydradash/internal/config"
	"github.com/ziadkadry99/hydradash/internal/dashboard"
	"github.com/ziadkadry99/hydradash/internal/db"
	"github.com/ziadkadry99/hydradash/internal/history"
	"github.com/ziadkadry99/hydradash/internal/hydra"
	"github.com/ziadkadry99/hydradash/internal/render"
)

// historyFile is the action history database inside the data directory.
const historyFile = "history.db"

// loadConfig loads the env file and config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	if err := config.LoadDotEnv(envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `hydradash init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", cfgFile, err)
	}
	return cfg, nil
}

// openDashboard builds the dashboard controller and the history database
// behind it. The caller closes the database.
func openDashboard(cfg *config.Config) (*dashboard.Dashboard, *db.DB, error) {
	client, err := hydra.NewClient(cfg.BackendURL, time.Duration(cfg.RequestTimeout)*time.Second)
	if err != nil {
		return nil, nil, err
	}

	set, err := render.NewSet()
	if err != nil {
		return nil, nil, err
	}

	database, err := db.Open(filepath.Join(cfg.DataDir, historyFile))
	if err != nil {
		return nil, nil, fmt.Errorf("opening history database: %w", err)
	}

	d, err := dashboard.New(cfg, client, set, history.NewStore(database))
	if err != nil {
		database.Close()
		return nil, nil, err
	}
	return d, database, nil
}

// setup loads configuration and opens the dashboard in one step.
func setup() (*config.Config, *dashboard.Dashboard, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	d, database, err := openDashboard(cfg)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, d, func() { database.Close() }, nil
}
