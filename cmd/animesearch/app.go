package main

import (
	"github.com/pkg/errors"

	"github.com/amaumene/animesearch/internal/config"
	"github.com/amaumene/animesearch/internal/database"
	"github.com/amaumene/animesearch/internal/services"
	"github.com/amaumene/animesearch/pkg/logger"
)

// InitializeConfig loads and validates the configuration.
func InitializeConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, errors.Wrap(err, "failed to load configuration")
	}
	return cfg, nil
}

// InitializeLogger builds the application logger from cfg.
func InitializeLogger(cfg *config.Config) logger.Logger {
	return logger.NewWithOptions(logger.Options{
		Level:  cfg.LogLevel,
		Format: cfg.LogFormat,
		File:   cfg.LogFile,
	})
}

// InitializeDatabase opens the probe history store.
func InitializeDatabase(cfg *config.Config, log logger.Logger) (database.Database, error) {
	db, err := database.NewBolt(cfg.DatabasePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize database")
	}
	log.Infof("[App] probe database opened at %s", cfg.DatabasePath)
	return db, nil
}

// InitializeServices loads everything a command needs. The database is
// opened only when withDB is set.
func InitializeServices(withDB bool) (*services.Container, error) {
	cfg, err := InitializeConfig()
	if err != nil {
		return nil, err
	}
	log := InitializeLogger(cfg)

	var db database.Database
	if withDB {
		if db, err = InitializeDatabase(cfg, log); err != nil {
			return nil, err
		}
	}

	container := services.NewContainer(cfg, log, db)
	log.Debugf("[App] providers: %v", container.TorrentSearch.Providers())
	return container, nil
}
