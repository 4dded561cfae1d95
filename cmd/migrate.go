package main

import (
	"fmt"

	"salonos-service/pkg/config"
	"salonos-service/pkg/database"
	"salonos-service/pkg/logger"
)

// MigrateCmd applies the schema and exits.
type MigrateCmd struct{}

func (m *MigrateCmd) Run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logger.InitLogger(cfg); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.GetLogger()
	defer func() { _ = log.Sync() }()

	db, err := database.Open(&cfg.DB)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close(db) }()

	return database.Migrate(db, log)
}
