// Package db opens the storage backend and manages its schema.
package db

import (
	"fmt"
	"log"

	"taskflow/internal/config"
	"taskflow/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Open connects to the database selected by cfg.DBDriver.
func Open(cfg *config.Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{Logger: logger.Default.LogMode(logger.Warn)}

	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case DriverPostgres:
		dialector = postgres.Open(cfg.PostgresDSN())
	case DriverSQLite:
		dialector = sqlite.Open(cfg.SQLitePath + "?_foreign_keys=on")
	default:
		return nil, fmt.Errorf("db: unknown driver %q", cfg.DBDriver)
	}

	gdb, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, fmt.Errorf("db: connect %s: %w", cfg.DBDriver, err)
	}

	if cfg.DBDriver == DriverSQLite {
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("db: %w", err)
		}
		// sqlite serialises writers anyway; one connection avoids SQLITE_BUSY
		sqlDB.SetMaxOpenConns(1)
	}

	log.Printf("✅ Connected to %s database", cfg.DBDriver)
	return gdb, nil
}

// AutoMigrate creates or updates tables from the models. It is the schema
// path for sqlite and an opt-in shortcut for postgres (DB_AUTO_MIGRATE).
func AutoMigrate(gdb *gorm.DB) error {
	if err := gdb.AutoMigrate(&model.User{}, &model.Project{}, &model.Task{}, &model.Comment{}); err != nil {
		return fmt.Errorf("db: auto-migrate: %w", err)
	}
	return nil
}
