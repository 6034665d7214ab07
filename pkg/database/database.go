package database

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"lolharvest/pkg/config"
	"lolharvest/pkg/database/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewConnection opens the warehouse the aggregated dataset is loaded
// into: Postgres when a DSN is configured, a local sqlite file
// otherwise. The handle is owned by the caller and must be closed via
// Close on every exit path.
func NewConnection(cfg config.WarehouseConfiguration) (*gorm.DB, error) {
	dialector, err := selectDialector(cfg)
	if err != nil {
		return nil, err
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to the warehouse: %w", err)
	}

	sqlDb, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get the sql connection: %w", err)
	}

	// The load is a single bulk replace, a small pool is plenty.
	sqlDb.SetMaxOpenConns(4)
	sqlDb.SetMaxIdleConns(2)
	sqlDb.SetConnMaxLifetime(time.Hour)

	if err := sqlDb.Ping(); err != nil {
		sqlDb.Close()
		return nil, fmt.Errorf("failed to ping the warehouse: %w", err)
	}

	return db, nil
}

func selectDialector(cfg config.WarehouseConfiguration) (gorm.Dialector, error) {
	if cfg.URL != "" {
		return postgres.Open(cfg.URL), nil
	}

	if err := os.MkdirAll(filepath.Dir(cfg.SqlitePath), 0o755); err != nil {
		return nil, fmt.Errorf("couldn't create the warehouse folder: %w", err)
	}

	return sqlite.Open(cfg.SqlitePath), nil
}

// Close releases the underlying connection pool.
func Close(db *gorm.DB) {
	if db == nil {
		return
	}
	if sqlDb, err := db.DB(); err == nil {
		sqlDb.Close()
	}
}

// ReplaceGames replaces the whole games table with the given rows and
// returns how many ended up written. Matches the drop-and-reload
// contract of the pipeline: the table is rebuilt on every run.
func ReplaceGames(db *gorm.DB, rows []models.GameRow) (int64, error) {
	migrator := db.Migrator()

	if migrator.HasTable(&models.GameRow{}) {
		if err := migrator.DropTable(&models.GameRow{}); err != nil {
			return 0, fmt.Errorf("couldn't drop the games table: %w", err)
		}
	}

	if err := db.AutoMigrate(&models.GameRow{}); err != nil {
		return 0, fmt.Errorf("couldn't create the games table: %w", err)
	}

	if len(rows) > 0 {
		// Loads in batches of 1000.
		if err := db.CreateInBatches(&rows, 1000).Error; err != nil {
			return 0, fmt.Errorf("couldn't load the games table: %w", err)
		}
	}

	var written int64
	if err := db.Model(&models.GameRow{}).Count(&written).Error; err != nil {
		return 0, fmt.Errorf("couldn't count the written rows: %w", err)
	}

	return written, nil
}
