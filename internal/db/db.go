package db

import (
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"giftstore/internal/config"
	"giftstore/internal/model"
)

func Open(cfg *config.Config) (*gorm.DB, error) {
	if cfg.DBDriver != "sqlite" {
		return nil, errors.New("only sqlite is wired in this skeleton; swap driver in db.Open")
	}
	if cfg.DBDsn == "" {
		return nil, fmt.Errorf("DB_DSN required")
	}

	// Create directory for database file if it doesn't exist
	dbDir := filepath.Dir(cfg.DBDsn)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
	}

	// Quiet GORM logger; `record not found` is the expected outcome of every
	// code-uniqueness probe, so it must not be logged as an error.
	newLogger := logger.New(
		log.New(os.Stdout, "", log.LstdFlags),
		logger.Config{
			SlowThreshold:             2 * time.Second,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)

	db, err := gorm.Open(sqlite.Open(cfg.DBDsn), &gorm.Config{
		Logger: newLogger,
	})
	if err != nil {
		return nil, err
	}
	// Tune SQLite to alleviate write contention: WAL + busy_timeout
	_ = db.Exec("PRAGMA journal_mode=WAL;").Error
	_ = db.Exec("PRAGMA busy_timeout=10000;").Error
	_ = db.Exec("PRAGMA synchronous=NORMAL;").Error
	if sqlDB, err2 := db.DB(); err2 == nil {
		// For SQLite, a small number of conns is recommended
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	}
	return db, nil
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.UserPermission{},
		&model.GiftCard{},
	)
}
