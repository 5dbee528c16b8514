package util

import (
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"doodh-waitlist/model"
)

// InitDB connects to the waitlist database, creating it on first run, and migrates the schema
func InitDB(cfg DBConfig, logger *zap.Logger) (*gorm.DB, error) {
	// 1. BOOTSTRAP: CREATE DATABASE IF NOT EXISTS
	maintenanceDSN := fmt.Sprintf("host=%s user=%s password=%s dbname=postgres port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Port, cfg.SSLMode)

	tempDB, err := gorm.Open(postgres.Open(maintenanceDSN), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to postgres instance: %w", err)
	}

	var exists bool
	tempDB.Raw("SELECT EXISTS(SELECT datname FROM pg_catalog.pg_database WHERE datname = ?)", cfg.Name).Scan(&exists)

	if !exists {
		logger.Info("database not found, creating", zap.String("database", cfg.Name))
		if err := tempDB.Exec(fmt.Sprintf("CREATE DATABASE %q", cfg.Name)).Error; err != nil {
			return nil, fmt.Errorf("create database: %w", err)
		}
	}

	if sqlDB, err := tempDB.DB(); err == nil {
		sqlDB.Close()
	}

	// 2. CONNECT TO APP DATABASE
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=%s",
		cfg.Host, cfg.User, cfg.Password, cfg.Name, cfg.Port, cfg.SSLMode)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("connect to application database: %w", err)
	}

	// 3. AUTO MIGRATE
	if err := MigrateWaitlist(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	// 4. CONFIGURE CONNECTION POOL
	postgresDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get underlying DB object: %w", err)
	}
	postgresDB.SetMaxOpenConns(20)
	postgresDB.SetMaxIdleConns(10)
	postgresDB.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("database connected, migrated, and pool configured", zap.String("database", cfg.Name))
	return db, nil
}

// MigrateWaitlist creates or updates the waitlist tables
func MigrateWaitlist(db *gorm.DB) error {
	return db.AutoMigrate(&model.WaitlistEntry{})
}
