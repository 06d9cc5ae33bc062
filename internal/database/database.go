package database

import (
	"fmt"
	"strings"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"trading-journal-go/internal/models"
)

// NewDatabase opens the sqlite database at dsn and migrates the schema.
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Every connection to ":memory:" gets its own empty database.
	if strings.Contains(dsn, ":memory:") {
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to get sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := AutoMigrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// AutoMigrate creates or updates the trade and idea tables.
func AutoMigrate(db *gorm.DB) error {
	for _, account := range models.Accounts {
		if err := db.Table(account.Table).AutoMigrate(&models.Trade{}); err != nil {
			return fmt.Errorf("failed to migrate %s: %w", account.Table, err)
		}
	}
	if err := db.AutoMigrate(&models.TraderIdea{}, &models.MgiStrategy{}); err != nil {
		return fmt.Errorf("failed to migrate idea tables: %w", err)
	}
	return nil
}
