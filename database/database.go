package database

import (
	"fmt"
	"strings"

	"goblog/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DefaultDSN is the sqlite file used when DATABASE_URL is not set.
const DefaultDSN = "blog.db"

// Connect opens a database connection. A postgres:// or postgresql:// URL
// selects the postgres driver; anything else is treated as a sqlite DSN.
func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		dsn = DefaultDSN
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		// Heroku-style postgres:// URLs are normalized to the canonical
		// postgresql:// spelling.
		dsn = strings.Replace(dsn, "postgres://", "postgresql://", 1)
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates the schema for all models.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.User{}, &models.Post{}, &models.Comment{}); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logrus.Info("Database migrated")
	return nil
}
