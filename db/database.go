package db

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"catalog/models"
)

// InitDatabase opens the SQLite database at path, creating the file and its
// directory when needed, and migrates the schema.
func InitDatabase(path string, log logrus.FieldLogger) (*gorm.DB, error) {
	if isFile(path) {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		if _, err := os.Stat(path); os.IsNotExist(err) {
			log.WithField("path", path).Info("database file does not exist, creating")
		}
	}

	database, err := gorm.Open(sqlite.Open(dsn(path)), &gorm.Config{
		TranslateError: true,
		Logger: logger.New(log, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := database.AutoMigrate(
		&models.User{}, &models.ApiToken{}, &models.Manufacturer{}, &models.Product{},
	); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	log.WithField("path", path).Info("database connected")
	return database, nil
}

// Close releases the underlying connection pool.
func Close(database *gorm.DB) error {
	sqlDB, err := database.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func isFile(path string) bool {
	return !strings.HasPrefix(path, "file:") && !strings.HasPrefix(path, ":memory:")
}

// dsn turns on foreign keys and a busy timeout for every connection.
func dsn(path string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + "_foreign_keys=on&_busy_timeout=5000"
}
