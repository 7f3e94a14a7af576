// Package infra opens the embedded database and provides the persistence
// implementations behind the repository interfaces.
package infra

import (
	"time"

	"github.com/amirasaad/pixbank/pkg/config"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDBConnection opens the embedded store at cfg.Path and migrates the
// schema. Development environments get verbose query logging.
func NewDBConnection(cfg *config.DB, appEnv string) (*gorm.DB, error) {
	logMode := logger.Silent
	if appEnv == "development" {
		logMode = logger.Info
	}

	db, err := gorm.Open(sqlite.Open(cfg.Path), &gorm.Config{
		Logger:                 logger.Default.LogMode(logMode),
		TranslateError:         true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// sqlite allows one writer; a single connection sidesteps SQLITE_BUSY.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetConnMaxLifetime(1 * time.Hour)

	return db, nil
}
