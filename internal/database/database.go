package database

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/yukikurage/task-tracker-api/internal/config"
	"github.com/yukikurage/task-tracker-api/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the sqlite database used by the "sqlite" store backend.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	logLevel := logger.Warn
	if cfg.GinMode == "release" {
		logLevel = logger.Error
	}

	db, err := gorm.Open(sqlite.Open(cfg.SQLiteDSN), &gorm.Config{
		Logger: logger.New(zerologWriter{}, logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logLevel,
			IgnoreRecordNotFoundError: true,
		}),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access database handle: %w", err)
	}
	// Every connection to ":memory:" is a separate database.
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)

	log.Info().Str("dsn", cfg.SQLiteDSN).Msg("Database connection established")
	return db, nil
}

// zerologWriter routes gorm's log lines through the global zerolog logger.
type zerologWriter struct{}

func (zerologWriter) Printf(format string, args ...any) {
	log.Warn().Str("component", "gorm").Msgf(format, args...)
}

// Migrate creates the tables and indexes for every model.
func Migrate(db *gorm.DB) error {
	log.Info().Msg("Running database migrations...")
	err := db.AutoMigrate(
		&models.User{},
		&models.Session{},
		&models.Task{},
	)
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	if err := AddIndexes(db); err != nil {
		return fmt.Errorf("failed to add indexes: %w", err)
	}
	log.Info().Msg("Database migrations completed")
	return nil
}
