package database

import (
	"context"
	"fmt"
	stdlog "log"
	"strings"
	"time"

	"github.com/rpupo63/reelbyte-backend/config"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	"gorm.io/plugin/dbresolver"
)

// Open connects to the primary Postgres database and, when replica DSNs are
// configured, registers them with dbresolver so plain reads (listings,
// lookups) go to a replica while writes and transactions stay on the primary.
func Open(ctx context.Context, s config.Settings) (*gorm.DB, error) {
	newLogger := logger.New(
		stdlog.New(log.Logger, "", 0),
		logger.Config{
			SlowThreshold:             s.DBSlowThreshold,
			LogLevel:                  parseLogLevel(s.DBLogLevel),
			IgnoreRecordNotFoundError: true,
			Colorful:                  false,
		},
	)

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  s.DatabaseDSN,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		PrepareStmt: false,
		Logger:      newLogger,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if len(s.ReplicaDSNs) > 0 {
		replicas := make([]gorm.Dialector, 0, len(s.ReplicaDSNs))
		for _, dsn := range s.ReplicaDSNs {
			replicas = append(replicas, postgres.New(postgres.Config{
				DSN:                  dsn,
				PreferSimpleProtocol: true,
			}))
		}
		resolver := dbresolver.Register(dbresolver.Config{
			Replicas: replicas,
			Policy:   dbresolver.RandomPolicy{},
		}).
			SetMaxOpenConns(s.DBMaxOpenConns).
			SetMaxIdleConns(s.DBMaxIdleConns).
			SetConnMaxLifetime(time.Hour)
		if err := db.Use(resolver); err != nil {
			return nil, fmt.Errorf("register read replicas: %w", err)
		}
		log.Info().Int("replicas", len(replicas)).Msg("read replicas registered")
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(s.DBMaxOpenConns)
	sqlDB.SetMaxIdleConns(s.DBMaxIdleConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test database connection
	var result int
	if err := db.WithContext(ctx).Raw("SELECT 1").Scan(&result).Error; err != nil {
		return nil, fmt.Errorf("test database connection: %w", err)
	}

	return db, nil
}

func parseLogLevel(level string) logger.LogLevel {
	switch strings.ToLower(level) {
	case "silent":
		return logger.Silent
	case "error":
		return logger.Error
	case "info":
		return logger.Info
	default:
		return logger.Warn
	}
}
