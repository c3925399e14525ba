// Package dbtest opens throwaway SQLite databases with the full schema
// migrated, for tests that need a real store behind GORM.
package dbtest

import (
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Open returns a migrated database stored under t.TempDir().
func Open(t testing.TB) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")

	db, err := gorm.Open(sqlite.Open(path+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open db: %v", err)
	}

	if err := models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate db: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Closed returns a database whose connection pool is already closed, so
// any statement run against it fails.
func Closed(t testing.TB) *gorm.DB {
	t.Helper()
	db := Open(t)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql db: %v", err)
	}
	if err := sqlDB.Close(); err != nil {
		t.Fatalf("failed to close db: %v", err)
	}
	return db
}
