package database

import (
	"context"

	"gorm.io/gorm"
)

type Database struct {
	db          *gorm.DB
	gigRepo     *GigRepo
	projectRepo *ProjectRepo
	profileRepo *ProfileRepo
	outboxRepo  *OutboxRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		db:          db,
		gigRepo:     NewGigRepo(db),
		projectRepo: NewProjectRepo(db),
		profileRepo: NewProfileRepo(db),
		outboxRepo:  NewOutboxRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) GigRepo() *GigRepo {
	return d.gigRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ProfileRepo() *ProfileRepo {
	return d.profileRepo
}

func (d Database) OutboxRepo() *OutboxRepo {
	return d.outboxRepo
}

// Ping checks that the primary connection pool can reach the database.
func (d Database) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
