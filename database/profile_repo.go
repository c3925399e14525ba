package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

type ProfileRepo struct {
	db *gorm.DB
}

func NewProfileRepo(db *gorm.DB) *ProfileRepo {
	return &ProfileRepo{db}
}

// FindCreator returns a creator profile by its ID
func (r *ProfileRepo) FindCreator(ctx context.Context, id uuid.UUID) (*models.CreatorProfile, error) {
	var profile models.CreatorProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// FindClient returns a client profile by its ID
func (r *ProfileRepo) FindClient(ctx context.Context, id uuid.UUID) (*models.ClientProfile, error) {
	var profile models.ClientProfile
	if err := r.db.WithContext(ctx).First(&profile, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}
