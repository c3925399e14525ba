package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GigRepo struct {
	db *gorm.DB
}

func NewGigRepo(db *gorm.DB) *GigRepo {
	return &GigRepo{db}
}

// List returns one window of gigs matching f, with creator and tags loaded,
// and the total number of matches.
func (r *GigRepo) List(ctx context.Context, f GigFilter, sort listing.Sort, window listing.Window) ([]models.Gig, int64, error) {
	return listing.Fetch[models.Gig](ctx, r.db, listing.Query{
		Entity:   models.EntityGig,
		Scopes:   f.Scopes(),
		Sort:     sort,
		Window:   window,
		Preloads: []string{"Creator", "Tags"},
	})
}

// FindByID returns a gig by its ID, whatever its status
func (r *GigRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.WithContext(ctx).Preload("Creator").Preload("Tags").First(&gig, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

// FindBySlug returns a gig by its slug
func (r *GigRepo) FindBySlug(ctx context.Context, slug string) (*models.Gig, error) {
	var gig models.Gig
	err := r.db.WithContext(ctx).Preload("Creator").Preload("Tags").First(&gig, "slug = ?", slug).Error
	if err != nil {
		return nil, err
	}
	return &gig, nil
}

func (r *GigRepo) SlugExists(ctx context.Context, slug string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&models.Gig{}).Where("slug = ?", slug).Count(&n).Error
	return n > 0, err
}

// Add inserts a gig with its tags and queues a created event in the same
// transaction.
func (r *GigRepo) Add(ctx context.Context, gig *models.Gig) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(gig).Error; err != nil {
			return err
		}
		return enqueue(tx, models.EntityGig, gig.ID, models.OpCreated, gig.Document())
	})
}

// Update saves the gig's own columns. When tags is non-nil the stored tags
// are replaced by it. The gig is reloaded afterwards.
func (r *GigRepo) Update(ctx context.Context, gig *models.Gig, tags []string) error {
	return r.save(ctx, gig, tags, models.OpUpdated)
}

// SoftDelete persists a gig already marked deleted and queues a deleted event.
func (r *GigRepo) SoftDelete(ctx context.Context, gig *models.Gig) error {
	return r.save(ctx, gig, nil, models.OpDeleted)
}

func (r *GigRepo) save(ctx context.Context, gig *models.Gig, tags []string, op string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(gig).Error; err != nil {
			return err
		}

		if tags != nil {
			if err := tx.Where("gig_id = ?", gig.ID).Delete(&models.GigTag{}).Error; err != nil {
				return err
			}
			if len(tags) > 0 {
				rows := make([]models.GigTag, 0, len(tags))
				for _, value := range tags {
					rows = append(rows, models.GigTag{GigID: gig.ID, Value: value})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Preload("Creator").Preload("Tags").First(gig, "id = ?", gig.ID).Error; err != nil {
			return err
		}
		return enqueue(tx, models.EntityGig, gig.ID, op, gig.Document())
	})
}

// IncrementViews bumps view_count in a single statement without touching
// updated_at.
func (r *GigRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Gig{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + ?", 1))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
