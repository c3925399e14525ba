package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProjectRepo struct {
	db *gorm.DB
}

func NewProjectRepo(db *gorm.DB) *ProjectRepo {
	return &ProjectRepo{db}
}

// List returns one window of projects matching f, with client and skills
// loaded, and the total number of matches.
func (r *ProjectRepo) List(ctx context.Context, f ProjectFilter, sort listing.Sort, window listing.Window) ([]models.Project, int64, error) {
	return listing.Fetch[models.Project](ctx, r.db, listing.Query{
		Entity:   models.EntityProject,
		Scopes:   f.Scopes(),
		Sort:     sort,
		Window:   window,
		Preloads: []string{"Client", "Skills"},
	})
}

// FindByID returns a project by its ID
func (r *ProjectRepo) FindByID(ctx context.Context, id uuid.UUID) (*models.Project, error) {
	var project models.Project
	err := r.db.WithContext(ctx).Preload("Client").Preload("Skills").First(&project, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Add inserts a project with its skills and queues a created event.
func (r *ProjectRepo) Add(ctx context.Context, project *models.Project) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(project).Error; err != nil {
			return err
		}
		return enqueue(tx, models.EntityProject, project.ID, models.OpCreated, project.Document())
	})
}

// Update saves the project's own columns, replaces its skills when skills is
// non-nil and reloads it.
func (r *ProjectRepo) Update(ctx context.Context, project *models.Project, skills []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(project).Error; err != nil {
			return err
		}

		if skills != nil {
			if err := tx.Where("project_id = ?", project.ID).Delete(&models.ProjectSkill{}).Error; err != nil {
				return err
			}
			if len(skills) > 0 {
				rows := make([]models.ProjectSkill, 0, len(skills))
				for _, value := range skills {
					rows = append(rows, models.ProjectSkill{ProjectID: project.ID, Value: value})
				}
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
		}

		if err := tx.Preload("Client").Preload("Skills").First(project, "id = ?", project.ID).Error; err != nil {
			return err
		}
		return enqueue(tx, models.EntityProject, project.ID, models.OpUpdated, project.Document())
	})
}

// IncrementViews bumps view_count without touching updated_at.
func (r *ProjectRepo) IncrementViews(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&models.Project{}).
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
