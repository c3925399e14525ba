package database

import (
	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

// ProjectSorts maps the public project sort keys onto project columns.
var ProjectSorts = listing.SortTable{
	Default: "created_at",
	Columns: map[string]string{
		"created_at": "created_at",
		"budget":     "budget_min",
		"deadline":   "deadline_date",
		"proposals":  "proposal_count",
		"views":      "view_count",
	},
}

// ProjectFilter holds the optional project listing predicates.
type ProjectFilter struct {
	Status          string
	Category        string
	VideoType       string
	ExperienceLevel string
	MinBudget       *float64
	MaxBudget       *float64
	Search          string
	ClientProfileID *uuid.UUID
}

func (f ProjectFilter) Validate() error {
	if f.MinBudget != nil && *f.MinBudget < 0 {
		return errs.NewBelowMinimumError("min_budget", *f.MinBudget, 0)
	}
	if f.MaxBudget != nil && *f.MaxBudget < 0 {
		return errs.NewBelowMinimumError("max_budget", *f.MaxBudget, 0)
	}
	if f.Status != "" && !contains(models.ProjectStatuses, f.Status) {
		return errs.NewInvalidEnumError("status", f.Status, models.ProjectStatuses)
	}
	if f.ExperienceLevel != "" && !contains(models.ExperienceLevels, f.ExperienceLevel) {
		return errs.NewInvalidEnumError("experience_level", f.ExperienceLevel, models.ExperienceLevels)
	}
	return nil
}

// Scopes returns one scope per active predicate.
//
// The budget bounds are an either-bound test rather than interval overlap:
// min_budget matches when budget_min >= m or a present budget_max >= m, and
// max_budget matches when budget_min <= M or a present budget_max <= M.
func (f ProjectFilter) Scopes() []listing.Scope {
	var scopes []listing.Scope

	if f.Status != "" {
		scopes = append(scopes, equals("projects", "status", f.Status))
	}
	if f.Category != "" {
		scopes = append(scopes, equals("projects", "category", f.Category))
	}
	if f.VideoType != "" {
		scopes = append(scopes, equals("projects", "video_type", f.VideoType))
	}
	if f.ExperienceLevel != "" {
		scopes = append(scopes, equals("projects", "experience_level", f.ExperienceLevel))
	}
	if f.ClientProfileID != nil {
		scopes = append(scopes, equals("projects", "client_profile_id", *f.ClientProfileID))
	}
	if f.MinBudget != nil {
		minBudget := *f.MinBudget
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(projects.budget_min >= ? OR (projects.budget_max IS NOT NULL AND projects.budget_max >= ?))",
				minBudget, minBudget,
			)
		})
	}
	if f.MaxBudget != nil {
		maxBudget := *f.MaxBudget
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(projects.budget_min <= ? OR (projects.budget_max IS NOT NULL AND projects.budget_max <= ?))",
				maxBudget, maxBudget,
			)
		})
	}
	if f.Search != "" {
		scopes = append(scopes, containsText("projects", f.Search))
	}

	return scopes
}
