package database

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/errs"
	"github.com/rpupo63/reelbyte-backend/listing"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

// GigSorts maps the public gig sort keys onto gig columns.
var GigSorts = listing.SortTable{
	Default: "created_at",
	Columns: map[string]string{
		"created_at": "created_at",
		"price":      "basic_price",
		"popularity": "order_count",
		"views":      "view_count",
	},
}

// ListableGigStatuses are the status values a gig listing may filter on.
var ListableGigStatuses = []string{models.GigStatusDraft, models.GigStatusActive, models.GigStatusPaused}

// GigFilter holds the optional gig listing predicates. Zero values are
// inactive.
type GigFilter struct {
	Search           string
	Category         string
	Subcategory      string
	VideoType        string
	CreatorProfileID *uuid.UUID
	Status           string
	MinPrice         *float64
	MaxPrice         *float64
	Tags             []string
}

func (f GigFilter) Validate() error {
	if f.MinPrice != nil && *f.MinPrice < 0 {
		return errs.NewBelowMinimumError("min_price", *f.MinPrice, 0)
	}
	if f.MaxPrice != nil && *f.MaxPrice < 0 {
		return errs.NewBelowMinimumError("max_price", *f.MaxPrice, 0)
	}
	if f.Status != "" && !contains(ListableGigStatuses, f.Status) {
		return errs.NewInvalidEnumError("status", f.Status, ListableGigStatuses)
	}
	return nil
}

// Scopes returns one scope per active predicate.
func (f GigFilter) Scopes() []listing.Scope {
	var scopes []listing.Scope

	if f.Status != "" {
		scopes = append(scopes, equals("gigs", "status", f.Status))
	}
	if f.Category != "" {
		scopes = append(scopes, equals("gigs", "category", f.Category))
	}
	if f.Subcategory != "" {
		scopes = append(scopes, equals("gigs", "subcategory", f.Subcategory))
	}
	if f.VideoType != "" {
		scopes = append(scopes, equals("gigs", "video_type", f.VideoType))
	}
	if f.CreatorProfileID != nil {
		scopes = append(scopes, equals("gigs", "creator_profile_id", *f.CreatorProfileID))
	}
	if f.MinPrice != nil {
		minPrice := *f.MinPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("gigs.basic_price >= ?", minPrice)
		})
	}
	if f.MaxPrice != nil {
		maxPrice := *f.MaxPrice
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("gigs.basic_price <= ?", maxPrice)
		})
	}
	if len(f.Tags) > 0 {
		tags := f.Tags
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("EXISTS (SELECT 1 FROM gig_tags WHERE gig_tags.gig_id = gigs.id AND gig_tags.value IN ?)", tags)
		})
	}
	if f.Search != "" {
		scopes = append(scopes, containsText("gigs", f.Search))
	}

	return scopes
}

func equals(table, column string, value any) listing.Scope {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(fmt.Sprintf("%s.%s = ?", table, column), value)
	}
}

// containsText matches term anywhere in title or description, ignoring case.
func containsText(table, term string) listing.Scope {
	pattern := "%" + strings.ToLower(term) + "%"
	return func(db *gorm.DB) *gorm.DB {
		return db.Where(
			fmt.Sprintf("(LOWER(%[1]s.title) LIKE ? OR LOWER(%[1]s.description) LIKE ?)", table),
			pattern, pattern,
		)
	}
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}
