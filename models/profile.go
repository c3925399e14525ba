package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CreatorProfile holds the creator fields shown next to a gig
type CreatorProfile struct {
	ID                 uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID             uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	DisplayName        string    `json:"display_name" db:"display_name" gorm:"type:varchar(100);not null"`
	Tagline            *string   `json:"tagline" db:"tagline" gorm:"type:varchar(200)"`
	ProfileImageURL    *string   `json:"profile_image_url" db:"profile_image_url" gorm:"type:text"`
	AverageRating      float64   `json:"average_rating" db:"average_rating" gorm:"type:numeric(3,2);not null;default:0"`
	TotalReviews       int       `json:"total_reviews" db:"total_reviews" gorm:"not null;default:0"`
	TotalJobsCompleted int       `json:"total_jobs_completed" db:"total_jobs_completed" gorm:"not null;default:0"`
	IsVerified         bool      `json:"is_verified" db:"is_verified" gorm:"not null;default:false"`
	ResponseTimeHours  *int      `json:"response_time_hours" db:"response_time_hours"`
	CreatedAt          time.Time `json:"-" db:"created_at"`
	UpdatedAt          time.Time `json:"-" db:"updated_at"`
}

func (p *CreatorProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// ClientProfile holds the brand or business posting projects
type ClientProfile struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID          uuid.UUID `json:"user_id" db:"user_id" gorm:"type:uuid;not null;uniqueIndex"`
	CompanyName     string    `json:"company_name" db:"company_name" gorm:"type:varchar(200);not null"`
	CompanyLogoURL  *string   `json:"company_logo_url" db:"company_logo_url" gorm:"type:text"`
	Industry        *string   `json:"industry" db:"industry" gorm:"type:varchar(100)"`
	WebsiteURL      *string   `json:"website_url" db:"website_url" gorm:"type:text"`
	Description     *string   `json:"description" db:"description" gorm:"type:text"`
	IsVerified      bool      `json:"is_verified" db:"is_verified" gorm:"not null;default:false"`
	TotalJobsPosted int       `json:"total_jobs_posted" db:"total_jobs_posted" gorm:"not null;default:0"`
	AverageRating   float64   `json:"average_rating" db:"average_rating" gorm:"type:numeric(3,2);not null;default:0"`
	TotalReviews    int       `json:"total_reviews" db:"total_reviews" gorm:"not null;default:0"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

func (p *ClientProfile) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
