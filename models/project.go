package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectStatusDraft      = "draft"
	ProjectStatusOpen       = "open"
	ProjectStatusInProgress = "in_progress"
	ProjectStatusCompleted  = "completed"
	ProjectStatusCancelled  = "cancelled"
	ProjectStatusClosed     = "closed"
)

var ProjectStatuses = []string{
	ProjectStatusDraft, ProjectStatusOpen, ProjectStatusInProgress,
	ProjectStatusCompleted, ProjectStatusCancelled, ProjectStatusClosed,
}

var BudgetTypes = []string{"fixed", "hourly", "range"}

var ExperienceLevels = []string{"entry", "intermediate", "expert", "any"}

// Project is a client's custom job posting
type Project struct {
	ID              uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ClientProfileID uuid.UUID `json:"client_profile_id" db:"client_profile_id" gorm:"type:uuid;not null;index"`
	Title           string    `json:"title" db:"title" gorm:"type:varchar(200);not null"`
	Description     string    `json:"description" db:"description" gorm:"type:text;not null"`

	Category                string  `json:"category" db:"category" gorm:"type:varchar(50);not null;index"`
	VideoType               *string `json:"video_type" db:"video_type" gorm:"type:varchar(50)"`
	VideoDurationPreference *string `json:"video_duration_preference" db:"video_duration_preference" gorm:"type:varchar(50)"`
	PlatformPreference      *string `json:"platform_preference" db:"platform_preference" gorm:"type:varchar(50)"`

	BudgetType *string  `json:"budget_type" db:"budget_type" gorm:"type:varchar(20)"`
	BudgetMin  *float64 `json:"budget_min" db:"budget_min" gorm:"type:numeric(10,2)"`
	BudgetMax  *float64 `json:"budget_max" db:"budget_max" gorm:"type:numeric(10,2)"`

	// DeadlineDate is a calendar date; no time component is stored.
	DeadlineDate          *datatypes.Date `json:"deadline_date" db:"deadline_date"`
	EstimatedDurationDays *int            `json:"estimated_duration_days" db:"estimated_duration_days"`

	ExperienceLevel *string        `json:"experience_level" db:"experience_level" gorm:"type:varchar(20)"`
	Attachments     datatypes.JSON `json:"attachments" db:"attachments"`

	ViewCount     int `json:"view_count" db:"view_count" gorm:"not null;default:0"`
	ProposalCount int `json:"proposal_count" db:"proposal_count" gorm:"not null;default:0"`

	Status string `json:"status" db:"status" gorm:"type:varchar(20);not null;default:'open';index"`

	CreatedAt   time.Time  `json:"created_at" db:"created_at" gorm:"not null"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at" gorm:"not null"`
	PublishedAt *time.Time `json:"published_at" db:"published_at"`
	ClosedAt    *time.Time `json:"closed_at" db:"closed_at"`

	Client *ClientProfile `json:"client,omitempty" gorm:"foreignKey:ClientProfileID;references:ID"`
	Skills []ProjectSkill `json:"-" gorm:"foreignKey:ProjectID;references:ID;constraint:OnDelete:CASCADE"`
}

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// SkillValues returns the project's required skills in stored order.
func (p *Project) SkillValues() []string {
	values := make([]string, 0, len(p.Skills))
	for _, s := range p.Skills {
		values = append(values, s.Value)
	}
	return values
}

// IsTerminalProjectStatus reports whether status ends the posting's life.
func IsTerminalProjectStatus(status string) bool {
	switch status {
	case ProjectStatusCompleted, ProjectStatusCancelled, ProjectStatusClosed:
		return true
	}
	return false
}
