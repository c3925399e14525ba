package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectSkill represents a skill a project asks for
type ProjectSkill struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	ProjectID uuid.UUID `json:"project_id" db:"project_id" gorm:"type:uuid;not null;index:idx_project_skill_project_id;uniqueIndex:idx_project_skill_unique"`
	Value     string    `json:"value" db:"value" gorm:"type:text;not null;uniqueIndex:idx_project_skill_unique"`
}

func (s *ProjectSkill) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
