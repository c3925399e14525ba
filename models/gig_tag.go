package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GigTag is one lower-cased search tag attached to a gig
type GigTag struct {
	ID    uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	GigID uuid.UUID `json:"gig_id" db:"gig_id" gorm:"type:uuid;not null;index:idx_gig_tag_gig_id;uniqueIndex:idx_gig_tag_unique"`
	Value string    `json:"value" db:"value" gorm:"type:text;not null;index:idx_gig_tag_value;uniqueIndex:idx_gig_tag_unique"`
}

func (t *GigTag) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
