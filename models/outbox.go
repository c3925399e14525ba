package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

const (
	EntityGig     = "gig"
	EntityProject = "project"

	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// OutboxEvent records a gig or project change, written in the same
// transaction as the change itself and delivered later by the dispatcher.
type OutboxEvent struct {
	ID          int64          `json:"id" db:"id" gorm:"primaryKey;autoIncrement"`
	EntityType  string         `json:"entity_type" db:"entity_type" gorm:"type:varchar(20);not null;index"`
	EntityID    uuid.UUID      `json:"entity_id" db:"entity_id" gorm:"type:uuid;not null"`
	Op          string         `json:"op" db:"op" gorm:"type:varchar(20);not null"`
	Payload     datatypes.JSON `json:"payload" db:"payload"`
	Attempts    int            `json:"attempts" db:"attempts" gorm:"not null;default:0"`
	LastError   *string        `json:"last_error" db:"last_error" gorm:"type:text"`
	Processed   bool           `json:"processed" db:"processed" gorm:"not null;default:false;index"`
	CreatedAt   time.Time      `json:"created_at" db:"created_at" gorm:"not null"`
	ProcessedAt *time.Time     `json:"processed_at" db:"processed_at"`

	// ClaimedUntil is the lease of the dispatcher delivering the event.
	// An expired lease makes the event claimable again.
	ClaimedUntil *time.Time `json:"claimed_until" db:"claimed_until"`
}

// RoutingKey is the broker topic for the event, e.g. "gig.updated".
func (e OutboxEvent) RoutingKey() string {
	return e.EntityType + "." + e.Op
}
