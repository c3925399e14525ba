package database

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DeliverFunc hands a batch of events to the sinks and returns the failures
// keyed by event ID. Events missing from the map were delivered.
type DeliverFunc func(ctx context.Context, events []models.OutboxEvent) map[int64]error

// DefaultClaimLease bounds how long a claimed batch stays invisible to
// other dispatchers when its owner dies before settling it.
const DefaultClaimLease = 5 * time.Minute

type OutboxRepo struct {
	db    *gorm.DB
	lease time.Duration
	now   func() time.Time
}

func NewOutboxRepo(db *gorm.DB) *OutboxRepo {
	return &OutboxRepo{db: db, lease: DefaultClaimLease, now: time.Now}
}

// enqueue writes an outbox row using tx, so it commits or rolls back with
// the change it describes.
func enqueue(tx *gorm.DB, entity string, id uuid.UUID, op string, doc any) error {
	payload, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal %s %s payload: %w", entity, op, err)
	}
	return tx.Create(&models.OutboxEvent{
		EntityType: entity,
		EntityID:   id,
		Op:         op,
		Payload:    datatypes.JSON(payload),
	}).Error
}

// Process claims up to limit pending events, oldest first, and passes them
// to deliver. Delivered events are marked processed; failed ones get their
// attempt count bumped and the error recorded. Events that reached
// maxAttempts are no longer claimed.
//
// Claiming and settling are separate short transactions and deliver runs
// outside both, so no connection or row lock is held while sinks are
// called. The claim leases the rows until now+lease; on Postgres the claim
// query uses SKIP LOCKED so concurrent dispatchers take disjoint batches.
func (r *OutboxRepo) Process(ctx context.Context, limit, maxAttempts int, deliver DeliverFunc) (delivered, failed int, err error) {
	events, err := r.claim(ctx, limit, maxAttempts)
	if err != nil || len(events) == 0 {
		return 0, 0, err
	}

	failures := deliver(ctx, events)

	if err := r.settle(ctx, events, failures); err != nil {
		return 0, 0, err
	}
	for _, evt := range events {
		if deliverErr, ok := failures[evt.ID]; ok && deliverErr != nil {
			failed++
		}
	}
	return len(events) - failed, failed, nil
}

func (r *OutboxRepo) claim(ctx context.Context, limit, maxAttempts int) ([]models.OutboxEvent, error) {
	now := r.now().UTC()
	var events []models.OutboxEvent
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := tx.Where("processed = ? AND attempts < ?", false, maxAttempts).
			Where("(claimed_until IS NULL OR claimed_until < ?)", now).
			Order("id ASC").
			Limit(limit)
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
		}
		if err := q.Find(&events).Error; err != nil {
			return err
		}
		if len(events) == 0 {
			return nil
		}

		ids := make([]int64, 0, len(events))
		for _, evt := range events {
			ids = append(ids, evt.ID)
		}
		return tx.Model(&models.OutboxEvent{}).Where("id IN ?", ids).
			Update("claimed_until", now.Add(r.lease)).Error
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// settle records the outcome of a delivered batch and releases its lease.
func (r *OutboxRepo) settle(ctx context.Context, events []models.OutboxEvent, failures map[int64]error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		done := make([]int64, 0, len(events))
		for _, evt := range events {
			deliverErr, ok := failures[evt.ID]
			if !ok || deliverErr == nil {
				done = append(done, evt.ID)
				continue
			}
			if err := tx.Model(&models.OutboxEvent{}).Where("id = ?", evt.ID).Updates(map[string]any{
				"attempts":      gorm.Expr("attempts + 1"),
				"last_error":    deliverErr.Error(),
				"claimed_until": nil,
			}).Error; err != nil {
				return err
			}
		}

		if len(done) == 0 {
			return nil
		}
		return tx.Model(&models.OutboxEvent{}).Where("id IN ?", done).Updates(map[string]any{
			"processed":     true,
			"processed_at":  r.now().UTC(),
			"claimed_until": nil,
		}).Error
	})
}

// Backlog counts events still waiting for delivery, and how many of those
// have given up after maxAttempts.
func (r *OutboxRepo) Backlog(ctx context.Context, maxAttempts int) (pending, exhausted int64, err error) {
	base := r.db.WithContext(ctx).Model(&models.OutboxEvent{}).Where("processed = ?", false).Session(&gorm.Session{})
	if err = base.Where("attempts < ?", maxAttempts).Count(&pending).Error; err != nil {
		return 0, 0, err
	}
	if err = base.Where("attempts >= ?", maxAttempts).Count(&exhausted).Error; err != nil {
		return 0, 0, err
	}
	return pending, exhausted, nil
}
