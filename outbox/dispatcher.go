// Package outbox delivers the change events that gig and project writes
// record in the outbox table to the search index and the message broker.
package outbox

import (
	"context"
	"time"

	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/metrics"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Sink receives a batch of events and returns the failures keyed by event
// ID. Events missing from the map were delivered.
type Sink interface {
	Name() string
	Deliver(ctx context.Context, events []models.OutboxEvent) map[int64]error
}

type Dispatcher struct {
	repo        *database.OutboxRepo
	sinks       []Sink
	interval    time.Duration
	batchSize   int
	maxAttempts int
	logger      zerolog.Logger
}

func NewDispatcher(repo *database.OutboxRepo, sinks []Sink, interval time.Duration, batchSize, maxAttempts int) *Dispatcher {
	return &Dispatcher{
		repo:        repo,
		sinks:       sinks,
		interval:    interval,
		batchSize:   batchSize,
		maxAttempts: maxAttempts,
		logger:      log.With().Str("component", "outboxDispatcher").Logger(),
	}
}

// Run dispatches a batch on every tick until ctx is cancelled. A failed
// batch is logged and retried on the next tick.
func (d *Dispatcher) Run(ctx context.Context) error {
	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.logger.Info().Dur("interval", d.interval).Int("sinks", len(d.sinks)).Msg("outbox dispatcher started")
	for {
		select {
		case <-ctx.Done():
			d.logger.Info().Msg("outbox dispatcher stopped")
			return nil
		case <-ticker.C:
			if _, _, err := d.DispatchOnce(ctx); err != nil && ctx.Err() == nil {
				d.logger.Error().Err(err).Msg("outbox batch failed")
			}
		}
	}
}

// DispatchOnce claims one batch and hands it to every sink. An event counts
// as delivered only when no sink reported it failed, so a retry goes to all
// sinks again.
func (d *Dispatcher) DispatchOnce(ctx context.Context) (delivered, failed int, err error) {
	delivered, failed, err = d.repo.Process(ctx, d.batchSize, d.maxAttempts, d.deliver)
	if err != nil {
		return 0, 0, err
	}
	if delivered+failed > 0 {
		d.logger.Debug().Int("delivered", delivered).Int("failed", failed).Msg("outbox batch dispatched")
	}
	return delivered, failed, nil
}

func (d *Dispatcher) deliver(ctx context.Context, events []models.OutboxEvent) map[int64]error {
	failures := make(map[int64]error)
	for _, sink := range d.sinks {
		sinkFailures := sink.Deliver(ctx, events)
		for id, err := range sinkFailures {
			if err == nil {
				delete(sinkFailures, id)
				continue
			}
			if _, seen := failures[id]; !seen {
				failures[id] = err
			}
			d.logger.Warn().Err(err).Str("sink", sink.Name()).Int64("eventID", id).Msg("outbox delivery failed")
		}
		metrics.RecordOutbox(sink.Name(), "delivered", len(events)-len(sinkFailures))
		metrics.RecordOutbox(sink.Name(), "failed", len(sinkFailures))
	}
	return failures
}
