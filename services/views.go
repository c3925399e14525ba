package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/reelbyte-backend/metrics"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// ViewDeduper decides whether a viewer's visit to an entity should count.
type ViewDeduper interface {
	FirstView(ctx context.Context, entity string, id uuid.UUID, viewer string) (bool, error)
}

// RedisViewDeduper counts one view per (entity, viewer) per TTL window.
type RedisViewDeduper struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisViewDeduper(rdb *redis.Client, ttl time.Duration) *RedisViewDeduper {
	return &RedisViewDeduper{rdb: rdb, ttl: ttl}
}

func (d *RedisViewDeduper) FirstView(ctx context.Context, entity string, id uuid.UUID, viewer string) (bool, error) {
	key := fmt.Sprintf("views:%s:%s:%s", entity, id, viewer)
	return d.rdb.SetNX(ctx, key, 1, d.ttl).Result()
}

// viewCounter wraps the optional deduper. Without a deduper, or without a
// viewer identity, every view counts. Deduper errors count the view too.
type viewCounter struct {
	deduper ViewDeduper
	logger  zerolog.Logger
}

func newViewCounter(deduper ViewDeduper) viewCounter {
	return viewCounter{
		deduper: deduper,
		logger:  log.With().Str("component", "viewCounter").Logger(),
	}
}

func (v viewCounter) shouldCount(ctx context.Context, entity string, id uuid.UUID, viewer string) bool {
	if v.deduper == nil || viewer == "" {
		return true
	}
	first, err := v.deduper.FirstView(ctx, entity, id, viewer)
	if err != nil {
		v.logger.Warn().Err(err).Str("entity", entity).Msg("view dedupe unavailable, counting view")
		return true
	}
	return first
}

// record increments the counter through increment when the view counts and
// reports whether it did.
func (v viewCounter) record(ctx context.Context, entity string, id uuid.UUID, viewer string, increment func(context.Context, uuid.UUID) error) (bool, error) {
	counted := v.shouldCount(ctx, entity, id, viewer)
	if counted {
		if err := increment(ctx, id); err != nil {
			return false, err
		}
	}
	metrics.RecordView(entity, counted)
	return counted, nil
}
