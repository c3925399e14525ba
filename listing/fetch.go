// Package listing runs filtered, sorted and paginated reads for any model.
// Entity packages supply the predicates, a resolved Sort and a Window.
package listing

import (
	"context"
	"time"

	"github.com/rpupo63/reelbyte-backend/metrics"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Scope is one predicate. Scopes are combined with AND.
type Scope = func(*gorm.DB) *gorm.DB

// Query describes one listing call.
type Query struct {
	Entity   string
	Scopes   []Scope
	Sort     Sort
	Window   Window
	Preloads []string
}

// Fetch counts every row matching q.Scopes, then loads the q.Window slice
// ordered by q.Sort with id ascending as tie-break. The count never depends
// on the window.
func Fetch[T any](ctx context.Context, db *gorm.DB, q Query) ([]T, int64, error) {
	start := time.Now()

	base := db.WithContext(ctx).Model(new(T)).Scopes(q.Scopes...).Session(&gorm.Session{})

	var total int64
	if err := base.Count(&total).Error; err != nil {
		metrics.RecordListingQuery(q.Entity, "error", time.Since(start))
		return nil, 0, err
	}

	items := make([]T, 0, q.Window.Limit)
	if total == 0 || int64(q.Window.Offset) >= total {
		metrics.RecordListingQuery(q.Entity, "ok", time.Since(start))
		return items, total, nil
	}

	tx := base.
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: q.Sort.Column},
			Desc:   q.Sort.Direction == Desc,
		}).
		Order(clause.OrderByColumn{
			Column: clause.Column{Table: clause.CurrentTable, Name: "id"},
		}).
		Offset(q.Window.Offset).
		Limit(q.Window.Limit)

	for _, rel := range q.Preloads {
		tx = tx.Preload(rel)
	}

	if err := tx.Find(&items).Error; err != nil {
		metrics.RecordListingQuery(q.Entity, "error", time.Since(start))
		return nil, 0, err
	}

	metrics.RecordListingQuery(q.Entity, "ok", time.Since(start))
	return items, total, nil
}
