package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpupo63/reelbyte-backend/database/dbtest"
	"github.com/rpupo63/reelbyte-backend/models"
)

func TestOutboxProcess(t *testing.T) {
	db := dbtest.Open(t)
	gigs := NewGigRepo(db)
	outbox := NewOutboxRepo(db)
	creator := seedCreator(t, db)

	first := seedGig(t, gigs, creator.ID, nil)
	second := seedGig(t, gigs, creator.ID, nil)
	third := seedGig(t, gigs, creator.ID, nil)

	ctx := context.Background()
	var seen []models.OutboxEvent
	delivered, failed, err := outbox.Process(ctx, 10, 2, func(_ context.Context, events []models.OutboxEvent) map[int64]error {
		seen = events
		failures := map[int64]error{}
		for _, evt := range events {
			if evt.EntityID == second.ID {
				failures[evt.ID] = errors.New("index unavailable")
			}
		}
		return failures
	})
	if err != nil {
		t.Fatalf("process: %v", err)
	}
	if delivered != 2 || failed != 1 {
		t.Errorf("delivered=%d failed=%d, want 2/1", delivered, failed)
	}
	if len(seen) != 3 || seen[0].EntityID != first.ID || seen[2].EntityID != third.ID {
		t.Errorf("events not handed over oldest first: %+v", seen)
	}

	var retry models.OutboxEvent
	if err := db.Where("entity_id = ?", second.ID).First(&retry).Error; err != nil {
		t.Fatal(err)
	}
	if retry.Processed || retry.Attempts != 1 || retry.LastError == nil || *retry.LastError != "index unavailable" {
		t.Errorf("failed event = %+v", retry)
	}

	pending, exhausted, err := outbox.Backlog(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pending != 1 || exhausted != 0 {
		t.Errorf("backlog = %d/%d, want 1/0", pending, exhausted)
	}

	// Second failure exhausts the event; it is not claimed again.
	fail := func(_ context.Context, events []models.OutboxEvent) map[int64]error {
		out := map[int64]error{}
		for _, evt := range events {
			out[evt.ID] = errors.New("still down")
		}
		return out
	}
	if _, failed, err = outbox.Process(ctx, 10, 2, fail); err != nil || failed != 1 {
		t.Fatalf("second run: failed=%d err=%v", failed, err)
	}
	delivered, failed, err = outbox.Process(ctx, 10, 2, fail)
	if err != nil || delivered != 0 || failed != 0 {
		t.Errorf("third run: delivered=%d failed=%d err=%v", delivered, failed, err)
	}

	pending, exhausted, _ = outbox.Backlog(ctx, 2)
	if pending != 0 || exhausted != 1 {
		t.Errorf("backlog = %d/%d, want 0/1", pending, exhausted)
	}
}

func TestOutboxProcessRespectsLimit(t *testing.T) {
	db := dbtest.Open(t)
	gigs := NewGigRepo(db)
	outbox := NewOutboxRepo(db)
	creator := seedCreator(t, db)
	for i := 0; i < 5; i++ {
		seedGig(t, gigs, creator.ID, nil)
	}

	ok := func(_ context.Context, _ []models.OutboxEvent) map[int64]error { return nil }
	delivered, _, err := outbox.Process(context.Background(), 3, 5, ok)
	if err != nil || delivered != 3 {
		t.Fatalf("delivered=%d err=%v, want 3", delivered, err)
	}
	delivered, _, _ = outbox.Process(context.Background(), 3, 5, ok)
	if delivered != 2 {
		t.Errorf("second batch delivered=%d, want 2", delivered)
	}
}

func TestOutboxDeliversOutsideTransaction(t *testing.T) {
	db := dbtest.Open(t)
	gigs := NewGigRepo(db)
	outbox := NewOutboxRepo(db)
	creator := seedCreator(t, db)
	seedGig(t, gigs, creator.ID, nil)
	seedGig(t, gigs, creator.ID, nil)

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	outbox.now = func() time.Time { return start }
	ctx := context.Background()

	delivered, _, err := outbox.Process(ctx, 10, 5, func(ctx context.Context, events []models.OutboxEvent) map[int64]error {
		// The claim is committed and leased: a second dispatcher sees nothing.
		var leased int64
		if err := db.Model(&models.OutboxEvent{}).Where("claimed_until IS NOT NULL").Count(&leased).Error; err != nil {
			t.Errorf("count leased: %v", err)
		}
		if leased != int64(len(events)) {
			t.Errorf("leased = %d, want %d", leased, len(events))
		}
		again, _, err := outbox.Process(ctx, 10, 5, func(context.Context, []models.OutboxEvent) map[int64]error { return nil })
		if err != nil || again != 0 {
			t.Errorf("concurrent claim: delivered=%d err=%v, want 0", again, err)
		}
		return nil
	})
	if err != nil || delivered != 2 {
		t.Fatalf("delivered=%d err=%v, want 2", delivered, err)
	}

	var leftover int64
	db.Model(&models.OutboxEvent{}).Where("claimed_until IS NOT NULL").Count(&leftover)
	if leftover != 0 {
		t.Errorf("%d events still leased after settling", leftover)
	}
}

func TestOutboxReclaimsExpiredLease(t *testing.T) {
	db := dbtest.Open(t)
	gigs := NewGigRepo(db)
	outbox := NewOutboxRepo(db)
	creator := seedCreator(t, db)
	seedGig(t, gigs, creator.ID, nil)

	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	outbox.now = func() time.Time { return start }
	ctx := context.Background()

	// A dispatcher that claims and then dies never settles.
	claimed, err := outbox.claim(ctx, 10, 5)
	if err != nil || len(claimed) != 1 {
		t.Fatalf("claim: %d events, err=%v", len(claimed), err)
	}

	ok := func(context.Context, []models.OutboxEvent) map[int64]error { return nil }
	outbox.now = func() time.Time { return start.Add(DefaultClaimLease - time.Minute) }
	if delivered, _, err := outbox.Process(ctx, 10, 5, ok); err != nil || delivered != 0 {
		t.Fatalf("within lease: delivered=%d err=%v, want 0", delivered, err)
	}

	outbox.now = func() time.Time { return start.Add(DefaultClaimLease + time.Minute) }
	if delivered, _, err := outbox.Process(ctx, 10, 5, ok); err != nil || delivered != 1 {
		t.Fatalf("after lease: delivered=%d err=%v, want 1", delivered, err)
	}
}
