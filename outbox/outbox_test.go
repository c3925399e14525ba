package outbox

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/database/dbtest"
	"github.com/rpupo63/reelbyte-backend/models"
	"gorm.io/gorm"
)

type recordingSink struct {
	name   string
	seen   []int64
	failOn map[uuid.UUID]error
}

func (s *recordingSink) Name() string { return s.name }

func (s *recordingSink) Deliver(_ context.Context, events []models.OutboxEvent) map[int64]error {
	failures := map[int64]error{}
	for _, evt := range events {
		s.seen = append(s.seen, evt.ID)
		if err := s.failOn[evt.EntityID]; err != nil {
			failures[evt.ID] = err
		}
	}
	return failures
}

func seedEvents(t *testing.T, db *gorm.DB, n int) []models.OutboxEvent {
	t.Helper()
	events := make([]models.OutboxEvent, 0, n)
	for i := 0; i < n; i++ {
		evt := models.OutboxEvent{
			EntityType: models.EntityGig,
			EntityID:   uuid.New(),
			Op:         models.OpCreated,
			Payload:    []byte(`{"title":"Product teaser"}`),
		}
		if err := db.Create(&evt).Error; err != nil {
			t.Fatal(err)
		}
		events = append(events, evt)
	}
	return events
}

func TestDispatchOnceRequiresEverySink(t *testing.T) {
	db := dbtest.Open(t)
	events := seedEvents(t, db, 3)

	index := &recordingSink{name: "index", failOn: map[uuid.UUID]error{events[1].EntityID: errors.New("cluster red")}}
	broker := &recordingSink{name: "broker"}
	d := NewDispatcher(database.New(db).OutboxRepo(), []Sink{index, broker}, time.Second, 10, 3)

	ctx := context.Background()
	delivered, failed, err := d.DispatchOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if delivered != 2 || failed != 1 {
		t.Errorf("delivered=%d failed=%d, want 2/1", delivered, failed)
	}
	if len(broker.seen) != 3 {
		t.Errorf("broker saw %d events, want 3", len(broker.seen))
	}

	index.failOn = nil
	delivered, failed, err = d.DispatchOnce(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if delivered != 1 || failed != 0 {
		t.Errorf("retry delivered=%d failed=%d, want 1/0", delivered, failed)
	}
	if last := broker.seen[len(broker.seen)-1]; last != events[1].ID {
		t.Errorf("retry went to broker as event %d, want %d", last, events[1].ID)
	}

	delivered, failed, err = d.DispatchOnce(ctx)
	if err != nil || delivered != 0 || failed != 0 {
		t.Errorf("drained outbox = %d/%d, %v", delivered, failed, err)
	}
}

func TestDispatchOnceStopsAtMaxAttempts(t *testing.T) {
	db := dbtest.Open(t)
	events := seedEvents(t, db, 1)
	sink := &recordingSink{name: "index", failOn: map[uuid.UUID]error{events[0].EntityID: errors.New("mapping conflict")}}
	repo := database.New(db).OutboxRepo()
	d := NewDispatcher(repo, []Sink{sink}, time.Second, 10, 2)

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, _, err := d.DispatchOnce(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if len(sink.seen) != 2 {
		t.Errorf("sink saw the event %d times, want 2", len(sink.seen))
	}
	pending, exhausted, err := repo.Backlog(ctx, 2)
	if err != nil {
		t.Fatal(err)
	}
	if pending != 0 || exhausted != 1 {
		t.Errorf("backlog pending=%d exhausted=%d", pending, exhausted)
	}
}

func TestDispatchOnceStoreError(t *testing.T) {
	d := NewDispatcher(database.New(dbtest.Closed(t)).OutboxRepo(), nil, time.Second, 10, 3)
	if _, _, err := d.DispatchOnce(context.Background()); err == nil {
		t.Error("expected error from closed store")
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	db := dbtest.Open(t)
	seedEvents(t, db, 2)
	sink := &recordingSink{name: "broker"}
	d := NewDispatcher(database.New(db).OutboxRepo(), []Sink{sink}, 10*time.Millisecond, 10, 3)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("run returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	if len(sink.seen) != 2 {
		t.Errorf("sink saw %d events, want 2", len(sink.seen))
	}
}

func TestBulkItem(t *testing.T) {
	id := uuid.New()

	item, err := bulkItem(models.OutboxEvent{EntityType: models.EntityProject, EntityID: id, Op: models.OpUpdated, Payload: []byte(`{}`)})
	if err != nil {
		t.Fatal(err)
	}
	if item.Action != "index" || item.Index != IdxProjects || item.DocumentID != id.String() || item.Body == nil {
		t.Errorf("update item = %+v", item)
	}

	item, err = bulkItem(models.OutboxEvent{EntityType: models.EntityGig, EntityID: id, Op: models.OpDeleted})
	if err != nil {
		t.Fatal(err)
	}
	if item.Action != "delete" || item.Index != IdxGigs || item.Body != nil {
		t.Errorf("delete item = %+v", item)
	}

	if _, err := bulkItem(models.OutboxEvent{EntityType: "order", EntityID: id}); err == nil {
		t.Error("unknown entity accepted")
	}
}

func TestNewMessage(t *testing.T) {
	evt := models.OutboxEvent{
		ID:         42,
		EntityType: models.EntityGig,
		EntityID:   uuid.New(),
		Op:         models.OpUpdated,
		Payload:    []byte(`{"status":"active"}`),
		CreatedAt:  time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	body, err := json.Marshal(newMessage(evt))
	if err != nil {
		t.Fatal(err)
	}

	var got map[string]any
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	data, _ := got["data"].(map[string]any)
	if got["op"] != "updated" || got["entity_id"] != evt.EntityID.String() || data["status"] != "active" {
		t.Errorf("message = %s", body)
	}
	if evt.RoutingKey() != "gig.updated" {
		t.Errorf("routing key = %q", evt.RoutingKey())
	}
}
