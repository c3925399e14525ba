package outbox

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"

	es "github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/rpupo63/reelbyte-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	IdxGigs     = "gigs_v1"
	IdxProjects = "projects_v1"
)

const gigMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"id":{"type":"keyword"},"creator_profile_id":{"type":"keyword"},
	"title":{"type":"text"},"slug":{"type":"keyword"},"description":{"type":"text"},
	"category":{"type":"keyword"},"subcategory":{"type":"keyword"},"video_type":{"type":"keyword"},
	"basic_price":{"type":"scaled_float","scaling_factor":100},"tags":{"type":"keyword"},
	"status":{"type":"keyword"},"view_count":{"type":"integer"},"order_count":{"type":"integer"},
	"created_at":{"type":"date"},"updated_at":{"type":"date"},"published_at":{"type":"date"}
}}}`

const projectMapping = `{"settings":{"number_of_shards":1},"mappings":{"dynamic":"strict","properties":{
	"id":{"type":"keyword"},"client_profile_id":{"type":"keyword"},
	"title":{"type":"text"},"description":{"type":"text"},
	"category":{"type":"keyword"},"video_type":{"type":"keyword"},"experience_level":{"type":"keyword"},
	"budget_type":{"type":"keyword"},
	"budget_min":{"type":"scaled_float","scaling_factor":100},"budget_max":{"type":"scaled_float","scaling_factor":100},
	"skills":{"type":"keyword"},"status":{"type":"keyword"},"proposal_count":{"type":"integer"},
	"created_at":{"type":"date"},"updated_at":{"type":"date"},"published_at":{"type":"date"}
}}}`

// ElasticSink mirrors gigs and projects into their search indexes. Deleted
// entities are removed from the index.
type ElasticSink struct {
	client *es.Client
	logger zerolog.Logger
}

func NewElasticSink(client *es.Client) *ElasticSink {
	return &ElasticSink{
		client: client,
		logger: log.With().Str("sink", "elasticsearch").Logger(),
	}
}

// ConnectElastic builds a client for the given node addresses.
func ConnectElastic(urls []string) (*es.Client, error) {
	client, err := es.NewClient(es.Config{Addresses: urls})
	if err != nil {
		return nil, fmt.Errorf("failed to create elasticsearch client: %w", err)
	}
	return client, nil
}

func (s *ElasticSink) Name() string { return "elasticsearch" }

// EnsureIndexes creates the gig and project indexes when they are missing.
func (s *ElasticSink) EnsureIndexes(ctx context.Context) error {
	if err := s.ensure(ctx, IdxGigs, gigMapping); err != nil {
		return err
	}
	return s.ensure(ctx, IdxProjects, projectMapping)
}

func (s *ElasticSink) ensure(ctx context.Context, index, mapping string) error {
	exists, err := s.client.Indices.Exists([]string{index}, s.client.Indices.Exists.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("check index %s: %w", index, err)
	}
	if exists.Body != nil {
		exists.Body.Close()
	}
	if exists.StatusCode == 200 {
		return nil
	}

	res, err := s.client.Indices.Create(index,
		s.client.Indices.Create.WithBody(strings.NewReader(mapping)),
		s.client.Indices.Create.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("create index %s: %w", index, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("create index %s: %s", index, res.String())
	}
	s.logger.Info().Str("index", index).Msg("created search index")
	return nil
}

func (s *ElasticSink) Deliver(ctx context.Context, events []models.OutboxEvent) map[int64]error {
	failures := make(map[int64]error)

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:     s.client,
		NumWorkers: 2,
		FlushBytes: 5 << 20,
	})
	if err != nil {
		for _, evt := range events {
			failures[evt.ID] = err
		}
		return failures
	}

	var mu sync.Mutex
	fail := func(id int64, err error) {
		mu.Lock()
		defer mu.Unlock()
		if _, seen := failures[id]; !seen {
			failures[id] = err
		}
	}

	for _, evt := range events {
		item, err := bulkItem(evt)
		if err != nil {
			fail(evt.ID, err)
			continue
		}
		eventID := evt.ID
		item.OnFailure = func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			if err == nil && item.Action == "delete" && res.Status == 404 {
				return
			}
			if err == nil {
				err = fmt.Errorf("%s %s/%s: status=%d %s: %s", item.Action, item.Index, item.DocumentID, res.Status, res.Error.Type, res.Error.Reason)
			}
			fail(eventID, err)
		}
		if err := bi.Add(ctx, item); err != nil {
			fail(evt.ID, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		for _, evt := range events {
			fail(evt.ID, err)
		}
	}
	stats := bi.Stats()
	s.logger.Debug().Uint64("flushed", stats.NumFlushed).Uint64("failed", stats.NumFailed).Msg("bulk request done")
	return failures
}

// bulkItem maps an event onto an index action, or a delete for deleted
// entities. Deleting a document that is already gone is not a failure.
func bulkItem(evt models.OutboxEvent) (esutil.BulkIndexerItem, error) {
	index, err := indexFor(evt.EntityType)
	if err != nil {
		return esutil.BulkIndexerItem{}, err
	}
	item := esutil.BulkIndexerItem{
		Index:      index,
		DocumentID: evt.EntityID.String(),
	}
	if evt.Op == models.OpDeleted {
		item.Action = "delete"
		return item, nil
	}
	item.Action = "index"
	item.Body = bytes.NewReader(evt.Payload)
	return item, nil
}

func indexFor(entity string) (string, error) {
	switch entity {
	case models.EntityGig:
		return IdxGigs, nil
	case models.EntityProject:
		return IdxProjects, nil
	}
	return "", fmt.Errorf("unknown entity_type=%s", entity)
}
