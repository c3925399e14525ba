package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/redis/go-redis/v9"
	"github.com/rpupo63/reelbyte-backend/api"
	"github.com/rpupo63/reelbyte-backend/config"
	"github.com/rpupo63/reelbyte-backend/database"
	"github.com/rpupo63/reelbyte-backend/outbox"
	"github.com/rpupo63/reelbyte-backend/services"
	"github.com/rpupo63/reelbyte-backend/storage"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// runServe starts the API and the outbox dispatcher and stops both on
// SIGINT or SIGTERM.
func runServe(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, db, err := connect(ctx)
	if err != nil {
		return err
	}
	currentDB := database.New(db)

	deps := api.Dependencies{Database: currentDB}

	if settings.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     settings.RedisAddr,
			Password: settings.RedisPassword,
			DB:       settings.RedisDB,
		})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Warn().Err(err).Str("addr", settings.RedisAddr).Msg("redis unreachable, views will count without de-duplication until it recovers")
		}
		deps.Views = services.NewRedisViewDeduper(rdb, settings.ViewDedupeTTL)
	}

	if settings.S3Bucket != "" {
		uploader, err := storage.NewS3Uploader(ctx, settings.S3Bucket, settings.AWSRegion,
			settings.PresignDuration, settings.MaxVideoSizeMB, settings.MaxImageSizeMB)
		if err != nil {
			return err
		}
		deps.Uploader = uploader
	}

	dispatcher, closeSinks, err := newDispatcher(ctx, settings, currentDB)
	if err != nil {
		return err
	}
	defer closeSinks()

	server := api.NewServer(settings, deps)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		errChannel := make(chan error, 1)
		go server.Start(errChannel)
		select {
		case err := <-errChannel:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("http server: %w", err)
		case <-gctx.Done():
			server.ShutdownGracefully(settings.ShutdownTimeout)
			return nil
		}
	})
	if dispatcher != nil {
		g.Go(func() error {
			return dispatcher.Run(gctx)
		})
	}

	err = g.Wait()
	log.Info().Msg("shut down")
	return err
}

// runDispatch drains the outbox without serving HTTP.
func runDispatch(ctx context.Context, once bool) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	settings, db, err := connect(ctx)
	if err != nil {
		return err
	}

	dispatcher, closeSinks, err := newDispatcher(ctx, settings, database.New(db))
	if err != nil {
		return err
	}
	defer closeSinks()
	if dispatcher == nil {
		return errors.New("no outbox sinks configured, set ELASTIC_URL or RABBITMQ_URL")
	}

	if !once {
		return dispatcher.Run(ctx)
	}
	delivered, failed, err := dispatcher.DispatchOnce(ctx)
	if err != nil {
		return err
	}
	log.Info().Int("delivered", delivered).Int("failed", failed).Msg("outbox batch processed")
	return nil
}

// newDispatcher connects the configured sinks. It returns a nil dispatcher
// when neither Elasticsearch nor RabbitMQ is configured, in which case
// events stay in the outbox table.
func newDispatcher(ctx context.Context, settings config.Settings, db database.Database) (*outbox.Dispatcher, func(), error) {
	var sinks []outbox.Sink
	closers := []func(){}
	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}

	if len(settings.ElasticURLs) > 0 {
		client, err := outbox.ConnectElastic(settings.ElasticURLs)
		if err != nil {
			return nil, closeAll, err
		}
		sink := outbox.NewElasticSink(client)
		if err := sink.EnsureIndexes(ctx); err != nil {
			return nil, closeAll, err
		}
		sinks = append(sinks, sink)
	}

	if settings.RabbitMQURL != "" {
		sink, err := outbox.NewAMQPSink(settings.RabbitMQURL, settings.RabbitMQExchange)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		closers = append(closers, sink.Close)
		sinks = append(sinks, sink)
	}

	if len(sinks) == 0 {
		log.Info().Msg("no outbox sinks configured, events will accumulate in the outbox table")
		return nil, closeAll, nil
	}

	return outbox.NewDispatcher(db.OutboxRepo(), sinks,
		settings.OutboxInterval, settings.OutboxBatchSize, settings.OutboxMaxAttempts), closeAll, nil
}
