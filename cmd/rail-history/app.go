package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/RailStatus/config"
	"github.com/BearBump/RailStatus/internal/broker/kafka"
	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/BearBump/RailStatus/internal/services/history"
	"github.com/BearBump/RailStatus/internal/services/lookups"
	"github.com/BearBump/RailStatus/internal/storage/pghistory"
	"github.com/pkg/errors"
)

type historyRepository interface {
	history.Repository
	Ping(ctx context.Context) error
}

type lookupConsumer interface {
	Consume(ctx context.Context, handler kafka.Handler) error
	Close() error
}

type historyFactories struct {
	newStorage  func(cfg *config.Config) (repo historyRepository, closeFn func(), err error)
	newConsumer func(cfg *config.Config, topic, groupID string) lookupConsumer
}

func defaultHistoryFactories() historyFactories {
	return historyFactories{
		newStorage: func(cfg *config.Config) (historyRepository, func(), error) {
			st, err := pghistory.New(cfg.Database.PostgresConnString())
			if err != nil {
				return nil, nil, err
			}
			return st, st.Close, nil
		},
		newConsumer: func(cfg *config.Config, topic, groupID string) lookupConsumer {
			return kafka.NewConsumer(cfg.Kafka.Brokers(), topic, groupID)
		},
	}
}

type historyRunOpts struct {
	swaggerPath string
	storeRetry  time.Duration
	onListen    func(httpAddr string)
}

// RunRailHistory consumes lookup.completed into Postgres and serves the
// history HTTP API until ctx ends or either side fails.
func RunRailHistory(ctx context.Context, cfg *config.Config, opts historyRunOpts, f historyFactories) error {
	topic := cfg.Kafka.LookupCompletedTopicName
	if topic == "" {
		topic = lookups.DefaultTopic
	}
	group := cfg.RailStatus.KafkaConsumerGroup
	if group == "" {
		group = "rail-history"
	}
	httpAddr := cfg.RailStatus.HistoryHTTPAddr
	if httpAddr == "" {
		httpAddr = ":8082"
	}
	if opts.storeRetry <= 0 {
		opts.storeRetry = time.Second
	}

	repo, closeFn, err := f.newStorage(cfg)
	if err != nil {
		return err
	}
	if closeFn != nil {
		defer closeFn()
	}
	svc := history.New(repo)

	consumer := f.newConsumer(cfg, topic, group)
	defer consumer.Close()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	consumeErr := make(chan error, 1)
	go func() {
		slog.Info("kafka consumer started", "topic", topic, "group", group)
		consumeErr <- consumer.Consume(ctx, recordHandler(ctx, svc, opts.storeRetry))
	}()

	httpErr := make(chan error, 1)
	go func() {
		httpErr <- runHistoryHTTPServer(ctx, historyHTTPOpts{
			httpAddr:    httpAddr,
			swaggerPath: opts.swaggerPath,
			onListen:    opts.onListen,
			svc:         svc,
			ready:       repo.Ping,
		})
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-consumeErr:
		return errors.Wrap(err, "consume lookup events")
	case err := <-httpErr:
		return err
	}
}

// recordHandler stores one event. Invalid events are logged and skipped;
// storage failures are retried until they succeed or ctx ends, so
// the message is committed only once it is stored.
func recordHandler(ctx context.Context, svc *history.Service, retry time.Duration) kafka.Handler {
	return func(_ context.Context, msg messages.LookupCompleted) error {
		for {
			err := svc.Record(ctx, msg)
			if err == nil {
				return nil
			}
			if errors.Is(err, history.ErrInvalidEvent) {
				slog.Error("skip invalid lookup event", "id", msg.ID.String(), "err", err)
				return nil
			}
			slog.Warn("store lookup event failed, retrying", "id", msg.ID.String(), "err", err)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(retry):
			}
		}
	}
}
