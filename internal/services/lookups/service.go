package lookups

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/BearBump/RailStatus/internal/integrations/railapi"
	"github.com/BearBump/RailStatus/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const DefaultTopic = messages.TypeLookupCompleted

type Publisher interface {
	PublishLookupCompleted(ctx context.Context, msg messages.LookupCompleted) error
}

type PageViews interface {
	Increment(ctx context.Context) (int64, error)
	Current(ctx context.Context) (int64, error)
}

// Service runs lookups through a railapi.Client and reports each finished
// lookup to metrics and, when a publisher is set, to Kafka.
type Service struct {
	client  railapi.Client
	pub     Publisher
	views   PageViews
	metrics *Metrics

	now   func() time.Time
	newID func() uuid.UUID
}

// New builds a Service. pub, views and metrics may be nil.
func New(client railapi.Client, pub Publisher, views PageViews, metrics *Metrics) *Service {
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	return &Service{
		client:  client,
		pub:     pub,
		views:   views,
		metrics: metrics,
		now:     time.Now,
		newID:   uuid.New,
	}
}

func (s *Service) Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult {
	started := s.now()
	res := s.client.Lookup(ctx, query, kind)
	elapsed := s.now().Sub(started)

	s.metrics.observe(kind, res.Outcome(), elapsed)

	if s.pub != nil {
		msg := completedEvent(s.newID(), res, kind, started, elapsed)
		if err := s.pub.PublishLookupCompleted(ctx, msg); err != nil {
			slog.Warn("lookup event not published", "kind", kind, "query", res.Query(), "err", err)
		}
	}
	return res
}

func completedEvent(id uuid.UUID, res models.StatusResult, kind models.LookupKind, started time.Time, elapsed time.Duration) messages.LookupCompleted {
	msg := messages.LookupCompleted{
		ID:         id,
		Kind:       string(kind),
		Query:      res.Query(),
		Outcome:    res.Outcome(),
		StartedAt:  started.UTC(),
		DurationMs: elapsed.Milliseconds(),
	}
	if e := res.Err(); e != nil {
		msg.ErrorCode = string(e.Code)
		msg.Message = e.Message
		return msg
	}
	if p, ok := res.PNR(); ok {
		msg.TrainNumber = p.TrainNumber
		msg.TrainName = p.TrainName
		msg.OverallStatus = p.OverallStatus
	}
	if r, ok := res.Running(); ok {
		msg.TrainNumber = r.TrainNumber
		msg.TrainName = r.TrainName
		if r.Status != nil {
			msg.OverallStatus = r.Status.Status
		}
	}
	return msg
}

// RecordPageView counts one page load and returns the new total.
func (s *Service) RecordPageView(ctx context.Context) (int64, error) {
	if s.views == nil {
		return 0, errors.New("page view counter is not configured")
	}
	return s.views.Increment(ctx)
}

func (s *Service) PageViews(ctx context.Context) (int64, error) {
	if s.views == nil {
		return 0, errors.New("page view counter is not configured")
	}
	return s.views.Current(ctx)
}
