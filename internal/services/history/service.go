package history

import (
	"context"
	"log/slog"
	"time"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/BearBump/RailStatus/internal/models"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// ErrInvalidEvent marks an event that can never be stored.
var ErrInvalidEvent = errors.New("invalid lookup event")

type Repository interface {
	InsertLookup(ctx context.Context, e models.HistoryEntry) (bool, error)
	ListHistory(ctx context.Context, kind models.LookupKind, limit, offset int) ([]models.HistoryEntry, error)
	ListByQuery(ctx context.Context, query string, limit, offset int) ([]models.HistoryEntry, error)
	CountByOutcome(ctx context.Context) ([]models.OutcomeCount, error)
}

type Service struct {
	repo Repository
	now  func() time.Time
}

func New(repo Repository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// Record stores one LookupCompleted event. Redelivered events are accepted
// and stored once.
func (s *Service) Record(ctx context.Context, msg messages.LookupCompleted) error {
	if msg.ID == uuid.Nil {
		return errors.Wrap(ErrInvalidEvent, "id is required")
	}
	kind := models.LookupKind(msg.Kind)
	if !kind.Valid() {
		return errors.Wrapf(ErrInvalidEvent, "unsupported kind %q", msg.Kind)
	}
	if msg.Outcome == "" {
		return errors.Wrap(ErrInvalidEvent, "outcome is required")
	}
	if msg.StartedAt.IsZero() {
		msg.StartedAt = s.now().UTC()
	}

	inserted, err := s.repo.InsertLookup(ctx, models.HistoryEntry{
		ID:            msg.ID,
		Kind:          kind,
		Query:         msg.Query,
		Outcome:       msg.Outcome,
		ErrorCode:     msg.ErrorCode,
		Message:       msg.Message,
		TrainNumber:   msg.TrainNumber,
		TrainName:     msg.TrainName,
		OverallStatus: msg.OverallStatus,
		StartedAt:     msg.StartedAt,
		DurationMs:    msg.DurationMs,
	})
	if err != nil {
		return err
	}
	if !inserted {
		slog.Info("duplicate lookup event skipped", "id", msg.ID.String())
	}
	return nil
}

func (s *Service) List(ctx context.Context, kind models.LookupKind, limit, offset int) ([]models.HistoryEntry, error) {
	if kind != "" && !kind.Valid() {
		return nil, errors.Errorf("unsupported kind %q", kind)
	}
	return s.repo.ListHistory(ctx, kind, limit, offset)
}

func (s *Service) ByQuery(ctx context.Context, query string, limit, offset int) ([]models.HistoryEntry, error) {
	if query == "" {
		return nil, errors.New("query is required")
	}
	return s.repo.ListByQuery(ctx, query, limit, offset)
}

func (s *Service) Stats(ctx context.Context) ([]models.OutcomeCount, error) {
	return s.repo.CountByOutcome(ctx)
}
