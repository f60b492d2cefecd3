package pghistory

import (
	"context"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/jackc/pgx/v5"
	"github.com/pkg/errors"
)

const (
	DefaultLimit = 100
	MaxLimit     = 500
)

const selectEntry = `
SELECT
  id, kind, query, outcome, error_code, message,
  train_number, train_name, overall_status,
  started_at, duration_ms, recorded_at
FROM lookup_history
`

// InsertLookup stores e once. A second insert with the same id is a no-op
// and reports inserted=false.
func (s *Storage) InsertLookup(ctx context.Context, e models.HistoryEntry) (bool, error) {
	tag, err := s.db.Exec(ctx, `
INSERT INTO lookup_history (
  id, kind, query, outcome, error_code, message,
  train_number, train_name, overall_status,
  started_at, duration_ms
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
ON CONFLICT (id) DO NOTHING
`, e.ID, string(e.Kind), e.Query, e.Outcome, e.ErrorCode, e.Message,
		e.TrainNumber, e.TrainName, e.OverallStatus,
		e.StartedAt, e.DurationMs)
	if err != nil {
		return false, errors.Wrap(err, "insert lookup")
	}
	return tag.RowsAffected() == 1, nil
}

// ListHistory returns entries newest first. An empty kind matches all kinds.
func (s *Storage) ListHistory(ctx context.Context, kind models.LookupKind, limit, offset int) ([]models.HistoryEntry, error) {
	limit, offset = clamp(limit, offset)

	rows, err := s.db.Query(ctx, selectEntry+`
WHERE ($1 = '' OR kind = $1)
ORDER BY started_at DESC, id
LIMIT $2 OFFSET $3
`, string(kind), limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "select history")
	}
	return collect(rows)
}

func (s *Storage) ListByQuery(ctx context.Context, query string, limit, offset int) ([]models.HistoryEntry, error) {
	limit, offset = clamp(limit, offset)

	rows, err := s.db.Query(ctx, selectEntry+`
WHERE query = $1
ORDER BY started_at DESC, id
LIMIT $2 OFFSET $3
`, query, limit, offset)
	if err != nil {
		return nil, errors.Wrap(err, "select history by query")
	}
	return collect(rows)
}

func (s *Storage) CountByOutcome(ctx context.Context) ([]models.OutcomeCount, error) {
	rows, err := s.db.Query(ctx, `
SELECT kind, outcome, count(*)
FROM lookup_history
GROUP BY kind, outcome
ORDER BY kind COLLATE "C", outcome COLLATE "C"
`)
	if err != nil {
		return nil, errors.Wrap(err, "count outcomes")
	}
	defer rows.Close()

	out := []models.OutcomeCount{}
	for rows.Next() {
		var c models.OutcomeCount
		var kind string
		if err := rows.Scan(&kind, &c.Outcome, &c.Count); err != nil {
			return nil, errors.Wrap(err, "scan outcome count")
		}
		c.Kind = models.LookupKind(kind)
		out = append(out, c)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func collect(rows pgx.Rows) ([]models.HistoryEntry, error) {
	defer rows.Close()

	out := []models.HistoryEntry{}
	for rows.Next() {
		var e models.HistoryEntry
		var kind string
		if err := rows.Scan(
			&e.ID, &kind, &e.Query, &e.Outcome, &e.ErrorCode, &e.Message,
			&e.TrainNumber, &e.TrainName, &e.OverallStatus,
			&e.StartedAt, &e.DurationMs, &e.RecordedAt,
		); err != nil {
			return nil, errors.Wrap(err, "scan history entry")
		}
		e.Kind = models.LookupKind(kind)
		out = append(out, e)
	}
	if rows.Err() != nil {
		return nil, errors.Wrap(rows.Err(), "rows")
	}
	return out, nil
}

func clamp(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
