package pghistory

import (
	"context"

	"github.com/pkg/errors"
)

func (s *Storage) initSchema(ctx context.Context) error {
	stmts := []string{
		`
CREATE TABLE IF NOT EXISTS lookup_history (
  id UUID PRIMARY KEY,
  kind TEXT NOT NULL,
  query TEXT NOT NULL,
  outcome TEXT NOT NULL,
  error_code TEXT NOT NULL DEFAULT '',
  message TEXT NOT NULL DEFAULT '',
  train_number TEXT NOT NULL DEFAULT '',
  train_name TEXT NOT NULL DEFAULT '',
  overall_status TEXT NOT NULL DEFAULT '',
  started_at TIMESTAMPTZ NOT NULL,
  duration_ms BIGINT NOT NULL DEFAULT 0,
  recorded_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`,
		`CREATE INDEX IF NOT EXISTS idx_lookup_history_started_at ON lookup_history(started_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_lookup_history_query ON lookup_history(query, started_at DESC)`,
	}

	for _, q := range stmts {
		if _, err := s.db.Exec(ctx, q); err != nil {
			return errors.Wrap(err, "init schema")
		}
	}
	return nil
}
