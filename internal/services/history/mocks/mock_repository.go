package mocks

import (
	"context"

	"github.com/BearBump/RailStatus/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) InsertLookup(ctx context.Context, e models.HistoryEntry) (bool, error) {
	args := m.Called(ctx, e)
	return args.Bool(0), args.Error(1)
}

func (m *MockRepository) ListHistory(ctx context.Context, kind models.LookupKind, limit, offset int) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, kind, limit, offset)
	out, _ := args.Get(0).([]models.HistoryEntry)
	return out, args.Error(1)
}

func (m *MockRepository) ListByQuery(ctx context.Context, query string, limit, offset int) ([]models.HistoryEntry, error) {
	args := m.Called(ctx, query, limit, offset)
	out, _ := args.Get(0).([]models.HistoryEntry)
	return out, args.Error(1)
}

func (m *MockRepository) CountByOutcome(ctx context.Context) ([]models.OutcomeCount, error) {
	args := m.Called(ctx)
	out, _ := args.Get(0).([]models.OutcomeCount)
	return out, args.Error(1)
}
