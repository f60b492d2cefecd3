package mocks

import (
	"context"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/BearBump/RailStatus/internal/models"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishLookupCompleted(ctx context.Context, msg messages.LookupCompleted) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

type MockPageViews struct {
	mock.Mock
}

func (m *MockPageViews) Increment(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPageViews) Current(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Lookup(ctx context.Context, query string, kind models.LookupKind) models.StatusResult {
	args := m.Called(ctx, query, kind)
	return args.Get(0).(models.StatusResult)
}
