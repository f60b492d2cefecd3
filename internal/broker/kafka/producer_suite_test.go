package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type writerMock struct {
	mock.Mock
}

func (m *writerMock) WriteMessages(ctx context.Context, msgs ...kafka.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

type ProducerSuite struct {
	suite.Suite

	w  *writerMock
	p  *Producer
	ev messages.LookupCompleted
}

func (s *ProducerSuite) SetupTest() {
	s.w = &writerMock{}
	s.p = newProducerWithWriter(s.w, "rail.lookups")
	s.ev = messages.LookupCompleted{ID: uuid.New(), Kind: "PNR", Query: "4521678903", Outcome: "ok"}
}

func (s *ProducerSuite) TestPublish_KeysByEventID() {
	s.w.On("WriteMessages", mock.Anything, mock.MatchedBy(func(msgs []kafka.Message) bool {
		return len(msgs) == 1 &&
			msgs[0].Topic == "rail.lookups" &&
			string(msgs[0].Key) == s.ev.ID.String()
	})).Return(nil).Once()

	s.Require().NoError(s.p.PublishLookupCompleted(context.Background(), s.ev))
	s.w.AssertExpectations(s.T())
}

func (s *ProducerSuite) TestPublish_WrapsWriterErrorWithTopic() {
	s.w.On("WriteMessages", mock.Anything, mock.Anything).Return(errors.New("leader not available")).Once()

	err := s.p.PublishLookupCompleted(context.Background(), s.ev)
	s.Require().Error(err)
	s.Require().Contains(err.Error(), "kafka publish rail.lookups")
	s.Require().Contains(err.Error(), "leader not available")
}

func (s *ProducerSuite) TestClose_WriterWithoutCloser() {
	s.Require().NoError(s.p.Close())
}

func TestProducerSuite(t *testing.T) {
	suite.Run(t, new(ProducerSuite))
}
