package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
)

var errDrained = errors.New("drained")

// fakeReader serves queued messages, then fails with errDrained.
type fakeReader struct {
	queue     []kafka.Message
	committed []int64
}

func (r *fakeReader) FetchMessage(ctx context.Context) (kafka.Message, error) {
	if len(r.queue) == 0 {
		return kafka.Message{}, errDrained
	}
	m := r.queue[0]
	r.queue = r.queue[1:]
	return m, nil
}

func (r *fakeReader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	for _, m := range msgs {
		r.committed = append(r.committed, m.Offset)
	}
	return nil
}

func (r *fakeReader) Close() error { return nil }

func lookupMessage(t *testing.T, offset int64, ev messages.LookupCompleted) kafka.Message {
	t.Helper()
	b, err := json.Marshal(ev)
	require.NoError(t, err)
	return kafka.Message{
		Offset:  offset,
		Key:     []byte(ev.ID.String()),
		Value:   b,
		Headers: []kafka.Header{{Key: HeaderEventType, Value: []byte(messages.TypeLookupCompleted)}},
	}
}

func TestConsumer_DecodesAndCommitsEachEvent(t *testing.T) {
	first := messages.LookupCompleted{ID: uuid.New(), Kind: "PNR", Query: "4521678903", Outcome: "ok"}
	second := messages.LookupCompleted{ID: uuid.New(), Kind: "RUNNING_STATUS", Query: "12951", Outcome: "TransportError"}
	fr := &fakeReader{queue: []kafka.Message{lookupMessage(t, 10, first), lookupMessage(t, 11, second)}}

	var got []messages.LookupCompleted
	err := newConsumerWithReader(fr).Consume(context.Background(), func(_ context.Context, m messages.LookupCompleted) error {
		got = append(got, m)
		return nil
	})

	require.ErrorIs(t, err, errDrained)
	require.Equal(t, []messages.LookupCompleted{first, second}, got)
	require.Equal(t, []int64{10, 11}, fr.committed)
}

func TestConsumer_SkipsUndecodableMessages(t *testing.T) {
	valid := messages.LookupCompleted{ID: uuid.New(), Kind: "PNR", Query: "4521678903", Outcome: "ok"}
	foreign := lookupMessage(t, 2, valid)
	foreign.Headers = []kafka.Header{{Key: HeaderEventType, Value: []byte("tracking.updated")}}

	fr := &fakeReader{queue: []kafka.Message{
		{Offset: 1, Value: []byte("not json")},
		foreign,
		lookupMessage(t, 3, valid),
	}}

	calls := 0
	err := newConsumerWithReader(fr).Consume(context.Background(), func(_ context.Context, m messages.LookupCompleted) error {
		calls++
		require.Equal(t, valid.ID, m.ID)
		return nil
	})

	require.ErrorIs(t, err, errDrained)
	require.Equal(t, 1, calls)
	require.Equal(t, []int64{1, 2, 3}, fr.committed)
}

func TestConsumer_HandlerErrorLeavesOffsetUncommitted(t *testing.T) {
	ev := messages.LookupCompleted{ID: uuid.New(), Kind: "PNR", Outcome: "ok"}
	fr := &fakeReader{queue: []kafka.Message{lookupMessage(t, 42, ev)}}

	want := errors.New("postgres unavailable")
	err := newConsumerWithReader(fr).Consume(context.Background(), func(context.Context, messages.LookupCompleted) error {
		return want
	})

	require.ErrorIs(t, err, want)
	require.Contains(t, err.Error(), "offset=42")
	require.Empty(t, fr.committed)
}

func TestNewConsumer_Close(t *testing.T) {
	c := NewConsumer([]string{"localhost:0"}, messages.TypeLookupCompleted, "rail-history")
	require.NoError(t, c.Close())
}
