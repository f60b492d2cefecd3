package kafka

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Handler processes one decoded event. A nil return commits the message.
type Handler func(ctx context.Context, msg messages.LookupCompleted) error

type Consumer struct {
	r messageReader
}

func NewConsumer(brokers []string, topic, groupID string) *Consumer {
	return &Consumer{
		r: kafka.NewReader(kafka.ReaderConfig{
			Brokers:           brokers,
			GroupID:           groupID,
			GroupTopics:       []string{topic},
			StartOffset:       kafka.FirstOffset,
			MaxWait:           time.Second,
			HeartbeatInterval: 3 * time.Second,
			SessionTimeout:    30 * time.Second,
		}),
	}
}

func newConsumerWithReader(r messageReader) *Consumer {
	return &Consumer{r: r}
}

func (c *Consumer) Close() error {
	return c.r.Close()
}

// Consume fetches lookup events until ctx ends or an error occurs. Messages
// that are not LookupCompleted JSON are logged and committed. A message is
// committed only after handler succeeds.
func (c *Consumer) Consume(ctx context.Context, handler Handler) error {
	for {
		m, err := c.r.FetchMessage(ctx)
		if err != nil {
			return errors.Wrap(err, "fetch message")
		}

		msg, err := decodeLookupCompleted(m)
		if err != nil {
			slog.Error("skip undecodable lookup event",
				"partition", m.Partition, "offset", m.Offset, "key", string(m.Key), "err", err)
		} else if err := handler(ctx, msg); err != nil {
			return errors.Wrapf(err, "handle message partition=%d offset=%d", m.Partition, m.Offset)
		}

		if err := c.r.CommitMessages(ctx, m); err != nil {
			return errors.Wrap(err, "commit message")
		}
	}
}

func decodeLookupCompleted(m kafka.Message) (messages.LookupCompleted, error) {
	for _, h := range m.Headers {
		if h.Key == HeaderEventType && string(h.Value) != messages.TypeLookupCompleted {
			return messages.LookupCompleted{}, errors.Errorf("unexpected event type %q", h.Value)
		}
	}
	var msg messages.LookupCompleted
	if err := json.Unmarshal(m.Value, &msg); err != nil {
		return messages.LookupCompleted{}, errors.Wrap(err, "decode lookup event")
	}
	return msg, nil
}
