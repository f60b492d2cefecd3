package kafka

import (
	"context"
	"encoding/json"
	"time"

	"github.com/BearBump/RailStatus/internal/broker/messages"
	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

// Header names set on every lookup event.
const (
	HeaderEventType = "event-type"
	HeaderKind      = "lookup-kind"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// Producer writes LookupCompleted events to one topic, keyed by event id.
type Producer struct {
	w     messageWriter
	topic string
}

func NewProducer(brokers []string, topic string) *Producer {
	return &Producer{
		w: &kafka.Writer{
			Addr:                   kafka.TCP(brokers...),
			Balancer:               &kafka.Hash{},
			RequiredAcks:           kafka.RequireOne,
			BatchTimeout:           10 * time.Millisecond,
			AllowAutoTopicCreation: true,
		},
		topic: topic,
	}
}

func newProducerWithWriter(w messageWriter, topic string) *Producer {
	return &Producer{w: w, topic: topic}
}

func (p *Producer) PublishLookupCompleted(ctx context.Context, msg messages.LookupCompleted) error {
	value, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal lookup event")
	}
	if err := p.w.WriteMessages(ctx, kafka.Message{
		Topic: p.topic,
		Key:   []byte(msg.ID.String()),
		Value: value,
		Headers: []kafka.Header{
			{Key: HeaderEventType, Value: []byte(messages.TypeLookupCompleted)},
			{Key: HeaderKind, Value: []byte(msg.Kind)},
		},
	}); err != nil {
		return errors.Wrapf(err, "kafka publish %s", p.topic)
	}
	return nil
}

func (p *Producer) Close() error {
	if c, ok := p.w.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
