// Package events publishes domain events to the message bus.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"foodlink/internal/platform/kafka/producer"
	"foodlink/pkg/platform/circuit"
	"foodlink/pkg/requestcontext"
)

// Event types.
const (
	TypeNotificationCreated = "notification.created"
	TypeDonorSuspended      = "donor.suspended"
)

// ErrCircuitOpen is returned while the broker is considered unavailable.
var ErrCircuitOpen = errors.New("event publisher circuit open")

// Event is the envelope written to the bus. Key selects the partition.
type Event struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Key        string    `json:"-"`
	OccurredAt time.Time `json:"occurred_at"`
	RequestID  string    `json:"request_id,omitempty"`
	Payload    any       `json:"payload"`
}

// Publisher is satisfied by every publisher in this package.
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// Noop discards events. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }

// Producer is the subset of the kafka producer the publisher needs.
type Producer interface {
	Produce(ctx context.Context, msg *producer.Message) error
}

// KafkaPublisher serializes events as JSON and produces them through a
// circuit breaker. While the breaker is open, Publish returns ErrCircuitOpen
// without calling the producer.
type KafkaPublisher struct {
	producer Producer
	breaker  *circuit.Breaker
	logger   *slog.Logger
	now      func() time.Time
}

type Option func(*KafkaPublisher)

func WithLogger(logger *slog.Logger) Option {
	return func(p *KafkaPublisher) {
		p.logger = logger
	}
}

func WithBreaker(b *circuit.Breaker) Option {
	return func(p *KafkaPublisher) {
		p.breaker = b
	}
}

func WithClock(now func() time.Time) Option {
	return func(p *KafkaPublisher) {
		p.now = now
	}
}

func NewKafkaPublisher(prod Producer, opts ...Option) *KafkaPublisher {
	if prod == nil {
		panic("events: producer is required")
	}
	p := &KafkaPublisher{
		producer: prod,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.breaker == nil {
		p.breaker = circuit.New("kafka-events")
	}
	return p
}

// Publish fills ID, OccurredAt and RequestID when empty and produces the event.
func (p *KafkaPublisher) Publish(ctx context.Context, event Event) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.OccurredAt.IsZero() {
		event.OccurredAt = p.now().UTC()
	}
	if event.RequestID == "" {
		event.RequestID = requestcontext.RequestID(ctx)
	}

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", event.Type, err)
	}

	if !p.breaker.Allow() {
		return ErrCircuitOpen
	}

	err = p.producer.Produce(ctx, &producer.Message{
		Key:   []byte(event.Key),
		Value: value,
		Headers: map[string]string{
			"event_type": event.Type,
			"event_id":   event.ID,
		},
	})
	if err != nil {
		if p.breaker.RecordFailure() {
			p.logger.WarnContext(ctx, "event publisher circuit opened",
				"breaker", p.breaker.Name(),
				"error", err,
			)
		}
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}
	if p.breaker.RecordSuccess() {
		p.logger.InfoContext(ctx, "event publisher circuit closed", "breaker", p.breaker.Name())
	}
	return nil
}
