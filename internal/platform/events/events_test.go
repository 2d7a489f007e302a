package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodlink/internal/platform/kafka/producer"
	"foodlink/pkg/platform/circuit"
	"foodlink/pkg/requestcontext"
)

type fakeProducer struct {
	messages []*producer.Message
	err      error
}

func (f *fakeProducer) Produce(_ context.Context, msg *producer.Message) error {
	if f.err != nil {
		return f.err
	}
	f.messages = append(f.messages, msg)
	return nil
}

type KafkaPublisherSuite struct {
	suite.Suite
	producer  *fakeProducer
	publisher *KafkaPublisher
	now       time.Time
}

func TestKafkaPublisherSuite(t *testing.T) {
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupTest() {
	s.now = time.Date(2026, 5, 2, 9, 30, 0, 0, time.UTC)
	s.producer = &fakeProducer{}
	clock := func() time.Time { return s.now }
	s.publisher = NewKafkaPublisher(s.producer,
		WithClock(clock),
		WithBreaker(circuit.New("test",
			circuit.WithFailureThreshold(2),
			circuit.WithProbeInterval(time.Minute),
			circuit.WithClock(clock),
		)),
	)
}

func (s *KafkaPublisherSuite) TestPublishWritesEnvelope() {
	ctx := requestcontext.WithRequestID(context.Background(), "req-7")

	err := s.publisher.Publish(ctx, Event{
		Type:    TypeDonorSuspended,
		Key:     "donor-1",
		Payload: map[string]string{"reason": "Low Average Rating"},
	})
	s.Require().NoError(err)
	s.Require().Len(s.producer.messages, 1)

	msg := s.producer.messages[0]
	s.Equal([]byte("donor-1"), msg.Key)
	s.Equal(TypeDonorSuspended, msg.Headers["event_type"])

	var decoded map[string]any
	s.Require().NoError(json.Unmarshal(msg.Value, &decoded))
	s.Equal(TypeDonorSuspended, decoded["type"])
	s.Equal("req-7", decoded["request_id"])
	s.Equal("2026-05-02T09:30:00Z", decoded["occurred_at"])
	s.NotEmpty(decoded["id"])
	s.Equal(msg.Headers["event_id"], decoded["id"])
}

func (s *KafkaPublisherSuite) TestBreakerShortCircuitsAfterFailures() {
	s.producer.err = errors.New("broker down")
	ctx := context.Background()

	s.Error(s.publisher.Publish(ctx, Event{Type: TypeNotificationCreated}))
	s.Error(s.publisher.Publish(ctx, Event{Type: TypeNotificationCreated}))

	s.Run("open circuit skips the producer", func() {
		err := s.publisher.Publish(ctx, Event{Type: TypeNotificationCreated})
		s.ErrorIs(err, ErrCircuitOpen)
	})

	s.Run("probe after interval recovers", func() {
		s.producer.err = nil
		s.now = s.now.Add(time.Minute)
		s.NoError(s.publisher.Publish(ctx, Event{Type: TypeNotificationCreated}))
		s.NoError(s.publisher.Publish(ctx, Event{Type: TypeNotificationCreated}))
		s.Len(s.producer.messages, 2)
	})
}

func TestNoopPublisher(t *testing.T) {
	var p Publisher = Noop{}
	if err := p.Publish(context.Background(), Event{Type: TypeDonorSuspended}); err != nil {
		t.Fatalf("noop publish: %v", err)
	}
}
