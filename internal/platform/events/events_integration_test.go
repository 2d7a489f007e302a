//go:build integration

package events_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodlink/internal/platform/events"
	"foodlink/internal/platform/kafka/producer"
	"foodlink/pkg/testutil/containers"
)

const suspendedTopic = "foodlink-suspensions-test"

type KafkaPublisherSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestKafkaPublisherSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(KafkaPublisherSuite))
}

func (s *KafkaPublisherSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), suspendedTopic))

	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		DefaultTopic:    suspendedTopic,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *KafkaPublisherSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(5 * time.Second)
	}
}

func (s *KafkaPublisherSuite) TestDonorSuspendedReachesTheTopic() {
	ctx := context.Background()
	publisher := events.NewKafkaPublisher(s.producer)

	err := publisher.Publish(ctx, events.Event{
		Type:    events.TypeDonorSuspended,
		Key:     "donor-1",
		Payload: map[string]string{"reason": "Low Average Rating"},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer("publisher-suspensions", suspendedTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForEvent(ctx, consumer, 10*time.Second, events.TypeDonorSuspended)
	s.Require().NotNil(record)
	s.Equal("donor-1", string(record.Key))

	var got events.Event
	s.Require().NoError(json.Unmarshal(record.Value, &got))
	s.NotEmpty(got.ID)
	s.Equal(got.ID, containers.Headers(record)["event_id"])
	s.False(got.OccurredAt.IsZero())
	s.Equal(map[string]any{"reason": "Low Average Rating"}, got.Payload)
}
