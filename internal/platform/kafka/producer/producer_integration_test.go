//go:build integration

package producer_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"foodlink/internal/platform/kafka/producer"
	"foodlink/pkg/testutil/containers"
)

const eventsTopic = "foodlink-events-test"

type ProducerIntegrationSuite struct {
	suite.Suite
	kafka    *containers.KafkaContainer
	producer *producer.Producer
}

func TestProducerIntegrationSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(ProducerIntegrationSuite))
}

func (s *ProducerIntegrationSuite) SetupSuite() {
	s.kafka = containers.GetManager().GetKafka(s.T())
	s.Require().NoError(s.kafka.CreateTopic(context.Background(), eventsTopic))

	prod, err := producer.New(producer.Config{
		Brokers:         s.kafka.Brokers,
		DefaultTopic:    eventsTopic,
		DeliveryTimeout: 10 * time.Second,
	}, nil)
	s.Require().NoError(err)
	s.producer = prod
}

func (s *ProducerIntegrationSuite) TearDownSuite() {
	if s.producer != nil {
		s.producer.Close(5 * time.Second)
	}
}

func (s *ProducerIntegrationSuite) TestProduceUsesDefaultTopicAndKeepsHeaders() {
	ctx := context.Background()

	err := s.producer.Produce(ctx, &producer.Message{
		Key:   []byte("listing-1"),
		Value: []byte(`{"type":"notification.created"}`),
		Headers: map[string]string{
			"event_type": "notification.created",
		},
	})
	s.Require().NoError(err)

	consumer, err := s.kafka.NewConsumer("producer-default-topic", eventsTopic)
	s.Require().NoError(err)
	defer consumer.Close()

	record := s.kafka.WaitForEvent(ctx, consumer, 10*time.Second, "notification.created")
	s.Require().NotNil(record)
	s.Equal("listing-1", string(record.Key))
	s.JSONEq(`{"type":"notification.created"}`, string(record.Value))
}

func (s *ProducerIntegrationSuite) TestPingAndClose() {
	ctx := context.Background()
	s.NoError(s.producer.Ping(ctx))

	prod, err := producer.New(producer.Config{Brokers: s.kafka.Brokers}, nil)
	s.Require().NoError(err)
	prod.Close(time.Second)

	s.ErrorIs(prod.Produce(ctx, &producer.Message{Topic: eventsTopic}), producer.ErrClosed)
	s.ErrorIs(prod.Ping(ctx), producer.ErrClosed)
}
