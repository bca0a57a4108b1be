package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"
	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// NewKafkaProducer creates a synchronous producer that waits for all
// in-sync replicas.
func NewKafkaProducer(brokers []string) (sarama.SyncProducer, error) {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	config.Version = sarama.V2_6_0_0

	producer, err := sarama.NewSyncProducer(brokers, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}
	return producer, nil
}

type kafkaNotifier struct {
	producer sarama.SyncProducer
	topic    string
	logger   zerolog.Logger
}

// NewKafkaNotifier sends every event to topic, keyed by order code so
// one order's events stay on one partition.
func NewKafkaNotifier(producer sarama.SyncProducer, topic string, logger zerolog.Logger) Notifier {
	return &kafkaNotifier{
		producer: producer,
		topic:    topic,
		logger:   logger.With().Str("component", "kafka-notifier").Logger(),
	}
}

func (n *kafkaNotifier) Notify(_ context.Context, ev model.Event) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	key := ev.OrderCode
	if key == "" {
		key = string(ev.Type)
	}

	msg := &sarama.ProducerMessage{
		Topic: n.topic,
		Key:   sarama.StringEncoder(key),
		Value: sarama.ByteEncoder(data),
		Headers: []sarama.RecordHeader{
			{Key: []byte("event-type"), Value: []byte(ev.Type)},
		},
	}

	partition, offset, err := n.producer.SendMessage(msg)
	if err != nil {
		n.logger.Error().Err(err).Str("topic", n.topic).Msg("failed to send event to Kafka")
		return fmt.Errorf("failed to send event to Kafka: %w", err)
	}

	n.logger.Debug().
		Str("topic", n.topic).
		Int32("partition", partition).
		Int64("offset", offset).
		Str("event_type", string(ev.Type)).
		Msg("event published to Kafka")

	return nil
}
