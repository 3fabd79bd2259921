package publishers

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
)

// kafkaWriter defines the subset of kafka.Writer used by kafkaPublisher.
type kafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// kafkaPublisher implements the Publisher interface for a Kafka topic.
// Messages are keyed by order id so events for one order stay ordered.
type kafkaPublisher struct {
	id     string
	typ    string
	writer kafkaWriter
	log    Logger
}

func newKafkaPublisher(_ context.Context, cfg PublisherConfig, log Logger) (Publisher, error) {
	if cfg.Kafka == nil {
		return nil, fmt.Errorf("publisher %q missing kafka configuration", cfg.ID)
	}

	writer := &kafka.Writer{
		Addr:         kafka.TCP(cfg.Kafka.Brokers...),
		Topic:        cfg.Kafka.Topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
		WriteTimeout: 10 * time.Second,
	}

	return &kafkaPublisher{
		id:     cfg.ID,
		typ:    TypeKafka,
		writer: writer,
		log:    ensureLogger(log),
	}, nil
}

func (k *kafkaPublisher) ID() string   { return k.id }
func (k *kafkaPublisher) Type() string { return k.typ }

// Publish writes the event to the configured topic.
func (k *kafkaPublisher) Publish(ctx context.Context, evt Event) error {
	payload, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	headers := make([]kafka.Header, 0, 5)
	for key, v := range nonEmpty(evt.attributes()) {
		headers = append(headers, kafka.Header{Key: key, Value: []byte(v)})
	}

	msg := kafka.Message{
		Key:     []byte(evt.Order.ID),
		Value:   payload,
		Headers: headers,
		Time:    evt.OccurredAt,
	}
	if err := k.writer.WriteMessages(ctx, msg); err != nil {
		logDelivery(k.log, k.typ, k.id, evt, err, nil)
		return fmt.Errorf("write kafka message: %w", err)
	}
	logDelivery(k.log, k.typ, k.id, evt, nil, nil)
	return nil
}

// Close flushes and closes the writer.
func (k *kafkaPublisher) Close() error {
	return k.writer.Close()
}
