package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/iho/assetsync/internal/domain"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ProducerConfig configures the asset event producer.
type ProducerConfig struct {
	Brokers      []string
	Topic        string
	BatchTimeout time.Duration
}

// Producer publishes outbox asset events as CloudEvents. Messages are keyed
// by asset id so events of one asset stay ordered within a partition.
type Producer struct {
	writer messageWriter
}

// NewProducer creates a Producer writing to cfg.Topic.
func NewProducer(cfg ProducerConfig) *Producer {
	if cfg.BatchTimeout <= 0 {
		cfg.BatchTimeout = 10 * time.Millisecond
	}

	return &Producer{writer: &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireAll,
	}}
}

// Publish writes a single outbox event.
func (p *Producer) Publish(ctx context.Context, event *domain.OutboxEvent) error {
	msg, err := assetMessage(event)
	if err != nil {
		return err
	}

	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("write %s event %s: %w", event.EventType, event.ID, err)
	}

	return nil
}

// Close flushes pending writes.
func (p *Producer) Close() error {
	return p.writer.Close()
}

func assetMessage(event *domain.OutboxEvent) (kafka.Message, error) {
	data, err := json.Marshal(event.Payload)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal event payload: %w", err)
	}

	ce := CloudEvent{
		SpecVersion:     SpecVersion,
		Type:            assetTypePrefix + event.EventType,
		Source:          AssetSource,
		Subject:         event.AggregateID,
		ID:              eventID(event.ID),
		Time:            event.CreatedAt.UTC(),
		DataContentType: ContentTypeJSON,
		Data:            data,
	}

	value, err := json.Marshal(ce)
	if err != nil {
		return kafka.Message{}, fmt.Errorf("marshal cloud event: %w", err)
	}

	return kafka.Message{
		Key:   []byte(event.AggregateID),
		Value: value,
		Time:  ce.Time,
		Headers: []kafka.Header{
			{Key: "ce-specversion", Value: []byte(ce.SpecVersion)},
			{Key: "ce-type", Value: []byte(ce.Type)},
			{Key: "ce-source", Value: []byte(ce.Source)},
			{Key: "ce-id", Value: []byte(ce.ID)},
			{Key: "ce-time", Value: []byte(ce.Time.Format(time.RFC3339Nano))},
			{Key: "content-type", Value: []byte(ContentTypeJSON)},
		},
	}, nil
}
