package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"

	"github.com/iho/assetsync/internal/domain"
	"github.com/iho/assetsync/internal/infrastructure/metrics"
	"github.com/iho/assetsync/internal/usecase"
)

var errInvalidEvent = errors.New("invalid receipt event")

// ReceiptHandler reacts to receipt lifecycle events.
type ReceiptHandler interface {
	OnCreate(ctx context.Context, receiptID string) (*usecase.DispatchResult, error)
	HandleReceiptUpdated(ctx context.Context, receiptID string, previous domain.LandedCosts) (*usecase.DispatchResult, error)
}

type messageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// ConsumerConfig configures the receipt event consumer.
type ConsumerConfig struct {
	Brokers      []string
	Topic        string
	GroupID      string
	MaxRetries   uint64
	RetryBackoff time.Duration
}

// holdMaxInterval caps the wait between rounds of retries for a message
// that keeps failing.
const holdMaxInterval = 30 * time.Second

// Consumer reads receipt events and hands them to the dispatcher. A message
// is committed once handled or when it cannot be parsed. A message that keeps
// failing is retried until it succeeds or the consumer stops; later messages
// wait behind it, since committing them would move the group offset past it.
type Consumer struct {
	reader       messageReader
	handler      ReceiptHandler
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	maxRetries   uint64
	retryBackoff time.Duration
}

// NewConsumer creates a Consumer in the cfg.GroupID consumer group.
func NewConsumer(cfg ConsumerConfig, handler ReceiptHandler, logger zerolog.Logger, m *metrics.Metrics) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  cfg.Brokers,
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
		MaxWait:  500 * time.Millisecond,
	})

	return newConsumer(reader, cfg, handler, logger, m)
}

func newConsumer(reader messageReader, cfg ConsumerConfig, handler ReceiptHandler, logger zerolog.Logger, m *metrics.Metrics) *Consumer {
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 500 * time.Millisecond
	}

	return &Consumer{
		reader:       reader,
		handler:      handler,
		logger:       logger.With().Str("component", "receipt_consumer").Str("topic", cfg.Topic).Logger(),
		metrics:      m,
		maxRetries:   cfg.MaxRetries,
		retryBackoff: cfg.RetryBackoff,
	}
}

// Run consumes until the context is cancelled.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info().Msg("receipt consumer started")

	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				c.logger.Info().Msg("receipt consumer stopping")
				return ctx.Err()
			}
			c.logger.Error().Err(err).Msg("error fetching message")
			continue
		}

		if err := c.process(ctx, msg); err != nil {
			c.logger.Info().
				Int("partition", msg.Partition).
				Int64("offset", msg.Offset).
				Msg("receipt consumer stopping with message uncommitted")
			return err
		}

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("error committing message")
		}
	}
}

// Close closes the underlying reader.
func (c *Consumer) Close() error {
	return c.reader.Close()
}

// process handles msg until it may be committed. It only fails once ctx is
// done, leaving msg uncommitted for the next member of the group.
func (c *Consumer) process(ctx context.Context, msg kafka.Message) error {
	hold := backoff.NewExponentialBackOff()
	hold.InitialInterval = c.retryBackoff
	hold.MaxInterval = holdMaxInterval
	hold.MaxElapsedTime = 0

	notify := func(err error, wait time.Duration) {
		c.logger.Error().Err(err).
			Int("partition", msg.Partition).
			Int64("offset", msg.Offset).
			Dur("retry_in", wait).
			Msg("receipt event not processed, holding offset")
	}

	return backoff.RetryNotify(func() error {
		return c.handleMessage(ctx, msg)
	}, backoff.WithContext(hold, ctx), notify)
}

// handleMessage returns nil when the message should be committed.
func (c *Consumer) handleMessage(ctx context.Context, msg kafka.Message) error {
	ce, data, err := parseReceiptEvent(msg)
	if err != nil {
		c.consumed("unknown", "invalid")
		c.logger.Error().Err(err).Int64("offset", msg.Offset).Msg("dropping unparseable message")
		return nil
	}

	log := c.logger.With().
		Str("event_id", ce.ID).
		Str("event_type", ce.Type).
		Str("receipt_id", data.ReceiptID).
		Logger()

	var handle func(context.Context) (*usecase.DispatchResult, error)
	var label string

	switch ce.Type {
	case TypeReceiptCreated:
		label = "created"
		handle = func(ctx context.Context) (*usecase.DispatchResult, error) {
			return c.handler.OnCreate(ctx, data.ReceiptID)
		}
	case TypeReceiptUpdated:
		previous, err := domain.ParseLandedCosts(data.PreviousLandedCosts)
		if err != nil {
			c.consumed(ce.Type, "invalid")
			log.Error().Err(err).Msg("dropping receipt update with invalid landed costs")
			return nil
		}
		label = "updated"
		handle = func(ctx context.Context) (*usecase.DispatchResult, error) {
			return c.handler.HandleReceiptUpdated(ctx, data.ReceiptID, previous)
		}
	default:
		c.consumed(ce.Type, "ignored")
		log.Debug().Msg("ignoring event type")
		return nil
	}

	attempt := 0
	op := func() error {
		attempt++
		start := time.Now()
		res, err := handle(ctx)
		c.metrics.RecordDispatch(label, res, err, time.Since(start))

		if err != nil {
			log.Warn().Err(err).Int("attempt", attempt).Msg("receipt event handling failed")
			return err
		}

		if res != nil {
			log.Info().Str("outcome", string(res.Outcome)).Msg("receipt event handled")
		}
		return nil
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.retryBackoff
	b.MaxElapsedTime = 0

	if err := backoff.Retry(op, backoff.WithContext(backoff.WithMaxRetries(b, c.maxRetries), ctx)); err != nil {
		c.consumed(ce.Type, "failed")
		return err
	}

	c.consumed(ce.Type, "processed")
	return nil
}

func (c *Consumer) consumed(eventType, status string) {
	if c.metrics == nil {
		return
	}
	c.metrics.MessagesConsumed.WithLabelValues(eventType, status).Inc()
}

func parseReceiptEvent(msg kafka.Message) (*CloudEvent, *receiptEventData, error) {
	var ce CloudEvent
	if err := json.Unmarshal(msg.Value, &ce); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", errInvalidEvent, err)
	}

	for _, h := range msg.Headers {
		switch h.Key {
		case "ce-type":
			if ce.Type == "" {
				ce.Type = string(h.Value)
			}
		case "ce-id":
			if ce.ID == "" {
				ce.ID = string(h.Value)
			}
		}
	}

	if ce.Type == "" {
		return nil, nil, fmt.Errorf("%w: missing type", errInvalidEvent)
	}

	data := &receiptEventData{}
	if len(ce.Data) > 0 && string(ce.Data) != "null" {
		if err := json.Unmarshal(ce.Data, data); err != nil {
			return nil, nil, fmt.Errorf("%w: data: %v", errInvalidEvent, err)
		}
	}

	if data.ReceiptID == "" {
		data.ReceiptID = ce.Subject
	}

	if data.ReceiptID == "" && (ce.Type == TypeReceiptCreated || ce.Type == TypeReceiptUpdated) {
		return nil, nil, fmt.Errorf("%w: missing receipt id", errInvalidEvent)
	}

	return &ce, data, nil
}
