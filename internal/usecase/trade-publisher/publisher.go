package tradepublisher

import (
	"context"
	"encoding/json"
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/segmentio/kafka-go"

	streamv1 "github.com/DesmondYau/Orderbook/internal/domain/stream/v1"
	"github.com/DesmondYau/Orderbook/pkg/config"
	"github.com/DesmondYau/Orderbook/pkg/errors"
	"github.com/DesmondYau/Orderbook/pkg/logger"
)

// Publisher publishes executed trades to the trade topic.
type Publisher struct {
	kafkaWriter *kafka.Writer
	logger      *logger.Logger
	entropy     *ulid.MonotonicEntropy
}

// NewPublisher creates a kafka publisher for trade events.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	kafkaWriter := kafka.NewWriter(kafka.WriterConfig{
		Brokers: cfg.Brokers,
		Topic:   cfg.Topic,
	})

	return &Publisher{
		kafkaWriter: kafkaWriter,
		logger:      log,
		entropy:     ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0),
	}
}

// PublishTradeEvent publishes a single trade event. Messages are keyed
// with a monotonic ulid so downstream consumers keep arrival order.
func (p *Publisher) PublishTradeEvent(ctx context.Context, event *streamv1.TradeEventPayload) error {
	value, err := json.Marshal(event)
	if err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "pair", Value: event.Pair},
		)
		return errors.NewTracer(string(errors.TradePublishError)).Wrap(err)
	}

	msg := kafka.Message{
		Key:   []byte(ulid.MustNew(ulid.Timestamp(time.Now()), p.entropy).String()),
		Value: value,
	}

	if err := p.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		p.logger.ErrorContext(ctx, err,
			logger.Field{Key: "pair", Value: event.Pair},
			logger.Field{Key: "bidOrderID", Value: event.Bid.OrderID},
			logger.Field{Key: "askOrderID", Value: event.Ask.OrderID},
		)
		return errors.NewTracer(string(errors.TradePublishError)).Wrap(err)
	}
	return nil
}

// Close closes the kafka writer.
func (p *Publisher) Close() error {
	return p.kafkaWriter.Close()
}
