package orderreader

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"

	streamv1 "github.com/DesmondYau/Orderbook/internal/domain/stream/v1"
	"github.com/DesmondYau/Orderbook/pkg/config"
	"github.com/DesmondYau/Orderbook/pkg/errors"
	"github.com/DesmondYau/Orderbook/pkg/logger"
)

// Reader consumes order requests from the order topic.
type Reader struct {
	kafkaReader *kafka.Reader
	logger      *logger.Logger
}

// NewReader creates a kafka reader for the order topic. It returns an
// implementation of the OrderReader interface.
func NewReader(cfg config.KafkaConfig, log *logger.Logger) *Reader {
	kafkaReader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     cfg.Brokers,
		Topic:       cfg.Topic,
		Partition:   0,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafka.LastOffset,
	})

	return &Reader{
		kafkaReader: kafkaReader,
		logger:      log,
	}
}

func (r *Reader) logError(err error, operation string) {
	r.logger.Error(err,
		logger.Field{Key: "operation", Value: operation},
	)
}

// SetOffset sets the offset for the kafka reader.
func (r *Reader) SetOffset(offset int64) error {
	if err := r.kafkaReader.SetOffset(offset); err != nil {
		r.logError(err, "SetOffset")
		return err
	}
	return nil
}

// ReadMessage reads one message from the order topic and decodes it as
// an order request.
func (r *Reader) ReadMessage(ctx context.Context) (kafka.Message, *streamv1.OrderRequestPayload, error) {
	msg, err := r.kafkaReader.ReadMessage(ctx)
	if err != nil {
		r.logError(err, "ReadMessage")
		return kafka.Message{}, nil, err
	}

	var request streamv1.OrderRequestPayload
	if err := json.Unmarshal(msg.Value, &request); err != nil {
		r.logError(err, "UnmarshalOrderRequest")
		return kafka.Message{}, nil, errors.NewTracer(string(errors.OrderDecodeError)).Wrap(err)
	}

	r.logger.Debug("ReadMessage",
		logger.Field{Key: "action", Value: request.Action},
		logger.Field{Key: "orderID", Value: request.OrderID},
		logger.Field{Key: "side", Value: request.Side},
		logger.Field{Key: "price", Value: request.Price},
		logger.Field{Key: "quantity", Value: request.Quantity},
	)

	request.Offset = msg.Offset

	return msg, &request, nil
}

// CommitMessages commits the messages after processing. The reader is
// bound to an explicit partition rather than a consumer group, so
// offsets are tracked positionally and there is nothing to commit.
func (r *Reader) CommitMessages(ctx context.Context, msgs ...kafka.Message) error {
	return nil
}

// Close properly closes the kafka reader.
func (r *Reader) Close() error {
	if err := r.kafkaReader.Close(); err != nil {
		r.logError(err, "Close")
		return err
	}
	return nil
}
