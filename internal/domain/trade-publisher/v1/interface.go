package tradepublisherv1

import (
	"context"

	streamv1 "github.com/DesmondYau/Orderbook/internal/domain/stream/v1"
)

// TradePublisher defines the interface for publishing executed trades.
//
//go:generate mockgen -source interface.go -destination=mock/interface_mock.go -package=tradepublisherv1_mock
type TradePublisher interface {
	// PublishTradeEvent publishes a single trade event
	PublishTradeEvent(ctx context.Context, event *streamv1.TradeEventPayload) error
	// Close closes the publisher
	Close() error
}
