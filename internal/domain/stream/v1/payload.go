// Package streamv1 defines the JSON payloads carried on the order and
// trade topics. The matching core never sees these; adapters decode
// them into domain values at the boundary.
package streamv1

import (
	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
)

// Action is the requested book operation.
type Action string

const (
	// ActionAdd submits a new order.
	ActionAdd Action = "add"
	// ActionModify replaces an existing order's side/price/quantity.
	ActionModify Action = "modify"
	// ActionCancel removes a resting order.
	ActionCancel Action = "cancel"
)

// OrderRequestPayload is one decoded message from the order topic.
type OrderRequestPayload struct {
	Action   Action                `json:"action"`
	OrderID  orderbookv1.OrderID   `json:"orderID"`
	Type     orderbookv1.OrderType `json:"type,omitempty"`
	Side     orderbookv1.Side      `json:"side"`
	Price    orderbookv1.Price     `json:"price"`
	Quantity orderbookv1.Quantity  `json:"quantity"`
	Offset   int64                 `json:"-"`
}

// TradeEventPayload is one produced message on the trade topic.
type TradeEventPayload struct {
	Pair      string                `json:"pair"`
	Bid       orderbookv1.TradeInfo `json:"bid"`
	Ask       orderbookv1.TradeInfo `json:"ask"`
	Timestamp int64                 `json:"timestamp"`
}

// NewTradeEvent builds the wire event for one trade.
func NewTradeEvent(pair string, trade orderbookv1.Trade, timestamp int64) *TradeEventPayload {
	return &TradeEventPayload{
		Pair:      pair,
		Bid:       trade.Bid,
		Ask:       trade.Ask,
		Timestamp: timestamp,
	}
}
