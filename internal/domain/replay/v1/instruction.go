// Package replayv1 defines the decoded form of the line-oriented order
// log used to replay and verify scenarios.
package replayv1

import (
	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
)

// ActionType is the operation an order-log record requests.
type ActionType string

const (
	// ActionAdd submits a new order.
	ActionAdd ActionType = "Add"
	// ActionModify replaces an existing order.
	ActionModify ActionType = "Modify"
	// ActionCancel removes a resting order.
	ActionCancel ActionType = "Cancel"
)

// Instruction is one decoded order-log record.
type Instruction struct {
	Action    ActionType
	OrderType orderbookv1.OrderType
	Side      orderbookv1.Side
	Price     orderbookv1.Price
	Quantity  orderbookv1.Quantity
	OrderID   orderbookv1.OrderID
}

// ExpectedResult is the trailing record of an order log: the final
// order count overall and per side, used to verify a replay.
type ExpectedResult struct {
	AllCount int
	BidCount int
	AskCount int
}
