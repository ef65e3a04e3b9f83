package orderbookv1

import (
	"errors"
	"fmt"
)

// OrderID uniquely identifies an order. IDs are caller-assigned.
type OrderID = uint64

// Price is a signed tick price. InvalidPrice marks a market order that
// has not been converted yet.
type Price = int32

// Quantity is an order quantity in whole units.
type Quantity = uint32

// InvalidPrice is the sentinel price carried by a market order until it
// is converted into a resting limit order.
const InvalidPrice Price = -1

var (
	ErrNilOrder        = errors.New("order cannot be nil")
	ErrInvalidQuantity = errors.New("quantity must be positive")
	ErrInvalidPrice    = errors.New("price is invalid")
	ErrOrderNotFound   = errors.New("order not found in price level")
)

// OrderType represents the execution behavior of an order.
type OrderType string

const (
	// OrderTypeMarket executes against the visible contra liquidity up to
	// the worst visible price. It carries InvalidPrice until converted.
	OrderTypeMarket OrderType = "Market"
	// OrderTypeGoodTillCancel rests in the book until filled or canceled.
	OrderTypeGoodTillCancel OrderType = "GoodTillCancel"
	// OrderTypeFillAndKill matches immediately; any unfilled remainder is
	// discarded at the end of the matching pass that admitted it.
	OrderTypeFillAndKill OrderType = "FillAndKill"
)

// Side represents which side of the book an order belongs to.
type Side string

const (
	// SideBuy is the bid side.
	SideBuy Side = "buy"
	// SideSell is the ask side.
	SideSell Side = "sell"
)

// Order is the mutable unit of resting interest. One authoritative
// record exists per OrderID; the owning price level and the order index
// both reference it. RemainingQuantity only ever decreases.
type Order struct {
	ID                OrderID
	Type              OrderType
	Side              Side
	Price             Price
	InitialQuantity   Quantity
	RemainingQuantity Quantity

	// intrusive FIFO linkage, owned by the residing PriceLevel
	level *PriceLevel
	next  *Order
	prev  *Order
}

// NewOrder creates a priced order.
func NewOrder(id OrderID, orderType OrderType, side Side, price Price, quantity Quantity) *Order {
	return &Order{
		ID:                id,
		Type:              orderType,
		Side:              side,
		Price:             price,
		InitialQuantity:   quantity,
		RemainingQuantity: quantity,
	}
}

// NewMarketOrder creates a market order with no price yet.
func NewMarketOrder(id OrderID, side Side, quantity Quantity) *Order {
	return NewOrder(id, OrderTypeMarket, side, InvalidPrice, quantity)
}

// IsBid reports whether the order rests on the bid side.
func (o *Order) IsBid() bool {
	return o.Side == SideBuy
}

// IsFilled reports whether the order has no remaining quantity.
func (o *Order) IsFilled() bool {
	return o.RemainingQuantity == 0
}

// Fill reduces the remaining quantity. Filling for more than the
// remaining quantity is an invariant breach, not a business error.
func (o *Order) Fill(quantity Quantity) error {
	if quantity > o.RemainingQuantity {
		return fmt.Errorf("order %d cannot be filled for more than its remaining quantity", o.ID)
	}
	o.RemainingQuantity -= quantity
	return nil
}

// ToGoodTillCancel converts a market order into a resting limit order
// at the given price. This is the only permitted price mutation.
func (o *Order) ToGoodTillCancel(price Price) error {
	if o.Type != OrderTypeMarket {
		return fmt.Errorf("order %d cannot have its price adjusted, only market orders can", o.ID)
	}
	o.Price = price
	o.Type = OrderTypeGoodTillCancel
	return nil
}

// Level returns the price level the order currently rests in, nil when
// the order is not resting.
func (o *Order) Level() *PriceLevel {
	return o.level
}

// Next returns the order behind this one in its level's FIFO queue.
func (o *Order) Next() *Order {
	return o.next
}
