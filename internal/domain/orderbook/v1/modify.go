package orderbookv1

// OrderModify is a transient replace request. It never rests in the
// book; the engine expands it into a cancel followed by a fresh add
// that keeps the original order's type.
type OrderModify struct {
	OrderID  OrderID
	Side     Side
	Price    Price
	Quantity Quantity
}

// NewOrderModify creates a modify request.
func NewOrderModify(id OrderID, side Side, price Price, quantity Quantity) OrderModify {
	return OrderModify{
		OrderID:  id,
		Side:     side,
		Price:    price,
		Quantity: quantity,
	}
}

// ToOrder builds the replacement order, carrying the given type over
// from the order being replaced.
func (m OrderModify) ToOrder(orderType OrderType) *Order {
	return NewOrder(m.OrderID, orderType, m.Side, m.Price, m.Quantity)
}
