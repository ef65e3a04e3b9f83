package orderbookv1

// TradeInfo records one side of a match: the resting order's id, its
// own resting price, and the quantity exchanged.
type TradeInfo struct {
	OrderID  OrderID  `json:"orderID"`
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// Trade pairs the bid-side and ask-side records of a single match. It
// is immutable once produced; the engine keeps no trade history.
type Trade struct {
	Bid TradeInfo `json:"bid"`
	Ask TradeInfo `json:"ask"`
}

// Trades is the sequence of trades produced by one mutating call.
type Trades []Trade

// NewTrade creates a trade from its two legs.
func NewTrade(bid, ask TradeInfo) Trade {
	return Trade{Bid: bid, Ask: ask}
}

// Quantity returns the quantity exchanged. Both legs always carry the
// same quantity.
func (t Trade) Quantity() Quantity {
	return t.Bid.Quantity
}
