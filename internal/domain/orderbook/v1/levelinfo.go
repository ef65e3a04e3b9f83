package orderbookv1

// LevelInfo is one row of a book snapshot: a price and the aggregate
// remaining quantity resting at it.
type LevelInfo struct {
	Price    Price    `json:"price"`
	Quantity Quantity `json:"quantity"`
}

// LevelInfos is a side's levels in priority order, best first.
type LevelInfos []LevelInfo

// OrderbookLevelInfos is a point-in-time aggregation of both sides.
type OrderbookLevelInfos struct {
	Bids LevelInfos `json:"bids"`
	Asks LevelInfos `json:"asks"`
}
