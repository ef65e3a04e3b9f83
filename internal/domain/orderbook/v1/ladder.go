package orderbookv1

import "fmt"

// LadderStrategy selects the price-level directory implementation.
type LadderStrategy string

const (
	// StrategyTree keeps levels in a balanced ordered tree. Level insert
	// and erase are logarithmic in the number of distinct prices.
	StrategyTree LadderStrategy = "tree"
	// StrategyVector keeps levels in a sorted slice with the best price
	// at the tail. Best-price access is O(1); inserting a brand-new level
	// shifts elements, and erasing one locates it by linear scan.
	StrategyVector LadderStrategy = "vector"
)

// Ladder is the ordered directory of price levels for one side of the
// book. All implementations order levels best-first: highest price
// first for bids, lowest price first for asks. A level is never
// retained once its queue is empty.
type Ladder interface {
	// GetOrCreate returns the level at price, creating it when absent.
	GetOrCreate(price Price) *PriceLevel
	// Find returns the level at price, nil when absent.
	Find(price Price) *PriceLevel
	// Best returns the highest-priority level, nil when empty.
	Best() *PriceLevel
	// Worst returns the lowest-priority level, nil when empty. Market
	// orders convert at the contra side's worst visible price.
	Worst() *PriceLevel
	// Remove erases the level at price, if present.
	Remove(price Price)
	// Len returns the number of distinct price levels.
	Len() int
	// Empty reports whether the side holds no levels.
	Empty() bool
	// Walk visits levels best-first until fn returns false.
	Walk(fn func(*PriceLevel) bool)
}

// NewLadder builds a ladder for one side of the book.
func NewLadder(strategy LadderStrategy, side Side) (Ladder, error) {
	switch strategy {
	case StrategyTree:
		return NewTreeLadder(side), nil
	case StrategyVector:
		return NewVectorLadder(side), nil
	default:
		return nil, fmt.Errorf("unknown ladder strategy %q", strategy)
	}
}
