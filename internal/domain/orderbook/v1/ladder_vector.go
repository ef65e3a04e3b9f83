package orderbookv1

import "sort"

// VectorLadder is the sorted contiguous-slice strategy. Levels are kept
// sorted worst-first so the best level sits at the tail, which makes
// best-price access and draining at the best price O(1) appends and
// pops. Inserting a brand-new price shifts elements; erasing a level by
// price is a linear scan.
type VectorLadder struct {
	levels []*PriceLevel
	desc   bool
}

// NewVectorLadder creates a vector ladder for the given side.
func NewVectorLadder(side Side) *VectorLadder {
	return &VectorLadder{desc: side == SideBuy}
}

// worseThan reports whether price a sits closer to the worst end of the
// slice than price b.
func (v *VectorLadder) worseThan(a, b Price) bool {
	if v.desc {
		return a < b
	}
	return a > b
}

// insertionIndex binary-searches the position a price belongs at.
func (v *VectorLadder) insertionIndex(price Price) int {
	return sort.Search(len(v.levels), func(i int) bool {
		return !v.worseThan(v.levels[i].Price, price)
	})
}

// GetOrCreate returns the level at price, creating it when absent.
func (v *VectorLadder) GetOrCreate(price Price) *PriceLevel {
	i := v.insertionIndex(price)
	if i < len(v.levels) && v.levels[i].Price == price {
		return v.levels[i]
	}
	level := NewPriceLevel(price)
	v.levels = append(v.levels, nil)
	copy(v.levels[i+1:], v.levels[i:])
	v.levels[i] = level
	return level
}

// Find returns the level at price, nil when absent.
func (v *VectorLadder) Find(price Price) *PriceLevel {
	i := v.insertionIndex(price)
	if i < len(v.levels) && v.levels[i].Price == price {
		return v.levels[i]
	}
	return nil
}

// Best returns the highest-priority level, nil when empty.
func (v *VectorLadder) Best() *PriceLevel {
	if len(v.levels) == 0 {
		return nil
	}
	return v.levels[len(v.levels)-1]
}

// Worst returns the lowest-priority level, nil when empty.
func (v *VectorLadder) Worst() *PriceLevel {
	if len(v.levels) == 0 {
		return nil
	}
	return v.levels[0]
}

// Remove erases the level at price, if present. The scan runs from the
// tail because removals cluster at the best price during matching.
func (v *VectorLadder) Remove(price Price) {
	for i := len(v.levels) - 1; i >= 0; i-- {
		if v.levels[i].Price == price {
			v.levels = append(v.levels[:i], v.levels[i+1:]...)
			return
		}
	}
}

// Len returns the number of distinct price levels.
func (v *VectorLadder) Len() int {
	return len(v.levels)
}

// Empty reports whether the side holds no levels.
func (v *VectorLadder) Empty() bool {
	return len(v.levels) == 0
}

// Walk visits levels best-first until fn returns false.
func (v *VectorLadder) Walk(fn func(*PriceLevel) bool) {
	for i := len(v.levels) - 1; i >= 0; i-- {
		if !fn(v.levels[i]) {
			return
		}
	}
}
