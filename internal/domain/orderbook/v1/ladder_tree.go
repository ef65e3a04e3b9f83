package orderbookv1

import "github.com/google/btree"

const treeDegree = 32

// levelItem wraps a PriceLevel for btree ordering. Items compare in
// priority order, so the tree minimum is always the side's best level.
type levelItem struct {
	level *PriceLevel
	desc  bool
}

func (it *levelItem) Less(than btree.Item) bool {
	other := than.(*levelItem)
	if it.desc {
		return it.level.Price > other.level.Price
	}
	return it.level.Price < other.level.Price
}

// TreeLadder is the balanced ordered-tree strategy. Bids order levels
// by descending price, asks by ascending price.
type TreeLadder struct {
	tree *btree.BTree
	desc bool
}

// NewTreeLadder creates a tree ladder for the given side.
func NewTreeLadder(side Side) *TreeLadder {
	return &TreeLadder{
		tree: btree.New(treeDegree),
		desc: side == SideBuy,
	}
}

func (t *TreeLadder) key(price Price) *levelItem {
	return &levelItem{level: &PriceLevel{Price: price}, desc: t.desc}
}

// GetOrCreate returns the level at price, creating it when absent.
func (t *TreeLadder) GetOrCreate(price Price) *PriceLevel {
	if item := t.tree.Get(t.key(price)); item != nil {
		return item.(*levelItem).level
	}
	level := NewPriceLevel(price)
	t.tree.ReplaceOrInsert(&levelItem{level: level, desc: t.desc})
	return level
}

// Find returns the level at price, nil when absent.
func (t *TreeLadder) Find(price Price) *PriceLevel {
	if item := t.tree.Get(t.key(price)); item != nil {
		return item.(*levelItem).level
	}
	return nil
}

// Best returns the highest-priority level, nil when empty.
func (t *TreeLadder) Best() *PriceLevel {
	if item := t.tree.Min(); item != nil {
		return item.(*levelItem).level
	}
	return nil
}

// Worst returns the lowest-priority level, nil when empty.
func (t *TreeLadder) Worst() *PriceLevel {
	if item := t.tree.Max(); item != nil {
		return item.(*levelItem).level
	}
	return nil
}

// Remove erases the level at price, if present.
func (t *TreeLadder) Remove(price Price) {
	t.tree.Delete(t.key(price))
}

// Len returns the number of distinct price levels.
func (t *TreeLadder) Len() int {
	return t.tree.Len()
}

// Empty reports whether the side holds no levels.
func (t *TreeLadder) Empty() bool {
	return t.tree.Len() == 0
}

// Walk visits levels best-first until fn returns false.
func (t *TreeLadder) Walk(fn func(*PriceLevel) bool) {
	t.tree.Ascend(func(item btree.Item) bool {
		return fn(item.(*levelItem).level)
	})
}
