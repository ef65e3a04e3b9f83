// Package orderbook implements the single-instrument matching engine:
// price-time priority, partial fills, and the Market / GoodTillCancel /
// FillAndKill order behaviors.
package orderbook

import (
	"errors"
	"math/rand"
	"sync"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
)

// ErrEmptyBook is returned when sampling a live order id from a book
// that holds no orders.
var ErrEmptyBook = errors.New("no live orders in the book")

// orderEntry is the order index record: the authoritative order record
// plus its slot in the dense live-id slice used for sampling. The
// position inside the price level is the order itself (intrusive
// links), so cancellation never scans a queue.
type orderEntry struct {
	order     *orderbookv1.Order
	liveIndex int
}

// Orderbook owns both side ladders and the order index. It is designed
// for a single logical writer; the mutex only guards against interleaved
// reads, every mutating call runs to completion under it.
type Orderbook struct {
	mu      sync.RWMutex
	bids    orderbookv1.Ladder
	asks    orderbookv1.Ladder
	orders  map[orderbookv1.OrderID]*orderEntry
	liveIDs []orderbookv1.OrderID
}

// NewOrderbook creates a book using the tree ladder strategy.
func NewOrderbook() *Orderbook {
	ob, _ := NewOrderbookWithStrategy(orderbookv1.StrategyTree)
	return ob
}

// NewOrderbookWithStrategy creates a book with the given price-level
// directory strategy. Matching semantics are identical across
// strategies.
func NewOrderbookWithStrategy(strategy orderbookv1.LadderStrategy) (*Orderbook, error) {
	bids, err := orderbookv1.NewLadder(strategy, orderbookv1.SideBuy)
	if err != nil {
		return nil, err
	}
	asks, err := orderbookv1.NewLadder(strategy, orderbookv1.SideSell)
	if err != nil {
		return nil, err
	}
	return &Orderbook{
		bids:   bids,
		asks:   asks,
		orders: make(map[orderbookv1.OrderID]*orderEntry),
	}, nil
}

// AddOrder submits an order. Duplicate ids, market orders with no
// contra liquidity, and FillAndKill orders that do not cross are silent
// no-ops returning no trades. A returned error is an invariant breach
// and the book must be considered unusable afterwards.
func (ob *Orderbook) AddOrder(order *orderbookv1.Order) (orderbookv1.Trades, error) {
	if order == nil {
		return nil, orderbookv1.ErrNilOrder
	}

	ob.mu.Lock()
	defer ob.mu.Unlock()
	return ob.addOrder(order)
}

// CancelOrder removes a resting order. Unknown ids are a no-op.
func (ob *Orderbook) CancelOrder(orderID orderbookv1.OrderID) {
	ob.mu.Lock()
	defer ob.mu.Unlock()
	ob.cancelOrder(orderID)
}

// ModifyOrder cancels the existing order and re-submits a replacement
// carrying the original order's type with the new side, price, and
// quantity. The replacement goes through the full insertion and
// matching pipeline. Unknown ids are a no-op; a zero quantity is
// rejected before the existing order is touched.
func (ob *Orderbook) ModifyOrder(modify orderbookv1.OrderModify) (orderbookv1.Trades, error) {
	ob.mu.Lock()
	defer ob.mu.Unlock()

	entry, exists := ob.orders[modify.OrderID]
	if !exists {
		return nil, nil
	}
	if modify.Quantity == 0 {
		return nil, orderbookv1.ErrInvalidQuantity
	}

	orderType := entry.order.Type
	ob.cancelOrder(modify.OrderID)
	return ob.addOrder(modify.ToOrder(orderType))
}

// Size returns the number of live orders.
func (ob *Orderbook) Size() int {
	ob.mu.RLock()
	defer ob.mu.RUnlock()
	return len(ob.orders)
}

// GetOrderInfos aggregates each side into (price, remaining quantity)
// rows in priority order, best first. Aggregates are recomputed from
// the live orders on every call.
func (ob *Orderbook) GetOrderInfos() orderbookv1.OrderbookLevelInfos {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	collect := func(ladder orderbookv1.Ladder) orderbookv1.LevelInfos {
		infos := make(orderbookv1.LevelInfos, 0, ladder.Len())
		ladder.Walk(func(level *orderbookv1.PriceLevel) bool {
			infos = append(infos, orderbookv1.LevelInfo{
				Price:    level.Price,
				Quantity: level.TotalQuantity(),
			})
			return true
		})
		return infos
	}

	return orderbookv1.OrderbookLevelInfos{
		Bids: collect(ob.bids),
		Asks: collect(ob.asks),
	}
}

// SampleLiveOrderID returns a uniformly random live order id drawn with
// the caller's rng. It exists for load generation, the matching path
// never calls it.
func (ob *Orderbook) SampleLiveOrderID(rng *rand.Rand) (orderbookv1.OrderID, error) {
	ob.mu.RLock()
	defer ob.mu.RUnlock()

	if len(ob.liveIDs) == 0 {
		return 0, ErrEmptyBook
	}
	return ob.liveIDs[rng.Intn(len(ob.liveIDs))], nil
}

func (ob *Orderbook) addOrder(order *orderbookv1.Order) (orderbookv1.Trades, error) {
	if _, exists := ob.orders[order.ID]; exists {
		return nil, nil
	}

	if order.InitialQuantity == 0 {
		return nil, orderbookv1.ErrInvalidQuantity
	}

	if order.Type == orderbookv1.OrderTypeMarket {
		// Convert at the worst visible contra price so the marketable
		// limit order cannot execute beyond visible liquidity.
		switch {
		case order.IsBid() && !ob.asks.Empty():
			if err := order.ToGoodTillCancel(ob.asks.Worst().Price); err != nil {
				return nil, err
			}
		case !order.IsBid() && !ob.bids.Empty():
			if err := order.ToGoodTillCancel(ob.bids.Worst().Price); err != nil {
				return nil, err
			}
		default:
			return nil, nil
		}
	} else if order.Price == orderbookv1.InvalidPrice {
		return nil, orderbookv1.ErrInvalidPrice
	}

	if order.Type == orderbookv1.OrderTypeFillAndKill && !ob.canMatch(order.Side, order.Price) {
		return nil, nil
	}

	level := ob.sideLadder(order.Side).GetOrCreate(order.Price)
	if err := level.Enqueue(order); err != nil {
		return nil, err
	}
	ob.register(order)

	return ob.matchOrders()
}

func (ob *Orderbook) cancelOrder(orderID orderbookv1.OrderID) {
	entry, exists := ob.orders[orderID]
	if !exists {
		return
	}
	ob.removeOrder(entry.order)
}

// removeOrder unlinks a resting order from its level, drops the level
// when it empties, and erases the index entry.
func (ob *Orderbook) removeOrder(order *orderbookv1.Order) {
	if level := order.Level(); level != nil {
		_ = level.Unlink(order)
		if level.IsEmpty() {
			ob.sideLadder(order.Side).Remove(level.Price)
		}
	}
	ob.unregister(order.ID)
}

// canMatch reports whether an order at the given side and price crosses
// the current contra best.
func (ob *Orderbook) canMatch(side orderbookv1.Side, price orderbookv1.Price) bool {
	if side == orderbookv1.SideBuy {
		if ob.asks.Empty() {
			return false
		}
		return price >= ob.asks.Best().Price
	}

	if ob.bids.Empty() {
		return false
	}
	return price <= ob.bids.Best().Price
}

// matchOrders drains crossing interest. While the best bid crosses the
// best ask it matches the two head orders for min(remaining) quantity,
// emitting one trade per match with each side's own resting price.
// After a drain pass, a FillAndKill order left at the head of either
// best level is canceled; it may not rest beyond the pass that admitted
// it.
func (ob *Orderbook) matchOrders() (orderbookv1.Trades, error) {
	var trades orderbookv1.Trades

	for {
		if ob.bids.Empty() || ob.asks.Empty() {
			break
		}

		bestBid := ob.bids.Best()
		bestAsk := ob.asks.Best()
		if bestBid.Price < bestAsk.Price {
			break
		}

		for !bestBid.IsEmpty() && !bestAsk.IsEmpty() {
			bid := bestBid.Head()
			ask := bestAsk.Head()

			quantity := min(bid.RemainingQuantity, ask.RemainingQuantity)
			if err := bid.Fill(quantity); err != nil {
				return trades, err
			}
			if err := ask.Fill(quantity); err != nil {
				return trades, err
			}

			trades = append(trades, orderbookv1.NewTrade(
				orderbookv1.TradeInfo{OrderID: bid.ID, Price: bid.Price, Quantity: quantity},
				orderbookv1.TradeInfo{OrderID: ask.ID, Price: ask.Price, Quantity: quantity},
			))

			if bid.IsFilled() {
				bestBid.PopHead()
				ob.unregister(bid.ID)
			}
			if ask.IsFilled() {
				bestAsk.PopHead()
				ob.unregister(ask.ID)
			}

			if bestBid.IsEmpty() {
				ob.bids.Remove(bestBid.Price)
			}
			if bestAsk.IsEmpty() {
				ob.asks.Remove(bestAsk.Price)
			}
		}

		if best := ob.bids.Best(); best != nil {
			if head := best.Head(); head != nil && head.Type == orderbookv1.OrderTypeFillAndKill {
				ob.removeOrder(head)
			}
		}
		if best := ob.asks.Best(); best != nil {
			if head := best.Head(); head != nil && head.Type == orderbookv1.OrderTypeFillAndKill {
				ob.removeOrder(head)
			}
		}
	}

	return trades, nil
}

func (ob *Orderbook) sideLadder(side orderbookv1.Side) orderbookv1.Ladder {
	if side == orderbookv1.SideBuy {
		return ob.bids
	}
	return ob.asks
}

// register adds an order to the index and the dense live-id slice.
func (ob *Orderbook) register(order *orderbookv1.Order) {
	ob.orders[order.ID] = &orderEntry{order: order, liveIndex: len(ob.liveIDs)}
	ob.liveIDs = append(ob.liveIDs, order.ID)
}

// unregister removes an index entry, swapping the last live id into the
// vacated slot so sampling stays O(1) and uniform.
func (ob *Orderbook) unregister(orderID orderbookv1.OrderID) {
	entry, exists := ob.orders[orderID]
	if !exists {
		return
	}

	last := len(ob.liveIDs) - 1
	movedID := ob.liveIDs[last]
	ob.liveIDs[entry.liveIndex] = movedID
	ob.orders[movedID].liveIndex = entry.liveIndex
	ob.liveIDs = ob.liveIDs[:last]

	delete(ob.orders, orderID)
}
