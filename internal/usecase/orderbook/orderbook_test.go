package orderbook

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
)

// Every test runs against both ladder strategies; matching semantics
// must be indistinguishable between them.
func forEachStrategy(t *testing.T, run func(t *testing.T, ob *Orderbook)) {
	for _, strategy := range []orderbookv1.LadderStrategy{
		orderbookv1.StrategyTree,
		orderbookv1.StrategyVector,
	} {
		t.Run(string(strategy), func(t *testing.T) {
			ob, err := NewOrderbookWithStrategy(strategy)
			require.NoError(t, err)
			run(t, ob)
		})
	}
}

func limitOrder(id orderbookv1.OrderID, side orderbookv1.Side, price orderbookv1.Price, quantity orderbookv1.Quantity) *orderbookv1.Order {
	return orderbookv1.NewOrder(id, orderbookv1.OrderTypeGoodTillCancel, side, price, quantity)
}

func mustAdd(t *testing.T, ob *Orderbook, order *orderbookv1.Order) orderbookv1.Trades {
	t.Helper()
	trades, err := ob.AddOrder(order)
	require.NoError(t, err)
	return trades
}

// orderCountFromInfos reconstructs per-side totals from the aggregation
// snapshot so size consistency can be asserted independently.
func aggregateQuantity(infos orderbookv1.LevelInfos) orderbookv1.Quantity {
	var total orderbookv1.Quantity
	for _, info := range infos {
		total += info.Quantity
	}
	return total
}

// Test 1: Basic constructor
func TestNewOrderbook(t *testing.T) {
	ob := NewOrderbook()

	assert.NotNil(t, ob)
	assert.Equal(t, 0, ob.Size())

	infos := ob.GetOrderInfos()
	assert.Empty(t, infos.Bids)
	assert.Empty(t, infos.Asks)
}

// Test 2: Resting a single limit order
func TestOrderbook_AddOrder_Rests(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		trades := mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))

		assert.Empty(t, trades)
		assert.Equal(t, 1, ob.Size())

		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Price(100_000), infos.Bids[0].Price)
		assert.Equal(t, orderbookv1.Quantity(10), infos.Bids[0].Quantity)
		assert.Empty(t, infos.Asks)
	})
}

// Test 3: Duplicate submission is a silent no-op
func TestOrderbook_AddOrder_DuplicateID(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))
		trades := mustAdd(t, ob, limitOrder(1, orderbookv1.SideSell, 99_000, 5))

		assert.Empty(t, trades)
		assert.Equal(t, 1, ob.Size())
		assert.Empty(t, ob.GetOrderInfos().Asks)
	})
}

// Test 4: Invalid submissions
func TestOrderbook_AddOrder_Invalid(t *testing.T) {
	ob := NewOrderbook()

	t.Run("Nil order", func(t *testing.T) {
		_, err := ob.AddOrder(nil)
		assert.ErrorIs(t, err, orderbookv1.ErrNilOrder)
	})

	t.Run("Zero quantity", func(t *testing.T) {
		_, err := ob.AddOrder(limitOrder(1, orderbookv1.SideBuy, 100_000, 0))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidQuantity)
	})

	t.Run("Limit order with sentinel price", func(t *testing.T) {
		_, err := ob.AddOrder(limitOrder(1, orderbookv1.SideBuy, orderbookv1.InvalidPrice, 10))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidPrice)
	})
}

// Test 5: Exact crossing with a partial remainder
func TestOrderbook_Match_PartialFill(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))
		trades := mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 100_000, 5))

		require.Len(t, trades, 1)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())
		assert.Equal(t, orderbookv1.OrderID(1), trades[0].Bid.OrderID)
		assert.Equal(t, orderbookv1.OrderID(2), trades[0].Ask.OrderID)
		assert.Equal(t, orderbookv1.Price(100_000), trades[0].Bid.Price)
		assert.Equal(t, orderbookv1.Price(100_000), trades[0].Ask.Price)

		// One bid with remaining quantity 5, no asks.
		assert.Equal(t, 1, ob.Size())
		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Quantity(5), infos.Bids[0].Quantity)
		assert.Empty(t, infos.Asks)
	})
}

// Test 6: Price-time priority within a level
func TestOrderbook_Match_FIFOWithinLevel(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 5))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideBuy, 100_000, 5))

		trades := mustAdd(t, ob, limitOrder(3, orderbookv1.SideSell, 100_000, 7))

		// The earlier bid fills first and fully, the later one partially.
		require.Len(t, trades, 2)
		assert.Equal(t, orderbookv1.OrderID(1), trades[0].Bid.OrderID)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())
		assert.Equal(t, orderbookv1.OrderID(2), trades[1].Bid.OrderID)
		assert.Equal(t, orderbookv1.Quantity(2), trades[1].Quantity())

		assert.Equal(t, 1, ob.Size())
		assert.Equal(t, orderbookv1.Quantity(3), ob.GetOrderInfos().Bids[0].Quantity)
	})
}

// Test 7: Matching across several price levels
func TestOrderbook_Match_WalksLevels(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideSell, 100_000, 5))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 100_500, 5))
		mustAdd(t, ob, limitOrder(3, orderbookv1.SideSell, 101_000, 5))

		trades := mustAdd(t, ob, limitOrder(4, orderbookv1.SideBuy, 100_500, 8))

		// Crosses the two cheapest ask levels only.
		require.Len(t, trades, 2)
		assert.Equal(t, orderbookv1.Price(100_000), trades[0].Ask.Price)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())
		assert.Equal(t, orderbookv1.Price(100_500), trades[1].Ask.Price)
		assert.Equal(t, orderbookv1.Quantity(3), trades[1].Quantity())

		// Each leg reports its own resting price.
		assert.Equal(t, orderbookv1.Price(100_500), trades[0].Bid.Price)

		infos := ob.GetOrderInfos()
		assert.Empty(t, infos.Bids)
		require.Len(t, infos.Asks, 2)
		assert.Equal(t, orderbookv1.Price(100_500), infos.Asks[0].Price)
		assert.Equal(t, orderbookv1.Quantity(2), infos.Asks[0].Quantity)
	})
}

// Test 8: No residual cross after any add
func TestOrderbook_Match_NoResidualCross(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 99_000, 10))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 101_000, 10))
		mustAdd(t, ob, limitOrder(3, orderbookv1.SideBuy, 101_000, 4))

		infos := ob.GetOrderInfos()
		if len(infos.Bids) > 0 && len(infos.Asks) > 0 {
			assert.Less(t, infos.Bids[0].Price, infos.Asks[0].Price)
		}
	})
}

// Test 9: FillAndKill rejected when it does not cross
func TestOrderbook_FillAndKill_RejectedWithoutCross(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		fak := orderbookv1.NewOrder(1, orderbookv1.OrderTypeFillAndKill, orderbookv1.SideBuy, 100, 10)
		trades := mustAdd(t, ob, fak)

		assert.Empty(t, trades)
		assert.Equal(t, 0, ob.Size())
	})
}

// Test 10: FillAndKill remainder is discarded after the matching pass
func TestOrderbook_FillAndKill_RemainderDiscarded(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideSell, 100_000, 5))

		fak := orderbookv1.NewOrder(2, orderbookv1.OrderTypeFillAndKill, orderbookv1.SideBuy, 100_000, 8)
		trades := mustAdd(t, ob, fak)

		require.Len(t, trades, 1)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())

		// The 3 unfilled units do not rest.
		assert.Equal(t, 0, ob.Size())
		assert.Empty(t, ob.GetOrderInfos().Bids)
	})
}

// Test 11: Market order with no contra liquidity is rejected
func TestOrderbook_MarketOrder_NoLiquidity(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		trades := mustAdd(t, ob, orderbookv1.NewMarketOrder(1, orderbookv1.SideSell, 10))

		assert.Empty(t, trades)
		assert.Equal(t, 0, ob.Size())
	})
}

// Test 12: Market sell sweeps bids at each level's own price
func TestOrderbook_MarketOrder_SweepsBids(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 105, 5))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideBuy, 100, 5))

		trades := mustAdd(t, ob, orderbookv1.NewMarketOrder(3, orderbookv1.SideSell, 10))

		require.Len(t, trades, 2)
		assert.Equal(t, orderbookv1.Price(105), trades[0].Bid.Price)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())
		assert.Equal(t, orderbookv1.Price(100), trades[1].Bid.Price)
		assert.Equal(t, orderbookv1.Quantity(5), trades[1].Quantity())

		// The market order converted at the worst bid, so its own leg
		// reports that price.
		assert.Equal(t, orderbookv1.Price(100), trades[0].Ask.Price)

		assert.Equal(t, 0, ob.Size())
		assert.Empty(t, ob.GetOrderInfos().Bids)
	})
}

// Test 13: Market buy converts at the worst (highest) visible ask
func TestOrderbook_MarketOrder_WorstPriceBound(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideSell, 100_000, 5))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 102_000, 5))

		trades := mustAdd(t, ob, orderbookv1.NewMarketOrder(3, orderbookv1.SideBuy, 20))

		// Both levels drain, then the converted order rests at the worst
		// ask with the remainder.
		require.Len(t, trades, 2)
		assert.Equal(t, 1, ob.Size())

		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Price(102_000), infos.Bids[0].Price)
		assert.Equal(t, orderbookv1.Quantity(10), infos.Bids[0].Quantity)
	})
}

// Test 14: Cancel removes the order and its empty level
func TestOrderbook_CancelOrder(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideBuy, 100_000, 5))

		ob.CancelOrder(1)

		assert.Equal(t, 1, ob.Size())
		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Quantity(5), infos.Bids[0].Quantity)

		ob.CancelOrder(2)
		assert.Equal(t, 0, ob.Size())
		assert.Empty(t, ob.GetOrderInfos().Bids)
	})
}

// Test 15: Canceling an absent id changes nothing
func TestOrderbook_CancelOrder_Idempotent(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))

		before := ob.GetOrderInfos()
		ob.CancelOrder(99)
		ob.CancelOrder(99)

		assert.Equal(t, 1, ob.Size())
		assert.Equal(t, before, ob.GetOrderInfos())
	})
}

// Test 16: Modify re-enters the pipeline with the original type
func TestOrderbook_ModifyOrder(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))

		// Move the order to the other side at a new price and quantity.
		trades, err := ob.ModifyOrder(orderbookv1.NewOrderModify(1, orderbookv1.SideSell, 101_000, 4))
		require.NoError(t, err)
		assert.Empty(t, trades)

		assert.Equal(t, 1, ob.Size())
		infos := ob.GetOrderInfos()
		assert.Empty(t, infos.Bids)
		require.Len(t, infos.Asks, 1)
		assert.Equal(t, orderbookv1.Price(101_000), infos.Asks[0].Price)
		assert.Equal(t, orderbookv1.Quantity(4), infos.Asks[0].Quantity)
	})
}

// Test 17: Modify can cross and trade immediately
func TestOrderbook_ModifyOrder_CanMatch(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 99_000, 10))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 101_000, 5))

		trades, err := ob.ModifyOrder(orderbookv1.NewOrderModify(1, orderbookv1.SideBuy, 101_000, 10))
		require.NoError(t, err)

		require.Len(t, trades, 1)
		assert.Equal(t, orderbookv1.Quantity(5), trades[0].Quantity())
		assert.Equal(t, 1, ob.Size())

		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Quantity(5), infos.Bids[0].Quantity)
		assert.Empty(t, infos.Asks)
	})
}

// Test 18: Modify of an unknown id is a no-op
func TestOrderbook_ModifyOrder_UnknownID(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		trades, err := ob.ModifyOrder(orderbookv1.NewOrderModify(42, orderbookv1.SideBuy, 100_000, 10))

		require.NoError(t, err)
		assert.Empty(t, trades)
		assert.Equal(t, 0, ob.Size())
	})
}

// Test 19: Size always equals the order count reconstructed per side
func TestOrderbook_SizeConsistency(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideBuy, 99_500, 10))
		mustAdd(t, ob, limitOrder(3, orderbookv1.SideSell, 100_500, 10))
		mustAdd(t, ob, limitOrder(4, orderbookv1.SideSell, 100_000, 4))
		ob.CancelOrder(2)

		// Order 4 traded fully against order 1; orders 1 and 3 remain.
		assert.Equal(t, 2, ob.Size())

		infos := ob.GetOrderInfos()
		assert.Equal(t, orderbookv1.Quantity(6), aggregateQuantity(infos.Bids))
		assert.Equal(t, orderbookv1.Quantity(10), aggregateQuantity(infos.Asks))
	})
}

// Test 20: Total filled quantity never exceeds the initial quantity
func TestOrderbook_FilledNeverExceedsInitial(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 7))

		var filled orderbookv1.Quantity
		for id := orderbookv1.OrderID(2); id <= 5; id++ {
			trades := mustAdd(t, ob, limitOrder(id, orderbookv1.SideSell, 100_000, 3))
			for _, trade := range trades {
				if trade.Bid.OrderID == 1 {
					filled += trade.Quantity()
				}
			}
		}

		assert.Equal(t, orderbookv1.Quantity(7), filled)
	})
}

// Test 21: Sampling live order ids
func TestOrderbook_SampleLiveOrderID(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		rng := rand.New(rand.NewSource(1))

		_, err := ob.SampleLiveOrderID(rng)
		assert.ErrorIs(t, err, ErrEmptyBook)

		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))
		mustAdd(t, ob, limitOrder(2, orderbookv1.SideBuy, 99_000, 10))
		mustAdd(t, ob, limitOrder(3, orderbookv1.SideSell, 101_000, 10))

		seen := make(map[orderbookv1.OrderID]bool)
		for i := 0; i < 200; i++ {
			id, err := ob.SampleLiveOrderID(rng)
			require.NoError(t, err)
			seen[id] = true
		}

		// All live orders are reachable, nothing else is.
		assert.Len(t, seen, 3)

		ob.CancelOrder(1)
		for i := 0; i < 100; i++ {
			id, err := ob.SampleLiveOrderID(rng)
			require.NoError(t, err)
			assert.NotEqual(t, orderbookv1.OrderID(1), id)
		}
	})
}

// Test 22: A long mixed sequence keeps both strategies in lockstep
func TestOrderbook_StrategiesAgree(t *testing.T) {
	tree, err := NewOrderbookWithStrategy(orderbookv1.StrategyTree)
	require.NoError(t, err)
	vector, err := NewOrderbookWithStrategy(orderbookv1.StrategyVector)
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(7))
	nextID := orderbookv1.OrderID(1)

	for i := 0; i < 2_000; i++ {
		action := rng.Intn(100)
		switch {
		case action < 65:
			side := orderbookv1.SideBuy
			if rng.Intn(2) == 0 {
				side = orderbookv1.SideSell
			}
			orderType := orderbookv1.OrderTypeGoodTillCancel
			switch rng.Intn(3) {
			case 1:
				orderType = orderbookv1.OrderTypeFillAndKill
			case 2:
				orderType = orderbookv1.OrderTypeMarket
			}
			price := orderbookv1.Price(100_000 + rng.Intn(2_001) - 1_000)
			quantity := orderbookv1.Quantity(rng.Intn(100) + 1)

			var treeOrder, vectorOrder *orderbookv1.Order
			if orderType == orderbookv1.OrderTypeMarket {
				treeOrder = orderbookv1.NewMarketOrder(nextID, side, quantity)
				vectorOrder = orderbookv1.NewMarketOrder(nextID, side, quantity)
			} else {
				treeOrder = orderbookv1.NewOrder(nextID, orderType, side, price, quantity)
				vectorOrder = orderbookv1.NewOrder(nextID, orderType, side, price, quantity)
			}
			nextID++

			treeTrades, err := tree.AddOrder(treeOrder)
			require.NoError(t, err)
			vectorTrades, err := vector.AddOrder(vectorOrder)
			require.NoError(t, err)
			assert.Equal(t, treeTrades, vectorTrades)

		case action < 75:
			sampleRng := rand.New(rand.NewSource(int64(i)))
			id, err := tree.SampleLiveOrderID(sampleRng)
			if err != nil {
				continue
			}
			side := orderbookv1.SideBuy
			if rng.Intn(2) == 0 {
				side = orderbookv1.SideSell
			}
			modify := orderbookv1.NewOrderModify(id,
				side,
				orderbookv1.Price(100_000+rng.Intn(2_001)-1_000),
				orderbookv1.Quantity(rng.Intn(100)+1))

			treeTrades, err := tree.ModifyOrder(modify)
			require.NoError(t, err)
			vectorTrades, err := vector.ModifyOrder(modify)
			require.NoError(t, err)
			assert.Equal(t, treeTrades, vectorTrades)

		default:
			sampleRng := rand.New(rand.NewSource(int64(i)))
			id, err := tree.SampleLiveOrderID(sampleRng)
			if err != nil {
				continue
			}
			tree.CancelOrder(id)
			vector.CancelOrder(id)
		}

		require.Equal(t, tree.Size(), vector.Size())
	}

	assert.Equal(t, tree.GetOrderInfos(), vector.GetOrderInfos())
}

// Test 23: Modify with a zero quantity is rejected before the existing
// order is cancelled
func TestOrderbook_ModifyOrder_ZeroQuantityRejectedUpFront(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))

		trades, err := ob.ModifyOrder(orderbookv1.NewOrderModify(1, orderbookv1.SideBuy, 100_000, 0))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidQuantity)
		assert.Empty(t, trades)

		// The original order still rests untouched and can trade.
		assert.Equal(t, 1, ob.Size())
		infos := ob.GetOrderInfos()
		require.Len(t, infos.Bids, 1)
		assert.Equal(t, orderbookv1.Quantity(10), infos.Bids[0].Quantity)

		matched := mustAdd(t, ob, limitOrder(2, orderbookv1.SideSell, 100_000, 10))
		require.Len(t, matched, 1)
		assert.Equal(t, 0, ob.Size())
	})
}

// Test 24: Duplicate precedence over quantity validation
func TestOrderbook_AddOrder_DuplicateIDZeroQuantity(t *testing.T) {
	forEachStrategy(t, func(t *testing.T, ob *Orderbook) {
		mustAdd(t, ob, limitOrder(1, orderbookv1.SideBuy, 100_000, 10))

		// Resubmitting a live id is a silent no-op even when the
		// resubmission itself would be invalid.
		trades, err := ob.AddOrder(limitOrder(1, orderbookv1.SideSell, 100_000, 0))
		require.NoError(t, err)
		assert.Empty(t, trades)
		assert.Equal(t, 1, ob.Size())

		// An unknown id with a zero quantity is still rejected.
		_, err = ob.AddOrder(limitOrder(2, orderbookv1.SideSell, 100_000, 0))
		assert.ErrorIs(t, err, orderbookv1.ErrInvalidQuantity)
	})
}
