// Package loadgen produces synthetic order logs. Every emitted record
// is simultaneously applied to an internal book so later records stay
// coherent: modify and cancel targets are drawn from the orders that
// are actually live, and prices are re-drawn while they strictly cross
// the visible contra best, so adds at most tie the opposing queue.
package loadgen

import (
	"fmt"
	"io"
	"math/rand"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	replayv1 "github.com/DesmondYau/Orderbook/internal/domain/replay/v1"
	"github.com/DesmondYau/Orderbook/internal/usecase/orderbook"
	"github.com/DesmondYau/Orderbook/internal/usecase/replay"
)

const (
	// Action weights out of 100.
	addWeight    = 65
	modifyWeight = 10

	priceMean   = 100_000
	priceStddev = 500

	maxQuantity = 100
)

// Generator emits a reproducible order log for a given rng seed.
type Generator struct {
	book   *orderbook.Orderbook
	rng    *rand.Rand
	nextID orderbookv1.OrderID
}

// NewGenerator creates a generator with its own book, seeded rng.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		book:   orderbook.NewOrderbook(),
		rng:    rand.New(rand.NewSource(seed)),
		nextID: 1,
	}
}

// Book exposes the generator's internal book, primarily so callers can
// compare a replayed log against the state that produced it.
func (g *Generator) Book() *orderbook.Orderbook {
	return g.book
}

// Generate writes count order records followed by the trailing result
// record describing the final book.
func (g *Generator) Generate(count int, w io.Writer) error {
	for i := 0; i < count; i++ {
		line, err := g.nextRecord()
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}

	infos := g.book.GetOrderInfos()
	result := replayv1.ExpectedResult{
		AllCount: g.book.Size(),
		BidCount: len(infos.Bids),
		AskCount: len(infos.Asks),
	}
	_, err := fmt.Fprintln(w, replay.EncodeResult(result))
	return err
}

// nextRecord draws one weighted action, applies it to the internal
// book, and returns its encoded form. Modify and cancel fall back to
// add while the book is empty.
func (g *Generator) nextRecord() (string, error) {
	draw := g.rng.Intn(100)
	switch {
	case draw < addWeight || g.book.Size() == 0:
		return g.emitAdd()
	case draw < addWeight+modifyWeight:
		return g.emitModify()
	default:
		return g.emitCancel()
	}
}

func (g *Generator) emitAdd() (string, error) {
	side := g.randomSide()
	orderType := g.randomOrderType()
	price := g.restingPrice(side)
	quantity := g.randomQuantity()

	orderID := g.nextID
	g.nextID++

	var order *orderbookv1.Order
	if orderType == orderbookv1.OrderTypeMarket {
		order = orderbookv1.NewMarketOrder(orderID, side, quantity)
	} else {
		order = orderbookv1.NewOrder(orderID, orderType, side, price, quantity)
	}
	if _, err := g.book.AddOrder(order); err != nil {
		return "", err
	}
	return replay.EncodeAdd(side, orderType, price, quantity, orderID), nil
}

func (g *Generator) emitModify() (string, error) {
	orderID, err := g.book.SampleLiveOrderID(g.rng)
	if err != nil {
		return "", err
	}

	side := g.randomSide()
	price := g.restingPrice(side)
	quantity := g.randomQuantity()

	if _, err := g.book.ModifyOrder(orderbookv1.NewOrderModify(orderID, side, price, quantity)); err != nil {
		return "", err
	}
	return replay.EncodeModify(orderID, side, price, quantity), nil
}

func (g *Generator) emitCancel() (string, error) {
	orderID, err := g.book.SampleLiveOrderID(g.rng)
	if err != nil {
		return "", err
	}

	g.book.CancelOrder(orderID)
	return replay.EncodeCancel(orderID), nil
}

func (g *Generator) randomSide() orderbookv1.Side {
	if g.rng.Intn(2) == 0 {
		return orderbookv1.SideBuy
	}
	return orderbookv1.SideSell
}

func (g *Generator) randomOrderType() orderbookv1.OrderType {
	switch g.rng.Intn(3) {
	case 0:
		return orderbookv1.OrderTypeGoodTillCancel
	case 1:
		return orderbookv1.OrderTypeFillAndKill
	default:
		return orderbookv1.OrderTypeMarket
	}
}

func (g *Generator) randomQuantity() orderbookv1.Quantity {
	return orderbookv1.Quantity(g.rng.Intn(maxQuantity) + 1)
}

// restingPrice draws a normally distributed price and re-draws while it
// strictly crosses the visible contra best. A price tying the contra
// best is kept and matches.
func (g *Generator) restingPrice(side orderbookv1.Side) orderbookv1.Price {
	for {
		price := g.drawPrice()
		if !g.wouldCross(side, price) {
			return price
		}
	}
}

func (g *Generator) drawPrice() orderbookv1.Price {
	price := int32(g.rng.NormFloat64()*priceStddev + priceMean)
	if price < 1 {
		price = 1
	}
	return orderbookv1.Price(price)
}

func (g *Generator) wouldCross(side orderbookv1.Side, price orderbookv1.Price) bool {
	infos := g.book.GetOrderInfos()
	if side == orderbookv1.SideBuy {
		return len(infos.Asks) > 0 && price > infos.Asks[0].Price
	}
	return len(infos.Bids) > 0 && price < infos.Bids[0].Price
}
