package replay

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	replayv1 "github.com/DesmondYau/Orderbook/internal/domain/replay/v1"
	"github.com/DesmondYau/Orderbook/internal/usecase/orderbook"
)

// Runner applies a decoded order log to a book.
type Runner struct {
	book *orderbook.Orderbook
}

// NewRunner creates a runner around an existing book.
func NewRunner(book *orderbook.Orderbook) *Runner {
	return &Runner{book: book}
}

// Apply replays every instruction in order. A returned error is a
// matching invariant breach; replayed no-ops are not errors.
func (r *Runner) Apply(instructions []replayv1.Instruction) error {
	for _, instruction := range instructions {
		if _, err := r.applyOne(instruction); err != nil {
			return err
		}
	}
	return nil
}

// ApplyTimed replays the instructions while writing one CSV row per
// operation: the action name and its wall-clock duration in
// nanoseconds.
func (r *Runner) ApplyTimed(instructions []replayv1.Instruction, w io.Writer) error {
	csvWriter := csv.NewWriter(w)
	defer csvWriter.Flush()

	for _, instruction := range instructions {
		elapsed, err := r.applyOne(instruction)
		if err != nil {
			return err
		}
		record := []string{string(instruction.Action), strconv.FormatInt(elapsed.Nanoseconds(), 10)}
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	return nil
}

func (r *Runner) applyOne(instruction replayv1.Instruction) (time.Duration, error) {
	switch instruction.Action {
	case replayv1.ActionAdd:
		var order *orderbookv1.Order
		if instruction.OrderType == orderbookv1.OrderTypeMarket {
			order = orderbookv1.NewMarketOrder(instruction.OrderID, instruction.Side, instruction.Quantity)
		} else {
			order = orderbookv1.NewOrder(instruction.OrderID, instruction.OrderType, instruction.Side, instruction.Price, instruction.Quantity)
		}
		start := time.Now()
		_, err := r.book.AddOrder(order)
		return time.Since(start), err

	case replayv1.ActionModify:
		modify := orderbookv1.NewOrderModify(instruction.OrderID, instruction.Side, instruction.Price, instruction.Quantity)
		start := time.Now()
		_, err := r.book.ModifyOrder(modify)
		return time.Since(start), err

	case replayv1.ActionCancel:
		start := time.Now()
		r.book.CancelOrder(instruction.OrderID)
		return time.Since(start), nil

	default:
		return 0, fmt.Errorf("unsupported action %q", instruction.Action)
	}
}

// Verify compares the book's final state against the expected trailing
// record of a replayed log.
func (r *Runner) Verify(expected replayv1.ExpectedResult) error {
	infos := r.book.GetOrderInfos()

	if size := r.book.Size(); size != expected.AllCount {
		return fmt.Errorf("order count mismatch: got %d, want %d", size, expected.AllCount)
	}
	if got := len(infos.Bids); got != expected.BidCount {
		return fmt.Errorf("bid level count mismatch: got %d, want %d", got, expected.BidCount)
	}
	if got := len(infos.Asks); got != expected.AskCount {
		return fmt.Errorf("ask level count mismatch: got %d, want %d", got, expected.AskCount)
	}
	return nil
}
