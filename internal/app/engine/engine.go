// Package engine wires the order stream to the matching core: it reads
// order requests, drives the book, and publishes the resulting trades.
package engine

import (
	"context"
	"errors"
	"io"
	"time"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	orderreaderv1 "github.com/DesmondYau/Orderbook/internal/domain/order-reader/v1"
	streamv1 "github.com/DesmondYau/Orderbook/internal/domain/stream/v1"
	tradepublisherv1 "github.com/DesmondYau/Orderbook/internal/domain/trade-publisher/v1"
	"github.com/DesmondYau/Orderbook/internal/usecase/orderbook"
	"github.com/DesmondYau/Orderbook/pkg/config"
	pkgerrors "github.com/DesmondYau/Orderbook/pkg/errors"
	"github.com/DesmondYau/Orderbook/pkg/logger"
)

// Engine consumes order requests and feeds the matching core. It is the
// single writer of the book; everything in the loop is sequential.
type Engine struct {
	orderbook *orderbook.Orderbook
	reader    orderreaderv1.OrderReader
	publisher tradepublisherv1.TradePublisher
	logger    *logger.Logger
	cfg       *config.Config
	opts      *Options
}

// NewEngine creates an engine around an existing book.
func NewEngine(
	ob *orderbook.Orderbook,
	reader orderreaderv1.OrderReader,
	publisher tradepublisherv1.TradePublisher,
	log *logger.Logger,
	cfg *config.Config,
	opts *Options,
) *Engine {
	if opts == nil {
		opts = DefaultEngineOptions()
	}
	return &Engine{
		orderbook: ob,
		reader:    reader,
		publisher: publisher,
		logger:    log,
		cfg:       cfg,
		opts:      opts,
	}
}

// Orderbook exposes the underlying book for read-side queries.
func (e *Engine) Orderbook() *orderbook.Orderbook {
	return e.orderbook
}

// Run consumes order requests until the context is canceled or the
// reader is exhausted. A matching invariant breach stops the engine;
// the book is not safe to keep mutating after one.
func (e *Engine) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		msg, request, err := e.reader.ReadMessage(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return err
			}
			// Malformed or transient message failures skip the message.
			continue
		}

		trades, err := e.processOrder(request)
		if err != nil {
			e.logger.Error(pkgerrors.NewTracer(string(pkgerrors.OrderInvariantError)).Wrap(err),
				logger.Field{Key: "orderID", Value: request.OrderID},
				logger.Field{Key: "offset", Value: request.Offset},
			)
			return err
		}

		e.publishTrades(ctx, trades)

		if err := e.reader.CommitMessages(ctx, msg); err != nil {
			e.logger.Error(err, logger.Field{Key: "offset", Value: msg.Offset})
		}
	}
}

// processOrder applies one decoded request to the book. No-op outcomes
// (duplicate ids, unmatchable market or FillAndKill orders, unknown
// cancel/modify targets) return no trades and no error.
func (e *Engine) processOrder(request *streamv1.OrderRequestPayload) (orderbookv1.Trades, error) {
	switch request.Action {
	case streamv1.ActionAdd:
		var order *orderbookv1.Order
		if request.Type == orderbookv1.OrderTypeMarket {
			order = orderbookv1.NewMarketOrder(request.OrderID, request.Side, request.Quantity)
		} else {
			order = orderbookv1.NewOrder(request.OrderID, request.Type, request.Side, request.Price, request.Quantity)
		}
		return e.orderbook.AddOrder(order)

	case streamv1.ActionModify:
		return e.orderbook.ModifyOrder(orderbookv1.NewOrderModify(
			request.OrderID, request.Side, request.Price, request.Quantity,
		))

	case streamv1.ActionCancel:
		e.orderbook.CancelOrder(request.OrderID)
		return nil, nil

	default:
		e.logger.Warn("unknown order action",
			logger.Field{Key: "action", Value: request.Action},
			logger.Field{Key: "orderID", Value: request.OrderID},
		)
		return nil, nil
	}
}

// publishTrades sends each trade to the trade topic. Publish failures
// are logged and do not stop the engine; the book already moved on.
func (e *Engine) publishTrades(ctx context.Context, trades orderbookv1.Trades) {
	for _, trade := range trades {
		publishCtx, cancel := context.WithTimeout(ctx, e.opts.PublishTimeout)
		event := streamv1.NewTradeEvent(e.cfg.Pair, trade, time.Now().UnixNano())
		if err := e.publisher.PublishTradeEvent(publishCtx, event); err != nil {
			e.logger.Error(err,
				logger.Field{Key: "bidOrderID", Value: trade.Bid.OrderID},
				logger.Field{Key: "askOrderID", Value: trade.Ask.OrderID},
			)
		}
		cancel()
	}
}
