package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	app "github.com/DesmondYau/Orderbook/internal/app/engine"
	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	orderreader "github.com/DesmondYau/Orderbook/internal/usecase/order-reader"
	"github.com/DesmondYau/Orderbook/internal/usecase/orderbook"
	tradepublisher "github.com/DesmondYau/Orderbook/internal/usecase/trade-publisher"
	"github.com/DesmondYau/Orderbook/pkg/config"
	"github.com/DesmondYau/Orderbook/pkg/logger"
)

var cfg *config.Config
var log *logger.Logger

func init() {
	var err error
	cfg, err = config.Load()
	if err != nil {
		panic(err)
	}

	log, err = logger.NewLogger(logger.WithLoggingLevel(logger.Level(cfg.LogLevel)))
	if err != nil {
		panic(err)
	}
}

func main() {
	defer log.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	ob, err := orderbook.NewOrderbookWithStrategy(orderbookv1.LadderStrategy(cfg.LadderStrategy))
	if err != nil {
		log.Error(err, logger.Field{Key: "strategy", Value: cfg.LadderStrategy})
		return
	}

	reader := orderreader.NewReader(cfg.OrderReaderConfig(), log)
	defer reader.Close()

	publisher := tradepublisher.NewPublisher(cfg.TradePublisherConfig(), log)
	defer publisher.Close()

	engine := app.NewEngine(ob, reader, publisher, log, cfg, nil)

	errChan := make(chan error, 1)
	go func() {
		errChan <- engine.Run(ctx)
	}()

	log.Info("Matching engine started",
		logger.Field{Key: "pair", Value: cfg.Pair},
		logger.Field{Key: "strategy", Value: cfg.LadderStrategy},
	)

	select {
	case sig := <-sigChan:
		log.Info("Received shutdown signal", logger.Field{Key: "signal", Value: sig.String()})
		cancel()
		<-errChan
	case err := <-errChan:
		if err != nil {
			log.Error(err, logger.Field{Key: "action", Value: "run_engine"})
		}
	}

	log.Info("Matching engine shutdown complete")
}
