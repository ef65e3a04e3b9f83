package main

import (
	"flag"
	"log"
	"os"

	orderbookv1 "github.com/DesmondYau/Orderbook/internal/domain/orderbook/v1"
	"github.com/DesmondYau/Orderbook/internal/usecase/orderbook"
	"github.com/DesmondYau/Orderbook/internal/usecase/replay"
)

func main() {
	var (
		file     = flag.String("file", "", "Order log file to replay")
		strategy = flag.String("strategy", "tree", "Ladder strategy: tree or vector")
		csvPath  = flag.String("csv", "", "Optional CSV file for per-operation timings")
	)
	flag.Parse()

	if *file == "" {
		log.Fatal("missing -file")
	}

	instructions, expected, err := replay.ParseFile(*file)
	if err != nil {
		log.Fatalf("parse %s: %v", *file, err)
	}

	book, err := orderbook.NewOrderbookWithStrategy(orderbookv1.LadderStrategy(*strategy))
	if err != nil {
		log.Fatalf("strategy %s: %v", *strategy, err)
	}
	runner := replay.NewRunner(book)

	if *csvPath != "" {
		out, err := os.Create(*csvPath)
		if err != nil {
			log.Fatalf("create %s: %v", *csvPath, err)
		}
		defer out.Close()
		err = runner.ApplyTimed(instructions, out)
		if err != nil {
			log.Fatalf("replay: %v", err)
		}
	} else {
		if err := runner.Apply(instructions); err != nil {
			log.Fatalf("replay: %v", err)
		}
	}

	log.Printf("Replayed %d operations from %s", len(instructions), *file)

	if expected != nil {
		if err := runner.Verify(*expected); err != nil {
			log.Fatalf("verification failed: %v", err)
		}
		log.Printf("Verified: %d orders, %d bid levels, %d ask levels",
			expected.AllCount, expected.BidCount, expected.AskCount)
	}
}
