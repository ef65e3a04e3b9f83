package main

import (
	"flag"
	"io"
	"log"
	"os"
	"time"

	"github.com/DesmondYau/Orderbook/internal/usecase/loadgen"
)

func main() {
	var (
		count = flag.Int("count", 1_000_000, "Number of order records to generate")
		seed  = flag.Int64("seed", time.Now().UnixNano(), "Seed for the random generator")
		out   = flag.String("out", "", "Output file (defaults to stdout)")
	)
	flag.Parse()

	var w io.Writer = os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			log.Fatalf("create %s: %v", *out, err)
		}
		defer f.Close()
		w = f
	}

	g := loadgen.NewGenerator(*seed)
	if err := g.Generate(*count, w); err != nil {
		log.Fatalf("generate: %v", err)
	}

	if *out != "" {
		log.Printf("Wrote %d order records to %s (seed %d)", *count, *out, *seed)
	}
}
