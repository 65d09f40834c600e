package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/config"
)

func main() {
	symbol := flag.String("symbol", "", "market symbol (e.g. btcusd)")
	n := flag.Int("n", 5, "levels per side to print")
	sandbox := flag.Bool("sandbox", false, "use the sandbox API")
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/inspect_book -symbol btcusd [-n 5] [-sandbox]")
		os.Exit(1)
	}

	baseURL := config.ProductionBaseURL
	if *sandbox {
		baseURL = config.SandboxBaseURL
	}

	// Public endpoint, no credentials needed.
	client := gemini_http.NewClient(baseURL, nil)

	book, err := client.CurrentOrderBook(context.Background(), *symbol)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fetch book: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("--- %s ---\n", *symbol)
	asks := *n
	if asks > len(book.Asks) {
		asks = len(book.Asks)
	}
	for i := asks - 1; i >= 0; i-- {
		fmt.Printf("  ask %s x %s\n", book.Asks[i].Price, book.Asks[i].Amount)
	}
	for i := 0; i < *n && i < len(book.Bids); i++ {
		fmt.Printf("  bid %s x %s\n", book.Bids[i].Price, book.Bids[i].Amount)
	}

	if len(book.Bids) > 0 && len(book.Asks) > 0 {
		mid := book.Bids[0].Price.Add(book.Asks[0].Price).Div(decimal.NewFromInt(2))
		spread := book.Asks[0].Price.Sub(book.Bids[0].Price)
		fmt.Printf("mid=%s spread=%s\n", mid, spread)
	}
}
