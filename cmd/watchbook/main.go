package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/charleschow/gemini-dca/internal/adapters/inbound/gemini_ws"
	"github.com/charleschow/gemini-dca/internal/config"
	"github.com/charleschow/gemini-dca/internal/telemetry"
)

func main() {
	symbol := flag.String("symbol", "", "market symbol (e.g. btcusd)")
	sandbox := flag.Bool("sandbox", false, "use the sandbox feed")
	trades := flag.Bool("trades", false, "print only trades, not book changes")
	flag.Parse()

	if *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: go run ./cmd/watchbook -symbol btcusd [-trades] [-sandbox]")
		os.Exit(1)
	}

	telemetry.Init(telemetry.ParseLogLevel("info"))

	wsURL := config.ProductionWSURL
	if *sandbox {
		wsURL = config.SandboxWSURL
	}

	client := gemini_ws.NewClient(wsURL, *symbol, func(u gemini_ws.Update) {
		for _, e := range u.Events {
			switch e.Type {
			case "trade":
				fmt.Printf("trade  %s x %s  maker=%s\n", e.Price, e.Amount, e.MakerSide)
			case "change":
				if *trades {
					continue
				}
				fmt.Printf("change %-3s %s -> %s (%s)\n", e.Side, e.Price, e.Remaining, e.Reason)
			}
		}
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := client.Run(ctx); err != nil && ctx.Err() == nil {
		telemetry.Errorf("watchbook: %v", err)
		os.Exit(1)
	}
}
