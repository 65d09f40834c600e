package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/gemini_auth"
	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/config"
	"github.com/charleschow/gemini-dca/internal/core/execution"
	"github.com/charleschow/gemini-dca/internal/core/market"
	"github.com/charleschow/gemini-dca/internal/core/pricing"
	"github.com/charleschow/gemini-dca/internal/telemetry"
)

const pollInterval = 60 * time.Second

func usage() {
	fmt.Fprintf(os.Stderr, `usage: dca [flags] <market> <BUY|SELL> <amount> <amount_currency>

Basic Gemini DCA buying/selling bot. One limit order per run, priced at the
book midpoint and monitored until it fills.

ex:
    dca BTCUSD BUY 14 USD          (buy $14 worth of BTC)
    dca BTCUSD BUY 0.00125 BTC     (buy 0.00125 BTC)
    dca ETHBTC SELL 0.00125 BTC    (sell 0.00125 BTC worth of ETH)
    dca ETHBTC SELL 0.1 ETH        (sell 0.1 ETH)

flags:
`)
	flag.PrintDefaults()
}

func main() {
	var (
		sandbox    bool
		jobMode    bool
		warnAfter  int
		configPath string
		limitsPath string
		logLevel   string
	)
	flag.BoolVar(&sandbox, "sandbox", false, "run against sandbox, skips user confirmation prompt")
	flag.IntVar(&warnAfter, "warn_after", 300, "secs to wait before alerting that an order isn't done")
	flag.BoolVar(&jobMode, "j", false, "suppress user confirmation prompt")
	flag.BoolVar(&jobMode, "job", false, "suppress user confirmation prompt")
	flag.StringVar(&configPath, "c", "settings.conf", "config file location")
	flag.StringVar(&configPath, "config", "settings.conf", "config file location")
	flag.StringVar(&limitsPath, "limits", "", "optional yaml trade limits file")
	flag.StringVar(&logLevel, "log_level", "info", "log level (debug, info, warn, error)")
	flag.Usage = usage
	flag.Parse()

	telemetry.Init(telemetry.ParseLogLevel(logLevel))

	if flag.NArg() != 4 {
		usage()
		os.Exit(2)
	}

	marketName := flag.Arg(0)
	side, err := market.ParseSide(flag.Arg(1))
	if err != nil {
		fatalf("%v", err)
	}
	amount, err := decimal.NewFromString(flag.Arg(2))
	if err != nil {
		fatalf("amount %q is not a number: %v", flag.Arg(2), err)
	}
	amountCurrency := flag.Arg(3)

	var confirmer execution.Confirmer = execution.AutoConfirm{}
	if !sandbox && !jobMode {
		confirmer = execution.PromptConfirmer{
			In:     os.Stdin,
			Out:    os.Stdout,
			Prompt: "Production purchase! Confirm [Y]: ",
		}
	}
	if !confirmer.Confirm() {
		fmt.Println("Exiting without submitting purchase.")
		return
	}

	settings, err := config.Load(configPath, sandbox)
	if err != nil {
		fatalf("%v", err)
	}

	var limits config.TradeLimits
	if limitsPath != "" {
		if limits, err = config.LoadTradeLimits(limitsPath); err != nil {
			fatalf("%v", err)
		}
	}

	signer := gemini_auth.New(settings.ClientKey, settings.ClientSecret)
	client := gemini_http.NewClient(settings.BaseURL, signer)
	telemetry.Infof("gemini connected  mode=%s  api=%s", settings.Section, settings.BaseURL)

	ctx := context.Background()

	rules, amountInQuote, err := market.Resolve(ctx, client, marketName, amountCurrency)
	if err != nil {
		fatalf("%v", err)
	}

	book, err := client.CurrentOrderBook(ctx, marketName)
	if err != nil {
		fatalf("%v", err)
	}
	quote, err := pricing.Midmarket(book, rules, side)
	if err != nil {
		fatalf("%v", err)
	}
	fmt.Printf("ask: %s\n", quote.Ask)
	fmt.Printf("bid: %s\n", quote.Bid)
	fmt.Printf("midmarket_price: %s\n", quote.Price)

	submitter := execution.NewSubmitter(client, limits)
	order, err := submitter.Submit(ctx, rules, side, amount, amountInQuote, quote.Price)
	if err != nil {
		var reqErr *gemini_http.RequestError
		if errors.As(err, &reqErr) {
			fmt.Printf("ERROR placing %s %s order: %s\n", rules.Base, side, reqErr.Reason)
			fmt.Println(string(reqErr.Body))
		}
		fatalf("%v", err)
	}

	fmt.Println(order.RawJSON())

	monitor := execution.NewMonitor(client, pollInterval, time.Duration(warnAfter)*time.Second)
	result, err := monitor.Wait(ctx, order)
	if err != nil {
		fatalf("order %s: %v", order.OrderID, err)
	}

	switch result.State {
	case execution.Filled:
		fmt.Println(result.Order.RawJSON())
		fmt.Printf("%s %s order of %s %s complete @ %s %s\n",
			marketName, side, amount, amountCurrency, quote.Price, rules.Quote)
	default:
		// TIMED_OUT leaves the order live on the exchange; CANCELLED was
		// someone acting outside this process. Both are informational.
		fmt.Printf("%s %s order of %s %s %s\n",
			marketName, side, amount, amountCurrency, result.State)
	}
}

func fatalf(format string, args ...any) {
	telemetry.Errorf(format, args...)
	os.Exit(1)
}
