package execution

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/config"
	"github.com/charleschow/gemini-dca/internal/core/market"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	v, err := decimal.NewFromString(s)
	if err != nil {
		t.Fatalf("parse decimal %q: %v", s, err)
	}
	return v
}

func btcusdRules(t *testing.T) market.Rules {
	t.Helper()
	return market.Rules{
		Symbol:         "btcusd",
		Base:           "BTC",
		Quote:          "USD",
		MinOrderSize:   dec(t, "0.00001"),
		PriceIncrement: dec(t, "0.01"),
		SizeIncrement:  dec(t, "0.00001"),
	}
}

func TestOrderSize(t *testing.T) {
	tests := []struct {
		name          string
		amount        string
		amountInQuote bool
		price         string
		want          string
	}{
		{name: "quote amount divides by price", amount: "14", amountInQuote: true, price: "20000", want: "0.0007"},
		{name: "quote amount rounds to increment", amount: "14", amountInQuote: true, price: "20000.01", want: "0.0007"},
		{name: "base amount passes through", amount: "0.00125", amountInQuote: false, price: "20000", want: "0.00125"},
		{name: "base amount quantized", amount: "0.001251234", amountInQuote: false, price: "20000", want: "0.00125"},
	}

	rules := btcusdRules(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := OrderSize(dec(t, tt.amount), tt.amountInQuote, dec(t, tt.price), rules)
			if !got.Equal(dec(t, tt.want)) {
				t.Errorf("OrderSize = %s, want %s", got, tt.want)
			}
		})
	}
}

// Quote-denominated sizing keeps size*price within one increment's worth of
// the requested spend, and the size on the increment grid.
func TestOrderSizeQuoteRoundTrip(t *testing.T) {
	rules := btcusdRules(t)
	amounts := []string{"10", "14", "25.50", "100", "0.07"}
	prices := []string{"19999.51", "20000.01", "43210.99", "101.25"}

	for _, a := range amounts {
		for _, p := range prices {
			amount, price := dec(t, a), dec(t, p)
			size := OrderSize(amount, true, price, rules)

			if !size.Mod(rules.SizeIncrement).IsZero() {
				t.Fatalf("amount=%s price=%s: size %s not on increment", a, p, size)
			}

			tolerance := rules.SizeIncrement.Mul(price)
			diff := size.Mul(price).Sub(amount).Abs()
			if diff.GreaterThan(tolerance) {
				t.Fatalf("amount=%s price=%s: size*price off by %s (> %s)", a, p, diff, tolerance)
			}
		}
	}
}

func TestSubmitPlacesLimitOrder(t *testing.T) {
	ex := &fakeExchange{placeResp: pendingOrder("0.0007")}
	sub := NewSubmitter(ex, config.TradeLimits{})
	rules := btcusdRules(t)

	order, err := sub.Submit(context.Background(), rules, market.Buy, dec(t, "14"), true, dec(t, "20000"))
	if err != nil {
		t.Fatal(err)
	}
	if order.OrderID != "106817811" {
		t.Errorf("order id = %s", order.OrderID)
	}

	if len(ex.placed) != 1 {
		t.Fatalf("placed %d orders, want 1", len(ex.placed))
	}
	req := ex.placed[0]
	if req.Symbol != "btcusd" || req.Side != "buy" {
		t.Errorf("request = %+v", req)
	}
	if !req.Amount.Equal(dec(t, "0.0007")) {
		t.Errorf("amount = %s, want 0.0007", req.Amount)
	}
	if !req.Price.Equal(dec(t, "20000")) {
		t.Errorf("price = %s, want 20000", req.Price)
	}
}

func TestSubmitRejectionPropagates(t *testing.T) {
	wantErr := &gemini_http.RequestError{StatusCode: 400, Reason: "InsufficientFunds"}
	ex := &fakeExchange{placeErr: wantErr}
	sub := NewSubmitter(ex, config.TradeLimits{})

	_, err := sub.Submit(context.Background(), btcusdRules(t), market.Buy, dec(t, "14"), true, dec(t, "20000"))
	var reqErr *gemini_http.RequestError
	if !errors.As(err, &reqErr) || reqErr.Reason != "InsufficientFunds" {
		t.Fatalf("err = %v, want InsufficientFunds rejection", err)
	}
}

func TestSubmitTradeLimits(t *testing.T) {
	limits := config.TradeLimits{Markets: map[string]config.MarketLimit{
		"btcusd": {
			MaxQuoteAmount: decimal.RequireFromString("10"),
			MaxBaseQty:     decimal.RequireFromString("0.001"),
		},
	}}

	tests := []struct {
		name          string
		amount        string
		amountInQuote bool
		wantBlocked   bool
	}{
		{name: "notional over quote cap", amount: "14", amountInQuote: true, wantBlocked: true},
		{name: "notional under quote cap", amount: "9", amountInQuote: true, wantBlocked: false},
		{name: "size over base cap", amount: "0.002", amountInQuote: false, wantBlocked: true},
		{name: "unlimited market", amount: "14", amountInQuote: true, wantBlocked: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := btcusdRules(t)
			if tt.name == "unlimited market" {
				rules.Symbol = "ethusd"
			}

			ex := &fakeExchange{placeResp: pendingOrder("1")}
			sub := NewSubmitter(ex, limits)

			_, err := sub.Submit(context.Background(), rules, market.Buy, dec(t, tt.amount), tt.amountInQuote, dec(t, "20000"))
			if tt.wantBlocked {
				if !errors.Is(err, ErrLimitExceeded) {
					t.Fatalf("err = %v, want ErrLimitExceeded", err)
				}
				if len(ex.placed) != 0 {
					t.Error("blocked order must not reach the exchange")
				}
			} else if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
		})
	}
}
