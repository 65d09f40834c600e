package market

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/telemetry"
)

var (
	// ErrMarketNotFound means the exchange does not recognize the symbol.
	ErrMarketNotFound = errors.New("market not found")
	// ErrInvalidCurrency means the amount currency is neither the base nor
	// the quote currency of the market.
	ErrInvalidCurrency = errors.New("amount currency not in market")
)

// Side is a normalized order side.
type Side string

const (
	Buy  Side = "buy"
	Sell Side = "sell"
)

// ParseSide accepts BUY/SELL in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(s) {
	case "buy":
		return Buy, nil
	case "sell":
		return Sell, nil
	}
	return "", fmt.Errorf("order side must be BUY or SELL, got %q", s)
}

// Rules is the trading-rule metadata for one market, immutable once fetched.
// MinOrderSize and SizeIncrement are in base units; PriceIncrement is the
// tick size of the quote price.
type Rules struct {
	Symbol         string
	Base           string
	Quote          string
	MinOrderSize   decimal.Decimal
	PriceIncrement decimal.Decimal
	SizeIncrement  decimal.Decimal
}

// SymbolSource is the slice of the exchange client the resolver needs.
// Satisfied by *gemini_http.Client.
type SymbolSource interface {
	SymbolDetails(ctx context.Context, symbol string) (*gemini_http.SymbolDetails, error)
}

// Resolve looks up the market's trading rules and validates that
// amountCurrency names either side of the pair. The returned bool is true
// when the amount is denominated in the quote currency.
func Resolve(ctx context.Context, src SymbolSource, symbol, amountCurrency string) (Rules, bool, error) {
	details, err := src.SymbolDetails(ctx, symbol)
	if err != nil {
		var reqErr *gemini_http.RequestError
		if errors.As(err, &reqErr) && reqErr.StatusCode == 404 {
			return Rules{}, false, fmt.Errorf("%w: %s", ErrMarketNotFound, symbol)
		}
		return Rules{}, false, err
	}

	rules := Rules{
		Symbol: symbol,
		Base:   details.BaseCurrency,
		Quote:  details.QuoteCurrency,
	}
	if rules.MinOrderSize, err = parseRule("min_order_size", details.MinOrderSize.String()); err != nil {
		return Rules{}, false, err
	}
	if rules.PriceIncrement, err = parseRule("quote_increment", details.QuoteIncrement.String()); err != nil {
		return Rules{}, false, err
	}
	if rules.SizeIncrement, err = parseRule("tick_size", details.TickSize.String()); err != nil {
		return Rules{}, false, err
	}

	telemetry.Infof("market %s: min_order_size=%s size_increment=%s price_increment=%s",
		symbol, rules.MinOrderSize, rules.SizeIncrement, rules.PriceIncrement)

	var amountInQuote bool
	switch {
	case strings.EqualFold(amountCurrency, details.QuoteCurrency):
		amountInQuote = true
	case strings.EqualFold(amountCurrency, details.BaseCurrency):
		amountInQuote = false
	default:
		return Rules{}, false, fmt.Errorf("%w: %s is neither %s nor %s",
			ErrInvalidCurrency, amountCurrency, details.BaseCurrency, details.QuoteCurrency)
	}

	return rules, amountInQuote, nil
}

func parseRule(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("parse %s %q: %w", name, value, err)
	}
	return d, nil
}
