package execution

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/config"
	"github.com/charleschow/gemini-dca/internal/core/market"
)

// ErrLimitExceeded means the order would breach the configured trade limits.
var ErrLimitExceeded = errors.New("trade limit exceeded")

// OrderSize converts the requested amount into a base-currency quantity
// quantized to the market's size increment. A quote-denominated amount is
// divided by the limit price first; a base-denominated amount only gets
// quantized.
func OrderSize(amount decimal.Decimal, amountInQuote bool, price decimal.Decimal, rules market.Rules) decimal.Decimal {
	places := -rules.SizeIncrement.Exponent()
	if amountInQuote {
		return amount.Div(price).RoundBank(places)
	}
	return amount.RoundBank(places)
}

// Submitter places one limit order, guarded by optional per-market limits.
type Submitter struct {
	ex     Exchange
	limits config.TradeLimits
}

func NewSubmitter(ex Exchange, limits config.TradeLimits) *Submitter {
	return &Submitter{ex: ex, limits: limits}
}

// Submit sizes and places the order. Exchange rejections surface as
// *gemini_http.RequestError; no retry is attempted, order placement is not
// safe to repeat blindly.
func (s *Submitter) Submit(ctx context.Context, rules market.Rules, side market.Side,
	amount decimal.Decimal, amountInQuote bool, price decimal.Decimal) (*gemini_http.Order, error) {

	size := OrderSize(amount, amountInQuote, price, rules)

	if err := s.checkLimit(rules, size, price); err != nil {
		return nil, err
	}

	return s.ex.NewOrder(ctx, gemini_http.NewOrderRequest{
		Symbol: rules.Symbol,
		Side:   string(side),
		Amount: size,
		Price:  price,
	})
}

func (s *Submitter) checkLimit(rules market.Rules, size, price decimal.Decimal) error {
	lim, ok := s.limits.MarketLimit(rules.Symbol)
	if !ok {
		return nil
	}

	if lim.MaxBaseQty.IsPositive() && size.GreaterThan(lim.MaxBaseQty) {
		return fmt.Errorf("%w: size %s %s > max %s", ErrLimitExceeded, size, rules.Base, lim.MaxBaseQty)
	}
	if lim.MaxQuoteAmount.IsPositive() {
		notional := size.Mul(price)
		if notional.GreaterThan(lim.MaxQuoteAmount) {
			return fmt.Errorf("%w: notional %s %s > max %s", ErrLimitExceeded, notional, rules.Quote, lim.MaxQuoteAmount)
		}
	}
	return nil
}
