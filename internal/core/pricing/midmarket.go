package pricing

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/core/market"
)

// ErrEmptyBook means the snapshot had no bids or no asks to average.
var ErrEmptyBook = errors.New("order book has no bids or asks")

var two = decimal.NewFromInt(2)

// Quote is the priced result of one book snapshot. Bid and Ask are the best
// book levels quantized to the price increment; Price is the limit price to
// submit.
type Quote struct {
	Bid   decimal.Decimal
	Ask   decimal.Decimal
	Price decimal.Decimal
}

// Midmarket derives the limit price from a book snapshot: the bid/ask
// average snapped to the price increment, biased in the trader's favor.
// A buy floors the midpoint to the increment (pay a touch less); a sell
// ceils it (receive a touch more). The result is always an exact multiple
// of rules.PriceIncrement.
func Midmarket(book *gemini_http.OrderBook, rules market.Rules, side market.Side) (Quote, error) {
	if len(book.Bids) == 0 || len(book.Asks) == 0 {
		return Quote{}, ErrEmptyBook
	}

	inc := rules.PriceIncrement
	places := -inc.Exponent()

	bid := book.Bids[0].Price.RoundBank(places)
	ask := book.Asks[0].Price.RoundBank(places)
	rawMid := bid.Add(ask).Div(two)

	var price decimal.Decimal
	if side == market.Sell {
		price = CeilToIncrement(rawMid, inc)
	} else {
		price = FloorToIncrement(rawMid, inc)
	}

	return Quote{Bid: bid, Ask: ask, Price: price}, nil
}

// FloorToIncrement returns the largest multiple of inc that is <= v.
// Exact: uses remainder arithmetic, no division precision involved.
func FloorToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	return v.Sub(v.Mod(inc))
}

// CeilToIncrement returns the smallest multiple of inc that is >= v.
func CeilToIncrement(v, inc decimal.Decimal) decimal.Decimal {
	rem := v.Mod(inc)
	if rem.IsZero() {
		return v
	}
	return v.Sub(rem).Add(inc)
}
