package gemini_http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/telemetry"
)

type BookEntry struct {
	Price  decimal.Decimal `json:"price"`
	Amount decimal.Decimal `json:"amount"`
}

// OrderBook holds one snapshot of the current book, best price first.
type OrderBook struct {
	Bids []BookEntry `json:"bids"`
	Asks []BookEntry `json:"asks"`
}

func (c *Client) CurrentOrderBook(ctx context.Context, symbol string) (*OrderBook, error) {
	body, status, err := c.get(ctx, "/v1/book/"+symbol)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var book OrderBook
	if err := json.Unmarshal(body, &book); err != nil {
		return nil, fmt.Errorf("unmarshal order book: %w", err)
	}

	telemetry.Metrics.BookFetches.Inc()
	return &book, nil
}
