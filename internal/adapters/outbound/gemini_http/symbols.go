package gemini_http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/charleschow/gemini-dca/internal/telemetry"
)

// SymbolDetails is the trading-rule metadata for one market.
// tick_size is the base-currency quantity increment; quote_increment is the
// price increment. Numeric fields arrive as bare JSON numbers (often in
// exponent form, e.g. 1e-05), so they are kept as json.Number.
type SymbolDetails struct {
	Symbol         string      `json:"symbol"`
	BaseCurrency   string      `json:"base_currency"`
	QuoteCurrency  string      `json:"quote_currency"`
	TickSize       json.Number `json:"tick_size"`
	QuoteIncrement json.Number `json:"quote_increment"`
	MinOrderSize   json.Number `json:"min_order_size"`
	Status         string      `json:"status"`
}

func (c *Client) SymbolDetails(ctx context.Context, symbol string) (*SymbolDetails, error) {
	body, status, err := c.get(ctx, "/v1/symbols/details/"+symbol)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var details SymbolDetails
	if err := json.Unmarshal(body, &details); err != nil {
		return nil, fmt.Errorf("unmarshal symbol details: %w", err)
	}

	telemetry.Metrics.SymbolLookups.Inc()
	return &details, nil
}
