package gemini_http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

type Balance struct {
	Currency  string          `json:"currency"`
	Amount    decimal.Decimal `json:"amount"`
	Available decimal.Decimal `json:"available"`
}

// Balances returns the account's balances across all currencies.
func (c *Client) Balances(ctx context.Context) ([]Balance, error) {
	body, status, err := c.post(ctx, "/v1/balances", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var balances []Balance
	if err := json.Unmarshal(body, &balances); err != nil {
		return nil, fmt.Errorf("unmarshal balances: %w", err)
	}
	return balances, nil
}
