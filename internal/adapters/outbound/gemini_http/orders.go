package gemini_http

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/telemetry"
)

// Order is one order as reported by Gemini. Raw keeps the exchange's full
// response for verbatim JSON dumps; the typed fields are the subset the bot
// acts on.
type Order struct {
	OrderID         string          `json:"order_id"`
	ClientOrderID   string          `json:"client_order_id"`
	Symbol          string          `json:"symbol"`
	Side            string          `json:"side"`
	Type            string          `json:"type"`
	Price           decimal.Decimal `json:"price"`
	OriginalAmount  decimal.Decimal `json:"original_amount"`
	ExecutedAmount  decimal.Decimal `json:"executed_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	AvgExecutionPx  decimal.Decimal `json:"avg_execution_price"`
	IsLive          bool            `json:"is_live"`
	IsCancelled     bool            `json:"is_cancelled"`

	Raw json.RawMessage `json:"-"`
}

// IsOpen reports whether the order can still fill.
func (o *Order) IsOpen() bool {
	return o.RemainingAmount.IsPositive() && !o.IsCancelled
}

// RawJSON returns the exchange response pretty-printed.
func (o *Order) RawJSON() string {
	var buf json.RawMessage = o.Raw
	out, err := json.MarshalIndent(buf, "", "  ")
	if err != nil {
		return string(o.Raw)
	}
	return string(out)
}

// NewOrderRequest describes one limit order. Amount is always in the base
// currency. An empty ClientOrderID gets a generated UUID.
type NewOrderRequest struct {
	Symbol        string
	Side          string // "buy" or "sell"
	Amount        decimal.Decimal
	Price         decimal.Decimal
	ClientOrderID string
}

// NewOrder submits a limit order. A rejection comes back as *RequestError
// with the exchange's structured reason payload.
func (c *Client) NewOrder(ctx context.Context, req NewOrderRequest) (*Order, error) {
	clientOrderID := req.ClientOrderID
	if clientOrderID == "" {
		clientOrderID = uuid.NewString()
	}

	params := map[string]any{
		"symbol":          req.Symbol,
		"amount":          req.Amount.String(),
		"price":           req.Price.String(),
		"side":            req.Side,
		"type":            "exchange limit",
		"client_order_id": clientOrderID,
	}

	body, status, err := c.post(ctx, "/v1/order/new", params)
	if err != nil {
		telemetry.Metrics.OrderErrors.Inc()
		return nil, err
	}
	if status < 200 || status >= 300 {
		telemetry.Metrics.OrderErrors.Inc()
		return nil, apiError(status, body)
	}

	order, err := parseOrder(body)
	if err != nil {
		return nil, err
	}

	telemetry.Metrics.OrdersSent.Inc()
	telemetry.Infof("gemini: order placed symbol=%s side=%s amount=%s price=%s -> %s",
		req.Symbol, req.Side, req.Amount, req.Price, order.OrderID)

	return order, nil
}

// OrderStatus fetches the current snapshot of an order.
func (c *Client) OrderStatus(ctx context.Context, orderID string) (*Order, error) {
	body, status, err := c.post(ctx, "/v1/order/status", map[string]any{
		"order_id": orderID,
	})
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}
	return parseOrder(body)
}

// ActiveOrders lists all live orders on the account.
func (c *Client) ActiveOrders(ctx context.Context) ([]Order, error) {
	body, status, err := c.post(ctx, "/v1/orders", nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status >= 300 {
		return nil, apiError(status, body)
	}

	var orders []Order
	if err := json.Unmarshal(body, &orders); err != nil {
		return nil, fmt.Errorf("unmarshal active orders: %w", err)
	}
	return orders, nil
}

func parseOrder(body []byte) (*Order, error) {
	var order Order
	if err := json.Unmarshal(body, &order); err != nil {
		return nil, fmt.Errorf("unmarshal order: %w", err)
	}
	order.Raw = append(json.RawMessage(nil), body...)
	return &order, nil
}
