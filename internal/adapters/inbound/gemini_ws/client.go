package gemini_ws

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"

	"github.com/charleschow/gemini-dca/internal/telemetry"
)

// Update is one frame from the Gemini v1 market-data feed.
type Update struct {
	Type           string  `json:"type"` // "update" or "heartbeat"
	EventID        int64   `json:"eventId"`
	TimestampMS    int64   `json:"timestampms"`
	SocketSequence int64   `json:"socket_sequence"`
	Events         []Event `json:"events"`
}

// Event is a single book change or trade inside an update.
type Event struct {
	Type      string          `json:"type"` // "change" or "trade"
	Side      string          `json:"side"` // "bid" or "ask" for changes
	Price     decimal.Decimal `json:"price"`
	Remaining decimal.Decimal `json:"remaining"`
	Delta     decimal.Decimal `json:"delta"`
	Amount    decimal.Decimal `json:"amount"`
	MakerSide string          `json:"makerSide"`
	Reason    string          `json:"reason"` // "place", "trade", "cancel", "initial"
}

// Client streams the public market-data feed for one symbol. The feed is
// unauthenticated; the symbol is part of the URL, so there is no subscribe
// handshake.
type Client struct {
	url     string
	handler func(Update)
}

func NewClient(wsBaseURL, symbol string, handler func(Update)) *Client {
	return &Client{
		url:     wsBaseURL + "/v1/marketdata/" + symbol + "?heartbeat=true",
		handler: handler,
	}
}

// Run reads the feed until ctx is cancelled, reconnecting with exponential
// backoff on failure.
func (c *Client) Run(ctx context.Context) error {
	backoff := 1 * time.Second
	const maxBackoff = 30 * time.Second

	for {
		conn, _, err := websocket.DefaultDialer.DialContext(ctx, c.url, nil)
		if err == nil {
			telemetry.Infof("gemini_ws: connected to %s", c.url)
			backoff = 1 * time.Second
			c.readLoop(ctx, conn)
		} else {
			telemetry.Warnf("gemini_ws: dial failed: %v", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}

		backoff *= 2
		if backoff > maxBackoff {
			backoff = maxBackoff
		}
		telemetry.Warnf("gemini_ws: reconnecting")
	}
}

func (c *Client) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer conn.Close()

	// Heartbeats arrive every 5s; 20s allows a few misses before giving up.
	const heartbeatWait = 20 * time.Second

	conn.SetReadDeadline(time.Now().Add(heartbeatWait))
	conn.SetPingHandler(func(appData string) error {
		conn.SetReadDeadline(time.Now().Add(heartbeatWait))
		return conn.WriteControl(websocket.PongMessage, []byte(appData), time.Now().Add(5*time.Second))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		_, msg, err := conn.ReadMessage()
		if err != nil {
			telemetry.Warnf("gemini_ws: read error: %v", err)
			return
		}
		conn.SetReadDeadline(time.Now().Add(heartbeatWait))

		var update Update
		if err := json.Unmarshal(msg, &update); err != nil {
			telemetry.Warnf("gemini_ws: bad frame: %v", err)
			continue
		}
		c.handler(update)
	}
}
