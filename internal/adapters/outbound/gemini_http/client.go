package gemini_http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/charleschow/gemini-dca/internal/adapters/gemini_auth"
	"github.com/charleschow/gemini-dca/internal/telemetry"
)

type Client struct {
	baseURL        string
	httpClient     *http.Client
	signer         *gemini_auth.Signer
	publicLimiter  *rate.Limiter
	privateLimiter *rate.Limiter
}

func NewClient(baseURL string, signer *gemini_auth.Signer) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		signer: signer,
		// Gemini allows 120 public and 600 private requests per minute.
		publicLimiter:  rate.NewLimiter(rate.Limit(2), 5),
		privateLimiter: rate.NewLimiter(rate.Limit(10), 10),
	}
}

// get performs an unauthenticated GET against a public endpoint.
func (c *Client) get(ctx context.Context, path string) ([]byte, int, error) {
	if err := c.publicLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	return c.send(req, path)
}

// post performs a signed POST against a private endpoint. Gemini private
// requests carry the payload in signed headers, not the body; params must
// not include "request" or "nonce" (both are set here).
func (c *Client) post(ctx context.Context, path string, params map[string]any) ([]byte, int, error) {
	if err := c.privateLimiter.Wait(ctx); err != nil {
		return nil, 0, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "application/json")

	if params == nil {
		params = map[string]any{}
	}
	params["request"] = path
	if err := c.signer.SignRequest(req, params); err != nil {
		return nil, 0, fmt.Errorf("sign: %w", err)
	}

	return c.send(req, path)
}

func (c *Client) send(req *http.Request, path string) ([]byte, int, error) {
	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}

	telemetry.Debugf("gemini_http: %s %s -> %d (%s)", req.Method, path, resp.StatusCode, time.Since(start))

	return body, resp.StatusCode, nil
}

// RequestError is a non-2xx response from Gemini. Reason is the
// machine-readable rejection code (e.g. "InvalidQuantity"); Body keeps the
// raw payload for verbatim reporting.
type RequestError struct {
	StatusCode int
	Result     string `json:"result"`
	Reason     string `json:"reason"`
	Message    string `json:"message"`
	Body       []byte `json:"-"`
}

func (e *RequestError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("gemini: %s (status=%d): %s", e.Reason, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("gemini: status=%d body=%s", e.StatusCode, e.Body)
}

// apiError builds a RequestError from a non-2xx response body. The body is
// kept verbatim even when it is not the documented JSON shape.
func apiError(status int, body []byte) *RequestError {
	reqErr := &RequestError{StatusCode: status, Body: body}
	_ = json.Unmarshal(body, reqErr)
	return reqErr
}
