package gemini_auth

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"
)

// Signer implements Gemini private-API request signing: the JSON payload is
// base64 encoded and authenticated with HMAC-SHA384 over the encoded form.
type Signer struct {
	apiKey string
	secret []byte

	mu        sync.Mutex
	lastNonce int64
}

// New returns a Signer for the given credentials. Returns nil when apiKey or
// secret is empty, allowing callers to hit public endpoints without credentials.
func New(apiKey, secret string) *Signer {
	if apiKey == "" || secret == "" {
		return nil
	}
	return &Signer{apiKey: apiKey, secret: []byte(secret)}
}

// Enabled reports whether this signer has credentials loaded.
func (s *Signer) Enabled() bool {
	return s != nil && s.apiKey != ""
}

// SignRequest adds a nonce to params, signs them, and sets the
// X-GEMINI-APIKEY, X-GEMINI-PAYLOAD, and X-GEMINI-SIGNATURE headers on req.
// params must include the "request" path. Fails when s is nil: every private
// endpoint requires credentials.
func (s *Signer) SignRequest(req *http.Request, params map[string]any) error {
	if s == nil {
		return fmt.Errorf("no credentials loaded")
	}

	params["nonce"] = s.nextNonce()

	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(data)

	mac := hmac.New(sha512.New384, s.secret)
	mac.Write([]byte(encoded))
	sig := hex.EncodeToString(mac.Sum(nil))

	req.Header.Set("X-GEMINI-APIKEY", s.apiKey)
	req.Header.Set("X-GEMINI-PAYLOAD", encoded)
	req.Header.Set("X-GEMINI-SIGNATURE", sig)
	req.Header.Set("Cache-Control", "no-cache")
	return nil
}

// nextNonce returns the current time in milliseconds, bumped past the
// previous nonce so rapid successive requests stay strictly increasing.
func (s *Signer) nextNonce() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	nonce := time.Now().UnixMilli()
	if nonce <= s.lastNonce {
		nonce = s.lastNonce + 1
	}
	s.lastNonce = nonce
	return nonce
}
