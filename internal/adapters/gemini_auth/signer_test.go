package gemini_auth

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"testing"
)

func TestNewRequiresCredentials(t *testing.T) {
	if New("", "secret") != nil {
		t.Error("empty key must yield nil signer")
	}
	if New("key", "") != nil {
		t.Error("empty secret must yield nil signer")
	}

	var s *Signer
	if s.Enabled() {
		t.Error("nil signer must not be enabled")
	}
	if New("key", "secret") == nil {
		t.Fatal("valid credentials must yield a signer")
	}
}

func TestSignRequest(t *testing.T) {
	const secret = "1234abcd"
	s := New("mykey", secret)

	req, err := http.NewRequest(http.MethodPost, "https://api.gemini.com/v1/order/status", nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.SignRequest(req, map[string]any{"request": "/v1/order/status", "order_id": "106817811"}); err != nil {
		t.Fatal(err)
	}

	if got := req.Header.Get("X-GEMINI-APIKEY"); got != "mykey" {
		t.Errorf("api key header = %q", got)
	}

	payload := req.Header.Get("X-GEMINI-PAYLOAD")
	decoded, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		t.Fatalf("payload is not base64: %v", err)
	}

	var fields map[string]any
	if err := json.Unmarshal(decoded, &fields); err != nil {
		t.Fatalf("payload is not json: %v", err)
	}
	if fields["request"] != "/v1/order/status" || fields["order_id"] != "106817811" {
		t.Errorf("payload fields = %v", fields)
	}
	if _, ok := fields["nonce"]; !ok {
		t.Error("payload missing nonce")
	}

	mac := hmac.New(sha512.New384, []byte(secret))
	mac.Write([]byte(payload))
	want := hex.EncodeToString(mac.Sum(nil))
	if got := req.Header.Get("X-GEMINI-SIGNATURE"); got != want {
		t.Errorf("signature = %q, want %q", got, want)
	}
}

func TestSignRequestNilSigner(t *testing.T) {
	var s *Signer
	req, _ := http.NewRequest(http.MethodPost, "https://api.gemini.com/v1/balances", nil)
	if err := s.SignRequest(req, map[string]any{}); err == nil {
		t.Fatal("nil signer must refuse to sign")
	}
}

func TestNoncesStrictlyIncrease(t *testing.T) {
	s := New("key", "secret")

	last := int64(0)
	for i := 0; i < 100; i++ {
		n := s.nextNonce()
		if n <= last {
			t.Fatalf("nonce %d not greater than previous %d", n, last)
		}
		last = n
	}
}
