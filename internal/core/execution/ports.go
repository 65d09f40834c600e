package execution

import (
	"context"
	"time"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
)

// Exchange abstracts the order endpoints the submitter and monitor use.
type Exchange interface {
	NewOrder(ctx context.Context, req gemini_http.NewOrderRequest) (*gemini_http.Order, error)
	OrderStatus(ctx context.Context, orderID string) (*gemini_http.Order, error)
}

var _ Exchange = (*gemini_http.Client)(nil)

// Confirmer is the go/no-go gate before a production order.
type Confirmer interface {
	Confirm() bool
}

// Clock lets tests drive the monitor without real delays.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}

type realClock struct{}

func (realClock) Now() time.Time        { return time.Now() }
func (realClock) Sleep(d time.Duration) { time.Sleep(d) }
