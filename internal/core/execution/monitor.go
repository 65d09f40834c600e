package execution

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charleschow/gemini-dca/internal/adapters/outbound/gemini_http"
	"github.com/charleschow/gemini-dca/internal/telemetry"
)

// State is the terminal (or current) state of a monitored order.
type State int

const (
	Pending State = iota
	Filled
	Cancelled
	TimedOut
)

func (s State) String() string {
	switch s {
	case Filled:
		return "FILLED"
	case Cancelled:
		return "CANCELLED"
	case TimedOut:
		return "OPEN/UNFILLED"
	default:
		return "PENDING"
	}
}

// Result is the outcome of one monitoring run. Order is the freshest
// snapshot observed; Waited is the accumulated sleep time.
type Result struct {
	State  State
	Order  *gemini_http.Order
	Waited time.Duration
}

// Monitor polls an order on a fixed interval until it fills, is cancelled,
// or the accumulated wait exceeds warnAfter. A timeout only ends the
// monitoring: the order stays live on the exchange and is never cancelled
// from here.
type Monitor struct {
	ex        Exchange
	interval  time.Duration
	warnAfter time.Duration
	clock     Clock
	out       io.Writer
}

func NewMonitor(ex Exchange, interval, warnAfter time.Duration) *Monitor {
	return &Monitor{
		ex:        ex,
		interval:  interval,
		warnAfter: warnAfter,
		clock:     realClock{},
		out:       os.Stdout,
	}
}

// Wait runs the poll loop. The order may be cancelled out from under us by
// an external actor (e.g. manually in the UI), so is_cancelled is observed
// on every fresh snapshot rather than assumed. Errors from the status fetch
// propagate immediately with the last good snapshot.
func (m *Monitor) Wait(ctx context.Context, order *gemini_http.Order) (Result, error) {
	var waited time.Duration

	for order.RemainingAmount.IsPositive() {
		if waited > m.warnAfter {
			return Result{State: TimedOut, Order: order, Waited: waited}, nil
		}
		if order.IsCancelled {
			return Result{State: Cancelled, Order: order, Waited: waited}, nil
		}

		fmt.Fprintf(m.out, "%s: Order %s still pending. Sleeping for %.0f (total %.0f)\n",
			m.clock.Now().Format("2006-01-02 15:04:05"),
			order.OrderID, m.interval.Seconds(), waited.Seconds())

		m.clock.Sleep(m.interval)
		waited += m.interval

		next, err := m.ex.OrderStatus(ctx, order.OrderID)
		if err != nil {
			return Result{State: Pending, Order: order, Waited: waited}, err
		}
		order = next
		telemetry.Metrics.PollsCompleted.Inc()
	}

	return Result{State: Filled, Order: order, Waited: waited}, nil
}
