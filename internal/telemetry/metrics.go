package telemetry

import "sync/atomic"

type Counter struct {
	val atomic.Int64
}

func (c *Counter) Inc()         { c.val.Add(1) }
func (c *Counter) Add(n int64)  { c.val.Add(n) }
func (c *Counter) Value() int64 { return c.val.Load() }

// Metrics is the global metrics registry for one bot run.
var Metrics = struct {
	SymbolLookups  Counter
	BookFetches    Counter
	OrdersSent     Counter
	OrderErrors    Counter
	PollsCompleted Counter
}{}
