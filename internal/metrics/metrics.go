// Package metrics provides lightweight, lock-free counters and gauges
// for tracking runtime statistics of a dualnet session.
//
// All methods are safe for concurrent use: the session worker records,
// the host reads.  A nil *Collector is a valid no-op receiver, so
// callers never need to nil-check.
package metrics

import (
	"encoding/json"
	"sync"
	"sync/atomic"
	"time"
)

// Collector tracks runtime metrics for a monitoring session.
// A nil Collector is safe to use; all methods become no-ops.
type Collector struct {
	listening         atomic.Int64
	connected         atomic.Int64
	promotions        atomic.Int64
	replenishFailures atomic.Int64
	connectFailures   atomic.Int64
	datagramsIn       atomic.Int64
	bytesIn           atomic.Int64
	ticks             atomic.Int64
	errorsTotal       atomic.Int64

	mu           sync.RWMutex
	startTime    time.Time
	lastPromoted time.Time
	lastError    time.Time
	lastErrorMsg string
}

// New creates a metrics collector with the start time set to now.
func New() *Collector {
	return &Collector{startTime: time.Now()}
}

// ── Socket gauges ────────────────────────────────────────────────────

// SocketListening records a new unconnected socket.
func (c *Collector) SocketListening() {
	if c == nil {
		return
	}
	c.listening.Add(1)
}

// Promoted records an unconnected socket becoming connected.
func (c *Collector) Promoted() {
	if c == nil {
		return
	}
	c.listening.Add(-1)
	c.connected.Add(1)
	c.promotions.Add(1)
	c.mu.Lock()
	c.lastPromoted = time.Now()
	c.mu.Unlock()
}

// SocketsClosed records the teardown of every socket at session stop.
func (c *Collector) SocketsClosed(listening, connected int) {
	if c == nil {
		return
	}
	c.listening.Add(-int64(listening))
	c.connected.Add(-int64(connected))
}

// Listening returns the number of open unconnected sockets.
func (c *Collector) Listening() int64 {
	if c == nil {
		return 0
	}
	return c.listening.Load()
}

// Connected returns the number of open connected sockets.
func (c *Collector) Connected() int64 {
	if c == nil {
		return 0
	}
	return c.connected.Load()
}

// Promotions returns the lifetime promotion count.
func (c *Collector) Promotions() int64 {
	if c == nil {
		return 0
	}
	return c.promotions.Load()
}

// ── Failures ─────────────────────────────────────────────────────────

// ReplenishFailed records an endpoint left without a listener.
func (c *Collector) ReplenishFailed() {
	if c == nil {
		return
	}
	c.replenishFailures.Add(1)
}

// ReplenishFailures returns the number of failed replenishments.
func (c *Collector) ReplenishFailures() int64 {
	if c == nil {
		return 0
	}
	return c.replenishFailures.Load()
}

// ConnectFailed records a promotion that could not connect.
func (c *Collector) ConnectFailed() {
	if c == nil {
		return
	}
	c.connectFailures.Add(1)
}

// ConnectFailures returns the number of failed promotion connects.
func (c *Collector) ConnectFailures() int64 {
	if c == nil {
		return 0
	}
	return c.connectFailures.Load()
}

// ── I/O metrics ──────────────────────────────────────────────────────

// DatagramReceived records one datagram of n bytes.
func (c *Collector) DatagramReceived(n int) {
	if c == nil {
		return
	}
	c.datagramsIn.Add(1)
	c.bytesIn.Add(int64(n))
}

// Datagrams returns the total number of datagrams received.
func (c *Collector) Datagrams() int64 {
	if c == nil {
		return 0
	}
	return c.datagramsIn.Load()
}

// TotalBytesIn returns total payload bytes received.
func (c *Collector) TotalBytesIn() int64 {
	if c == nil {
		return 0
	}
	return c.bytesIn.Load()
}

// Tick records one pass of the readiness loop.
func (c *Collector) Tick() {
	if c == nil {
		return
	}
	c.ticks.Add(1)
}

// Ticks returns the number of loop passes.
func (c *Collector) Ticks() int64 {
	if c == nil {
		return 0
	}
	return c.ticks.Load()
}

// ── Error metrics ────────────────────────────────────────────────────

// RecordError increments the error counter and stores the message.
func (c *Collector) RecordError(msg string) {
	if c == nil {
		return
	}
	c.errorsTotal.Add(1)
	c.mu.Lock()
	c.lastError = time.Now()
	c.lastErrorMsg = msg
	c.mu.Unlock()
}

// ErrorCount returns the total number of errors recorded.
func (c *Collector) ErrorCount() int64 {
	if c == nil {
		return 0
	}
	return c.errorsTotal.Load()
}

// ── Snapshot ─────────────────────────────────────────────────────────

// Snapshot is a point-in-time view of all metrics.
type Snapshot struct {
	Uptime            string `json:"uptime"`
	Listening         int64  `json:"listening"`
	Connected         int64  `json:"connected"`
	Promotions        int64  `json:"promotions"`
	ReplenishFailures int64  `json:"replenish_failures"`
	ConnectFailures   int64  `json:"connect_failures"`
	Datagrams         int64  `json:"datagrams"`
	BytesIn           int64  `json:"bytes_in"`
	Ticks             int64  `json:"ticks"`
	ErrorsTotal       int64  `json:"errors_total"`
	LastPromotion     string `json:"last_promotion,omitempty"`
	LastError         string `json:"last_error,omitempty"`
	LastErrorMessage  string `json:"last_error_message,omitempty"`
}

// Snapshot returns a copy of all current metrics.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	s := Snapshot{
		Uptime:            time.Since(c.startTime).Truncate(time.Second).String(),
		Listening:         c.listening.Load(),
		Connected:         c.connected.Load(),
		Promotions:        c.promotions.Load(),
		ReplenishFailures: c.replenishFailures.Load(),
		ConnectFailures:   c.connectFailures.Load(),
		Datagrams:         c.datagramsIn.Load(),
		BytesIn:           c.bytesIn.Load(),
		Ticks:             c.ticks.Load(),
		ErrorsTotal:       c.errorsTotal.Load(),
	}
	if !c.lastPromoted.IsZero() {
		s.LastPromotion = c.lastPromoted.Format(time.RFC3339)
	}
	if !c.lastError.IsZero() {
		s.LastError = c.lastError.Format(time.RFC3339)
		s.LastErrorMessage = c.lastErrorMsg
	}
	return s
}

// JSON returns the snapshot as an indented JSON string.
func (c *Collector) JSON() string {
	s := c.Snapshot()
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
