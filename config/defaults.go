package config

import "time"

// ── Default values ───────────────────────────────────────────────────
//
// All tuneable defaults live here so they are easy to audit and reuse
// across CLI flags, environment variable loading, and the session
// package's zero-value handling.

const (
	// DefaultBind is the endpoint served when no --bind is given: the
	// wildcard address on an ephemeral port.
	DefaultBind = "0.0.0.0"

	// DefaultPollInterval bounds each readiness wait.  Stop latency is
	// at most one interval.
	DefaultPollInterval = 5 * time.Second

	// DefaultMaxEvents is the most readiness events drained per wait.
	DefaultMaxEvents = 1024

	// DefaultBufSize is the receive buffer size.  Longer datagrams are
	// truncated.
	DefaultBufSize = 2048

	// MaxBufSize is the largest receive buffer accepted; it covers the
	// largest possible UDP payload.
	MaxBufSize = 65535

	// DefaultProbeCount is how many datagrams probe mode sends.
	DefaultProbeCount = 1

	// DefaultProbeMessage is the payload probe mode sends when -m is
	// not given.
	DefaultProbeMessage = "hello\n"

	// DefaultProbeInterval is the pause between probe datagrams.
	DefaultProbeInterval = 200 * time.Millisecond

	// DefaultProbeAttempts is how many times a failing probe send is
	// tried before giving up.
	DefaultProbeAttempts = 3
)
