// Package errors provides domain-specific error types for dualnet.
//
// Socket and monitor failures carry a Kind from a fixed taxonomy plus
// the endpoint involved, so the session loop can log them uniformly and
// tests can assert on the failure class without string matching.
package errors

import (
	"errors"
	"fmt"
	"syscall"
)

// ── Sentinel errors ──────────────────────────────────────────────────

var (
	ErrNothingBound    = errors.New("no endpoint could be bound")
	ErrClosed          = errors.New("socket handle is closed")
	ErrUnsupportedAddr = errors.New("unsupported socket address")
	ErrInvalidIP       = errors.New("invalid IP address")
	ErrUnsupported     = errors.New("not supported on this platform")
)

// ── Failure taxonomy ─────────────────────────────────────────────────

// Kind classifies a socket or monitor failure.
type Kind int

const (
	KindUnknown Kind = iota
	CreationFailed
	BindFailed
	QueryBoundAddressFailed
	AddressConversionFailed
	ConnectFailed
	MonitorSetupFailed
	RegistrationFailed
	WaitFailed
	ReceiveFailed
)

func (k Kind) String() string {
	switch k {
	case CreationFailed:
		return "creation failed"
	case BindFailed:
		return "bind failed"
	case QueryBoundAddressFailed:
		return "query bound address failed"
	case AddressConversionFailed:
		return "address conversion failed"
	case ConnectFailed:
		return "connect failed"
	case MonitorSetupFailed:
		return "monitor setup failed"
	case RegistrationFailed:
		return "registration failed"
	case WaitFailed:
		return "wait failed"
	case ReceiveFailed:
		return "receive failed"
	default:
		return "unknown failure"
	}
}

// ── Structured error types ───────────────────────────────────────────

// SocketError represents a failure in a socket or readiness-monitor
// operation.
type SocketError struct {
	Kind     Kind
	Op       string // syscall or step: "socket", "bind", "getsockname", "epoll_ctl", ...
	Endpoint string // endpoint involved, empty when not applicable
	FD       int    // descriptor involved, -1 when not applicable
	Err      error  // underlying error
}

func (e *SocketError) Error() string {
	s := e.Kind.String() + ": " + e.Op
	if e.Endpoint != "" {
		s += " " + e.Endpoint
	}
	if e.FD >= 0 {
		s += fmt.Sprintf(" (fd %d)", e.FD)
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	return s
}

func (e *SocketError) Unwrap() error { return e.Err }

// ConfigError represents an invalid configuration value.
type ConfigError struct {
	Field   string      // config field name
	Value   interface{} // the invalid value (nil if missing)
	Message string      // human-readable explanation
	Hint    string      // suggestion for the user (optional)
}

func (e *ConfigError) Error() string {
	msg := fmt.Sprintf("config: --%s", e.Field)
	if e.Value != nil {
		msg += fmt.Sprintf("=%v", e.Value)
	}
	msg += ": " + e.Message
	if e.Hint != "" {
		msg += "\n  hint: " + e.Hint
	}
	return msg
}

// ── Constructors ─────────────────────────────────────────────────────

// Wrap creates a SocketError for an operation on an endpoint.  fd may
// be -1 when no descriptor exists yet.
func Wrap(kind Kind, op, endpoint string, fd int, err error) *SocketError {
	return &SocketError{Kind: kind, Op: op, Endpoint: endpoint, FD: fd, Err: err}
}

// ── Classification helpers ───────────────────────────────────────────

// KindOf returns the Kind of the first SocketError in err's chain, or
// KindUnknown.
func KindOf(err error) Kind {
	var se *SocketError
	if errors.As(err, &se) {
		return se.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries a SocketError of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

// IsInterrupted reports whether err is an interrupted system call.
func IsInterrupted(err error) bool {
	return errors.Is(err, syscall.EINTR)
}

// IsWouldBlock reports whether a non-blocking call had nothing to do.
func IsWouldBlock(err error) bool {
	return errors.Is(err, syscall.EAGAIN) || errors.Is(err, syscall.EWOULDBLOCK)
}

// IsRefused reports whether a send or receive failed because the peer
// answered with ICMP port unreachable.
func IsRefused(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED)
}

// ── Re-exports for convenience ───────────────────────────────────────
//
// These allow callers to use dualnet/internal/errors as a drop-in
// replacement for the standard library in common operations.

// As is [errors.As].
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Is is [errors.Is].
func Is(err, target error) bool { return errors.Is(err, target) }

// New is [errors.New].
func New(text string) error { return errors.New(text) }

// Unwrap is [errors.Unwrap].
func Unwrap(err error) error { return errors.Unwrap(err) }

// Join is [errors.Join].
func Join(errs ...error) error { return errors.Join(errs...) }
