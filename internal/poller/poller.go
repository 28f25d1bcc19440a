// Package poller wraps the OS readiness notification facility.
//
// Descriptors are registered for readability and peer hang-up; Wait
// blocks for at most the given timeout and returns the ready set.  An
// interrupted wait returns an empty set rather than an error.
package poller

import "time"

// DefaultMaxEvents bounds how many ready descriptors one Wait returns.
const DefaultMaxEvents = 1024

// Event is one ready descriptor.
type Event struct {
	FD       int
	Readable bool
	Hangup   bool // peer hang-up or error condition
}

// Monitor is the readiness monitor used by a session.
type Monitor interface {
	// Register starts watching fd for readability and hang-up.
	Register(fd int) error
	// Unregister stops watching fd.
	Unregister(fd int) error
	// Wait blocks until at least one descriptor is ready or timeout
	// elapses.  At most maxEvents events are returned.
	Wait(maxEvents int, timeout time.Duration) ([]Event, error)
	// Close releases the monitor.
	Close() error
}

// timeoutMillis converts a wait timeout; negative means block forever.
func timeoutMillis(d time.Duration) int {
	if d < 0 {
		return -1
	}
	ms := d.Milliseconds()
	if ms == 0 && d > 0 {
		ms = 1
	}
	return int(ms)
}

var _ Monitor = (*Epoll)(nil)
