//go:build !linux

package poller

import (
	"time"

	"dualnet/internal/errors"
)

// Epoll is unavailable off Linux; New always fails with
// MonitorSetupFailed so sessions shut down cleanly.
type Epoll struct{}

// New reports that no readiness monitor is available.
func New() (*Epoll, error) {
	return nil, errors.Wrap(errors.MonitorSetupFailed, "epoll_create1", "", -1, errors.ErrUnsupported)
}

func (p *Epoll) Register(fd int) error   { return errors.ErrUnsupported }
func (p *Epoll) Unregister(fd int) error { return errors.ErrUnsupported }
func (p *Epoll) Close() error            { return nil }

func (p *Epoll) Wait(int, time.Duration) ([]Event, error) {
	return nil, errors.ErrUnsupported
}
