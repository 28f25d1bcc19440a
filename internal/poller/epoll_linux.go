package poller

import (
	"time"

	"golang.org/x/sys/unix"

	"dualnet/internal/errors"
)

// Epoll is a level-triggered epoll instance.  Like the sockets it
// watches, it belongs to a single goroutine.
type Epoll struct {
	fd     int
	events []unix.EpollEvent
	closed bool
}

// New creates an epoll instance.  Failure is reported as
// MonitorSetupFailed.
func New() (*Epoll, error) {
	fd, err := unix.EpollCreate1(unix.EPOLL_CLOEXEC)
	if err != nil {
		return nil, errors.Wrap(errors.MonitorSetupFailed, "epoll_create1", "", -1, err)
	}
	return &Epoll{fd: fd}, nil
}

// Register implements [Monitor].
func (p *Epoll) Register(fd int) error {
	ev := unix.EpollEvent{
		Events: unix.EPOLLIN | unix.EPOLLRDHUP,
		Fd:     int32(fd),
	}
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_ADD, fd, &ev); err != nil {
		return errors.Wrap(errors.RegistrationFailed, "epoll_ctl add", "", fd, err)
	}
	return nil
}

// Unregister implements [Monitor].
func (p *Epoll) Unregister(fd int) error {
	if err := unix.EpollCtl(p.fd, unix.EPOLL_CTL_DEL, fd, nil); err != nil {
		return errors.Wrap(errors.RegistrationFailed, "epoll_ctl del", "", fd, err)
	}
	return nil
}

// Wait implements [Monitor].  EINTR yields an empty, nil-error result.
func (p *Epoll) Wait(maxEvents int, timeout time.Duration) ([]Event, error) {
	if maxEvents <= 0 {
		maxEvents = DefaultMaxEvents
	}

	if p.closed {
		return nil, errors.Wrap(errors.WaitFailed, "epoll_wait", "", -1, errors.ErrClosed)
	}
	if cap(p.events) < maxEvents {
		p.events = make([]unix.EpollEvent, maxEvents)
	}
	buf := p.events[:maxEvents]

	n, err := unix.EpollWait(p.fd, buf, timeoutMillis(timeout))
	if err != nil {
		if errors.IsInterrupted(err) {
			return nil, nil
		}
		return nil, errors.Wrap(errors.WaitFailed, "epoll_wait", "", p.fd, err)
	}

	out := make([]Event, 0, n)
	for _, ev := range buf[:n] {
		out = append(out, Event{
			FD:       int(ev.Fd),
			Readable: ev.Events&unix.EPOLLIN != 0,
			Hangup:   ev.Events&(unix.EPOLLRDHUP|unix.EPOLLHUP|unix.EPOLLERR) != 0,
		})
	}
	return out, nil
}

// Close implements [Monitor].  It is safe to call more than once.
func (p *Epoll) Close() error {
	if p.closed {
		return nil
	}
	p.closed = true
	return unix.Close(p.fd)
}
