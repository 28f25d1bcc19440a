// Package socket owns non-blocking datagram socket descriptors.
//
// A Handle wraps one descriptor together with the endpoint that was
// requested for it, the endpoint the OS actually bound, and, once the
// handle is connected, the remote peer.  The Factory creates and binds
// handles; nothing else in dualnet opens socket descriptors.
package socket

import (
	"fmt"

	"golang.org/x/sys/unix"

	"dualnet/internal/endpoint"
	"dualnet/internal/errors"
)

// State is the role of a handle inside a session.
type State int

const (
	// Unconnected handles listen for the first datagram from any peer.
	Unconnected State = iota
	// Connected handles are filtered to a single peer.
	Connected
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Connected:
		return "connected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Handle is an owned datagram socket descriptor.
//
// Requested and Acquired are fixed once the factory returns the handle.
// Remote is the default endpoint until Connect succeeds and fixed after.
// A Handle is not safe for concurrent use; a session's worker goroutine
// owns every handle it creates.
type Handle struct {
	Requested endpoint.Endpoint
	Acquired  endpoint.Endpoint
	Remote    endpoint.Endpoint

	fd    int
	local unix.Sockaddr // bound address as returned by getsockname
	peer  unix.Sockaddr // connected peer, nil while unconnected
	state State
}

// FD returns the descriptor, or -1 once the handle is closed.
func (h *Handle) FD() int { return h.fd }

// State returns the handle's current role.
func (h *Handle) State() State { return h.state }

// Closed reports whether Close has been called.
func (h *Handle) Closed() bool { return h.fd < 0 }

// LocalSockaddr returns the cached OS-native bound address.
func (h *Handle) LocalSockaddr() unix.Sockaddr { return h.local }

// PeerSockaddr returns the cached OS-native peer address, nil while the
// handle is unconnected.
func (h *Handle) PeerSockaddr() unix.Sockaddr { return h.peer }

// Recv reads one datagram into buf.  It returns the payload length and
// the sender's address.  On a non-blocking socket with nothing queued
// it returns an error satisfying [errors.IsWouldBlock].
func (h *Handle) Recv(buf []byte) (int, unix.Sockaddr, error) {
	if h.Closed() {
		return 0, nil, errors.ErrClosed
	}
	for {
		n, from, err := unix.Recvfrom(h.fd, buf, 0)
		if errors.IsInterrupted(err) {
			continue
		}
		if err != nil {
			return 0, nil, errors.Wrap(errors.ReceiveFailed, "recvfrom", h.Acquired.String(), h.fd, err)
		}
		return n, from, nil
	}
}

// Connect applies a filter-mode connect to peer: later reads only
// return datagrams from peer, and sends without a destination go to it.
// On success the handle becomes Connected and Remote is set to remote.
// On failure the handle is left exactly as it was.
func (h *Handle) Connect(peer unix.Sockaddr, remote endpoint.Endpoint) error {
	if h.Closed() {
		return errors.ErrClosed
	}
	if h.state == Connected {
		return errors.Wrap(errors.ConnectFailed, "connect", remote.String(), h.fd, unix.EISCONN)
	}
	if err := unix.Connect(h.fd, peer); err != nil {
		return errors.Wrap(errors.ConnectFailed, "connect", remote.String(), h.fd, err)
	}
	h.peer = peer
	h.Remote = remote
	h.state = Connected
	return nil
}

// Close releases the descriptor.  It is safe to call more than once.
func (h *Handle) Close() error {
	if h.Closed() {
		return nil
	}
	fd := h.fd
	h.fd = -1
	return unix.Close(fd)
}

// Info is an immutable snapshot of a handle.
type Info struct {
	FD        int
	State     State
	Requested endpoint.Endpoint
	Acquired  endpoint.Endpoint
	Remote    endpoint.Endpoint
}

// Info returns a snapshot of the handle.
func (h *Handle) Info() Info {
	return Info{
		FD:        h.fd,
		State:     h.state,
		Requested: h.Requested,
		Acquired:  h.Acquired,
		Remote:    h.Remote,
	}
}

func (i Info) String() string {
	if i.State == Connected {
		return fmt.Sprintf("fd %d %s <-> %s", i.FD, i.Acquired, i.Remote)
	}
	return fmt.Sprintf("fd %d %s", i.FD, i.Acquired)
}
