package socket

import (
	"golang.org/x/sys/unix"

	"dualnet/internal/endpoint"
	"dualnet/internal/errors"
	"dualnet/util"
)

// Factory creates bound, non-blocking datagram sockets.
type Factory interface {
	// CreateBound opens a socket and binds it to ep.  Wildcard IPs and
	// port 0 are resolved to the concrete address the OS chose.
	CreateBound(ep endpoint.Endpoint) (*Handle, error)

	// Replenish opens a fresh socket on the same local address as a
	// handle that has just been connected, so the address keeps
	// accepting new peers.  The new handle keeps promoted.Requested.
	Replenish(promoted *Handle) (*Handle, error)
}

// OSFactory is the Factory backed by real OS sockets.
type OSFactory struct {
	Logger *util.Logger

	// NoReuse disables SO_REUSEADDR/SO_REUSEPORT.  Replenishment needs
	// SO_REUSEPORT to share a port with the connected handle, so this is
	// only useful for tests exercising bind conflicts.
	NoReuse bool
}

// NewFactory returns an OSFactory logging through logger.
func NewFactory(logger *util.Logger) *OSFactory {
	return &OSFactory{Logger: logger.Named("socket")}
}

// CreateBound implements [Factory].
func (f *OSFactory) CreateBound(ep endpoint.Endpoint) (*Handle, error) {
	return f.create(ep, ep)
}

// Replenish implements [Factory].  It binds to promoted.Acquired rather
// than promoted.Requested so that an endpoint configured with port 0
// keeps listening on the port that was already reported.
func (f *OSFactory) Replenish(promoted *Handle) (*Handle, error) {
	return f.create(promoted.Requested, promoted.Acquired)
}

func (f *OSFactory) create(requested, bindTo endpoint.Endpoint) (*Handle, error) {
	sa, err := bindTo.Sockaddr()
	if err != nil {
		return nil, errors.Wrap(errors.BindFailed, "bind", bindTo.String(), -1, err)
	}
	family := unix.AF_INET
	if _, ok := sa.(*unix.SockaddrInet6); ok {
		family = unix.AF_INET6
	}

	fd, err := openDatagram(family)
	if err != nil {
		return nil, errors.Wrap(errors.CreationFailed, "socket", bindTo.String(), -1, err)
	}

	h := &Handle{
		Requested: requested,
		Remote:    endpoint.Default(),
		fd:        fd,
		state:     Unconnected,
	}
	bound := false
	defer func() {
		if !bound {
			h.Close() //nolint:errcheck
		}
	}()

	f.setOptions(fd, bindTo, family)

	if err := unix.Bind(fd, sa); err != nil {
		return nil, errors.Wrap(errors.BindFailed, "bind", bindTo.String(), fd, err)
	}

	local, err := unix.Getsockname(fd)
	if err != nil {
		return nil, errors.Wrap(errors.QueryBoundAddressFailed, "getsockname", bindTo.String(), fd, err)
	}
	acquired, err := endpoint.FromSockaddr(local)
	if err != nil {
		return nil, errors.Wrap(errors.QueryBoundAddressFailed, "getsockname", bindTo.String(), fd, err)
	}
	h.local = local
	h.Acquired = acquired
	bound = true

	f.Logger.Debug("requested %s, acquired %s (fd %d)", requested, acquired, fd)
	return h, nil
}

// setOptions applies best-effort socket options.  Failures are logged
// and never abort creation.
func (f *OSFactory) setOptions(fd int, ep endpoint.Endpoint, family int) {
	if !f.NoReuse {
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEADDR, 1); err != nil {
			f.Logger.Warn("could not reuse addr for %s: %v", ep, err)
		}
		if err := unix.SetsockoptInt(fd, unix.SOL_SOCKET, unix.SO_REUSEPORT, 1); err != nil {
			f.Logger.Warn("could not reuse port for %s: %v", ep, err)
		}
	}
	if family == unix.AF_INET6 {
		if err := unix.SetsockoptInt(fd, unix.IPPROTO_IPV6, unix.IPV6_V6ONLY, 1); err != nil {
			f.Logger.Warn("could not set IPV6_V6ONLY for %s: %v", ep, err)
		}
	}
}
