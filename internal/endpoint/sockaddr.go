package endpoint

import (
	"net/netip"

	"golang.org/x/sys/unix"

	"dualnet/internal/errors"
)

// Family returns AF_INET or AF_INET6 for the endpoint's IP.
func (e Endpoint) Family() (int, error) {
	addr, err := e.Addr()
	if err != nil {
		return 0, err
	}
	if addr.Is4() || addr.Is4In6() {
		return unix.AF_INET, nil
	}
	return unix.AF_INET6, nil
}

// Sockaddr converts the endpoint to an OS socket address.
func (e Endpoint) Sockaddr() (unix.Sockaddr, error) {
	addr, err := e.Addr()
	if err != nil {
		return nil, err
	}
	if addr.Is4() || addr.Is4In6() {
		return &unix.SockaddrInet4{Port: int(e.Port), Addr: addr.Unmap().As4()}, nil
	}
	return &unix.SockaddrInet6{Port: int(e.Port), Addr: addr.As16()}, nil
}

// FromSockaddr converts an OS socket address to an Endpoint.  Anything
// other than an IPv4 or IPv6 address fails with AddressConversionFailed.
func FromSockaddr(sa unix.Sockaddr) (Endpoint, error) {
	switch sa := sa.(type) {
	case *unix.SockaddrInet4:
		if sa == nil {
			break
		}
		return FromAddrPort(netip.AddrPortFrom(netip.AddrFrom4(sa.Addr), uint16(sa.Port))), nil
	case *unix.SockaddrInet6:
		if sa == nil {
			break
		}
		return FromAddrPort(netip.AddrPortFrom(netip.AddrFrom16(sa.Addr), uint16(sa.Port))), nil
	}
	return Endpoint{}, errors.Wrap(errors.AddressConversionFailed, "sockaddr", "", -1, errors.ErrUnsupportedAddr)
}
