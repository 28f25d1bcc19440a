// Package endpoint defines the IP address + UDP port value type used
// throughout dualnet, and its conversion to and from OS socket
// addresses.
package endpoint

import (
	"fmt"
	"net"
	"net/netip"
	"strconv"
	"strings"

	"dualnet/internal/errors"
)

// WildcardIP is the IPv4 "any" address.
const WildcardIP = "0.0.0.0"

// Endpoint is an IP address in textual form plus a port.  The zero
// value is not the default endpoint; use [Default] for "0.0.0.0":0.
// Endpoints are compared with ==.
type Endpoint struct {
	IP   string
	Port uint16
}

// Default returns the wildcard endpoint "0.0.0.0":0.
func Default() Endpoint {
	return Endpoint{IP: WildcardIP}
}

// New returns an Endpoint for ip and port.  An empty ip means the
// wildcard address.
func New(ip string, port uint16) Endpoint {
	if ip == "" {
		ip = WildcardIP
	}
	return Endpoint{IP: ip, Port: port}
}

// Parse accepts "ip", "ip:port", "[v6]" and "[v6]:port".  An empty
// string yields [Default].  The IP must be numeric.
func Parse(s string) (Endpoint, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Default(), nil
	}

	host, portStr := s, ""
	if h, p, err := net.SplitHostPort(s); err == nil {
		host, portStr = h, p
	} else {
		host = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	}

	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Endpoint{}, fmt.Errorf("endpoint %q: %w", s, errors.ErrInvalidIP)
	}

	var port uint64
	if portStr != "" {
		port, err = strconv.ParseUint(portStr, 10, 16)
		if err != nil {
			return Endpoint{}, fmt.Errorf("endpoint %q: invalid port %q", s, portStr)
		}
	}
	return Endpoint{IP: addr.String(), Port: uint16(port)}, nil
}

// MustParse is like [Parse] but panics on error.  Intended for tests
// and constant tables.
func MustParse(s string) Endpoint {
	ep, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return ep
}

// String returns "ip:port", bracketing IPv6 addresses.
func (e Endpoint) String() string {
	return net.JoinHostPort(e.IP, strconv.Itoa(int(e.Port)))
}

// Addr parses the IP.  An empty IP is treated as the IPv4 wildcard.
func (e Endpoint) Addr() (netip.Addr, error) {
	ip := e.IP
	if ip == "" {
		ip = WildcardIP
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return netip.Addr{}, fmt.Errorf("endpoint %s: %w", e, errors.ErrInvalidIP)
	}
	return addr, nil
}

// IsWildcard reports whether the IP is an unspecified address.
func (e Endpoint) IsWildcard() bool {
	addr, err := e.Addr()
	return err == nil && addr.IsUnspecified()
}

// IsIPv6 reports whether the IP is an IPv6 (not IPv4-mapped) address.
func (e Endpoint) IsIPv6() bool {
	addr, err := e.Addr()
	return err == nil && addr.Is6() && !addr.Is4In6()
}

// AddrPort returns the endpoint as a netip.AddrPort.
func (e Endpoint) AddrPort() (netip.AddrPort, error) {
	addr, err := e.Addr()
	if err != nil {
		return netip.AddrPort{}, err
	}
	return netip.AddrPortFrom(addr, e.Port), nil
}

// UDPAddr returns the endpoint as a *net.UDPAddr.
func (e Endpoint) UDPAddr() (*net.UDPAddr, error) {
	ap, err := e.AddrPort()
	if err != nil {
		return nil, err
	}
	return net.UDPAddrFromAddrPort(ap), nil
}

// FromAddrPort converts a netip.AddrPort, unmapping IPv4-in-IPv6.
func FromAddrPort(ap netip.AddrPort) Endpoint {
	return Endpoint{IP: ap.Addr().Unmap().String(), Port: ap.Port()}
}

// FromNetAddr converts a *net.UDPAddr (or any net.Addr whose String is
// "ip:port").
func FromNetAddr(a net.Addr) (Endpoint, error) {
	if ua, ok := a.(*net.UDPAddr); ok {
		return FromAddrPort(ua.AddrPort()), nil
	}
	return Parse(a.String())
}
