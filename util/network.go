package util

import (
	"fmt"
	"net"
	"strconv"
)

// FormatAddr returns "host:port", bracketing IPv6 literals.
func FormatAddr(host string, port int) string {
	return net.JoinHostPort(host, strconv.Itoa(port))
}

// ResolveUDPAddr builds a UDP address, validating that host is a
// numeric IP when noDNS is true.
func ResolveUDPAddr(host string, port int, noDNS bool) (*net.UDPAddr, error) {
	if noDNS && net.ParseIP(host) == nil {
		return nil, fmt.Errorf("cannot parse %q as an IP address (DNS disabled)", host)
	}
	ua, err := net.ResolveUDPAddr("udp", FormatAddr(host, port))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", FormatAddr(host, port), err)
	}
	return ua, nil
}

// FindFreeUDPPort returns a UDP port on 127.0.0.1 that was free at the
// time of the call.
func FindFreeUDPPort() (int, error) {
	c, err := net.ListenPacket("udp4", "127.0.0.1:0")
	if err != nil {
		return 0, fmt.Errorf("finding free port: %w", err)
	}
	defer c.Close()
	return c.LocalAddr().(*net.UDPAddr).Port, nil
}
