package transport

import (
	"context"
	"fmt"
	"net"
	"time"
)

// UDPDialer opens connected UDP sockets, optionally from a fixed source
// port.
type UDPDialer struct {
	Timeout   time.Duration // bounds name resolution (0 = none)
	LocalPort int           // optional source-port binding (0 = ephemeral)
	Network   string        // "udp", "udp4" or "udp6"; default "udp"
}

// Dial resolves address and connects a UDP socket to it.  Connecting a
// datagram socket only sets the default peer; nothing is sent.
func (d *UDPDialer) Dial(ctx context.Context, address string) (*net.UDPConn, error) {
	network := d.Network
	if network == "" {
		network = "udp"
	}
	dialer := net.Dialer{Timeout: d.Timeout}
	if d.LocalPort > 0 {
		dialer.LocalAddr = &net.UDPAddr{Port: d.LocalPort}
	}

	conn, err := dialer.DialContext(ctx, network, address)
	if err != nil {
		return nil, fmt.Errorf("dial %s %s: %w", network, address, err)
	}
	uc, ok := conn.(*net.UDPConn)
	if !ok {
		conn.Close()
		return nil, fmt.Errorf("dial %s %s: unexpected connection type %T", network, address, conn)
	}
	return uc, nil
}

// Close is a no-op for stateless UDP dialers.
func (d *UDPDialer) Close() error { return nil }

var _ Dialer = (*UDPDialer)(nil)
