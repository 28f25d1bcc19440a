// Package transport provides outbound datagram connections for probe
// mode.  A transport only opens the socket; what is sent over it is the
// caller's business.
package transport

import (
	"context"
	"net"
)

// Dialer opens outbound datagram connections.
type Dialer interface {
	// Dial opens a connected socket to address ("host:port").
	Dial(ctx context.Context, address string) (*net.UDPConn, error)

	// Close releases any long-lived resources held by the dialer.
	// Stateless dialers return nil.
	Close() error
}
