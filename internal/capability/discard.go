package capability

import (
	"dualnet/util"
)

// Discard drops every payload.  It is the default handler.
type Discard struct{}

// HandleDatagram does nothing.
func (Discard) HandleDatagram(Datagram) {}

// Log reports each datagram's size and sender at debug level and
// otherwise discards it.
type Log struct {
	Logger *util.Logger
}

// HandleDatagram logs d.
func (l *Log) HandleDatagram(d Datagram) {
	kind := "message"
	if d.First {
		kind = "first datagram"
	}
	l.Logger.Debug("%s on fd %d (%s) from %s: %d bytes", kind, d.FD, d.Local, d.Remote, len(d.Payload))
}
