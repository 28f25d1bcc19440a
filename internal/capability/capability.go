// Package capability defines what happens to datagram payloads once a
// session has read them.  The session itself only manages socket
// readiness and promotion; every payload it reads is handed to a
// Handler, which by default discards it.
package capability

import (
	"dualnet/internal/endpoint"
)

// Datagram is one payload read by a session.
type Datagram struct {
	FD      int
	Local   endpoint.Endpoint // acquired endpoint of the receiving socket
	Remote  endpoint.Endpoint // sender
	Payload []byte            // only valid for the duration of the call
	First   bool              // true for the datagram that promoted the socket
}

// Handler consumes datagrams.  It runs on the session's worker
// goroutine and must not block; copy Payload if it must outlive the
// call.
type Handler interface {
	HandleDatagram(d Datagram)
}

// Func adapts a function to a Handler.
type Func func(d Datagram)

// HandleDatagram calls f(d).
func (f Func) HandleDatagram(d Datagram) { f(d) }
