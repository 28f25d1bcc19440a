package session

import (
	"sort"

	"dualnet/internal/endpoint"
	"dualnet/internal/socket"
)

// Reporter receives the acquired endpoints once per successful startup.
type Reporter interface {
	Report(acquired []endpoint.Endpoint)
}

// ReporterFunc adapts a function to a Reporter.
type ReporterFunc func(acquired []endpoint.Endpoint)

// Report calls f(acquired).
func (f ReporterFunc) Report(acquired []endpoint.Endpoint) { f(acquired) }

// State is a snapshot of a session's two socket sets, each sorted by
// descriptor.
type State struct {
	Unconnected []socket.Info
	Connected   []socket.Info
}

// ListeningFor returns the unconnected sockets whose configured
// endpoint is ep.
func (s State) ListeningFor(ep endpoint.Endpoint) []socket.Info {
	var out []socket.Info
	for _, info := range s.Unconnected {
		if info.Requested == ep {
			out = append(out, info)
		}
	}
	return out
}

// Promotion describes one unconnected socket becoming connected.
type Promotion struct {
	Promoted    socket.Info
	Replacement *socket.Info // nil when replenishment failed
	State       State        // sets after the promotion step completed
}

// PromotionFailure describes a first datagram whose sender could not
// be connected.  The socket stays unconnected and listening.
type PromotionFailure struct {
	Handle socket.Info
	Remote endpoint.Endpoint
	Err    error
	State  State
}

// Hooks are optional callbacks run on the worker goroutine.  They must
// not block and must not call Stop.
type Hooks struct {
	// OnStart runs after the initial sockets are registered.
	OnStart func(State)
	// OnPromote runs after each successful connect, whether or not the
	// endpoint could be replenished.
	OnPromote func(Promotion)
	// OnPromotionFailed runs when connect to the first sender fails.
	OnPromotionFailed func(PromotionFailure)
	// OnReplenished runs for each replacement listener once it is
	// monitored.
	OnReplenished func(socket.Info)
	// OnStop runs after every socket has been closed; the state lists
	// what was open just before shutdown.
	OnStop func(State)
}

func snapshot(unconnected, connected map[int]*socket.Handle) State {
	return State{
		Unconnected: infos(unconnected),
		Connected:   infos(connected),
	}
}

func infos(set map[int]*socket.Handle) []socket.Info {
	out := make([]socket.Info, 0, len(set))
	for _, h := range set {
		out = append(out, h.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FD < out[j].FD })
	return out
}
