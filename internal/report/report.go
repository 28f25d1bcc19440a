// Package report provides status reporters for a session: the list of
// concrete endpoints the session is listening on, delivered once per
// startup.
package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"dualnet/internal/endpoint"
	"dualnet/internal/session"
	"dualnet/util"
)

// Func adapts a function to a session.Reporter.
type Func = session.ReporterFunc

// Text writes one "ip : port" line per endpoint.  When Heading is set
// it is printed first, followed by a hint showing how to poke the
// first endpoint from another shell.
type Text struct {
	W       io.Writer
	Heading bool

	mu sync.Mutex
}

// NewText returns a Text reporter on w.  The heading is enabled when w
// is a terminal.
func NewText(w io.Writer) *Text {
	return &Text{W: w, Heading: isTerminal(w)}
}

// Report implements session.Reporter.
func (t *Text) Report(acquired []endpoint.Endpoint) {
	t.mu.Lock()
	defer t.mu.Unlock()

	w := t.W
	if w == nil {
		w = os.Stdout
	}
	if t.Heading {
		fmt.Fprintf(w, "Listening on %d endpoint(s):\n", len(acquired))
	}
	for _, ep := range acquired {
		fmt.Fprintf(w, "%s : %d\n", ep.IP, ep.Port)
	}
	if t.Heading && len(acquired) > 0 {
		fmt.Fprintf(w, "Try: dualnet probe %s %d   (or nc -u %s %d)\n",
			hintHost(acquired[0]), acquired[0].Port, hintHost(acquired[0]), acquired[0].Port)
	}
}

// hintHost replaces a wildcard address with loopback for the hint line.
func hintHost(ep endpoint.Endpoint) string {
	if ep.IsWildcard() {
		if ep.IsIPv6() {
			return "::1"
		}
		return "127.0.0.1"
	}
	return ep.IP
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Log reports each endpoint through a logger at info level.
type Log struct {
	Logger *util.Logger
}

// Report implements session.Reporter.
func (l *Log) Report(acquired []endpoint.Endpoint) {
	for _, ep := range acquired {
		l.Logger.Info("ready on %s", ep)
	}
}

// Multi fans a report out to several reporters in order.
type Multi []session.Reporter

// Report implements session.Reporter.
func (m Multi) Report(acquired []endpoint.Endpoint) {
	for _, r := range m {
		if r != nil {
			r.Report(acquired)
		}
	}
}
