package core

import (
	"context"
	"fmt"
	"io"
	"os"

	"dualnet/internal/endpoint"
	"dualnet/internal/report"
	"dualnet/internal/session"
	"dualnet/util"
)

// ServeMode runs one session on the configured endpoints until ctx is
// cancelled, printing the acquired endpoints once they are bound.
type ServeMode struct {
	Endpoints []endpoint.Endpoint
	Options   session.Options // Reporter defaults to a text report on Stdout, also logged at -v
	DryRun    bool
	Verbose   int
	Logger    *util.Logger

	// Stdout defaults to os.Stdout when nil.
	Stdout io.Writer
}

func (m *ServeMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run starts the session and blocks until ctx is done or the session
// gives up on its own.  The session is always stopped before Run
// returns.
func (m *ServeMode) Run(ctx context.Context) error {
	if m.DryRun {
		return m.printPlan()
	}

	opts := m.Options
	if opts.Reporter == nil {
		opts.Reporter = report.NewText(m.stdout())
		if m.Verbose >= int(util.LogNormal) {
			opts.Reporter = report.Multi{opts.Reporter, &report.Log{Logger: m.Logger}}
		}
	}
	sess := session.New(opts)

	m.Logger.Verbose("starting session on %d endpoint(s)", len(m.Endpoints))
	sess.Run(m.Endpoints)

	var gaveUp bool
	select {
	case <-ctx.Done():
		m.Logger.Verbose("shutting down")
	case <-sess.Done():
		gaveUp = true
	}
	sess.Stop()

	if m.Verbose >= int(util.LogVerbose) {
		m.Logger.Verbose("session metrics:\n%s", sess.Metrics().JSON())
	}
	if gaveUp {
		snap := sess.Metrics().Snapshot()
		return fmt.Errorf("session stopped: %s", snap.LastErrorMessage)
	}
	return nil
}

// printPlan writes the endpoints that would be bound, one per line.
func (m *ServeMode) printPlan() error {
	w := m.stdout()
	for _, ep := range m.Endpoints {
		port := "ephemeral"
		if ep.Port != 0 {
			port = fmt.Sprint(ep.Port)
		}
		if _, err := fmt.Fprintf(w, "would listen on %s port %s\n", ep.IP, port); err != nil {
			return err
		}
	}
	return nil
}
