// Package session runs a monitoring session: a single worker goroutine
// that keeps one listening datagram socket per configured endpoint,
// promotes a socket to connected when its first datagram arrives, and
// immediately opens a replacement listener on the same address.
//
// The only state shared between the caller and the worker is the run
// flag.  The worker polls it once per readiness wait, so Stop returns
// within one poll interval even when no traffic arrives.
package session

import (
	"sync"
	"sync/atomic"
	"time"

	"dualnet/config"
	"dualnet/internal/capability"
	"dualnet/internal/endpoint"
	"dualnet/internal/metrics"
	"dualnet/internal/poller"
	"dualnet/internal/socket"
	"dualnet/util"
)

// Options configures a Session.  Zero values select the defaults.
type Options struct {
	Factory    socket.Factory                 // default: socket.NewFactory
	NewMonitor func() (poller.Monitor, error) // default: poller.New
	Reporter   Reporter                       // default: none
	Handler    capability.Handler             // default: capability.Discard
	Hooks      Hooks
	Metrics    *metrics.Collector // default: a fresh collector
	Logger     *util.Logger

	PollInterval time.Duration // bounded readiness wait, default 5s
	MaxEvents    int           // events per wait, default 1024
	BufSize      int           // receive buffer, default 2048
}

// Session is a restartable monitoring session.  Run and Stop may be
// called from any goroutine, but not from inside Hooks or a Handler.
type Session struct {
	opts Options
	log  *util.Logger

	running atomic.Bool

	mu   sync.Mutex // serialises Run and Stop callers
	done chan struct{}
}

// New returns a stopped session.
func New(opts Options) *Session {
	log := opts.Logger.Named("session")
	if opts.Factory == nil {
		opts.Factory = socket.NewFactory(opts.Logger)
	}
	if opts.NewMonitor == nil {
		opts.NewMonitor = func() (poller.Monitor, error) { return poller.New() }
	}
	if opts.Handler == nil {
		opts.Handler = capability.Discard{}
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.New()
	}
	if opts.PollInterval <= 0 {
		opts.PollInterval = config.DefaultPollInterval
	}
	if opts.MaxEvents <= 0 {
		opts.MaxEvents = config.DefaultMaxEvents
	}
	if opts.BufSize <= 0 {
		opts.BufSize = config.DefaultBufSize
	}
	return &Session{opts: opts, log: log}
}

// Run starts the worker on endpoints and returns immediately.  If a
// session is already running the call is logged and ignored.
func (s *Session) Run(endpoints []endpoint.Endpoint) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running.CompareAndSwap(false, true) {
		s.log.Debug("already running")
		return
	}

	// A worker that gave up on its own has cleared the flag but may
	// still be closing sockets.
	if s.done != nil {
		<-s.done
	}

	eps := make([]endpoint.Endpoint, len(endpoints))
	copy(eps, endpoints)

	done := make(chan struct{})
	s.done = done
	go func() {
		defer close(done)
		newWorker(s).run(eps)
	}()
}

// Stop signals the worker and blocks until it has closed every socket
// and exited.  Stop is idempotent.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.running.Store(false)
	if s.done != nil {
		<-s.done
		s.done = nil
	}
}

// Running reports whether a worker is active.
func (s *Session) Running() bool { return s.running.Load() }

// Done returns a channel closed when the current worker exits, or nil
// if Run has never been called.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Metrics returns the session's collector.
func (s *Session) Metrics() *metrics.Collector { return s.opts.Metrics }
