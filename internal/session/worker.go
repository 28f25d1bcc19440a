package session

import (
	"golang.org/x/sys/unix"

	"dualnet/internal/capability"
	"dualnet/internal/endpoint"
	"dualnet/internal/errors"
	"dualnet/internal/poller"
	"dualnet/internal/socket"
	"dualnet/util"
)

// worker is the state owned by one run of the session goroutine.
// Every descriptor lives in exactly one of unconnected or connected
// from creation until shutdown.
type worker struct {
	s       *Session
	opts    *Options
	log     *util.Logger
	monitor poller.Monitor

	unconnected map[int]*socket.Handle
	connected   map[int]*socket.Handle

	buf *[]byte
}

func newWorker(s *Session) *worker {
	return &worker{
		s:           s,
		opts:        &s.opts,
		log:         s.log,
		unconnected: make(map[int]*socket.Handle),
		connected:   make(map[int]*socket.Handle),
	}
}

func (w *worker) run(endpoints []endpoint.Endpoint) {
	w.buf = util.GetBuf(w.opts.BufSize)
	defer util.PutBuf(w.buf)

	var created []*socket.Handle
	for _, ep := range endpoints {
		h, err := w.opts.Factory.CreateBound(ep)
		if err != nil {
			w.fail("set up socket for "+ep.String(), err)
			continue
		}
		created = append(created, h)
	}

	monitor, err := w.opts.NewMonitor()
	if err != nil {
		w.fail("set up readiness monitor", err)
		for _, h := range created {
			h.Close() //nolint:errcheck
		}
		w.s.running.Store(false)
		return
	}
	w.monitor = monitor

	for _, h := range created {
		if err := monitor.Register(h.FD()); err != nil {
			w.fail("monitor "+h.Acquired.String(), err)
			h.Close() //nolint:errcheck
			continue
		}
		w.unconnected[h.FD()] = h
		w.opts.Metrics.SocketListening()
	}

	if len(w.unconnected) == 0 {
		w.fail("start session", errors.ErrNothingBound)
		monitor.Close() //nolint:errcheck
		w.s.running.Store(false)
		return
	}

	w.report(created)
	if w.opts.Hooks.OnStart != nil {
		w.opts.Hooks.OnStart(w.state())
	}

	for w.s.running.Load() {
		events, err := monitor.Wait(w.opts.MaxEvents, w.opts.PollInterval)
		w.opts.Metrics.Tick()
		if err != nil {
			w.fail("wait for socket events", err)
			continue
		}
		for _, ev := range events {
			w.dispatch(ev)
		}
	}

	w.shutdown()
}

// report hands the acquired endpoints of the registered sockets to the
// reporter, in configuration order.
func (w *worker) report(created []*socket.Handle) {
	acquired := make([]endpoint.Endpoint, 0, len(w.unconnected))
	for _, h := range created {
		if _, ok := w.unconnected[h.FD()]; ok && !h.Closed() {
			acquired = append(acquired, h.Acquired)
		}
	}
	for _, ep := range acquired {
		w.log.Debug("listening on %s", ep)
	}
	if w.opts.Reporter != nil {
		w.opts.Reporter.Report(acquired)
	}
}

// dispatch routes one ready descriptor.  The unconnected set is always
// consulted first; a descriptor promoted here is not looked up again.
func (w *worker) dispatch(ev poller.Event) {
	if h, ok := w.unconnected[ev.FD]; ok {
		w.promote(h)
		return
	}
	if h, ok := w.connected[ev.FD]; ok {
		w.receive(h)
		return
	}
	w.log.Debug("event for unknown fd %d", ev.FD)
}

func (w *worker) promote(h *socket.Handle) {
	fd := h.FD()
	w.log.Debug("new connection on fd %d, %s", fd, h.Acquired)

	payload, from, ok := w.read(h)
	if !ok {
		return
	}

	remote, err := endpoint.FromSockaddr(from)
	if err != nil {
		w.fail("convert sender address on "+h.Acquired.String(), err)
		remote = endpoint.Default()
	} else {
		w.log.Debug("new connection is from remote %s", remote)
	}

	if err := h.Connect(from, remote); err != nil {
		w.opts.Metrics.ConnectFailed()
		w.fail("connect to remote "+remote.String(), err)
		if w.opts.Hooks.OnPromotionFailed != nil {
			w.opts.Hooks.OnPromotionFailed(PromotionFailure{
				Handle: h.Info(),
				Remote: remote,
				Err:    err,
				State:  w.state(),
			})
		}
		return
	}

	delete(w.unconnected, fd)
	w.connected[fd] = h
	w.opts.Metrics.Promoted()
	w.log.Verbose("%s promoted to peer %s (fd %d)", h.Acquired, remote, fd)

	replacement := w.replenish(h)

	w.opts.Handler.HandleDatagram(capability.Datagram{
		FD:      fd,
		Local:   h.Acquired,
		Remote:  remote,
		Payload: payload,
		First:   true,
	})

	if w.opts.Hooks.OnPromote != nil {
		p := Promotion{Promoted: h.Info(), State: w.state()}
		if replacement != nil {
			info := replacement.Info()
			p.Replacement = &info
		}
		w.opts.Hooks.OnPromote(p)
	}
}

// replenish opens a new listener on the promoted handle's address.  On
// failure the endpoint stays without a listener until the session is
// restarted.
func (w *worker) replenish(promoted *socket.Handle) *socket.Handle {
	h, err := w.opts.Factory.Replenish(promoted)
	if err != nil {
		w.opts.Metrics.ReplenishFailed()
		w.fail("set up new socket on "+promoted.Acquired.String(), err)
		return nil
	}
	if err := w.monitor.Register(h.FD()); err != nil {
		h.Close() //nolint:errcheck
		w.opts.Metrics.ReplenishFailed()
		w.fail("monitor new socket on "+promoted.Acquired.String(), err)
		return nil
	}
	w.unconnected[h.FD()] = h
	w.opts.Metrics.SocketListening()
	w.log.Debug("replenished %s with fd %d", h.Acquired, h.FD())
	if w.opts.Hooks.OnReplenished != nil {
		w.opts.Hooks.OnReplenished(h.Info())
	}
	return h
}

// receive reads one datagram from a connected handle.  Connected
// handles never change state.
func (w *worker) receive(h *socket.Handle) {
	w.log.Debug("new message from connected client %s", h.Remote)

	payload, _, ok := w.read(h)
	if !ok {
		return
	}
	w.opts.Handler.HandleDatagram(capability.Datagram{
		FD:      h.FD(),
		Local:   h.Acquired,
		Remote:  h.Remote,
		Payload: payload,
	})
}

// read receives one datagram into the worker's buffer.  A spurious
// wakeup is not an error.
func (w *worker) read(h *socket.Handle) ([]byte, unix.Sockaddr, bool) {
	n, from, err := h.Recv(*w.buf)
	if err != nil {
		if errors.IsWouldBlock(err) {
			w.log.Debug("spurious wakeup on fd %d", h.FD())
		} else {
			w.fail("receive on "+h.Acquired.String(), err)
		}
		return nil, nil, false
	}
	w.opts.Metrics.DatagramReceived(n)
	return (*w.buf)[:n], from, true
}

func (w *worker) shutdown() {
	final := w.state()
	closeSet := func(set map[int]*socket.Handle) {
		for fd, h := range set {
			if err := w.monitor.Unregister(fd); err != nil {
				w.log.Debug("unmonitor fd %d: %v", fd, err)
			}
			h.Close() //nolint:errcheck
		}
	}
	closeSet(w.unconnected)
	closeSet(w.connected)
	w.monitor.Close() //nolint:errcheck

	w.opts.Metrics.SocketsClosed(len(w.unconnected), len(w.connected))
	w.log.Verbose("stopped: closed %d listening and %d connected sockets",
		len(w.unconnected), len(w.connected))

	w.unconnected = map[int]*socket.Handle{}
	w.connected = map[int]*socket.Handle{}

	if w.opts.Hooks.OnStop != nil {
		w.opts.Hooks.OnStop(final)
	}
}

func (w *worker) state() State {
	return snapshot(w.unconnected, w.connected)
}

// fail logs err and records it.  Nothing is returned to the caller of
// Run; the session keeps serving whatever still works.
func (w *worker) fail(what string, err error) {
	w.log.Error("failed to %s: %v", what, err)
	w.opts.Metrics.RecordError(err.Error())
}
