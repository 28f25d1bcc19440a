package core

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"dualnet/internal/errors"
	"dualnet/internal/retry"
	"dualnet/internal/transport"
	"dualnet/util"
)

// ProbeMode sends Count datagrams from one local socket to Address so
// a serving dualnet promotes a listener to that peer.
type ProbeMode struct {
	Dialer   transport.Dialer
	Address  string
	Message  []byte
	Count    int
	Interval time.Duration  // pause between datagrams
	Backoff  *retry.Backoff // per-datagram retry; nil sends once
	Logger   *util.Logger

	// Stdout defaults to os.Stdout when nil.
	Stdout io.Writer
}

func (m *ProbeMode) stdout() io.Writer {
	if m.Stdout != nil {
		return m.Stdout
	}
	return os.Stdout
}

// Run dials Address and sends the datagrams.  Every datagram leaves
// from the same source port so the server sees a single peer.
func (m *ProbeMode) Run(ctx context.Context) error {
	defer m.Dialer.Close()

	conn, err := m.Dialer.Dial(ctx, m.Address)
	if err != nil {
		return fmt.Errorf("probe %s: %w", m.Address, err)
	}
	defer conn.Close()

	m.Logger.Verbose("probing %s from %s", m.Address, conn.LocalAddr())

	backoff := retry.Backoff{MaxAttempts: 1}
	if m.Backoff != nil {
		backoff = *m.Backoff
	}
	if backoff.Retryable == nil {
		// Only a refusal from a previous datagram is worth retrying.
		backoff.Retryable = errors.IsRefused
	}

	sent := 0
	for i := 1; i <= m.Count; i++ {
		err := backoff.Do(ctx, func(int) error {
			_, err := conn.Write(m.Message)
			return err
		})
		if err != nil {
			return fmt.Errorf("probe %d/%d to %s: %w", i, m.Count, m.Address, err)
		}
		sent++
		m.Logger.Debug("sent %d bytes to %s (%d/%d)", len(m.Message), m.Address, i, m.Count)

		if i < m.Count && m.Interval > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(m.Interval):
			}
		}
	}

	fmt.Fprintf(m.stdout(), "sent %d datagram(s) to %s from %s\n", sent, m.Address, conn.LocalAddr())
	return nil
}
