package core

import (
	"fmt"
	"net"
	"os"
	"time"

	"dualnet/config"
	"dualnet/internal/capability"
	"dualnet/internal/retry"
	"dualnet/internal/session"
	"dualnet/internal/transport"
	"dualnet/util"
)

// Build constructs the appropriate Mode from the given configuration.
// cfg must already be validated.
func Build(cfg *config.Config, logger *util.Logger) (Mode, error) {
	switch cfg.Mode {
	case config.ModeProbe:
		return buildProbe(cfg, logger)
	case config.ModeServe, "":
		return buildServe(cfg, logger)
	default:
		return nil, fmt.Errorf("unknown mode %q", cfg.Mode)
	}
}

// ── mode builders ────────────────────────────────────────────────────

func buildServe(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, fmt.Errorf("serve mode needs at least one endpoint")
	}
	return &ServeMode{
		Endpoints: cfg.Endpoints,
		Options: session.Options{
			Handler:      buildHandler(cfg, logger),
			Logger:       logger,
			PollInterval: cfg.PollInterval,
			MaxEvents:    cfg.MaxEvents,
			BufSize:      cfg.BufSize,
		},
		DryRun:  cfg.DryRun,
		Verbose: cfg.Verbose,
		Logger:  logger,
	}, nil
}

func buildProbe(cfg *config.Config, logger *util.Logger) (Mode, error) {
	if cfg.NoDNS && net.ParseIP(cfg.Host) == nil {
		return nil, fmt.Errorf(
			"cannot parse %q as an IP address (DNS disabled with --no-dns)",
			cfg.Host)
	}

	message := cfg.Message
	if message == "" {
		message = config.DefaultProbeMessage
	}
	count := cfg.Count
	if count < 1 {
		count = config.DefaultProbeCount
	}

	backoff := retry.ProbeBackoff(config.DefaultProbeAttempts)
	probeLog := logger.Named("probe")
	backoff.OnRetry = func(attempt int, err error, wait time.Duration) {
		probeLog.Verbose("attempt %d failed: %v; retrying in %v", attempt, err, wait.Truncate(time.Millisecond))
	}

	return &ProbeMode{
		Dialer:   &transport.UDPDialer{LocalPort: cfg.LocalPort},
		Address:  util.FormatAddr(cfg.Host, cfg.Port),
		Message:  []byte(message),
		Count:    count,
		Interval: cfg.ProbeInterval,
		Backoff:  backoff,
		Logger:   probeLog,
		Stdout:   os.Stdout,
	}, nil
}

// ── shared helpers ───────────────────────────────────────────────────

// buildHandler selects what happens to received payloads.  Payloads
// are only looked at when debugging.
func buildHandler(cfg *config.Config, logger *util.Logger) capability.Handler {
	if cfg.Verbose >= int(util.LogDebug) {
		return &capability.Log{Logger: logger.Named("datagram")}
	}
	return capability.Discard{}
}
