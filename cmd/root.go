// Package cmd wires up the CLI flags and dispatches to the core modes.
package cmd

import (
	"context"
	"fmt"
	"os"

	flag "github.com/spf13/pflag"

	"dualnet/config"
	"dualnet/internal/core"
	"dualnet/util"
)

// version is overridable at link time:
//
//	go build -ldflags "-X dualnet/cmd.version=2.0.0"
var version = "0.1.0" //nolint:gochecknoglobals

// Execute parses args and runs the selected dualnet mode.
func Execute(ctx context.Context, args []string) error {
	cfg := config.Default()
	config.LoadFromEnv(cfg)

	if len(args) > 0 {
		switch args[0] {
		case string(config.ModeServe):
			args = args[1:]
		case string(config.ModeProbe):
			cfg.Mode = config.ModeProbe
			args = args[1:]
		}
	}

	fs := flag.NewFlagSet("dualnet", flag.ContinueOnError)

	// ── serve ────────────────────────────────────────────────────
	fs.StringArrayVarP(&cfg.BindSpecs, "bind", "b", cfg.BindSpecs, "Endpoint to serve, ip[:port] (repeatable)")
	fs.DurationVar(&cfg.PollInterval, "poll-interval", cfg.PollInterval, "Bound on each readiness wait (stop latency)")
	fs.IntVar(&cfg.MaxEvents, "max-events", cfg.MaxEvents, "Readiness events drained per wait")
	fs.IntVar(&cfg.BufSize, "buf-size", cfg.BufSize, "Receive buffer size in bytes")

	// ── probe ────────────────────────────────────────────────────
	fs.StringVarP(&cfg.Message, "message", "m", cfg.Message, "Probe payload")
	fs.IntVarP(&cfg.Count, "count", "n", cfg.Count, "Number of probe datagrams")
	fs.IntVarP(&cfg.LocalPort, "local-port", "p", 0, "Probe source port (0 = ephemeral)")
	fs.DurationVar(&cfg.ProbeInterval, "interval", cfg.ProbeInterval, "Pause between probe datagrams")
	fs.BoolVar(&cfg.NoDNS, "no-dns", cfg.NoDNS, "Numeric-only probe target, no DNS resolution")

	// ── output ───────────────────────────────────────────────────
	envVerbose := cfg.Verbose
	fs.CountVarP(&cfg.Verbose, "verbose", "v", "Increase verbosity (repeatable)")
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Validate and print the plan without opening sockets")

	var showVersion, showHelp bool
	fs.BoolVar(&showVersion, "version", false, "Print version and exit")
	fs.BoolVarP(&showHelp, "help", "h", false, "Show this help")

	fs.Usage = func() { printUsage(fs) }

	// ── parse ────────────────────────────────────────────────────
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !fs.Changed("verbose") {
		cfg.Verbose = envVerbose
	}

	if showHelp {
		printUsage(fs)
		return nil
	}
	if showVersion {
		fmt.Printf("dualnet %s\n", version)
		return nil
	}

	// ── positional arguments ─────────────────────────────────────
	if err := parsePositional(cfg, fs.Args()); err != nil {
		return err
	}
	if cfg.Mode == config.ModeServe {
		if err := cfg.ResolveEndpoints(); err != nil {
			return err
		}
	}

	// ── validate ─────────────────────────────────────────────────
	if err := cfg.Validate(); err != nil {
		return err
	}

	if cfg.DryRun && cfg.Mode == config.ModeProbe {
		fmt.Printf("would send %d datagram(s) of %d bytes to %s\n",
			cfg.Count, len(cfg.Message), util.FormatAddr(cfg.Host, cfg.Port))
		return nil
	}

	// ── build and run ────────────────────────────────────────────
	logger := util.NewLogger(cfg.Verbose)

	mode, err := core.Build(cfg, logger)
	if err != nil {
		return err
	}
	return mode.Run(ctx)
}

// ── helpers ──────────────────────────────────────────────────────────

func parsePositional(cfg *config.Config, remaining []string) error {
	if cfg.Mode != config.ModeProbe {
		if len(remaining) > 0 {
			return fmt.Errorf("unexpected argument %q (use -b to add endpoints)", remaining[0])
		}
		return nil
	}

	// probe host port
	switch len(remaining) {
	case 0:
		return fmt.Errorf("hostname required (use --help for usage)")
	case 1:
		return fmt.Errorf("port required")
	case 2:
	default:
		return fmt.Errorf("too many arguments for probe mode")
	}
	cfg.Host = remaining[0]
	port, err := config.ParsePort(remaining[1])
	if err != nil {
		return fmt.Errorf("port: %w", err)
	}
	cfg.Port = port
	return nil
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `dualnet v%s

Keeps one listening UDP socket per endpoint, hands each new peer its
own connected socket, and immediately listens again on the same port.

Usage:
  dualnet [serve] [-b ip[:port]]... [options]   Serve (default: -b 0.0.0.0)
  dualnet probe <host> <port> [options]         Send datagrams to a server

Options:
`, version)
	fs.PrintDefaults()
	fmt.Fprintf(os.Stderr, `
Environment:
  DUALNET_BIND=0.0.0.0,192.168.1.9   DUALNET_POLL_INTERVAL=5 (seconds)
  DUALNET_MAX_EVENTS  DUALNET_BUF_SIZE  DUALNET_NO_DNS  DUALNET_VERBOSE

Examples:
  dualnet -b 0.0.0.0 -b 192.168.1.9 -b 192.168.1.16:9000
  dualnet probe 192.168.1.9 40001 -m ping -n 3
  echo hi | nc -u 192.168.1.9 40001
`)
}
