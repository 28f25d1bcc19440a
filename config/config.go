// Package config defines the runtime configuration for dualnet and
// provides helpers for parsing endpoint specifications and ports.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"dualnet/internal/endpoint"
	"dualnet/internal/errors"
)

// Mode selects what the CLI does.
type Mode string

const (
	ModeServe Mode = "serve"
	ModeProbe Mode = "probe"
)

// Config holds every tuneable for a single dualnet run.
type Config struct {
	Mode Mode

	// ── Serve ────────────────────────────────────────────────────────
	BindSpecs    []string            // raw ip[:port] values from -b / DUALNET_BIND
	Endpoints    []endpoint.Endpoint // parsed from BindSpecs by ResolveEndpoints
	PollInterval time.Duration
	MaxEvents    int
	BufSize      int
	DryRun       bool

	// ── Probe ────────────────────────────────────────────────────────
	Host          string
	Port          int
	LocalPort     int // -p: source port (0 = ephemeral)
	Message       string
	Count         int
	ProbeInterval time.Duration
	NoDNS         bool

	// ── Output ───────────────────────────────────────────────────────
	Verbose int
}

// Default returns a serve-mode configuration populated from defaults.go.
func Default() *Config {
	return &Config{
		Mode:          ModeServe,
		PollInterval:  DefaultPollInterval,
		MaxEvents:     DefaultMaxEvents,
		BufSize:       DefaultBufSize,
		Message:       DefaultProbeMessage,
		Count:         DefaultProbeCount,
		ProbeInterval: DefaultProbeInterval,
	}
}

// ── Endpoint helpers ─────────────────────────────────────────────────

// ParseEndpointSpec accepts "ip", "ip:port", "[v6]" or "[v6]:port".  An
// empty spec or a missing port means the wildcard or an ephemeral port
// respectively.
func ParseEndpointSpec(spec string) (endpoint.Endpoint, error) {
	ep, err := endpoint.Parse(strings.TrimSpace(spec))
	if err != nil {
		return endpoint.Endpoint{}, &errors.ConfigError{
			Field:   "bind",
			Value:   spec,
			Message: err.Error(),
			Hint:    "use ip[:port], e.g. 0.0.0.0 or 192.168.1.9:9000 or [::1]:9000",
		}
	}
	return ep, nil
}

// ResolveEndpoints parses BindSpecs into Endpoints.  With no specs the
// wildcard endpoint is served.
func (c *Config) ResolveEndpoints() error {
	specs := c.BindSpecs
	if len(specs) == 0 {
		specs = []string{DefaultBind}
	}
	eps := make([]endpoint.Endpoint, 0, len(specs))
	for _, spec := range specs {
		ep, err := ParseEndpointSpec(spec)
		if err != nil {
			return err
		}
		eps = append(eps, ep)
	}
	c.Endpoints = eps
	return nil
}

// ParsePort accepts a decimal port in 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q", s)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ── Validation ───────────────────────────────────────────────────────

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.PollInterval <= 0 {
		return &errors.ConfigError{
			Field:   "poll-interval",
			Value:   c.PollInterval,
			Message: "must be positive",
			Hint:    "stop latency is at most one poll interval; the default is 5s",
		}
	}
	if c.MaxEvents < 1 {
		return &errors.ConfigError{
			Field:   "max-events",
			Value:   c.MaxEvents,
			Message: "must be at least 1",
		}
	}
	if c.BufSize < 1 || c.BufSize > MaxBufSize {
		return &errors.ConfigError{
			Field:   "buf-size",
			Value:   c.BufSize,
			Message: fmt.Sprintf("must be between 1 and %d", MaxBufSize),
		}
	}

	switch c.Mode {
	case ModeServe, "":
		if len(c.Endpoints) == 0 {
			return &errors.ConfigError{
				Field:   "bind",
				Message: "at least one endpoint is required",
				Hint:    "pass -b 0.0.0.0 to serve the wildcard address",
			}
		}
	case ModeProbe:
		if c.Host == "" {
			return &errors.ConfigError{
				Field:   "host",
				Message: "probe needs a target host",
				Hint:    "dualnet probe <host> <port>",
			}
		}
		if c.Port < 1 || c.Port > 65535 {
			return &errors.ConfigError{
				Field:   "port",
				Value:   c.Port,
				Message: "out of range 1-65535",
				Hint:    "use the port printed by dualnet serve",
			}
		}
		if c.LocalPort < 0 || c.LocalPort > 65535 {
			return &errors.ConfigError{
				Field:   "local-port",
				Value:   c.LocalPort,
				Message: "out of range 0-65535",
			}
		}
		if c.Count < 1 {
			return &errors.ConfigError{
				Field:   "count",
				Value:   c.Count,
				Message: "must be at least 1",
			}
		}
	default:
		return &errors.ConfigError{
			Field:   "mode",
			Value:   string(c.Mode),
			Message: "unknown mode",
			Hint:    "use serve or probe",
		}
	}
	return nil
}
