package core

import (
	"strings"
	"testing"

	"dualnet/config"
	"dualnet/internal/capability"
	"dualnet/internal/endpoint"
	"dualnet/util"
)

func serveConfig() *config.Config {
	cfg := config.Default()
	cfg.Endpoints = []endpoint.Endpoint{endpoint.Default(), endpoint.New("127.0.0.1", 9000)}
	return cfg
}

// TestBuild_Serve verifies that Build produces a ServeMode carrying the
// session tunables.
func TestBuild_Serve(t *testing.T) {
	cfg := serveConfig()
	cfg.MaxEvents = 64

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	sm, ok := mode.(*ServeMode)
	if !ok {
		t.Fatalf("expected *ServeMode, got %T", mode)
	}
	if len(sm.Endpoints) != 2 {
		t.Errorf("Endpoints = %v", sm.Endpoints)
	}
	if sm.Options.MaxEvents != 64 || sm.Options.PollInterval != config.DefaultPollInterval {
		t.Errorf("Options = %+v", sm.Options)
	}
	if _, ok := sm.Options.Handler.(capability.Discard); !ok {
		t.Errorf("Handler = %T, want Discard", sm.Options.Handler)
	}
}

// TestBuild_ServeDebugHandler verifies payloads are logged at -vvv.
func TestBuild_ServeDebugHandler(t *testing.T) {
	cfg := serveConfig()
	cfg.Verbose = 3

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := mode.(*ServeMode).Options.Handler.(*capability.Log); !ok {
		t.Errorf("Handler = %T, want *capability.Log", mode.(*ServeMode).Options.Handler)
	}
}

func TestBuild_ServeNoEndpoints(t *testing.T) {
	if _, err := Build(config.Default(), util.NewLogger(0)); err == nil {
		t.Fatal("expected error")
	}
}

// TestBuild_Probe verifies Build produces a ProbeMode.
func TestBuild_Probe(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeProbe
	cfg.Host = "192.168.1.9"
	cfg.Port = 40001
	cfg.Count = 4

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	pm, ok := mode.(*ProbeMode)
	if !ok {
		t.Fatalf("expected *ProbeMode, got %T", mode)
	}
	if pm.Address != "192.168.1.9:40001" {
		t.Errorf("Address = %q", pm.Address)
	}
	if pm.Count != 4 || string(pm.Message) != config.DefaultProbeMessage {
		t.Errorf("Count = %d, Message = %q", pm.Count, pm.Message)
	}
	if pm.Backoff == nil || pm.Backoff.MaxAttempts != config.DefaultProbeAttempts {
		t.Errorf("Backoff = %+v", pm.Backoff)
	}
}

func TestBuild_ProbeIPv6Address(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeProbe
	cfg.Host = "::1"
	cfg.Port = 9000

	mode, err := Build(cfg, util.NewLogger(0))
	if err != nil {
		t.Fatal(err)
	}
	if got := mode.(*ProbeMode).Address; got != "[::1]:9000" {
		t.Errorf("Address = %q, want [::1]:9000", got)
	}
}

// TestBuild_NoDNS_Rejects verifies that --no-dns with a hostname fails
// and names the flag.
func TestBuild_NoDNS_Rejects(t *testing.T) {
	cfg := config.Default()
	cfg.Mode = config.ModeProbe
	cfg.Host = "example.com"
	cfg.Port = 80
	cfg.NoDNS = true

	_, err := Build(cfg, util.NewLogger(0))
	if err == nil {
		t.Fatal("expected error for hostname with --no-dns")
	}
	if !strings.Contains(err.Error(), "--no-dns") {
		t.Errorf("error %q should name --no-dns", err)
	}
}

func TestBuild_UnknownMode(t *testing.T) {
	cfg := serveConfig()
	cfg.Mode = "scan"
	if _, err := Build(cfg, util.NewLogger(0)); err == nil {
		t.Fatal("expected error")
	}
}
