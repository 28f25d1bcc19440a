package config

import (
	"testing"

	"dualnet/internal/endpoint"
	"dualnet/internal/errors"
)

// ── ParseEndpointSpec ────────────────────────────────────────────────

func TestParseEndpointSpec(t *testing.T) {
	tests := []struct {
		input   string
		want    endpoint.Endpoint
		wantErr bool
	}{
		{"0.0.0.0", endpoint.New("0.0.0.0", 0), false},
		{"192.168.1.9", endpoint.New("192.168.1.9", 0), false},
		{"192.168.1.16:9000", endpoint.New("192.168.1.16", 9000), false},
		{" 127.0.0.1:53 ", endpoint.New("127.0.0.1", 53), false},
		{"[::1]:9000", endpoint.New("::1", 9000), false},
		{"", endpoint.Default(), false},
		{"300.1.1.1", endpoint.Endpoint{}, true},
		{"host.example.com", endpoint.Endpoint{}, true},
		{"127.0.0.1:99999", endpoint.Endpoint{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseEndpointSpec(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if err != nil {
				var ce *errors.ConfigError
				if !errors.As(err, &ce) || ce.Field != "bind" {
					t.Errorf("err = %#v, want *ConfigError for bind", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("got %s, want %s", got, tt.want)
			}
		})
	}
}

func TestResolveEndpoints(t *testing.T) {
	cfg := &Config{BindSpecs: []string{"0.0.0.0", "192.168.1.9", "192.168.1.16:9000"}}
	if err := cfg.ResolveEndpoints(); err != nil {
		t.Fatal(err)
	}
	want := []endpoint.Endpoint{
		endpoint.New("0.0.0.0", 0),
		endpoint.New("192.168.1.9", 0),
		endpoint.New("192.168.1.16", 9000),
	}
	if len(cfg.Endpoints) != len(want) {
		t.Fatalf("got %d endpoints, want %d", len(cfg.Endpoints), len(want))
	}
	for i := range want {
		if cfg.Endpoints[i] != want[i] {
			t.Errorf("endpoint %d = %s, want %s", i, cfg.Endpoints[i], want[i])
		}
	}
}

func TestResolveEndpoints_DefaultWildcard(t *testing.T) {
	cfg := &Config{}
	if err := cfg.ResolveEndpoints(); err != nil {
		t.Fatal(err)
	}
	if len(cfg.Endpoints) != 1 || cfg.Endpoints[0] != endpoint.Default() {
		t.Errorf("endpoints = %v, want [0.0.0.0:0]", cfg.Endpoints)
	}
}

func TestResolveEndpoints_Invalid(t *testing.T) {
	cfg := &Config{BindSpecs: []string{"0.0.0.0", "nope"}}
	if err := cfg.ResolveEndpoints(); err == nil {
		t.Fatal("expected error")
	}
}

// ── ParsePort ────────────────────────────────────────────────────────

func TestParsePort(t *testing.T) {
	tests := []struct {
		input   string
		want    int
		wantErr bool
	}{
		{"80", 80, false},
		{"65535", 65535, false},
		{"0", 0, true},
		{"70000", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParsePort(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr = %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("got %d, want %d", got, tt.want)
			}
		})
	}
}

// ── Validate ─────────────────────────────────────────────────────────

func TestValidate(t *testing.T) {
	serve := func() *Config {
		c := Default()
		c.Endpoints = []endpoint.Endpoint{endpoint.Default()}
		return c
	}
	probe := func() *Config {
		c := Default()
		c.Mode = ModeProbe
		c.Host = "127.0.0.1"
		c.Port = 9000
		return c
	}

	tests := []struct {
		name      string
		cfg       *Config
		wantField string // "" means valid
	}{
		{"serve ok", serve(), ""},
		{"probe ok", probe(), ""},
		{"serve no endpoints", Default(), "bind"},
		{"zero poll interval", func() *Config { c := serve(); c.PollInterval = 0; return c }(), "poll-interval"},
		{"zero max events", func() *Config { c := serve(); c.MaxEvents = 0; return c }(), "max-events"},
		{"huge buffer", func() *Config { c := serve(); c.BufSize = MaxBufSize + 1; return c }(), "buf-size"},
		{"probe no host", func() *Config { c := probe(); c.Host = ""; return c }(), "host"},
		{"probe bad port", func() *Config { c := probe(); c.Port = 0; return c }(), "port"},
		{"probe bad local port", func() *Config { c := probe(); c.LocalPort = -1; return c }(), "local-port"},
		{"probe zero count", func() *Config { c := probe(); c.Count = 0; return c }(), "count"},
		{"unknown mode", func() *Config { c := serve(); c.Mode = "scan"; return c }(), "mode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			var ce *errors.ConfigError
			if !errors.As(err, &ce) {
				t.Fatalf("err = %v, want *ConfigError", err)
			}
			if ce.Field != tt.wantField {
				t.Errorf("field = %q, want %q", ce.Field, tt.wantField)
			}
		})
	}
}

func TestDefault(t *testing.T) {
	c := Default()
	if c.Mode != ModeServe {
		t.Errorf("Mode = %q, want serve", c.Mode)
	}
	if c.PollInterval != DefaultPollInterval || c.MaxEvents != DefaultMaxEvents || c.BufSize != DefaultBufSize {
		t.Errorf("serve defaults = %v/%d/%d", c.PollInterval, c.MaxEvents, c.BufSize)
	}
	if c.Count != DefaultProbeCount || c.Message != DefaultProbeMessage {
		t.Errorf("probe defaults = %d/%q", c.Count, c.Message)
	}
}
