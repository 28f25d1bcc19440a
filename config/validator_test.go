package config

import (
	"strings"
	"testing"

	"dualnet/internal/endpoint"
)

// TestValidate_ErrorMessages verifies that Validate returns actionable
// error messages with hints.
func TestValidate_ErrorMessages(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantSub string // substring expected in error
	}{
		{
			name:    "no endpoints has hint",
			cfg:     Config{PollInterval: 1, MaxEvents: 1, BufSize: 1},
			wantSub: "hint: pass -b 0.0.0.0",
		},
		{
			name:    "poll interval has hint",
			cfg:     Config{MaxEvents: 1, BufSize: 1},
			wantSub: "hint:",
		},
		{
			name:    "probe without host",
			cfg:     Config{Mode: ModeProbe, PollInterval: 1, MaxEvents: 1, BufSize: 1},
			wantSub: "dualnet probe <host> <port>",
		},
		{
			name: "buffer range in message",
			cfg: Config{
				PollInterval: 1, MaxEvents: 1, BufSize: 70000,
				Endpoints: []endpoint.Endpoint{endpoint.Default()},
			},
			wantSub: "--buf-size=70000: must be between 1 and 65535",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err.Error(), tt.wantSub)
			}
		})
	}
}
