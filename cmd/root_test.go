package cmd

import (
	"context"
	"strings"
	"testing"

	"dualnet/internal/errors"
)

// TestExecute_Version verifies --version prints a version string.
func TestExecute_Version(t *testing.T) {
	if err := Execute(context.Background(), []string{"--version"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExecute_Help(t *testing.T) {
	for _, args := range [][]string{{"--help"}, {"probe", "-h"}} {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRun verifies --dry-run validates and exits cleanly.
func TestExecute_DryRun(t *testing.T) {
	tests := [][]string{
		{"--dry-run"},
		{"serve", "--dry-run"},
		{"-b", "0.0.0.0", "-b", "127.0.0.1:9000", "--dry-run"},
		{"probe", "127.0.0.1", "9000", "-m", "ping", "-n", "3", "--dry-run"},
	}
	for _, args := range tests {
		t.Run(strings.Join(args, " "), func(t *testing.T) {
			if err := Execute(context.Background(), args); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
		})
	}
}

// TestExecute_DryRunInvalid verifies --dry-run still catches bad configs.
func TestExecute_DryRunInvalid(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantField string
	}{
		{"bad bind", []string{"-b", "300.1.1.1", "--dry-run"}, "bind"},
		{"zero max events", []string{"--max-events", "0", "--dry-run"}, "max-events"},
		{"huge buffer", []string{"--buf-size", "100000", "--dry-run"}, "buf-size"},
		{"zero count", []string{"probe", "127.0.0.1", "9000", "-n", "0", "--dry-run"}, "count"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Execute(context.Background(), tt.args)
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

func TestExecute_ProbeArgs(t *testing.T) {
	tests := []struct {
		args    []string
		wantSub string
	}{
		{[]string{"probe", "--dry-run"}, "hostname required"},
		{[]string{"probe", "127.0.0.1", "--dry-run"}, "port required"},
		{[]string{"probe", "127.0.0.1", "99999", "--dry-run"}, "out of range"},
		{[]string{"probe", "a", "1", "extra", "--dry-run"}, "too many arguments"},
	}
	for _, tt := range tests {
		t.Run(strings.Join(tt.args, " "), func(t *testing.T) {
			err := Execute(context.Background(), tt.args)
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.wantSub) {
				t.Errorf("error %q should contain %q", err, tt.wantSub)
			}
		})
	}
}

// TestExecute_ServePositional rejects stray arguments in serve mode.
func TestExecute_ServePositional(t *testing.T) {
	err := Execute(context.Background(), []string{"0.0.0.0", "--dry-run"})
	if err == nil || !strings.Contains(err.Error(), "use -b") {
		t.Fatalf("err = %v, want hint about -b", err)
	}
}

// TestExecute_EnvBind verifies DUALNET_BIND is honoured and validated.
func TestExecute_EnvBind(t *testing.T) {
	t.Setenv("DUALNET_BIND", "127.0.0.1,not-an-ip")
	err := Execute(context.Background(), []string{"--dry-run"})
	if err == nil {
		t.Fatal("expected error from invalid DUALNET_BIND entry")
	}

	// A flag replaces the env list entirely.
	if err := Execute(context.Background(), []string{"-b", "127.0.0.1", "--dry-run"}); err != nil {
		t.Fatalf("flag should override env: %v", err)
	}
}

// TestExecute_InvalidFlags verifies unknown flags produce an error.
func TestExecute_InvalidFlags(t *testing.T) {
	if err := Execute(context.Background(), []string{"--nonexistent-flag"}); err == nil {
		t.Fatal("expected error for unknown flag")
	}
}
