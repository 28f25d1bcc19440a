package config

// loader.go - configuration loading from environment variables.
//
// Precedence order (highest wins):
//   1. CLI flags  (handled by cmd/root.go)
//   2. Environment variables  (this file)
//   3. Defaults   (defaults.go)

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// ── Environment variable mapping ─────────────────────────────────────
//
// Every supported env var uses the DUALNET_ prefix.  Boolean values
// accept "1", "true", "yes" (case-insensitive).

// LoadFromEnv overlays environment variables onto cfg.  Only non-empty,
// well-formed env vars override the existing value.  This should be
// called BEFORE CLI flag parsing so that flags take precedence.
func LoadFromEnv(cfg *Config) {
	if v := os.Getenv("DUALNET_BIND"); v != "" {
		cfg.BindSpecs = envList(v)
	}
	if v := envInt("DUALNET_POLL_INTERVAL"); v > 0 {
		cfg.PollInterval = secondsDuration(v)
	}
	if v := envInt("DUALNET_MAX_EVENTS"); v > 0 {
		cfg.MaxEvents = v
	}
	if v := envInt("DUALNET_BUF_SIZE"); v > 0 {
		cfg.BufSize = v
	}
	if envBool("DUALNET_NO_DNS") {
		cfg.NoDNS = true
	}

	// Output
	if v := envInt("DUALNET_VERBOSE"); v > 0 {
		cfg.Verbose = v
	}
}

// ── helpers ──────────────────────────────────────────────────────────

func envInt(key string) int {
	v := os.Getenv(key)
	if v == "" {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}

func envBool(key string) bool {
	v := strings.ToLower(os.Getenv(key))
	return v == "1" || v == "true" || v == "yes"
}

// envList splits a comma-separated value, dropping empty items.
func envList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func secondsDuration(sec int) time.Duration {
	return time.Duration(sec) * time.Second
}
