// Package core is the orchestration layer.  It composes the session,
// reporters and transports into complete operational modes and
// provides a builder that selects the right mode from a Config.
//
// Architecture layers (bottom → top):
//
//	endpoint/socket/poller  →  session  →  core  →  cmd (CLI)
package core

import "context"

// Mode is a complete operational mode of dualnet (serve or probe).
// Each mode owns its full lifecycle and returns when ctx is cancelled
// or its work is done.
type Mode interface {
	Run(ctx context.Context) error
}
