// Package application orchestrates the per-frame exchange with the engine:
// it merges caller commands with add-on commands, transmits them as one
// ordered batch, and fans the decoded response out to every add-on.
package application

import (
	"github.com/avass/simstep/internal/domain"
	"github.com/avass/simstep/internal/output"
)

// Registrar is the only orchestrator surface hooks may touch. Registering an
// add-on during the initialization pass initializes it within the same pass;
// registering during a pre-send or post-receive hook defers it to the next
// frame's initialization pass.
type Registrar interface {
	Register(a AddOn)
}

// AddOn is a stateful plugin observing every frame exchange. Hooks run
// synchronously on the frame loop's goroutine, one frame at a time, so add-on
// state needs no locking. An add-on wanting multi-frame behavior exposes a
// query the caller polls across successive Step calls; hooks must never
// block waiting for a future frame.
//
// Add-ons are expected to be defensive: a frame without the payloads they
// care about means "no update", not an error.
type AddOn interface {
	// Initialize runs exactly once per add-on lifetime, before the first
	// frame the add-on participates in, even when the add-on was registered
	// mid-run. Returned commands join that frame's outgoing batch.
	Initialize(reg Registrar) ([]domain.Command, error)

	// BeforeSend sees the outgoing batch built so far. It may inspect or
	// append commands; it can never remove them.
	BeforeSend(batch *domain.Batch) error

	// AfterReceive sees the full decoded response batch. Returned commands
	// are queued for the next frame's outgoing batch. The frame and any
	// views derived from it must not be retained after the hook returns.
	AfterReceive(frame *output.Frame, reg Registrar) ([]domain.Command, error)
}
