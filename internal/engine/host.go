package engine

import (
	"context"

	"github.com/fable2d/fable/internal/asset"
)

// Host is the runtime's outward-facing side: the play_sound and run_script
// actions delegate to it. The IDE front end supplies a real implementation;
// tests use NopHost or recording fakes.
//
// RunScript receives a context with the configured script deadline already
// applied. A context error maps to SCRIPT_TIMEOUT, any other error to
// SCRIPT_FAILED; neither aborts the tick.
type Host interface {
	PlaySound(ctx context.Context, a asset.Asset) error
	RunScript(ctx context.Context, a asset.Asset, inst *Instance) error
}

// NopHost ignores sounds and runs scripts as no-ops.
type NopHost struct{}

// PlaySound implements Host.
func (NopHost) PlaySound(context.Context, asset.Asset) error { return nil }

// RunScript implements Host.
func (NopHost) RunScript(context.Context, asset.Asset, *Instance) error { return nil }
