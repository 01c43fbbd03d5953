// Package engine executes compiled processing graphs. The compiler never
// talks to ffmpeg directly; it hands a compile.Graph to an Engine, which
// lowers it to a concrete command and runs it. Keeping the engine behind an
// interface lets every compiler and orchestrator test run without media
// tooling installed.
package engine

import (
	"context"
	"errors"

	"github.com/cutroom/cutroom/internal/compile"
)

// ErrEngineFailure wraps any failure reported by the external media engine:
// a non-zero exit, a start failure, or a missing output file after an
// apparently clean run.
var ErrEngineFailure = errors.New("media engine failure")

// Engine renders a compiled graph to a media file on disk.
type Engine interface {
	Render(ctx context.Context, g *compile.Graph, outputPath string) error
}
