// Package compile turns a timeline project into an explicit processing graph:
// a gapless sequence of video segments, independently placed audio segments,
// and overlay draw operations. The graph is pure data with per-node identity;
// the engine package lowers it to an ffmpeg invocation.
package compile

import (
	"context"
	"errors"
	"log/slog"

	"github.com/cutroom/cutroom/internal/timeline"
)

// Canonical output canvas. Every video segment is normalized to this
// resolution with square pixels before concatenation.
const (
	CanvasWidth  = 1920
	CanvasHeight = 1080
)

// gapEpsilon is the threshold below which timeline gaps are ignored rather
// than filled with black.
const gapEpsilon = 0.01

// ErrEmptyProject marks a project with no clips on any track. It is a
// legitimate "nothing to render" outcome, not a fault.
var ErrEmptyProject = errors.New("project has no clips")

// MediaInfo answers questions about source files the compiler cannot answer
// itself. Implementations probe the filesystem and media streams; tests
// substitute fakes.
type MediaInfo interface {
	Exists(path string) bool
	HasAudio(ctx context.Context, path string) (bool, error)
}

// Profile names the encode quality settings baked into the graph's output
// operation.
type Profile struct {
	Name   string
	Preset string
	CRF    int
}

var (
	ProfilePreview = Profile{Name: "preview", Preset: "ultrafast", CRF: 28}
	ProfileExport  = Profile{Name: "export", Preset: "medium", CRF: 23}
)

// VideoSegment is one entry in the gapless video concatenation. Filler
// segments are synthetic black frames; clip segments reference a trimmed,
// time-remapped range of a source file. ID is a throwaway unique tag so that
// byte-identical segments (two equal black fillers) keep distinct identity
// in the graph.
type VideoSegment struct {
	ID             string
	ClipID         string // empty for fillers
	Filler         bool
	Source         string
	SourceStart    float64
	SourceDuration float64
	Speed          float64
	Duration       float64 // seconds on the output timeline
}

// AudioSegment is one processed audio contribution, already positioned on
// the absolute timeline via DelayMS.
type AudioSegment struct {
	ID             string
	ClipID         string
	Source         string
	SourceStart    float64
	SourceDuration float64
	Speed          float64
	Volume         float64
	DelayMS        int
}

// TextDraw burns a text overlay into the composed video during its window.
// Positions stay fractional so the anchor scales with any frame size.
type TextDraw struct {
	ID       string
	Text     string
	X        float64 // fraction of frame width from the left
	Y        float64 // fraction of frame height from the top (already inverted)
	FontSize int
	FontFam  string
	Color    string
	Start    float64
	End      float64
}

// BoxFill is one axis-aligned rectangle fill. Lines and arrowheads are
// rasterized into runs of these.
type BoxFill struct {
	ID      string
	ShapeID string
	X, Y    int
	W, H    int
	Color   string
	Start   float64
	End     float64
}

// Skip reasons for per-clip best-effort recovery.
const (
	ReasonMissingSource = "missing_source"
	ReasonSilentSource  = "silent_source"
)

// Skip records a clip that was dropped from the graph without aborting the
// render.
type Skip struct {
	ClipID string
	Source string
	Reason string
}

// Graph is the compiled processing graph: exactly one video chain, at most
// one audio chain, draw operations in overlay-list order, and the final
// output quality settings.
type Graph struct {
	Duration float64
	Video    []VideoSegment
	Audio    []AudioSegment
	Texts    []TextDraw
	Boxes    []BoxFill
	Profile  Profile
	Skips    []Skip
}

// HasAudio reports whether the graph produces an audio stream.
func (g *Graph) HasAudio() bool {
	return len(g.Audio) > 0
}

type Compiler struct {
	media  MediaInfo
	logger *slog.Logger
}

func NewCompiler(media MediaInfo, logger *slog.Logger) *Compiler {
	return &Compiler{media: media, logger: logger.With("component", "compile")}
}

// Compile derives the processing graph for a normalized, validated project.
// Per-clip problems (missing or silent sources) are recorded in Graph.Skips;
// only a clipless project is refused, with ErrEmptyProject.
func (c *Compiler) Compile(ctx context.Context, p *timeline.Project, profile Profile) (*Graph, error) {
	if !p.HasClips() {
		return nil, ErrEmptyProject
	}

	g := &Graph{
		Duration: p.EffectiveDuration(),
		Profile:  profile,
	}

	videoSegs, videoSkips := c.compileVideo(p.VideoTrack(), g.Duration)
	g.Video = videoSegs
	g.Skips = append(g.Skips, videoSkips...)

	// No usable video content: the whole visible output is one black frame
	// spanning the effective duration. This branch is independent of the
	// track-walking cursor above.
	if len(g.Video) == 0 {
		g.Video = []VideoSegment{newFiller(g.Duration)}
	}

	audioSegs, audioSkips := c.compileAudio(ctx, p.AudioTracks())
	g.Audio = audioSegs
	g.Skips = append(g.Skips, audioSkips...)

	g.Texts = compileTextOverlays(p.TextOverlays)
	g.Boxes = compileShapeOverlays(p.ShapeOverlays)

	c.logger.Info("compiled graph",
		"project_id", p.ID,
		"duration", g.Duration,
		"video_segments", len(g.Video),
		"audio_segments", len(g.Audio),
		"text_draws", len(g.Texts),
		"box_fills", len(g.Boxes),
		"skipped_clips", len(g.Skips),
	)
	return g, nil
}
