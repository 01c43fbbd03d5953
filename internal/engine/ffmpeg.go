package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"

	"github.com/cutroom/cutroom/internal/compile"
)

const (
	// maxStderrBytes is the tail of ffmpeg stderr kept for diagnostics.
	maxStderrBytes = 8 * 1024

	// DefaultRenderTimeout bounds a single engine invocation so a wedged
	// ffmpeg process cannot block its caller forever.
	DefaultRenderTimeout = 10 * time.Minute
)

// FFmpegEngine lowers a compiled graph to an ffmpeg filter graph (via
// ffmpeg-go) and executes it as a subprocess.
type FFmpegEngine struct {
	bin     string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFmpegEngine resolves the ffmpeg binary (binPath overrides PATH lookup)
// and returns a ready engine. timeout <= 0 selects DefaultRenderTimeout.
func NewFFmpegEngine(binPath string, timeout time.Duration, logger *slog.Logger) (*FFmpegEngine, error) {
	bin := binPath
	if bin == "" {
		resolved, err := exec.LookPath("ffmpeg")
		if err != nil {
			return nil, fmt.Errorf("ffmpeg not found in PATH: %w", err)
		}
		bin = resolved
	}
	if timeout <= 0 {
		timeout = DefaultRenderTimeout
	}
	return &FFmpegEngine{
		bin:     bin,
		timeout: timeout,
		logger:  logger.With("component", "engine"),
	}, nil
}

// Render materializes the graph into command arguments and runs ffmpeg.
// A zero exit without the expected output file is still a failure.
func (e *FFmpegEngine) Render(ctx context.Context, g *compile.Graph, outputPath string) error {
	stream := Lower(g, outputPath)
	args := append([]string{"-y", "-hide_banner"}, stream.GetArgs()...)

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	e.logger.Debug("executing ffmpeg", "args", strings.Join(args, " "))

	var stderr tailBuffer
	cmd := exec.CommandContext(ctx, e.bin, args...)
	cmd.Stderr = &stderr

	start := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("%w: render timed out after %s", ErrEngineFailure, e.timeout)
		}
		return fmt.Errorf("%w: %v: %s", ErrEngineFailure, err, stderr.Tail())
	}

	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("%w: engine exited cleanly but wrote no output at %s", ErrEngineFailure, outputPath)
	}

	e.logger.Info("render complete",
		"output", outputPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Lower builds the ffmpeg-go stream graph for a compiled graph. Every
// segment becomes its own input node, so segments with identical parameters
// (two equal black fillers) keep distinct identity in the filter graph.
// Exported separately from Render so the lowering is inspectable in tests
// via Stream.GetArgs without executing anything.
func Lower(g *compile.Graph, outputPath string) *ffmpeg.Stream {
	v := lowerVideo(g)
	streams := []*ffmpeg.Stream{v}
	if a := lowerAudio(g); a != nil {
		streams = append(streams, a)
	}
	return ffmpeg.Output(streams, outputPath, ffmpeg.KwArgs{
		"preset": g.Profile.Preset,
		"crf":    g.Profile.CRF,
	})
}

func lowerVideo(g *compile.Graph) *ffmpeg.Stream {
	parts := make([]*ffmpeg.Stream, 0, len(g.Video))
	for _, s := range g.Video {
		if s.Filler {
			parts = append(parts, fillerInput(s.Duration))
			continue
		}
		v := ffmpeg.Input(s.Source).Get("v").
			Filter("trim", ffmpeg.Args{}, ffmpeg.KwArgs{
				"start":    s.SourceStart,
				"duration": s.SourceDuration,
			}).
			Filter("setpts", ffmpeg.Args{fmt.Sprintf("(PTS-STARTPTS)/%v", s.Speed)}).
			Filter("scale", ffmpeg.Args{fmt.Sprintf("%d:%d", compile.CanvasWidth, compile.CanvasHeight)}).
			Filter("setsar", ffmpeg.Args{"1:1"})
		parts = append(parts, v)
	}

	var v *ffmpeg.Stream
	if len(parts) == 1 {
		v = parts[0]
	} else {
		v = ffmpeg.Concat(parts, ffmpeg.KwArgs{"v": 1, "a": 0})
	}

	for _, t := range g.Texts {
		v = v.Filter("drawtext", ffmpeg.Args{}, ffmpeg.KwArgs{
			"text":        escapeDrawtext(t.Text),
			"fontsize":    t.FontSize,
			"font":        t.FontFam,
			"fontcolor":   t.Color,
			"borderw":     2,
			"bordercolor": "black",
			"x":           textAnchorX(t.X),
			"y":           textAnchorY(t.Y),
			"enable":      enableExpr(t.Start, t.End),
		})
	}
	for _, b := range g.Boxes {
		v = v.Filter("drawbox", ffmpeg.Args{}, ffmpeg.KwArgs{
			"x":      b.X,
			"y":      b.Y,
			"w":      b.W,
			"h":      b.H,
			"color":  b.Color,
			"t":      "fill",
			"enable": enableExpr(b.Start, b.End),
		})
	}
	return v
}

func lowerAudio(g *compile.Graph) *ffmpeg.Stream {
	if !g.HasAudio() {
		return nil
	}

	parts := make([]*ffmpeg.Stream, 0, len(g.Audio))
	for _, s := range g.Audio {
		a := ffmpeg.Input(s.Source).Get("a").
			Filter("atrim", ffmpeg.Args{}, ffmpeg.KwArgs{
				"start":    s.SourceStart,
				"duration": s.SourceDuration,
			}).
			Filter("asetpts", ffmpeg.Args{"PTS-STARTPTS"})
		if s.Speed != 1.0 {
			a = a.Filter("atempo", ffmpeg.Args{fmt.Sprintf("%v", s.Speed)})
		}
		if s.Volume != 1.0 {
			a = a.Filter("volume", ffmpeg.Args{}, ffmpeg.KwArgs{"volume": s.Volume})
		}
		a = a.Filter("aresample", ffmpeg.Args{fmt.Sprintf("%d", compile.MixSampleRate)})
		if s.DelayMS > 0 {
			a = a.Filter("adelay", ffmpeg.Args{}, ffmpeg.KwArgs{
				"delays": fmt.Sprintf("%d|%d", s.DelayMS, s.DelayMS),
			})
		}
		parts = append(parts, a)
	}

	if len(parts) == 1 {
		return parts[0]
	}
	// "longest" keeps late-starting segments: inputs are already shifted to
	// absolute time, so their natural lengths differ by design.
	return ffmpeg.Filter(parts, "amix", ffmpeg.Args{}, ffmpeg.KwArgs{
		"inputs":   len(parts),
		"duration": "longest",
	})
}

func fillerInput(duration float64) *ffmpeg.Stream {
	spec := fmt.Sprintf("color=c=black:s=%dx%d:d=%.4f", compile.CanvasWidth, compile.CanvasHeight, duration)
	return ffmpeg.Input(spec, ffmpeg.KwArgs{"f": "lavfi"}).Get("v")
}

// textAnchorX centers the rendered text on the overlay's horizontal anchor,
// expressed against the frame width so it holds for any dimensions.
func textAnchorX(x float64) string {
	return fmt.Sprintf("(w*%.4f)-(text_w/2)", x)
}

func textAnchorY(y float64) string {
	return fmt.Sprintf("(h*%.4f)-(text_h/2)", y)
}

func enableExpr(start, end float64) string {
	return fmt.Sprintf("between(t,%.3f,%.3f)", start, end)
}

// escapeDrawtext neutralizes characters that are structurally significant to
// drawtext's option syntax. Backslash first, then quote and colon.
func escapeDrawtext(s string) string {
	r := strings.NewReplacer(
		`\`, `\\`,
		`'`, `\'`,
		`:`, `\:`,
	)
	return r.Replace(s)
}

// tailBuffer keeps only the last maxStderrBytes written to it.
type tailBuffer struct {
	buf bytes.Buffer
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.buf.Write(p)
	if t.buf.Len() > maxStderrBytes {
		data := t.buf.Bytes()
		trimmed := make([]byte, maxStderrBytes)
		copy(trimmed, data[len(data)-maxStderrBytes:])
		t.buf.Reset()
		t.buf.Write(trimmed)
	}
	return len(p), nil
}

func (t *tailBuffer) Tail() string {
	return strings.TrimSpace(t.buf.String())
}
