package engine

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
)

// ProbeResult describes a source container: its duration and which stream
// kinds it carries.
type ProbeResult struct {
	Duration float64
	HasVideo bool
	HasAudio bool
}

// Prober inspects media files. The upload handler uses it for container
// duration; the audio mixer uses it to detect silent sources.
type Prober interface {
	Probe(ctx context.Context, path string) (*ProbeResult, error)
}

// FFprobe shells out to ffprobe and parses its JSON output. It also
// implements compile.MediaInfo so the compiler can ask about sources
// directly.
type FFprobe struct {
	bin    string
	logger *slog.Logger
}

// NewFFprobe resolves the ffprobe binary (binPath overrides PATH lookup).
func NewFFprobe(binPath string, logger *slog.Logger) (*FFprobe, error) {
	bin := binPath
	if bin == "" {
		resolved, err := exec.LookPath("ffprobe")
		if err != nil {
			return nil, fmt.Errorf("ffprobe not found in PATH: %w", err)
		}
		bin = resolved
	}
	return &FFprobe{bin: bin, logger: logger.With("component", "probe")}, nil
}

func (f *FFprobe) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	args := []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	}

	out, err := exec.CommandContext(ctx, f.bin, args...).Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe %s: %w", path, err)
	}

	var probe probeOutput
	if err := json.Unmarshal(out, &probe); err != nil {
		return nil, fmt.Errorf("parse ffprobe output for %s: %w", path, err)
	}

	result := &ProbeResult{}
	if d, err := strconv.ParseFloat(probe.Format.Duration, 64); err == nil {
		result.Duration = d
	}
	for _, s := range probe.Streams {
		switch s.CodecType {
		case "video":
			result.HasVideo = true
		case "audio":
			result.HasAudio = true
		}
	}
	return result, nil
}

// Exists implements compile.MediaInfo.
func (f *FFprobe) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// HasAudio implements compile.MediaInfo.
func (f *FFprobe) HasAudio(ctx context.Context, path string) (bool, error) {
	result, err := f.Probe(ctx, path)
	if err != nil {
		return false, err
	}
	return result.HasAudio, nil
}

// probeOutput matches the ffprobe JSON shape.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
	} `json:"streams"`
}
