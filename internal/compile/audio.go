package compile

import (
	"context"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/timeline"
)

// MixSampleRate is the fixed rate every audio segment is resampled to before
// mixing.
const MixSampleRate = 48000

// compileAudio processes every clip of every audio-bearing track
// independently of the video cursor. Each usable clip becomes one segment
// positioned on the absolute timeline by its delay; missing files and
// sources without an audio stream are skipped, never fatal.
func (c *Compiler) compileAudio(ctx context.Context, tracks []*timeline.Track) ([]AudioSegment, []Skip) {
	var (
		segments []AudioSegment
		skips    []Skip
	)

	for _, track := range tracks {
		for _, clip := range track.Clips {
			if !c.media.Exists(clip.SourcePath) {
				c.logger.Warn("audio source not found, skipping clip",
					"clip_id", clip.ID, "source", clip.SourcePath)
				skips = append(skips, Skip{ClipID: clip.ID, Source: clip.SourcePath, Reason: ReasonMissingSource})
				continue
			}

			hasAudio, err := c.media.HasAudio(ctx, clip.SourcePath)
			if err != nil {
				// A source we cannot probe contributes nothing; treat it
				// like a silent source rather than aborting the mix.
				c.logger.Warn("audio probe failed, skipping clip",
					"clip_id", clip.ID, "source", clip.SourcePath, "error", err)
				skips = append(skips, Skip{ClipID: clip.ID, Source: clip.SourcePath, Reason: ReasonSilentSource})
				continue
			}
			if !hasAudio {
				c.logger.Warn("source has no audio stream, skipping clip",
					"clip_id", clip.ID, "source", clip.SourcePath)
				skips = append(skips, Skip{ClipID: clip.ID, Source: clip.SourcePath, Reason: ReasonSilentSource})
				continue
			}

			segments = append(segments, AudioSegment{
				ID:             uuid.NewString(),
				ClipID:         clip.ID,
				Source:         clip.SourcePath,
				SourceStart:    clip.SourceStart,
				SourceDuration: clip.SourceDuration(),
				Speed:          clip.Speed,
				Volume:         clip.Volume,
				DelayMS:        int(clip.StartTime * 1000),
			})
		}
	}

	return segments, skips
}
