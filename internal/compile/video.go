package compile

import (
	"sort"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/timeline"
)

func newFiller(duration float64) VideoSegment {
	return VideoSegment{
		ID:       uuid.NewString(),
		Filler:   true,
		Duration: duration,
	}
}

// compileVideo walks the video track's clips in time order and emits a
// segment sequence that spans [0, effective) with no gaps: black filler where
// the track is silent, a trimmed and time-remapped segment per clip. Clips
// whose source file is missing are skipped; the cursor is left untouched so
// the next gap filler covers their span.
func (c *Compiler) compileVideo(track *timeline.Track, effective float64) ([]VideoSegment, []Skip) {
	if track == nil || len(track.Clips) == 0 {
		return nil, nil
	}

	clips := make([]timeline.Clip, len(track.Clips))
	copy(clips, track.Clips)
	sort.Slice(clips, func(i, j int) bool {
		if clips[i].StartTime != clips[j].StartTime {
			return clips[i].StartTime < clips[j].StartTime
		}
		return clips[i].ID < clips[j].ID
	})

	var (
		segments []VideoSegment
		skips    []Skip
		current  float64
	)

	for _, clip := range clips {
		if !c.media.Exists(clip.SourcePath) {
			c.logger.Warn("video source not found, skipping clip",
				"clip_id", clip.ID, "source", clip.SourcePath)
			skips = append(skips, Skip{ClipID: clip.ID, Source: clip.SourcePath, Reason: ReasonMissingSource})
			continue
		}

		if gap := clip.StartTime - current; gap > gapEpsilon {
			segments = append(segments, newFiller(gap))
		}

		segments = append(segments, VideoSegment{
			ID:             uuid.NewString(),
			ClipID:         clip.ID,
			Source:         clip.SourcePath,
			SourceStart:    clip.SourceStart,
			SourceDuration: clip.SourceDuration(),
			Speed:          clip.Speed,
			Duration:       clip.TimelineDuration(),
		})

		current = clip.EndTime
	}

	// Audio content may outlast the video track; pad the tail with black.
	if len(segments) > 0 {
		if tail := effective - current; tail > gapEpsilon {
			segments = append(segments, newFiller(tail))
		}
	}

	return segments, skips
}
