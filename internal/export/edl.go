// Package export converts a timeline into a CMX3600 EDL so an edit started
// here can be finished in a desktop NLE. Only the video track is exported;
// timeline gaps are preserved through record timecodes.
package export

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/cutroom/cutroom/internal/timeline"
)

// DefaultFrameRate is assumed when the client does not specify one; the
// render pipeline is frame-rate agnostic, so this only affects timecode
// formatting.
const DefaultFrameRate = 30.0

// Cut is one video clip resolved to source and record positions in
// milliseconds.
type Cut struct {
	ClipName  string
	MediaPath string
	SourceIn  int
	SourceOut int
	RecordIn  int
	RecordOut int
}

// FromProject extracts the video track's clips in timeline order.
func FromProject(p *timeline.Project) []Cut {
	track := p.VideoTrack()
	if track == nil {
		return nil
	}

	clips := make([]timeline.Clip, len(track.Clips))
	copy(clips, track.Clips)
	sort.Slice(clips, func(i, j int) bool {
		if clips[i].StartTime != clips[j].StartTime {
			return clips[i].StartTime < clips[j].StartTime
		}
		return clips[i].ID < clips[j].ID
	})

	cuts := make([]Cut, 0, len(clips))
	for _, c := range clips {
		cuts = append(cuts, Cut{
			ClipName:  c.ID,
			MediaPath: c.SourcePath,
			SourceIn:  int(c.SourceStart * 1000),
			SourceOut: int((c.SourceStart + c.SourceDuration()) * 1000),
			RecordIn:  int(c.StartTime * 1000),
			RecordOut: int(c.EndTime * 1000),
		})
	}
	return cuts
}

func GenerateEDL(cuts []Cut, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = int(DefaultFrameRate)
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	for i, cut := range cuts {
		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V",
				msToTimecode(cut.SourceIn, fps),
				msToTimecode(cut.SourceOut, fps),
				msToTimecode(cut.RecordIn, fps),
				msToTimecode(cut.RecordOut, fps)),
			fmt.Sprintf("* FROM CLIP NAME:  %s", cut.ClipName),
			fmt.Sprintf("* MEDIA PATH:  %s", cut.MediaPath),
		)
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func msToTimecode(ms int, fps int) string {
	totalFrames := int(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % fps
	totalSeconds := totalFrames / fps
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
