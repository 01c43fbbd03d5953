// Package timeline holds the in-memory edit model sent by clients: a project
// of tracks, clips and overlays. The model is pure data; it is validated once
// and consumed by the compiler, never persisted.
package timeline

import (
	"encoding/json"
	"fmt"
)

type TrackType string

const (
	TrackVideo TrackType = "video"
	TrackAudio TrackType = "audio"
	// TrackAV carries audio extracted from a video clip; it mixes like a
	// plain audio track.
	TrackAV TrackType = "av"
)

type MediaType string

const (
	MediaVideo MediaType = "video"
	MediaAudio MediaType = "audio"
)

type Project struct {
	ID     string  `json:"id"`
	Tracks []Track `json:"tracks"`
	// Duration is advisory; the compiler recomputes the effective duration
	// from clip end times.
	Duration      float64        `json:"duration"`
	TextOverlays  []TextOverlay  `json:"text_overlays"`
	ShapeOverlays []ShapeOverlay `json:"shape_overlays"`
}

type Track struct {
	ID    string    `json:"id"`
	Type  TrackType `json:"type"`
	Clips []Clip    `json:"clips"`
}

type Clip struct {
	ID          string    `json:"id"`
	TrackID     string    `json:"track_id"`
	SourcePath  string    `json:"source_path"`
	StartTime   float64   `json:"start_time"`
	EndTime     float64   `json:"end_time"`
	SourceStart float64   `json:"source_start"`
	Type        MediaType `json:"type"`
	Volume      float64   `json:"volume"`
	Speed       float64   `json:"speed"`
	ZIndex      int       `json:"z_index"`
	LinkedID    string    `json:"linked_id,omitempty"`
}

// UnmarshalJSON applies field defaults before decoding so every decoded clip
// carries a concrete volume and speed. An explicit 0 survives; only absent
// fields get the default.
func (c *Clip) UnmarshalJSON(data []byte) error {
	type alias Clip
	a := alias{Volume: 1.0, Speed: 1.0}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Clip(a)
	return nil
}

type TextOverlay struct {
	ID        string  `json:"id"`
	Text      string  `json:"text"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
	X         float64 `json:"x"` // percent from left edge
	Y         float64 `json:"y"` // percent from bottom edge
	FontSize  int     `json:"font_size"`
	FontFam   string  `json:"font_family"`
	Color     string  `json:"color"`
}

func (o *TextOverlay) UnmarshalJSON(data []byte) error {
	type alias TextOverlay
	a := alias{X: 50.0, Y: 10.0, FontSize: 48, FontFam: "Sans", Color: "white"}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = TextOverlay(a)
	return nil
}

type ShapeType string

const (
	ShapeLine  ShapeType = "line"
	ShapeArrow ShapeType = "arrow"
)

type ShapeOverlay struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Type      ShapeType `json:"type"`
	StartTime float64   `json:"start_time"`
	EndTime   float64   `json:"end_time"`
	X1        float64   `json:"x1"` // percent from left
	Y1        float64   `json:"y1"` // percent from bottom
	X2        float64   `json:"x2"`
	Y2        float64   `json:"y2"`
	Color     string    `json:"color"`
	Width     int       `json:"width"` // stroke width in pixels
}

func (o *ShapeOverlay) UnmarshalJSON(data []byte) error {
	type alias ShapeOverlay
	a := alias{X1: 10.0, Y1: 10.0, X2: 90.0, Y2: 10.0, Color: "white", Width: 3}
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*o = ShapeOverlay(a)
	return nil
}

// Normalize fixes up zero values on programmatically constructed projects.
// A zero speed would divide by zero during time remapping, and a zero stroke
// width would rasterize nothing; both get their documented defaults. Volume
// is left alone because an explicit 0 means mute.
func (p *Project) Normalize() {
	for ti := range p.Tracks {
		for ci := range p.Tracks[ti].Clips {
			c := &p.Tracks[ti].Clips[ci]
			if c.Speed <= 0 {
				c.Speed = 1.0
			}
		}
	}
	for i := range p.TextOverlays {
		o := &p.TextOverlays[i]
		if o.FontSize <= 0 {
			o.FontSize = 48
		}
		if o.FontFam == "" {
			o.FontFam = "Sans"
		}
		if o.Color == "" {
			o.Color = "white"
		}
	}
	for i := range p.ShapeOverlays {
		o := &p.ShapeOverlays[i]
		if o.Width <= 0 {
			o.Width = 3
		}
		if o.Color == "" {
			o.Color = "white"
		}
	}
}

// Validate checks structural invariants: non-negative times, end after start,
// and at most one video track per project.
func (p *Project) Validate() error {
	videoTracks := 0
	for _, t := range p.Tracks {
		if t.Type == TrackVideo {
			videoTracks++
		}
		for _, c := range t.Clips {
			if c.StartTime < 0 || c.SourceStart < 0 {
				return fmt.Errorf("clip %s: negative time", c.ID)
			}
			if c.EndTime <= c.StartTime {
				return fmt.Errorf("clip %s: end_time %.3f must be after start_time %.3f", c.ID, c.EndTime, c.StartTime)
			}
		}
	}
	if videoTracks > 1 {
		return fmt.Errorf("project %s: %d video tracks, at most one is allowed", p.ID, videoTracks)
	}
	for _, o := range p.TextOverlays {
		if o.StartTime < 0 || o.EndTime <= o.StartTime {
			return fmt.Errorf("text overlay %s: invalid window [%.3f, %.3f)", o.ID, o.StartTime, o.EndTime)
		}
	}
	for _, o := range p.ShapeOverlays {
		if o.StartTime < 0 || o.EndTime <= o.StartTime {
			return fmt.Errorf("shape overlay %s: invalid window [%.3f, %.3f)", o.ID, o.StartTime, o.EndTime)
		}
	}
	return nil
}

// VideoTrack returns the project's video track, or nil if there is none.
func (p *Project) VideoTrack() *Track {
	for i := range p.Tracks {
		if p.Tracks[i].Type == TrackVideo {
			return &p.Tracks[i]
		}
	}
	return nil
}

// AudioTracks returns every audio-bearing track, including audio extracted
// from video clips.
func (p *Project) AudioTracks() []*Track {
	var tracks []*Track
	for i := range p.Tracks {
		if p.Tracks[i].Type == TrackAudio || p.Tracks[i].Type == TrackAV {
			tracks = append(tracks, &p.Tracks[i])
		}
	}
	return tracks
}

// HasClips reports whether any track contains at least one clip.
func (p *Project) HasClips() bool {
	for _, t := range p.Tracks {
		if len(t.Clips) > 0 {
			return true
		}
	}
	return false
}

// EffectiveDuration is the rendered length in seconds: the maximum clip end
// time across every track. The advisory Duration field is ignored.
func (p *Project) EffectiveDuration() float64 {
	var max float64
	for _, t := range p.Tracks {
		for _, c := range t.Clips {
			if c.EndTime > max {
				max = c.EndTime
			}
		}
	}
	return max
}

// SourceDuration is the span of source material a clip consumes: timeline
// duration scaled by playback speed.
func (c *Clip) SourceDuration() float64 {
	return (c.EndTime - c.StartTime) * c.Speed
}

// TimelineDuration is the clip's length on the output timeline.
func (c *Clip) TimelineDuration() float64 {
	return c.EndTime - c.StartTime
}
