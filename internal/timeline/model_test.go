package timeline

import (
	"encoding/json"
	"testing"
)

func TestClipUnmarshal_Defaults(t *testing.T) {
	data := []byte(`{"id":"c1","track_id":"t1","source_path":"/media/a.mp4","start_time":0,"end_time":5,"source_start":0,"type":"video"}`)

	var c Clip
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if c.Volume != 1.0 {
		t.Errorf("Volume = %v, want default 1.0", c.Volume)
	}
	if c.Speed != 1.0 {
		t.Errorf("Speed = %v, want default 1.0", c.Speed)
	}
}

func TestClipUnmarshal_ExplicitZeroVolumeSurvives(t *testing.T) {
	data := []byte(`{"id":"c1","start_time":0,"end_time":5,"volume":0}`)

	var c Clip
	if err := json.Unmarshal(data, &c); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if c.Volume != 0 {
		t.Errorf("Volume = %v, want explicit 0 preserved", c.Volume)
	}
}

func TestTextOverlayUnmarshal_Defaults(t *testing.T) {
	data := []byte(`{"id":"o1","text":"hello","start_time":1,"end_time":3}`)

	var o TextOverlay
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if o.X != 50.0 || o.Y != 10.0 {
		t.Errorf("position = (%v, %v), want (50, 10)", o.X, o.Y)
	}
	if o.FontSize != 48 || o.FontFam != "Sans" || o.Color != "white" {
		t.Errorf("font = %d %q %q, want 48 Sans white", o.FontSize, o.FontFam, o.Color)
	}
}

func TestShapeOverlayUnmarshal_Defaults(t *testing.T) {
	data := []byte(`{"id":"s1","type":"line","start_time":0,"end_time":2}`)

	var o ShapeOverlay
	if err := json.Unmarshal(data, &o); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if o.X1 != 10 || o.Y1 != 10 || o.X2 != 90 || o.Y2 != 10 {
		t.Errorf("endpoints = (%v,%v)-(%v,%v), want (10,10)-(90,10)", o.X1, o.Y1, o.X2, o.Y2)
	}
	if o.Width != 3 || o.Color != "white" {
		t.Errorf("stroke = %d %q, want 3 white", o.Width, o.Color)
	}
}

func TestProjectUnmarshal_Full(t *testing.T) {
	data := []byte(`{
		"id": "p1",
		"tracks": [
			{"id": "t1", "type": "video", "clips": [
				{"id": "c1", "track_id": "t1", "source_path": "/u/a.mp4", "start_time": 0, "end_time": 5, "source_start": 2, "type": "video", "speed": 2.0}
			]},
			{"id": "t2", "type": "av", "clips": [
				{"id": "c2", "track_id": "t2", "source_path": "/u/a.mp4", "start_time": 0, "end_time": 5, "source_start": 2, "type": "audio", "linked_id": "c1"}
			]}
		],
		"duration": 99,
		"text_overlays": [{"id": "o1", "text": "hi", "start_time": 0, "end_time": 1}],
		"shape_overlays": [{"id": "s1", "type": "arrow", "start_time": 0, "end_time": 1}]
	}`)

	var p Project
	if err := json.Unmarshal(data, &p); err != nil {
		t.Fatalf("Unmarshal error = %v", err)
	}
	if len(p.Tracks) != 2 || len(p.TextOverlays) != 1 || len(p.ShapeOverlays) != 1 {
		t.Fatalf("unexpected shape: %d tracks, %d texts, %d shapes", len(p.Tracks), len(p.TextOverlays), len(p.ShapeOverlays))
	}
	if p.Tracks[0].Clips[0].Speed != 2.0 {
		t.Errorf("Speed = %v, want explicit 2.0", p.Tracks[0].Clips[0].Speed)
	}
	if p.Tracks[1].Clips[0].LinkedID != "c1" {
		t.Errorf("LinkedID = %q, want c1", p.Tracks[1].Clips[0].LinkedID)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		project Project
		wantErr bool
	}{
		{
			name: "valid",
			project: Project{ID: "p", Tracks: []Track{
				{ID: "t", Type: TrackVideo, Clips: []Clip{{ID: "c", StartTime: 0, EndTime: 5, Speed: 1, Volume: 1}}},
			}},
		},
		{
			name: "end before start",
			project: Project{ID: "p", Tracks: []Track{
				{ID: "t", Type: TrackVideo, Clips: []Clip{{ID: "c", StartTime: 5, EndTime: 5, Speed: 1}}},
			}},
			wantErr: true,
		},
		{
			name: "negative start",
			project: Project{ID: "p", Tracks: []Track{
				{ID: "t", Type: TrackAudio, Clips: []Clip{{ID: "c", StartTime: -1, EndTime: 5, Speed: 1}}},
			}},
			wantErr: true,
		},
		{
			name: "two video tracks",
			project: Project{ID: "p", Tracks: []Track{
				{ID: "t1", Type: TrackVideo},
				{ID: "t2", Type: TrackVideo},
			}},
			wantErr: true,
		},
		{
			name: "bad overlay window",
			project: Project{ID: "p", TextOverlays: []TextOverlay{
				{ID: "o", StartTime: 3, EndTime: 2},
			}},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.project.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestEffectiveDuration_IgnoresAdvisoryField(t *testing.T) {
	p := Project{
		Duration: 99,
		Tracks: []Track{
			{Type: TrackVideo, Clips: []Clip{{ID: "a", StartTime: 0, EndTime: 5}}},
			{Type: TrackAudio, Clips: []Clip{{ID: "b", StartTime: 2, EndTime: 12}}},
		},
	}
	if got := p.EffectiveDuration(); got != 12 {
		t.Errorf("EffectiveDuration() = %v, want 12 (max clip end, any track)", got)
	}
}

func TestEffectiveDuration_Empty(t *testing.T) {
	p := Project{Duration: 42}
	if got := p.EffectiveDuration(); got != 0 {
		t.Errorf("EffectiveDuration() = %v, want 0", got)
	}
}

func TestSourceDuration_SpeedScales(t *testing.T) {
	c := Clip{StartTime: 1, EndTime: 4, Speed: 2.0}
	if got := c.SourceDuration(); got != 6.0 {
		t.Errorf("SourceDuration() = %v, want 6 (timeline 3s at 2x)", got)
	}
	if got := c.TimelineDuration(); got != 3.0 {
		t.Errorf("TimelineDuration() = %v, want 3", got)
	}
}

func TestTrackSelectors(t *testing.T) {
	p := Project{Tracks: []Track{
		{ID: "v", Type: TrackVideo},
		{ID: "a", Type: TrackAudio},
		{ID: "av", Type: TrackAV},
	}}

	if vt := p.VideoTrack(); vt == nil || vt.ID != "v" {
		t.Fatalf("VideoTrack() = %+v, want track v", vt)
	}

	audio := p.AudioTracks()
	if len(audio) != 2 || audio[0].ID != "a" || audio[1].ID != "av" {
		t.Fatalf("AudioTracks() = %+v, want [a av]", audio)
	}

	if p.HasClips() {
		t.Error("HasClips() = true for clipless project")
	}
}

func TestNormalize_FixesZeroSpeed(t *testing.T) {
	p := Project{Tracks: []Track{
		{Type: TrackVideo, Clips: []Clip{{ID: "c", StartTime: 0, EndTime: 5}}},
	}}
	p.Normalize()
	if got := p.Tracks[0].Clips[0].Speed; got != 1.0 {
		t.Errorf("Speed after Normalize = %v, want 1.0", got)
	}
}
