// Package library is the durable catalog behind the upload and render
// endpoints: which source assets exist on disk, and what renders have been
// produced from them.
package library

import "time"

// Asset is one uploaded source file.
type Asset struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	Path      string    `json:"path"`
	MediaType string    `json:"media_type"` // "video" or "audio", from the upload extension
	Duration  float64   `json:"duration"`
	HasAudio  bool      `json:"has_audio"`
	Size      int64     `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	RenderStatusPending   = "pending"
	RenderStatusCompleted = "completed"
	RenderStatusFailed    = "failed"
)

// Render is one render request outcome, kept for history and diagnostics.
type Render struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Profile    string    `json:"profile"`
	Status     string    `json:"status"`
	OutputPath string    `json:"output_path"`
	Error      string    `json:"error,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// VideoExtensions are the upload extensions classified as video sources;
// everything else is treated as audio.
var VideoExtensions = map[string]bool{
	".mp4": true,
	".mov": true,
	".avi": true,
}
