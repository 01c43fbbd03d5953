package api

type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Version string `json:"version"`
}

type UploadResponse struct {
	ID       string  `json:"id"`
	Filename string  `json:"filename"`
	URL      string  `json:"url"`
	Type     string  `json:"type"`
	Duration float64 `json:"duration"`
}

// RenderResponse is shared by the preview and export endpoints. Status is
// "ready", "empty" (no clips to render) or "error".
type RenderResponse struct {
	URL    string `json:"url"`
	Status string `json:"status"`
}

type EDLExportResponse struct {
	EDL       string `json:"edl"`
	ClipCount int    `json:"clip_count"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}
