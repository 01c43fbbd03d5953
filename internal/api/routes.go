package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/compile"
	"github.com/cutroom/cutroom/internal/config"
	"github.com/cutroom/cutroom/internal/export"
	"github.com/cutroom/cutroom/internal/library"
	"github.com/cutroom/cutroom/internal/render"
	"github.com/cutroom/cutroom/internal/timeline"
)

// maxUploadMemory bounds the in-memory portion of multipart parsing; larger
// uploads spill to temp files.
const maxUploadMemory = 32 << 20

// RenderService is the orchestrator surface the handlers need.
type RenderService interface {
	Render(ctx context.Context, p *timeline.Project, profile compile.Profile, outputPath string) (*render.Result, error)
}

// UploadService stores uploaded source assets.
type UploadService interface {
	SaveUpload(ctx context.Context, originalName string, r io.Reader) (*library.Asset, error)
}

func NewRouter(cfg ServerConfig) *chi.Mux {
	r := chi.NewRouter()

	r.Use(RequestIDMiddleware())
	r.Use(RecoveryMiddleware(cfg.Logger))
	r.Use(LoggingMiddleware(cfg.Logger))
	r.Use(CORSMiddleware())

	r.Get("/", healthHandler())
	r.Post("/upload", uploadHandler(cfg))
	r.Post("/preview", previewHandler(cfg))
	r.Post("/export", exportHandler(cfg))
	r.Post("/export/edl", exportEDLHandler(cfg))

	r.Get("/uploads/*", mediaHandler(cfg.UploadDir, "/uploads/"))
	r.Get("/previews/*", mediaHandler(cfg.PreviewDir, "/previews/"))

	return r
}

func healthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteJSON(w, http.StatusOK, HealthResponse{
			Status:  "ok",
			Message: "Cutroom render backend running",
			Version: config.Version,
		})
	}
}

func uploadHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid multipart body", "BAD_REQUEST")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			WriteError(w, http.StatusBadRequest, "file field is required", "BAD_REQUEST")
			return
		}
		defer file.Close()

		asset, err := cfg.Library.SaveUpload(r.Context(), header.Filename, file)
		if err != nil {
			cfg.Logger.Error("upload failed", "filename", header.Filename, "error", err)
			WriteError(w, http.StatusInternalServerError, "failed to store upload", "INTERNAL_ERROR")
			return
		}

		WriteJSON(w, http.StatusOK, UploadResponse{
			ID:       asset.ID,
			Filename: asset.Filename,
			URL:      "/uploads/" + asset.Filename,
			Type:     asset.MediaType,
			Duration: asset.Duration,
		})
	}
}

func previewHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project timeline.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid project body", "BAD_REQUEST")
			return
		}

		filename := fmt.Sprintf("preview_%s.mp4", project.ID)
		outputPath := filepath.Join(cfg.PreviewDir, filename)

		_, err := cfg.Renderer.Render(r.Context(), &project, compile.ProfilePreview, outputPath)
		if errors.Is(err, compile.ErrEmptyProject) {
			WriteJSON(w, http.StatusOK, RenderResponse{URL: "", Status: "empty"})
			return
		}
		if err != nil {
			cfg.Logger.Error("preview render failed", "project_id", project.ID, "error", err)
			WriteJSON(w, http.StatusOK, RenderResponse{URL: "", Status: "error"})
			return
		}

		// Cache-busting token: the same project id overwrites the same file.
		url := fmt.Sprintf("/previews/%s?t=%s", filename, uuid.NewString())
		WriteJSON(w, http.StatusOK, RenderResponse{URL: url, Status: "ready"})
	}
}

func exportHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project timeline.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid project body", "BAD_REQUEST")
			return
		}

		filename := fmt.Sprintf("export_%s.mp4", project.ID)
		outputPath := filepath.Join(cfg.PreviewDir, filename)

		_, err := cfg.Renderer.Render(r.Context(), &project, compile.ProfileExport, outputPath)
		if errors.Is(err, compile.ErrEmptyProject) {
			WriteError(w, http.StatusBadRequest, "project has no clips", "EMPTY_PROJECT")
			return
		}
		if err != nil {
			cfg.Logger.Error("export render failed", "project_id", project.ID, "error", err)
			WriteError(w, http.StatusInternalServerError, "render failed", "RENDER_FAILED")
			return
		}

		WriteJSON(w, http.StatusOK, RenderResponse{URL: "/previews/" + filename, Status: "ready"})
	}
}

func exportEDLHandler(cfg ServerConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var project timeline.Project
		if err := json.NewDecoder(r.Body).Decode(&project); err != nil {
			WriteError(w, http.StatusBadRequest, "invalid project body", "BAD_REQUEST")
			return
		}

		cuts := export.FromProject(&project)
		if len(cuts) == 0 {
			WriteError(w, http.StatusBadRequest, "project has no video clips", "EMPTY_PROJECT")
			return
		}

		edl := export.GenerateEDL(cuts, export.SanitizeName(project.ID, 60), export.DefaultFrameRate)
		WriteJSON(w, http.StatusOK, EDLExportResponse{EDL: edl, ClipCount: len(cuts)})
	}
}
