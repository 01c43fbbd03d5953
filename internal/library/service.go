package library

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/engine"
)

// fallbackDuration is reported when a freshly uploaded file cannot be
// probed. Matches the client's expectation of a usable, non-zero length.
const fallbackDuration = 10.0

type Service struct {
	repo      Repository
	prober    engine.Prober
	uploadDir string
	logger    *slog.Logger
}

func NewService(repo Repository, prober engine.Prober, uploadDir string, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		prober:    prober,
		uploadDir: uploadDir,
		logger:    logger.With("component", "library"),
	}
}

// SaveUpload stores an uploaded source under a fresh UUID name, probes its
// duration and streams, and records the asset. A probe failure is not fatal:
// the asset is kept with a fallback duration, mirroring best-effort handling
// elsewhere.
func (s *Service) SaveUpload(ctx context.Context, originalName string, r io.Reader) (*Asset, error) {
	id := uuid.NewString()
	ext := strings.ToLower(filepath.Ext(originalName))
	filename := id + ext
	path := filepath.Join(s.uploadDir, filename)

	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create upload file: %w", err)
	}
	size, err := io.Copy(dst, r)
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("write upload file: %w", err)
	}

	asset := &Asset{
		ID:        id,
		Filename:  filename,
		Path:      path,
		MediaType: "audio",
		Duration:  fallbackDuration,
		Size:      size,
		CreatedAt: time.Now().UTC(),
	}
	if VideoExtensions[ext] {
		asset.MediaType = "video"
	}

	if probe, err := s.prober.Probe(ctx, path); err != nil {
		s.logger.Warn("probe failed for upload, using fallback duration",
			"asset_id", id, "filename", originalName, "error", err)
	} else {
		asset.Duration = probe.Duration
		asset.HasAudio = probe.HasAudio
	}

	if err := s.repo.CreateAsset(ctx, asset); err != nil {
		os.Remove(path)
		return nil, fmt.Errorf("record asset: %w", err)
	}

	s.logger.Info("upload stored",
		"asset_id", id,
		"filename", filename,
		"media_type", asset.MediaType,
		"duration", asset.Duration,
		"size", size,
	)
	return asset, nil
}

func (s *Service) GetAsset(ctx context.Context, id string) (*Asset, error) {
	return s.repo.GetAsset(ctx, id)
}

func (s *Service) ListAssets(ctx context.Context) ([]*Asset, error) {
	return s.repo.ListAssets(ctx)
}
