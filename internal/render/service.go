// Package render orchestrates one render request: validate the timeline,
// compile it to a processing graph, hand the graph to the media engine, and
// record the outcome. Each invocation is self-contained and synchronous;
// nothing is shared between concurrent requests beyond the filesystem.
package render

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/cutroom/cutroom/internal/compile"
	"github.com/cutroom/cutroom/internal/engine"
	"github.com/cutroom/cutroom/internal/library"
	"github.com/cutroom/cutroom/internal/logging"
	"github.com/cutroom/cutroom/internal/timeline"
)

// Result reports a finished render: where the file landed and which clips
// were dropped along the way.
type Result struct {
	OutputPath string
	Skips      []compile.Skip
}

type Service struct {
	compiler *compile.Compiler
	engine   engine.Engine
	repo     library.Repository
	logger   *slog.Logger
}

func NewService(compiler *compile.Compiler, eng engine.Engine, repo library.Repository, logger *slog.Logger) *Service {
	return &Service{
		compiler: compiler,
		engine:   eng,
		repo:     repo,
		logger:   logger.With("component", "render"),
	}
}

// Render compiles and executes a project. A clipless project returns
// compile.ErrEmptyProject and writes nothing; engine failures are surfaced
// with the engine's diagnostic text. There are no retries and no partial
// "ready" outcomes.
func (s *Service) Render(ctx context.Context, p *timeline.Project, profile compile.Profile, outputPath string) (*Result, error) {
	p.Normalize()
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid project: %w", err)
	}

	graph, err := s.compiler.Compile(ctx, p, profile)
	if err != nil {
		return nil, err
	}

	record := &library.Render{
		ID:         uuid.NewString(),
		ProjectID:  p.ID,
		Profile:    profile.Name,
		Status:     library.RenderStatusPending,
		OutputPath: outputPath,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}
	if err := s.repo.CreateRender(ctx, record); err != nil {
		s.logger.Warn("failed to record render", "render_id", record.ID, "error", err)
	}

	logger := logging.WithProjectID(s.logger.With("render_id", record.ID, "profile", profile.Name), p.ID)
	for _, skip := range graph.Skips {
		logger.Warn("clip skipped", "clip_id", skip.ClipID, "source", skip.Source, "reason", skip.Reason)
	}

	if err := s.engine.Render(ctx, graph, outputPath); err != nil {
		logger.Error("render failed", "error", err)
		if uerr := s.repo.UpdateRenderStatus(ctx, record.ID, library.RenderStatusFailed, err.Error()); uerr != nil {
			logger.Warn("failed to update render record", "error", uerr)
		}
		return nil, err
	}

	if err := s.repo.UpdateRenderStatus(ctx, record.ID, library.RenderStatusCompleted, ""); err != nil {
		logger.Warn("failed to update render record", "error", err)
	}

	logger.Info("render ready", "output", outputPath, "duration", graph.Duration)
	return &Result{OutputPath: outputPath, Skips: graph.Skips}, nil
}
