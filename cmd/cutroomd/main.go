package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/cutroom/cutroom/internal/api"
	"github.com/cutroom/cutroom/internal/compile"
	"github.com/cutroom/cutroom/internal/config"
	"github.com/cutroom/cutroom/internal/db"
	"github.com/cutroom/cutroom/internal/engine"
	"github.com/cutroom/cutroom/internal/library"
	"github.com/cutroom/cutroom/internal/logging"
	"github.com/cutroom/cutroom/internal/render"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("fatal error: %v", err)
	}
}

func run() error {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using environment")
	}

	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	for _, dir := range []string{cfg.DataDir(), cfg.UploadDir(), cfg.PreviewDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	logger := logging.NewLogger(cfg.LogLevel())
	logger.Info("starting cutroom server",
		"version", config.Version,
		"media_dir", cfg.MediaDir(),
		"data_dir", cfg.DataDir(),
	)

	database, err := db.New(cfg.DBPath(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer database.Close()

	repo := library.NewRepository(database.Conn())

	prober, err := engine.NewFFprobe(cfg.FFprobePath(), logger)
	if err != nil {
		return fmt.Errorf("media probe unavailable: %w", err)
	}

	ffmpegEngine, err := engine.NewFFmpegEngine(cfg.FFmpegPath(), cfg.RenderTimeout(), logger)
	if err != nil {
		return fmt.Errorf("media engine unavailable: %w", err)
	}

	librarySvc := library.NewService(repo, prober, cfg.UploadDir(), logger)
	compiler := compile.NewCompiler(prober, logger)
	renderSvc := render.NewService(compiler, ffmpegEngine, repo, logger)

	apiServer := api.NewServer(api.ServerConfig{
		Port:       cfg.Port(),
		UploadDir:  cfg.UploadDir(),
		PreviewDir: cfg.PreviewDir(),
		Library:    librarySvc,
		Renderer:   renderSvc,
		Logger:     logger,
	})

	go func() {
		if err := apiServer.Start(); err != nil {
			logger.Error("HTTP server error", "error", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("received shutdown signal", "signal", sig.String())

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shutdown HTTP server", "error", err)
	}

	logger.Info("shutdown complete")
	return nil
}
