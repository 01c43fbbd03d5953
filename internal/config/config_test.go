package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestNew_Defaults(t *testing.T) {
	for _, env := range []string{EnvPort, EnvLogLevel, EnvMediaDir, EnvDataDir, EnvFFmpegPath, EnvFFprobePath, EnvRenderTimeout} {
		t.Setenv(env, "")
	}

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != DefaultPort {
		t.Errorf("Port() = %d, want %d", cfg.Port(), DefaultPort)
	}
	if cfg.LogLevel() != DefaultLogLevel {
		t.Errorf("LogLevel() = %q, want %q", cfg.LogLevel(), DefaultLogLevel)
	}
	if cfg.RenderTimeout() != DefaultRenderTimeout {
		t.Errorf("RenderTimeout() = %v, want %v", cfg.RenderTimeout(), DefaultRenderTimeout)
	}
	if cfg.UploadDir() != filepath.Join(DefaultMediaDir, "uploads") {
		t.Errorf("UploadDir() = %q, want under media dir", cfg.UploadDir())
	}
	if cfg.PreviewDir() != filepath.Join(DefaultMediaDir, "previews") {
		t.Errorf("PreviewDir() = %q, want under media dir", cfg.PreviewDir())
	}
	if filepath.Base(cfg.DBPath()) != DBFilename {
		t.Errorf("DBPath() = %q, want file named %s", cfg.DBPath(), DBFilename)
	}
}

func TestNew_EnvOverrides(t *testing.T) {
	t.Setenv(EnvPort, "9000")
	t.Setenv(EnvLogLevel, "debug")
	t.Setenv(EnvMediaDir, "/srv/media")
	t.Setenv(EnvDataDir, "/srv/data")
	t.Setenv(EnvFFmpegPath, "/opt/ffmpeg/bin/ffmpeg")
	t.Setenv(EnvRenderTimeout, "120")

	cfg, err := New()
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if cfg.Port() != 9000 {
		t.Errorf("Port() = %d, want 9000", cfg.Port())
	}
	if cfg.LogLevel() != "debug" {
		t.Errorf("LogLevel() = %q, want debug", cfg.LogLevel())
	}
	if cfg.UploadDir() != filepath.Join("/srv/media", "uploads") {
		t.Errorf("UploadDir() = %q, want /srv/media/uploads", cfg.UploadDir())
	}
	if cfg.DBPath() != filepath.Join("/srv/data", DBFilename) {
		t.Errorf("DBPath() = %q, want under /srv/data", cfg.DBPath())
	}
	if cfg.FFmpegPath() != "/opt/ffmpeg/bin/ffmpeg" {
		t.Errorf("FFmpegPath() = %q, want override", cfg.FFmpegPath())
	}
	if cfg.RenderTimeout() != 120*time.Second {
		t.Errorf("RenderTimeout() = %v, want 2m", cfg.RenderTimeout())
	}
}

func TestNew_InvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		env   string
		value string
	}{
		{"port not a number", EnvPort, "eight thousand"},
		{"port out of range", EnvPort, "70000"},
		{"port zero", EnvPort, "0"},
		{"timeout not a number", EnvRenderTimeout, "soon"},
		{"timeout zero", EnvRenderTimeout, "0"},
		{"timeout negative", EnvRenderTimeout, "-5"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv(tc.env, tc.value)
			if _, err := New(); err == nil {
				t.Fatalf("New() error = nil, want failure for %s=%q", tc.env, tc.value)
			}
		})
	}
}
