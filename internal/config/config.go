// Package config provides configuration for the Cutroom server. Values are
// read from environment variables with sensible defaults; a .env file is
// loaded by the entrypoint before this package reads anything.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	DefaultPort          = 8000
	DefaultLogLevel      = "info"
	DefaultMediaDir      = "media"
	DefaultDataDir       = ".cutroom"
	DefaultRenderTimeout = 10 * time.Minute

	EnvPort          = "CUTROOM_PORT"
	EnvLogLevel      = "CUTROOM_LOG_LEVEL"
	EnvMediaDir      = "CUTROOM_MEDIA_DIR"
	EnvDataDir       = "CUTROOM_DATA_DIR"
	EnvFFmpegPath    = "CUTROOM_FFMPEG_PATH"
	EnvFFprobePath   = "CUTROOM_FFPROBE_PATH"
	EnvRenderTimeout = "CUTROOM_RENDER_TIMEOUT_S"

	DBFilename = "cutroom.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	MediaDir() string
	UploadDir() string
	PreviewDir() string
	DataDir() string
	DBPath() string
	FFmpegPath() string
	FFprobePath() string
	RenderTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port          int
	logLevel      string
	mediaDir      string
	dataDir       string
	ffmpegPath    string
	ffprobePath   string
	renderTimeout time.Duration
}

// New creates a new EnvConfig with defaults and environment overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:          DefaultPort,
		logLevel:      DefaultLogLevel,
		mediaDir:      DefaultMediaDir,
		dataDir:       defaultDataDir(),
		renderTimeout: DefaultRenderTimeout,
	}

	if p := os.Getenv(EnvPort); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvPort, err)
		}
		if port < 1 || port > 65535 {
			return nil, fmt.Errorf("invalid %s: port must be between 1 and 65535", EnvPort)
		}
		cfg.port = port
	}

	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	if md := os.Getenv(EnvMediaDir); md != "" {
		cfg.mediaDir = md
	}

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.ffmpegPath = os.Getenv(EnvFFmpegPath)
	cfg.ffprobePath = os.Getenv(EnvFFprobePath)

	if rt := os.Getenv(EnvRenderTimeout); rt != "" {
		seconds, err := strconv.Atoi(rt)
		if err != nil || seconds < 1 {
			return nil, fmt.Errorf("invalid %s: must be a positive number of seconds", EnvRenderTimeout)
		}
		cfg.renderTimeout = time.Duration(seconds) * time.Second
	}

	return cfg, nil
}

func (c *EnvConfig) Port() int {
	return c.port
}

func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

func (c *EnvConfig) MediaDir() string {
	return c.mediaDir
}

// UploadDir is where uploaded source assets are stored.
func (c *EnvConfig) UploadDir() string {
	return filepath.Join(c.mediaDir, "uploads")
}

// PreviewDir is where rendered previews and exports are written.
func (c *EnvConfig) PreviewDir() string {
	return filepath.Join(c.mediaDir, "previews")
}

func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

func (c *EnvConfig) FFprobePath() string {
	return c.ffprobePath
}

func (c *EnvConfig) RenderTimeout() time.Duration {
	return c.renderTimeout
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDataDir
	}
	return filepath.Join(home, DefaultDataDir)
}

// Version information (set at build time via ldflags)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)
