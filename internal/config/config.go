// Package config provides configuration management for the Trimdeck Agent.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

const (
	// Default values
	DefaultPort      = 8790
	DefaultLogLevel  = "info"
	DefaultDataDir   = ".trimdeck"
	DefaultFrameRate = 30.0

	// Environment variable names
	EnvPort      = "TRIMDECK_PORT"
	EnvLogLevel  = "TRIMDECK_LOG_LEVEL"
	EnvDataDir   = "TRIMDECK_DATA_DIR"
	EnvFFprobe   = "TRIMDECK_FFPROBE"
	EnvHeadless  = "TRIMDECK_HEADLESS"
	EnvFrameRate = "TRIMDECK_FRAME_RATE"

	// Database filename
	DBFilename = "trimdeck.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	FFprobePath() string
	Headless() bool
	FrameRate() float64
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port        int
	logLevel    string
	dataDir     string
	ffprobePath string
	headless    bool
	frameRate   float64
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:      DefaultPort,
		logLevel:  DefaultLogLevel,
		dataDir:   defaultDataDir(),
		frameRate: DefaultFrameRate,
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

	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	cfg.ffprobePath = os.Getenv(EnvFFprobe)

	if h := os.Getenv(EnvHeadless); h != "" {
		headless, err := strconv.ParseBool(h)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvHeadless, err)
		}
		cfg.headless = headless
	}

	if fr := os.Getenv(EnvFrameRate); fr != "" {
		rate, err := strconv.ParseFloat(fr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvFrameRate, err)
		}
		if rate <= 0 {
			return nil, fmt.Errorf("invalid %s: frame rate must be positive", EnvFrameRate)
		}
		cfg.frameRate = rate
	}

	return cfg, nil
}

// Port returns the HTTP server port
func (c *EnvConfig) Port() int {
	return c.port
}

// LogLevel returns the log level (debug, info, warn, error)
func (c *EnvConfig) LogLevel() string {
	return c.logLevel
}

// DataDir returns the data directory path
func (c *EnvConfig) DataDir() string {
	return c.dataDir
}

// DBPath returns the full path to the SQLite database file
func (c *EnvConfig) DBPath() string {
	return filepath.Join(c.dataDir, DBFilename)
}

// FFprobePath returns the configured ffprobe binary, empty for PATH lookup
func (c *EnvConfig) FFprobePath() string {
	return c.ffprobePath
}

// Headless reports whether the tray UI should be skipped
func (c *EnvConfig) Headless() bool {
	return c.headless
}

// FrameRate returns the timeline frame rate used for timecode rendering
func (c *EnvConfig) FrameRate() float64 {
	return c.frameRate
}

// defaultDataDir returns the default data directory path
func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home is not available
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
