// Package config provides configuration management for clipforge.
// Configuration is loaded from environment variables with sensible defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// Default values
	DefaultPort            = 8790
	DefaultLogLevel        = "info"
	DefaultDataDir         = ".clipforge"
	DefaultRequestTimeoutS = 60

	// Environment variable names
	EnvPort            = "CLIPFORGE_PORT"
	EnvLogLevel        = "CLIPFORGE_LOG_LEVEL"
	EnvDataDir         = "CLIPFORGE_DATA_DIR"
	EnvScratchDir      = "CLIPFORGE_SCRATCH_DIR"
	EnvFFmpegPath      = "CLIPFORGE_FFMPEG"
	EnvRequestTimeoutS = "CLIPFORGE_REQUEST_TIMEOUT_S"

	// Database filename
	DBFilename = "clipforge.db"
)

// Config defines the application configuration interface
type Config interface {
	Port() int
	LogLevel() string
	DataDir() string
	DBPath() string
	ScratchDir() string
	FFmpegPath() string
	RequestTimeout() time.Duration
}

// EnvConfig reads configuration from environment variables
type EnvConfig struct {
	port            int
	logLevel        string
	dataDir         string
	scratchDir      string
	ffmpegPath      string
	requestTimeoutS int
}

// New creates a new EnvConfig with defaults and environment variable overrides
func New() (*EnvConfig, error) {
	cfg := &EnvConfig{
		port:            DefaultPort,
		logLevel:        DefaultLogLevel,
		dataDir:         defaultDataDir(),
		requestTimeoutS: DefaultRequestTimeoutS,
	}

	// Override port from environment
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

	// Override log level from environment
	if ll := os.Getenv(EnvLogLevel); ll != "" {
		cfg.logLevel = ll
	}

	// Override data directory from environment
	if dd := os.Getenv(EnvDataDir); dd != "" {
		cfg.dataDir = dd
	}

	// Override scratch directory from environment
	if sd := os.Getenv(EnvScratchDir); sd != "" {
		cfg.scratchDir = sd
	}

	cfg.ffmpegPath = os.Getenv(EnvFFmpegPath)

	if ts := os.Getenv(EnvRequestTimeoutS); ts != "" {
		timeout, err := strconv.Atoi(ts)
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", EnvRequestTimeoutS, err)
		}
		if timeout < 1 {
			return nil, fmt.Errorf("invalid %s: timeout must be at least 1 second", EnvRequestTimeoutS)
		}
		cfg.requestTimeoutS = timeout
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

// ScratchDir returns the directory for temporary clip artifacts
func (c *EnvConfig) ScratchDir() string {
	if c.scratchDir != "" {
		return c.scratchDir
	}
	return filepath.Join(c.dataDir, "scratch")
}

// FFmpegPath returns the configured ffmpeg binary path; empty means auto-detect
func (c *EnvConfig) FFmpegPath() string {
	return c.ffmpegPath
}

// RequestTimeout returns the hard time budget for a single clip request
func (c *EnvConfig) RequestTimeout() time.Duration {
	return time.Duration(c.requestTimeoutS) * time.Second
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
