package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/whitfield-io/batesd/pkg/bates"
	"github.com/whitfield-io/batesd/pkg/formatting"
)

const (
	EnvEngineMaxFileSize    = "BATESD_ENGINE_MAX_FILE_SIZE"
	EnvEngineMaxPages       = "BATESD_ENGINE_MAX_PAGES"
	EnvEngineFontDir        = "BATESD_ENGINE_FONT_DIR"
	EnvEngineDefaultPrefix  = "BATESD_ENGINE_DEFAULT_PREFIX"
	EnvEngineDefaultPadding = "BATESD_ENGINE_DEFAULT_PADDING"
)

// EngineConfig holds stamping engine parameters: preflight limits, the
// optional user font directory, and sequence defaults applied when a
// production request leaves them unset.
type EngineConfig struct {
	MaxFileSize    string `toml:"max_file_size"`
	MaxPages       int    `toml:"max_pages"`
	FontDir        string `toml:"font_dir"`
	DefaultPrefix  string `toml:"default_prefix"`
	DefaultPadding int    `toml:"default_padding"`
}

// MaxFileSizeBytes returns the preflight size limit as a byte count.
func (c *EngineConfig) MaxFileSizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 200 * 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *EngineConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *EngineConfig) Merge(overlay *EngineConfig) {
	if overlay.MaxFileSize != "" {
		c.MaxFileSize = overlay.MaxFileSize
	}
	if overlay.MaxPages != 0 {
		c.MaxPages = overlay.MaxPages
	}
	if overlay.FontDir != "" {
		c.FontDir = overlay.FontDir
	}
	if overlay.DefaultPrefix != "" {
		c.DefaultPrefix = overlay.DefaultPrefix
	}
	if overlay.DefaultPadding != 0 {
		c.DefaultPadding = overlay.DefaultPadding
	}
}

func (c *EngineConfig) loadDefaults() {
	if c.MaxFileSize == "" {
		c.MaxFileSize = "200MB"
	}
	if c.MaxPages == 0 {
		c.MaxPages = 10000
	}
	if c.DefaultPadding == 0 {
		c.DefaultPadding = bates.DefaultPadding
	}
}

func (c *EngineConfig) loadEnv() {
	if v := os.Getenv(EnvEngineMaxFileSize); v != "" {
		c.MaxFileSize = v
	}
	if v := os.Getenv(EnvEngineMaxPages); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxPages = n
		}
	}
	if v := os.Getenv(EnvEngineFontDir); v != "" {
		c.FontDir = v
	}
	if v := os.Getenv(EnvEngineDefaultPrefix); v != "" {
		c.DefaultPrefix = v
	}
	if v := os.Getenv(EnvEngineDefaultPadding); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.DefaultPadding = n
		}
	}
}

func (c *EngineConfig) validate() error {
	if _, err := formatting.ParseBytes(c.MaxFileSize); err != nil {
		return fmt.Errorf("invalid max_file_size: %w", err)
	}
	if c.MaxPages < 1 {
		return fmt.Errorf("invalid max_pages: %d", c.MaxPages)
	}
	if c.DefaultPadding < bates.MinPadding || c.DefaultPadding > bates.MaxPadding {
		return fmt.Errorf("invalid default_padding: %d", c.DefaultPadding)
	}
	return nil
}
