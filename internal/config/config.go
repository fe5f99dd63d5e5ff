// Package config loads server settings from an optional TOML file and the
// environment.
//
// Precedence, lowest first: built-in defaults, the config file, environment
// variables. Command-line flags are applied by the caller on top.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"

	"github.com/ironsheep/seamcarve-mcp/internal/carving"
	"github.com/ironsheep/seamcarve-mcp/internal/imaging"
)

// Environment variables that override file settings.
const (
	EnvLogLevel  = "SEAMCARVE_LOG_LEVEL"
	EnvCarveStep = "SEAMCARVE_CARVE_STEP"
	EnvMaxPixels = "SEAMCARVE_MAX_PIXELS"
)

// DefaultCarveStep is the number of columns a workspace carve removes when
// the caller does not say.
const DefaultCarveStep = 4

// Config holds the server settings.
type Config struct {
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `toml:"log_level"`

	// CarveStep is the default pixel count for workspace_carve.
	CarveStep int `toml:"carve_step"`

	// MaxPixels caps the size of images the server will decode.
	MaxPixels int `toml:"max_pixels"`

	// OverlayColor is the default seam overlay colour, "#RRGGBB".
	OverlayColor string `toml:"overlay_color"`

	// SequentialEnergy disables row parallelism in the carver.
	SequentialEnergy bool `toml:"sequential_energy"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		LogLevel:     "info",
		CarveStep:    DefaultCarveStep,
		MaxPixels:    carving.MaxGridPixels,
		OverlayColor: "#FF0000",
	}
}

// Load reads path (if non-empty) over the defaults, then applies the
// environment. A missing file named explicitly is an error.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		md, err := toml.DecodeFile(path, cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, fmt.Errorf("config %s: unknown keys: %s", path, strings.Join(keys, ", "))
		}
	}

	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvLogLevel); ok && v != "" {
		c.LogLevel = v
	}
	if v, ok := lookup(EnvCarveStep); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvCarveStep, err)
		}
		c.CarveStep = n
	}
	if v, ok := lookup(EnvMaxPixels); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxPixels, err)
		}
		c.MaxPixels = n
	}
	return nil
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, fmt.Errorf("log_level %q: %w", c.LogLevel, err))
	}
	if c.CarveStep < 1 {
		errs = append(errs, fmt.Errorf("carve_step must be at least 1, got %d", c.CarveStep))
	}
	if c.MaxPixels < 1 || c.MaxPixels > carving.MaxGridPixels {
		errs = append(errs, fmt.Errorf("max_pixels must be in [1, %d], got %d", carving.MaxGridPixels, c.MaxPixels))
	}
	if _, err := imaging.ParseOverlayColor(c.OverlayColor); err != nil {
		errs = append(errs, fmt.Errorf("overlay_color: %w", err))
	}
	return errors.Join(errs...)
}

// Level returns the parsed log level. Validate must have succeeded.
func (c *Config) Level() log.Level {
	lvl, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel
	}
	return lvl
}
