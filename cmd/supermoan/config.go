package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level YAML configuration for the supermoan daemon.
//
// The config file is the primary configuration surface; flags exist for
// small overrides and for one-off runs where a file is awkward. Defaults and
// validation live here so the rest of the code can assume a well-formed
// config.
type Config struct {
	// Input device configuration
	Input InputConfig `yaml:"input"`

	// Sound playback configuration
	Sound SoundConfig `yaml:"sound"`

	// Movement-to-intensity mapping configuration
	Mapper MapperFileConfig `yaml:"mapper"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`

	// Debug statistics
	Debug DebugConfig `yaml:"debug"`
}

type InputConfig struct {
	Device string `yaml:"device"` // event node to monitor, e.g. /dev/input/event3
}

type SoundConfig struct {
	Dir      string `yaml:"dir"`
	Backend  string `yaml:"backend,omitempty"`  // empty selects automatically
	Disabled bool   `yaml:"disabled,omitempty"` // force the no-op backend
}

// MapperFileConfig is the user-facing mapping configuration as represented
// in YAML. It maps 1:1 to MapperConfig used by the monitor loop.
type MapperFileConfig struct {
	MinThreshold float64 `yaml:"min_threshold"`
	MaxThreshold float64 `yaml:"max_threshold"`
	LogBase      float64 `yaml:"log_base"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type DebugConfig struct {
	Stats bool `yaml:"stats"`
}

// DefaultConfig returns a fully-populated Config with defaults.
// Keep this aligned with constants.go defaults and the CLI defaults.
func DefaultConfig() Config {
	return Config{
		Input: InputConfig{
			Device: "",
		},
		Sound: SoundConfig{
			Dir:      defaultSoundDir,
			Backend:  "",
			Disabled: false,
		},
		Mapper: MapperFileConfig{
			MinThreshold: defaultMinThreshold,
			MaxThreshold: defaultMaxThreshold,
			LogBase:      defaultLogBase,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
		Debug: DebugConfig{
			Stats: false,
		},
	}
}

// LoadConfigFile reads and parses a YAML config file.
//
// Notes:
//   - Unknown fields are rejected (helps catch typos) via KnownFields(true).
//   - Values start from DefaultConfig, so a partial file is fine.
func LoadConfigFile(path string) (Config, error) {
	if path == "" {
		return Config{}, errors.New("config path is empty")
	}
	b, err := os.ReadFile(ExpandPath(path))
	if err != nil {
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	cfg := DefaultConfig()

	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)

	if err := dec.Decode(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config yaml: %w", err)
	}

	// Ensure there's no trailing garbage (only whitespace/comments are allowed after the document).
	if err := dec.Decode(&struct{}{}); err == nil {
		return Config{}, fmt.Errorf("decode config yaml: unexpected trailing document")
	}

	return cfg, nil
}

// FlagOverrides applies overrides from flags on top of a loaded config.
//
// Flags pass pointers; each override is only applied when the pointer is
// non-nil, so untouched flags leave file values alone.
type FlagOverrides struct {
	Device *string

	SoundDir  *string
	Backend   *string
	NoSound   *bool
	DebugMode *bool

	MinThreshold *float64
	MaxThreshold *float64
	LogBase      *float64

	LogLevel *string
}

// Apply merges the overrides into cfg. Nil pointers are ignored.
func (o FlagOverrides) Apply(cfg *Config) {
	if cfg == nil {
		return
	}
	if o.Device != nil {
		cfg.Input.Device = *o.Device
	}
	if o.SoundDir != nil {
		cfg.Sound.Dir = *o.SoundDir
	}
	if o.Backend != nil {
		cfg.Sound.Backend = *o.Backend
	}
	if o.NoSound != nil {
		cfg.Sound.Disabled = *o.NoSound
	}
	if o.DebugMode != nil {
		cfg.Debug.Stats = *o.DebugMode
	}
	if o.MinThreshold != nil {
		cfg.Mapper.MinThreshold = *o.MinThreshold
	}
	if o.MaxThreshold != nil {
		cfg.Mapper.MaxThreshold = *o.MaxThreshold
	}
	if o.LogBase != nil {
		cfg.Mapper.LogBase = *o.LogBase
	}
	if o.LogLevel != nil {
		cfg.Logging.Level = *o.LogLevel
	}
}

// Validate checks config invariants and returns a user-friendly error.
// This is intended to be called after defaults + file + overrides are applied.
func (c *Config) Validate() error {
	// Input
	if c.Input.Device == "" {
		return errors.New("input.device must not be empty (use -i or the config file)")
	}

	// Sound
	if c.Sound.Dir == "" {
		return errors.New("sound.dir must not be empty")
	}
	if c.Sound.Backend != "" && findPlayerBackend(c.Sound.Backend) == nil {
		return fmt.Errorf("sound.backend must be one of: %s", strings.Join(playerBackendNames(), ", "))
	}

	// Mapper
	if c.Mapper.MinThreshold <= 0 {
		return errors.New("mapper.min_threshold must be > 0")
	}
	if c.Mapper.MaxThreshold <= c.Mapper.MinThreshold {
		return errors.New("mapper.max_threshold must be greater than mapper.min_threshold")
	}
	if c.Mapper.LogBase <= 1 {
		return errors.New("mapper.log_base must be greater than 1")
	}

	// Logging
	if c.Logging.Level == "" {
		return errors.New("logging.level must not be empty")
	}

	return nil
}

// ToMapperConfig converts the file config into the mapper's config struct.
func (c *Config) ToMapperConfig() MapperConfig {
	return MapperConfig{
		MinThreshold: c.Mapper.MinThreshold,
		MaxThreshold: c.Mapper.MaxThreshold,
		LogBase:      c.Mapper.LogBase,
	}
}

// ExpandPath expands a leading "~" in a path using $HOME.
// This is handy for config values like sound.dir.
func ExpandPath(p string) string {
	if p == "" {
		return p
	}
	if p[0] != '~' {
		return p
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return p
	}
	if p == "~" {
		return home
	}
	if len(p) >= 2 && (p[1] == '/' || p[1] == '\\') {
		return filepath.Join(home, p[2:])
	}
	return p
}
