package harness

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds one complete session exchange.
const DefaultTimeout = 20 * time.Second

// ErrInvalidConfig is returned by Config.Validate.
var ErrInvalidConfig = errors.New("invalid config")

// Config is the configuration surface the engine consumes.
type Config struct {
	// Executable is the target program. Relative paths resolve against Dir.
	Executable string
	// Dir is the working directory the target runs in.
	Dir string
	// Timeout bounds a whole session, from spawn to exit.
	Timeout time.Duration

	// SourceDir holds the target's Makefile.
	SourceDir string
	// MakeTarget is the make goal that produces the executable.
	MakeTarget string
}

// DefaultConfig returns the reference configuration.
func DefaultConfig() Config {
	return Config{
		Executable: "p6sh",
		Dir:        ".",
		Timeout:    DefaultTimeout,
		MakeTarget: "p6sh",
	}
}

// ConfigFromEnv overlays P6_* environment variables on the defaults.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("P6_BINARY"); v != "" {
		cfg.Executable = v
	}
	if v := os.Getenv("P6_DIR"); v != "" {
		cfg.Dir = v
	}
	if v := os.Getenv("P6_SOURCE_DIR"); v != "" {
		cfg.SourceDir = v
	}
	if v := os.Getenv("P6_MAKE_TARGET"); v != "" {
		cfg.MakeTarget = v
	}
	if v := os.Getenv("P6_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: P6_TIMEOUT %q: %v", ErrInvalidConfig, v, err)
		}
		cfg.Timeout = d
	}
	return nil
}

// LoadConfig reads a YAML config file on top of the defaults, then applies
// the environment.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	var raw struct {
		Executable string `yaml:"executable"`
		Dir        string `yaml:"dir"`
		Timeout    string `yaml:"timeout"`
		SourceDir  string `yaml:"source_dir"`
		MakeTarget string `yaml:"make_target"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	if raw.Executable != "" {
		cfg.Executable = raw.Executable
	}
	if raw.Dir != "" {
		cfg.Dir = raw.Dir
	}
	if raw.SourceDir != "" {
		cfg.SourceDir = raw.SourceDir
	}
	if raw.MakeTarget != "" {
		cfg.MakeTarget = raw.MakeTarget
	}
	if raw.Timeout != "" {
		d, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return cfg, fmt.Errorf("%w: timeout %q: %v", ErrInvalidConfig, raw.Timeout, err)
		}
		cfg.Timeout = d
	}

	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks the fields the session driver depends on.
func (c Config) Validate() error {
	if c.Executable == "" {
		return fmt.Errorf("%w: executable is required", ErrInvalidConfig)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %s", ErrInvalidConfig, c.Timeout)
	}
	return nil
}

// ExecutablePath resolves Executable against Dir and returns an absolute
// path, so the target is never looked up on PATH.
func (c Config) ExecutablePath() string {
	path := c.Executable
	if !filepath.IsAbs(path) {
		dir := c.Dir
		if dir == "" {
			dir = "."
		}
		path = filepath.Join(dir, path)
	}
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}
