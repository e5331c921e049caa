// Package config loads studypulse settings from defaults, an optional YAML
// file, a .env file and environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/studypulse/internal/performance"
)

// Environment variables read by Load.
const (
	EnvDB       = "STUDYPULSE_DB"
	EnvConfig   = "STUDYPULSE_CONFIG"
	EnvLogLevel = "STUDYPULSE_LOG_LEVEL"
)

// Config holds all application configuration.
type Config struct {
	// DBPath is the SQLite file. Empty means the default XDG location.
	DBPath string `yaml:"db"`

	// LogLevel is one of debug, info, warn, error. Default: "warn".
	LogLevel string `yaml:"log_level" validate:"oneof=debug info warn error"`

	// Policy overrides engine thresholds field by field.
	Policy performance.Policy `yaml:"policy"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		LogLevel: "warn",
		Policy:   performance.DefaultPolicy(),
	}
}

// Load resolves the full configuration. A .env file in the working
// directory is loaded first if present. path names a YAML file; when empty,
// STUDYPULSE_CONFIG is consulted and a missing variable means no file.
// Environment variables override values from the file.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	if path == "" {
		path = os.Getenv(EnvConfig)
	}
	if path != "" {
		if err := LoadFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}
	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// LoadFile decodes the YAML file at path over cfg. Keys absent from the
// file keep their current values.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if p := os.Getenv(EnvDB); p != "" {
		cfg.DBPath = p
	}
	if l := os.Getenv(EnvLogLevel); l != "" {
		cfg.LogLevel = strings.ToLower(l)
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report fields by their YAML key so errors match the config file.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("yaml"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// weightTolerance absorbs float error in weights written as decimals.
const weightTolerance = 1e-6

// Validate checks field ranges and the relations between thresholds.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", trimRoot(fe.Namespace()), ruleOf(fe)))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}

	p := c.Policy
	if p.Mode.FastSeconds >= p.Mode.SlowSeconds {
		return fmt.Errorf("invalid config: policy.mode.fast_seconds (%g) must be below slow_seconds (%g)",
			p.Mode.FastSeconds, p.Mode.SlowSeconds)
	}
	if p.Mode.LowAccuracy > p.Mode.FluencyAccuracy {
		return fmt.Errorf("invalid config: policy.mode.low_accuracy (%g) exceeds fluency_accuracy (%g)",
			p.Mode.LowAccuracy, p.Mode.FluencyAccuracy)
	}
	if s := p.Strain.TimeWeight + p.Strain.DeviationWeight + p.Strain.StreakWeight; math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("invalid config: policy.strain weights sum to %g, want 1", s)
	}
	if s := p.Mastery.AccuracyWeight + p.Mastery.CoverageWeight + p.Mastery.StreakWeight; math.Abs(s-1) > weightTolerance {
		return fmt.Errorf("invalid config: policy.mastery weights sum to %g, want 1", s)
	}
	if p.Advisor.FundamentalsTier > p.Advisor.ProgressTier {
		return fmt.Errorf("invalid config: policy.advisor.fundamentals_tier (%g) exceeds progress_tier (%g)",
			p.Advisor.FundamentalsTier, p.Advisor.ProgressTier)
	}
	return nil
}

// SlogLevel returns the configured log level. Unknown values map to warn.
func (c Config) SlogLevel() slog.Level {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelWarn
	}
	return lvl
}

func trimRoot(ns string) string {
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func ruleOf(fe validator.FieldError) string {
	if fe.Param() == "" {
		return fe.Tag()
	}
	return fe.Tag() + "=" + fe.Param()
}
