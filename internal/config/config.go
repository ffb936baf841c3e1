// Package config locates the lightsout configuration directory and loads
// config.yml from it.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/warpdl/lightsout/common"
	"github.com/warpdl/lightsout/internal/curfew"
	"github.com/warpdl/lightsout/internal/dialog"
)

// Poll interval bounds.
const (
	MinPollInterval = 30 * time.Second
	MaxPollInterval = 60 * time.Second
)

var (
	// ErrInvalidConfig wraps every validation failure.
	ErrInvalidConfig = errors.New("invalid config")

	userConfigDir = os.UserConfigDir
)

// Config mirrors config.yml. Fields missing from the file keep their
// defaults.
type Config struct {
	FirstWarning curfew.TimeOfDay  `yaml:"first_warning"`
	FinalWarning curfew.TimeOfDay  `yaml:"final_warning"`
	Shutdown     curfew.TimeOfDay  `yaml:"shutdown"`
	CurfewUntil  curfew.TimeOfDay  `yaml:"curfew_until"`
	Exclude      curfew.Exclusions `yaml:"exclude,omitempty"`

	PollInterval        time.Duration `yaml:"poll_interval"`
	FinalWarningTimeout time.Duration `yaml:"final_warning_timeout"`
	EvasionTimeout      time.Duration `yaml:"evasion_timeout"`
	EvasionDelay        time.Duration `yaml:"evasion_delay"`
	ShutdownDelay       time.Duration `yaml:"shutdown_delay"`
	Force               bool          `yaml:"force"`
	Enforce             bool          `yaml:"enforce"`

	// Dialog names the dialog backend, "auto" by default.
	Dialog string `yaml:"dialog"`

	// LogFile and ErrorLogFile are relative to the config dir unless
	// absolute.
	LogFile      string `yaml:"log_file"`
	ErrorLogFile string `yaml:"error_log_file"`

	// Journal enables the run history database.
	Journal bool `yaml:"journal"`
}

// Default returns the stock configuration.
func Default() *Config {
	mc := curfew.DefaultConfig()
	s := mc.Schedule
	return &Config{
		FirstWarning:        s.FirstWarning,
		FinalWarning:        s.FinalWarning,
		Shutdown:            s.Shutdown,
		CurfewUntil:         s.CurfewUntil,
		PollInterval:        mc.PollInterval,
		FinalWarningTimeout: mc.FinalWarningTimeout,
		EvasionTimeout:      mc.EvasionTimeout,
		EvasionDelay:        mc.EvasionDelay,
		ShutdownDelay:       mc.ShutdownDelay,
		Force:               mc.Force,
		Enforce:             mc.Enforce,
		Dialog:              dialog.BackendAuto,
		LogFile:             common.LogFileName,
		ErrorLogFile:        common.ErrorLogFileName,
		Journal:             true,
	}
}

// Dir returns the absolute configuration directory, creating it if needed.
// LIGHTSOUT_CONFIG_DIR overrides the per-user default.
func Dir() (string, error) {
	dir := os.Getenv(common.ConfigDirEnv)
	if dir == "" {
		base, err := userConfigDir()
		if err != nil {
			return "", fmt.Errorf("failed to locate user config dir: %w", err)
		}
		dir = filepath.Join(base, common.AppName)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(abs, 0755); err != nil {
		return "", fmt.Errorf("failed to create config dir: %w", err)
	}
	return abs, nil
}

// Load reads path from fs. A missing file yields the defaults.
func Load(fs afero.Fs, path string) (*Config, error) {
	cfg := Default()
	b, err := afero.ReadFile(fs, path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	if err := yaml.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path on fs.
func Save(fs afero.Fs, path string, cfg *Config) error {
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	return afero.WriteFile(fs, path, b, 0644)
}

// Validate checks the schedule and clamps the poll interval into
// [MinPollInterval, MaxPollInterval].
func (c *Config) Validate() error {
	if err := c.Schedule().Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	for name, d := range map[string]time.Duration{
		"final_warning_timeout": c.FinalWarningTimeout,
		"evasion_timeout":       c.EvasionTimeout,
		"evasion_delay":         c.EvasionDelay,
		"shutdown_delay":        c.ShutdownDelay,
	} {
		if d < 0 {
			return fmt.Errorf("%w: %s must not be negative", ErrInvalidConfig, name)
		}
	}
	switch {
	case c.PollInterval < MinPollInterval:
		c.PollInterval = MinPollInterval
	case c.PollInterval > MaxPollInterval:
		c.PollInterval = MaxPollInterval
	}
	c.Dialog = strings.ToLower(strings.TrimSpace(c.Dialog))
	if c.Dialog == "" {
		c.Dialog = dialog.BackendAuto
	}
	if !dialog.KnownBackend(c.Dialog) {
		return fmt.Errorf("%w: %w %q", ErrInvalidConfig, dialog.ErrUnknownBackend, c.Dialog)
	}
	return nil
}

// Schedule returns the checkpoint schedule.
func (c *Config) Schedule() curfew.Schedule {
	return curfew.Schedule{
		FirstWarning: c.FirstWarning,
		FinalWarning: c.FinalWarning,
		Shutdown:     c.Shutdown,
		CurfewUntil:  c.CurfewUntil,
		Exclude:      c.Exclude,
	}
}

// Monitor converts the file settings into monitor settings.
func (c *Config) Monitor() *curfew.Config {
	mc := curfew.DefaultConfig()
	mc.Schedule = c.Schedule()
	mc.PollInterval = c.PollInterval
	mc.FinalWarningTimeout = c.FinalWarningTimeout
	mc.EvasionTimeout = c.EvasionTimeout
	mc.EvasionDelay = c.EvasionDelay
	mc.ShutdownDelay = c.ShutdownDelay
	mc.Force = c.Force
	mc.Enforce = c.Enforce
	return mc
}
