// ABOUTME: Configuration management for mood with YAML config loading.
// ABOUTME: Handles database/log paths, reminder slots, env overrides, and validation.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvDBPath   = "MOOD_DB_PATH"
	EnvLogLevel = "MOOD_LOG_LEVEL"
)

var (
	clockPattern    = regexp.MustCompile(`^([01][0-9]|2[0-3]):[0-5][0-9]$`)
	slotNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// Config stores mood configuration loaded from ~/.config/mood/config.yaml.
type Config struct {
	Database  DatabaseConfig  `yaml:"database"`
	Log       LogConfig       `yaml:"log"`
	Reminders RemindersConfig `yaml:"reminders"`

	// file holds values that environment variables replaced, keyed by variable.
	file map[string]envOverride
}

type envOverride struct {
	file    string
	applied string
}

// DatabaseConfig holds the SQLite database location.
type DatabaseConfig struct {
	Path           string `yaml:"path"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig controls the zerolog logger and its rotated file sink.
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}

// RemindersConfig holds the daily reminder switches.
type RemindersConfig struct {
	Enabled bool           `yaml:"enabled"`
	Slots   []ReminderSlot `yaml:"slots"`
}

// ReminderSlot is one named daily reminder at a fixed time of day.
type ReminderSlot struct {
	Name    string `yaml:"name"`
	At      string `yaml:"at"`
	Enabled bool   `yaml:"enabled"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			TimeoutSeconds: 5,
		},
		Log: LogConfig{
			Level:      "info",
			MaxSizeMB:  5,
			MaxBackups: 3,
			MaxAgeDays: 30,
		},
		Reminders: RemindersConfig{
			Enabled: false,
			Slots: []ReminderSlot{
				{Name: "morning", At: "09:00", Enabled: true},
				{Name: "afternoon", At: "14:00", Enabled: true},
				{Name: "evening", At: "20:00", Enabled: true},
			},
		},
	}
}

// Validate checks every section of the configuration.
func (c *Config) Validate() error {
	if err := c.Database.Validate(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if err := c.Log.Validate(); err != nil {
		return fmt.Errorf("log: %w", err)
	}
	if err := c.Reminders.Validate(); err != nil {
		return fmt.Errorf("reminders: %w", err)
	}
	return nil
}

// Validate validates the database configuration.
func (c DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.TimeoutSeconds, validation.Min(0), validation.Max(300)),
	)
}

// Validate validates the log configuration.
func (c LogConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Level, validation.Required,
			validation.In("trace", "debug", "info", "warn", "error", "disabled")),
		validation.Field(&c.MaxSizeMB, validation.Min(0)),
		validation.Field(&c.MaxBackups, validation.Min(0)),
		validation.Field(&c.MaxAgeDays, validation.Min(0)),
	)
}

// Validate validates reminder slots and rejects duplicate names.
func (c RemindersConfig) Validate() error {
	if err := validation.ValidateStruct(&c,
		validation.Field(&c.Slots),
	); err != nil {
		return err
	}
	seen := make(map[string]bool, len(c.Slots))
	for _, s := range c.Slots {
		if seen[s.Name] {
			return fmt.Errorf("duplicate reminder slot %q", s.Name)
		}
		seen[s.Name] = true
	}
	return nil
}

// Validate validates a single reminder slot.
func (s ReminderSlot) Validate() error {
	return validation.ValidateStruct(&s,
		validation.Field(&s.Name, validation.Required, validation.Match(slotNamePattern)),
		validation.Field(&s.At, validation.Required, validation.Match(clockPattern)),
	)
}

// Slot returns the reminder slot with the given name.
func (c *RemindersConfig) Slot(name string) (*ReminderSlot, bool) {
	for i := range c.Slots {
		if c.Slots[i].Name == name {
			return &c.Slots[i], true
		}
	}
	return nil, false
}

// Toggle switches reminders on or off. With an empty slot name it flips the
// master switch. Otherwise it flips the named slot; enabling with at set moves
// the slot to that time, creating it if it does not exist.
func (c *RemindersConfig) Toggle(name, at string, enabled bool) error {
	if at != "" {
		if !enabled {
			return fmt.Errorf("--at only applies when enabling")
		}
		if !clockPattern.MatchString(at) {
			return fmt.Errorf("invalid time %q: expected HH:MM", at)
		}
	}
	if name == "" {
		if at != "" {
			return fmt.Errorf("--at requires a slot name")
		}
		c.Enabled = enabled
		return nil
	}

	slot, ok := c.Slot(name)
	if !ok {
		if at == "" {
			return fmt.Errorf("unknown reminder slot %q", name)
		}
		if !slotNamePattern.MatchString(name) {
			return fmt.Errorf("invalid reminder slot name %q", name)
		}
		c.Slots = append(c.Slots, ReminderSlot{Name: name})
		slot = &c.Slots[len(c.Slots)-1]
	}
	slot.Enabled = enabled
	if at != "" {
		slot.At = at
	}
	return nil
}

// ActiveSlots returns the enabled slots, or nothing when the master switch is off.
func (c *RemindersConfig) ActiveSlots() []ReminderSlot {
	if !c.Enabled {
		return nil
	}
	var out []ReminderSlot
	for _, s := range c.Slots {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}

// GetDBPath returns the database path, defaulting to mood.db in the data dir.
func (c *Config) GetDBPath() (string, error) {
	if c.Database.Path != "" {
		return ExpandPath(c.Database.Path)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mood.db"), nil
}

// GetLogPath returns the log file path, defaulting to mood.log in the data dir.
func (c *Config) GetLogPath() (string, error) {
	if c.Log.File != "" {
		return ExpandPath(c.Log.File)
	}
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "mood.log"), nil
}

// DataDir returns the directory holding the database and log.
func DataDir() (string, error) {
	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataDir, "mood"), nil
}

// GetConfigPath returns the config file path.
func GetConfigPath() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "mood", "config.yaml"), nil
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return home, nil
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, path[2:]), nil
	}
	return path, nil
}

// Load reads config from disk, applies env overrides and validates.
// Returns the default config if the file doesn't exist.
func Load() (*Config, error) {
	path, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
	case os.IsNotExist(err):
	default:
		return nil, err
	}

	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes config to disk.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	path, err := GetConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}

	data, err := yaml.Marshal(c.fileView())
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0600)
}

func (c *Config) applyEnv() {
	c.file = make(map[string]envOverride)
	if v := os.Getenv(EnvDBPath); v != "" {
		c.file[EnvDBPath] = envOverride{file: c.Database.Path, applied: v}
		c.Database.Path = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		v = strings.ToLower(v)
		c.file[EnvLogLevel] = envOverride{file: c.Log.Level, applied: v}
		c.Log.Level = v
	}
}

// fileView returns a copy of c with environment overrides reverted to the
// values read from disk. A field changed after Load keeps its new value.
func (c *Config) fileView() *Config {
	out := *c
	out.file = nil
	if o, ok := c.file[EnvDBPath]; ok && c.Database.Path == o.applied {
		out.Database.Path = o.file
	}
	if o, ok := c.file[EnvLogLevel]; ok && c.Log.Level == o.applied {
		out.Log.Level = o.file
	}
	return &out
}
