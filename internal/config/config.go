package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Store manages the runtime configuration for the lead client.
type Store struct {
	path   string
	Config Data
}

// Data represents persisted user preferences.
type Data struct {
	Name       string `json:"name"`
	Timezone   string `json:"timezone"`
	APIBaseURL string `json:"api_base_url"`
	TimeoutSec int    `json:"timeout_sec"`
	LogLevel   string `json:"log_level"`
}

// overrides are environment knobs that win over the config file, so a
// session can point at a different service without editing the file.
type overrides struct {
	APIBaseURL string `envconfig:"API_URL"`
	Timezone   string `envconfig:"TZ"`
	LogLevel   string `envconfig:"LOG_LEVEL"`
}

const envPrefix = "LEADTERM"

// DefaultBaseURL is the hosted lead service.
const DefaultBaseURL = "https://real-estate-backend-alpha-eight.vercel.app"

// Load retrieves the config from disk, creating defaults if needed, then
// applies LEADTERM_* environment overrides.
func Load() (*Store, error) {
	cfgPath, err := resolvePath()
	if err != nil {
		return nil, err
	}

	cfg := Data{}
	if _, err := os.Stat(cfgPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("stat config: %w", err)
		}
		cfg = defaultConfig()
		if err := writeConfig(cfgPath, cfg); err != nil {
			return nil, err
		}
	} else {
		raw, err := os.ReadFile(cfgPath)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := json.Unmarshal(raw, &cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone()
	}
	if cfg.Name == "" {
		cfg.Name = defaultName()
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = DefaultBaseURL
	}
	if cfg.TimeoutSec <= 0 {
		cfg.TimeoutSec = 30
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	var env overrides
	if err := envconfig.Process(envPrefix, &env); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}
	if env.APIBaseURL != "" {
		cfg.APIBaseURL = env.APIBaseURL
	}
	if env.Timezone != "" {
		cfg.Timezone = env.Timezone
	}
	if env.LogLevel != "" {
		cfg.LogLevel = env.LogLevel
	}

	return &Store{path: cfgPath, Config: cfg}, nil
}

// Save writes the current config values to disk.
func (s *Store) Save() error {
	if s == nil {
		return errors.New("nil config store")
	}
	return writeConfig(s.path, s.Config)
}

// Timeout returns the per-request timeout.
func (s *Store) Timeout() time.Duration {
	if s == nil || s.Config.TimeoutSec <= 0 {
		return 30 * time.Second
	}
	return time.Duration(s.Config.TimeoutSec) * time.Second
}

// Dir returns the directory holding the config file and the log file.
func (s *Store) Dir() string {
	if s == nil {
		return ""
	}
	return filepath.Dir(s.path)
}

func resolvePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			return "", fmt.Errorf("cannot resolve config directory: %w", err)
		}
	}
	dir := filepath.Join(base, "leadterm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return filepath.Join(dir, "config.json"), nil
}

func writeConfig(path string, cfg Data) error {
	raw, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultConfig() Data {
	return Data{
		Name:       defaultName(),
		Timezone:   defaultTimezone(),
		APIBaseURL: DefaultBaseURL,
		TimeoutSec: 30,
		LogLevel:   "info",
	}
}

func defaultName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	return "Lead User"
}

func defaultTimezone() string {
	if locName := time.Now().Location().String(); locName != "Local" && locName != "" {
		return locName
	}
	return "UTC"
}

// Location returns the configured timezone Location, defaulting to UTC on error.
func (s *Store) Location() *time.Location {
	if s == nil {
		return time.UTC
	}
	if loc, err := time.LoadLocation(s.Config.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
