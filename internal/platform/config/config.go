// Package config loads taskquest settings.
//
// Precedence, lowest to highest: the YAML config file
// (<data_dir>/config.yaml unless a path is given), TASKQUEST_* environment
// variables. Built-in defaults fill whatever is still unset.
// TASKQUEST_NARRATOR_API_KEY maps to narrator.api_key; the first
// underscore after the prefix separates the section from the field.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"
)

const (
	envPrefix       = "TASKQUEST_"
	defaultFileName = "config.yaml"

	DriverSQLite = "sqlite"
	DriverFile   = "file"

	BackendLLM    = "llm"
	BackendPlugin = "plugin"
)

// Env vars consulted for the narrator credential when narrator.api_key is unset.
var apiKeyFallbacks = []string{"GEMINI_API_KEY", "API_KEY"}

type Config struct {
	DataDir     string            `koanf:"data_dir" yaml:"data_dir"`
	Storage     StorageConfig     `koanf:"storage" yaml:"storage"`
	Narrator    NarratorConfig    `koanf:"narrator" yaml:"narrator"`
	Log         LogConfig         `koanf:"log" yaml:"log"`
	Leaderboard LeaderboardConfig `koanf:"leaderboard" yaml:"leaderboard"`
}

type StorageConfig struct {
	Driver string `koanf:"driver" yaml:"driver"`
}

type NarratorConfig struct {
	Backend      string `koanf:"backend" yaml:"backend"`
	Model        string `koanf:"model" yaml:"model"`
	BaseURL      string `koanf:"base_url" yaml:"base_url"`
	APIKey       string `koanf:"api_key" yaml:"api_key,omitempty"`
	PluginBinary string `koanf:"plugin_binary" yaml:"plugin_binary,omitempty"`
}

type LogConfig struct {
	Level  string `koanf:"level" yaml:"level"`
	Format string `koanf:"format" yaml:"format"`
}

type LeaderboardConfig struct {
	RecentDays int `koanf:"recent_days" yaml:"recent_days"`
}

// DBPath is the SQLite record store location.
func (c Config) DBPath() string { return filepath.Join(c.DataDir, "taskquest.db") }

// RecordsDir holds one JSON file per record for the file driver.
func (c Config) RecordsDir() string { return filepath.Join(c.DataDir, "records") }

// LogPath is where the TUI sends its logs.
func (c Config) LogPath() string { return filepath.Join(c.DataDir, "taskquest.log") }

func applyDefaults(cfg *Config) {
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverSQLite
	}
	if cfg.Narrator.Backend == "" {
		cfg.Narrator.Backend = BackendLLM
	}
	if cfg.Narrator.Model == "" {
		cfg.Narrator.Model = "gemini-2.5-flash"
	}
	if cfg.Narrator.BaseURL == "" {
		cfg.Narrator.BaseURL = "https://generativelanguage.googleapis.com/v1beta/openai"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}
	if cfg.Leaderboard.RecentDays == 0 {
		cfg.Leaderboard.RecentDays = 7
	}
}

// DefaultDataDir returns ~/.taskquest.
func DefaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home dir: %w", err)
	}
	return filepath.Join(home, ".taskquest"), nil
}

// New loads configuration for dataDir. configPath may be empty.
func New(dataDir, configPath string) (Config, error) {
	if strings.TrimSpace(dataDir) == "" {
		return Config{}, fmt.Errorf("data dir is required")
	}
	k := koanf.New(".")

	explicit := configPath != ""
	if !explicit {
		configPath = filepath.Join(dataDir, defaultFileName)
	}
	content, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := k.Load(rawbytes.Provider(content), yaml.Parser()); err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", configPath, err)
		}
	case os.IsNotExist(err) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config file: %w", err)
	}

	if err := k.Load(env.Provider(envPrefix, ".", envKey), nil); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}
	applyDefaults(&cfg)
	if cfg.Narrator.APIKey == "" {
		for _, name := range apiKeyFallbacks {
			if v := os.Getenv(name); v != "" {
				cfg.Narrator.APIKey = v
				break
			}
		}
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// TASKQUEST_NARRATOR_PLUGIN_BINARY -> narrator.plugin_binary
func envKey(s string) string {
	lower := strings.ToLower(strings.TrimPrefix(s, envPrefix))
	parts := strings.SplitN(lower, "_", 2)
	if len(parts) == 1 || parts[0] == "data" {
		return lower
	}
	return parts[0] + "." + parts[1]
}

func (c Config) Validate() error {
	switch c.Storage.Driver {
	case DriverSQLite, DriverFile:
	default:
		return fmt.Errorf("unsupported storage driver %q", c.Storage.Driver)
	}
	switch c.Narrator.Backend {
	case BackendLLM:
	case BackendPlugin:
		if strings.TrimSpace(c.Narrator.PluginBinary) == "" {
			return fmt.Errorf("narrator.plugin_binary is required for the plugin backend")
		}
	default:
		return fmt.Errorf("unsupported narrator backend %q", c.Narrator.Backend)
	}
	if c.Leaderboard.RecentDays <= 0 {
		return fmt.Errorf("leaderboard.recent_days must be positive")
	}
	return nil
}

// WriteStarter renders cfg as a starter config.yaml in the data dir.
// The API key is never written.
func WriteStarter(cfg Config) (string, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return "", fmt.Errorf("create data dir: %w", err)
	}
	path := filepath.Join(cfg.DataDir, defaultFileName)
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("config already exists at %s", path)
	}
	starter := cfg
	starter.Narrator.APIKey = ""
	raw, err := yamlv3.Marshal(starter)
	if err != nil {
		return "", fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		return "", fmt.Errorf("write config: %w", err)
	}
	return path, nil
}
