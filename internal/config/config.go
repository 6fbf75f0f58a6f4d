package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Backend string

const (
	BackendSQLite    Backend = "sqlite"
	BackendMemory    Backend = "memory"
	BackendFirestore Backend = "firestore"
)

const defaultConfigPath = "mindguard.yaml"

type Config struct {
	Storage      Backend `yaml:"storage"`
	DBPath       string  `yaml:"db_path"`
	GCPProjectID string  `yaml:"gcp_project"`

	// KeywordsPath overrides the embedded classifier tables when set
	KeywordsPath string `yaml:"keywords_path"`

	Addr              string `yaml:"addr"`
	AttentionSchedule string `yaml:"attention_schedule"`
	Timezone          string `yaml:"timezone"`
	LogLevel          string `yaml:"log_level"`

	Location *time.Location `yaml:"-"` // computed from Timezone
}

// DefaultDBPath is ~/.mindguard/mindguard.db
func DefaultDBPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".mindguard", "mindguard.db")
}

// Load reads the YAML file (MINDGUARD_CONFIG or ./mindguard.yaml), applies env
// overrides and fills defaults. A missing default file is not an error.
func Load() (Config, error) {
	var cfg Config

	configPath := defaultConfigPath
	explicit := false
	if envPath := os.Getenv("MINDGUARD_CONFIG"); envPath != "" {
		configPath = envPath
		explicit = true
	}

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read %s: %w", configPath, err)
	}

	envOverride((*string)(&cfg.Storage), "MINDGUARD_STORAGE")
	envOverride(&cfg.DBPath, "MINDGUARD_DB_PATH")
	envOverride(&cfg.GCPProjectID, "MINDGUARD_GCP_PROJECT")
	envOverride(&cfg.KeywordsPath, "MINDGUARD_KEYWORDS_PATH")
	envOverride(&cfg.Addr, "MINDGUARD_ADDR")
	envOverride(&cfg.AttentionSchedule, "MINDGUARD_ATTENTION_SCHEDULE")
	envOverride(&cfg.Timezone, "MINDGUARD_TIMEZONE")
	envOverride(&cfg.LogLevel, "MINDGUARD_LOG_LEVEL")

	if cfg.Storage == "" {
		cfg.Storage = BackendSQLite
	}
	if cfg.DBPath == "" {
		cfg.DBPath = DefaultDBPath()
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Local"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	c.Storage = Backend(strings.ToLower(strings.TrimSpace(string(c.Storage))))
	switch c.Storage {
	case BackendSQLite, BackendMemory:
	case BackendFirestore:
		if c.GCPProjectID == "" {
			return fmt.Errorf("gcp_project (MINDGUARD_GCP_PROJECT) is required for firestore storage")
		}
	default:
		return fmt.Errorf("unknown storage backend %q (want sqlite, memory or firestore)", c.Storage)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	c.Location = loc
	return nil
}

func envOverride(target *string, key string) {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		*target = v
	}
}
