// Package config loads sitetrack settings from ~/.sitetrack/config.yaml and
// SITETRACK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Dir is the per-user directory holding the config, log and local document.
const Dir = ".sitetrack"

// Backend names.
const (
	BackendSQLite = "sqlite"
	BackendXLSX   = "xlsx"
	BackendSheets = "sheets"
)

// Config holds all settings. Zero values are filled by Default.
type Config struct {
	Backend       string        `yaml:"backend"`
	TemplateSheet string        `yaml:"template_sheet"`
	SQLite        SQLiteConfig  `yaml:"sqlite"`
	XLSX          XLSXConfig    `yaml:"xlsx"`
	Sheets        SheetsConfig  `yaml:"sheets"`
	Log           LogConfig     `yaml:"log"`
	Metrics       MetricsConfig `yaml:"metrics"`
}

type SQLiteConfig struct {
	Path string `yaml:"path"`
}

type XLSXConfig struct {
	Path string `yaml:"path"`
}

// SheetsConfig configures the Google Sheets backend. Credentials are a
// service-account JSON key obtained out of band.
type SheetsConfig struct {
	SpreadsheetID   string `yaml:"spreadsheet_id"`
	CredentialsFile string `yaml:"credentials_file"`
	MaxRetries      int    `yaml:"max_retries"`
	TimeoutMs       int    `yaml:"timeout_ms"`
}

type LogConfig struct {
	File  string `yaml:"file"`
	Level string `yaml:"level"`
}

type MetricsConfig struct {
	Addr string `yaml:"addr"`
}

// Default returns a Config using the local SQLite document under home.
func Default(home string) Config {
	base := filepath.Join(home, Dir)
	return Config{
		Backend:       BackendSQLite,
		TemplateSheet: "템플릿",
		SQLite:        SQLiteConfig{Path: filepath.Join(base, "sitetrack.db")},
		XLSX:          XLSXConfig{Path: filepath.Join(base, "sitetrack.xlsx")},
		Sheets:        SheetsConfig{MaxRetries: 2, TimeoutMs: 15000},
		Log:           LogConfig{File: filepath.Join(base, "sitetrack.log"), Level: "info"},
	}
}

// DefaultPath returns ~/.sitetrack/config.yaml.
func DefaultPath(home string) string {
	return filepath.Join(home, Dir, "config.yaml")
}

// Load reads the YAML file at path (a missing file is not an error), applies
// environment overrides and validates the result.
func Load(path, home string) (Config, error) {
	cfg := Default(home)

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("reading %s: %w", path, err)
	}

	applyEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv("SITETRACK_BACKEND"); v != "" {
		cfg.Backend = strings.ToLower(v)
	}
	if v := os.Getenv("SITETRACK_TEMPLATE_SHEET"); v != "" {
		cfg.TemplateSheet = v
	}
	if v := os.Getenv("SITETRACK_DB"); v != "" {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv("SITETRACK_XLSX"); v != "" {
		cfg.XLSX.Path = v
	}
	if v := os.Getenv("SITETRACK_SPREADSHEET_ID"); v != "" {
		cfg.Sheets.SpreadsheetID = v
	}
	if v := os.Getenv("SITETRACK_CREDENTIALS"); v != "" {
		cfg.Sheets.CredentialsFile = v
	}
	if v := os.Getenv("SITETRACK_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Sheets.MaxRetries = n
		}
	}
	if v := os.Getenv("SITETRACK_TIMEOUT_MS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.Sheets.TimeoutMs = n
		}
	}
	if v := os.Getenv("SITETRACK_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}
	if v := os.Getenv("SITETRACK_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("SITETRACK_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
	}
}

// Validate checks that the selected backend has what it needs.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendSQLite:
		if c.SQLite.Path == "" {
			return fmt.Errorf("sqlite backend requires sqlite.path")
		}
	case BackendXLSX:
		if c.XLSX.Path == "" {
			return fmt.Errorf("xlsx backend requires xlsx.path")
		}
	case BackendSheets:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("sheets backend requires sheets.spreadsheet_id")
		}
		if c.Sheets.CredentialsFile == "" {
			return fmt.Errorf("sheets backend requires sheets.credentials_file")
		}
	default:
		return fmt.Errorf("unknown backend %q (want %s, %s or %s)", c.Backend, BackendSQLite, BackendXLSX, BackendSheets)
	}
	if _, err := c.LogLevel(); err != nil {
		return err
	}
	return nil
}

// LogLevel parses Log.Level.
func (c Config) LogLevel() (slog.Level, error) {
	var lvl slog.Level
	if c.Log.Level == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("invalid log.level %q", c.Log.Level)
	}
	return lvl, nil
}
