// Package config loads the schemaviz YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sadopc/schemaviz/internal/adapter"
)

// Config holds all application configuration.
type Config struct {
	Theme       string            `yaml:"theme"`
	Export      ExportConfig      `yaml:"export"`
	Graph       GraphConfig       `yaml:"graph"`
	Audit       AuditConfig       `yaml:"audit"`
	Connections []SavedConnection `yaml:"connections"`
}

// ExportConfig holds output defaults.
type ExportConfig struct {
	Format  string `yaml:"format"`
	File    string `yaml:"file"` // without extension
	KeepDot bool   `yaml:"keep_dot"`
}

// GraphConfig holds diagram font settings.
type GraphConfig struct {
	FontName string `yaml:"font_name"`
	FontSize int    `yaml:"font_size"`
}

// AuditConfig controls the export audit log.
type AuditConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Path      string `yaml:"path,omitempty"` // defaults to ConfigDir()/audit.jsonl
	MaxSizeMB int    `yaml:"max_size_mb"`
}

// SavedConnection holds parameters for a saved database connection.
type SavedConnection struct {
	Name     string `yaml:"name"`
	Adapter  string `yaml:"adapter"`
	DSN      string `yaml:"dsn,omitempty"`
	Host     string `yaml:"host,omitempty"`
	Port     int    `yaml:"port,omitempty"`
	User     string `yaml:"user,omitempty"`
	Password string `yaml:"password,omitempty"`
	Database string `yaml:"database,omitempty"`
	File     string `yaml:"file,omitempty"`
	Schema   string `yaml:"schema,omitempty"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Theme: "default",
		Export: ExportConfig{
			Format: "png",
			File:   "schema_models",
		},
		Graph: GraphConfig{
			FontName: "Helvetica",
			FontSize: 8,
		},
		Audit: AuditConfig{
			MaxSizeMB: 10,
		},
	}
}

// ConfigDir returns the schemaviz configuration directory path, typically
// ~/.config/schemaviz/.
func ConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("config dir: %w", err)
	}
	return filepath.Join(base, "schemaviz"), nil
}

// DefaultPath returns ConfigDir()/config.yaml.
func DefaultPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load reads a Config from the YAML file at path. If the file does not exist,
// it returns DefaultConfig without error.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, nil
}

// LoadDefault loads configuration from DefaultPath.
func LoadDefault() (*Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Save writes the Config to the YAML file at path, creating any necessary
// parent directories.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	// Saved connections may carry passwords.
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Connection returns the saved connection with the given name.
func (c *Config) Connection(name string) (SavedConnection, error) {
	for _, sc := range c.Connections {
		if sc.Name == name {
			return sc, nil
		}
	}
	names := make([]string, 0, len(c.Connections))
	for _, sc := range c.Connections {
		names = append(names, sc.Name)
	}
	if len(names) == 0 {
		return SavedConnection{}, fmt.Errorf("no saved connection %q (config has none)", name)
	}
	return SavedConnection{}, fmt.Errorf("no saved connection %q (available: %s)", name, strings.Join(names, ", "))
}

// AuditPath returns the configured audit log path or the default one.
func (c *Config) AuditPath() (string, error) {
	if c.Audit.Path != "" {
		return c.Audit.Path, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "audit.jsonl"), nil
}

// BuildDSN returns DSN if set, otherwise a driver connection string composed
// from the individual fields.
func (sc *SavedConnection) BuildDSN() string {
	if sc.DSN != "" {
		return sc.DSN
	}
	return adapter.BuildDSN(strings.ToLower(sc.Adapter), adapter.ConnParams{
		Host:     sc.Host,
		Port:     sc.Port,
		User:     sc.User,
		Password: sc.Password,
		Database: sc.Database,
		File:     sc.File,
	})
}

// DisplayString returns a human-readable representation of the connection,
// formatted as "adapter://host:port/database" for network adapters or
// "adapter://file" for file-based adapters. Credentials are never included.
func (sc *SavedConnection) DisplayString() string {
	name := strings.ToLower(sc.Adapter)
	if name == "sqlite" || name == "duckdb" {
		file := sc.File
		if file == "" {
			file = sc.DSN
		}
		return fmt.Sprintf("%s://%s", sc.Adapter, file)
	}

	host := sc.Host
	if host == "" {
		host = "localhost"
	}

	var location string
	if sc.Port > 0 {
		location = fmt.Sprintf("%s:%d", host, sc.Port)
	} else {
		location = host
	}

	db := sc.Database
	if db != "" {
		return fmt.Sprintf("%s://%s/%s", sc.Adapter, location, db)
	}
	return fmt.Sprintf("%s://%s", sc.Adapter, location)
}
