package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
	"time"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Server   ServerConfig  `toml:"server"`
	Store    StoreConfig   `toml:"store"`
	Log      LogConfig     `toml:"log"`
	History  HistoryConfig `toml:"history"`
	Time     TimeConfig    `toml:"time"`
}

// ServerConfig holds HTTP server settings from [server] section.
type ServerConfig struct {
	Addr            string        `toml:"addr,omitempty"`             // Listen address (default ":8080")
	ShutdownTimeout time.Duration `toml:"shutdown_timeout,omitempty"` // Graceful shutdown limit (default 10s)
}

// StoreConfig holds board persistence settings from [store] section.
type StoreConfig struct {
	Type      string `toml:"type,omitempty"`      // Storage backend: "json" (default), "csv" or "git"
	Path      string `toml:"path,omitempty"`      // File path for json/csv, repository path for git
	Namespace string `toml:"namespace,omitempty"` // Git ref namespace (default "schedule")
	Encrypt   bool   `toml:"encrypt,omitempty"`   // Seal the git board blob with the key in <data-dir>/board.key
}

// HistoryConfig holds view history settings from [history] section.
type HistoryConfig struct {
	Limit int `toml:"limit,omitempty"` // Maximum tracked views (default 10)
}

// TimeConfig holds wall-clock settings from [time] section.
type TimeConfig struct {
	Zone string `toml:"zone,omitempty"` // IANA zone for start times (default: system local zone)
}

// LogConfig holds logging settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Store types.
const (
	StoreJSON = "json"
	StoreCSV  = "csv"
	StoreGit  = "git"
)

// Defaults.
const (
	DefaultAddr            = ":8080"
	DefaultShutdownTimeout = 10 * time.Second
	DefaultStoreType       = StoreJSON
	DefaultNamespace       = "schedule"
	DefaultHistoryLimit    = 10
	DefaultLogLevel        = "info"
)

// File and directory names.
const (
	ConfigFileName = "config.toml" // Config file name
	DataDirName    = ".schedule"   // Default data directory, relative to the working directory
	KeyFileName    = "board.key"   // Encryption key for the git store
	appDirName     = "schedule"    // Directory name under the user config home
)

// ConfigInfo describes a config file location.
type ConfigInfo struct {
	Path   string // Absolute path, or "" when unavailable
	Exists bool   // True if the file is present
}

// NewDefaultConfig returns a Config populated with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            DefaultAddr,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Store: StoreConfig{
			Type:      DefaultStoreType,
			Namespace: DefaultNamespace,
		},
		History: HistoryConfig{
			Limit: DefaultHistoryLimit,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// GlobalConfigDir returns the global configuration directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, appDirName)
}

// StorePath returns the configured store path, or the default file for the
// store type inside dataDir.
func (c *Config) StorePath(dataDir string) string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	switch c.Store.Type {
	case StoreCSV:
		return filepath.Join(dataDir, "board.csv")
	case StoreGit:
		return dataDir
	default:
		return filepath.Join(dataDir, "board.json")
	}
}

// Location resolves the configured time zone. An empty zone selects time.Local.
func (c *Config) Location() (*time.Location, error) {
	if c.Time.Zone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Time.Zone)
	if err != nil {
		return nil, fmt.Errorf("%w: time zone %q: %v", ErrValidation, c.Time.Zone, err)
	}
	return loc, nil
}

// RenderConfigTemplate renders the default config file for cfg.
func RenderConfigTemplate(cfg *Config) string {
	tmpl := template.Must(template.New("config").Parse(configTemplateContent))
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, cfg); err != nil {
		// Template is embedded and covered by tests.
		panic(err)
	}
	return buf.String()
}
