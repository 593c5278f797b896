package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/runoshun/schedule/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager writes configuration files.
type Manager struct {
	dataDir       string // Path to the data directory (.schedule)
	globalConfDir string // Path to global config directory (e.g., ~/.config/schedule)
}

// NewManager creates a new Manager.
func NewManager(dataDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(dataDir, globalConfDir string) *Manager {
	return &Manager{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// LocalConfigPath returns the path of the data directory config file.
func (m *Manager) LocalConfigPath() string {
	return filepath.Join(m.dataDir, domain.ConfigFileName)
}

// GlobalConfigPath returns the path of the global config file, or "" if
// no global config directory is available.
func (m *Manager) GlobalConfigPath() string {
	if m.globalConfDir == "" {
		return ""
	}
	return filepath.Join(m.globalConfDir, domain.ConfigFileName)
}

// InitLocalConfig writes the default template into the data directory
// and returns its path.
func (m *Manager) InitLocalConfig(cfg *domain.Config) (string, error) {
	if err := os.MkdirAll(m.dataDir, 0o750); err != nil {
		return "", fmt.Errorf("create data directory: %w", err)
	}
	path := m.LocalConfigPath()
	return path, m.initConfig(path, cfg)
}

// InitGlobalConfig writes the default template into the global config
// directory and returns its path.
func (m *Manager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	path := m.GlobalConfigPath()
	if path == "" {
		return "", errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return "", fmt.Errorf("create global config directory: %w", err)
	}
	return path, m.initConfig(path, cfg)
}

// initConfig creates a config file with the default template.
// Existing files are never overwritten.
func (m *Manager) initConfig(path string, cfg *domain.Config) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}
	return os.WriteFile(path, []byte(domain.RenderConfigTemplate(cfg)), 0o600)
}
