// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/runoshun/schedule/internal/domain"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files.
type Loader struct {
	dataDir       string // Path to the data directory (.schedule)
	globalConfDir string // Path to global config directory (e.g., ~/.config/schedule)
}

// NewLoader creates a new Loader.
func NewLoader(dataDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config directory.
// This is useful for testing.
func NewLoaderWithGlobalDir(dataDir, globalConfDir string) *Loader {
	return &Loader{
		dataDir:       dataDir,
		globalConfDir: globalConfDir,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Precedence: defaults <- global <- local.
func (l *Loader) Load() (*domain.Config, error) {
	global, err := l.LoadGlobal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	local, err := l.LoadLocal()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	base := domain.NewDefaultConfig()
	if global != nil {
		base = mergeConfigs(base, global)
	}
	if local != nil {
		base = mergeConfigs(base, local)
	}
	return base, nil
}

// LoadGlobal returns only the global configuration.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	return l.loadFile(filepath.Join(l.globalConfDir, domain.ConfigFileName))
}

// LoadLocal returns only the data directory configuration.
func (l *Loader) LoadLocal() (*domain.Config, error) {
	return l.loadFile(filepath.Join(l.dataDir, domain.ConfigFileName))
}

// loadFile loads a configuration from a file.
func (l *Loader) loadFile(path string) (*domain.Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return convertRawToDomainConfig(raw), nil
}

// convertRawToDomainConfig converts the raw map to domain config and collects warnings.
// Values of the wrong type are reported as warnings and ignored.
func convertRawToDomainConfig(raw map[string]any) *domain.Config {
	res := &domain.Config{}
	var warnings []string
	badValue := func(section, key string, v any) {
		warnings = append(warnings, fmt.Sprintf("invalid value in [%s]: %s = %v", section, key, v))
	}

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}
		switch section {
		case "server":
			for k, v := range m {
				switch k {
				case "addr":
					if s, ok := v.(string); ok {
						res.Server.Addr = s
					} else {
						badValue(section, k, v)
					}
				case "shutdown_timeout":
					if d, ok := parseDuration(v); ok {
						res.Server.ShutdownTimeout = d
					} else {
						badValue(section, k, v)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [server]: %s", k))
				}
			}
		case "store":
			for k, v := range m {
				s, isString := v.(string)
				switch k {
				case "type":
					if isString && (s == domain.StoreJSON || s == domain.StoreCSV || s == domain.StoreGit) {
						res.Store.Type = s
					} else {
						badValue(section, k, v)
					}
				case "path":
					if isString {
						res.Store.Path = s
					} else {
						badValue(section, k, v)
					}
				case "namespace":
					if isString {
						res.Store.Namespace = s
					} else {
						badValue(section, k, v)
					}
				case "encrypt":
					if b, ok := v.(bool); ok {
						res.Store.Encrypt = b
					} else {
						badValue(section, k, v)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [store]: %s", k))
				}
			}
		case "history":
			for k, v := range m {
				switch k {
				case "limit":
					if n, ok := v.(int64); ok && n > 0 {
						res.History.Limit = int(n)
					} else {
						badValue(section, k, v)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [history]: %s", k))
				}
			}
		case "time":
			for k, v := range m {
				switch k {
				case "zone":
					if s, ok := v.(string); ok && validZone(s) {
						res.Time.Zone = s
					} else {
						badValue(section, k, v)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [time]: %s", k))
				}
			}
		case "log":
			for k, v := range m {
				switch k {
				case "level":
					if s, ok := v.(string); ok {
						res.Log.Level = s
					} else {
						badValue(section, k, v)
					}
				default:
					warnings = append(warnings, fmt.Sprintf("unknown key in [log]: %s", k))
				}
			}
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
		}
	}

	sort.Strings(warnings)
	res.Warnings = warnings
	return res
}

// parseDuration accepts a Go duration string ("30s") or a number of seconds.
func parseDuration(v any) (time.Duration, bool) {
	switch x := v.(type) {
	case string:
		d, err := time.ParseDuration(x)
		if err != nil || d < 0 {
			return 0, false
		}
		return d, true
	case int64:
		if x < 0 {
			return 0, false
		}
		return time.Duration(x) * time.Second, true
	default:
		return 0, false
	}
}

// validZone reports whether zone is empty or names a loadable time zone.
func validZone(zone string) bool {
	if zone == "" {
		return true
	}
	_, err := time.LoadLocation(zone)
	return err == nil
}

// mergeConfigs merges two configs, with override taking precedence.
func mergeConfigs(base, override *domain.Config) *domain.Config {
	result := &domain.Config{
		Server:  base.Server,
		Store:   base.Store,
		History: base.History,
		Log:     base.Log,
		Time:    base.Time,
	}
	if len(base.Warnings)+len(override.Warnings) > 0 {
		result.Warnings = append(append([]string{}, base.Warnings...), override.Warnings...)
	}

	if override.Server.Addr != "" {
		result.Server.Addr = override.Server.Addr
	}
	if override.Server.ShutdownTimeout != 0 {
		result.Server.ShutdownTimeout = override.Server.ShutdownTimeout
	}
	if override.Store.Type != "" {
		result.Store.Type = override.Store.Type
	}
	if override.Store.Path != "" {
		result.Store.Path = override.Store.Path
	}
	if override.Store.Namespace != "" {
		result.Store.Namespace = override.Store.Namespace
	}
	if override.Store.Encrypt {
		result.Store.Encrypt = override.Store.Encrypt
	}
	if override.History.Limit != 0 {
		result.History.Limit = override.History.Limit
	}
	if override.Log.Level != "" {
		result.Log.Level = override.Log.Level
	}
	if override.Time.Zone != "" {
		result.Time.Zone = override.Time.Zone
	}

	return result
}

// Encode renders cfg as TOML. Durations are written as strings so the
// output can be loaded again.
func Encode(cfg *domain.Config) ([]byte, error) {
	doc := map[string]any{
		"server": map[string]any{
			"addr":             cfg.Server.Addr,
			"shutdown_timeout": cfg.Server.ShutdownTimeout.String(),
		},
		"store": map[string]any{
			"type":      cfg.Store.Type,
			"path":      cfg.Store.Path,
			"namespace": cfg.Store.Namespace,
			"encrypt":   cfg.Store.Encrypt,
		},
		"history": map[string]any{
			"limit": cfg.History.Limit,
		},
		"log": map[string]any{
			"level": cfg.Log.Level,
		},
		"time": map[string]any{
			"zone": cfg.Time.Zone,
		},
	}
	out, err := toml.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return out, nil
}
