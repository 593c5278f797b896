package domain

// Logger records manager activity.
// itemID 0 means the entry is not tied to a specific item.
type Logger interface {
	Debug(itemID int, category, msg string)
	Info(itemID int, category, msg string)
	Warn(itemID int, category, msg string)
	Error(itemID int, category, msg string)
}

// NopLogger discards every entry.
type NopLogger struct{}

func (NopLogger) Debug(int, string, string) {}
func (NopLogger) Info(int, string, string)  {}
func (NopLogger) Warn(int, string, string)  {}
func (NopLogger) Error(int, string, string) {}

// Snapshot is the full persisted state of a board.
// Fields are ordered to minimize memory padding.
type Snapshot struct {
	Tasks    []Task    `json:"tasks" yaml:"tasks"`
	Epics    []Epic    `json:"epics" yaml:"epics"`
	Subtasks []Subtask `json:"subtasks" yaml:"subtasks"`
	History  []int     `json:"history,omitempty" yaml:"history,omitempty"` // Viewed ids, oldest first
	NextID   int       `json:"nextID" yaml:"nextID"`
}

// BoardStore persists board snapshots.
type BoardStore interface {
	// Load reads the last saved snapshot.
	// Returns ErrNotInitialized if the store was never created.
	Load() (*Snapshot, error)

	// Save replaces the stored snapshot.
	Save(snap *Snapshot) error
}

// StoreInitializer initializes the data store.
type StoreInitializer interface {
	// Initialize creates an empty store if it doesn't exist.
	// Returns true if a new store was created.
	Initialize() (bool, error)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the merged configuration (defaults + global + local).
	Load() (*Config, error)

	// LoadGlobal returns only the global configuration.
	LoadGlobal() (*Config, error)
}

// ConfigManager manages configuration files.
type ConfigManager interface {
	// InitLocalConfig writes the default template to the data directory.
	InitLocalConfig(cfg *Config) (string, error)

	// InitGlobalConfig writes the default template to the global config directory.
	InitGlobalConfig(cfg *Config) (string, error)

	// LocalConfigPath returns the path of the local config file.
	LocalConfigPath() string

	// GlobalConfigPath returns the path of the global config file.
	GlobalConfigPath() string
}
