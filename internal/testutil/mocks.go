// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"fmt"
	"sync"

	"github.com/runoshun/schedule/internal/domain"
)

// MockBoardStore is a test double for domain.BoardStore.
// Fields are ordered to minimize memory padding.
type MockBoardStore struct {
	Snapshot *domain.Snapshot
	SaveErr  error
	LoadErr  error
	Saves    int
	mu       sync.Mutex
}

// NewMockBoardStore creates a MockBoardStore holding an empty board.
func NewMockBoardStore() *MockBoardStore {
	return &MockBoardStore{Snapshot: &domain.Snapshot{NextID: 1}}
}

// Load returns the last saved snapshot.
func (m *MockBoardStore) Load() (*domain.Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Snapshot == nil {
		return nil, domain.ErrNotInitialized
	}
	return m.Snapshot, nil
}

// Save records the snapshot.
func (m *MockBoardStore) Save(snap *domain.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Snapshot = snap
	m.Saves++
	return nil
}

// SaveCount returns the number of successful saves.
func (m *MockBoardStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Saves
}

// MockStoreInitializer is a test double for domain.StoreInitializer.
type MockStoreInitializer struct {
	InitErr     error
	Initialized bool
}

// Initialize marks the store as initialized.
// Returns true on the first call only.
func (m *MockStoreInitializer) Initialize() (bool, error) {
	if m.InitErr != nil {
		return false, m.InitErr
	}
	created := !m.Initialized
	m.Initialized = true
	return created, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
// Fields are ordered to minimize memory padding.
type MockConfigManager struct {
	InitLocalErr     error
	InitGlobalErr    error
	LocalPath        string
	GlobalPath       string
	Written          *domain.Config
	InitLocalCalled  bool
	InitGlobalCalled bool
}

// InitLocalConfig records the call and returns LocalPath.
func (m *MockConfigManager) InitLocalConfig(cfg *domain.Config) (string, error) {
	m.InitLocalCalled = true
	if m.InitLocalErr != nil {
		return "", m.InitLocalErr
	}
	m.Written = cfg
	return m.LocalPath, nil
}

// InitGlobalConfig records the call and returns GlobalPath.
func (m *MockConfigManager) InitGlobalConfig(cfg *domain.Config) (string, error) {
	m.InitGlobalCalled = true
	if m.InitGlobalErr != nil {
		return "", m.InitGlobalErr
	}
	m.Written = cfg
	return m.GlobalPath, nil
}

// LocalConfigPath returns LocalPath.
func (m *MockConfigManager) LocalConfigPath() string { return m.LocalPath }

// GlobalConfigPath returns GlobalPath.
func (m *MockConfigManager) GlobalConfigPath() string { return m.GlobalPath }

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config *domain.Config
	Err    error
}

// Load returns Config, or defaults when Config is nil.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// LoadGlobal behaves like Load.
func (m *MockConfigLoader) LoadGlobal() (*domain.Config, error) {
	return m.Load()
}

// LogEntry is one call recorded by RecordingLogger.
type LogEntry struct {
	Level    string
	Category string
	Msg      string
	ItemID   int
}

// String renders the entry for failure messages.
func (e LogEntry) String() string {
	return fmt.Sprintf("%s item=%d [%s] %s", e.Level, e.ItemID, e.Category, e.Msg)
}

// RecordingLogger is a domain.Logger that keeps every entry in memory.
type RecordingLogger struct {
	Entries []LogEntry
	mu      sync.Mutex
}

func (l *RecordingLogger) add(level string, itemID int, category, msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, ItemID: itemID, Category: category, Msg: msg})
}

// Debug records a debug entry.
func (l *RecordingLogger) Debug(itemID int, category, msg string) {
	l.add("DEBUG", itemID, category, msg)
}

// Info records an info entry.
func (l *RecordingLogger) Info(itemID int, category, msg string) {
	l.add("INFO", itemID, category, msg)
}

// Warn records a warning entry.
func (l *RecordingLogger) Warn(itemID int, category, msg string) {
	l.add("WARN", itemID, category, msg)
}

// Error records an error entry.
func (l *RecordingLogger) Error(itemID int, category, msg string) {
	l.add("ERROR", itemID, category, msg)
}

// Count returns the number of entries with the given level.
func (l *RecordingLogger) Count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, e := range l.Entries {
		if e.Level == level {
			n++
		}
	}
	return n
}

// Compile-time interface checks.
var (
	_ domain.BoardStore       = (*MockBoardStore)(nil)
	_ domain.StoreInitializer = (*MockStoreInitializer)(nil)
	_ domain.ConfigManager    = (*MockConfigManager)(nil)
	_ domain.ConfigLoader     = (*MockConfigLoader)(nil)
	_ domain.Logger           = (*RecordingLogger)(nil)
)
