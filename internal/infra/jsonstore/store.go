// Package jsonstore provides a JSON file-based implementation of BoardStore.
package jsonstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/runoshun/schedule/internal/domain"
)

// formatVersion is written to every file and checked on read.
const formatVersion = 1

// storeData represents the JSON file structure.
// Fields are ordered to minimize memory padding.
type storeData struct {
	Board domain.Snapshot `json:"board"`
	Meta  meta            `json:"meta"`
}

// meta contains store metadata.
type meta struct {
	Version int `json:"version"`
}

// Store implements domain.BoardStore using a JSON file.
// Readers take a shared flock and writers an exclusive one, so several
// processes can use the same file.
type Store struct {
	path     string
	lockPath string
}

// New creates a new Store for the given file path.
// The file does not need to exist; Initialize creates it.
func New(path string) *Store {
	return &Store{
		path:     path,
		lockPath: path + ".lock",
	}
}

// Path returns the board file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the stored snapshot.
func (s *Store) Load() (*domain.Snapshot, error) {
	var snap *domain.Snapshot
	err := s.withLock(func(data *storeData) error {
		snap = &data.Board
		return nil
	})
	return snap, err
}

// Save replaces the stored snapshot.
func (s *Store) Save(snap *domain.Snapshot) error {
	lock, err := s.acquireLock(syscall.LOCK_EX)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	return s.write(&storeData{Board: *snap, Meta: meta{Version: formatVersion}})
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates an empty store file if it doesn't exist.
// Returns true if a new file was created.
func (s *Store) Initialize() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if s.IsInitialized() {
		return false, nil
	}

	data := &storeData{
		Board: domain.Snapshot{NextID: 1},
		Meta:  meta{Version: formatVersion},
	}
	if err := s.write(data); err != nil {
		return false, err
	}
	return true, nil
}

// withLock executes fn with a shared (read) lock.
func (s *Store) withLock(fn func(*storeData) error) error {
	lock, err := s.acquireLock(syscall.LOCK_SH)
	if err != nil {
		return err
	}
	defer s.releaseLock(lock)

	data, err := s.read()
	if err != nil {
		return err
	}

	return fn(data)
}

func (s *Store) acquireLock(lockType int) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(s.lockPath), 0o750); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}

	lock, err := os.OpenFile(s.lockPath, os.O_CREATE|os.O_RDWR, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open lock file: %w", err)
	}

	if err := syscall.Flock(int(lock.Fd()), lockType); err != nil {
		_ = lock.Close()
		return nil, fmt.Errorf("acquire lock: %w", err)
	}

	return lock, nil
}

func (s *Store) releaseLock(lock *os.File) {
	_ = syscall.Flock(int(lock.Fd()), syscall.LOCK_UN)
	_ = lock.Close()
}

func (s *Store) read() (*storeData, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("read store file: %w", err)
	}

	var data storeData
	if err := json.Unmarshal(content, &data); err != nil {
		return nil, fmt.Errorf("parse store file: %w", err)
	}
	if data.Meta.Version > formatVersion {
		return nil, fmt.Errorf("parse store file: unsupported version %d", data.Meta.Version)
	}

	return &data, nil
}

func (s *Store) write(data *storeData) error {
	content, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal store data: %w", err)
	}

	// Write to temp file first, then rename for atomicity
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, content, 0o600); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}

	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath) // Clean up
		return fmt.Errorf("rename temp file: %w", err)
	}

	return nil
}

// Ensure Store implements the store ports.
var (
	_ domain.BoardStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
