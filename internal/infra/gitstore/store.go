// Package gitstore keeps a board inside a Git repository.
//
// The board snapshot is stored as a YAML blob and referenced by
// refs/<namespace>/board. The ref never touches branches, the index or the
// working tree, so the board travels with the repository without showing up
// in its history. With an encryptor set, the blob is sealed with AES-256-GCM.
package gitstore

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"gopkg.in/yaml.v3"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/infra/crypto"
)

// Store implements domain.BoardStore using Git plumbing (refs and blobs).
type Store struct {
	repo      *git.Repository
	encryptor *crypto.Encryptor // nil stores plain YAML
	namespace string            // e.g., "schedule"
	mu        sync.RWMutex
}

// Open opens the repository at path, which may be bare, or the repository
// containing path. Parent directories are searched for a .git directory.
func Open(path, namespace string) (*Store, error) {
	repo, err := git.PlainOpen(path)
	if errors.Is(err, git.ErrRepositoryNotExists) {
		repo, err = git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	}
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("open git repository %s: %w", path, domain.ErrNotInitialized)
		}
		return nil, fmt.Errorf("open git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// Create opens the repository containing path, or initializes a bare
// repository at path if there is none.
func Create(path, namespace string) (*Store, error) {
	s, err := Open(path, namespace)
	if err == nil {
		return s, nil
	}
	if !errors.Is(err, domain.ErrNotInitialized) {
		return nil, err
	}
	repo, err := git.PlainInit(path, true)
	if err != nil {
		return nil, fmt.Errorf("init git repository: %w", err)
	}
	return NewWithRepo(repo, namespace), nil
}

// NewWithRepo creates a new Store with an existing repository instance.
func NewWithRepo(repo *git.Repository, namespace string) *Store {
	if namespace == "" {
		namespace = domain.DefaultNamespace
	}
	return &Store{
		repo:      repo,
		namespace: namespace,
	}
}

// WithEncryptor seals board blobs with enc and returns the Store.
func (s *Store) WithEncryptor(enc *crypto.Encryptor) *Store {
	s.encryptor = enc
	return s
}

// boardRef returns the ref name holding the board blob.
func (s *Store) boardRef() plumbing.ReferenceName {
	return plumbing.ReferenceName(domain.BoardRef(s.namespace))
}

// Load reads the board snapshot.
func (s *Store) Load() (*domain.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ref, err := s.repo.Reference(s.boardRef(), true)
	if err != nil {
		if errors.Is(err, plumbing.ErrReferenceNotFound) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("get board ref: %w", err)
	}

	data, err := s.readBlob(ref.Hash())
	if err != nil {
		return nil, fmt.Errorf("read board: %w", err)
	}
	if s.encryptor != nil {
		if data, err = s.encryptor.Decrypt(data); err != nil {
			return nil, fmt.Errorf("decrypt board: %w", err)
		}
	}

	var snap domain.Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	return &snap, nil
}

// Save writes snap as a new blob and moves the board ref to it.
func (s *Store) Save(snap *domain.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.saveLocked(snap)
}

func (s *Store) saveLocked(snap *domain.Snapshot) error {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode board: %w", err)
	}
	if s.encryptor != nil {
		if data, err = s.encryptor.Encrypt(data); err != nil {
			return fmt.Errorf("encrypt board: %w", err)
		}
	}

	hash, err := s.writeBlob(data)
	if err != nil {
		return err
	}

	ref := plumbing.NewHashReference(s.boardRef(), hash)
	if err := s.repo.Storer.SetReference(ref); err != nil {
		return fmt.Errorf("set board ref: %w", err)
	}
	return nil
}

// writeBlob writes data as a blob object.
func (s *Store) writeBlob(data []byte) (plumbing.Hash, error) {
	obj := s.repo.Storer.NewEncodedObject()
	obj.SetType(plumbing.BlobObject)
	obj.SetSize(int64(len(data)))

	writer, err := obj.Writer()
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("create blob writer: %w", err)
	}

	if _, writeErr := writer.Write(data); writeErr != nil {
		_ = writer.Close()
		return plumbing.ZeroHash, fmt.Errorf("write blob: %w", writeErr)
	}
	_ = writer.Close()

	hash, err := s.repo.Storer.SetEncodedObject(obj)
	if err != nil {
		return plumbing.ZeroHash, fmt.Errorf("store blob: %w", err)
	}

	return hash, nil
}

// readBlob reads the content of a blob.
func (s *Store) readBlob(hash plumbing.Hash) ([]byte, error) {
	blob, err := s.repo.BlobObject(hash)
	if err != nil {
		return nil, fmt.Errorf("get blob: %w", err)
	}

	reader, err := blob.Reader()
	if err != nil {
		return nil, fmt.Errorf("read blob: %w", err)
	}
	defer func() { _ = reader.Close() }()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read blob data: %w", err)
	}
	return data, nil
}

// Initialize stores an empty board if none exists yet.
// Returns true if the board was created.
func (s *Store) Initialize() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.repo.Reference(s.boardRef(), true)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return false, fmt.Errorf("check board ref: %w", err)
	}

	if err := s.saveLocked(&domain.Snapshot{NextID: 1}); err != nil {
		return false, err
	}
	return true, nil
}

// IsInitialized reports whether the board ref exists.
func (s *Store) IsInitialized() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, err := s.repo.Reference(s.boardRef(), true)
	return err == nil
}

// Ensure Store implements the store ports.
var (
	_ domain.BoardStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
