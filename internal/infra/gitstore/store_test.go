package gitstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/infra/crypto"
	"github.com/runoshun/schedule/internal/manager"
)

func setupTestRepo(t *testing.T) (*git.Repository, string) {
	t.Helper()

	dir := t.TempDir()
	repo, err := git.PlainInit(dir, false)
	require.NoError(t, err)

	// Create an initial commit so HEAD exists
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.md"), []byte("# Test"), 0o644))
	_, err = wt.Add("README.md")
	require.NoError(t, err)
	_, err = wt.Commit("Initial commit", &git.CommitOptions{
		Author: &object.Signature{
			Name:  "Test",
			Email: "test@example.com",
			When:  time.Now(),
		},
	})
	require.NoError(t, err)

	return repo, dir
}

func TestStore_Initialize(t *testing.T) {
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test")
	require.False(t, store.IsInitialized())

	created, err := store.Initialize()
	require.NoError(t, err)
	assert.True(t, created)
	assert.True(t, store.IsInitialized())

	// Second call should be idempotent
	created, err = store.Initialize()
	require.NoError(t, err)
	assert.False(t, created)

	snap, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 1, snap.NextID)
}

func TestStore_Load_NotInitialized(t *testing.T) {
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test")

	_, err := store.Load()

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestStore_SaveLoad(t *testing.T) {
	// Setup
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test")
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	want := &domain.Snapshot{
		Tasks: []domain.Task{{Fields: domain.Fields{
			ID: 1, Name: "standup", Status: domain.StatusDone, StartTime: start, Duration: 15 * time.Minute,
		}}},
		Epics: []domain.Epic{{
			Fields:     domain.Fields{ID: 2, Name: "launch", Description: "q3", Status: domain.StatusInProgress, StartTime: start.Add(time.Hour), Duration: 2 * time.Hour},
			EndTime:    start.Add(3 * time.Hour),
			SubtaskIDs: []int{3},
		}},
		Subtasks: []domain.Subtask{{
			Fields: domain.Fields{ID: 3, Name: "deploy", Status: domain.StatusInProgress, StartTime: start.Add(time.Hour), Duration: 2 * time.Hour},
			EpicID: 2,
		}},
		History: []int{2, 3},
		NextID:  4,
	}

	// Execute
	require.NoError(t, store.Save(want))
	got, err := store.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestStore_Save_MovesRefOnly(t *testing.T) {
	repo, _ := setupTestRepo(t)
	head, err := repo.Head()
	require.NoError(t, err)
	store := NewWithRepo(repo, "schedule-test")

	require.NoError(t, store.Save(&domain.Snapshot{NextID: 1}))
	first, err := repo.Reference(plumbing.ReferenceName("refs/schedule-test/board"), true)
	require.NoError(t, err)
	require.NoError(t, store.Save(&domain.Snapshot{NextID: 2}))
	second, err := repo.Reference(plumbing.ReferenceName("refs/schedule-test/board"), true)
	require.NoError(t, err)

	assert.NotEqual(t, first.Hash(), second.Hash())
	after, err := repo.Head()
	require.NoError(t, err)
	assert.Equal(t, head.Hash(), after.Hash())
}

func TestStore_NamespacesAreIndependent(t *testing.T) {
	repo, _ := setupTestRepo(t)
	a := NewWithRepo(repo, "team-a")
	b := NewWithRepo(repo, "team-b")

	require.NoError(t, a.Save(&domain.Snapshot{NextID: 10}))

	_, err := b.Load()
	assert.ErrorIs(t, err, domain.ErrNotInitialized)
	snap, err := a.Load()
	require.NoError(t, err)
	assert.Equal(t, 10, snap.NextID)
}

func TestOpen_DetectsParentRepository(t *testing.T) {
	_, dir := setupTestRepo(t)
	dataDir := filepath.Join(dir, ".schedule")
	require.NoError(t, os.MkdirAll(dataDir, 0o750))

	store, err := Open(dataDir, "")
	require.NoError(t, err)
	_, err = store.Initialize()
	require.NoError(t, err)

	reopened, err := Open(dir, domain.DefaultNamespace)
	require.NoError(t, err)
	assert.True(t, reopened.IsInitialized())
}

func TestOpen_NoRepository(t *testing.T) {
	_, err := Open(t.TempDir(), "schedule")

	assert.ErrorIs(t, err, domain.ErrNotInitialized)
}

func TestCreate_InitializesBareRepository(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "board.git")

	store, err := Create(dir, "schedule")
	require.NoError(t, err)
	_, err = store.Initialize()
	require.NoError(t, err)

	reopened, err := Open(dir, "schedule")
	require.NoError(t, err)
	assert.True(t, reopened.IsInitialized())
}

func TestStore_ManagerRoundTrip(t *testing.T) {
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test")
	m := manager.New(nil).WithStore(store)
	start := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	epic, err := m.CreateEpic(domain.Epic{Fields: domain.Fields{Name: "e"}})
	require.NoError(t, err)
	_, err = m.CreateSubtask(domain.Subtask{Fields: domain.Fields{Name: "s", StartTime: start, Duration: time.Hour}, EpicID: epic.ID})
	require.NoError(t, err)
	_, err = m.GetEpic(epic.ID)
	require.NoError(t, err)

	snap, err := store.Load()
	require.NoError(t, err)
	reloaded := manager.New(nil)
	reloaded.Restore(snap)

	assert.Equal(t, m.Export(), reloaded.Export())
}

func newEncryptor(t *testing.T) *crypto.Encryptor {
	t.Helper()
	key, err := crypto.GenerateKey()
	require.NoError(t, err)
	enc, err := crypto.NewEncryptor(key)
	require.NoError(t, err)
	return enc
}

func TestStore_Encrypted(t *testing.T) {
	// Setup
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test").WithEncryptor(newEncryptor(t))
	want := &domain.Snapshot{
		Tasks:  []domain.Task{{Fields: domain.Fields{ID: 1, Name: "payroll", Status: domain.StatusNew}}},
		NextID: 2,
	}

	// Execute
	require.NoError(t, store.Save(want))
	got, err := store.Load()

	// Assert
	require.NoError(t, err)
	assert.Equal(t, want, got)

	ref, err := repo.Reference(plumbing.ReferenceName("refs/schedule-test/board"), true)
	require.NoError(t, err)
	raw, err := store.readBlob(ref.Hash())
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "payroll")
}

func TestStore_Encrypted_UnchangedBoardKeepsBlob(t *testing.T) {
	repo, _ := setupTestRepo(t)
	store := NewWithRepo(repo, "schedule-test").WithEncryptor(newEncryptor(t))
	snap := &domain.Snapshot{NextID: 3}

	require.NoError(t, store.Save(snap))
	first, err := repo.Reference(plumbing.ReferenceName("refs/schedule-test/board"), true)
	require.NoError(t, err)
	require.NoError(t, store.Save(snap))
	second, err := repo.Reference(plumbing.ReferenceName("refs/schedule-test/board"), true)
	require.NoError(t, err)

	assert.Equal(t, first.Hash(), second.Hash())
}

func TestStore_Encrypted_WrongKey(t *testing.T) {
	repo, _ := setupTestRepo(t)
	require.NoError(t, NewWithRepo(repo, "schedule-test").WithEncryptor(newEncryptor(t)).Save(&domain.Snapshot{NextID: 1}))

	_, err := NewWithRepo(repo, "schedule-test").WithEncryptor(newEncryptor(t)).Load()

	assert.ErrorIs(t, err, crypto.ErrDecryptionFailed)
}
