package jsonstore

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/manager"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store := New(filepath.Join(t.TempDir(), "board.json"))
	if _, err := store.Initialize(); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	return store
}

func TestStore_Initialize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "board.json")
	store := New(path)

	if store.IsInitialized() {
		t.Fatal("IsInitialized() = true before Initialize")
	}

	created, err := store.Initialize()
	if err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}
	if !created {
		t.Error("Initialize() created = false, want true")
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("store file not created: %v", err)
	}

	// Initialize again should be idempotent
	created, err = store.Initialize()
	if err != nil {
		t.Fatalf("Initialize() second call error = %v", err)
	}
	if created {
		t.Error("Initialize() second call created = true, want false")
	}
}

func TestStore_Load_Empty(t *testing.T) {
	store := newTestStore(t)

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if snap.NextID != 1 {
		t.Errorf("NextID = %d, want 1", snap.NextID)
	}
	if len(snap.Tasks)+len(snap.Epics)+len(snap.Subtasks) != 0 {
		t.Errorf("Load() returned items on an empty board: %+v", snap)
	}
}

func TestStore_Load_NotInitialized(t *testing.T) {
	store := New(filepath.Join(t.TempDir(), "board.json"))

	_, err := store.Load()
	if !errors.Is(err, domain.ErrNotInitialized) {
		t.Errorf("Load() error = %v, want ErrNotInitialized", err)
	}
}

func TestStore_SaveLoad(t *testing.T) {
	store := newTestStore(t)
	start := time.Date(2024, 4, 1, 9, 30, 0, 0, time.UTC)
	want := &domain.Snapshot{
		Tasks: []domain.Task{{Fields: domain.Fields{
			ID: 1, Name: "task", Description: "d", Status: domain.StatusInProgress,
			StartTime: start, Duration: 45 * time.Minute,
		}}},
		Epics: []domain.Epic{{
			Fields:     domain.Fields{ID: 2, Name: "epic", Status: domain.StatusNew},
			SubtaskIDs: []int{3},
		}},
		Subtasks: []domain.Subtask{{Fields: domain.Fields{ID: 3, Name: "sub", Status: domain.StatusNew}, EpicID: 2}},
		History:  []int{3, 1},
		NextID:   4,
	}

	if err := store.Save(want); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !reflect.DeepEqual(want, got) {
		t.Errorf("Load() = %+v, want %+v", got, want)
	}
}

func TestStore_ManagerWriteThrough(t *testing.T) {
	store := newTestStore(t)
	m := manager.New(nil).WithStore(store)

	epic, err := m.CreateEpic(domain.Epic{Fields: domain.Fields{Name: "release"}})
	if err != nil {
		t.Fatalf("CreateEpic() error = %v", err)
	}
	start := time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC)
	sub, err := m.CreateSubtask(domain.Subtask{
		Fields: domain.Fields{Name: "ship", StartTime: start, Duration: time.Hour, Status: domain.StatusDone},
		EpicID: epic.ID,
	})
	if err != nil {
		t.Fatalf("CreateSubtask() error = %v", err)
	}
	if _, err := m.GetSubtask(sub.ID); err != nil {
		t.Fatalf("GetSubtask() error = %v", err)
	}

	snap, err := store.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	reloaded := manager.New(nil)
	reloaded.Restore(snap)

	got, err := reloaded.GetEpic(epic.ID)
	if err != nil {
		t.Fatalf("GetEpic() error = %v", err)
	}
	if got.Status != domain.StatusDone {
		t.Errorf("epic status = %s, want DONE", got.Status)
	}
	if !got.EndTime.Equal(start.Add(time.Hour)) {
		t.Errorf("epic end = %v, want %v", got.EndTime, start.Add(time.Hour))
	}
	if h := reloaded.History(); len(h) != 2 || h[0].Base().ID != sub.ID {
		t.Errorf("History() = %v, want [subtask, epic]", h)
	}
}

func TestStore_Load_Corrupt(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("Load() error = nil, want parse error")
	}
}

func TestStore_Load_FutureVersion(t *testing.T) {
	store := newTestStore(t)
	if err := os.WriteFile(store.Path(), []byte(`{"board":{},"meta":{"version":99}}`), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := store.Load(); err == nil {
		t.Error("Load() error = nil, want version error")
	}
}
