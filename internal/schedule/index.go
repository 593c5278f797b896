// Package schedule keeps scheduled items ordered by start time and detects
// overlapping time windows.
package schedule

import (
	"cmp"
	"time"

	rbt "github.com/emirpasic/gods/trees/redblacktree"

	"github.com/runoshun/schedule/internal/domain"
)

// key orders the tree by (start, id).
// Start times are compared as time.Time, which covers every year the wire
// format accepts.
type key struct {
	start time.Time
	id    int
}

func compareKeys(a, b interface{}) int {
	ka, kb := a.(key), b.(key)
	if c := ka.start.Compare(kb.start); c != 0 {
		return c
	}
	return cmp.Compare(ka.id, kb.id)
}

func keyOf(w domain.Window) key {
	return key{start: w.Start, id: w.ID}
}

// Index is an ordered set of item windows keyed by (start, id).
// Only windows with a start time are admitted. The index holds windows,
// not items, so callers must Remove an entry before its item's time fields
// change and Insert it again afterwards.
// It is not safe for concurrent use.
type Index struct {
	tree *rbt.Tree
	keys map[int]key
}

// New creates an empty Index.
func New() *Index {
	return &Index{
		tree: rbt.NewWith(compareKeys),
		keys: make(map[int]key),
	}
}

// Insert adds w, replacing any entry with the same id.
// Windows without a start time are ignored.
func (x *Index) Insert(w domain.Window) {
	if w.Start.IsZero() {
		return
	}
	x.Remove(w.ID)
	k := keyOf(w)
	x.tree.Put(k, w)
	x.keys[w.ID] = k
}

// Remove drops the entry for id and returns it.
// The second result is false if id was not indexed.
func (x *Index) Remove(id int) (domain.Window, bool) {
	k, ok := x.keys[id]
	if !ok {
		return domain.Window{}, false
	}
	v, _ := x.tree.Get(k)
	x.tree.Remove(k)
	delete(x.keys, id)
	return v.(domain.Window), true
}

// Clear empties the index.
func (x *Index) Clear() {
	x.tree.Clear()
	clear(x.keys)
}

// WouldConflict returns the id of an indexed window that overlaps w,
// ignoring the entry for excludingID. A window without a start time never
// conflicts. Touching windows do not overlap.
func (x *Index) WouldConflict(w domain.Window, excludingID int) (int, bool) {
	if w.Start.IsZero() {
		return 0, false
	}
	it := x.tree.Iterator()
	for it.Next() {
		other := it.Value().(domain.Window)
		// Entries are sorted by start, so nothing past w's end can overlap.
		if !other.Start.Before(w.End) {
			break
		}
		if other.ID == excludingID {
			continue
		}
		if w.Overlaps(other) {
			return other.ID, true
		}
	}
	return 0, false
}

// Ordered returns every indexed window in ascending (start, id) order.
func (x *Index) Ordered() []domain.Window {
	out := make([]domain.Window, 0, x.tree.Size())
	it := x.tree.Iterator()
	for it.Next() {
		out = append(out, it.Value().(domain.Window))
	}
	return out
}
