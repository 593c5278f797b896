// Package history tracks recently viewed board items.
//
// The tracker keeps a bounded, duplicate-free list ordered by recency.
// Entries are copies taken at view time, so later edits to an item do not
// change what the history shows.
package history

import (
	list "github.com/bahlo/generic-list-go"

	"github.com/runoshun/schedule/internal/domain"
)

// DefaultLimit is the number of views kept when no limit is configured.
const DefaultLimit = domain.DefaultHistoryLimit

// Tracker remembers viewed items, oldest first.
// It is not safe for concurrent use.
type Tracker struct {
	order *list.List[domain.Item]
	nodes map[int]*list.Element[domain.Item]
	limit int
}

// New creates a Tracker holding at most limit entries.
// A non-positive limit selects DefaultLimit.
func New(limit int) *Tracker {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Tracker{
		order: list.New[domain.Item](),
		nodes: make(map[int]*list.Element[domain.Item]),
		limit: limit,
	}
}

// Record marks it as the most recently viewed item.
// A previous entry for the same id is dropped, and the oldest entry is
// evicted once the limit is exceeded. nil is ignored.
func (t *Tracker) Record(it domain.Item) {
	frozen := domain.Clone(it)
	if frozen == nil {
		return
	}

	id := frozen.Base().ID
	t.Remove(id)
	t.nodes[id] = t.order.PushBack(frozen)

	for t.order.Len() > t.limit {
		oldest := t.order.Front()
		delete(t.nodes, oldest.Value.Base().ID)
		t.order.Remove(oldest)
	}
}

// Remove drops the entry for id. Unknown ids are ignored.
func (t *Tracker) Remove(id int) {
	node, ok := t.nodes[id]
	if !ok {
		return
	}
	t.order.Remove(node)
	delete(t.nodes, id)
}

// Clear drops every entry.
func (t *Tracker) Clear() {
	t.order.Init()
	clear(t.nodes)
}

// Snapshot returns the tracked items, oldest first.
// The returned slice and its items are independent of the tracker.
func (t *Tracker) Snapshot() []domain.Item {
	items := make([]domain.Item, 0, t.order.Len())
	for e := t.order.Front(); e != nil; e = e.Next() {
		items = append(items, domain.Clone(e.Value))
	}
	return items
}

// IDs returns the tracked ids, oldest first.
func (t *Tracker) IDs() []int {
	ids := make([]int, 0, t.order.Len())
	for e := t.order.Front(); e != nil; e = e.Next() {
		ids = append(ids, e.Value.Base().ID)
	}
	return ids
}
