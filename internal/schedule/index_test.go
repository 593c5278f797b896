package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runoshun/schedule/internal/domain"
)

var base = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func window(id int, startMin, durMin int) domain.Window {
	start := base.Add(time.Duration(startMin) * time.Minute)
	return domain.Window{ID: id, Start: start, End: start.Add(time.Duration(durMin) * time.Minute)}
}

func ids(ws []domain.Window) []int {
	out := make([]int, len(ws))
	for i, w := range ws {
		out[i] = w.ID
	}
	return out
}

func TestIndex_Ordered_SortsByStartThenID(t *testing.T) {
	x := New()
	x.Insert(window(5, 60, 10))
	x.Insert(window(3, 0, 10))
	x.Insert(window(4, 60, 10))
	x.Insert(window(1, 30, 10))

	assert.Equal(t, []int{3, 1, 4, 5}, ids(x.Ordered()))
}

func TestIndex_Insert_IgnoresUnscheduled(t *testing.T) {
	x := New()

	x.Insert(domain.Window{ID: 1})

	assert.Empty(t, x.Ordered())
	_, ok := x.Remove(1)
	assert.False(t, ok)
}

func TestIndex_Insert_ReplacesSameID(t *testing.T) {
	x := New()
	x.Insert(window(1, 0, 10))
	x.Insert(window(2, 30, 10))

	x.Insert(window(1, 60, 10))

	assert.Equal(t, []int{2, 1}, ids(x.Ordered()))
	got, ok := x.Remove(1)
	require.True(t, ok)
	assert.Equal(t, window(1, 60, 10), got)
}

func TestIndex_Remove(t *testing.T) {
	x := New()
	x.Insert(window(1, 0, 10))
	x.Insert(window(2, 30, 10))

	old, ok := x.Remove(1)
	require.True(t, ok)
	assert.Equal(t, window(1, 0, 10), old)
	assert.Equal(t, []int{2}, ids(x.Ordered()))

	_, ok = x.Remove(1)
	assert.False(t, ok)
}

func TestIndex_Clear(t *testing.T) {
	x := New()
	x.Insert(window(1, 0, 10))
	x.Insert(window(2, 30, 10))

	x.Clear()

	assert.Empty(t, x.Ordered())
	_, ok := x.Remove(2)
	assert.False(t, ok)
}

func TestIndex_WouldConflict(t *testing.T) {
	tests := []struct {
		name      string
		candidate domain.Window
		excluding int
		wantID    int
		want      bool
	}{
		{name: "overlaps tail of existing", candidate: window(9, 30, 60), wantID: 1, want: true},
		{name: "touching end does not overlap", candidate: window(9, 60, 60), want: false},
		{name: "touching start does not overlap", candidate: window(9, -30, 30), want: false},
		{name: "contained", candidate: window(9, 10, 5), wantID: 1, want: true},
		{name: "covers existing", candidate: window(9, -10, 200), wantID: 1, want: true},
		{name: "later item", candidate: window(9, 125, 10), wantID: 2, want: true},
		{name: "gap between items", candidate: window(9, 70, 40), want: false},
		{name: "own entry is excluded", candidate: window(1, 30, 60), excluding: 1, want: false},
		{name: "unscheduled never conflicts", candidate: domain.Window{ID: 9}, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x := New()
			x.Insert(window(1, 0, 60))
			x.Insert(window(2, 120, 60))

			id, got := x.WouldConflict(tt.candidate, tt.excluding)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantID, id)
		})
	}
}

func TestIndex_WouldConflict_ZeroDurationInsideWindow(t *testing.T) {
	x := New()
	x.Insert(window(1, 0, 60))

	_, got := x.WouldConflict(window(2, 30, 0), 0)

	assert.True(t, got)
}

func TestIndex_WouldConflict_DoesNotMutate(t *testing.T) {
	x := New()
	x.Insert(window(1, 0, 60))
	before := x.Ordered()

	_, _ = x.WouldConflict(window(2, 10, 10), 0)

	assert.Equal(t, before, x.Ordered())
}

func at(id int, start time.Time, dur time.Duration) domain.Window {
	return domain.Window{ID: id, Start: start, End: start.Add(dur)}
}

func TestIndex_StartsOutsideNanosecondRange(t *testing.T) {
	// Years before 1678 and after 2262 do not fit in int64 nanoseconds.
	early := time.Date(1500, 6, 1, 10, 0, 0, 0, time.UTC)
	recent := time.Date(2020, 1, 1, 10, 0, 0, 0, time.UTC)
	late := time.Date(2263, 6, 1, 10, 0, 0, 0, time.UTC)
	far := time.Date(9999, 12, 31, 10, 0, 0, 0, time.UTC)

	x := New()
	x.Insert(at(1, far, time.Hour))
	x.Insert(at(2, late, time.Hour))
	x.Insert(at(3, recent, time.Hour))
	x.Insert(at(4, early, time.Hour))

	assert.Equal(t, []int{4, 3, 2, 1}, ids(x.Ordered()))

	tests := []struct {
		name      string
		candidate domain.Window
		wantID    int
		want      bool
	}{
		{name: "overlaps recent", candidate: at(9, recent.Add(30*time.Minute), time.Hour), wantID: 3, want: true},
		{name: "overlaps late", candidate: at(9, late.Add(-30*time.Minute), time.Hour), wantID: 2, want: true},
		{name: "overlaps early", candidate: at(9, early.Add(59*time.Minute), time.Minute), wantID: 4, want: true},
		{name: "overlaps far", candidate: at(9, far, time.Minute), wantID: 1, want: true},
		{name: "free slot after late", candidate: at(9, late.Add(time.Hour), time.Hour), want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, got := x.WouldConflict(tt.candidate, 0)

			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantID, id)
		})
	}
}
