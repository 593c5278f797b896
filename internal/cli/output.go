package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/runoshun/schedule/internal/domain"
	"github.com/runoshun/schedule/internal/tui"
)

// timeLayouts are accepted by --start, most specific first.
var timeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// parseStart parses a wall-clock start time in loc. An empty string unschedules.
func parseStart(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: invalid start time %q (use YYYY-MM-DD HH:MM)", domain.ErrValidation, s)
}

// parseID parses a positional item id.
func parseID(arg string) (int, error) {
	id, err := strconv.Atoi(strings.TrimPrefix(arg, "#"))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %q", arg)
	}
	return id, nil
}

func formatStart(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format(tui.TimeLayout)
}

func asItems[T domain.Item](src []T) []domain.Item {
	out := make([]domain.Item, 0, len(src))
	for _, v := range src {
		out = append(out, v)
	}
	return out
}

// printItems writes items as an aligned table.
func printItems(w io.Writer, items []domain.Item) {
	if len(items) == 0 {
		_, _ = fmt.Fprintln(w, "No items.")
		return
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "ID\tTYPE\tSTATUS\tSTART\tDURATION\tNAME\tEPIC")
	for _, it := range items {
		f := it.Base()
		epic := "-"
		if st, ok := it.(domain.Subtask); ok {
			epic = "#" + strconv.Itoa(st.EpicID)
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			f.ID, it.Kind(), f.Status, formatStart(f.StartTime), f.Duration, f.Name, epic)
	}
	_ = tw.Flush()
}

// printItem writes the details of a single item.
func printItem(w io.Writer, it domain.Item) {
	f := it.Base()
	_, _ = fmt.Fprintf(w, "%s #%d: %s\n", it.Kind(), f.ID, f.Name)
	_, _ = fmt.Fprintf(w, "  Status:   %s\n", tui.StatusBadge(f.Status))
	_, _ = fmt.Fprintf(w, "  Start:    %s\n", formatStart(f.StartTime))
	_, _ = fmt.Fprintf(w, "  End:      %s\n", formatStart(it.End()))
	_, _ = fmt.Fprintf(w, "  Duration: %s\n", f.Duration)

	switch v := it.(type) {
	case domain.Epic:
		ids := make([]string, 0, len(v.SubtaskIDs))
		for _, id := range v.SubtaskIDs {
			ids = append(ids, "#"+strconv.Itoa(id))
		}
		_, _ = fmt.Fprintf(w, "  Subtasks: %s\n", strings.Join(ids, " "))
	case domain.Subtask:
		_, _ = fmt.Fprintf(w, "  Epic:     #%d\n", v.EpicID)
	}

	if f.Description != "" {
		_, _ = fmt.Fprintf(w, "\n%s\n", f.Description)
	}
}
