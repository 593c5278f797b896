// Package csvstore persists a board as a CSV file.
//
// The file starts with the header
//
//	id,type,name,status,description,startTime,durationMinutes,epic
//
// followed by one row per task, epic and subtask. Two trailing rows keep the
// view history ("history,<id>,<id>,...") and the id counter ("next,<id>").
// Durations are stored in whole minutes and start times as local date-times
// without a zone.
package csvstore

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/runoshun/schedule/internal/domain"
)

// TimeLayout is the start time format used in the file.
const TimeLayout = "2006-01-02T15:04:05"

const (
	rowHistory = "history"
	rowNext    = "next"
)

var header = []string{"id", "type", "name", "status", "description", "startTime", "durationMinutes", "epic"}

// Store implements domain.BoardStore using a CSV file.
type Store struct {
	loc  *time.Location
	path string
}

// New creates a Store for the given file path.
// Start times are read and written in the local time zone.
func New(path string) *Store {
	return &Store{path: path, loc: time.Local}
}

// WithLocation sets the time zone used for start times and returns the Store.
func (s *Store) WithLocation(loc *time.Location) *Store {
	s.loc = loc
	return s
}

// Path returns the board file path.
func (s *Store) Path() string {
	return s.path
}

// IsInitialized checks if the store file exists.
func (s *Store) IsInitialized() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Initialize creates a file holding only the header if it doesn't exist.
// Returns true if a new file was created.
func (s *Store) Initialize() (bool, error) {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o750); err != nil {
		return false, fmt.Errorf("create directory: %w", err)
	}
	if s.IsInitialized() {
		return false, nil
	}
	if err := s.Save(&domain.Snapshot{NextID: 1}); err != nil {
		return false, err
	}
	return true, nil
}

// Save writes snap, replacing the file atomically.
func (s *Store) Save(snap *domain.Snapshot) error {
	tmpPath := s.path + ".tmp"
	f, err := os.OpenFile(tmpPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}

	if err := s.encode(f, snap); err != nil {
		_ = f.Close()
		_ = os.Remove(tmpPath)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

// Load reads the board file.
func (s *Store) Load() (*domain.Snapshot, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotInitialized
		}
		return nil, fmt.Errorf("open store file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return s.decode(f)
}

func (s *Store) encode(w io.Writer, snap *domain.Snapshot) error {
	cw := csv.NewWriter(w)
	rows := [][]string{header}
	for _, t := range snap.Tasks {
		rows = append(rows, s.row(domain.KindTask, t.Fields, ""))
	}
	for _, e := range snap.Epics {
		rows = append(rows, s.row(domain.KindEpic, e.Fields, ""))
	}
	for _, st := range snap.Subtasks {
		rows = append(rows, s.row(domain.KindSubtask, st.Fields, strconv.Itoa(st.EpicID)))
	}

	hist := []string{rowHistory}
	for _, id := range snap.History {
		hist = append(hist, strconv.Itoa(id))
	}
	rows = append(rows, hist, []string{rowNext, strconv.Itoa(snap.NextID)})

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("write store file: %w", err)
	}
	return nil
}

func (s *Store) row(kind domain.Kind, f domain.Fields, epic string) []string {
	start := ""
	if f.IsScheduled() {
		start = f.StartTime.In(s.loc).Format(TimeLayout)
	}
	return []string{
		strconv.Itoa(f.ID),
		string(kind),
		f.Name,
		string(f.Status),
		f.Description,
		start,
		strconv.FormatInt(int64(f.Duration/time.Minute), 10),
		epic,
	}
}

func (s *Store) decode(r io.Reader) (*domain.Snapshot, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	snap := &domain.Snapshot{}
	first := true
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse store file: %w", err)
		}
		if first {
			first = false
			if len(rec) > 0 && rec[0] == header[0] {
				continue
			}
		}
		line, _ := cr.FieldPos(0)
		if err := s.decodeRow(snap, rec); err != nil {
			return nil, fmt.Errorf("parse store file: line %d: %w", line, err)
		}
	}
	return snap, nil
}

func (s *Store) decodeRow(snap *domain.Snapshot, rec []string) error {
	switch rec[0] {
	case rowHistory:
		for _, v := range rec[1:] {
			id, err := strconv.Atoi(v)
			if err != nil {
				return fmt.Errorf("history id %q: %w", v, err)
			}
			snap.History = append(snap.History, id)
		}
		return nil
	case rowNext:
		if len(rec) < 2 {
			return errors.New("next id missing")
		}
		n, err := strconv.Atoi(rec[1])
		if err != nil {
			return fmt.Errorf("next id %q: %w", rec[1], err)
		}
		snap.NextID = n
		return nil
	}

	if len(rec) < len(header)-1 {
		return fmt.Errorf("expected %d fields, got %d", len(header), len(rec))
	}
	f, err := s.fields(rec)
	if err != nil {
		return err
	}

	switch domain.Kind(rec[1]) {
	case domain.KindTask:
		snap.Tasks = append(snap.Tasks, domain.Task{Fields: f})
	case domain.KindEpic:
		snap.Epics = append(snap.Epics, domain.Epic{Fields: f})
	case domain.KindSubtask:
		if len(rec) < len(header) {
			return errors.New("subtask without epic")
		}
		epicID, err := strconv.Atoi(rec[7])
		if err != nil {
			return fmt.Errorf("epic id %q: %w", rec[7], err)
		}
		snap.Subtasks = append(snap.Subtasks, domain.Subtask{Fields: f, EpicID: epicID})
	default:
		return fmt.Errorf("unknown item type %q", rec[1])
	}
	return nil
}

func (s *Store) fields(rec []string) (domain.Fields, error) {
	var f domain.Fields
	id, err := strconv.Atoi(rec[0])
	if err != nil {
		return f, fmt.Errorf("id %q: %w", rec[0], err)
	}
	status, err := domain.ParseStatus(rec[3])
	if err != nil {
		return f, fmt.Errorf("status %q: %w", rec[3], err)
	}
	f.ID = id
	f.Name = rec[2]
	f.Status = status
	f.Description = rec[4]

	if rec[5] != "" {
		start, err := time.ParseInLocation(TimeLayout, rec[5], s.loc)
		if err != nil {
			return f, fmt.Errorf("start time %q: %w", rec[5], err)
		}
		f.StartTime = start
	}
	if rec[6] != "" {
		minutes, err := strconv.ParseInt(rec[6], 10, 64)
		if err != nil {
			return f, fmt.Errorf("duration %q: %w", rec[6], err)
		}
		dur, err := domain.DurationFromMinutes(minutes)
		if err != nil {
			return f, fmt.Errorf("duration %q: %w", rec[6], err)
		}
		f.Duration = dur
	}
	return f, nil
}

// Ensure Store implements the store ports.
var (
	_ domain.BoardStore       = (*Store)(nil)
	_ domain.StoreInitializer = (*Store)(nil)
)
