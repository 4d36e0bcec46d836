// Package journal keeps an audit trail of committed structural edits.
//
// Each record is a small JSON file named <op>-<timestamp>-<id>.json. The
// journal is write-only history: nothing in arbor replays it.
package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Op names an edit.
type Op string

const (
	OpImport   Op = "import"
	OpMove     Op = "move"
	OpSwap     Op = "swap"
	OpRename   Op = "rename"
	OpDelete   Op = "delete"
	OpMoveInto Op = "move-into"
)

// Record describes one committed edit.
type Record struct {
	ID     string    `json:"id"`
	Time   time.Time `json:"time"`
	Op     Op        `json:"op"`
	Paths  []string  `json:"paths,omitempty"`
	Target string    `json:"target,omitempty"`
	Detail string    `json:"detail,omitempty"`
	// NodesBefore and NodesAfter are the tree sizes around the edit.
	NodesBefore int `json:"nodes_before"`
	NodesAfter  int `json:"nodes_after"`
}

// ErrNotFound is returned by Get for unknown IDs.
var ErrNotFound = errors.New("journal record not found")

const stampLayout = "20060102T150405.000000000Z"

// Journal stores records in a directory.
type Journal struct {
	dir string
	mu  sync.Mutex
	now func() time.Time
}

// Open returns a journal rooted at dir, creating it if needed.
func Open(dir string) (*Journal, error) {
	if dir == "" {
		return nil, errors.New("journal directory is empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal directory: %w", err)
	}
	return &Journal{dir: dir, now: time.Now}, nil
}

// Dir returns the journal directory.
func (j *Journal) Dir() string { return j.dir }

// Append stamps rec with a fresh ID and time and writes it.
func (j *Journal) Append(rec Record) (Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	rec.ID = uuid.NewString()
	rec.Time = j.now().UTC()

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return Record{}, fmt.Errorf("encoding record: %w", err)
	}
	name := fmt.Sprintf("%s-%s-%s.json", rec.Op, rec.Time.Format(stampLayout), rec.ID)
	final := filepath.Join(j.dir, name)
	tmp := final + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return Record{}, fmt.Errorf("writing record: %w", err)
	}
	if err := os.Rename(tmp, final); err != nil {
		_ = os.Remove(tmp)
		return Record{}, fmt.Errorf("writing record: %w", err)
	}
	return rec, nil
}

// List returns up to limit records, newest first. limit <= 0 means all.
// Unreadable files are skipped.
func (j *Journal) List(limit int) ([]Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	files, err := j.files()
	if err != nil {
		return nil, err
	}
	records := make([]Record, 0, len(files))
	for _, f := range files {
		rec, err := readRecord(f)
		if err != nil {
			continue
		}
		records = append(records, rec)
	}
	sort.SliceStable(records, func(a, b int) bool {
		return records[a].Time.After(records[b].Time)
	})
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Get returns the record with the given ID.
func (j *Journal) Get(id string) (Record, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Record{}, fmt.Errorf("%w: %q is not a record id", ErrNotFound, id)
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	matches, err := filepath.Glob(filepath.Join(j.dir, "*-"+id+".json"))
	if err != nil || len(matches) == 0 {
		return Record{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return readRecord(matches[0])
}

// Cleanup deletes records older than retentionDays and reports how many
// were removed. retentionDays <= 0 keeps everything.
func (j *Journal) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()

	cutoff := j.now().UTC().AddDate(0, 0, -retentionDays)
	files, err := j.files()
	if err != nil {
		return 0, err
	}
	removed := 0
	for _, f := range files {
		rec, err := readRecord(f)
		if err != nil || !rec.Time.Before(cutoff) {
			continue
		}
		if err := os.Remove(f); err == nil {
			removed++
		}
	}
	return removed, nil
}

func (j *Journal) files() ([]string, error) {
	entries, err := os.ReadDir(j.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading journal: %w", err)
	}
	var out []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			out = append(out, filepath.Join(j.dir, e.Name()))
		}
	}
	return out, nil
}

func readRecord(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Record{}, err
	}
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return Record{}, fmt.Errorf("decoding %s: %w", filepath.Base(path), err)
	}
	return rec, nil
}
