package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sys/unix"
)

// Rotation controls when the log file is rolled over and how many old files
// survive.
type Rotation struct {
	// MaxBytes rolls the file over before it would exceed this size.
	// Zero means 5 MiB.
	MaxBytes int64
	// Daily also rolls the file over at the first write of a new day.
	Daily bool
	// Keep bounds the number of rolled files. Zero keeps all.
	Keep int
	// MaxAgeDays removes rolled files older than this. Zero disables it.
	MaxAgeDays int
}

const defaultMaxBytes = 5 << 20

// DefaultRotation is the rotation used when nothing is configured.
func DefaultRotation() Rotation {
	return Rotation{MaxBytes: defaultMaxBytes, Daily: true, Keep: 3, MaxAgeDays: 14}
}

// RotatingFile is an append-only log file that rolls itself over.
// Writes take an advisory flock so several arbor processes can share it.
type RotatingFile struct {
	path string
	rot  Rotation

	mu     sync.Mutex
	f      *os.File
	size   int64
	opened time.Time
	now    func() time.Time
}

// OpenRotatingFile opens path for appending, creating parent directories.
func OpenRotatingFile(path string, rot Rotation) (*RotatingFile, error) {
	if rot.MaxBytes <= 0 {
		rot.MaxBytes = defaultMaxBytes
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating log directory: %w", err)
	}
	rf := &RotatingFile{path: path, rot: rot, now: time.Now}
	if err := rf.open(); err != nil {
		return nil, err
	}
	rf.prune()
	return rf, nil
}

func (rf *RotatingFile) open() error {
	f, err := os.OpenFile(rf.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return err
	}
	rf.f = f
	rf.size = info.Size()
	rf.opened = info.ModTime()
	return nil
}

// Write implements io.Writer.
func (rf *RotatingFile) Write(p []byte) (int, error) {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	if rf.f == nil {
		return 0, os.ErrClosed
	}

	if rf.due(int64(len(p))) {
		if err := rf.roll(); err != nil {
			return 0, fmt.Errorf("rotating %s: %w", rf.path, err)
		}
	}

	fd := int(rf.f.Fd())
	if err := unix.Flock(fd, unix.LOCK_EX); err != nil {
		return 0, fmt.Errorf("locking %s: %w", rf.path, err)
	}
	n, err := rf.f.Write(p)
	_ = unix.Flock(fd, unix.LOCK_UN)
	rf.size += int64(n)
	return n, err
}

// Close syncs and closes the file. Later writes fail with os.ErrClosed.
func (rf *RotatingFile) Close() error {
	rf.mu.Lock()
	defer rf.mu.Unlock()
	if rf.f == nil {
		return nil
	}
	syncErr := rf.f.Sync()
	closeErr := rf.f.Close()
	rf.f = nil
	if syncErr != nil {
		return syncErr
	}
	return closeErr
}

func (rf *RotatingFile) due(n int64) bool {
	if rf.size > 0 && rf.size+n > rf.rot.MaxBytes {
		return true
	}
	if !rf.rot.Daily {
		return false
	}
	y1, m1, d1 := rf.now().Date()
	y2, m2, d2 := rf.opened.Date()
	return y1 != y2 || m1 != m2 || d1 != d2
}

// roll renames the current file to name.<stamp>.ext and starts a new one.
func (rf *RotatingFile) roll() error {
	if err := rf.f.Close(); err != nil {
		return err
	}
	rf.f = nil

	ext := filepath.Ext(rf.path)
	rolled := fmt.Sprintf("%s.%s%s", strings.TrimSuffix(rf.path, ext), rf.now().Format("20060102-150405.000"), ext)
	if err := os.Rename(rf.path, rolled); err != nil && !os.IsNotExist(err) {
		return err
	}
	if err := rf.open(); err != nil {
		return err
	}
	rf.opened = rf.now()
	rf.prune()
	return nil
}

// Rolled lists rolled-over files, newest first.
func (rf *RotatingFile) Rolled() []string {
	dir := filepath.Dir(rf.path)
	base := filepath.Base(rf.path)
	ext := filepath.Ext(base)
	prefix := strings.TrimSuffix(base, ext) + "."

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	type rolledFile struct {
		path string
		mod  time.Time
	}
	var files []rolledFile
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || name == base || !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ext) {
			continue
		}
		info, err := e.Info()
		if err != nil {
			continue
		}
		files = append(files, rolledFile{filepath.Join(dir, name), info.ModTime()})
	}
	sort.Slice(files, func(i, j int) bool {
		if files[i].mod.Equal(files[j].mod) {
			return files[i].path > files[j].path
		}
		return files[i].mod.After(files[j].mod)
	})
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.path
	}
	return out
}

// prune removes rolled files beyond Keep or older than MaxAgeDays.
// Failures are ignored.
func (rf *RotatingFile) prune() {
	cutoff := time.Time{}
	if rf.rot.MaxAgeDays > 0 {
		cutoff = rf.now().AddDate(0, 0, -rf.rot.MaxAgeDays)
	}
	for i, path := range rf.Rolled() {
		drop := rf.rot.Keep > 0 && i >= rf.rot.Keep
		if !drop && !cutoff.IsZero() {
			if info, err := os.Stat(path); err == nil && info.ModTime().Before(cutoff) {
				drop = true
			}
		}
		if drop {
			_ = os.Remove(path)
		}
	}
}
