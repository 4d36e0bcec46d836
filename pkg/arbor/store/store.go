// Package store persists an arbor session in a badger database.
//
// Session values live under the "s:" namespace with the key names
// inputType, jsonInput, pathInput, search, selectedNodePaths and collapsed.
// Every value is a string; selection and collapse state are JSON encoded.
package store

import (
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/jamesainslie/arbor/pkg/arbor/logging"
	"github.com/jamesainslie/arbor/pkg/arbor/state"
)

// Session keys.
const (
	KeyInputType = "inputType"
	KeyJSONInput = "jsonInput"
	KeyPathInput = "pathInput"
	KeySearch    = "search"
	KeySelection = "selectedNodePaths"
	KeyCollapsed = "collapsed"
)

// Input modes.
const (
	InputJSON = "json"
	InputPath = "path"
)

const sessionPrefix = "s:"

// ErrNotFound is returned by Get for keys that have no value.
var ErrNotFound = errors.New("key not found")

// Snapshot is everything a session persists.
type Snapshot struct {
	InputType string
	JSONInput string
	PathInput string
	Search    string
	Selection state.Selection
	Collapsed state.Collapse
}

// Store wraps a badger database.
type Store struct {
	db *badger.DB
}

// Open opens or creates the database in dir.
func Open(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}
	return open(badger.DefaultOptions(dir))
}

// OpenInMemory opens a database that is discarded on Close.
func OpenInMemory() (*Store, error) {
	return open(badger.DefaultOptions("").WithInMemory(true))
}

func open(opts badger.Options) (*Store, error) {
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening store: %w", err)
	}
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func sessionKey(key string) []byte {
	return []byte(sessionPrefix + key)
}

// Get returns the value stored under a session key.
func (s *Store) Get(key string) (string, error) {
	var value string
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(sessionKey(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	return value, err
}

// Put stores a session value.
func (s *Store) Put(key, value string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(sessionKey(key), []byte(value))
	})
}

// Delete removes a session value. Missing keys are not an error.
func (s *Store) Delete(key string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(sessionKey(key))
	})
}

// Keys lists the session keys that have values, in key order.
func (s *Store) Keys() ([]string, error) {
	var keys []string
	prefix := []byte(sessionPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			keys = append(keys, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	return keys, err
}

// LoadSnapshot reads the whole session. Missing keys load as zero values
// and a missing input type as InputJSON. Selection or collapse values that
// fail to decode load as empty.
func (s *Store) LoadSnapshot() (Snapshot, error) {
	values := make(map[string]string)
	prefix := []byte(sessionPrefix)
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}
			values[string(item.Key()[len(prefix):])] = string(val)
		}
		return nil
	})
	if err != nil {
		return Snapshot{}, fmt.Errorf("loading session: %w", err)
	}

	snap := Snapshot{
		InputType: values[KeyInputType],
		JSONInput: values[KeyJSONInput],
		PathInput: values[KeyPathInput],
		Search:    values[KeySearch],
		Selection: state.Selection{},
		Collapsed: state.Collapse{},
	}
	if snap.InputType != InputPath {
		snap.InputType = InputJSON
	}

	log := logging.Get("store")
	if raw, ok := values[KeySelection]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Selection); err != nil || snap.Selection == nil {
			log.Warn("ignoring unreadable selection", "error", err)
			snap.Selection = state.Selection{}
		}
	}
	if raw, ok := values[KeyCollapsed]; ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &snap.Collapsed); err != nil || snap.Collapsed == nil {
			log.Warn("ignoring unreadable collapse state", "error", err)
			snap.Collapsed = state.Collapse{}
		}
	}
	return snap, nil
}

// SaveSnapshot writes every session key in one batch.
func (s *Store) SaveSnapshot(snap Snapshot) error {
	selection := snap.Selection
	if selection == nil {
		selection = state.Selection{}
	}
	collapsed := snap.Collapsed
	if collapsed == nil {
		collapsed = state.Collapse{}
	}
	selJSON, err := json.Marshal(selection)
	if err != nil {
		return fmt.Errorf("encoding selection: %w", err)
	}
	colJSON, err := json.Marshal(collapsed)
	if err != nil {
		return fmt.Errorf("encoding collapse state: %w", err)
	}

	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for key, value := range map[string]string{
		KeyInputType: snap.InputType,
		KeyJSONInput: snap.JSONInput,
		KeyPathInput: snap.PathInput,
		KeySearch:    snap.Search,
		KeySelection: string(selJSON),
		KeyCollapsed: string(colJSON),
	} {
		if err := wb.Set(sessionKey(key), []byte(value)); err != nil {
			return fmt.Errorf("saving %s: %w", key, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}
	return nil
}

// Clear removes every session value. The schema record is kept.
func (s *Store) Clear() error {
	keys, err := s.Keys()
	if err != nil {
		return err
	}
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, k := range keys {
		if err := wb.Delete(sessionKey(k)); err != nil {
			return err
		}
	}
	return wb.Flush()
}
