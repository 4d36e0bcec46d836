package store

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
)

// SchemaVersion is the layout written by this package.
//
//	1 - session keys under "s:"
const SchemaVersion = 1

const schemaKey = "m:__schema__"

// ErrNewerSchema means the database was written by a newer arbor.
var ErrNewerSchema = errors.New("store was written by a newer version")

// Schema describes the on-disk layout.
type Schema struct {
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
}

// Schema returns the stored schema record.
func (s *Store) Schema() (Schema, error) {
	var schema Schema
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(schemaKey))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &schema)
		})
	})
	return schema, err
}

// ensureSchema stamps a fresh database and refuses one from the future.
func (s *Store) ensureSchema() error {
	schema, err := s.Schema()
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		data, err := json.Marshal(Schema{Version: SchemaVersion, CreatedAt: time.Now().UTC()})
		if err != nil {
			return err
		}
		return s.db.Update(func(txn *badger.Txn) error {
			return txn.Set([]byte(schemaKey), data)
		})
	case err != nil:
		return fmt.Errorf("reading schema: %w", err)
	case schema.Version > SchemaVersion:
		return fmt.Errorf("%w: schema %d, supported %d", ErrNewerSchema, schema.Version, SchemaVersion)
	default:
		return nil
	}
}
