package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cockroachdb/pebble"
)

// PebbleStore keeps entries in a pebble database on local disk.
type PebbleStore struct {
	db  *pebble.DB
	now func() time.Time
}

var _ Store = (*PebbleStore)(nil)

var writeOptions = &pebble.WriteOptions{Sync: false}

// OpenPebble opens or creates a PebbleStore in dir.
func OpenPebble(dir string) (*PebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("cache: open pebble store %s: %w", dir, err)
	}
	return &PebbleStore{db: db, now: time.Now}, nil
}

func (s *PebbleStore) Get(_ context.Context, key string) (*Entry, error) {
	val, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e, err := decodeEntry(val)
	_ = closer.Close()
	if err != nil {
		return nil, fmt.Errorf("%w: %s", err, key)
	}
	if e.Expired(s.now()) {
		_ = s.db.Delete([]byte(key), writeOptions)
		return nil, ErrNotFound
	}
	return e, nil
}

func (s *PebbleStore) Put(_ context.Context, key string, e *Entry) error {
	return s.db.Set([]byte(key), encodeEntry(e), writeOptions)
}

func (s *PebbleStore) Delete(_ context.Context, key string) error {
	return s.db.Delete([]byte(key), writeOptions)
}

func (s *PebbleStore) Close() error {
	return s.db.Close()
}
