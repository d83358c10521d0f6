package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
)

// ErrNotFound is returned by Store.Get on a miss or an expired entry.
var ErrNotFound = errors.New("cache: entry not found")

// Entry is one cached page.
type Entry struct {
	Body      []byte
	ETag      string
	StoredAt  time.Time
	ExpiresAt time.Time // zero means no expiry
}

// Expired reports whether e is past its expiry at now.
func (e *Entry) Expired(now time.Time) bool {
	return !e.ExpiresAt.IsZero() && !now.Before(e.ExpiresAt)
}

// Store is a page cache backend.
type Store interface {
	// Get returns the entry for key, or ErrNotFound.
	Get(ctx context.Context, key string) (*Entry, error)

	// Put stores e under key, replacing any previous entry.
	Put(ctx context.Context, key string, e *Entry) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the store's resources.
	Close() error
}

// Key derives the cache key of a page rendered with state. State maps are
// encoded with sorted keys, so equal states give equal keys.
func Key(page string, state map[string]any) (string, error) {
	h := xxhash.New()
	h.WriteString(page)
	h.WriteString("\x00")
	if len(state) > 0 {
		data, err := json.Marshal(state)
		if err != nil {
			return "", err
		}
		h.Write(data)
	}
	return page + "/" + strconv.FormatUint(h.Sum64(), 16), nil
}

// ETag returns a strong entity tag for body.
func ETag(body []byte) string {
	return `"` + strconv.FormatUint(xxhash.Sum64(body), 16) + `"`
}
