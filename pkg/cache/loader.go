package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"
)

// Loader serves pages from a Store and fills misses with a render function.
// Concurrent misses for one key share a single fill.
type Loader struct {
	store  Store
	ttl    time.Duration
	logger *slog.Logger
	now    func() time.Time
	group  singleflight.Group
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithTTL sets the lifetime of filled entries. Zero means no expiry.
func WithTTL(ttl time.Duration) LoaderOption {
	return func(l *Loader) { l.ttl = ttl }
}

// WithLogger sets the logger for store failures.
func WithLogger(logger *slog.Logger) LoaderOption {
	return func(l *Loader) { l.logger = logger }
}

// NewLoader creates a Loader over store.
func NewLoader(store Store, opts ...LoaderOption) *Loader {
	l := &Loader{store: store, logger: slog.Default(), now: time.Now}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the entry for key and whether it came from the store. On a
// miss fill produces the body, which is stored before being returned. A
// store failure is logged and treated as a miss; a fill failure is
// returned and nothing is stored.
//
// The shared fill does not inherit cancellation from the caller that
// started it. A caller whose ctx ends stops waiting and gets ctx.Err().
func (l *Loader) Load(ctx context.Context, key string, fill func(context.Context) ([]byte, error)) (*Entry, bool, error) {
	e, err := l.store.Get(ctx, key)
	if err == nil {
		return e, true, nil
	}
	if !errors.Is(err, ErrNotFound) {
		l.logger.Warn("cache read failed", "key", key, "error", err)
	}

	detached := context.WithoutCancel(ctx)
	ch := l.group.DoChan(key, func() (any, error) {
		body, err := fill(detached)
		if err != nil {
			return nil, err
		}
		now := l.now()
		e := &Entry{Body: body, ETag: ETag(body), StoredAt: now}
		if l.ttl > 0 {
			e.ExpiresAt = now.Add(l.ttl)
		}
		if err := l.store.Put(detached, key, e); err != nil {
			l.logger.Warn("cache write failed", "key", key, "error", err)
		}
		return e, nil
	})
	select {
	case <-ctx.Done():
		return nil, false, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, false, res.Err
		}
		return res.Val.(*Entry), false, nil
	}
}

// Invalidate removes key from the store.
func (l *Loader) Invalidate(ctx context.Context, key string) error {
	l.group.Forget(key)
	return l.store.Delete(ctx, key)
}
