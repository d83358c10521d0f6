// Package cache stores rendered pages.
//
// Server renders are deterministic: the same page with the same initial
// state always produces the same bytes. A page can therefore be cached
// under a key derived from its name and state, and served with an ETag
// derived from its body.
//
// Three stores are provided: MemoryStore for a single process, PebbleStore
// for a local disk cache that survives restarts, and S3Store for a cache
// shared between instances. Loader puts a store in front of a render
// function and coalesces concurrent misses for the same key.
package cache
