// Package querycache deduplicates identical reads and serves their results
// for a staleness window.
//
// A query identity is a string key built from the operation name and its
// parameters. Concurrent callers with the same key share one in-flight fetch;
// a finished result is reused until it is older than the caller's window.
// Values are stored JSON-encoded, so every caller decodes its own copy.
package querycache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"
)

// Entry is one cached result.
type Entry struct {
	Value     json.RawMessage `json:"value"`
	FetchedAt time.Time       `json:"fetched_at"`
}

// Backend stores cached entries.
type Backend interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Set(ctx context.Context, key string, e Entry, ttl time.Duration) error
	Flush(ctx context.Context) error
}

// Cache coordinates fetches for all query identities.
type Cache struct {
	backend Backend
	group   singleflight.Group

	// generation is bumped by Invalidate; fetches started under an older
	// generation don't store their result.
	generation atomic.Uint64

	// Now returns the current time. Tests replace it.
	Now func() time.Time
}

// New creates a cache on top of backend.
func New(backend Backend) *Cache {
	return &Cache{backend: backend, Now: time.Now}
}

// Key builds a query identity from an operation name and its parameters.
func Key(op string, params ...any) string {
	var b strings.Builder
	b.WriteString(op)
	for _, p := range params {
		fmt.Fprintf(&b, "|%v", p)
	}
	return b.String()
}

// Invalidate drops every cached result. Fetches already in flight still
// answer their callers but are not stored.
func (c *Cache) Invalidate(ctx context.Context) error {
	c.generation.Add(1)
	if err := c.backend.Flush(ctx); err != nil {
		return fmt.Errorf("flushing query cache: %w", err)
	}
	return nil
}

// Fetch returns the cached value for key when it is younger than window and
// otherwise runs fn, sharing the call with concurrent callers of the same
// key. A zero window never reads or stores a cached value.
//
// fn runs detached from ctx cancellation. If ctx ends first, Fetch returns
// ctx.Err() and the caller's result is discarded; the shared fetch finishes
// for the other callers.
func Fetch[T any](ctx context.Context, c *Cache, key string, window time.Duration, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	if window > 0 {
		if v, ok := lookup[T](ctx, c, key, window); ok {
			return v, nil
		}
	}

	// Cached and uncached reads of one identity must not share a call.
	flightKey := key
	if window == 0 {
		flightKey = "nocache|" + key
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(flightKey, func() (any, error) {
		gen := c.generation.Load()

		v, err := fn(detached)
		if err != nil {
			return nil, err
		}

		data, err := json.Marshal(v)
		if err != nil {
			return nil, fmt.Errorf("encoding %s result: %w", key, err)
		}

		if window > 0 && c.generation.Load() == gen {
			e := Entry{Value: data, FetchedAt: c.Now()}
			if err := c.backend.Set(detached, key, e, window); err != nil {
				slog.Warn("query cache store failed", "key", key, "error", err)
			}
		}
		return data, nil
	})

	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		var v T
		if err := json.Unmarshal(res.Val.([]byte), &v); err != nil {
			return zero, fmt.Errorf("decoding %s result: %w", key, err)
		}
		return v, nil
	}
}

// lookup returns a fresh cached value. Backend failures count as misses.
func lookup[T any](ctx context.Context, c *Cache, key string, window time.Duration) (T, bool) {
	var v T

	e, ok, err := c.backend.Get(ctx, key)
	if err != nil {
		slog.Warn("query cache lookup failed", "key", key, "error", err)
		return v, false
	}
	if !ok || c.Now().Sub(e.FetchedAt) >= window {
		return v, false
	}

	if err := json.Unmarshal(e.Value, &v); err != nil {
		slog.Warn("discarding undecodable cache entry", "key", key, "error", err)
		return v, false
	}
	return v, true
}
