// Package cache holds short-lived copies of read projections (reports,
// listings). Every committed ledger mutation calls Invalidate, so a reader
// never sees stock or invoice state older than the last write.
package cache

import (
	"context"
	"encoding/json"

	"github.com/rs/zerolog/log"
)

// Cache is the read-projection cache used by services.
type Cache interface {
	// Get decodes the entry stored under key into dest. ok is false on a miss.
	Get(ctx context.Context, key string, dest any) (ok bool, err error)
	// Generation identifies the current contents. Invalidate advances it.
	Generation(ctx context.Context) (int64, error)
	// SetAt stores v under key only while gen is still the current generation.
	SetAt(ctx context.Context, gen int64, key string, v any) error
	// Invalidate drops every entry at once.
	Invalidate(ctx context.Context) error
}

// Fetch returns the cached value for key or calls load and stores its result.
// The generation is read before load, so a result computed across an
// Invalidate is never stored as current. Cache failures are logged and never
// fail the read.
func Fetch[T any](ctx context.Context, c Cache, key string, load func() (T, error)) (T, error) {
	if c == nil {
		return load()
	}

	gen, err := c.Generation(ctx)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache generation failed")
		return load()
	}

	var out T
	ok, err := c.Get(ctx, key, &out)
	if err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache get failed")
	} else if ok {
		return out, nil
	}

	out, err = load()
	if err != nil {
		return out, err
	}

	if err := c.SetAt(ctx, gen, key, out); err != nil {
		log.Debug().Err(err).Str("key", key).Msg("cache set failed")
	}
	return out, nil
}

// Invalidate is a nil-safe helper used after each committed mutation.
func Invalidate(ctx context.Context, c Cache) {
	if c == nil {
		return
	}
	if err := c.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("cache invalidation failed")
	}
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string, any) (bool, error) { return false, nil }
func (Nop) Generation(context.Context) (int64, error) { return 0, nil }
func (Nop) SetAt(context.Context, int64, string, any) error { return nil }
func (Nop) Invalidate(context.Context) error { return nil }

func encode(v any) ([]byte, error) { return json.Marshal(v) }

func decode(b []byte, dest any) error { return json.Unmarshal(b, dest) }
