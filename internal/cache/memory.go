package cache

import (
	"context"
	"sync"
	"time"
)

type memEntry struct {
	data    []byte
	expires time.Time
}

// Memory is the in-process fallback used when no Redis URL is configured.
type Memory struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memEntry
	gen     int64
	now     func() time.Time
}

func NewMemory(ttl time.Duration) *Memory {
	if ttl <= 0 {
		ttl = 2 * time.Second
	}
	return &Memory{ttl: ttl, entries: make(map[string]memEntry), now: time.Now}
}

func (c *Memory) Get(_ context.Context, key string, dest any) (bool, error) {
	c.mu.Lock()
	e, ok := c.entries[key]
	if ok && !c.now().Before(e.expires) {
		delete(c.entries, key)
		ok = false
	}
	c.mu.Unlock()
	if !ok {
		return false, nil
	}
	if err := decode(e.data, dest); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Memory) Generation(context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, nil
}

// SetAt drops v when an Invalidate happened after gen was read.
func (c *Memory) SetAt(_ context.Context, gen int64, key string, v any) error {
	b, err := encode(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.gen {
		return nil
	}
	c.entries[key] = memEntry{data: b, expires: c.now().Add(c.ttl)}
	return nil
}

func (c *Memory) Invalidate(context.Context) error {
	c.mu.Lock()
	c.entries = make(map[string]memEntry)
	c.gen++
	c.mu.Unlock()
	return nil
}
