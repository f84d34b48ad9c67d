// Package dedupe tracks imported event IDs per match.
package dedupe

import (
	"container/list"
	"context"
	"sync"
	"sync/atomic"
)

const defaultMaxSize = 50000

// Deduper records (match, event ID) pairs so a re-sent event is recognised
// before it reaches the store.
type Deduper interface {
	// SeenAndRecord reports whether id was already recorded for matchID and
	// records it if not. Check and record happen atomically.
	SeenAndRecord(ctx context.Context, matchID, id string) bool

	// Unrecord forgets id, used when a recorded event failed to be stored.
	Unrecord(ctx context.Context, matchID, id string)

	Size() int64
}

type key struct {
	match string
	id    string
}

// inMemoryDeduper keeps pairs in insertion order. In bounded mode the oldest
// pair is evicted once maxSize is reached; maxSize <= 0 disables eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[key]*list.Element
	order   *list.List
	maxSize int
	size    atomic.Int64
}

// Option configures the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize bounds the number of remembered pairs; the oldest is evicted
// first. Zero or a negative value keeps every pair.
func WithMaxSize(maxSize int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = maxSize
	}
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[key]*list.Element)
	d.order = list.New()
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, matchID, id string) bool {
	k := key{match: matchID, id: id}

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[k]; ok {
		return true
	}
	if d.maxSize > 0 && len(d.seen) >= d.maxSize {
		d.evictOldest()
	}
	d.seen[k] = d.order.PushBack(k)
	d.size.Add(1)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, matchID, id string) {
	k := key{match: matchID, id: id}

	d.mu.Lock()
	defer d.mu.Unlock()

	if el, ok := d.seen[k]; ok {
		d.order.Remove(el)
		delete(d.seen, k)
		d.size.Add(-1)
	}
}

// evictOldest must be called with d.mu held.
func (d *inMemoryDeduper) evictOldest() {
	front := d.order.Front()
	if front == nil {
		return
	}
	d.order.Remove(front)
	delete(d.seen, front.Value.(key))
	d.size.Add(-1)
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
