// Package dedupe tracks recently seen request keys so repeated history
// writes are applied at most once.
package dedupe

import (
	"container/list"
	"context"
	"strings"
	"sync"
)

// DefaultMaxSize bounds the number of remembered keys.
const DefaultMaxSize = 10000

// Deduper records seen keys.
type Deduper interface {
	// SeenAndRecord reports whether id was already seen and records it if not.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord forgets id so a failed write can be retried.
	Unrecord(ctx context.Context, id string)

	// ForgetPrefix forgets every id starting with prefix and returns how many.
	ForgetPrefix(ctx context.Context, prefix string) int

	Size() int64
}

// inMemoryDeduper evicts the oldest key once maxSize is reached.
// maxSize <= 0 means unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]*list.Element
	order   *list.List // front is oldest
	maxSize int
}

// NewInMemoryDeduper creates a new in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: DefaultMaxSize,
		seen:    make(map[string]*list.Element),
		order:   list.New(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	if d.maxSize > 0 && d.order.Len() >= d.maxSize {
		oldest := d.order.Front()
		d.order.Remove(oldest)
		delete(d.seen, oldest.Value.(string))
	}
	d.seen[id] = d.order.PushBack(id)
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if e, ok := d.seen[id]; ok {
		d.order.Remove(e)
		delete(d.seen, id)
	}
}

func (d *inMemoryDeduper) ForgetPrefix(_ context.Context, prefix string) int {
	d.mu.Lock()
	defer d.mu.Unlock()

	n := 0
	for e := d.order.Front(); e != nil; {
		next := e.Next()
		if id := e.Value.(string); strings.HasPrefix(id, prefix) {
			d.order.Remove(e)
			delete(d.seen, id)
			n++
		}
		e = next
	}
	return n
}

func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(d.order.Len())
}
