// Package dedupe guards the replay against duplicate result rows. The
// source data occasionally carries the same (entity, event, session)
// result twice; processing both would pair a driver against themselves.
package dedupe

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	model "github.com/okian/gridelo/internal/domain/model"
)

// Guard records result keys so each result is processed at most once
// per replay run.
type Guard interface {
	// SeenAndRecord atomically checks whether key was seen and records
	// it if not. Returns true if key was already seen.
	SeenAndRecord(ctx context.Context, key string) bool

	Size() int64
}

// ResultKey builds the dedupe key for a session result.
func ResultKey(r model.SessionResult) string {
	var b strings.Builder
	b.Grow(len(r.EntityID) + len(r.EventID) + len(r.Session) + 2)
	b.WriteString(r.EntityID)
	b.WriteByte('|')
	b.WriteString(r.EventID)
	b.WriteByte('|')
	b.WriteString(string(r.Session))
	return b.String()
}

type entry struct {
	key  string
	next *entry
}

func (e *entry) reset() {
	e.key = ""
	e.next = nil
}

// memoryGuard tracks keys in memory. Bounded mode (maxSize > 0) keeps a
// linked list and evicts the oldest key once full; unbounded mode keeps
// a plain map for the lifetime of the run.
type memoryGuard struct {
	mu      sync.Mutex
	seen    map[string]*entry
	head    *entry
	maxSize int
	size    atomic.Int64
	pool    sync.Pool
}

// NewMemoryGuard creates an in-memory guard. A full-history replay
// carries on the order of tens of thousands of result rows, so the
// default is unbounded; pass WithMaxSize for long-running callers.
func NewMemoryGuard(opts ...Option) Guard {
	g := &memoryGuard{}
	for _, opt := range opts {
		opt(g)
	}
	g.seen = make(map[string]*entry)
	if g.maxSize > 0 {
		g.pool = sync.Pool{
			New: func() interface{} {
				return &entry{}
			},
		}
	}
	return g
}

func (g *memoryGuard) SeenAndRecord(_ context.Context, key string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.seen[key]; ok {
		return true
	}

	if g.maxSize > 0 {
		if len(g.seen) >= g.maxSize {
			g.evictOldest()
		}
		e := g.pool.Get().(*entry)
		e.key = key
		e.next = g.head
		g.head = e
		g.seen[key] = e
	} else {
		g.seen[key] = nil
	}
	g.size.Add(1)
	return false
}

// evictOldest drops the tail of the list. Caller holds g.mu.
func (g *memoryGuard) evictOldest() {
	if g.head == nil {
		return
	}
	var prev *entry
	cur := g.head
	for cur.next != nil {
		prev = cur
		cur = cur.next
	}
	if prev == nil {
		g.head = nil
	} else {
		prev.next = nil
	}
	delete(g.seen, cur.key)
	cur.reset()
	g.pool.Put(cur)
	g.size.Add(-1)
}

func (g *memoryGuard) Size() int64 {
	return g.size.Load()
}
