// Package queue buffers per-session extraction jobs between the replay
// reader and the extraction workers.
package queue

import (
	"context"
	"sync"

	model "github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/pkg/metrics"
)

const defaultBufferSize = 4096

// Job is one event session's worth of results awaiting pair extraction.
// Seq is the job's position in the chronological replay; the collector
// uses it to reassemble extractions in replay order.
type Job struct {
	Seq     int
	Event   model.Event
	Session model.Session
	Results []model.SessionResult
}

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds a job. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, j Job) bool

	// Dequeue returns the channel jobs arrive on. The channel closes
	// when the queue closes.
	Dequeue(ctx context.Context) <-chan Job

	// Len returns the number of buffered jobs.
	Len(ctx context.Context) int

	// Close stops the queue. Buffered jobs still drain through Dequeue.
	Close() error

	IsClosed() bool
}

// InMemoryQueue implements Queue over a buffered channel.
type InMemoryQueue struct {
	jobs       chan Job
	bufferSize int
	mu         sync.RWMutex
	closed     bool
}

// NewInMemoryQueue creates an in-memory queue. Size the buffer to the
// job count when the total is known up front; a full queue drops.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{
		bufferSize: defaultBufferSize,
	}
	for _, opt := range opts {
		opt(q)
	}
	q.jobs = make(chan Job, q.bufferSize)
	return q
}

func (q *InMemoryQueue) Enqueue(ctx context.Context, j Job) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordErrorByComponent("queue", "closed")
		return false
	}

	select {
	case q.jobs <- j:
		return true
	case <-ctx.Done():
		metrics.RecordErrorByComponent("queue", "context_cancelled")
		return false
	default:
		metrics.RecordErrorByComponent("queue", "queue_full")
		return false
	}
}

func (q *InMemoryQueue) Dequeue(_ context.Context) <-chan Job {
	return q.jobs
}

func (q *InMemoryQueue) Len(_ context.Context) int {
	return len(q.jobs)
}

func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return nil
	}
	q.closed = true
	close(q.jobs)
	return nil
}

func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}
