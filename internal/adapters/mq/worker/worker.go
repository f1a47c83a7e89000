// Package worker runs pair extraction concurrently ahead of the
// sequential rating pass. Extraction is pure per event session, so jobs
// can fan out to workers; the collector reorders them by sequence
// before any rating update happens.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"time"

	"github.com/okian/gridelo/internal/adapters/mq/queue"
	model "github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/pairing"
	"github.com/okian/gridelo/pkg/logger"
	"github.com/okian/gridelo/pkg/metrics"
)

const (
	defaultWorkerMultiplier = 4
	poolDrainTimeout        = 30 * time.Second
)

// Extraction is the output of one job: the teammate pairs of a single
// event session, plus team standings comparisons when enabled.
type Extraction struct {
	Seq     int
	Event   model.Event
	Session model.Session
	Pairs   []pairing.Pair
	Skips   []pairing.Skip
	Teams   []pairing.TeamPair
	Err     error
}

// Sink receives finished extractions. Implementations must tolerate
// out-of-order delivery; Seq carries the replay position.
type Sink interface {
	Collect(ctx context.Context, ex Extraction)
}

// Queue defines how workers receive jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Extractor processes jobs until its queue drains.
type Extractor struct {
	queue        Queue
	sink         Sink
	name         string
	compareTeams bool

	shutdown chan struct{}
	done     chan struct{}

	logger logger.Logger
}

// NewExtractor creates a single extraction worker.
func NewExtractor(q Queue, sink Sink, opts ...Option) *Extractor {
	w := &Extractor{
		queue:    q,
		sink:     sink,
		name:     "extractor",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Get().Named("extractor"),
	}
	for _, opt := range opts {
		opt(w)
	}
	if w.name != "extractor" {
		w.logger = w.logger.Named(w.name)
	}
	return w
}

// Run processes jobs until the queue closes or ctx is canceled.
func (w *Extractor) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			w.sink.Collect(ctx, w.process(ctx, job))
		}
	}
}

// Shutdown stops the worker without waiting for the queue to drain.
func (w *Extractor) Shutdown(ctx context.Context) error {
	close(w.shutdown)
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

func (w *Extractor) process(ctx context.Context, job queue.Job) Extraction {
	ex := Extraction{Seq: job.Seq, Event: job.Event, Session: job.Session}

	pairs, skips, err := pairing.Extract(job.Results)
	if err != nil {
		metrics.RecordErrorByComponent("extractor", "mixed_scope")
		w.logger.Error(ctx, "pair extraction failed",
			logger.String("event", job.Event.ID),
			logger.String("session", string(job.Session)),
			logger.Error(err),
		)
		ex.Err = fmt.Errorf("extract %s/%s: %w", job.Event.ID, job.Session, err)
		return ex
	}
	ex.Pairs = pairs
	ex.Skips = skips

	for range pairs {
		metrics.RecordPairExtracted(string(job.Session))
	}
	for _, skip := range skips {
		metrics.RecordPairSkipped(string(skip.Reason))
		w.logger.Warn(ctx, "skipping ambiguous or solo affiliation",
			logger.String("event", job.Event.ID),
			logger.String("session", string(job.Session)),
			logger.String("affiliation", skip.Affiliation),
			logger.String("reason", string(skip.Reason)),
		)
	}

	if w.compareTeams {
		ex.Teams = pairing.TeamPairs(pairing.TeamStandings(job.Results))
	}
	return ex
}

// Pool manages a fixed set of extraction workers.
type Pool struct {
	workers []*Extractor
	logger  logger.Logger
}

// NewPool creates workerCount extractors over one queue. A count below
// one falls back to a multiple of the CPU count.
func NewPool(workerCount int, q Queue, sink Sink, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU() * defaultWorkerMultiplier
	}
	p := &Pool{
		workers: make([]*Extractor, workerCount),
		logger:  logger.Get().Named("extractor-pool"),
	}
	for i := range p.workers {
		wopts := append([]Option{WithName("extractor-" + strconv.Itoa(i))}, opts...)
		p.workers[i] = NewExtractor(q, sink, wopts...)
	}
	return p
}

// Start launches all workers.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
}

// Wait blocks until every worker has stopped, which happens once the
// queue is closed and drained.
func (p *Pool) Wait(ctx context.Context) error {
	deadline, cancel := context.WithTimeout(ctx, poolDrainTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.Done():
			p.logger.Warn(ctx, "worker did not stop in time", logger.Int("worker_id", i))
			return deadline.Err()
		}
	}
	return nil
}
