// Package service wires the replay pipeline together: source reading,
// duplicate guarding, parallel pair extraction, sequential rating
// updates, season snapshots and the query surface over the results.
package service

import (
	"runtime"
	"sync"

	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/adapters/source"
	"github.com/okian/gridelo/internal/domain/dedupe"
	"github.com/okian/gridelo/internal/domain/era"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/rating"
	"github.com/okian/gridelo/pkg/logger"
)

// Service owns the rating state produced by a replay and answers
// queries against it. Queries are safe for concurrent use once Replay
// has returned.
type Service struct {
	mu sync.RWMutex

	// Dependencies
	src     source.Source
	history repository.History

	// Rating state
	engine      *rating.Engine
	drivers     *rating.Store
	teams       *rating.Store
	driverIndex *repository.RankIndex
	teamIndex   *repository.RankIndex

	// Era adjustment, read-side only
	driverNorm *era.Normalizer
	teamNorm   *era.Normalizer

	// Roster, loaded at replay time
	roster map[string]model.Entity

	// Configuration
	workerCount int
	queueSize   int
	dedupeSize  int
	teamRatings bool
	engineOpts  []rating.Option

	replayed bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithSource sets the history source the replay reads from.
func WithSource(src source.Source) Option {
	return func(s *Service) {
		if src != nil {
			s.src = src
		}
	}
}

// WithHistory sets the snapshot store the replay writes to.
func WithHistory(h repository.History) Option {
	return func(s *Service) {
		if h != nil {
			s.history = h
		}
	}
}

// WithExtractionWorkers sets the extraction pool size.
func WithExtractionWorkers(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the extraction job queue. Zero sizes it to the
// replay's job count.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize bounds the duplicate result guard.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithTeamRatings toggles the team comparison flow.
func WithTeamRatings(enabled bool) Option {
	return func(s *Service) {
		s.teamRatings = enabled
	}
}

// WithEngineOptions forwards options to the rating engine, e.g. a
// custom K factor or baseline.
func WithEngineOptions(opts ...rating.Option) Option {
	return func(s *Service) {
		s.engineOpts = append(s.engineOpts, opts...)
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		history:     repository.NewMemoryHistory(),
		workerCount: runtime.NumCPU() * 4,
		teamRatings: true,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.logger == nil {
		s.logger = logger.Get().Named("service")
	}

	s.engine = rating.NewEngine(s.engineOpts...)
	s.drivers = s.engine.NewStore()
	s.teams = s.engine.NewStore()
	s.driverIndex = repository.NewRankIndex()
	s.teamIndex = repository.NewRankIndex()
	s.driverNorm = era.NewNormalizer()
	s.teamNorm = era.NewNormalizer(era.ForTeams())

	return s
}

// Engine exposes the configured rating engine.
func (s *Service) Engine() *rating.Engine {
	return s.engine
}

func (s *Service) newGuard() dedupe.Guard {
	if s.dedupeSize > 0 {
		return dedupe.NewMemoryGuard(dedupe.WithMaxSize(s.dedupeSize))
	}
	return dedupe.NewMemoryGuard()
}

func (s *Service) storeFor(kind model.EntityKind) *rating.Store {
	if kind == model.KindTeam {
		return s.teams
	}
	return s.drivers
}

func (s *Service) indexFor(kind model.EntityKind) *repository.RankIndex {
	if kind == model.KindTeam {
		return s.teamIndex
	}
	return s.driverIndex
}

func (s *Service) normFor(kind model.EntityKind) *era.Normalizer {
	if kind == model.KindTeam {
		return s.teamNorm
	}
	return s.driverNorm
}
