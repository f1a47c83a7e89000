package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/okian/gridelo/internal/adapters/mq/queue"
	"github.com/okian/gridelo/internal/adapters/mq/worker"
	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/domain/dedupe"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/pairing"
	"github.com/okian/gridelo/internal/domain/rating"
	"github.com/okian/gridelo/pkg/logger"
	"github.com/okian/gridelo/pkg/metrics"
)

// collector reassembles extractions into replay order. Workers deliver
// out of order; Seq indexes the pre-sized slice.
type collector struct {
	out []worker.Extraction
}

func newCollector(n int) *collector {
	return &collector{out: make([]worker.Extraction, n)}
}

// Collect implements worker.Sink. Each Seq is written exactly once, so
// distinct slots never race.
func (c *collector) Collect(_ context.Context, ex worker.Extraction) {
	c.out[ex.Seq] = ex
}

// runState is everything one replay computes before it replaces the
// service's live state. A failed run is discarded wholesale, so the
// previous replay stays queryable.
type runState struct {
	roster  map[string]model.Entity
	drivers *rating.Store
	teams   *rating.Store
	batches []seasonBatch
}

// seasonBatch is one season's snapshots, staged until the whole rating
// pass has succeeded.
type seasonBatch struct {
	year      int
	snapshots []repository.Snapshot
}

func (r *runState) storeFor(kind model.EntityKind) *rating.Store {
	if kind == model.KindTeam {
		return r.teams
	}
	return r.drivers
}

// Replay rebuilds all rating state from the baseline by walking every
// event in chronological order. Replaying the same source twice yields
// bit-identical rating state and snapshot history; the history store
// is rewritten in full on every run, since it is a derived view of the
// source. Malformed input fails the whole run and leaves the service's
// previous state untouched.
func (s *Service) Replay(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.src == nil {
		return ErrMissingSource
	}

	runID := uuid.NewString()
	start := time.Now()
	s.logger.Info(ctx, "starting replay", logger.String("run_id", runID))

	// Every replay starts from the baseline. There is no incremental
	// catch-up: corrections to the source are absorbed by rebuilding.
	run := &runState{
		drivers: s.engine.NewStore(),
		teams:   s.engine.NewStore(),
	}

	if err := s.loadRoster(ctx, run); err != nil {
		return err
	}

	events, err := s.src.Events(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("replay", "calendar")
		return fmt.Errorf("load calendar: %w", err)
	}
	sort.Slice(events, func(i, j int) bool { return events[i].Before(events[j]) })

	jobs, err := s.buildJobs(ctx, run, events)
	if err != nil {
		return err
	}

	extractions, err := s.extract(ctx, jobs)
	if err != nil {
		return err
	}

	if err := s.applyAndSnapshot(ctx, run, jobs, extractions); err != nil {
		return err
	}

	if err := s.persistHistory(ctx, run); err != nil {
		return err
	}

	s.install(ctx, run)

	elapsed := time.Since(start)
	metrics.RecordReplayDuration(float64(elapsed.Milliseconds()))
	s.logger.Info(ctx, "replay finished",
		logger.String("run_id", runID),
		logger.Int("events", len(events)),
		logger.Int("drivers", s.drivers.Len()),
		logger.Int("teams", s.teams.Len()),
		logger.Any("elapsed", elapsed),
	)
	return nil
}

func (s *Service) loadRoster(ctx context.Context, run *runState) error {
	entities, err := s.src.Entities(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("replay", "roster")
		return fmt.Errorf("load roster: %w", err)
	}

	run.roster = make(map[string]model.Entity, len(entities))
	var driverCount, teamCount int
	for _, e := range entities {
		run.roster[e.ID] = e
		switch e.Kind {
		case model.KindDriver:
			driverCount++
		case model.KindTeam:
			teamCount++
		}
	}
	metrics.UpdateEntitiesTracked(string(model.KindDriver), driverCount)
	metrics.UpdateEntitiesTracked(string(model.KindTeam), teamCount)
	return nil
}

// buildJobs reads every event's results, drops duplicates, validates
// references and splits the rest into per-session extraction jobs in
// replay order: events chronologically, qualifying before race.
func (s *Service) buildJobs(ctx context.Context, run *runState, events []model.Event) ([]queue.Job, error) {
	guard := s.newGuard()
	jobs := make([]queue.Job, 0, len(events)*len(model.Sessions()))

	for _, ev := range events {
		results, err := s.src.Results(ctx, ev.ID)
		if err != nil {
			metrics.RecordErrorByComponent("replay", "results")
			return nil, fmt.Errorf("load results for event %s: %w", ev.ID, err)
		}
		metrics.RecordResultsRead(len(results))

		bySession := make(map[model.Session][]model.SessionResult, len(model.Sessions()))
		for _, r := range results {
			if err := checkRefs(run.roster, r, ev); err != nil {
				return nil, err
			}
			if guard.SeenAndRecord(ctx, dedupe.ResultKey(r)) {
				metrics.RecordDuplicateResult()
				s.logger.Warn(ctx, "dropping duplicate result",
					logger.String("entity", r.EntityID),
					logger.String("event", ev.ID),
					logger.String("session", string(r.Session)),
				)
				continue
			}
			bySession[r.Session] = append(bySession[r.Session], r)
		}

		for _, sess := range model.Sessions() {
			rs := bySession[sess]
			if len(rs) == 0 {
				continue
			}
			jobs = append(jobs, queue.Job{
				Seq:     len(jobs),
				Event:   ev,
				Session: sess,
				Results: rs,
			})
		}
	}
	return jobs, nil
}

func checkRefs(roster map[string]model.Entity, r model.SessionResult, ev model.Event) error {
	entity, ok := roster[r.EntityID]
	if !ok || entity.Kind != model.KindDriver {
		metrics.RecordErrorByComponent("replay", "unknown_entity")
		return fmt.Errorf("%w: driver %q in event %s", ErrUnknownEntityRef, r.EntityID, ev.ID)
	}
	team, ok := roster[r.Affiliation]
	if !ok || team.Kind != model.KindTeam {
		metrics.RecordErrorByComponent("replay", "unknown_affiliation")
		return fmt.Errorf("%w: affiliation %q in event %s", ErrUnknownEntityRef, r.Affiliation, ev.ID)
	}
	return nil
}

// extract fans the jobs out to the worker pool and returns the
// extractions indexed by job sequence.
func (s *Service) extract(ctx context.Context, jobs []queue.Job) ([]worker.Extraction, error) {
	size := s.queueSize
	if size == 0 {
		size = len(jobs)
	}
	if size < 1 {
		size = 1
	}

	q := queue.NewInMemoryQueue(queue.WithBufferSize(size))
	coll := newCollector(len(jobs))
	pool := worker.NewPool(s.workerCount, q, coll,
		worker.WithTeamComparisons(s.teamRatings),
		worker.WithLogger(s.logger),
	)
	pool.Start(ctx)

	for i := range jobs {
		if !q.Enqueue(ctx, jobs[i]) {
			_ = q.Close()
			return nil, fmt.Errorf("%w: job %d of %d", ErrQueueSaturated, jobs[i].Seq, len(jobs))
		}
	}
	if err := q.Close(); err != nil {
		return nil, err
	}
	if err := pool.Wait(ctx); err != nil {
		return nil, fmt.Errorf("extraction pool: %w", err)
	}
	return coll.out, nil
}

// applyAndSnapshot runs the strictly sequential rating pass, staging
// one snapshot batch at each season boundary.
func (s *Service) applyAndSnapshot(_ context.Context, run *runState, jobs []queue.Job, extractions []worker.Extraction) error {
	active := make(map[string]model.EntityKind)
	currentSeason := 0
	inSeason := false

	for i := range jobs {
		job := jobs[i]
		if inSeason && job.Event.Season != currentSeason {
			if err := closeSeason(run, currentSeason, active); err != nil {
				return err
			}
			active = make(map[string]model.EntityKind)
		}
		currentSeason = job.Event.Season
		inSeason = true

		ex := extractions[i]
		if ex.Err != nil {
			return ex.Err
		}

		// Every participant exists at the baseline from its first
		// appearance, paired or not.
		for _, r := range job.Results {
			s.engine.Touch(run.drivers, r.EntityID)
			active[r.EntityID] = model.KindDriver
			if s.teamRatings {
				s.engine.Touch(run.teams, r.Affiliation)
				active[r.Affiliation] = model.KindTeam
			}
		}

		for _, p := range ex.Pairs {
			outcome := pairing.Compare(p.A, p.B)
			if _, applied := s.engine.Apply(run.drivers, job.Session, p.A.EntityID, p.B.EntityID, outcome); applied {
				metrics.RecordRatingUpdate()
			} else {
				metrics.RecordNoContest()
			}
		}
		for _, tp := range ex.Teams {
			outcome := pairing.CompareTeams(tp.A, tp.B)
			if _, applied := s.engine.Apply(run.teams, job.Session, tp.A.TeamID, tp.B.TeamID, outcome); applied {
				metrics.RecordRatingUpdate()
			} else {
				metrics.RecordNoContest()
			}
		}
	}

	if inSeason {
		return closeSeason(run, currentSeason, active)
	}
	return nil
}

// closeSeason stages one snapshot per entity active in the season.
func closeSeason(run *runState, year int, active map[string]model.EntityKind) error {
	ids := make([]string, 0, len(active))
	for id := range active {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	batch := make([]repository.Snapshot, 0, len(ids))
	for _, id := range ids {
		kind := active[id]
		st, ok := run.storeFor(kind).Get(id)
		if !ok {
			// Touch guarantees presence for every active entity.
			return fmt.Errorf("no rating state for active entity %s in season %d", id, year)
		}
		batch = append(batch, snapshotOf(id, kind, year, st))
	}

	run.batches = append(run.batches, seasonBatch{year: year, snapshots: batch})
	return nil
}

// persistHistory rewrites the snapshot store from the staged batches,
// one atomic commit per season. It runs only after the full rating
// pass succeeded, so a failed replay never disturbs the stored history
// of the previous one.
func (s *Service) persistHistory(ctx context.Context, run *runState) error {
	if err := s.history.Reset(ctx); err != nil {
		metrics.RecordErrorByComponent("history", "reset")
		return fmt.Errorf("reset history: %w", err)
	}

	for _, b := range run.batches {
		start := time.Now()
		if err := s.history.AppendSeason(ctx, b.year, b.snapshots); err != nil {
			return fmt.Errorf("commit season %d: %w", b.year, err)
		}
		metrics.RecordSeasonCommit(float64(time.Since(start).Milliseconds()))
		s.logger.Debug(ctx, "season committed",
			logger.Int("year", b.year),
			logger.Int("snapshots", len(b.snapshots)),
		)
	}
	return nil
}

// install swaps the run's state into the service.
func (s *Service) install(ctx context.Context, run *runState) {
	s.roster = run.roster
	s.drivers = run.drivers
	s.teams = run.teams

	s.driverIndex = repository.NewRankIndex()
	s.teamIndex = repository.NewRankIndex()
	for _, id := range s.drivers.IDs() {
		st, _ := s.drivers.Get(id)
		s.driverIndex.Set(ctx, id, st.Global)
	}
	for _, id := range s.teams.IDs() {
		st, _ := s.teams.Get(id)
		s.teamIndex.Set(ctx, id, st.Global)
	}
	s.replayed = true
}

func snapshotOf(id string, kind model.EntityKind, year int, st rating.State) repository.Snapshot {
	return repository.Snapshot{
		EntityID:           id,
		Kind:               kind,
		SeasonYear:         year,
		Qualifying:         st.Qualifying,
		Race:               st.Race,
		Global:             st.Global,
		QualifyingMatchups: st.QualifyingMatchups,
		RaceMatchups:       st.RaceMatchups,
	}
}
