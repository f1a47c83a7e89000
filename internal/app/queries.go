package service

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/rating"
)

// RankingRow is one line of a rating ranking.
type RankingRow struct {
	Rank     int
	EntityID string
	Name     string
	Rating   float64
}

// EraRankingRow extends a ranking line with the era-adjusted view of
// the same rating. Raw stays retrievable next to the adjusted value.
type EraRankingRow struct {
	Rank        int
	EntityID    string
	Name        string
	Raw         float64
	Adjusted    float64
	Reliability float64
}

// CurrentRating returns the live post-replay rating state for one
// entity. Unknown ids report ErrUnknownEntity.
func (s *Service) CurrentRating(_ context.Context, entityID string) (rating.State, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return rating.State{}, ErrReplayRequired
	}
	entity, ok := s.roster[entityID]
	if !ok {
		return rating.State{}, fmt.Errorf("%w: %s", repository.ErrUnknownEntity, entityID)
	}
	st, ok := s.storeFor(entity.Kind).Get(entityID)
	if !ok {
		// On the roster but never in a result: baseline by definition,
		// yet reporting state for it would invent activity.
		return rating.State{}, fmt.Errorf("%w: %s", repository.ErrNotActive, entityID)
	}
	return st, nil
}

// SeasonSnapshot returns the entity's state at the close of a season.
// An id missing from the roster is ErrUnknownEntity; a roster entity
// with no snapshot that season is ErrNotActive.
func (s *Service) SeasonSnapshot(ctx context.Context, entityID string, year int) (repository.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return repository.Snapshot{}, ErrReplayRequired
	}
	if _, ok := s.roster[entityID]; !ok {
		return repository.Snapshot{}, fmt.Errorf("%w: %s", repository.ErrUnknownEntity, entityID)
	}
	snap, err := s.history.Lookup(ctx, entityID, year)
	if err != nil {
		// The roster vouches for the id, so "never snapshotted" means
		// the entity existed but was not active.
		if errors.Is(err, repository.ErrUnknownEntity) {
			return repository.Snapshot{}, fmt.Errorf("%w: %s in %d", repository.ErrNotActive, entityID, year)
		}
		return repository.Snapshot{}, err
	}
	return snap, nil
}

// Seasons lists the seasons an entity was active in, ascending.
func (s *Service) Seasons(ctx context.Context, entityID string) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return nil, ErrReplayRequired
	}
	if _, ok := s.roster[entityID]; !ok {
		return nil, fmt.Errorf("%w: %s", repository.ErrUnknownEntity, entityID)
	}
	return s.history.Seasons(ctx, entityID)
}

// Years lists every season the replay snapshotted, ascending.
func (s *Service) Years(ctx context.Context) ([]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return nil, ErrReplayRequired
	}
	return s.history.Years(ctx)
}

// SeasonRankings ranks all entities of one kind active in a season by
// the chosen dimension, best first. Equal ratings share a rank and are
// ordered by entity id.
func (s *Service) SeasonRankings(ctx context.Context, year int, dim repository.Dimension, kind model.EntityKind) ([]RankingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return nil, ErrReplayRequired
	}
	if !dim.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDimension, dim)
	}

	snaps, err := s.history.Season(ctx, year, kind)
	if err != nil {
		return nil, err
	}

	sort.Slice(snaps, func(i, j int) bool {
		ri, rj := snaps[i].Rating(dim), snaps[j].Rating(dim)
		if ri != rj {
			return ri > rj
		}
		return snaps[i].EntityID < snaps[j].EntityID
	})

	rows := make([]RankingRow, len(snaps))
	for i, snap := range snaps {
		rows[i] = RankingRow{
			EntityID: snap.EntityID,
			Name:     s.nameOf(snap.EntityID),
			Rating:   snap.Rating(dim),
		}
		switch {
		case i == 0:
			rows[i].Rank = 1
		case rows[i].Rating == rows[i-1].Rating:
			rows[i].Rank = rows[i-1].Rank
		default:
			rows[i].Rank = rows[i-1].Rank + 1
		}
	}
	return rows, nil
}

// EraAdjustedRankings ranks a season by the era-adjusted view of the
// chosen dimension. The adjustment is a read-side transform of the
// stored snapshots; nothing is written back.
func (s *Service) EraAdjustedRankings(ctx context.Context, year int, dim repository.Dimension, kind model.EntityKind) ([]EraRankingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return nil, ErrReplayRequired
	}
	if !dim.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidDimension, dim)
	}

	snaps, err := s.history.Season(ctx, year, kind)
	if err != nil {
		return nil, err
	}

	norm := s.normFor(kind)
	rows := make([]EraRankingRow, len(snaps))
	for i, snap := range snaps {
		raw := snap.Rating(dim)
		debut := s.roster[snap.EntityID].DebutYear
		rows[i] = EraRankingRow{
			EntityID:    snap.EntityID,
			Name:        s.nameOf(snap.EntityID),
			Raw:         raw,
			Adjusted:    norm.Adjust(raw, debut, snap.Matchups()),
			Reliability: norm.Reliability(snap.Matchups()),
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Adjusted != rows[j].Adjusted {
			return rows[i].Adjusted > rows[j].Adjusted
		}
		return rows[i].EntityID < rows[j].EntityID
	})
	for i := range rows {
		switch {
		case i == 0:
			rows[i].Rank = 1
		case rows[i].Adjusted == rows[i-1].Adjusted:
			rows[i].Rank = rows[i-1].Rank
		default:
			rows[i].Rank = rows[i-1].Rank + 1
		}
	}
	return rows, nil
}

// TopCurrent returns the best n entities of one kind by current global
// rating.
func (s *Service) TopCurrent(ctx context.Context, kind model.EntityKind, n int) ([]RankingRow, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return nil, ErrReplayRequired
	}

	entries, err := s.indexFor(kind).TopN(ctx, n)
	if err != nil {
		return nil, err
	}
	rows := make([]RankingRow, len(entries))
	for i, e := range entries {
		rows[i] = RankingRow{
			Rank:     e.Rank,
			EntityID: e.EntityID,
			Name:     s.nameOf(e.EntityID),
			Rating:   e.Rating,
		}
	}
	return rows, nil
}

// CurrentRank returns an entity's standing among its kind by current
// global rating.
func (s *Service) CurrentRank(ctx context.Context, entityID string) (repository.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.replayed {
		return repository.Entry{}, ErrReplayRequired
	}
	entity, ok := s.roster[entityID]
	if !ok {
		return repository.Entry{}, fmt.Errorf("%w: %s", repository.ErrUnknownEntity, entityID)
	}
	return s.indexFor(entity.Kind).Rank(ctx, entityID)
}

func (s *Service) nameOf(id string) string {
	if e, ok := s.roster[id]; ok {
		return e.Name
	}
	return id
}
