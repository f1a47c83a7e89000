package source

import (
	"context"
	"fmt"

	model "github.com/okian/gridelo/internal/domain/model"
)

// MemorySource serves a fixed dataset. It backs tests and synthetic
// grids.
type MemorySource struct {
	entities []model.Entity
	events   []model.Event
	results  map[string][]model.SessionResult
}

// NewMemorySource builds a source over the given dataset. Results are
// grouped by event id.
func NewMemorySource(entities []model.Entity, events []model.Event, results []model.SessionResult) *MemorySource {
	byEvent := make(map[string][]model.SessionResult)
	for _, r := range results {
		byEvent[r.EventID] = append(byEvent[r.EventID], r)
	}
	return &MemorySource{
		entities: entities,
		events:   events,
		results:  byEvent,
	}
}

func (s *MemorySource) Entities(_ context.Context) ([]model.Entity, error) {
	out := make([]model.Entity, len(s.entities))
	copy(out, s.entities)
	return out, nil
}

func (s *MemorySource) Events(_ context.Context) ([]model.Event, error) {
	seen := make(map[[2]int]string, len(s.events))
	for _, ev := range s.events {
		key := [2]int{ev.Season, ev.Round}
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: season %d round %d claimed by %q and %q",
				ErrDuplicateRound, ev.Season, ev.Round, prev, ev.Name)
		}
		seen[key] = ev.Name
	}
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out, nil
}

func (s *MemorySource) Results(_ context.Context, eventID string) ([]model.SessionResult, error) {
	rows, ok := s.results[eventID]
	if !ok {
		known := false
		for _, ev := range s.events {
			if ev.ID == eventID {
				known = true
				break
			}
		}
		if !known {
			return nil, fmt.Errorf("%w: %s", ErrUnknownEvent, eventID)
		}
		return nil, nil
	}
	out := make([]model.SessionResult, len(rows))
	copy(out, rows)
	return out, nil
}

func (s *MemorySource) Close() error { return nil }
