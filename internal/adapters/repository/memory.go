package repository

import (
	"context"
	"sort"
	"sync"

	model "github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/pkg/metrics"
)

// MemoryHistory keeps season snapshots in memory. It backs tests and
// replays that only need the final rankings printed.
type MemoryHistory struct {
	mu      sync.RWMutex
	seasons map[int]map[string]Snapshot
	known   map[string]struct{}
}

// NewMemoryHistory creates an empty in-memory history.
func NewMemoryHistory() *MemoryHistory {
	return &MemoryHistory{
		seasons: make(map[int]map[string]Snapshot),
		known:   make(map[string]struct{}),
	}
}

func (h *MemoryHistory) Reset(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.seasons = make(map[int]map[string]Snapshot)
	h.known = make(map[string]struct{})
	return nil
}

func (h *MemoryHistory) AppendSeason(_ context.Context, year int, batch []Snapshot) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.seasons[year]; ok {
		metrics.RecordErrorByComponent("history", "season_committed")
		return ErrSeasonCommitted
	}

	rows := make(map[string]Snapshot, len(batch))
	for _, snap := range batch {
		rows[snap.EntityID] = snap
		h.known[snap.EntityID] = struct{}{}
	}
	h.seasons[year] = rows
	metrics.RecordSnapshotsWritten(len(rows))
	return nil
}

func (h *MemoryHistory) Lookup(_ context.Context, entityID string, year int) (Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.known[entityID]; !ok {
		return Snapshot{}, ErrUnknownEntity
	}
	snap, ok := h.seasons[year][entityID]
	if !ok {
		return Snapshot{}, ErrNotActive
	}
	return snap, nil
}

func (h *MemoryHistory) Season(_ context.Context, year int, kind model.EntityKind) ([]Snapshot, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	rows, ok := h.seasons[year]
	if !ok {
		return nil, ErrNoSeasons
	}
	out := make([]Snapshot, 0, len(rows))
	for _, snap := range rows {
		if snap.Kind == kind {
			out = append(out, snap)
		}
	}
	return out, nil
}

func (h *MemoryHistory) Seasons(_ context.Context, entityID string) ([]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.known[entityID]; !ok {
		return nil, ErrUnknownEntity
	}
	var years []int
	for year, rows := range h.seasons {
		if _, ok := rows[entityID]; ok {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

func (h *MemoryHistory) Years(_ context.Context) ([]int, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	years := make([]int, 0, len(h.seasons))
	for year := range h.seasons {
		years = append(years, year)
	}
	sort.Ints(years)
	return years, nil
}

func (h *MemoryHistory) Close() error { return nil }
