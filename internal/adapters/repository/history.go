// Package repository stores the per-season rating snapshots and the
// current-rating rank index.
package repository

import (
	"context"

	model "github.com/okian/gridelo/internal/domain/model"
)

// Dimension selects which rating a snapshot query reads.
type Dimension string

const (
	DimensionQualifying Dimension = "qualifying"
	DimensionRace       Dimension = "race"
	DimensionGlobal     Dimension = "global"
)

// Valid reports whether d names a rating dimension.
func (d Dimension) Valid() bool {
	switch d {
	case DimensionQualifying, DimensionRace, DimensionGlobal:
		return true
	}
	return false
}

// Snapshot is one entity's rating state at the close of a season's
// last event. Snapshots are immutable once committed.
type Snapshot struct {
	EntityID           string
	Kind               model.EntityKind
	SeasonYear         int
	Qualifying         float64
	Race               float64
	Global             float64
	QualifyingMatchups int
	RaceMatchups       int
}

// Rating returns the snapshot's value for the given dimension.
func (s Snapshot) Rating(d Dimension) float64 {
	switch d {
	case DimensionQualifying:
		return s.Qualifying
	case DimensionRace:
		return s.Race
	default:
		return s.Global
	}
}

// Matchups returns the snapshot's total matchup count across sessions.
func (s Snapshot) Matchups() int {
	return s.QualifyingMatchups + s.RaceMatchups
}

// History is the append-only season snapshot store. Within a run
// committed seasons are never touched again; a new replay starts by
// resetting the store and rewriting it in full, since the snapshot log
// is a derived view of the replayed source.
type History interface {
	// Reset discards every committed snapshot. Called once at the
	// start of a replay, before the first AppendSeason.
	Reset(ctx context.Context) error

	// AppendSeason commits one season's snapshots as a single atomic
	// batch. Exactly one snapshot per entity active that season.
	// Returns ErrSeasonCommitted if the season was committed before.
	AppendSeason(ctx context.Context, year int, batch []Snapshot) error

	// Lookup returns the snapshot for an entity in a season.
	// Returns ErrUnknownEntity for ids never snapshotted, and
	// ErrNotActive for known entities absent from that season.
	Lookup(ctx context.Context, entityID string, year int) (Snapshot, error)

	// Season returns all snapshots of a season for one entity kind,
	// in unspecified order. Returns ErrNoSeasons for uncommitted years.
	Season(ctx context.Context, year int, kind model.EntityKind) ([]Snapshot, error)

	// Seasons returns the committed years an entity appears in,
	// ascending. Returns ErrUnknownEntity for ids never snapshotted.
	Seasons(ctx context.Context, entityID string) ([]int, error)

	// Years returns all committed season years, ascending.
	Years(ctx context.Context) ([]int, error)

	Close() error
}
