// Package source reads the imported racing history the replay runs on.
package source

import (
	"context"

	model "github.com/okian/gridelo/internal/domain/model"
)

// Source provides the entity roster, the event calendar and the per-event
// session results. Implementations return events in the order stored;
// chronological validation and ordering happen in the replay.
type Source interface {
	// Entities returns every known driver and team.
	Entities(ctx context.Context) ([]model.Entity, error)

	// Events returns the full event calendar. Returns ErrDuplicateRound
	// if two events share a (season, round) pair.
	Events(ctx context.Context) ([]model.Event, error)

	// Results returns all session results of one event, race-day lineup
	// and alternative entries alike.
	Results(ctx context.Context, eventID string) ([]model.SessionResult, error)

	Close() error
}
