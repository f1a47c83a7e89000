package repository

import "errors"

// Sentinel kinds for history and ranking errors.
var (
	// ErrUnknownEntity is returned for ids never seen in any season.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrNotActive is returned for known entities that recorded no
	// result in the requested season.
	ErrNotActive = errors.New("entity not active in season")
	// ErrSeasonCommitted is returned when a season batch would be
	// written twice. Snapshots are append-only; corrections require a
	// fresh replay into a clean store.
	ErrSeasonCommitted = errors.New("season already committed")
	// ErrNoSeasons is returned when a ranking is requested for a season
	// no batch was committed for.
	ErrNoSeasons = errors.New("no snapshots for season")
	// ErrInvalidLimit is returned for non-positive ranking limits.
	ErrInvalidLimit = errors.New("invalid ranking limit")
)
