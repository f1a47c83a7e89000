package source

import "errors"

// Sentinel kinds for source data errors.
var (
	// ErrDuplicateRound marks two events claiming the same
	// (season, round) slot. Chronology cannot be resolved past it.
	ErrDuplicateRound = errors.New("duplicate season round")
	// ErrUnknownEvent is returned when results are requested for an
	// event id the source does not carry.
	ErrUnknownEvent = errors.New("unknown event")
)
