package service

import "errors"

// Sentinel kinds for replay errors. Malformed input fails the whole
// run; there are no partial replays.
var (
	// ErrMissingSource is returned when Replay runs without a source.
	ErrMissingSource = errors.New("no source configured")
	// ErrUnknownEntityRef marks a result referencing a driver or team
	// the roster does not carry.
	ErrUnknownEntityRef = errors.New("result references unknown entity")
	// ErrReplayRequired is returned by queries that need a completed
	// replay.
	ErrReplayRequired = errors.New("replay has not run")
	// ErrQueueSaturated marks an internal failure to buffer all
	// extraction jobs.
	ErrQueueSaturated = errors.New("extraction queue saturated")
	// ErrInvalidDimension marks a ranking query with an unknown rating
	// dimension.
	ErrInvalidDimension = errors.New("invalid rating dimension")
)
