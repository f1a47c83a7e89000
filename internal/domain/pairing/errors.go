package pairing

import "errors"

// Sentinel kinds for pairing errors.
var (
	ErrMixedScope = errors.New("results span multiple events or sessions")
)
