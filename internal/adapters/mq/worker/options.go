// Package worker runs pair extraction concurrently ahead of the
// sequential rating pass.
package worker

import (
	"github.com/okian/gridelo/pkg/logger"
)

// Option applies a configuration option to the Extractor.
type Option func(*Extractor)

// WithName sets the worker name for identification and logging.
func WithName(name string) Option {
	return func(w *Extractor) {
		if name != "" {
			w.name = name
		}
	}
}

// WithLogger sets a custom logger for the worker.
func WithLogger(l logger.Logger) Option {
	return func(w *Extractor) {
		if l != nil {
			w.logger = l
		}
	}
}

// WithTeamComparisons also derives the pairwise team standings from
// each job's results.
func WithTeamComparisons(enabled bool) Option {
	return func(w *Extractor) {
		w.compareTeams = enabled
	}
}
