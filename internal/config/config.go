// Package config defines process configuration and loading.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Layer file and environment on top via Load.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DatabasePath points at the imported history database the replay
	// reads from.
	DatabasePath string `koanf:"database_path"`

	// HistoryPath points at the snapshot database the replay writes.
	// Empty keeps snapshots in memory only.
	HistoryPath string `koanf:"history_path"`

	// KFactor is the global update step size.
	KFactor float64 `koanf:"k_factor"`

	// InitialRating is the baseline every entity starts from.
	InitialRating float64 `koanf:"initial_rating"`

	// QualifyingWeight and RaceWeight blend the global rating. They
	// must sum to 1.
	QualifyingWeight float64 `koanf:"qualifying_weight"`
	RaceWeight       float64 `koanf:"race_weight"`

	// ExtractionWorkers sets the extraction pool size.
	ExtractionWorkers int `koanf:"extraction_workers"`

	// QueueSize bounds the extraction job queue. Zero sizes it to the
	// job count of the replay.
	QueueSize int `koanf:"queue_size"`

	// TeamRatings enables the team comparison flow.
	TeamRatings bool `koanf:"team_ratings"`

	// DedupeSize bounds the duplicate result guard. Zero is unbounded.
	DedupeSize int `koanf:"dedupe_size"`

	// TopN sets how many rows ranking output prints.
	TopN int `koanf:"top_n"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		DatabasePath:      "f1_database.db",
		HistoryPath:       "elo_history.db",
		KFactor:           32,
		InitialRating:     1500,
		QualifyingWeight:  0.3,
		RaceWeight:        0.7,
		ExtractionWorkers: runtime.NumCPU() * 4,
		TeamRatings:       true,
		TopN:              25,
	}
}
