// Package model contains domain models passed between layers.
package model

import "time"

// Session identifies which portion of a race weekend a result belongs to.
// Each session carries its own independent rating dimension.
type Session string

// Session types, in processing order within one event.
const (
	SessionQualifying Session = "qualifying"
	SessionRace       Session = "race"
)

// Sessions lists the session types in the order the update engine
// processes them within a single event.
func Sessions() []Session {
	return []Session{SessionQualifying, SessionRace}
}

// Event represents one race weekend. The (Season, Round) pair is the
// total ordering key: no two events in a season share a round, and
// cross-season ordering follows the year.
type Event struct {
	ID     string
	Season int // season year, e.g. 1998
	Round  int // round number within the season, starting at 1
	Name   string
	Date   time.Time
}

// Before reports whether e precedes other in chronological order.
func (e Event) Before(other Event) bool {
	if e.Season != other.Season {
		return e.Season < other.Season
	}
	return e.Round < other.Round
}

// SessionResult is one entity's outcome in one event for one session
// type. Immutable once recorded.
type SessionResult struct {
	EntityID    string
	EventID     string
	Affiliation string  // team the entity was paired under for this event
	Session     Session // qualifying or race
	Position    *int    // finishing position; nil means not classified (DNF/DNQ)
	Primary     bool    // part of the race-day lineup for this event
	Status      string  // raw classification note from the source, display only
}

// Classified reports whether the result carries a finishing position.
func (r SessionResult) Classified() bool {
	return r.Position != nil
}

// Pos returns the finishing position, or 0 when not classified.
func (r SessionResult) Pos() int {
	if r.Position == nil {
		return 0
	}
	return *r.Position
}

// Outcome is the verdict of comparing two results A and B of the same
// session. NoContest marks a comparison with no informative signal.
type Outcome int

// Comparison outcomes.
const (
	OutcomeNoContest Outcome = iota
	OutcomeAWins
	OutcomeBWins
	OutcomeDraw
)
