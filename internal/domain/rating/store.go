// Package rating holds the live rating state and the ELO update engine
// that mutates it one teammate comparison at a time.
package rating

import "sort"

// State is one entity's live rating across the three coupled
// dimensions. Global is always the configured blend of the other two
// and is never stored independently of its components.
type State struct {
	Qualifying float64
	Race       float64
	Global     float64

	// Matchup counters feed the read-side reliability and era
	// adjustment; they never influence the update formula.
	QualifyingMatchups int
	RaceMatchups       int
}

// Matchups returns the total comparisons across both dimensions.
func (s State) Matchups() int {
	return s.QualifyingMatchups + s.RaceMatchups
}

// Store owns the live rating state for one entity population. It is a
// plain single-writer map: callers construct it, pass it into the
// engine and the snapshot pass, and discard or persist it at run's end.
// It is deliberately not safe for concurrent mutation; the update
// sequence is strictly sequential by design.
type Store struct {
	baseline float64
	weights  Weights
	states   map[string]*State
}

// Weights is the fixed blend of the two session dimensions into the
// global rating.
type Weights struct {
	Qualifying float64
	Race       float64
}

// NewStore creates a store whose entities start at baseline in all
// three dimensions on first appearance.
func NewStore(baseline float64, weights Weights) *Store {
	return &Store{
		baseline: baseline,
		weights:  weights,
		states:   make(map[string]*State),
	}
}

// Ensure returns the live state for id, initializing it to the baseline
// on first appearance.
func (s *Store) Ensure(id string) *State {
	st, ok := s.states[id]
	if !ok {
		st = &State{
			Qualifying: s.baseline,
			Race:       s.baseline,
			Global:     s.baseline,
		}
		s.states[id] = st
	}
	return st
}

// Get returns a copy of the state for id and whether it exists.
func (s *Store) Get(id string) (State, bool) {
	st, ok := s.states[id]
	if !ok {
		return State{}, false
	}
	return *st, true
}

// Len returns the number of entities with live state.
func (s *Store) Len() int {
	return len(s.states)
}

// IDs returns all entity identifiers in ascending order.
func (s *Store) IDs() []string {
	ids := make([]string, 0, len(s.states))
	for id := range s.states {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Export returns a copy of the full state map, for determinism checks
// and snapshotting.
func (s *Store) Export() map[string]State {
	out := make(map[string]State, len(s.states))
	for id, st := range s.states {
		out[id] = *st
	}
	return out
}

// blend recomputes the global dimension from the session dimensions.
func (s *Store) blend(st *State) {
	st.Global = s.weights.Qualifying*st.Qualifying + s.weights.Race*st.Race
}
