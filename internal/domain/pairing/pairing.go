// Package pairing derives teammate comparison pairs from raw session
// results. Extraction is a pure, order-independent transform: it never
// touches rating state and may safely run in parallel across events.
package pairing

import (
	"fmt"
	"sort"

	"github.com/okian/gridelo/internal/domain/model"
)

// Pair is a head-to-head between two results of the same event,
// affiliation and session type. A is always the result with the lower
// entity identifier so that replays apply pairs in a fixed order.
type Pair struct {
	A model.SessionResult
	B model.SessionResult
}

// SkipReason explains why an affiliation grouping produced no pair.
type SkipReason string

// Skip reasons.
const (
	// SkipSoloEntry marks an affiliation that fielded a single result;
	// no comparison is possible and the entity's rating is untouched.
	SkipSoloEntry SkipReason = "solo_entry"
	// SkipAmbiguousLineup marks a three-or-more-result affiliation with
	// no unambiguous race-day lineup. Failing closed beats comparing
	// unrelated drivers.
	SkipAmbiguousLineup SkipReason = "ambiguous_lineup"
)

// Skip records one affiliation grouping that was left unpaired.
type Skip struct {
	Affiliation string
	Reason      SkipReason
	Results     int
}

// Extract returns the teammate pairs for one event/session's results,
// grouped by affiliation. Results must already be scoped to a single
// event and a single session type; mixed input is a caller bug and
// fails the extraction.
func Extract(results []model.SessionResult) ([]Pair, []Skip, error) {
	if len(results) == 0 {
		return nil, nil, nil
	}
	eventID, session := results[0].EventID, results[0].Session
	byTeam := make(map[string][]model.SessionResult)
	for _, r := range results {
		if r.EventID != eventID || r.Session != session {
			return nil, nil, fmt.Errorf("%w: got event %q session %q, want event %q session %q",
				ErrMixedScope, r.EventID, r.Session, eventID, session)
		}
		byTeam[r.Affiliation] = append(byTeam[r.Affiliation], r)
	}

	teams := make([]string, 0, len(byTeam))
	for team := range byTeam {
		teams = append(teams, team)
	}
	sort.Strings(teams)

	var pairs []Pair
	var skips []Skip
	for _, team := range teams {
		group := byTeam[team]
		sort.Slice(group, func(i, j int) bool { return group[i].EntityID < group[j].EntityID })

		switch {
		case len(group) == 1:
			skips = append(skips, Skip{Affiliation: team, Reason: SkipSoloEntry, Results: 1})
		case len(group) == 2:
			pairs = append(pairs, Pair{A: group[0], B: group[1]})
		default:
			// Mid-season replacements: pick the two race-day lineup
			// results if the record marks exactly two, otherwise skip.
			primaries := group[:0:0]
			for _, r := range group {
				if r.Primary {
					primaries = append(primaries, r)
				}
			}
			if len(primaries) == 2 {
				pairs = append(pairs, Pair{A: primaries[0], B: primaries[1]})
			} else {
				skips = append(skips, Skip{Affiliation: team, Reason: SkipAmbiguousLineup, Results: len(group)})
			}
		}
	}
	return pairs, skips, nil
}

// Compare gives the verdict of a teammate pair. A classified result
// always beats an unclassified one; two unclassified results carry no
// signal; an identical recorded position is a draw.
func Compare(a, b model.SessionResult) model.Outcome {
	switch {
	case !a.Classified() && !b.Classified():
		return model.OutcomeNoContest
	case !b.Classified():
		return model.OutcomeAWins
	case !a.Classified():
		return model.OutcomeBWins
	case a.Pos() < b.Pos():
		return model.OutcomeAWins
	case a.Pos() > b.Pos():
		return model.OutcomeBWins
	default:
		return model.OutcomeDraw
	}
}
