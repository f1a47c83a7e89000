package pairing

import (
	"sort"

	"github.com/okian/gridelo/internal/domain/model"
)

// TeamStanding summarizes one team's showing in a single event/session:
// the average finishing position of its classified results. Teams with
// no classified result that session produce no standing.
type TeamStanding struct {
	TeamID      string
	AvgPosition float64
	Classified  int
}

// TeamPair is a head-to-head between two teams in the same
// event/session. A always carries the lower team identifier.
type TeamPair struct {
	A TeamStanding
	B TeamStanding
}

// TeamStandings aggregates one event/session's results into per-team
// standings, ordered by team identifier.
func TeamStandings(results []model.SessionResult) []TeamStanding {
	type agg struct {
		sum   int
		count int
	}
	byTeam := make(map[string]*agg)
	for _, r := range results {
		if !r.Classified() {
			continue
		}
		a, ok := byTeam[r.Affiliation]
		if !ok {
			a = &agg{}
			byTeam[r.Affiliation] = a
		}
		a.sum += r.Pos()
		a.count++
	}

	standings := make([]TeamStanding, 0, len(byTeam))
	for team, a := range byTeam {
		standings = append(standings, TeamStanding{
			TeamID:      team,
			AvgPosition: float64(a.sum) / float64(a.count),
			Classified:  a.count,
		})
	}
	sort.Slice(standings, func(i, j int) bool { return standings[i].TeamID < standings[j].TeamID })
	return standings
}

// TeamPairs produces every pairwise team comparison for one
// event/session, in a fixed order.
func TeamPairs(standings []TeamStanding) []TeamPair {
	var pairs []TeamPair
	for i := 0; i < len(standings); i++ {
		for j := i + 1; j < len(standings); j++ {
			pairs = append(pairs, TeamPair{A: standings[i], B: standings[j]})
		}
	}
	return pairs
}

// CompareTeams gives the verdict of a team pair: the lower average
// position wins.
func CompareTeams(a, b TeamStanding) model.Outcome {
	switch {
	case a.AvgPosition < b.AvgPosition:
		return model.OutcomeAWins
	case a.AvgPosition > b.AvgPosition:
		return model.OutcomeBWins
	default:
		return model.OutcomeDraw
	}
}
