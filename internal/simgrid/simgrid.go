// Package simgrid fabricates synthetic championship databases in the
// import schema, so replays can be exercised at any scale without a
// real results dump.
package simgrid

import (
	"fmt"
	"math/rand"
)

// Config controls the shape of a generated grid. The same Seed always
// produces the same database.
type Config struct {
	Seed        int64
	FirstSeason int
	Seasons     int
	Teams       int
	Rounds      int

	// RetireRate is the per-driver probability of not finishing a race.
	RetireRate float64
	// ChurnRate is the per-seat probability of a rookie taking over
	// between seasons.
	ChurnRate float64
}

// DefaultConfig mimics a small mid-grid era: ten teams over five
// seasons with a sixteen-round calendar.
func DefaultConfig() Config {
	return Config{
		Seed:        1,
		FirstSeason: 1990,
		Seasons:     5,
		Teams:       10,
		Rounds:      16,
		RetireRate:  0.15,
		ChurnRate:   0.2,
	}
}

// TeamRow, DriverRow, RaceRow and ResultRow mirror the import schema
// tables one to one.
type TeamRow struct {
	ID      int
	Name    string
	Country string
}

type DriverRow struct {
	ID          int
	FirstName   string
	LastName    string
	Nationality string
	DebutYear   int
	TeamID      int
}

type RaceRow struct {
	ID     int
	Season int
	Round  int
	Name   string
	Date   string
}

type ResultRow struct {
	RaceID   int
	DriverID int
	TeamID   int
	Grid     int
	Position int // 0 means not classified
	Status   string
}

// Grid is a complete synthetic dataset ready to be written out.
type Grid struct {
	Teams   []TeamRow
	Drivers []DriverRow
	Races   []RaceRow
	Results []ResultRow
}

var (
	countries = []string{"United Kingdom", "Italy", "France", "Germany", "Brazil", "Japan"}
	statuses  = []string{"Engine", "Gearbox", "Accident", "Hydraulics", "Suspension"}
	venues    = []string{
		"Interlagos", "Imola", "Monaco", "Montreal", "Magny-Cours",
		"Silverstone", "Hockenheim", "Hungaroring", "Spa", "Monza",
		"Estoril", "Jerez", "Suzuka", "Adelaide", "Kyalami", "Zandvoort",
	}
)

// Generate builds a deterministic synthetic grid. Each team fields two
// cars; between seasons some seats turn over to rookies.
func Generate(cfg Config) *Grid {
	rng := rand.New(rand.NewSource(cfg.Seed))
	g := &Grid{}

	for i := 0; i < cfg.Teams; i++ {
		g.Teams = append(g.Teams, TeamRow{
			ID:      i + 1,
			Name:    fmt.Sprintf("Scuderia %02d", i+1),
			Country: countries[rng.Intn(len(countries))],
		})
	}

	// seats[i] is the driver currently in car i; two cars per team.
	nextDriver := 1
	seats := make([]int, cfg.Teams*2)
	for i := range seats {
		seats[i] = nextDriver
		g.Drivers = append(g.Drivers, newDriver(rng, nextDriver, cfg.FirstSeason, i/2+1))
		nextDriver++
	}

	raceID := 1
	for s := 0; s < cfg.Seasons; s++ {
		season := cfg.FirstSeason + s

		if s > 0 {
			for i := range seats {
				if rng.Float64() >= cfg.ChurnRate {
					continue
				}
				seats[i] = nextDriver
				g.Drivers = append(g.Drivers, newDriver(rng, nextDriver, season, i/2+1))
				nextDriver++
			}
		}

		for round := 1; round <= cfg.Rounds; round++ {
			race := RaceRow{
				ID:     raceID,
				Season: season,
				Round:  round,
				Name:   venues[(round-1)%len(venues)] + " Grand Prix",
				Date:   fmt.Sprintf("%04d-%02d-%02d", season, (round-1)%12+1, round%28+1),
			}
			g.Races = append(g.Races, race)
			g.Results = append(g.Results, raceResults(rng, cfg, race, seats)...)
			raceID++
		}
	}
	return g
}

func newDriver(rng *rand.Rand, id, debut, teamID int) DriverRow {
	return DriverRow{
		ID:          id,
		FirstName:   fmt.Sprintf("Driver%03d", id),
		LastName:    fmt.Sprintf("Surname%03d", id),
		Nationality: countries[rng.Intn(len(countries))],
		DebutYear:   debut,
		TeamID:      teamID,
	}
}

// raceResults rolls one race: a shuffled grid, retirements, and the
// survivors classified in a shuffled finishing order.
func raceResults(rng *rand.Rand, cfg Config, race RaceRow, seats []int) []ResultRow {
	order := rng.Perm(len(seats))

	finishers := make([]int, 0, len(seats))
	retired := make([]int, 0, len(seats))
	for _, car := range rng.Perm(len(seats)) {
		if rng.Float64() < cfg.RetireRate {
			retired = append(retired, car)
		} else {
			finishers = append(finishers, car)
		}
	}

	rows := make([]ResultRow, 0, len(seats))
	for grid, car := range order {
		rows = append(rows, ResultRow{
			RaceID:   race.ID,
			DriverID: seats[car],
			TeamID:   car/2 + 1,
			Grid:     grid + 1,
			Status:   "Finished",
		})
	}
	for pos, car := range finishers {
		for i := range rows {
			if rows[i].DriverID == seats[car] {
				rows[i].Position = pos + 1
			}
		}
	}
	for _, car := range retired {
		for i := range rows {
			if rows[i].DriverID == seats[car] {
				rows[i].Status = statuses[rng.Intn(len(statuses))]
			}
		}
	}
	return rows
}
