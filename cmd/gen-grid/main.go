package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/okian/gridelo/internal/simgrid"
)

const writeTimeout = 5 * time.Minute

func main() {
	defaults := simgrid.DefaultConfig()
	var (
		output  = flag.String("output", "synthetic_grid.db", "Path of the database to create")
		seed    = flag.Int64("seed", defaults.Seed, "Random seed; the same seed reproduces the same grid")
		first   = flag.Int("first-season", defaults.FirstSeason, "First championship season")
		seasons = flag.Int("seasons", defaults.Seasons, "Number of seasons to generate")
		teams   = flag.Int("teams", defaults.Teams, "Number of two-car teams")
		rounds  = flag.Int("rounds", defaults.Rounds, "Races per season")
		retire  = flag.Float64("retire-rate", defaults.RetireRate, "Per-driver probability of a DNF")
		churn   = flag.Float64("churn-rate", defaults.ChurnRate, "Per-seat probability of a rookie between seasons")
	)
	flag.Parse()

	if _, err := os.Stat(*output); err == nil {
		os.Stderr.WriteString(*output + " already exists; refusing to overwrite\n")
		os.Exit(1)
	}

	cfg := simgrid.Config{
		Seed:        *seed,
		FirstSeason: *first,
		Seasons:     *seasons,
		Teams:       *teams,
		Rounds:      *rounds,
		RetireRate:  *retire,
		ChurnRate:   *churn,
	}

	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	grid := simgrid.Generate(cfg)
	if err := simgrid.Write(ctx, *output, grid); err != nil {
		os.Stderr.WriteString("failed to write grid: " + err.Error() + "\n")
		os.Exit(1)
	}

	fmt.Printf("wrote %s: %d teams, %d drivers, %d races, %d results\n",
		*output, len(grid.Teams), len(grid.Drivers), len(grid.Races), len(grid.Results))
}
