package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/gridelo/internal/adapters/repository"
	"github.com/okian/gridelo/internal/adapters/source"
	app "github.com/okian/gridelo/internal/app"
	"github.com/okian/gridelo/internal/config"
	"github.com/okian/gridelo/internal/domain/model"
	"github.com/okian/gridelo/internal/domain/rating"
	"github.com/okian/gridelo/pkg/logger"
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom replay metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			os.Stderr.WriteString("failed to flush logs: " + err.Error() + "\n")
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	if err := run(ctx, cfg); err != nil {
		loggerInstance.Error(ctx, "replay failed", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	src, err := source.NewSQLiteSource(cfg.DatabasePath)
	if err != nil {
		return fmt.Errorf("open source database: %w", err)
	}
	defer func() { _ = src.Close() }()

	history, err := openHistory(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() { _ = history.Close() }()

	svc := app.New(
		app.WithLogger(logger.Get()),
		app.WithSource(src),
		app.WithHistory(history),
		app.WithExtractionWorkers(cfg.ExtractionWorkers),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
		app.WithTeamRatings(cfg.TeamRatings),
		app.WithEngineOptions(
			rating.WithKFactor(cfg.KFactor),
			rating.WithBaseline(cfg.InitialRating),
			rating.WithWeights(cfg.QualifyingWeight, cfg.RaceWeight),
		),
	)

	if err := svc.Replay(ctx); err != nil {
		return err
	}

	if err := printRankings(ctx, svc, model.KindDriver, "All-Time Drivers", cfg.TopN); err != nil {
		return err
	}
	if cfg.TeamRatings {
		if err := printRankings(ctx, svc, model.KindTeam, "All-Time Constructors", cfg.TopN); err != nil {
			return err
		}
	}
	return printEraAdjusted(ctx, svc, cfg.TopN)
}

// openHistory picks the snapshot backend: a database when a path is
// configured, otherwise in-process memory for throwaway runs.
func openHistory(ctx context.Context, cfg *config.Config) (repository.History, error) {
	if cfg.HistoryPath == "" {
		return repository.NewMemoryHistory(), nil
	}
	history, err := repository.NewSQLiteHistory(ctx, cfg.HistoryPath, uuid.NewString())
	if err != nil {
		return nil, fmt.Errorf("open history database: %w", err)
	}
	return history, nil
}

func printRankings(ctx context.Context, svc *app.Service, kind model.EntityKind, title string, n int) error {
	rows, err := svc.TopCurrent(ctx, kind, n)
	if err != nil {
		return err
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(title)
	t.AppendHeader(table.Row{"Rank", "Name", "Rating"})
	for _, row := range rows {
		t.AppendRow(table.Row{row.Rank, row.Name, fmt.Sprintf("%.1f", row.Rating)})
	}
	t.Render()
	return nil
}

// printEraAdjusted reports the latest season's standings with era
// multipliers applied, next to the raw ratings they derive from.
func printEraAdjusted(ctx context.Context, svc *app.Service, n int) error {
	years, err := svc.Years(ctx)
	if err != nil {
		return err
	}
	if len(years) == 0 {
		return nil
	}
	latest := years[len(years)-1]

	rows, err := svc.EraAdjustedRankings(ctx, latest, repository.DimensionGlobal, model.KindDriver)
	if err != nil {
		return err
	}
	if len(rows) > n {
		rows = rows[:n]
	}

	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleRounded)
	t.SetTitle(fmt.Sprintf("Era-Adjusted Drivers, %d", latest))
	t.AppendHeader(table.Row{"Rank", "Name", "Raw", "Adjusted", "Reliability"})
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			row.Name,
			fmt.Sprintf("%.1f", row.Raw),
			fmt.Sprintf("%.1f", row.Adjusted),
			fmt.Sprintf("%.0f%%", row.Reliability),
		})
	}
	t.Render()
	return nil
}
