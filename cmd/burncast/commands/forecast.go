package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/pkg/browser"
	"github.com/rs/zerolog/log"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"burncast/internal/forecast"
	"burncast/internal/project"
	"burncast/internal/reporting"
)

const dateLayout = "2006-01-02"

var (
	fcProject    string
	fcBacklog    float64
	fcSamples    []float64
	fcMean       float64
	fcStdDev     float64
	fcCadence    int
	fcTrials     int
	fcSeed       int64
	fcPercentile float64
	fcStart      string
	fcMilestones []float64
	fcGrowth     string
	fcCSVPath    string
	fcHTMLPath   string
	fcOpen       bool
)

var forecastCmd = &cobra.Command{
	Use:   "forecast",
	Short: "Run a completion forecast for a stored project or ad-hoc inputs",
	Long: `Runs trialCount Monte Carlo trials per candidate distribution and prints
confidence percentiles as period counts and calendar dates.

With --project the backlog, cadence and throughput history come from the
database. Without it, supply --backlog plus either --samples (historical
per-period throughput) or --mean/--stddev.`,
	RunE: runForecast,
}

func init() {
	forecastCmd.Flags().StringVarP(&fcProject, "project", "p", "", "name of a stored project")
	forecastCmd.Flags().Float64Var(&fcBacklog, "backlog", 0, "remaining backlog for an ad-hoc forecast")
	forecastCmd.Flags().Float64SliceVar(&fcSamples, "samples", nil, "historical per-period throughput for an ad-hoc forecast")
	forecastCmd.Flags().Float64Var(&fcMean, "mean", 0, "baseline velocity mean for an ad-hoc forecast")
	forecastCmd.Flags().Float64Var(&fcStdDev, "stddev", 0, "baseline velocity standard deviation for an ad-hoc forecast")
	forecastCmd.Flags().IntVar(&fcCadence, "cadence", 14, "period length in days for an ad-hoc forecast")
	forecastCmd.Flags().IntVarP(&fcTrials, "trials", "t", 0, "trials per distribution (default from configuration)")
	forecastCmd.Flags().Int64Var(&fcSeed, "seed", 0, "fixed random seed for a reproducible run")
	forecastCmd.Flags().Float64Var(&fcPercentile, "percentile", 0, "extra confidence percentile in [1,99]")
	forecastCmd.Flags().StringVar(&fcStart, "start", "", "first period start date as YYYY-MM-DD (default today)")
	forecastCmd.Flags().Float64SliceVar(&fcMilestones, "milestones", nil, "cumulative milestone thresholds, last must equal the backlog")
	forecastCmd.Flags().StringVar(&fcGrowth, "growth", "", "per-period scope growth: 'calculated', a number, or empty for none")
	forecastCmd.Flags().StringVar(&fcCSVPath, "csv", "", "also write the report as CSV to this path")
	forecastCmd.Flags().StringVar(&fcHTMLPath, "html", "", "also write the report as HTML to this path")
	forecastCmd.Flags().BoolVar(&fcOpen, "open", false, "open the HTML report in the browser (requires --html)")

	rootCmd.AddCommand(forecastCmd)
}

func runForecast(cmd *cobra.Command, args []string) error {
	snap, err := forecastSnapshot(cmd.Context())
	if err != nil {
		return err
	}

	trials := fcTrials
	if trials <= 0 {
		trials = cfg.DefaultTrialCount
	}
	if !cmd.Flags().Changed("percentile") {
		fcPercentile = cfg.DefaultPercentile
	}

	start := time.Now().UTC()
	if fcStart != "" {
		start, err = time.Parse(dateLayout, fcStart)
		if err != nil {
			return fmt.Errorf("invalid --start %q: %w", fcStart, err)
		}
	}

	growth := forecast.ResolveScopeGrowth(
		fcGrowth != "",
		growthMode(fcGrowth),
		fcGrowth,
		forecast.AverageScopeGrowth(snap.Periods),
	)

	simCfg := forecast.SimulationConfig{
		RemainingBacklog:     snap.Project.RemainingBacklog,
		PeriodStart:          start,
		TrialCount:           trials,
		PeriodLengthDays:     snap.Project.PeriodLengthDays,
		ScopeGrowthPerPeriod: growth,
		Milestones:           fcMilestones,
		Adjustments:          snap.Adjustments,
		CustomPercentile:     fcPercentile,
	}

	engine := forecast.NewEngine()
	if cmd.Flags().Changed("seed") {
		engine.SetSeed(fcSeed)
	}
	if cfg.Workers > 0 {
		engine.SetWorkers(cfg.Workers)
	}

	stats := snap.VelocityStats()
	if fcProject == "" && len(fcSamples) == 0 {
		stats = forecast.VelocityStats{Mean: fcMean, StdDev: fcStdDev}
	}
	specs := forecast.DefaultSpecs(stats, snap.BootstrapSamples())
	bar := progressbar.Default(int64(trials * len(specs)))
	engine.SetProgress(func(completed int) {
		_ = bar.Add(completed)
	})

	results, err := engine.Run(simCfg, specs)
	if err != nil {
		return err
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	report := reporting.Report{
		Project:     snap.Project.Name,
		Unit:        snap.Project.Unit,
		GeneratedAt: time.Now().UTC(),
		Config:      simCfg,
		Results:     results,
	}

	if err := reporting.WriteTable(os.Stdout, report); err != nil {
		return err
	}
	if fcCSVPath != "" {
		if err := writeReportFile(fcCSVPath, report, reporting.WriteCSV); err != nil {
			return err
		}
		log.Info().Str("path", fcCSVPath).Msg("CSV report written")
	}
	if fcHTMLPath != "" {
		if err := writeReportFile(fcHTMLPath, report, reporting.WriteHTML); err != nil {
			return err
		}
		log.Info().Str("path", fcHTMLPath).Msg("HTML report written")
		if fcOpen {
			if err := browser.OpenFile(fcHTMLPath); err != nil {
				log.Warn().Err(err).Msg("Failed to open report in browser")
			}
		}
	}
	return nil
}

// forecastSnapshot resolves the simulation input from the store or from
// ad-hoc flags.
func forecastSnapshot(ctx context.Context) (*project.Snapshot, error) {
	if fcProject != "" {
		store, err := openStore()
		if err != nil {
			return nil, err
		}
		defer store.Close()

		p, err := store.GetProjectByName(ctx, fcProject)
		if err != nil {
			return nil, err
		}
		return project.LoadSnapshot(ctx, store, p.ID)
	}

	if fcBacklog <= 0 {
		return nil, fmt.Errorf("either --project or --backlog is required")
	}
	if len(fcSamples) == 0 && fcMean <= 0 {
		return nil, fmt.Errorf("ad-hoc forecasts need --samples or --mean")
	}

	snap := &project.Snapshot{
		Project: project.Project{
			Name:             "ad-hoc",
			Unit:             "units",
			PeriodLengthDays: fcCadence,
			RemainingBacklog: fcBacklog,
		},
	}
	for i, v := range fcSamples {
		snap.Periods = append(snap.Periods, forecast.PeriodRecord{
			Number:             i + 1,
			Throughput:         v,
			IncludedInBaseline: true,
		})
	}
	return snap, nil
}

func growthMode(raw string) forecast.GrowthMode {
	if raw == string(forecast.GrowthCalculated) {
		return forecast.GrowthCalculated
	}
	return forecast.GrowthCustom
}

func writeReportFile(path string, report reporting.Report, write func(w io.Writer, r reporting.Report) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()
	return write(f, report)
}
