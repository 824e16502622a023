package mcp

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"burncast/internal/forecast"
	"burncast/internal/project"
)

const dateLayout = "2006-01-02"

type listProjectsInput struct{}

type projectSummary struct {
	ID               int64   `json:"id"`
	Name             string  `json:"name"`
	Unit             string  `json:"unit"`
	PeriodLengthDays int     `json:"period_length_days"`
	RemainingBacklog float64 `json:"remaining_backlog"`
	Periods          int     `json:"periods"`
	BaselineMean     float64 `json:"baseline_mean"`
	BaselineStdDev   float64 `json:"baseline_std_dev"`
}

type listProjectsOutput struct {
	Projects []projectSummary `json:"projects"`
}

func (s *Server) listProjects(ctx context.Context, req *mcp.CallToolRequest, in listProjectsInput) (*mcp.CallToolResult, listProjectsOutput, error) {
	projects, err := s.store.ListProjects(ctx)
	if err != nil {
		return nil, listProjectsOutput{}, err
	}

	out := listProjectsOutput{Projects: make([]projectSummary, 0, len(projects))}
	for _, p := range projects {
		snap, err := project.LoadSnapshot(ctx, s.store, p.ID)
		if err != nil {
			return nil, listProjectsOutput{}, err
		}
		stats := snap.VelocityStats()
		out.Projects = append(out.Projects, projectSummary{
			ID:               p.ID,
			Name:             p.Name,
			Unit:             p.Unit,
			PeriodLengthDays: p.PeriodLengthDays,
			RemainingBacklog: p.RemainingBacklog,
			Periods:          len(snap.Periods),
			BaselineMean:     stats.Mean,
			BaselineStdDev:   stats.StdDev,
		})
	}
	return nil, out, nil
}

type runForecastInput struct {
	Project     string    `json:"project" jsonschema:"name of the stored project to forecast"`
	Trials      int       `json:"trials,omitempty" jsonschema:"trial count per distribution, defaults to the configured value"`
	Percentile  float64   `json:"percentile,omitempty" jsonschema:"extra confidence percentile in [1,99]"`
	Seed        *int64    `json:"seed,omitempty" jsonschema:"fixed random seed for a reproducible run"`
	PeriodStart string    `json:"period_start,omitempty" jsonschema:"first period start date as YYYY-MM-DD, defaults to today"`
	Milestones  []float64 `json:"milestones,omitempty" jsonschema:"cumulative milestone thresholds, strictly increasing, last equals remaining backlog"`
	ScopeGrowth string    `json:"scope_growth,omitempty" jsonschema:"per-period scope growth: 'calculated', a number, or empty for none"`
}

type percentileRow struct {
	Percentile float64 `json:"percentile"`
	Periods    int     `json:"periods"`
	FinishDate string  `json:"finish_date"`
}

type distributionSummary struct {
	Distribution         string            `json:"distribution"`
	Percentiles          []percentileRow   `json:"percentiles"`
	MilestonePercentiles [][]percentileRow `json:"milestone_percentiles,omitempty"`
	CapHitFraction       float64           `json:"cap_hit_fraction"`
	Warnings             []string          `json:"warnings,omitempty"`
}

type runForecastOutput struct {
	Project          string                `json:"project"`
	Unit             string                `json:"unit"`
	RemainingBacklog float64               `json:"remaining_backlog"`
	Trials           int                   `json:"trials"`
	Results          []distributionSummary `json:"results"`
}

func (s *Server) runForecast(ctx context.Context, req *mcp.CallToolRequest, in runForecastInput) (*mcp.CallToolResult, runForecastOutput, error) {
	snap, err := s.loadByName(ctx, in.Project)
	if err != nil {
		return nil, runForecastOutput{}, err
	}

	trials := in.Trials
	if trials <= 0 {
		trials = s.cfg.DefaultTrialCount
	}

	start := time.Now().UTC()
	if in.PeriodStart != "" {
		start, err = time.Parse(dateLayout, in.PeriodStart)
		if err != nil {
			return nil, runForecastOutput{}, fmt.Errorf("invalid period_start %q: %w", in.PeriodStart, err)
		}
	}

	growth := forecast.ResolveScopeGrowth(
		in.ScopeGrowth != "",
		growthMode(in.ScopeGrowth),
		in.ScopeGrowth,
		forecast.AverageScopeGrowth(snap.Periods),
	)

	cfg := forecast.SimulationConfig{
		RemainingBacklog:     snap.Project.RemainingBacklog,
		PeriodStart:          start,
		TrialCount:           trials,
		PeriodLengthDays:     snap.Project.PeriodLengthDays,
		ScopeGrowthPerPeriod: growth,
		Milestones:           in.Milestones,
		Adjustments:          snap.Adjustments,
		CustomPercentile:     in.Percentile,
	}

	engine := forecast.NewEngine()
	if in.Seed != nil {
		engine.SetSeed(*in.Seed)
	}
	if s.cfg.Workers > 0 {
		engine.SetWorkers(s.cfg.Workers)
	}

	specs := forecast.DefaultSpecs(snap.VelocityStats(), snap.BootstrapSamples())
	results, err := engine.Run(cfg, specs)
	if err != nil {
		return nil, runForecastOutput{}, err
	}

	out := runForecastOutput{
		Project:          snap.Project.Name,
		Unit:             snap.Project.Unit,
		RemainingBacklog: snap.Project.RemainingBacklog,
		Trials:           trials,
	}
	labels := make([]string, 0, len(results))
	for label := range results {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		out.Results = append(out.Results, summarize(results[label]))
	}
	return nil, out, nil
}

type periodInput struct {
	Number             int      `json:"number"`
	Throughput         float64  `json:"throughput"`
	IncludedInBaseline bool     `json:"included_in_baseline"`
	BacklogRemaining   *float64 `json:"backlog_remaining,omitempty"`
}

type addPeriodRecordsInput struct {
	Project string        `json:"project"`
	Periods []periodInput `json:"periods"`
}

type addPeriodRecordsOutput struct {
	Project      string `json:"project"`
	TotalPeriods int    `json:"total_periods"`
}

func (s *Server) addPeriodRecords(ctx context.Context, req *mcp.CallToolRequest, in addPeriodRecordsInput) (*mcp.CallToolResult, addPeriodRecordsOutput, error) {
	snap, err := s.loadByName(ctx, in.Project)
	if err != nil {
		return nil, addPeriodRecordsOutput{}, err
	}
	if len(in.Periods) == 0 {
		return nil, addPeriodRecordsOutput{}, fmt.Errorf("%w: no periods given", project.ErrInvalidInput)
	}

	records := make([]forecast.PeriodRecord, 0, len(in.Periods))
	for _, p := range in.Periods {
		records = append(records, forecast.PeriodRecord{
			Number:             p.Number,
			Throughput:         p.Throughput,
			IncludedInBaseline: p.IncludedInBaseline,
			BacklogRemaining:   p.BacklogRemaining,
		})
	}
	if err := s.store.AppendPeriods(ctx, snap.Project.ID, records); err != nil {
		return nil, addPeriodRecordsOutput{}, err
	}

	all, err := s.store.GetPeriods(ctx, snap.Project.ID)
	if err != nil {
		return nil, addPeriodRecordsOutput{}, err
	}
	return nil, addPeriodRecordsOutput{Project: snap.Project.Name, TotalPeriods: len(all)}, nil
}

type adjustmentInput struct {
	Start   string  `json:"start" jsonschema:"first affected day as YYYY-MM-DD"`
	End     string  `json:"end" jsonschema:"last affected day as YYYY-MM-DD, inclusive"`
	Factor  float64 `json:"factor" jsonschema:"capacity multiplier in [0,1]"`
	Enabled bool    `json:"enabled"`
}

type setAdjustmentsInput struct {
	Project     string            `json:"project"`
	Adjustments []adjustmentInput `json:"adjustments"`
}

type setAdjustmentsOutput struct {
	Project     string `json:"project"`
	Adjustments int    `json:"adjustments"`
}

func (s *Server) setProductivityAdjustments(ctx context.Context, req *mcp.CallToolRequest, in setAdjustmentsInput) (*mcp.CallToolResult, setAdjustmentsOutput, error) {
	snap, err := s.loadByName(ctx, in.Project)
	if err != nil {
		return nil, setAdjustmentsOutput{}, err
	}

	adjustments := make([]forecast.ProductivityAdjustment, 0, len(in.Adjustments))
	for i, a := range in.Adjustments {
		start, err := time.Parse(dateLayout, a.Start)
		if err != nil {
			return nil, setAdjustmentsOutput{}, fmt.Errorf("adjustment %d: invalid start %q: %w", i, a.Start, err)
		}
		end, err := time.Parse(dateLayout, a.End)
		if err != nil {
			return nil, setAdjustmentsOutput{}, fmt.Errorf("adjustment %d: invalid end %q: %w", i, a.End, err)
		}
		if end.Before(start) {
			return nil, setAdjustmentsOutput{}, fmt.Errorf("%w: adjustment %d ends before it starts", project.ErrInvalidInput, i)
		}
		if a.Factor < 0 || a.Factor > 1 {
			return nil, setAdjustmentsOutput{}, fmt.Errorf("%w: adjustment %d factor must be in [0,1]", project.ErrInvalidInput, i)
		}
		adjustments = append(adjustments, forecast.ProductivityAdjustment{
			Start:   start,
			End:     end,
			Factor:  a.Factor,
			Enabled: a.Enabled,
		})
	}

	if err := s.store.ReplaceAdjustments(ctx, snap.Project.ID, adjustments); err != nil {
		return nil, setAdjustmentsOutput{}, err
	}
	return nil, setAdjustmentsOutput{Project: snap.Project.Name, Adjustments: len(adjustments)}, nil
}

func (s *Server) loadByName(ctx context.Context, name string) (*project.Snapshot, error) {
	if name == "" {
		return nil, fmt.Errorf("%w: project name is required", project.ErrInvalidInput)
	}
	p, err := s.store.GetProjectByName(ctx, name)
	if err != nil {
		return nil, err
	}
	return project.LoadSnapshot(ctx, s.store, p.ID)
}

func growthMode(raw string) forecast.GrowthMode {
	if raw == string(forecast.GrowthCalculated) {
		return forecast.GrowthCalculated
	}
	return forecast.GrowthCustom
}

func summarize(f forecast.DistributionForecast) distributionSummary {
	sum := distributionSummary{
		Distribution:   f.Label,
		Percentiles:    percentileRows(f.Percentiles),
		CapHitFraction: f.CapHitFraction,
		Warnings:       f.Warnings,
	}
	for _, series := range f.MilestonePercentiles {
		sum.MilestonePercentiles = append(sum.MilestonePercentiles, percentileRows(series))
	}
	return sum
}

func percentileRows(results []forecast.PercentileResult) []percentileRow {
	rows := make([]percentileRow, 0, len(results))
	for _, r := range results {
		rows = append(rows, percentileRow{
			Percentile: r.Percentile,
			Periods:    r.Periods,
			FinishDate: r.FinishDate.Format(dateLayout),
		})
	}
	return rows
}
