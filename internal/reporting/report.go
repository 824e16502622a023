package reporting

import (
	"fmt"
	"sort"
	"time"

	"burncast/internal/forecast"
)

// Report bundles one simulation run with enough context to render it.
type Report struct {
	Project     string
	Unit        string
	GeneratedAt time.Time
	Config      forecast.SimulationConfig
	Results     map[string]forecast.DistributionForecast
}

// Row is one rendered percentile line.
type Row struct {
	Distribution string
	Series       string
	Percentile   float64
	Periods      int
	FinishDate   time.Time
}

// Labels returns the distribution labels in deterministic order.
func (r Report) Labels() []string {
	labels := make([]string, 0, len(r.Results))
	for l := range r.Results {
		labels = append(labels, l)
	}
	sort.Strings(labels)
	return labels
}

// Rows flattens every distribution's release and milestone percentiles.
func (r Report) Rows() []Row {
	var rows []Row
	for _, label := range r.Labels() {
		fc := r.Results[label]
		for _, p := range fc.Percentiles {
			rows = append(rows, Row{Distribution: label, Series: "release", Percentile: p.Percentile, Periods: p.Periods, FinishDate: p.FinishDate})
		}
		for m, series := range fc.MilestonePercentiles {
			name := fmt.Sprintf("milestone %d (%.0f %s)", m+1, r.Config.Milestones[m], r.Unit)
			for _, p := range series {
				rows = append(rows, Row{Distribution: label, Series: name, Percentile: p.Percentile, Periods: p.Periods, FinishDate: p.FinishDate})
			}
		}
	}
	return rows
}

// Warnings collects per-distribution warnings, prefixed with their label.
func (r Report) Warnings() []string {
	var out []string
	for _, label := range r.Labels() {
		for _, w := range r.Results[label].Warnings {
			out = append(out, fmt.Sprintf("%s: %s", label, w))
		}
	}
	return out
}
