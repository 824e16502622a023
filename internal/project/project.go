package project

import (
	"time"

	"burncast/internal/forecast"
)

// Project is a forecastable body of work with its historical cadence data.
type Project struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Unit             string    `json:"unit"` // e.g. "points", "items", "hours"
	PeriodLengthDays int       `json:"period_length_days"`
	RemainingBacklog float64   `json:"remaining_backlog"`
	CreatedAt        time.Time `json:"created_at"`
}

// Snapshot bundles a project with everything a forecast run reads.
type Snapshot struct {
	Project     Project                           `json:"project"`
	Periods     []forecast.PeriodRecord           `json:"periods"`
	Adjustments []forecast.ProductivityAdjustment `json:"adjustments"`
}

// VelocityStats derives the baseline throughput statistics for the snapshot.
func (s Snapshot) VelocityStats() forecast.VelocityStats {
	return forecast.ComputeVelocityStats(s.Periods)
}

// BootstrapSamples returns the baseline throughput values for the bootstrap
// distribution, in period order.
func (s Snapshot) BootstrapSamples() []float64 {
	var samples []float64
	for _, p := range s.Periods {
		if p.IncludedInBaseline {
			samples = append(samples, p.Throughput)
		}
	}
	return samples
}
