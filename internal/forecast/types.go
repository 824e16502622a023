package forecast

import (
	"fmt"
	"time"
)

// PeriodRecord is one completed unit of cadence (typically a sprint).
// The engine only reads these; the surrounding application owns them.
type PeriodRecord struct {
	Number             int      `json:"number"`
	Throughput         float64  `json:"throughput"`
	IncludedInBaseline bool     `json:"included_in_baseline"`
	BacklogRemaining   *float64 `json:"backlog_remaining,omitempty"`
}

// VelocityStats summarizes the baseline throughput history.
type VelocityStats struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// ProductivityAdjustment marks a contiguous date span of changed capacity.
// Start and End are inclusive, date-only. Spans may overlap each other.
type ProductivityAdjustment struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	Factor  float64   `json:"factor"` // in [0,1]
	Enabled bool      `json:"enabled"`
}

// DistributionKind identifies a velocity sampling strategy.
type DistributionKind string

const (
	TruncatedNormal DistributionKind = "truncated_normal"
	Lognormal       DistributionKind = "lognormal"
	Gamma           DistributionKind = "gamma"
	Bootstrap       DistributionKind = "bootstrap"
	Triangular      DistributionKind = "triangular"
	Uniform         DistributionKind = "uniform"
)

// DistributionSpec is a tagged variant describing one candidate velocity
// distribution. Which fields are meaningful depends on Kind:
// TruncatedNormal/Lognormal/Gamma use Mean+StdDev, Bootstrap uses Samples,
// Triangular uses Low/Mode/High, Uniform uses Low/High.
type DistributionSpec struct {
	Kind    DistributionKind `json:"kind"`
	Mean    float64          `json:"mean,omitempty"`
	StdDev  float64          `json:"std_dev,omitempty"`
	Samples []float64        `json:"samples,omitempty"`
	Low     float64          `json:"low,omitempty"`
	Mode    float64          `json:"mode,omitempty"`
	High    float64          `json:"high,omitempty"`
}

// Label returns the stable identifier used to key results for this spec.
func (s DistributionSpec) Label() string {
	return string(s.Kind)
}

// GrowthMode selects where the per-period scope growth value comes from.
type GrowthMode string

const (
	GrowthCalculated GrowthMode = "calculated"
	GrowthCustom     GrowthMode = "custom"
)

// DefaultSafetyCapPeriods bounds a single trial when velocity trends
// toward zero. Reached caps are reported, never silent.
const DefaultSafetyCapPeriods = 10000

// SimulationConfig describes one forecasting run.
type SimulationConfig struct {
	RemainingBacklog     float64                  `json:"remaining_backlog"`
	PeriodStart          time.Time                `json:"period_start"`
	TrialCount           int                      `json:"trial_count"`
	PeriodLengthDays     int                      `json:"period_length_days"`
	ScopeGrowthPerPeriod *float64                 `json:"scope_growth_per_period,omitempty"`
	Milestones           []float64                `json:"milestones,omitempty"`
	Adjustments          []ProductivityAdjustment `json:"adjustments,omitempty"`
	CustomPercentile     float64                  `json:"custom_percentile,omitempty"`
	SafetyCapPeriods     int                      `json:"safety_cap_periods,omitempty"`
}

// TrialOutcome is the result of one simulated release.
type TrialOutcome struct {
	Periods          int
	MilestonePeriods []int
}

// PercentileResult maps one percentile to a period count and calendar date.
type PercentileResult struct {
	Percentile float64   `json:"percentile"`
	Periods    int       `json:"periods"`
	FinishDate time.Time `json:"finish_date"`
}

// DistributionForecast aggregates all trials for one distribution.
type DistributionForecast struct {
	Label                string               `json:"label"`
	Trials               []int                `json:"trials"`
	MilestoneTrials      [][]int              `json:"milestone_trials,omitempty"`
	Percentiles          []PercentileResult   `json:"percentiles"`
	MilestonePercentiles [][]PercentileResult `json:"milestone_percentiles,omitempty"`
	CapHitFraction       float64              `json:"cap_hit_fraction"`
	Warnings             []string             `json:"warnings,omitempty"`
}

// ValidationError reports a configuration that was rejected before simulating.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid simulation config: %s: %s", e.Field, e.Reason)
}

// Validate rejects configurations the engine refuses to simulate.
// Nothing is coerced; the caller fixes the input or does not run.
func (c SimulationConfig) Validate() error {
	if c.RemainingBacklog <= 0 {
		return &ValidationError{Field: "remaining_backlog", Reason: "must be > 0"}
	}
	if c.TrialCount <= 0 {
		return &ValidationError{Field: "trial_count", Reason: "must be > 0"}
	}
	if c.PeriodLengthDays <= 0 {
		return &ValidationError{Field: "period_length_days", Reason: "must be > 0"}
	}
	for i := 1; i < len(c.Milestones); i++ {
		if c.Milestones[i] <= c.Milestones[i-1] {
			return &ValidationError{Field: "milestones", Reason: "thresholds must be strictly increasing"}
		}
	}
	if n := len(c.Milestones); n > 0 {
		last := c.Milestones[n-1]
		if diff := last - c.RemainingBacklog; diff > 1e-9 || diff < -1e-9 {
			return &ValidationError{Field: "milestones", Reason: "last threshold must equal remaining backlog"}
		}
	}
	for i, a := range c.Adjustments {
		if a.End.Before(a.Start) {
			return &ValidationError{Field: "adjustments", Reason: fmt.Sprintf("adjustment %d ends before it starts", i)}
		}
		if a.Factor < 0 || a.Factor > 1 {
			return &ValidationError{Field: "adjustments", Reason: fmt.Sprintf("adjustment %d factor must be in [0,1]", i)}
		}
	}
	return nil
}

// safetyCap returns the configured cap, falling back to the default.
func (c SimulationConfig) safetyCap() int {
	if c.SafetyCapPeriods > 0 {
		return c.SafetyCapPeriods
	}
	return DefaultSafetyCapPeriods
}
