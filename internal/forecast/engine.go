package forecast

import (
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

// FixedPercentiles are always produced for every distribution and milestone.
var FixedPercentiles = []float64{50, 60, 70, 80, 90}

// MinBootstrapSamples is the smallest historical sample the bootstrap
// variant accepts before it is omitted from a run.
const MinBootstrapSamples = 1

// Engine orchestrates a multi-distribution Monte Carlo run. Trials are
// independent, so the engine fans them out across workers with per-worker
// samplers writing to disjoint output slots; no locking is needed.
type Engine struct {
	seed     int64
	workers  int
	progress func(completed int)
}

func NewEngine() *Engine {
	return &Engine{
		seed:    time.Now().UnixNano(),
		workers: runtime.NumCPU(),
	}
}

// SetSeed fixes the base seed so a run is reproducible for a given worker count.
func (e *Engine) SetSeed(seed int64) {
	e.seed = seed
}

// SetWorkers overrides the trial-loop parallelism.
func (e *Engine) SetWorkers(n int) {
	if n > 0 {
		e.workers = n
	}
}

// SetProgress registers a callback receiving incremental completed-trial
// counts. It may be invoked from multiple goroutines.
func (e *Engine) SetProgress(fn func(completed int)) {
	e.progress = fn
}

// Run executes cfg.TrialCount trials per distribution and aggregates each
// collection into percentile statistics. Distributions whose preconditions
// are unmet are omitted from the result, never fatal.
func (e *Engine) Run(cfg SimulationConfig, specs []DistributionSpec) (map[string]DistributionForecast, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	capPeriods := cfg.safetyCap()
	factors := precomputeFactors(cfg.PeriodStart, cfg.PeriodLengthDays, cfg.Adjustments, capPeriods)

	results := make(map[string]DistributionForecast, len(specs))
	for i, spec := range specs {
		if spec.Kind == Bootstrap && len(spec.Samples) < MinBootstrapSamples {
			log.Warn().
				Str("distribution", spec.Label()).
				Int("samples", len(spec.Samples)).
				Msg("Distribution precondition unmet, omitting from run")
			continue
		}

		forecast, err := e.runDistribution(cfg, spec, int64(i), factors, capPeriods)
		if err != nil {
			log.Warn().Err(err).
				Str("distribution", spec.Label()).
				Msg("Distribution precondition unmet, omitting from run")
			continue
		}
		results[spec.Label()] = forecast
	}
	return results, nil
}

func (e *Engine) runDistribution(cfg SimulationConfig, spec DistributionSpec, specOffset int64, factors []float64, capPeriods int) (DistributionForecast, error) {
	// Probe sampler construction once up front so a broken spec is rejected
	// before any worker starts.
	if _, err := NewSampler(spec, rand.New(rand.NewSource(e.seed))); err != nil {
		return DistributionForecast{}, err
	}

	trials := make([]int, cfg.TrialCount)
	var milestoneTrials [][]int
	if len(cfg.Milestones) > 0 {
		milestoneTrials = make([][]int, len(cfg.Milestones))
		for i := range milestoneTrials {
			milestoneTrials[i] = make([]int, cfg.TrialCount)
		}
	}

	workers := e.workers
	if workers < 1 {
		workers = 1
	}
	if workers > cfg.TrialCount {
		workers = cfg.TrialCount
	}
	chunk := (cfg.TrialCount + workers - 1) / workers

	var g errgroup.Group
	for w := 0; w < workers; w++ {
		start := w * chunk
		end := start + chunk
		if end > cfg.TrialCount {
			end = cfg.TrialCount
		}
		if start >= end {
			break
		}

		workerSeed := e.seed + specOffset*1_000_003 + int64(w)*7_919
		g.Go(func() error {
			rng := rand.New(rand.NewSource(workerSeed))
			sampler, err := NewSampler(spec, rng)
			if err != nil {
				return err
			}
			for i := start; i < end; i++ {
				outcome := RunTrial(sampler, cfg.RemainingBacklog, factors, cfg.ScopeGrowthPerPeriod, cfg.Milestones, capPeriods)
				trials[i] = outcome.Periods
				for m, p := range outcome.MilestonePeriods {
					milestoneTrials[m][i] = p
				}
			}
			if e.progress != nil {
				e.progress(end - start)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DistributionForecast{}, err
	}

	forecast := DistributionForecast{
		Label:           spec.Label(),
		Trials:          trials,
		MilestoneTrials: milestoneTrials,
		Warnings:        degradedPrecisionWarnings(spec),
	}

	forecast.Percentiles = e.aggregate(cfg, trials)
	for _, series := range milestoneTrials {
		forecast.MilestonePercentiles = append(forecast.MilestonePercentiles, e.aggregate(cfg, series))
	}

	capHits := 0
	for _, p := range trials {
		if p >= capPeriods {
			capHits++
		}
	}
	forecast.CapHitFraction = float64(capHits) / float64(cfg.TrialCount)
	if capHits > 0 {
		forecast.Warnings = append(forecast.Warnings, fmt.Sprintf(
			"%.1f%% of trials hit the safety cap of %d periods; the forecast did not converge for those trials",
			forecast.CapHitFraction*100, capPeriods))
	}

	return forecast, nil
}

// aggregate sorts a completed trial series and produces the fixed percentile
// set plus the caller's custom percentile. Period counts round up: a partial
// period still has to be worked.
func (e *Engine) aggregate(cfg SimulationConfig, series []int) []PercentileResult {
	sorted := make([]int, len(series))
	copy(sorted, series)
	sort.Ints(sorted)

	ps := append([]float64(nil), FixedPercentiles...)
	if cfg.CustomPercentile > 0 {
		ps = append(ps, clampPercentile(cfg.CustomPercentile))
	}

	start := dateOnly(cfg.PeriodStart)
	results := make([]PercentileResult, 0, len(ps))
	for _, p := range ps {
		periods := int(math.Ceil(percentileOfInts(sorted, p)))
		results = append(results, PercentileResult{
			Percentile: p,
			Periods:    periods,
			FinishDate: start.AddDate(0, 0, periods*cfg.PeriodLengthDays),
		})
	}
	return results
}

// degradedPrecisionWarnings surfaces sampler parameter fallbacks so the
// caller can tell a clean run from a degraded one.
func degradedPrecisionWarnings(spec DistributionSpec) []string {
	var warnings []string
	switch spec.Kind {
	case Lognormal:
		if spec.Mean <= 0 {
			warnings = append(warnings, "lognormal mean is not positive; fell back to a fixed low-variance distribution")
		}
	case Gamma:
		if spec.Mean <= 0 {
			warnings = append(warnings, "gamma mean is not positive; fell back to a fixed low-variance distribution")
		} else if spec.StdDev <= 0 {
			warnings = append(warnings, "gamma standard deviation is not positive; using a near-deterministic spike at the mean")
		}
	}
	for _, w := range warnings {
		log.Warn().Str("distribution", spec.Label()).Msg(w)
	}
	return warnings
}

func clampPercentile(p float64) float64 {
	if p < 1 {
		return 1
	}
	if p > 99 {
		return 99
	}
	return p
}
