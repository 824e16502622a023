package forecast

import (
	"math"
	"strconv"
)

// ComputeVelocityStats derives mean and sample standard deviation from the
// records flagged as baseline. Excluded records never influence the result.
func ComputeVelocityStats(records []PeriodRecord) VelocityStats {
	var included []float64
	for _, r := range records {
		if r.IncludedInBaseline {
			included = append(included, r.Throughput)
		}
	}

	stats := VelocityStats{Count: len(included)}
	if len(included) == 0 {
		return stats
	}

	sum := 0.0
	for _, v := range included {
		sum += v
	}
	stats.Mean = sum / float64(len(included))

	if len(included) < 2 {
		return stats
	}

	ss := 0.0
	for _, v := range included {
		d := v - stats.Mean
		ss += d * d
	}
	stats.StdDev = math.Sqrt(ss / float64(len(included)-1))
	return stats
}

// AverageScopeGrowth estimates the backlog added per period from consecutive
// end-of-period backlog snapshots. Scope added during period i is the backlog
// delta plus the throughput burned in that period. Returns nil when fewer
// than two consecutive records carry backlog snapshots.
func AverageScopeGrowth(records []PeriodRecord) *float64 {
	sum := 0.0
	pairs := 0
	for i := 1; i < len(records); i++ {
		prev, cur := records[i-1], records[i]
		if prev.BacklogRemaining == nil || cur.BacklogRemaining == nil {
			continue
		}
		sum += *cur.BacklogRemaining - *prev.BacklogRemaining + cur.Throughput
		pairs++
	}
	if pairs == 0 {
		return nil
	}
	avg := sum / float64(pairs)
	return &avg
}

// ResolveScopeGrowth picks the per-period backlog growth scalar. A disabled
// toggle or an unparseable custom value resolves to nil, meaning no growth:
// a bad user input degrades the forecast, it never aborts it.
func ResolveScopeGrowth(enabled bool, mode GrowthMode, customValue string, calculated *float64) *float64 {
	if !enabled {
		return nil
	}
	if mode == GrowthCustom {
		v, err := strconv.ParseFloat(customValue, 64)
		if err != nil {
			return nil
		}
		return &v
	}
	return calculated
}
