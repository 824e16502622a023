package forecast

import "time"

// ResolveFactor computes the time-weighted productivity multiplier for one
// period. Every working day (Mon-Fri) in [periodStart, periodEnd] gets the
// minimum factor among the enabled adjustments covering it, or 1.0 when none
// do; the period factor is the arithmetic mean over those days. Deterministic
// and independent of the trial randomness, so callers precompute it once per
// period and share it across all trials.
func ResolveFactor(periodStart, periodEnd time.Time, adjustments []ProductivityAdjustment) float64 {
	start := dateOnly(periodStart)
	end := dateOnly(periodEnd)

	sum := 0.0
	days := 0
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if wd := d.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		days++
		sum += dayFactor(d, adjustments)
	}

	if days == 0 {
		return 1.0
	}
	return sum / float64(days)
}

// dayFactor returns the most restrictive enabled factor covering the day.
func dayFactor(day time.Time, adjustments []ProductivityAdjustment) float64 {
	factor := 1.0
	for _, a := range adjustments {
		if !a.Enabled {
			continue
		}
		if day.Before(dateOnly(a.Start)) || day.After(dateOnly(a.End)) {
			continue
		}
		if a.Factor < factor {
			factor = a.Factor
		}
	}
	return factor
}

// dateOnly normalizes to a UTC calendar date so day iteration never drifts
// across DST transitions.
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// precomputeFactors builds the per-period factor array for a run. The array
// stops at the period containing the latest enabled adjustment; the trial
// engine treats missing indexes as 1.0, so unaffected tail periods cost
// nothing regardless of how long a trial runs.
func precomputeFactors(periodStart time.Time, periodLengthDays int, adjustments []ProductivityAdjustment, capPeriods int) []float64 {
	var lastEnd time.Time
	any := false
	for _, a := range adjustments {
		if !a.Enabled {
			continue
		}
		if end := dateOnly(a.End); !any || end.After(lastEnd) {
			lastEnd = end
			any = true
		}
	}
	if !any {
		return nil
	}

	start := dateOnly(periodStart)
	factors := make([]float64, 0, 16)
	for p := 0; p < capPeriods; p++ {
		pStart := start.AddDate(0, 0, p*periodLengthDays)
		if pStart.After(lastEnd) {
			break
		}
		pEnd := pStart.AddDate(0, 0, periodLengthDays-1)
		factors = append(factors, ResolveFactor(pStart, pEnd, adjustments))
	}
	return factors
}
