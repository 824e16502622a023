package forecast

// RunTrial simulates one complete release. Each period draws a raw velocity,
// scales it by that period's productivity factor (1.0 past the end of the
// factors array), burns it off the backlog, then injects scope growth when
// configured. With milestones supplied, one trial records the first period
// each cumulative threshold is crossed, so every milestone's outcome comes
// from the same random walk and stays correlated with the others; the loop
// ends when the final (largest) threshold is reached. Without milestones it
// ends when the remaining backlog hits zero.
//
// The safety cap is the only guard against a velocity stream that never
// burns anything down. It is always enforced; the caller surfaces cap hits
// through aggregate statistics rather than treating them as errors.
func RunTrial(sampler Sampler, backlog float64, factors []float64, scopeGrowth *float64, milestones []float64, safetyCap int) TrialOutcome {
	remaining := backlog
	completed := 0.0
	period := 0

	var milestonePeriods []int
	nextMilestone := 0
	if len(milestones) > 0 {
		milestonePeriods = make([]int, len(milestones))
	}

	for {
		period++
		if period > safetyCap {
			period = safetyCap
			break
		}

		velocity := sampler()
		if idx := period - 1; idx < len(factors) {
			velocity *= factors[idx]
		}

		completed += velocity
		remaining -= velocity
		cleared := remaining <= 0
		if remaining < 0 {
			remaining = 0
		}
		if scopeGrowth != nil {
			remaining += *scopeGrowth
		}

		if len(milestones) > 0 {
			for nextMilestone < len(milestones) && completed >= milestones[nextMilestone] {
				milestonePeriods[nextMilestone] = period
				nextMilestone++
			}
			if nextMilestone == len(milestones) {
				break
			}
		} else if cleared {
			// Done the moment a period's burn clears everything that existed
			// at its start. Scope injected during that final period has no
			// later period to land in; checking the post-growth remainder
			// instead would stall any run with positive growth at the cap.
			break
		}
	}

	// A capped trial may leave later milestones unrecorded; pin them to the
	// cap so every slot carries a valid period count.
	for i := nextMilestone; i < len(milestonePeriods); i++ {
		milestonePeriods[i] = safetyCap
	}

	return TrialOutcome{Periods: period, MilestonePeriods: milestonePeriods}
}
