package forecast

// DefaultSpecs builds the standard candidate distribution set from baseline
// throughput statistics. Parametric variants use the moment estimates and the
// range-based variants use the observed sample extremes. Variants whose
// preconditions are unmet (e.g. bootstrap with no samples) are still returned;
// the engine omits them at run time.
func DefaultSpecs(stats VelocityStats, samples []float64) []DistributionSpec {
	specs := []DistributionSpec{
		{Kind: TruncatedNormal, Mean: stats.Mean, StdDev: stats.StdDev},
		{Kind: Lognormal, Mean: stats.Mean, StdDev: stats.StdDev},
		{Kind: Gamma, Mean: stats.Mean, StdDev: stats.StdDev},
		{Kind: Bootstrap, Samples: samples},
	}

	if len(samples) > 0 {
		low, high := samples[0], samples[0]
		for _, s := range samples[1:] {
			if s < low {
				low = s
			}
			if s > high {
				high = s
			}
		}
		specs = append(specs,
			DistributionSpec{Kind: Triangular, Low: low, Mode: stats.Mean, High: high},
			DistributionSpec{Kind: Uniform, Low: low, High: high},
		)
	}
	return specs
}
