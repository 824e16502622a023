package forecast

import "math"

// Percentile returns the p-th percentile of an ascending-sorted series by
// linear interpolation between order statistics. p is clamped into [0,100].
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if p < 0 {
		p = 0
	} else if p > 100 {
		p = 100
	}

	idx := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))
	if lo == hi {
		return sorted[lo]
	}
	frac := idx - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}

// percentileOfInts runs Percentile over an ascending-sorted integer series.
func percentileOfInts(sorted []int, p float64) float64 {
	floats := make([]float64, len(sorted))
	for i, v := range sorted {
		floats[i] = float64(v)
	}
	return Percentile(floats, p)
}
