package forecast

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"github.com/rs/zerolog/log"
)

// Sampler draws one non-negative velocity value per call. Samplers carry no
// mutable state other than the random source handed to the factory, so a
// fresh sampler per worker is enough to parallelize trials.
type Sampler func() float64

// ErrEmptyBootstrap is returned when a bootstrap spec carries no samples.
// The variant is not constructible; callers fall back to another distribution.
var ErrEmptyBootstrap = errors.New("bootstrap requires a non-empty historical sample")

// truncNormalMaxAttempts caps rejection sampling before degrading to a
// fixed value just above the lower bound.
const truncNormalMaxAttempts = 1000

// NewSampler builds a sampler for the given spec against an explicit random
// source. The source is threaded through instead of the global RNG so tests
// can seed deterministically.
func NewSampler(spec DistributionSpec, rng *rand.Rand) (Sampler, error) {
	switch spec.Kind {
	case TruncatedNormal:
		return newTruncatedNormal(spec.Mean, spec.StdDev, 0, rng), nil
	case Lognormal:
		return newLognormal(spec.Mean, spec.StdDev, rng), nil
	case Gamma:
		return newGamma(spec.Mean, spec.StdDev, rng), nil
	case Bootstrap:
		if len(spec.Samples) == 0 {
			return nil, ErrEmptyBootstrap
		}
		samples := append([]float64(nil), spec.Samples...)
		return func() float64 {
			v := samples[rng.Intn(len(samples))]
			if v < 0 {
				return 0
			}
			return v
		}, nil
	case Triangular:
		return newTriangular(spec.Low, spec.Mode, spec.High, rng), nil
	case Uniform:
		return newUniform(spec.Low, spec.High, rng), nil
	default:
		return nil, fmt.Errorf("unknown distribution kind %q", spec.Kind)
	}
}

// newTruncatedNormal rejection-samples Normal(mean, stdDev) until a draw
// clears the lower bound. Exhaustion returns lowerBound+0.1 and logs a
// degraded-precision warning once per sampler.
func newTruncatedNormal(mean, stdDev, lowerBound float64, rng *rand.Rand) Sampler {
	var warnOnce sync.Once
	return func() float64 {
		for i := 0; i < truncNormalMaxAttempts; i++ {
			v := rng.NormFloat64()*stdDev + mean
			if v >= lowerBound {
				return v
			}
		}
		warnOnce.Do(func() {
			log.Warn().
				Float64("mean", mean).
				Float64("std_dev", stdDev).
				Msg("Truncated normal rejection sampling exhausted; draws degraded to lower bound")
		})
		return lowerBound + 0.1
	}
}

// newLognormal converts a target mean and standard deviation into the
// parameters of the underlying normal, then exponentiates standard draws.
func newLognormal(mean, stdDev float64, rng *rand.Rand) Sampler {
	var muLn, sigmaLn float64
	if mean <= 0 {
		muLn = math.Log(0.1)
		sigmaLn = 0.1
	} else {
		cv := stdDev / mean
		sigma2 := math.Log(1 + cv*cv)
		sigmaLn = math.Sqrt(sigma2)
		muLn = math.Log(mean) - sigma2/2
	}
	return func() float64 {
		return math.Exp(muLn + sigmaLn*rng.NormFloat64())
	}
}

// newGamma converts (mean, stdDev) to shape/scale and samples via
// Marsaglia-Tsang. Shapes below 1 use the boost identity
// Gamma(k) = Gamma(k+1) * U^(1/k).
func newGamma(mean, stdDev float64, rng *rand.Rand) Sampler {
	var shape, scale float64
	switch {
	case mean <= 0:
		shape, scale = 1, 0.1
	case stdDev <= 0:
		// Near-deterministic spike around the mean.
		shape, scale = 100, mean/100
	default:
		r := mean / stdDev
		shape = r * r
		scale = stdDev * stdDev / mean
	}

	return func() float64 {
		return sampleGamma(shape, rng) * scale
	}
}

// sampleGamma draws from Gamma(shape, 1) using Marsaglia-Tsang (2000).
func sampleGamma(shape float64, rng *rand.Rand) float64 {
	if shape < 1 {
		u := rng.Float64()
		for u == 0 {
			u = rng.Float64()
		}
		return sampleGamma(shape+1, rng) * math.Pow(u, 1/shape)
	}

	d := shape - 1.0/3.0
	c := 1 / math.Sqrt(9*d)
	for {
		var x, v float64
		for {
			x = rng.NormFloat64()
			v = 1 + c*x
			if v > 0 {
				break
			}
		}
		v = v * v * v
		u := rng.Float64()
		if u < 1-0.0331*x*x*x*x {
			return d * v
		}
		if math.Log(u) < 0.5*x*x+d*(1-v+math.Log(v)) {
			return d * v
		}
	}
}

// newTriangular draws via the inverse CDF over (low, mode, high) with the
// low end floored at 0. A degenerate range collapses to a point mass.
func newTriangular(low, mode, high float64, rng *rand.Rand) Sampler {
	if low < 0 {
		low = 0
	}
	if high <= low {
		point := math.Max(0, mode)
		return func() float64 { return point }
	}
	// Keep the mode inside the range so the CDF stays well formed.
	mode = math.Min(math.Max(mode, low), high)

	width := high - low
	fc := (mode - low) / width
	return func() float64 {
		u := rng.Float64()
		if u < fc {
			return low + math.Sqrt(u*width*(mode-low))
		}
		return high - math.Sqrt((1-u)*width*(high-mode))
	}
}

// newUniform draws uniformly over [low, high) with the low end floored at 0.
func newUniform(low, high float64, rng *rand.Rand) Sampler {
	if low < 0 {
		low = 0
	}
	if high <= low {
		return func() float64 { return low }
	}
	width := high - low
	return func() float64 {
		return low + rng.Float64()*width
	}
}
