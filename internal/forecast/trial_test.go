package forecast

import (
	"math/rand"
	"testing"
)

func constantSampler(v float64) Sampler {
	return func() float64 { return v }
}

func TestRunTrial_SimpleBurndown(t *testing.T) {
	outcome := RunTrial(constantSampler(30), 150, nil, nil, nil, 10000)
	if outcome.Periods != 5 {
		t.Errorf("150 backlog at velocity 30: expected 5 periods, got %d", outcome.Periods)
	}
	if outcome.MilestonePeriods != nil {
		t.Errorf("no milestones requested, got %v", outcome.MilestonePeriods)
	}
}

func TestRunTrial_ProductivityFactorHalvesContribution(t *testing.T) {
	// A period fully covered by a 0.5 adjustment contributes half of an
	// unadjusted period with the same sampled velocity.
	unadjusted := RunTrial(constantSampler(10), 100, nil, nil, nil, 10000)
	halved := RunTrial(constantSampler(10), 100, []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5, 0.5}, nil, nil, 10000)

	if unadjusted.Periods != 10 {
		t.Errorf("unadjusted: expected 10 periods, got %d", unadjusted.Periods)
	}
	if halved.Periods != 20 {
		t.Errorf("halved velocity: expected 20 periods, got %d", halved.Periods)
	}
}

func TestRunTrial_MissingFactorIndexIsUnadjusted(t *testing.T) {
	// Only the first period is halved; the rest run at full velocity.
	outcome := RunTrial(constantSampler(10), 100, []float64{0.5}, nil, nil, 10000)
	// Period 1 burns 5, periods 2..10 burn 10 each, 95 done after 10, so 11 total.
	if outcome.Periods != 11 {
		t.Errorf("expected 11 periods, got %d", outcome.Periods)
	}
}

func TestRunTrial_ScopeGrowthExtendsRelease(t *testing.T) {
	growth := 5.0
	outcome := RunTrial(constantSampler(10), 100, nil, &growth, nil, 10000)
	// Net burn is 5 per period until one period's draw clears the rest:
	// remaining at period start is 100-5(p-1), which drops to 10 at p=19.
	if outcome.Periods != 19 {
		t.Errorf("scope growth: expected 19 periods, got %d", outcome.Periods)
	}
}

func TestRunTrial_SafetyCapAlwaysEnforced(t *testing.T) {
	// Growth outpaces velocity: backlog never shrinks.
	growth := 50.0
	outcome := RunTrial(constantSampler(10), 100, nil, &growth, nil, 200)
	if outcome.Periods != 200 {
		t.Errorf("expected safety cap 200, got %d", outcome.Periods)
	}

	// Zero velocity with a zeroed factor is the pathological floor.
	outcome = RunTrial(constantSampler(0), 100, []float64{0}, nil, nil, 50)
	if outcome.Periods != 50 {
		t.Errorf("expected safety cap 50, got %d", outcome.Periods)
	}
}

func TestRunTrial_MilestonesMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	sampler, err := NewSampler(DistributionSpec{Kind: TruncatedNormal, Mean: 12, StdDev: 6}, rng)
	if err != nil {
		t.Fatalf("NewSampler: %v", err)
	}

	for i := 0; i < 1000; i++ {
		outcome := RunTrial(sampler, 100, nil, nil, []float64{50, 100}, 10000)
		if len(outcome.MilestonePeriods) != 2 {
			t.Fatalf("expected 2 milestone periods, got %v", outcome.MilestonePeriods)
		}
		first, last := outcome.MilestonePeriods[0], outcome.MilestonePeriods[1]
		if first > last {
			t.Fatalf("trial %d: milestone order violated: %d > %d", i, first, last)
		}
		if last != outcome.Periods {
			t.Fatalf("trial %d: final milestone %d must match trial periods %d", i, last, outcome.Periods)
		}
	}
}

func TestRunTrial_MilestonesCrossedSamePeriod(t *testing.T) {
	// One giant draw crosses both thresholds in period 1.
	outcome := RunTrial(constantSampler(500), 100, nil, nil, []float64{50, 100}, 10000)
	if outcome.MilestonePeriods[0] != 1 || outcome.MilestonePeriods[1] != 1 {
		t.Errorf("expected both milestones in period 1, got %v", outcome.MilestonePeriods)
	}
}

func TestRunTrial_CappedTrialPinsUnreachedMilestones(t *testing.T) {
	outcome := RunTrial(constantSampler(0), 100, nil, nil, []float64{50, 100}, 30)
	if outcome.Periods != 30 {
		t.Errorf("expected cap 30, got %d", outcome.Periods)
	}
	for i, p := range outcome.MilestonePeriods {
		if p != 30 {
			t.Errorf("milestone %d: expected cap 30, got %d", i, p)
		}
	}
}
