package forecast

import "testing"

func TestDefaultSpecs(t *testing.T) {
	stats := VelocityStats{Count: 3, Mean: 20, StdDev: 5}
	samples := []float64{14, 20, 26}

	specs := DefaultSpecs(stats, samples)
	if len(specs) != 6 {
		t.Fatalf("expected 6 specs, got %d", len(specs))
	}

	byKind := make(map[DistributionKind]DistributionSpec)
	for _, s := range specs {
		byKind[s.Kind] = s
	}
	if s := byKind[TruncatedNormal]; s.Mean != 20 || s.StdDev != 5 {
		t.Errorf("truncated normal params = (%v, %v)", s.Mean, s.StdDev)
	}
	if s := byKind[Bootstrap]; len(s.Samples) != 3 {
		t.Errorf("bootstrap samples = %v", s.Samples)
	}
	if s := byKind[Triangular]; s.Low != 14 || s.Mode != 20 || s.High != 26 {
		t.Errorf("triangular params = (%v, %v, %v)", s.Low, s.Mode, s.High)
	}
	if s := byKind[Uniform]; s.Low != 14 || s.High != 26 {
		t.Errorf("uniform params = (%v, %v)", s.Low, s.High)
	}
}

func TestDefaultSpecsNoSamples(t *testing.T) {
	specs := DefaultSpecs(VelocityStats{}, nil)
	if len(specs) != 4 {
		t.Fatalf("expected 4 specs without samples, got %d", len(specs))
	}
	for _, s := range specs {
		if s.Kind == Triangular || s.Kind == Uniform {
			t.Errorf("range-based spec %s built without samples", s.Kind)
		}
	}
}
