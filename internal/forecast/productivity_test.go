package forecast

import (
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestResolveFactor_NoAdjustments(t *testing.T) {
	// 2026-01-05 is a Monday.
	got := ResolveFactor(day(2026, time.January, 5), day(2026, time.January, 16), nil)
	if got != 1.0 {
		t.Errorf("expected 1.0 with no adjustments, got %v", got)
	}
}

func TestResolveFactor_FullCoverage(t *testing.T) {
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 1), End: day(2026, time.January, 31), Factor: 0.5, Enabled: true},
	}
	got := ResolveFactor(day(2026, time.January, 5), day(2026, time.January, 16), adj)
	if got != 0.5 {
		t.Errorf("fully covered period: expected 0.5, got %v", got)
	}
}

func TestResolveFactor_OverlapUsesMinimum(t *testing.T) {
	// Both adjustments cover the whole period; the 0.3 one wins every day.
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 1), End: day(2026, time.January, 31), Factor: 0.5, Enabled: true},
		{Start: day(2026, time.January, 1), End: day(2026, time.January, 31), Factor: 0.3, Enabled: true},
	}
	got := ResolveFactor(day(2026, time.January, 5), day(2026, time.January, 9), adj)
	if got != 0.3 {
		t.Errorf("overlapping adjustments: expected min factor 0.3, got %v", got)
	}
}

func TestResolveFactor_PartialCoverage(t *testing.T) {
	// Mon 5th through Fri 9th: adjustment covers Mon-Tue only.
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 5), End: day(2026, time.January, 6), Factor: 0.0, Enabled: true},
	}
	got := ResolveFactor(day(2026, time.January, 5), day(2026, time.January, 9), adj)
	want := (0.0 + 0.0 + 1.0 + 1.0 + 1.0) / 5.0
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("partial coverage: expected %v, got %v", want, got)
	}
}

func TestResolveFactor_DisabledIgnored(t *testing.T) {
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 1), End: day(2026, time.January, 31), Factor: 0.2, Enabled: false},
	}
	got := ResolveFactor(day(2026, time.January, 5), day(2026, time.January, 9), adj)
	if got != 1.0 {
		t.Errorf("disabled adjustment should not apply, got %v", got)
	}
}

func TestResolveFactor_WeekendOnlyPeriod(t *testing.T) {
	// Sat 10th and Sun 11th hold zero working days.
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 1), End: day(2026, time.January, 31), Factor: 0.1, Enabled: true},
	}
	got := ResolveFactor(day(2026, time.January, 10), day(2026, time.January, 11), adj)
	if got != 1.0 {
		t.Errorf("weekend-only period: expected 1.0, got %v", got)
	}
}

func TestPrecomputeFactors_StopsAfterLastAdjustment(t *testing.T) {
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 5), End: day(2026, time.January, 18), Factor: 0.5, Enabled: true},
	}
	factors := precomputeFactors(day(2026, time.January, 5), 14, adj, 10000)

	if len(factors) == 0 {
		t.Fatal("expected at least one precomputed factor")
	}
	if len(factors) > 2 {
		t.Errorf("factor array should stop near the last adjustment, got %d entries", len(factors))
	}
	if factors[0] != 0.5 {
		t.Errorf("first period fully covered: expected 0.5, got %v", factors[0])
	}
}

func TestPrecomputeFactors_NoEnabledAdjustments(t *testing.T) {
	adj := []ProductivityAdjustment{
		{Start: day(2026, time.January, 5), End: day(2026, time.January, 18), Factor: 0.5, Enabled: false},
	}
	if factors := precomputeFactors(day(2026, time.January, 5), 14, adj, 10000); factors != nil {
		t.Errorf("expected nil factor array, got %v", factors)
	}
}
