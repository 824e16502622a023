package reporting

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"burncast/internal/forecast"
)

func sampleReport() Report {
	start := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	return Report{
		Project:     "apollo",
		Unit:        "points",
		GeneratedAt: time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC),
		Config: forecast.SimulationConfig{
			RemainingBacklog: 100,
			PeriodStart:      start,
			TrialCount:       1000,
			PeriodLengthDays: 14,
			Milestones:       []float64{50, 100},
		},
		Results: map[string]forecast.DistributionForecast{
			"uniform": {
				Label: "uniform",
				Percentiles: []forecast.PercentileResult{
					{Percentile: 50, Periods: 5, FinishDate: start.AddDate(0, 0, 70)},
					{Percentile: 90, Periods: 7, FinishDate: start.AddDate(0, 0, 98)},
				},
				MilestonePercentiles: [][]forecast.PercentileResult{
					{{Percentile: 50, Periods: 3, FinishDate: start.AddDate(0, 0, 42)}},
					{{Percentile: 50, Periods: 5, FinishDate: start.AddDate(0, 0, 70)}},
				},
				Warnings: []string{"something degraded"},
			},
			"bootstrap": {
				Label: "bootstrap",
				Percentiles: []forecast.PercentileResult{
					{Percentile: 50, Periods: 6, FinishDate: start.AddDate(0, 0, 84)},
				},
			},
		},
	}
}

func TestReport_RowsDeterministicOrder(t *testing.T) {
	rows := sampleReport().Rows()
	if len(rows) != 5 {
		t.Fatalf("expected 5 rows, got %d", len(rows))
	}
	// bootstrap sorts before uniform.
	if rows[0].Distribution != "bootstrap" {
		t.Errorf("expected bootstrap first, got %s", rows[0].Distribution)
	}
	if rows[1].Distribution != "uniform" || rows[1].Series != "release" {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
	if !strings.HasPrefix(rows[3].Series, "milestone 1") {
		t.Errorf("expected milestone 1 series, got %q", rows[3].Series)
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 6 {
		t.Fatalf("expected header + 5 rows, got %d lines", len(lines))
	}
	if lines[0] != "distribution,series,percentile,periods,finish_date" {
		t.Errorf("unexpected header: %q", lines[0])
	}
	if !strings.Contains(buf.String(), "uniform,release,50,5,2026-05-11") {
		t.Errorf("missing expected row in:\n%s", buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteTable(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Forecast for apollo") {
		t.Error("missing report title")
	}
	if !strings.Contains(out, "P50") || !strings.Contains(out, "P90") {
		t.Error("missing percentile rows")
	}
	if !strings.Contains(out, "Warning: uniform: something degraded") {
		t.Error("missing warning")
	}
}

func TestWriteHTML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteHTML(&buf, sampleReport()); err != nil {
		t.Fatalf("WriteHTML: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<title>Forecast: apollo</title>") {
		t.Error("missing title")
	}
	if !strings.Contains(out, "2026-05-11") {
		t.Error("missing finish date")
	}
	if !strings.Contains(out, "something degraded") {
		t.Error("missing warning")
	}
}
