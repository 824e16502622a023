package reporting

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteTable renders the report as a human-readable console table.
func WriteTable(w io.Writer, report Report) error {
	if _, err := fmt.Fprintf(w, "Forecast for %s (generated %s)\n", report.Project, report.GeneratedAt.Format("2006-01-02 15:04")); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Distribution", "Series", "Percentile", "Periods", "Finish Date"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, row := range report.Rows() {
		data = append(data, []string{
			row.Distribution,
			row.Series,
			fmt.Sprintf("P%g", row.Percentile),
			strconv.Itoa(row.Periods),
			row.FinishDate.Format("2006-01-02"),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, warning := range report.Warnings() {
		if _, err := fmt.Fprintf(w, "Warning: %s\n", warning); err != nil {
			return err
		}
	}
	return nil
}
