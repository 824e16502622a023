package reporting

import (
	"encoding/csv"
	"fmt"
	"io"
)

// WriteCSV renders every percentile row as CSV, one table for the release
// plus one per milestone, distinguished by the series column.
func WriteCSV(w io.Writer, report Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"distribution", "series", "percentile", "periods", "finish_date"}); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range report.Rows() {
		record := []string{
			row.Distribution,
			row.Series,
			fmt.Sprintf("%g", row.Percentile),
			fmt.Sprintf("%d", row.Periods),
			row.FinishDate.Format("2006-01-02"),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
