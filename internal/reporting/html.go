package reporting

import (
	"fmt"
	"html/template"
	"io"
)

var htmlTemplate = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Forecast: {{.Project}}</title>
<style>
body { font-family: sans-serif; margin: 2rem; color: #222; }
table { border-collapse: collapse; margin-bottom: 2rem; }
th, td { border: 1px solid #ccc; padding: 0.4rem 0.8rem; text-align: right; }
th { background: #f0f0f0; }
td:first-child, th:first-child { text-align: left; }
.warning { color: #a33; }
</style>
</head>
<body>
<h1>Forecast: {{.Project}}</h1>
<p>Generated {{.GeneratedAt.Format "2006-01-02 15:04"}} &middot; backlog {{.Config.RemainingBacklog}} {{.Unit}} &middot; {{.Config.TrialCount}} trials per distribution &middot; {{.Config.PeriodLengthDays}}-day periods</p>
{{range .Warnings}}<p class="warning">{{.}}</p>
{{end}}
<table>
<tr><th>Distribution</th><th>Series</th><th>Percentile</th><th>Periods</th><th>Finish Date</th></tr>
{{range .Rows}}<tr><td>{{.Distribution}}</td><td>{{.Series}}</td><td>P{{.Percentile}}</td><td>{{.Periods}}</td><td>{{.FinishDate.Format "2006-01-02"}}</td></tr>
{{end}}
</table>
</body>
</html>
`))

// WriteHTML renders a self-contained HTML report.
func WriteHTML(w io.Writer, report Report) error {
	if err := htmlTemplate.Execute(w, report); err != nil {
		return fmt.Errorf("render html report: %w", err)
	}
	return nil
}
