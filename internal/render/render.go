// Package render produces the daily HTML page from a run report.
package render

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/newthinker/insiderlog/internal/core"
)

// Renderer renders reports into self-contained HTML pages.
type Renderer struct {
	title    string
	subtitle string
	tmpl     *template.Template
}

// New creates a renderer with the given page title and subtitle.
func New(title, subtitle string) (*Renderer, error) {
	tmpl, err := template.New("report").Funcs(template.FuncMap{
		"dollars": formatDollars,
		"score":   formatScore,
		"pct":     formatPct,
	}).Parse(pageTemplate)
	if err != nil {
		return nil, err
	}
	return &Renderer{title: title, subtitle: subtitle, tmpl: tmpl}, nil
}

type pageData struct {
	Title    string
	Subtitle string
	Report   core.Report
	Band     string
}

// Render produces the HTML page for one report. Quiet runs render a
// page too; silence is information.
func (r *Renderer) Render(report core.Report) ([]byte, error) {
	var buf bytes.Buffer
	err := r.tmpl.Execute(&buf, pageData{
		Title:    r.title,
		Subtitle: r.subtitle,
		Report:   report,
		Band:     bandLabel(report.Pulse.Band),
	})
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func bandLabel(b core.ActivityBand) string {
	switch b {
	case core.BandAccelerating:
		return "Accelerating insider activity"
	case core.BandBroad:
		return "Broad insider activity"
	case core.BandSelective:
		return "Selective insider activity"
	default:
		return "Muted insider activity"
	}
}

func formatDollars(v float64) string {
	s := fmt.Sprintf("%.0f", v)
	var out []string
	for len(s) > 3 {
		out = append([]string{s[len(s)-3:]}, out...)
		s = s[:len(s)-3]
	}
	out = append([]string{s}, out...)
	return "$" + strings.Join(out, ",")
}

func formatScore(v float64) string {
	return fmt.Sprintf("%.1f", v)
}

func formatPct(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
  body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; max-width: 860px; margin: 0 auto; padding: 2rem 1rem; color: #1a1a2e; }
  h1 { margin-bottom: 0.2rem; }
  .subtitle { color: #666; margin-top: 0; }
  .meta { color: #888; font-size: 0.85rem; }
  .band { font-weight: 600; margin: 1rem 0; }
  table { border-collapse: collapse; width: 100%; margin: 0.75rem 0 1.5rem; }
  th, td { text-align: left; padding: 0.4rem 0.6rem; border-bottom: 1px solid #e3e3e8; font-size: 0.9rem; }
  th { color: #555; font-weight: 600; }
  .score { font-weight: 700; }
  .quiet { background: #f6f6fa; padding: 1rem; border-radius: 8px; }
  .commentary { border-left: 3px solid #4a4e69; padding-left: 1rem; margin: 1.5rem 0; }
</style>
</head>
<body>
<h1>{{.Title}}</h1>
<p class="subtitle">{{.Subtitle}}</p>
<p class="meta">Generated {{.Report.GeneratedAt.Format "2006-01-02 15:04 MST"}} &middot; lookback {{.Report.LookbackHours}}h &middot; run {{.Report.RunID}}</p>

{{if .Report.Empty}}
<div class="quiet">
  <p>No qualifying insider purchases in the last {{.Report.LookbackHours}} hours.</p>
  {{if gt .Report.QuietStreak 1}}<p>That makes {{.Report.QuietStreak}} quiet runs in a row.</p>{{end}}
</div>
{{else}}
<p class="band">{{.Band}}: {{.Report.Pulse.InsiderCount}} insider(s), {{dollars .Report.Pulse.TotalDollars}} total{{if .Report.Pulse.DominantSector}}, concentrated in {{.Report.Pulse.DominantSector}}{{end}}.</p>

{{if .Report.Clusters}}
<h2>Clustered buying</h2>
<table>
  <tr><th>Ticker</th><th>Insiders</th><th>Total</th><th>Top role</th><th>Conviction</th></tr>
  {{range .Report.Clusters}}
  <tr>
    <td>{{.Cluster.Ticker}}</td>
    <td>{{.Cluster.MemberCount}}</td>
    <td>{{dollars .Cluster.TotalDollars}}</td>
    <td>{{.TopTier}}</td>
    <td class="score">{{score .Score.Total}}/10{{if .Score.Bonus}} &#9733;{{end}}</td>
  </tr>
  {{end}}
</table>
{{end}}

{{if .Report.NotableBuys}}
<h2>Notable single buys</h2>
<table>
  <tr><th>Ticker</th><th>Insider</th><th>Role</th><th>Value</th><th>Date</th></tr>
  {{range .Report.NotableBuys}}
  <tr><td>{{.Ticker}}</td><td>{{.OwnerName}}</td><td>{{.OwnerRole}}</td><td>{{dollars .DollarValue}}</td><td>{{.Date}}</td></tr>
  {{end}}
</table>
{{end}}

{{if .Report.Unclustered}}
<h2>Buys without a listed ticker</h2>
<table>
  <tr><th>Issuer</th><th>Insider</th><th>Role</th><th>Value</th><th>Date</th></tr>
  {{range .Report.Unclustered}}
  <tr><td>{{.IssuerName}}</td><td>{{.OwnerName}}</td><td>{{.OwnerRole}}</td><td>{{dollars .DollarValue}}</td><td>{{.Date}}</td></tr>
  {{end}}
</table>
{{end}}

{{if .Report.AnalystSignals}}
<h2>Analyst target raises</h2>
<table>
  <tr><th>Ticker</th><th>Analyst</th><th>Target</th><th>Raise</th><th>Rating</th></tr>
  {{range .Report.AnalystSignals}}
  <tr>
    <td>{{.Ticker}}</td>
    <td>{{.Analyst}}</td>
    <td>{{dollars .OldTarget}} &rarr; {{dollars .NewTarget}}</td>
    <td>{{pct .PctIncrease}}</td>
    <td>{{if .RatingPrior}}{{.RatingPrior}} &rarr; {{end}}{{.RatingCurrent}}</td>
  </tr>
  {{end}}
</table>
{{end}}
{{end}}

{{if .Report.Commentary}}
<div class="commentary"><p>{{.Report.Commentary}}</p></div>
{{end}}

</body>
</html>
`
