package report

// PageTemplate is the HTML template for the dashboard page and exports.
// It is embedded as a Go constant; exports set Standalone to drop the form
// and the live-update script.
const PageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>{{.Title}}</title>
{{range .Assets}}<script src="{{.}}"></script>
{{end}}<style>
  :root {
    --bg: #ffffff;
    --text: #1a1a2e;
    --muted: #6b7280;
    --border: #e5e7eb;
    --accent: #1d91c0;
    --red: #dc2626;
    --section-bg: #f8fafc;
  }
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
    color: var(--text);
    background: var(--bg);
    line-height: 1.6;
    max-width: 1200px;
    margin: 0 auto;
    padding: 20px;
  }
  h1, h2, h3 { font-weight: 600; }
  h1 { font-size: 1.6rem; margin-bottom: 4px; color: var(--accent); }
  h2 { font-size: 1.2rem; margin: 24px 0 12px; padding-bottom: 6px; border-bottom: 2px solid var(--accent); }
  .muted { color: var(--muted); font-size: 0.85rem; }

  /* Header */
  .header {
    display: flex;
    justify-content: space-between;
    align-items: flex-start;
    border-bottom: 3px solid var(--accent);
    padding-bottom: 12px;
    margin-bottom: 16px;
  }
  .header-right { text-align: right; }

  /* Controls */
  .controls {
    display: grid;
    grid-template-columns: 1fr 2fr 2fr auto;
    gap: 12px;
    align-items: end;
    background: var(--section-bg);
    padding: 12px;
    border-radius: 8px;
  }
  .controls label { display: block; font-size: 0.75rem; color: var(--muted); text-transform: uppercase; }
  .controls select, .controls input { width: 100%; padding: 6px; border: 1px solid var(--border); border-radius: 4px; }
  .controls button { padding: 8px 18px; background: var(--accent); color: white; border: 0; border-radius: 4px; cursor: pointer; }

  /* Columns */
  .columns { display: grid; grid-template-columns: 1fr 2fr; gap: 20px; }
  @media (max-width: 900px) { .columns { grid-template-columns: 1fr; } .controls { grid-template-columns: 1fr; } }

  /* Tables */
  table { width: 100%; border-collapse: collapse; margin: 8px 0 16px; font-size: 0.9rem; }
  th { background: var(--section-bg); text-align: left; padding: 6px 8px; font-weight: 600; }
  td { padding: 6px 8px; border-bottom: 1px solid var(--border); }
  td.num { text-align: right; font-variant-numeric: tabular-nums; }

  /* Messages */
  .info { background: #e0f2fe; border-left: 5px solid var(--accent); padding: 10px 14px; border-radius: 4px; margin: 12px 0; }
  .error { background: #fef2f2; border-left: 5px solid var(--red); padding: 10px 14px; border-radius: 4px; margin: 12px 0; }

  /* Chart container */
  .chart-container { margin: 12px 0; overflow-x: auto; }
  .chart-container svg { max-width: 100%; height: auto; }

  /* Footer */
  .footer {
    margin-top: 30px;
    padding-top: 12px;
    border-top: 2px solid var(--border);
    font-size: 0.8rem;
    color: var(--muted);
    text-align: center;
  }

  @media print {
    body { max-width: 100%; padding: 10px; }
    .controls { display: none; }
    .section { page-break-inside: avoid; }
  }
</style>
</head>
<body>

<!-- ═══════ HEADER ═══════ -->
<div class="header">
  <div class="header-left">
    <h1>{{.Title}}</h1>
    <p class="muted">{{.DistrictCount}} districts · {{len .Metrics}} metrics</p>
  </div>
  <div class="header-right">
    <p class="muted">{{.GeneratedAt}}</p>
    <p class="muted">charts: {{.RendererName}}</p>
  </div>
</div>

<!-- ═══════ CONTROLS ═══════ -->
{{if not .Standalone}}
<form class="controls" id="controls" method="get" action="/" data-max-selections="{{.MaxSelections}}">
  <div>
    <label for="metric">Parameter</label>
    <select id="metric" name="metric">
      {{range .Metrics}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
      {{end}}
    </select>
  </div>
  <div>
    <label for="district">Districts to compare (max {{.MaxSelections}})</label>
    <select id="district" name="district" multiple size="4">
      {{range .Districts}}<option value="{{.Name}}"{{if .Selected}} selected{{end}}>{{.Name}}</option>
      {{end}}
    </select>
  </div>
  <div>
    <label for="where">Filter (CEL)</label>
    <input id="where" name="where" type="text" value="{{.Filter}}" placeholder='m["Rainfall"] &gt; 200.0'>
  </div>
  <div><button type="submit">Update</button></div>
</form>
{{end}}

{{if .Error}}<div class="error" id="error">{{.Error}}</div>{{end}}

<!-- ═══════ RANKING ═══════ -->
<div class="section columns" id="ranking">
  <div>
    <h2>District Ranking: {{.Metric}}</h2>
    {{if .Filter}}<p class="muted">Filter: <code>{{.Filter}}</code> · showing {{len .RankingRows}} of {{.RankingTotal}}</p>{{end}}
    <table id="ranking-table">
      <thead><tr><th>District</th><th>{{.Metric}}</th><th>Rank</th></tr></thead>
      <tbody>
      {{range .RankingRows}}<tr><td>{{.District}}</td><td class="num" style="background-color: {{.Value.Bg}}; color: {{.Value.Fg}}">{{.Value.Text}}</td><td class="num">{{.Rank}}</td></tr>
      {{end}}
      </tbody>
    </table>
  </div>
  <div>
    <h2>{{.Metric}} by District</h2>
    <div class="chart-container" id="bar-chart">{{.BarChart}}</div>
  </div>
</div>

<!-- ═══════ COMPARISON ═══════ -->
<div class="section" id="comparison">
  <h2>Compare Districts</h2>
  {{if .Message}}<div class="info" id="message">{{.Message}}</div>{{end}}
  {{if .HasComparison}}
  <div class="columns">
    <div>
      <h3>Raw Values</h3>
      <table id="raw-table">
        <thead><tr><th>Metric</th>{{range .CompareDistricts}}<th>{{.}}</th>{{end}}</tr></thead>
        <tbody>
        {{range .RawRows}}<tr><td>{{.Metric}}</td>{{range .Cells}}<td class="num" style="background-color: {{.Bg}}; color: {{.Fg}}">{{.Text}}</td>{{end}}</tr>
        {{end}}
        </tbody>
      </table>
      <h3>Ranks</h3>
      <table id="rank-table">
        <thead><tr><th>Metric</th>{{range .CompareDistricts}}<th>{{.}}</th>{{end}}</tr></thead>
        <tbody>
        {{range .RankRows}}<tr><td>{{.Metric}}</td>{{range .Cells}}<td class="num" style="background-color: {{.Bg}}; color: {{.Fg}}">{{.Text}}</td>{{end}}</tr>
        {{end}}
        </tbody>
      </table>
    </div>
    <div>
      <h3>Normalized Profile</h3>
      <div class="chart-container" id="radar-chart">{{.RadarChart}}</div>
    </div>
  </div>
  {{end}}
</div>

<!-- ═══════ FOOTER ═══════ -->
<div class="footer">
  <p>Ranks: 1 = highest value; tied districts share the best rank. Profiles are scaled with each metric's minimum and maximum across all districts.</p>
  {{if .Version}}<p>envirorank {{.Version}}</p>{{end}}
</div>

{{if not .Standalone}}<script src="/static/dashboard.js"></script>{{end}}
</body>
</html>
`
