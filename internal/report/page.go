package report

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/seenimoa/envirorank/pkg/models"
	"github.com/seenimoa/envirorank/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// Page Generator: Orchestrates chart + template rendering
// ════════════════════════════════════════════════════════════════════

// DefaultTitle is used when PageData carries no title.
const DefaultTitle = "Sri Lanka Environmental Ranking Dashboard"

// PageData is everything needed to render one dashboard page.
type PageData struct {
	Title            string
	View             models.View
	Metrics          []string // all metrics, schema order
	Districts        []string // all districts, input order
	MaxSelections    int
	ValuePrecision   int // decimals in the ranking table (default: 3)
	ComparePrecision int // decimals in the raw comparison table (default: 2)
	Renderer         Renderer
	Standalone       bool   // export mode: no form, no live script
	Error            string // shown in a banner above the ranking
	Version          string
}

// Cell is one coloured table cell.
type Cell struct {
	Text string
	Bg   string
	Fg   string
}

// Option is one entry of a select control.
type Option struct {
	Name     string
	Selected bool
}

// RankingLine is one ranking table row.
type RankingLine struct {
	District string
	Value    Cell
	Rank     int
}

// MatrixRow is one metric row of a comparison table.
type MatrixRow struct {
	Metric string
	Cells  []Cell
}

// pageModel is the flattened template model.
type pageModel struct {
	Title         string
	GeneratedAt   string
	RendererName  string
	Assets        []string
	Standalone    bool
	MaxSelections int
	Error         string
	Message       string
	Version       string

	Metrics       []Option
	Districts     []Option
	DistrictCount int

	Metric       string
	Filter       string
	RankingTotal int
	RankingRows  []RankingLine
	BarChart     template.HTML

	HasComparison    bool
	CompareDistricts []string
	RawRows          []MatrixRow
	RankRows         []MatrixRow
	RadarChart       template.HTML
}

var pageTemplate = template.Must(template.New("page").Parse(PageTemplate))

// RenderPage writes the dashboard page for d to w.
func RenderPage(w io.Writer, d PageData) error {
	m, err := buildPageModel(d)
	if err != nil {
		return err
	}
	if err := pageTemplate.Execute(w, m); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// RenderPageString renders the page into a string.
func RenderPageString(d PageData) (string, error) {
	var buf bytes.Buffer
	if err := RenderPage(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// ════════════════════════════════════════════════════════════════════
// Internal: Build template data
// ════════════════════════════════════════════════════════════════════

func buildPageModel(d PageData) (pageModel, error) {
	r := d.Renderer
	if r == nil {
		r = SVGRenderer{}
	}
	if d.ValuePrecision <= 0 {
		d.ValuePrecision = 3
	}
	if d.ComparePrecision <= 0 {
		d.ComparePrecision = 2
	}
	v := d.View

	m := pageModel{
		Title:         d.Title,
		GeneratedAt:   ReportTimestamp(v.Timestamp),
		RendererName:  r.Name(),
		Assets:        r.Assets(),
		Standalone:    d.Standalone,
		MaxSelections: d.MaxSelections,
		Error:         d.Error,
		Message:       v.Message,
		Version:       d.Version,
		DistrictCount: len(d.Districts),
		Metric:        v.Ranking.Metric,
		Filter:        v.Ranking.Filter,
		RankingTotal:  v.Ranking.Total,
	}
	if m.Title == "" {
		m.Title = DefaultTitle
	}
	if m.Metric == "" {
		m.Metric = v.Metric
	}

	for _, name := range d.Metrics {
		m.Metrics = append(m.Metrics, Option{Name: name, Selected: name == m.Metric})
	}
	selected := make(map[string]bool, len(v.Comparison.Districts))
	for _, name := range v.Comparison.Districts {
		selected[name] = true
	}
	for _, name := range d.Districts {
		m.Districts = append(m.Districts, Option{Name: name, Selected: selected[name]})
	}

	for _, row := range v.Ranking.Rows {
		m.RankingRows = append(m.RankingRows, RankingLine{
			District: row.District,
			Value:    cell(utils.FormatValue(row.Value, d.ValuePrecision), YlGnBu, Position(row.Value, v.Ranking.Min, v.Ranking.Max)),
			Rank:     row.Rank,
		})
	}

	if v.Ranking.Metric != "" {
		bar, err := r.BarChart(v.Ranking)
		if err != nil {
			return m, fmt.Errorf("bar chart: %w", err)
		}
		m.BarChart = bar
	}

	cmp := v.Comparison
	if !cmp.Empty() {
		m.HasComparison = true
		m.CompareDistricts = cmp.Districts
		m.RawRows = rawRows(cmp, d.ComparePrecision)
		m.RankRows = rankRows(cmp)
		radar, err := r.RadarChart(cmp.Profiles, cmp.Metrics)
		if err != nil {
			return m, fmt.Errorf("radar chart: %w", err)
		}
		m.RadarChart = radar
	}
	return m, nil
}

// rawRows colours each district column on BuGn within the column's own
// range across metrics.
func rawRows(cmp models.ComparisonView, precision int) []MatrixRow {
	los, his := columnBounds(cmp.Raw, len(cmp.Districts))
	rows := make([]MatrixRow, len(cmp.Metrics))
	for i, metric := range cmp.Metrics {
		cells := make([]Cell, len(cmp.Raw[i]))
		for j, v := range cmp.Raw[i] {
			cells[j] = cell(utils.FormatGrouped(v, precision), BuGn, Position(v, los[j], his[j]))
		}
		rows[i] = MatrixRow{Metric: metric, Cells: cells}
	}
	return rows
}

// rankRows colours each district column on PuBu with the district's best
// rank darkest.
func rankRows(cmp models.ComparisonView) []MatrixRow {
	vals := make([][]float64, len(cmp.Ranks))
	for i, row := range cmp.Ranks {
		vals[i] = make([]float64, len(row))
		for j, r := range row {
			vals[i][j] = float64(r)
		}
	}
	los, his := columnBounds(vals, len(cmp.Districts))

	rows := make([]MatrixRow, len(cmp.Metrics))
	for i, metric := range cmp.Metrics {
		cells := make([]Cell, len(vals[i]))
		// Equal ranks have no spread and all render at full strength.
		for j, v := range vals[i] {
			cells[j] = cell(strconv.Itoa(cmp.Ranks[i][j]), PuBu, 1-Position(v, los[j], his[j]))
		}
		rows[i] = MatrixRow{Metric: metric, Cells: cells}
	}
	return rows
}

// columnBounds returns the min and max of every column of a
// metric × district matrix.
func columnBounds(m [][]float64, cols int) (los, his []float64) {
	los = make([]float64, cols)
	his = make([]float64, cols)
	col := make([]float64, 0, len(m))
	for j := 0; j < cols; j++ {
		col = col[:0]
		for _, row := range m {
			if j < len(row) {
				col = append(col, row[j])
			}
		}
		los[j], his[j] = bounds(col)
	}
	return los, his
}

func cell(text string, s Scale, t float64) Cell {
	bg := Gradient(s, t)
	return Cell{Text: text, Bg: bg, Fg: TextColor(bg)}
}

func bounds(vals []float64) (lo, hi float64) {
	for i, v := range vals {
		if i == 0 || v < lo {
			lo = v
		}
		if i == 0 || v > hi {
			hi = v
		}
	}
	return lo, hi
}

// ReportTimestamp formats t for page footers; the zero time means now.
func ReportTimestamp(t time.Time) string {
	if t.IsZero() {
		t = utils.NowSLST()
	}
	return utils.FormatDateTime(t)
}
