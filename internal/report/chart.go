// Package report renders the dashboard: SVG and ECharts charts, the HTML
// page and standalone exports, with optional PDF conversion.
package report

import (
	"fmt"
	"math"
	"strings"

	"github.com/seenimoa/envirorank/pkg/models"
	"github.com/seenimoa/envirorank/pkg/utils"
)

// ════════════════════════════════════════════════════════════════════
// SVG Chart Generator (pure Go)
// ════════════════════════════════════════════════════════════════════

// ChartConfig holds rendering parameters for SVG charts.
type ChartConfig struct {
	Width        int    // SVG width in pixels (default: 900)
	Height       int    // SVG height in pixels (default: 420)
	MarginTop    int    // top margin (default: 40)
	MarginRight  int    // right margin (default: 30)
	MarginBottom int    // bottom margin (default: 110, rotated labels)
	MarginLeft   int    // left margin (default: 70)
	BgColor      string // background color (default: "#ffffff")
	GridColor    string // grid line color (default: "#e8e8e8")
	TextColor    string // axis label color (default: "#333333")
	FontSize     int    // axis label font size (default: 11)
	Title        string // chart title
}

// DefaultChartConfig returns sensible defaults for chart rendering.
func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:        900,
		Height:       420,
		MarginTop:    40,
		MarginRight:  30,
		MarginBottom: 110,
		MarginLeft:   70,
		BgColor:      "#ffffff",
		GridColor:    "#e8e8e8",
		TextColor:    "#333333",
		FontSize:     11,
	}
}

// plotArea returns the usable drawing area dimensions.
func (c ChartConfig) plotArea() (x, y, w, h int) {
	return c.MarginLeft, c.MarginTop,
		c.Width - c.MarginLeft - c.MarginRight,
		c.Height - c.MarginTop - c.MarginBottom
}

// radarPalette colours one polygon per compared district.
var radarPalette = []string{"#636efa", "#ef553b", "#00cc96", "#ab63fa", "#ffa15a"}

// ════════════════════════════════════════════════════════════════════
// Bar Chart: one bar per district, coloured by value
// ════════════════════════════════════════════════════════════════════

// BarChart draws the ranking view as a vertical bar chart in row order.
// Bars are coloured on the YlGnBu scale by their position in the metric's
// global range.
func BarChart(view models.RankingView, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
	}
	if cfg.Title == "" {
		cfg.Title = view.Metric + " by District"
	}
	if len(view.Rows) == 0 {
		return emptySVG(cfg, "No districts to show")
	}

	px, py, pw, ph := cfg.plotArea()

	// The value axis always includes zero.
	lo, hi := math.Min(0, view.Min), math.Max(0, view.Max)
	for _, r := range view.Rows {
		lo, hi = math.Min(lo, r.Value), math.Max(hi, r.Value)
	}
	valRange := hi - lo
	if valRange < 1e-9 {
		valRange = 1
	}
	valueToY := func(v float64) float64 {
		return float64(py) + float64(ph)*(hi-v)/valRange
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Y-axis grid lines and labels
	gridLines := 5
	for i := 0; i <= gridLines; i++ {
		v := lo + valRange*float64(i)/float64(gridLines)
		y := valueToY(v)
		sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="%s" stroke-dasharray="3,3"/>`,
			px, y, px+pw, y, cfg.GridColor))
		sb.WriteString(fmt.Sprintf(`<text x="%d" y="%.1f" font-size="%d" fill="%s" text-anchor="end">%s</text>`,
			px-5, y+4, cfg.FontSize, cfg.TextColor, utils.FormatCompact(v)))
	}

	zeroY := valueToY(0)
	sb.WriteString(fmt.Sprintf(`<line x1="%d" y1="%.1f" x2="%d" y2="%.1f" stroke="#999" stroke-width="1"/>`,
		px, zeroY, px+pw, zeroY))

	n := len(view.Rows)
	slot := float64(pw) / float64(n)
	barW := slot * 0.7
	if barW > 40 {
		barW = 40
	}
	for i, r := range view.Rows {
		cx := float64(px) + slot*float64(i) + slot/2
		top, bottom := valueToY(r.Value), zeroY
		if top > bottom {
			top, bottom = bottom, top
		}
		h := bottom - top
		if h < 1 {
			h = 1
		}
		color := Gradient(YlGnBu, Position(r.Value, view.Min, view.Max))
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="#9e9e9e" stroke-width="0.5"><title>%s: %s (rank %d)</title></rect>`,
			cx-barW/2, top, barW, h, color, escapeXML(r.District), utils.FormatValue(r.Value, 3), r.Rank))

		// Rotated district label
		ly := py + ph + 12
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%d" font-size="%d" fill="%s" text-anchor="end" transform="rotate(-45 %.1f %d)">%s</text>`,
			cx, ly, cfg.FontSize, cfg.TextColor, cx, ly, escapeXML(r.District)))
	}

	sb.WriteString("</svg>")
	return sb.String()
}

// ════════════════════════════════════════════════════════════════════
// Radar Chart: normalized metric profiles on [0, 1]
// ════════════════════════════════════════════════════════════════════

// RadarChart draws one filled polygon per profile over a shared set of
// metric axes with a fixed radial range of [0, 1].
func RadarChart(profiles []models.Profile, metrics []string, cfg ChartConfig) string {
	if cfg.Width == 0 {
		cfg = DefaultChartConfig()
		cfg.Width, cfg.Height = 640, 560
	}
	if cfg.Title == "" {
		cfg.Title = "Normalized Metric Profile"
	}
	if len(profiles) == 0 || len(metrics) == 0 {
		return emptySVG(cfg, "No districts selected")
	}

	legendH := 24
	cx := float64(cfg.Width) / 2
	cy := float64(cfg.MarginTop+cfg.Height-legendH) / 2
	radius := math.Min(float64(cfg.Width), float64(cfg.Height-cfg.MarginTop-legendH))/2 - 60
	if radius < 20 {
		radius = 20
	}

	n := len(metrics)
	point := func(axis int, v float64) (float64, float64) {
		angle := -math.Pi/2 + 2*math.Pi*float64(axis)/float64(n)
		return cx + radius*v*math.Cos(angle), cy + radius*v*math.Sin(angle)
	}

	var sb strings.Builder
	sb.WriteString(svgHeader(cfg))
	sb.WriteString(fmt.Sprintf(`<rect x="0" y="0" width="%d" height="%d" fill="%s"/>`,
		cfg.Width, cfg.Height, cfg.BgColor))
	sb.WriteString(fmt.Sprintf(`<text x="%d" y="20" font-size="14" font-weight="bold" fill="%s" text-anchor="middle">%s</text>`,
		cfg.Width/2, cfg.TextColor, escapeXML(cfg.Title)))

	// Grid rings at 0.25 steps
	for _, level := range []float64{0.25, 0.5, 0.75, 1} {
		pts := make([]string, n)
		for i := 0; i < n; i++ {
			x, y := point(i, level)
			pts[i] = fmt.Sprintf("%.1f,%.1f", x, y)
		}
		sb.WriteString(fmt.Sprintf(`<polygon points="%s" fill="none" stroke="%s"/>`,
			strings.Join(pts, " "), cfg.GridColor))
		x, y := point(0, level)
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="9" fill="#999">%.2f</text>`, x+3, y+3, level))
	}

	// Axes and metric labels
	for i, m := range metrics {
		x, y := point(i, 1)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s"/>`,
			cx, cy, x, y, cfg.GridColor))
		lx, ly := point(i, 1.12)
		anchor := "middle"
		switch {
		case lx < cx-1:
			anchor = "end"
		case lx > cx+1:
			anchor = "start"
		}
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s" text-anchor="%s">%s</text>`,
			lx, ly+4, cfg.FontSize, cfg.TextColor, anchor, escapeXML(m)))
	}

	// One closed polygon per district
	for k, p := range profiles {
		color := radarPalette[k%len(radarPalette)]
		pts := make([]string, 0, n)
		for i := 0; i < n && i < len(p.Values); i++ {
			x, y := point(i, clamp01(p.Values[i]))
			pts = append(pts, fmt.Sprintf("%.1f,%.1f", x, y))
		}
		sb.WriteString(fmt.Sprintf(`<polygon class="profile" points="%s" fill="%s" fill-opacity="0.25" stroke="%s" stroke-width="2"><title>%s</title></polygon>`,
			strings.Join(pts, " "), color, color, escapeXML(p.District)))
	}

	// Legend
	lx := float64(cfg.MarginLeft)
	ly := float64(cfg.Height - legendH/2)
	for k, p := range profiles {
		color := radarPalette[k%len(radarPalette)]
		sb.WriteString(fmt.Sprintf(`<rect x="%.1f" y="%.1f" width="12" height="12" fill="%s"/>`, lx, ly-10, color))
		sb.WriteString(fmt.Sprintf(`<text x="%.1f" y="%.1f" font-size="%d" fill="%s">%s</text>`,
			lx+16, ly, cfg.FontSize, cfg.TextColor, escapeXML(p.District)))
		lx += 30 + float64(len(p.District))*7
	}

	sb.WriteString("</svg>")
	return sb.String()
}

func clamp01(v float64) float64 {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// ════════════════════════════════════════════════════════════════════
// SVG Helpers
// ════════════════════════════════════════════════════════════════════

func svgHeader(cfg ChartConfig) string {
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" font-family="sans-serif">`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height)
}

func emptySVG(cfg ChartConfig, msg string) string {
	if cfg.Width == 0 {
		cfg.Width = 400
	}
	if cfg.Height == 0 {
		cfg.Height = 200
	}
	return fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d"><rect width="%d" height="%d" fill="#f5f5f5"/><text x="%d" y="%d" text-anchor="middle" fill="#999" font-size="14">%s</text></svg>`,
		cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.Width/2, cfg.Height/2, escapeXML(msg))
}

func escapeXML(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, `"`, "&quot;")
	return s
}
