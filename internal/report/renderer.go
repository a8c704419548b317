package report

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/render"

	"github.com/seenimoa/envirorank/pkg/models"
)

// ════════════════════════════════════════════════════════════════════
// Renderer: chart backends behind one interface
// ════════════════════════════════════════════════════════════════════

// Renderer turns dashboard data into embeddable chart markup.
type Renderer interface {
	// Name identifies the backend ("svg" or "echarts").
	Name() string
	// Assets lists script URLs the page must load for the charts to work.
	Assets() []string
	BarChart(view models.RankingView) (template.HTML, error)
	RadarChart(profiles []models.Profile, metrics []string) (template.HTML, error)
}

// NewRenderer returns the backend registered under name.
func NewRenderer(name string) (Renderer, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "svg":
		return SVGRenderer{}, nil
	case "", "echarts":
		return EChartsRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown renderer %q", name)
	}
}

// SVGRenderer draws static inline SVG.
type SVGRenderer struct {
	Config ChartConfig // zero value selects the defaults
}

// Name implements Renderer.
func (SVGRenderer) Name() string { return "svg" }

// Assets implements Renderer; inline SVG needs no scripts.
func (SVGRenderer) Assets() []string { return nil }

// BarChart implements Renderer.
func (r SVGRenderer) BarChart(view models.RankingView) (template.HTML, error) {
	return template.HTML(BarChart(view, r.Config)), nil
}

// RadarChart implements Renderer.
func (r SVGRenderer) RadarChart(profiles []models.Profile, metrics []string) (template.HTML, error) {
	if err := checkProfiles(profiles, metrics); err != nil {
		return "", err
	}
	return template.HTML(RadarChart(profiles, metrics, r.Config)), nil
}

// EChartsAsset is the ECharts runtime the interactive charts load.
const EChartsAsset = "https://go-echarts.github.io/go-echarts-assets/assets/echarts.min.js"

// EChartsRenderer draws interactive charts with go-echarts.
type EChartsRenderer struct {
	Height string // CSS height of each chart (default: "420px")
}

// Name implements Renderer.
func (EChartsRenderer) Name() string { return "echarts" }

// Assets implements Renderer.
func (EChartsRenderer) Assets() []string { return []string{EChartsAsset} }

func (r EChartsRenderer) height() string {
	if r.Height != "" {
		return r.Height
	}
	return "420px"
}

// BarChart implements Renderer. Each bar carries its own YlGnBu colour so
// both backends agree on the palette.
func (r EChartsRenderer) BarChart(view models.RankingView) (template.HTML, error) {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: view.Metric + " by District"}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  r.height(),
			ChartID: "ranking-bar",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(false)}),
		charts.WithXAxisOpts(opts.XAxis{Name: "District"}),
		charts.WithYAxisOpts(opts.YAxis{Name: view.Metric}),
	)

	names := make([]string, len(view.Rows))
	data := make([]opts.BarData, len(view.Rows))
	for i, row := range view.Rows {
		names[i] = row.District
		data[i] = opts.BarData{
			Name:      row.District,
			Value:     row.Value,
			ItemStyle: &opts.ItemStyle{Color: Gradient(YlGnBu, Position(row.Value, view.Min, view.Max))},
		}
	}
	bar.SetXAxis(names).AddSeries(view.Metric, data)
	return renderSnippet(bar), nil
}

// RadarChart implements Renderer.
func (r EChartsRenderer) RadarChart(profiles []models.Profile, metrics []string) (template.HTML, error) {
	if err := checkProfiles(profiles, metrics); err != nil {
		return "", err
	}

	indicators := make([]*opts.Indicator, len(metrics))
	for i, m := range metrics {
		indicators[i] = &opts.Indicator{Name: m, Min: 0, Max: 1}
	}

	radar := charts.NewRadar()
	radar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Normalized Metric Profile"}),
		charts.WithInitializationOpts(opts.Initialization{
			Width:   "100%",
			Height:  r.height(),
			ChartID: "profile-radar",
		}),
		charts.WithTooltipOpts(opts.Tooltip{Show: boolPtr(true)}),
		charts.WithLegendOpts(opts.Legend{Show: boolPtr(true), Bottom: "0"}),
		charts.WithRadarComponentOpts(opts.RadarComponent{
			Indicator: indicators,
			Shape:     "polygon",
			SplitArea: &opts.SplitArea{Show: boolPtr(true)},
		}),
	)
	for k, p := range profiles {
		color := radarPalette[k%len(radarPalette)]
		radar.AddSeries(p.District, []opts.RadarData{{Name: p.District, Value: p.Values}},
			charts.WithItemStyleOpts(opts.ItemStyle{Color: color}),
		)
	}
	return renderSnippet(radar), nil
}

func checkProfiles(profiles []models.Profile, metrics []string) error {
	for _, p := range profiles {
		if len(p.Values) != len(metrics) {
			return fmt.Errorf("profile %q has %d values for %d metrics", p.District, len(p.Values), len(metrics))
		}
	}
	return nil
}

// snippetRenderer matches go-echarts charts that can render a fragment.
type snippetRenderer interface {
	RenderSnippet() render.ChartSnippet
}

// renderSnippet renders just the chart DIV and script.
func renderSnippet(c snippetRenderer) template.HTML {
	s := c.RenderSnippet()
	return template.HTML(s.Element + "\n" + s.Script)
}

func boolPtr(b bool) *bool { return &b }
