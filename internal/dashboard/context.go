// Package dashboard holds the immutable state the dashboard is served from.
//
// A Context is built once at startup from a loaded table. It owns the rank
// table and the global normalization stats and validates every user
// selection before any lookup happens. All methods are safe for concurrent
// use since nothing is mutated after New returns.
package dashboard

import (
	"fmt"
	"strings"

	"github.com/google/cel-go/cel"

	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/internal/normalize"
	"github.com/seenimoa/envirorank/internal/ranking"
	"github.com/seenimoa/envirorank/pkg/models"
	"github.com/seenimoa/envirorank/pkg/utils"
)

// DefaultMaxSelections is the comparison limit of the dashboard.
const DefaultMaxSelections = 3

// Options configures a Context.
type Options struct {
	MaxSelections int    // districts per comparison, 1-3 (default 3)
	DefaultMetric string // metric shown when none is requested (default: first)
}

// Context is the dashboard's read-only view of one table.
type Context struct {
	table         *dataset.Table
	ranks         *ranking.RankTable
	stats         normalize.Stats
	env           *cel.Env
	maxSelections int
	defaultMetric string
	byKey         map[string]string // DistrictKey → district, "" when ambiguous
}

// New ranks the table and computes normalization stats once.
func New(t *dataset.Table, opts Options) (*Context, error) {
	rt, err := ranking.Build(t)
	if err != nil {
		return nil, err
	}
	env, err := newFilterEnv()
	if err != nil {
		return nil, fmt.Errorf("create CEL environment: %w", err)
	}

	c := &Context{
		table:         t,
		ranks:         rt,
		stats:         normalize.ComputeStats(t),
		env:           env,
		maxSelections: opts.MaxSelections,
		byKey:         make(map[string]string, t.Len()),
	}
	if c.maxSelections <= 0 || c.maxSelections > DefaultMaxSelections {
		c.maxSelections = DefaultMaxSelections
	}

	metrics := t.Metrics()
	switch {
	case opts.DefaultMetric != "":
		if !t.HasMetric(opts.DefaultMetric) {
			return nil, dataset.Invalid(opts.DefaultMetric, 0, "default metric is not a column of the table")
		}
		c.defaultMetric = opts.DefaultMetric
	case len(metrics) > 0:
		c.defaultMetric = metrics[0]
	}

	for _, d := range t.Districts() {
		key := utils.DistrictKey(d)
		if _, seen := c.byKey[key]; seen {
			c.byKey[key] = ""
			continue
		}
		c.byKey[key] = d
	}
	return c, nil
}

// Table returns the underlying table.
func (c *Context) Table() *dataset.Table { return c.table }

// RankTable returns the precomputed rank table.
func (c *Context) RankTable() *ranking.RankTable { return c.ranks }

// Stats returns the global per-metric ranges.
func (c *Context) Stats() normalize.Stats { return c.stats }

// Schema returns the table schema.
func (c *Context) Schema() dataset.Schema { return c.table.Schema() }

// MaxSelections returns how many districts may be compared at once.
func (c *Context) MaxSelections() int { return c.maxSelections }

// DefaultMetric returns the metric shown when none is requested.
func (c *Context) DefaultMetric() string { return c.defaultMetric }

// Selection is a validated list of district names, in the order requested.
type Selection []string

// Empty reports whether no district is selected.
func (s Selection) Empty() bool { return len(s) == 0 }

// ResolveSelection validates a raw district selection. Each name is trimmed
// and resolved to a table district (exact name first, then case-insensitive
// or alias match); blanks are dropped and names resolving to the same
// district collapse. An empty selection is valid. A name that is not in the
// table, or more than MaxSelections distinct districts, is rejected.
func (c *Context) ResolveSelection(raw []string) (Selection, error) {
	sel := make(Selection, 0, len(raw))
	picked := make(map[string]bool, len(raw))
	for _, r := range raw {
		name := strings.TrimSpace(r)
		if name == "" {
			continue
		}
		d, err := c.lookupDistrict(name, utils.DistrictKey(name))
		if err != nil {
			return nil, err
		}
		if picked[d] {
			continue
		}
		picked[d] = true
		sel = append(sel, d)
	}

	if len(sel) > c.maxSelections {
		return nil, dataset.OutOfRange("districts", "select at most %d districts, got %d", c.maxSelections, len(sel))
	}
	return sel, nil
}

func (c *Context) lookupDistrict(name, key string) (string, error) {
	if c.table.HasDistrict(name) {
		return name, nil
	}
	d, ok := c.byKey[key]
	if !ok {
		d, ok = c.byKey[utils.NormalizeDistrict(name)]
	}
	switch {
	case !ok:
		return "", dataset.OutOfRange("districts", "unknown district %q", name)
	case d == "":
		return "", dataset.OutOfRange("districts", "district %q is ambiguous; use the exact name", name)
	}
	return d, nil
}

// ResolveMetric validates a metric name. Empty selects the default metric.
func (c *Context) ResolveMetric(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		if c.defaultMetric == "" {
			return "", dataset.OutOfRange("metric", "table has no metrics")
		}
		return c.defaultMetric, nil
	}
	if c.table.HasMetric(name) {
		return name, nil
	}
	for _, m := range c.table.Metrics() {
		if strings.EqualFold(m, name) {
			return m, nil
		}
	}
	return "", dataset.OutOfRange("metric", "unknown metric %q", name)
}

// Ranking returns the ordered ranking of metric. A non-empty filter hides
// districts for which the CEL expression is false; the ranks of the
// remaining rows are unchanged.
func (c *Context) Ranking(metric, filter string) (models.RankingView, error) {
	metric, err := c.ResolveMetric(metric)
	if err != nil {
		return models.RankingView{}, err
	}
	rows, err := ranking.Order(c.table, c.ranks, metric)
	if err != nil {
		return models.RankingView{}, err
	}

	r, _ := c.stats.Range(metric)
	view := models.RankingView{
		Metric: metric,
		Total:  len(rows),
		Min:    r.Min,
		Max:    r.Max,
		Rows:   rows,
	}

	if strings.TrimSpace(filter) == "" {
		return view, nil
	}
	f, err := compileFilter(c.env, filter, c.table.Metrics())
	if err != nil {
		return models.RankingView{}, err
	}
	kept := rows[:0]
	for _, row := range rows {
		ok, err := c.matchDistrict(f, row.District)
		if err != nil {
			return models.RankingView{}, err
		}
		if ok {
			kept = append(kept, row)
		}
	}
	view.Rows = kept
	view.Filter = f.String()
	return view, nil
}

func (c *Context) matchDistrict(f *Filter, d string) (bool, error) {
	values, _ := c.table.Row(d)
	ranks := make([]int, len(values))
	for i, m := range c.stats.Metrics {
		ranks[i], _ = c.ranks.Rank(d, m)
	}
	return f.Match(d, values, ranks)
}

// Compare builds the comparison of a validated selection: raw values and
// ranks as metric × district matrices plus normalized radar profiles.
func (c *Context) Compare(sel Selection) (models.ComparisonView, error) {
	if len(sel) > c.maxSelections {
		return models.ComparisonView{}, dataset.OutOfRange("districts", "select at most %d districts, got %d", c.maxSelections, len(sel))
	}
	metrics := c.table.Metrics()
	districts := []string(sel)

	profiles, err := normalize.Normalize(c.table, c.stats, districts)
	if err != nil {
		return models.ComparisonView{}, err
	}

	view := models.ComparisonView{
		Districts: append([]string{}, districts...),
		Metrics:   metrics,
		Raw:       make([][]float64, len(metrics)),
		Ranks:     make([][]int, len(metrics)),
		Profiles:  profiles,
	}
	for i, m := range metrics {
		view.Raw[i] = make([]float64, len(districts))
		view.Ranks[i] = make([]int, len(districts))
		for j, d := range districts {
			view.Raw[i][j], _ = c.table.Value(d, m)
			view.Ranks[i][j], _ = c.ranks.Rank(d, m)
		}
	}
	return view, nil
}

// View assembles the full dashboard state for one interaction.
func (c *Context) View(metric string, districts []string, filter string) (models.View, error) {
	sel, err := c.ResolveSelection(districts)
	if err != nil {
		return models.View{}, err
	}
	rv, err := c.Ranking(metric, filter)
	if err != nil {
		return models.View{}, err
	}
	cv, err := c.Compare(sel)
	if err != nil {
		return models.View{}, err
	}

	v := models.View{
		Metric:     rv.Metric,
		Ranking:    rv,
		Comparison: cv,
		Timestamp:  utils.NowSLST(),
	}
	if sel.Empty() {
		v.Message = c.SelectionHint()
	}
	return v, nil
}

// SelectionHint is shown while no district is selected for comparison.
func (c *Context) SelectionHint() string {
	if c.maxSelections == 1 {
		return "Please select a district to compare."
	}
	return fmt.Sprintf("Please select 1-%d districts to compare.", c.maxSelections)
}
