// Package normalize rescales district metric values into [0, 1] using the
// global minimum and maximum of every metric.
package normalize

import (
	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/pkg/models"
)

// ZeroRangeValue is emitted for every district when a metric is constant
// (global max == global min).
const ZeroRangeValue = 0.0

// Range is the global extent of one metric across all districts.
type Range struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// Span returns Max - Min.
func (r Range) Span() float64 { return r.Max - r.Min }

// Scale maps v onto [0, 1]. Constant ranges map to ZeroRangeValue.
func (r Range) Scale(v float64) float64 {
	span := r.Span()
	if span == 0 {
		return ZeroRangeValue
	}
	s := (v - r.Min) / span
	switch {
	case s < 0:
		return 0
	case s > 1:
		return 1
	}
	return s
}

// Stats holds the global range of every metric, in schema order.
type Stats struct {
	Metrics []string `json:"metrics"`
	Ranges  []Range  `json:"ranges"`
}

// Range returns the global range of metric m.
func (s Stats) Range(m string) (Range, bool) {
	for i, name := range s.Metrics {
		if name == m {
			return s.Ranges[i], true
		}
	}
	return Range{}, false
}

// ComputeStats scans every metric column once. Metrics of an empty table
// get a zero Range.
func ComputeStats(t *dataset.Table) Stats {
	metrics := t.Metrics()
	st := Stats{Metrics: metrics, Ranges: make([]Range, len(metrics))}
	for i, m := range metrics {
		col, _ := t.Column(m)
		if len(col) == 0 {
			continue
		}
		r := Range{Min: col[0], Max: col[0]}
		for _, v := range col[1:] {
			if v < r.Min {
				r.Min = v
			}
			if v > r.Max {
				r.Max = v
			}
		}
		st.Ranges[i] = r
	}
	return st
}

// Normalize returns one profile per selected district, in selection order.
// Values are in schema metric order and scaled with the global ranges in
// stats, not the extent of the selection.
func Normalize(t *dataset.Table, stats Stats, districts []string) ([]models.Profile, error) {
	if len(stats.Ranges) != len(stats.Metrics) {
		return nil, dataset.Invalid("", 0, "stats cover %d metrics but hold %d ranges", len(stats.Metrics), len(stats.Ranges))
	}
	metrics := t.Metrics()
	if len(metrics) != len(stats.Metrics) {
		return nil, dataset.Invalid("", 0, "stats cover %d metrics, table has %d", len(stats.Metrics), len(metrics))
	}

	profiles := make([]models.Profile, 0, len(districts))
	for _, d := range districts {
		row, ok := t.Row(d)
		if !ok {
			return nil, dataset.Invalid(t.Schema().KeyColumn, 0, "unknown district %q", d)
		}
		p := models.Profile{District: d, Values: make([]float64, len(row))}
		for i, v := range row {
			p.Values[i] = stats.Ranges[i].Scale(v)
		}
		profiles = append(profiles, p)
	}
	return profiles, nil
}
