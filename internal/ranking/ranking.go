// Package ranking computes descending per-metric district ranks.
//
// Ranks follow the "minimum" tie rule: tied districts all receive the best
// rank of their group and the next distinct value skips accordingly, so
// values {10, 10, 5} rank as {1, 1, 3}.
package ranking

import (
	"sort"

	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/pkg/models"
)

// RankTable maps every (district, metric) pair of a table to its rank.
// It is built once and never mutated.
type RankTable struct {
	metrics   []string
	districts []string
	ranks     [][]int // [metric][district], table order
	rowIndex  map[string]int
	colIndex  map[string]int
}

// Build ranks every metric column of t independently.
func Build(t *dataset.Table) (*RankTable, error) {
	if t == nil {
		return nil, dataset.Invalid("", 0, "no table to rank")
	}

	metrics := t.Metrics()
	districts := t.Districts()
	rt := &RankTable{
		metrics:   metrics,
		districts: districts,
		ranks:     make([][]int, len(metrics)),
		rowIndex:  make(map[string]int, len(districts)),
		colIndex:  make(map[string]int, len(metrics)),
	}
	for i, d := range districts {
		if _, dup := rt.rowIndex[d]; dup {
			return nil, dataset.Invalid(t.Schema().KeyColumn, 0, "duplicate district %q", d)
		}
		rt.rowIndex[d] = i
	}
	for j, m := range metrics {
		col, _ := t.Column(m)
		rt.ranks[j] = MinRank(col)
		rt.colIndex[m] = j
	}
	return rt, nil
}

// MinRank ranks values in descending order using the minimum tie rule.
// The result is aligned with values.
func MinRank(values []float64) []int {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return values[idx[a]] > values[idx[b]]
	})

	ranks := make([]int, len(values))
	for pos, i := range idx {
		if pos > 0 && values[i] == values[idx[pos-1]] {
			ranks[i] = ranks[idx[pos-1]]
			continue
		}
		ranks[i] = pos + 1
	}
	return ranks
}

// Rank returns the rank of district d for metric m.
func (rt *RankTable) Rank(d, m string) (int, bool) {
	r, ok := rt.rowIndex[d]
	if !ok {
		return 0, false
	}
	c, ok := rt.colIndex[m]
	if !ok {
		return 0, false
	}
	return rt.ranks[c][r], true
}

// Ranks returns every district's rank for metric m.
func (rt *RankTable) Ranks(m string) (map[string]int, bool) {
	c, ok := rt.colIndex[m]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(rt.districts))
	for r, d := range rt.districts {
		out[d] = rt.ranks[c][r]
	}
	return out, true
}

// Row returns district d's rank for every metric.
func (rt *RankTable) Row(d string) (map[string]int, bool) {
	r, ok := rt.rowIndex[d]
	if !ok {
		return nil, false
	}
	out := make(map[string]int, len(rt.metrics))
	for c, m := range rt.metrics {
		out[m] = rt.ranks[c][r]
	}
	return out, true
}

// Len returns the number of (district, metric) entries.
func (rt *RankTable) Len() int { return len(rt.districts) * len(rt.metrics) }

// Matrix exports the table in district order with ranks in metric order.
func (rt *RankTable) Matrix() models.RankMatrix {
	m := models.RankMatrix{
		Metrics: append([]string(nil), rt.metrics...),
		Rows:    make([]models.RankMatrixRow, len(rt.districts)),
	}
	for r, d := range rt.districts {
		row := models.RankMatrixRow{District: d, Ranks: make([]int, len(rt.metrics))}
		for c := range rt.metrics {
			row.Ranks[c] = rt.ranks[c][r]
		}
		m.Rows[r] = row
	}
	return m
}

// Order returns the ranking table for metric: rows sorted by value
// descending, ties kept in table order.
func Order(t *dataset.Table, rt *RankTable, metric string) ([]models.RankingRow, error) {
	if t == nil || rt == nil {
		return nil, dataset.Invalid("", 0, "no table to rank")
	}
	col, ok := t.Column(metric)
	if !ok {
		return nil, dataset.OutOfRange("metric", "unknown metric %q", metric)
	}
	c, ok := rt.colIndex[metric]
	if !ok || len(rt.ranks[c]) != len(col) {
		return nil, dataset.Invalid(metric, 0, "rank table does not match the data table")
	}

	districts := t.Districts()
	rows := make([]models.RankingRow, len(col))
	for i, v := range col {
		rows[i] = models.RankingRow{District: districts[i], Value: v, Rank: rt.ranks[c][i]}
	}
	sort.SliceStable(rows, func(a, b int) bool {
		return rows[a].Value > rows[b].Value
	})
	return rows, nil
}
