// Package dataset loads the per-district metric table and derives its schema.
//
// A Table is built once from a tabular file (CSV or XLSX): one row per
// district, one key column holding unique district names, every other column
// a numeric metric. Once built a Table is never mutated; every accessor
// returns copies so it can be shared freely across requests.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// DefaultKeyColumn is the district-name column of the Sri Lanka ADM2 export.
const DefaultKeyColumn = "ADM2_EN"

// Schema is the explicit column layout derived once at load time.
type Schema struct {
	KeyColumn string   `json:"key_column" yaml:"key_column"`
	Metrics   []string `json:"metrics"    yaml:"metrics"`
}

// Options controls how a table is parsed and validated.
type Options struct {
	KeyColumn    string        // district-name column (default: ADM2_EN)
	Sheet        string        // XLSX sheet (default: first sheet)
	Expectations *Expectations // optional schema expectations
}

func (o Options) keyColumn() string {
	if k := strings.TrimSpace(o.KeyColumn); k != "" {
		return k
	}
	return DefaultKeyColumn
}

// Table is the immutable district × metric matrix.
type Table struct {
	schema    Schema
	districts []string
	values    [][]float64 // [row][metric], schema metric order
	lines     []int       // record number of each district, for error messages
	rowIndex  map[string]int
	colIndex  map[string]int
}

// Parse validates raw records (header first) and builds a Table.
func Parse(records [][]string, opts Options) (*Table, error) {
	if len(records) == 0 {
		return nil, Invalid("", 0, "table has no header row")
	}

	header := make([]string, len(records[0]))
	for i, h := range records[0] {
		h = strings.TrimSpace(h)
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = h
	}

	key := opts.keyColumn()
	keyIdx := -1
	seen := make(map[string]bool, len(header))
	for i, h := range header {
		if h == "" {
			return nil, Invalid("", 1, "column %d has an empty name", i+1)
		}
		if seen[h] {
			return nil, Invalid(h, 1, "duplicate column name")
		}
		seen[h] = true
		if h == key {
			keyIdx = i
		}
	}
	if keyIdx < 0 {
		return nil, Invalid(key, 1, "missing key column")
	}

	schema := Schema{KeyColumn: key}
	metricCols := make([]int, 0, len(header)-1)
	for i, h := range header {
		if i == keyIdx {
			continue
		}
		schema.Metrics = append(schema.Metrics, h)
		metricCols = append(metricCols, i)
	}

	if opts.Expectations != nil {
		if err := opts.Expectations.Check(schema); err != nil {
			return nil, err
		}
	}

	t := &Table{
		schema:    schema,
		districts: make([]string, 0, len(records)-1),
		values:    make([][]float64, 0, len(records)-1),
		rowIndex:  make(map[string]int, len(records)-1),
		colIndex:  make(map[string]int, len(schema.Metrics)),
	}
	for i, m := range schema.Metrics {
		t.colIndex[m] = i
	}

	for r, rec := range records[1:] {
		line := r + 2 // record number; the header is record 1
		if isBlank(rec) {
			continue
		}
		if len(rec) != len(header) {
			return nil, Invalid("", line, "expected %d fields, got %d", len(header), len(rec))
		}

		name := strings.TrimSpace(rec[keyIdx])
		if name == "" {
			return nil, Invalid(key, line, "empty district name")
		}
		if prev, dup := t.rowIndex[name]; dup {
			return nil, Invalid(key, line, "duplicate district %q (first seen on row %d)", name, t.lines[prev])
		}

		row := make([]float64, len(metricCols))
		for j, col := range metricCols {
			v, err := parseMetric(rec[col])
			if err != nil {
				return nil, Invalid(header[col], line, "%v", err)
			}
			row[j] = v
		}

		t.rowIndex[name] = len(t.districts)
		t.districts = append(t.districts, name)
		t.lines = append(t.lines, line)
		t.values = append(t.values, row)
	}
	return t, nil
}

func parseMetric(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0, errors.New("empty metric value")
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not a number: %q", s)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("not a finite number: %q", s)
	}
	return v, nil
}

func isBlank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// Schema returns a copy of the derived schema.
func (t *Table) Schema() Schema {
	return Schema{KeyColumn: t.schema.KeyColumn, Metrics: t.Metrics()}
}

// Metrics returns metric names in header order.
func (t *Table) Metrics() []string {
	return append([]string(nil), t.schema.Metrics...)
}

// Districts returns district names in input order.
func (t *Table) Districts() []string {
	return append([]string(nil), t.districts...)
}

// Len returns the number of districts.
func (t *Table) Len() int { return len(t.districts) }

// HasDistrict reports whether name is an exact district key.
func (t *Table) HasDistrict(name string) bool {
	_, ok := t.rowIndex[name]
	return ok
}

// HasMetric reports whether name is a metric column.
func (t *Table) HasMetric(name string) bool {
	_, ok := t.colIndex[name]
	return ok
}

// Value returns the raw value of metric m for district d.
func (t *Table) Value(d, m string) (float64, bool) {
	r, ok := t.rowIndex[d]
	if !ok {
		return 0, false
	}
	c, ok := t.colIndex[m]
	if !ok {
		return 0, false
	}
	return t.values[r][c], true
}

// Column returns metric m for every district, in district order.
func (t *Table) Column(m string) ([]float64, bool) {
	c, ok := t.colIndex[m]
	if !ok {
		return nil, false
	}
	out := make([]float64, len(t.values))
	for r, row := range t.values {
		out[r] = row[c]
	}
	return out, true
}

// Row returns every metric of district d, in schema order.
func (t *Table) Row(d string) ([]float64, bool) {
	r, ok := t.rowIndex[d]
	if !ok {
		return nil, false
	}
	return append([]float64(nil), t.values[r]...), true
}
