package normalize

import (
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/seenimoa/envirorank/internal/dataset"
)

func sampleTable(t *testing.T) *dataset.Table {
	t.Helper()
	tbl, err := dataset.Parse([][]string{
		{"ADM2_EN", "Rainfall", "Flat", "Forest"},
		{"A", "100", "50", "0.2"},
		{"B", "300", "50", "0.9"},
		{"C", "200", "50", "0.4"},
		{"D", "150", "50", "0.1"},
	}, dataset.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return tbl
}

// ── Stats ──

func TestComputeStats(t *testing.T) {
	st := ComputeStats(sampleTable(t))

	r, ok := st.Range("Rainfall")
	if !ok {
		t.Fatal("Range(Rainfall) not found")
	}
	if r.Min != 100 || r.Max != 300 {
		t.Errorf("Rainfall range: got %+v, want {100 300}", r)
	}
	if flat, _ := st.Range("Flat"); flat.Span() != 0 {
		t.Errorf("Flat span: got %v, want 0", flat.Span())
	}
	if _, ok := st.Range("Snow"); ok {
		t.Error("Range: unknown metric should not be found")
	}
}

func TestComputeStatsEmptyTable(t *testing.T) {
	tbl, err := dataset.Parse([][]string{{"ADM2_EN", "Rainfall"}}, dataset.Options{})
	if err != nil {
		t.Fatal(err)
	}
	st := ComputeStats(tbl)
	if len(st.Ranges) != 1 || st.Ranges[0] != (Range{}) {
		t.Errorf("Ranges: got %+v", st.Ranges)
	}
}

// ── Normalize ──

func TestNormalizeUsesGlobalRange(t *testing.T) {
	tbl := sampleTable(t)
	profiles, err := Normalize(tbl, ComputeStats(tbl), []string{"C"})
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("profiles: got %d, want 1", len(profiles))
	}
	// Selecting only C must not collapse the range to C's own value.
	if got := profiles[0].Values[0]; got != 0.5 {
		t.Errorf("Rainfall(C): got %v, want 0.5", got)
	}
}

func TestNormalizeConstantColumn(t *testing.T) {
	tbl := sampleTable(t)
	profiles, err := Normalize(tbl, ComputeStats(tbl), []string{"A", "B", "C"})
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range profiles {
		v := p.Values[1]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("%s: constant column produced %v", p.District, v)
		}
		if v != ZeroRangeValue {
			t.Errorf("%s: got %v, want %v", p.District, v, ZeroRangeValue)
		}
	}
}

func TestNormalizeBounds(t *testing.T) {
	tbl := sampleTable(t)
	profiles, err := Normalize(tbl, ComputeStats(tbl), tbl.Districts())
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range profiles {
		for i, v := range p.Values {
			if v < 0 || v > 1 {
				t.Errorf("%s metric %d: %v outside [0, 1]", p.District, i, v)
			}
		}
	}
	// B holds the maximum rainfall and forest cover; D the minimum forest cover.
	if profiles[1].Values[0] != 1 || profiles[1].Values[2] != 1 {
		t.Errorf("B: got %v", profiles[1].Values)
	}
	if profiles[3].Values[2] != 0 {
		t.Errorf("D forest: got %v, want 0", profiles[3].Values[2])
	}
}

func TestNormalizeSelectionOrder(t *testing.T) {
	tbl := sampleTable(t)
	profiles, err := Normalize(tbl, ComputeStats(tbl), []string{"D", "A"})
	if err != nil {
		t.Fatal(err)
	}
	got := []string{profiles[0].District, profiles[1].District}
	if !reflect.DeepEqual(got, []string{"D", "A"}) {
		t.Errorf("order: got %v", got)
	}
}

func TestNormalizeEmptySelection(t *testing.T) {
	tbl := sampleTable(t)
	profiles, err := Normalize(tbl, ComputeStats(tbl), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(profiles) != 0 {
		t.Errorf("profiles: got %d, want 0", len(profiles))
	}
}

func TestNormalizeUnknownDistrict(t *testing.T) {
	tbl := sampleTable(t)
	_, err := Normalize(tbl, ComputeStats(tbl), []string{"A", "Atlantis"})
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestNormalizeMismatchedStats(t *testing.T) {
	tbl := sampleTable(t)
	if _, err := Normalize(tbl, Stats{Metrics: []string{"Rainfall"}, Ranges: []Range{{}}}, []string{"A"}); !errors.Is(err, dataset.ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
}

func TestRangeScale(t *testing.T) {
	tests := []struct {
		r    Range
		v    float64
		want float64
	}{
		{Range{100, 300}, 200, 0.5},
		{Range{100, 300}, 100, 0},
		{Range{100, 300}, 300, 1},
		{Range{-1, 1}, 0, 0.5},
		{Range{50, 50}, 50, ZeroRangeValue},
		{Range{0, 10}, 12, 1},
	}
	for _, tt := range tests {
		if got := tt.r.Scale(tt.v); got != tt.want {
			t.Errorf("%+v.Scale(%v): got %v, want %v", tt.r, tt.v, got, tt.want)
		}
	}
}
