package dataset

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func sampleRecords() [][]string {
	return [][]string{
		{"ADM2_EN", "AirQuality", "Rainfall"},
		{"Colombo", "10", "100"},
		{"Kandy", "10", "300"},
		{"Galle", "5", "200"},
	}
}

// ── Parse ──

func TestParseDerivesSchema(t *testing.T) {
	tbl, err := Parse(sampleRecords(), Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	s := tbl.Schema()
	if s.KeyColumn != "ADM2_EN" {
		t.Errorf("KeyColumn: got %q", s.KeyColumn)
	}
	if want := []string{"AirQuality", "Rainfall"}; !reflect.DeepEqual(s.Metrics, want) {
		t.Errorf("Metrics: got %v, want %v", s.Metrics, want)
	}
	if want := []string{"Colombo", "Kandy", "Galle"}; !reflect.DeepEqual(tbl.Districts(), want) {
		t.Errorf("Districts: got %v, want %v", tbl.Districts(), want)
	}
	if tbl.Len() != 3 {
		t.Errorf("Len: got %d, want 3", tbl.Len())
	}
}

func TestParseKeyColumnAnywhere(t *testing.T) {
	records := [][]string{
		{"Rainfall", "Name"},
		{"12.5", "A"},
	}
	tbl, err := Parse(records, Options{KeyColumn: "Name"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, ok := tbl.Value("A", "Rainfall"); !ok || v != 12.5 {
		t.Errorf("Value(A, Rainfall): got %v, %v", v, ok)
	}
	if tbl.HasMetric("Name") {
		t.Error("key column must not be a metric")
	}
}

func TestParseTrimsHeaderAndCells(t *testing.T) {
	records := [][]string{
		{"\ufeffADM2_EN ", " Rainfall"},
		{"  Matara ", " 42 "},
	}
	tbl, err := Parse(records, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if v, ok := tbl.Value("Matara", "Rainfall"); !ok || v != 42 {
		t.Errorf("Value: got %v, %v", v, ok)
	}
}

func TestParseSkipsBlankRows(t *testing.T) {
	records := [][]string{
		{"ADM2_EN", "Rainfall"},
		{"A", "1"},
		{"", ""},
		{"B", "2"},
	}
	tbl, err := Parse(records, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 2 {
		t.Errorf("Len: got %d, want 2", tbl.Len())
	}
}

func TestParseHeaderOnly(t *testing.T) {
	tbl, err := Parse([][]string{{"ADM2_EN", "Rainfall"}}, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tbl.Len() != 0 {
		t.Errorf("Len: got %d, want 0", tbl.Len())
	}
}

func TestParseNoMetrics(t *testing.T) {
	tbl, err := Parse([][]string{{"ADM2_EN"}, {"A"}}, Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(tbl.Metrics()) != 0 {
		t.Errorf("Metrics: got %v", tbl.Metrics())
	}
}

func TestParseInvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		records [][]string
		field   string
		row     int
		msg     string
	}{
		{
			name:    "empty",
			records: nil,
			msg:     "no header",
		},
		{
			name:    "missing key column",
			records: [][]string{{"District", "Rainfall"}, {"A", "1"}},
			field:   "ADM2_EN",
			row:     1,
			msg:     "missing key column",
		},
		{
			name:    "duplicate header",
			records: [][]string{{"ADM2_EN", "Rainfall", "Rainfall"}, {"A", "1", "2"}},
			field:   "Rainfall",
			row:     1,
			msg:     "duplicate column",
		},
		{
			name:    "empty header",
			records: [][]string{{"ADM2_EN", ""}, {"A", "1"}},
			row:     1,
			msg:     "empty name",
		},
		{
			name:    "duplicate district",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", "1"}, {"B", "2"}, {"A", "3"}},
			field:   "ADM2_EN",
			row:     4,
			msg:     `duplicate district "A" (first seen on row 2)`,
		},
		{
			name:    "non-numeric metric",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", "wet"}},
			field:   "Rainfall",
			row:     2,
			msg:     "not a number",
		},
		{
			name:    "empty metric",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", " "}},
			field:   "Rainfall",
			row:     2,
			msg:     "empty metric value",
		},
		{
			name:    "NaN metric",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", "NaN"}},
			field:   "Rainfall",
			row:     2,
			msg:     "not a finite number",
		},
		{
			name:    "infinite metric",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", "+Inf"}},
			field:   "Rainfall",
			row:     2,
			msg:     "not a finite number",
		},
		{
			name:    "empty district",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {" ", "1"}},
			field:   "ADM2_EN",
			row:     2,
			msg:     "empty district name",
		},
		{
			name:    "ragged row",
			records: [][]string{{"ADM2_EN", "Rainfall"}, {"A", "1", "2"}},
			row:     2,
			msg:     "expected 2 fields, got 3",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.records, Options{})
			if err == nil {
				t.Fatal("expected error")
			}
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
			var ie *InputError
			if !errors.As(err, &ie) {
				t.Fatalf("expected *InputError, got %T", err)
			}
			if ie.Field != tt.field {
				t.Errorf("Field: got %q, want %q", ie.Field, tt.field)
			}
			if ie.Row != tt.row {
				t.Errorf("Row: got %d, want %d", ie.Row, tt.row)
			}
			if !strings.Contains(ie.Message, tt.msg) {
				t.Errorf("Message: got %q, want it to contain %q", ie.Message, tt.msg)
			}
		})
	}
}

// ── Accessors ──

func TestAccessorsReturnCopies(t *testing.T) {
	tbl, err := Parse(sampleRecords(), Options{})
	if err != nil {
		t.Fatal(err)
	}

	col, ok := tbl.Column("Rainfall")
	if !ok {
		t.Fatal("Column(Rainfall) not found")
	}
	col[0] = -1
	if v, _ := tbl.Value("Colombo", "Rainfall"); v != 100 {
		t.Errorf("Column must return a copy; table now holds %v", v)
	}

	row, ok := tbl.Row("Kandy")
	if !ok {
		t.Fatal("Row(Kandy) not found")
	}
	if want := []float64{10, 300}; !reflect.DeepEqual(row, want) {
		t.Errorf("Row: got %v, want %v", row, want)
	}
	row[1] = 0
	if v, _ := tbl.Value("Kandy", "Rainfall"); v != 300 {
		t.Errorf("Row must return a copy; table now holds %v", v)
	}

	names := tbl.Districts()
	names[0] = "X"
	if !tbl.HasDistrict("Colombo") || tbl.HasDistrict("X") {
		t.Error("Districts must return a copy")
	}

	metrics := tbl.Metrics()
	metrics[0] = "X"
	if tbl.Schema().Metrics[0] != "AirQuality" {
		t.Error("Metrics must return a copy")
	}
}

func TestAccessorsUnknownKeys(t *testing.T) {
	tbl, err := Parse(sampleRecords(), Options{})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := tbl.Value("Nowhere", "Rainfall"); ok {
		t.Error("Value: unknown district should not be found")
	}
	if _, ok := tbl.Value("Colombo", "Snow"); ok {
		t.Error("Value: unknown metric should not be found")
	}
	if _, ok := tbl.Column("Snow"); ok {
		t.Error("Column: unknown metric should not be found")
	}
	if _, ok := tbl.Row("Nowhere"); ok {
		t.Error("Row: unknown district should not be found")
	}
}

// ── InputError ──

func TestInputErrorFormatting(t *testing.T) {
	err := Invalid("Rainfall", 7, "not a number: %q", "x")
	want := `invalid input: row 7: "Rainfall": not a number: "x"`
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}

	oor := OutOfRange("districts", "at most %d districts", 3)
	if !errors.Is(oor, ErrSelectionOutOfRange) {
		t.Error("OutOfRange should unwrap to ErrSelectionOutOfRange")
	}
	if errors.Is(oor, ErrInvalidInput) {
		t.Error("OutOfRange should not unwrap to ErrInvalidInput")
	}

	zero := &InputError{Message: "bad"}
	if !errors.Is(zero, ErrInvalidInput) {
		t.Error("zero Kind should default to ErrInvalidInput")
	}
}
