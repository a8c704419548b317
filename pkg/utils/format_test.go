package utils

import "testing"

func TestFormatValue(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		expected  string
	}{
		{2500.5, 3, "2500.500"},
		{0.12345, 2, "0.12"},
		{3, 0, "3"},
		{-1.5, 1, "-1.5"},
		{7, -1, "7"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatValue(tt.v, tt.precision)
			if result != tt.expected {
				t.Errorf("FormatValue(%v, %d) = %s, want %s", tt.v, tt.precision, result, tt.expected)
			}
		})
	}
}

func TestFormatGrouped(t *testing.T) {
	tests := []struct {
		v         float64
		precision int
		expected  string
	}{
		{999, 0, "999"},
		{1000, 0, "1,000"},
		{1234567.891, 2, "1,234,567.89"},
		{-123456, 1, "-123,456.0"},
		{-0.001, 2, "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatGrouped(tt.v, tt.precision)
			if result != tt.expected {
				t.Errorf("FormatGrouped(%v, %d) = %s, want %s", tt.v, tt.precision, result, tt.expected)
			}
		})
	}
}

func TestFormatCompact(t *testing.T) {
	tests := []struct {
		input    float64
		expected string
	}{
		{0.25, "0.25"},
		{500, "500"},
		{1500, "1.5K"},
		{2500000, "2.5M"},
		{3e9, "3B"},
		{-1200, "-1.2K"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatCompact(tt.input)
			if result != tt.expected {
				t.Errorf("FormatCompact(%v) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}

func TestFormatOrdinal(t *testing.T) {
	tests := []struct {
		input    int
		expected string
	}{
		{1, "1st"},
		{2, "2nd"},
		{3, "3rd"},
		{4, "4th"},
		{11, "11th"},
		{12, "12th"},
		{13, "13th"},
		{21, "21st"},
		{22, "22nd"},
		{113, "113th"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := FormatOrdinal(tt.input)
			if result != tt.expected {
				t.Errorf("FormatOrdinal(%d) = %s, want %s", tt.input, result, tt.expected)
			}
		})
	}
}
