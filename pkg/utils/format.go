// Package utils provides common utility functions for envirorank.
package utils

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue formats a metric value with a fixed number of decimals.
// e.g., FormatValue(2500.5, 3) → "2500.500"
func FormatValue(v float64, precision int) string {
	if precision < 0 {
		precision = 0
	}
	return strconv.FormatFloat(v, 'f', precision, 64)
}

// FormatGrouped formats a value with thousands separators and the given
// number of decimals.
// e.g., FormatGrouped(1234567.891, 2) → "1,234,567.89"
func FormatGrouped(v float64, precision int) string {
	s := FormatValue(math.Abs(v), precision)
	intPart, decPart, hasDec := strings.Cut(s, ".")

	grouped := groupThousands(intPart)
	if hasDec {
		grouped += "." + decPart
	}
	if v < 0 && strings.Trim(s, "0.") != "" {
		return "-" + grouped
	}
	return grouped
}

// FormatCompact formats a value in short notation for chart axes.
// e.g., 1500 → "1.5K", 2500000 → "2.5M", 0.25 → "0.25"
func FormatCompact(v float64) string {
	a := math.Abs(v)
	sign := ""
	if v < 0 {
		sign = "-"
	}
	switch {
	case a >= 1e9:
		return sign + trimDecimals(a/1e9) + "B"
	case a >= 1e6:
		return sign + trimDecimals(a/1e6) + "M"
	case a >= 1e3:
		return sign + trimDecimals(a/1e3) + "K"
	default:
		return sign + trimDecimals(a)
	}
}

// FormatOrdinal formats a rank as an English ordinal.
// e.g., 1 → "1st", 12 → "12th", 23 → "23rd"
func FormatOrdinal(n int) string {
	suffix := "th"
	switch n % 100 {
	case 11, 12, 13:
	default:
		switch n % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%d%s", n, suffix)
}

// groupThousands inserts commas every three digits from the right.
func groupThousands(digits string) string {
	if len(digits) <= 3 {
		return digits
	}
	var b strings.Builder
	head := len(digits) % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}

// trimDecimals formats with up to 2 decimal places, removing trailing zeros.
func trimDecimals(n float64) string {
	s := fmt.Sprintf("%.2f", n)
	s = strings.TrimRight(s, "0")
	s = strings.TrimRight(s, ".")
	return s
}
