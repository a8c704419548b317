package report

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// Colour Scales: ColorBrewer sequential palettes
// ════════════════════════════════════════════════════════════════════

// Scale names a sequential colour palette.
type Scale string

const (
	YlGnBu Scale = "YlGnBu" // ranking table and bar chart
	BuGn   Scale = "BuGn"   // raw-value comparison table
	PuBu   Scale = "PuBu"   // rank comparison table
)

var scaleStops = map[Scale][]string{
	YlGnBu: {"#ffffd9", "#edf8b1", "#c7e9b4", "#7fcdbb", "#41b6c4", "#1d91c0", "#225ea8", "#253494", "#081d58"},
	BuGn:   {"#f7fcfd", "#e5f5f9", "#ccece6", "#99d8c9", "#66c2a4", "#41ae76", "#238b45", "#006d2c", "#00441b"},
	PuBu:   {"#fff7fb", "#ece7f2", "#d0d1e6", "#a6bddb", "#74a9cf", "#3690c0", "#0570b0", "#045a8d", "#023858"},
}

// Stops returns the palette's colour stops, lightest first. Unknown scales
// fall back to YlGnBu.
func (s Scale) Stops() []string {
	if stops, ok := scaleStops[s]; ok {
		return append([]string(nil), stops...)
	}
	return append([]string(nil), scaleStops[YlGnBu]...)
}

// Gradient interpolates the palette at t in [0, 1] and returns a hex colour.
// t is clamped; NaN maps to the lightest colour.
func Gradient(s Scale, t float64) string {
	stops, ok := scaleStops[s]
	if !ok {
		stops = scaleStops[YlGnBu]
	}
	switch {
	case math.IsNaN(t) || t <= 0:
		return stops[0]
	case t >= 1:
		return stops[len(stops)-1]
	}

	pos := t * float64(len(stops)-1)
	i := int(pos)
	frac := pos - float64(i)
	a, b := parseHex(stops[i]), parseHex(stops[i+1])
	var c [3]float64
	for k := range c {
		c[k] = a[k] + (b[k]-a[k])*frac
	}
	return fmt.Sprintf("#%02x%02x%02x", int(math.Round(c[0])), int(math.Round(c[1])), int(math.Round(c[2])))
}

// Position maps v onto [0, 1] within [lo, hi]. A degenerate range maps to 0.
func Position(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	return math.Max(0, math.Min(1, (v-lo)/(hi-lo)))
}

// TextColor picks black or white text for legibility on background bg,
// switching to white below a relative luminance of 0.408.
func TextColor(bg string) string {
	c := parseHex(bg)
	lin := func(v float64) float64 {
		v /= 255
		if v <= 0.03928 {
			return v / 12.92
		}
		return math.Pow((v+0.055)/1.055, 2.4)
	}
	lum := 0.2126*lin(c[0]) + 0.7152*lin(c[1]) + 0.0722*lin(c[2])
	if lum < 0.408 {
		return "#f1f1f1"
	}
	return "#000000"
}

func parseHex(h string) [3]float64 {
	h = strings.TrimPrefix(h, "#")
	var c [3]float64
	if len(h) != 6 {
		return c
	}
	for k := 0; k < 3; k++ {
		v, err := strconv.ParseUint(h[2*k:2*k+2], 16, 8)
		if err != nil {
			return [3]float64{}
		}
		c[k] = float64(v)
	}
	return c
}
