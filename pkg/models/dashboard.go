package models

import "time"

// RankingRow is one line of the per-metric ranking table.
type RankingRow struct {
	District string  `json:"district"`
	Value    float64 `json:"value"`
	Rank     int     `json:"rank"` // 1 = highest value, ties share the best rank
}

// RankingView is the ordered ranking of all districts for one metric.
type RankingView struct {
	Metric string       `json:"metric"`
	Filter string       `json:"filter,omitempty"` // CEL expression that hid rows, if any
	Total  int          `json:"total"`            // districts before filtering
	Min    float64      `json:"min"`              // global minimum of the metric
	Max    float64      `json:"max"`              // global maximum of the metric
	Rows   []RankingRow `json:"rows"`
}

// Profile is one district's normalized metric vector, in schema metric order.
// Every value lies in [0, 1].
type Profile struct {
	District string    `json:"district"`
	Values   []float64 `json:"values"`
}

// ComparisonView is the side-by-side comparison of up to three districts.
// Raw and Ranks are indexed [metric][district], the transposed layout the
// comparison tables are drawn in.
type ComparisonView struct {
	Districts []string    `json:"districts"`
	Metrics   []string    `json:"metrics"`
	Raw       [][]float64 `json:"raw"`
	Ranks     [][]int     `json:"ranks"`
	Profiles  []Profile   `json:"profiles"`
}

// Empty reports whether no district is selected.
func (c ComparisonView) Empty() bool { return len(c.Districts) == 0 }

// View is the complete dashboard state for one interaction.
type View struct {
	Metric     string         `json:"metric"`
	Ranking    RankingView    `json:"ranking"`
	Comparison ComparisonView `json:"comparison"`
	Message    string         `json:"message,omitempty"`
	Timestamp  time.Time      `json:"timestamp"`
}

// RankMatrix is the full district × metric rank table.
type RankMatrix struct {
	Metrics []string        `json:"metrics"`
	Rows    []RankMatrixRow `json:"rows"`
}

// RankMatrixRow holds one district's rank for every metric, in Metrics order.
type RankMatrixRow struct {
	District string `json:"district"`
	Ranks    []int  `json:"ranks"`
}
