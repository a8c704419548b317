package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

// ── Comparison Tests ──

func TestComparisonViewEmpty(t *testing.T) {
	if !(ComparisonView{}).Empty() {
		t.Error("zero ComparisonView should be empty")
	}
	cv := ComparisonView{Districts: []string{"Colombo"}}
	if cv.Empty() {
		t.Error("ComparisonView with a district should not be empty")
	}
}

// ── Wire Format Tests ──

func TestRankingViewJSONOmitsEmptyFilter(t *testing.T) {
	data, err := json.Marshal(RankingView{Metric: "Rainfall", Total: 1, Rows: []RankingRow{{District: "Galle", Value: 2500, Rank: 1}}})
	if err != nil {
		t.Fatalf("json.Marshal(RankingView) error: %v", err)
	}
	s := string(data)
	if strings.Contains(s, `"filter"`) {
		t.Errorf("empty filter should be omitted: %s", s)
	}
	if !strings.Contains(s, `{"district":"Galle","value":2500,"rank":1}`) {
		t.Errorf("row encoding: got %s", s)
	}
}

func TestViewJSONFields(t *testing.T) {
	v := View{
		Metric:    "Forest",
		Message:   "Please select 1-3 districts to compare.",
		Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("json.Marshal(View) error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("json.Unmarshal error: %v", err)
	}
	for _, key := range []string{"metric", "ranking", "comparison", "message", "timestamp"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("missing key %q in %s", key, data)
		}
	}
	if decoded["timestamp"] != "2025-03-01T10:00:00Z" {
		t.Errorf("timestamp: got %v", decoded["timestamp"])
	}
}
