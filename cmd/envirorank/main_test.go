package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/pterm/pterm"

	"github.com/seenimoa/envirorank/internal/dataset"
	"github.com/seenimoa/envirorank/pkg/models"
)

const testCSV = `ADM2_EN,AirQuality,Rainfall,Forest
Colombo,80,2400,5
Kandy,60,1900,30
Jaffna,40,1200,2
Galle,80,2500,18
Badulla,55,1800,25
`

// writeFixture writes the table and a config file pointing at it and
// returns the config path.
func writeFixture(t *testing.T, csv string) string {
	t.Helper()
	dir := t.TempDir()
	data := filepath.Join(dir, "districts.csv")
	if err := os.WriteFile(data, []byte(csv), 0o644); err != nil {
		t.Fatalf("write table: %v", err)
	}
	conf := filepath.Join(dir, "config.yaml")
	yaml := "dataset:\n  path: " + data + "\ndashboard:\n  renderer: svg\nlogging:\n  level: error\n"
	if err := os.WriteFile(conf, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return conf
}

// run executes the CLI with args and returns stdout.
func run(t *testing.T, conf string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{"--config", conf}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestVersion(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.Contains(out, "envirorank dev") {
		t.Errorf("version output: got %q", out)
	}
}

func TestRankTable(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "rank", "AirQuality")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	colombo := strings.Index(out, "Colombo")
	galle := strings.Index(out, "Galle")
	jaffna := strings.Index(out, "Jaffna")
	if colombo < 0 || galle < 0 || jaffna < 0 {
		t.Fatalf("rank output missing districts:\n%s", out)
	}
	if !(colombo < galle && galle < jaffna) {
		t.Errorf("rank order: want Colombo, Galle, ..., Jaffna\n%s", out)
	}
}

func TestRankJSON(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "rank", "AirQuality", "-o", "json")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var view models.RankingView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}

	want := []models.RankingRow{
		{District: "Colombo", Value: 80, Rank: 1},
		{District: "Galle", Value: 80, Rank: 1},
		{District: "Kandy", Value: 60, Rank: 3},
		{District: "Badulla", Value: 55, Rank: 4},
		{District: "Jaffna", Value: 40, Rank: 5},
	}
	if len(view.Rows) != len(want) {
		t.Fatalf("rows: got %d, want %d", len(view.Rows), len(want))
	}
	for i, w := range want {
		if view.Rows[i] != w {
			t.Errorf("row %d: got %+v, want %+v", i, view.Rows[i], w)
		}
	}
	if view.Min != 40 || view.Max != 80 {
		t.Errorf("range: got [%v, %v], want [40, 80]", view.Min, view.Max)
	}
}

func TestRankWhere(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "rank", "AirQuality", "--where", `m["Forest"] > 10.0`, "-o", "json")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var view models.RankingView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	var got []string
	for _, r := range view.Rows {
		got = append(got, r.District)
	}
	if strings.Join(got, ",") != "Galle,Kandy,Badulla" {
		t.Errorf("filtered rows: got %v", got)
	}
	if view.Total != 5 {
		t.Errorf("total: got %d, want 5", view.Total)
	}
	if view.Rows[0].Rank != 1 || view.Rows[1].Rank != 3 {
		t.Errorf("filter must keep global ranks: got %+v", view.Rows)
	}
}

func TestRankErrors(t *testing.T) {
	conf := writeFixture(t, testCSV)

	_, err := run(t, conf, "rank", "Humidity")
	if !errors.Is(err, dataset.ErrSelectionOutOfRange) {
		t.Errorf("unknown metric: got %v, want ErrSelectionOutOfRange", err)
	}

	_, err = run(t, conf, "rank", "AirQuality", "--where", "m[")
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Errorf("bad filter: got %v, want ErrInvalidInput", err)
	}

	_, err = run(t, conf, "rank", "AirQuality", "-o", "xml")
	if err == nil {
		t.Error("unknown output format: expected error")
	}
}

func TestCompareJSON(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "compare", "Colombo", " kandy ", "-o", "json")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	var view models.ComparisonView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(view.Districts, ",") != "Colombo,Kandy" {
		t.Errorf("districts: got %v", view.Districts)
	}
	// AirQuality: Colombo ties Galle for first, Kandy third.
	if view.Ranks[0][0] != 1 || view.Ranks[0][1] != 3 {
		t.Errorf("AirQuality ranks: got %v, want [1 3]", view.Ranks[0])
	}
	if len(view.Profiles) != 2 {
		t.Fatalf("profiles: got %d, want 2", len(view.Profiles))
	}
	if got := view.Profiles[0].Values[0]; got != 1 {
		t.Errorf("Colombo AirQuality normalized: got %v, want 1", got)
	}
}

func TestCompareTable(t *testing.T) {
	out, err := run(t, writeFixture(t, testCSV), "compare", "Jaffna", "Galle")
	if err != nil {
		t.Fatalf("compare: %v", err)
	}
	for _, want := range []string{"Raw values", "Ranks", "Jaffna", "Galle", "Rainfall", "2,500"} {
		if !strings.Contains(out, want) {
			t.Errorf("compare output missing %q:\n%s", want, out)
		}
	}
}

func TestCompareRejected(t *testing.T) {
	conf := writeFixture(t, testCSV)

	_, err := run(t, conf, "compare", "Colombo", "Kandy", "Galle", "Jaffna")
	if !errors.Is(err, dataset.ErrSelectionOutOfRange) {
		t.Errorf("four districts: got %v, want ErrSelectionOutOfRange", err)
	}

	_, err = run(t, conf, "compare", "Atlantis")
	if !errors.Is(err, dataset.ErrSelectionOutOfRange) {
		t.Errorf("unknown district: got %v, want ErrSelectionOutOfRange", err)
	}
}

func TestSchema(t *testing.T) {
	conf := writeFixture(t, testCSV)

	out, err := run(t, conf, "schema", "-o", "json")
	if err != nil {
		t.Fatalf("schema json: %v", err)
	}
	var schema dataset.Schema
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if schema.KeyColumn != "ADM2_EN" || strings.Join(schema.Metrics, ",") != "AirQuality,Rainfall,Forest" {
		t.Errorf("schema: got %+v", schema)
	}

	out, err = run(t, conf, "schema", "-o", "yaml")
	if err != nil {
		t.Fatalf("schema yaml: %v", err)
	}
	if !strings.Contains(out, "key_column: ADM2_EN") || !strings.Contains(out, "- Rainfall") {
		t.Errorf("schema yaml: got %q", out)
	}

	pterm.DisableColor()
	out, err = run(t, conf, "schema")
	if err != nil {
		t.Fatalf("schema table: %v", err)
	}
	if !strings.Contains(out, "Key column: ADM2_EN (5 districts)") || !strings.Contains(out, "Forest") {
		t.Errorf("schema table: got %q", out)
	}
}

func TestInvalidTableFails(t *testing.T) {
	conf := writeFixture(t, "ADM2_EN,AirQuality\nColombo,80\nKandy,n/a\n")
	_, err := run(t, conf, "rank", "AirQuality")
	if !errors.Is(err, dataset.ErrInvalidInput) {
		t.Errorf("got %v, want ErrInvalidInput", err)
	}
}

func TestDataFlagOverridesConfig(t *testing.T) {
	conf := writeFixture(t, testCSV)
	other := filepath.Join(t.TempDir(), "other.csv")
	if err := os.WriteFile(other, []byte("ADM2_EN,Noise\nMatara,3\nGalle,7\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, err := run(t, conf, "--data", other, "rank", "Noise", "-o", "json")
	if err != nil {
		t.Fatalf("rank: %v", err)
	}
	var view models.RankingView
	if err := json.Unmarshal([]byte(out), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(view.Rows) != 2 || view.Rows[0].District != "Galle" {
		t.Errorf("rows: got %+v", view.Rows)
	}
}

func TestInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	conf := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(conf, []byte("dashboard:\n  renderer: canvas\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := run(t, conf, "version")
	if err == nil || !strings.Contains(err.Error(), "renderer") {
		t.Errorf("got %v, want renderer error", err)
	}
}

func TestExportHTML(t *testing.T) {
	conf := writeFixture(t, testCSV)
	outPath := filepath.Join(t.TempDir(), "report.html")

	out, err := run(t, conf, "export", "--metric", "Rainfall", "--district", "Colombo", "--district", "Jaffna", "--out", outPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if strings.TrimSpace(out) != outPath {
		t.Errorf("written path: got %q, want %q", out, outPath)
	}

	f, err := os.Open(outPath)
	if err != nil {
		t.Fatalf("open export: %v", err)
	}
	defer f.Close()
	doc, err := goquery.NewDocumentFromReader(f)
	if err != nil {
		t.Fatalf("parse export: %v", err)
	}
	if doc.Find("#controls").Length() != 0 {
		t.Error("standalone export must not contain controls")
	}
	if got := doc.Find("#ranking-table tbody tr").Length(); got != 5 {
		t.Errorf("ranking rows: got %d, want 5", got)
	}
	if got := doc.Find("#ranking-table tbody tr").First().Find("td").First().Text(); got != "Galle" {
		t.Errorf("first ranked: got %q, want Galle", got)
	}
	if doc.Find("#raw-table").Length() != 1 || doc.Find("#radar-chart svg").Length() != 1 {
		t.Error("export with a selection must contain the comparison")
	}
}

func TestExportSVG(t *testing.T) {
	conf := writeFixture(t, testCSV)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "charts", "forest.svg")

	out, err := run(t, conf, "export", "--metric", "Forest", "--district", "Kandy", "--out", outPath)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	radarPath := filepath.Join(dir, "charts", "forest-radar.svg")
	if got := strings.Fields(out); len(got) != 2 || got[1] != radarPath {
		t.Errorf("written paths: got %v", got)
	}
	for _, p := range []string{outPath, radarPath} {
		data, err := os.ReadFile(p)
		if err != nil {
			t.Fatalf("read %s: %v", p, err)
		}
		if !strings.HasPrefix(string(data), "<svg") {
			t.Errorf("%s: not an SVG document", p)
		}
	}
}

func TestExportPDFFallback(t *testing.T) {
	conf := writeFixture(t, testCSV)
	outPath := filepath.Join(t.TempDir(), "report.pdf")

	out, err := run(t, conf, "export", "--out", outPath, "--pdf-engine", "none")
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	htmlPath := strings.TrimSuffix(outPath, ".pdf") + ".html"
	if strings.TrimSpace(out) != htmlPath {
		t.Errorf("written path: got %q, want %q", out, htmlPath)
	}
	if _, err := os.Stat(htmlPath); err != nil {
		t.Errorf("fallback HTML missing: %v", err)
	}
}

func TestExportErrors(t *testing.T) {
	conf := writeFixture(t, testCSV)
	dir := t.TempDir()

	if _, err := run(t, conf, "export"); err == nil {
		t.Error("missing --out: expected error")
	}
	if _, err := run(t, conf, "export", "--out", filepath.Join(dir, "report.docx")); err == nil {
		t.Error("unknown format: expected error")
	}
	_, err := run(t, conf, "export", "--out", filepath.Join(dir, "r.html"), "--metric", "Humidity")
	if !errors.Is(err, dataset.ErrSelectionOutOfRange) {
		t.Errorf("unknown metric: got %v, want ErrSelectionOutOfRange", err)
	}
}

func TestStatus(t *testing.T) {
	pterm.DisableColor()
	out, err := run(t, writeFixture(t, testCSV), "status")
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	for _, want := range []string{"Settings", "dataset.path", "5 districts, 3 metrics", "default metric: AirQuality"} {
		if !strings.Contains(out, want) {
			t.Errorf("status output missing %q:\n%s", want, out)
		}
	}
}

func TestServePortValidation(t *testing.T) {
	_, err := run(t, writeFixture(t, testCSV), "serve", "--port", "70000")
	if err == nil || !strings.Contains(err.Error(), "port") {
		t.Errorf("got %v, want port error", err)
	}
}
