package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/seenimoa/envirorank/internal/dashboard"
	"github.com/seenimoa/envirorank/internal/report"
	"github.com/seenimoa/envirorank/pkg/models"
)

// --- Export Command ---

func exportCmd() *cobra.Command {
	var (
		metric    string
		districts []string
		outPath   string
		format    string
		engine    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the dashboard to an HTML, SVG or PDF file",
		Long: `Write a standalone copy of the dashboard for one metric and an optional
selection of up to three districts.

  html  the full page, without the interactive controls
  svg   the bar chart; with a selection the radar chart is written
        next to it as <name>-radar.svg
  pdf   the page converted with wkhtmltopdf or headless chromium; without
        either the HTML page is written instead`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if outPath == "" {
				return fmt.Errorf("--out is required")
			}
			if format == "" {
				format = strings.TrimPrefix(strings.ToLower(filepath.Ext(outPath)), ".")
			}

			dc, err := loadContext()
			if err != nil {
				return err
			}
			view, err := dc.View(metric, districts, "")
			if err != nil {
				return err
			}

			var written []string
			switch format {
			case "html":
				written, err = exportHTML(dc, view, outPath)
			case "svg":
				written, err = exportSVG(view, outPath)
			case "pdf":
				written, err = exportPDF(cmd, dc, view, outPath, engine)
			default:
				return fmt.Errorf("unknown export format %q (want html, svg or pdf)", format)
			}
			if err != nil {
				return err
			}
			for _, p := range written {
				slog.Info("exported", "path", p, "metric", view.Metric, "selection", view.Comparison.Districts)
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&metric, "metric", "", "metric to rank (default: dashboard.default_metric)")
	cmd.Flags().StringArrayVar(&districts, "district", nil, "district to compare (repeatable, at most 3)")
	cmd.Flags().StringVar(&outPath, "out", "", "output file")
	cmd.Flags().StringVar(&format, "format", "", "html, svg or pdf (default: from --out extension)")
	cmd.Flags().StringVar(&engine, "pdf-engine", "", "wkhtmltopdf, chromium or none (default: auto-detect)")
	return cmd
}

// renderStandalone renders the page without controls or live script.
func renderStandalone(dc *dashboard.Context, view models.View, r report.Renderer) (string, error) {
	return report.RenderPageString(report.PageData{
		Title:            cfg.Dashboard.Title,
		View:             view,
		Metrics:          dc.Table().Metrics(),
		Districts:        dc.Table().Districts(),
		MaxSelections:    dc.MaxSelections(),
		ValuePrecision:   cfg.Dashboard.ValuePrecision,
		ComparePrecision: cfg.Dashboard.ComparePrecision,
		Renderer:         r,
		Standalone:       true,
		Version:          version,
	})
}

func exportHTML(dc *dashboard.Context, view models.View, outPath string) ([]string, error) {
	r, err := report.NewRenderer(cfg.Dashboard.Renderer)
	if err != nil {
		return nil, err
	}
	html, err := renderStandalone(dc, view, r)
	if err != nil {
		return nil, err
	}
	if err := writeFile(outPath, []byte(html)); err != nil {
		return nil, err
	}
	return []string{outPath}, nil
}

// exportSVG writes the bar chart and, for a selection, the radar chart.
func exportSVG(view models.View, outPath string) ([]string, error) {
	chartCfg := report.DefaultChartConfig()
	written := []string{outPath}

	var g errgroup.Group
	g.Go(func() error {
		return writeFile(outPath, []byte(report.BarChart(view.Ranking, chartCfg)))
	})
	if !view.Comparison.Empty() {
		radarPath := strings.TrimSuffix(outPath, filepath.Ext(outPath)) + "-radar.svg"
		written = append(written, radarPath)
		g.Go(func() error {
			svg := report.RadarChart(view.Comparison.Profiles, view.Comparison.Metrics, report.ChartConfig{})
			return writeFile(radarPath, []byte(svg))
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return written, nil
}

// exportPDF renders with the static SVG charts so the converter needs no
// script execution.
func exportPDF(cmd *cobra.Command, dc *dashboard.Context, view models.View, outPath, engine string) ([]string, error) {
	html, err := renderStandalone(dc, view, report.SVGRenderer{})
	if err != nil {
		return nil, err
	}
	pdfCfg := report.DefaultPDFConfig()
	pdfCfg.OutputPath = outPath
	pdfCfg.Engine = report.PDFEngine(engine)
	path, err := report.GeneratePDF(cmd.Context(), html, pdfCfg)
	if err != nil {
		return nil, err
	}
	if path != outPath {
		slog.Warn("no PDF engine found, wrote HTML instead", "path", path)
	}
	return []string{path}, nil
}

func writeFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}
