package report

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ════════════════════════════════════════════════════════════════════
// PDF Export: HTML → PDF via wkhtmltopdf / chromium headless
// ════════════════════════════════════════════════════════════════════

// PDFEngine specifies which engine to use for HTML→PDF conversion.
type PDFEngine string

const (
	EngineAuto     PDFEngine = ""
	EngineWKHTML   PDFEngine = "wkhtmltopdf"
	EngineChromium PDFEngine = "chromium"
	EngineNone     PDFEngine = "none" // skip PDF, write HTML
)

var chromiumBinaries = []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}

// PDFConfig holds configuration for PDF generation.
type PDFConfig struct {
	Engine       PDFEngine // default: auto-detect
	PageSize     string    // default: "A4"
	Orientation  string    // "landscape" (default) or "portrait"
	MarginTop    string    // default: "10mm"
	MarginBottom string    // default: "10mm"
	MarginLeft   string    // default: "10mm"
	MarginRight  string    // default: "10mm"
	OutputPath   string    // required
}

// DefaultPDFConfig returns defaults suited to the wide dashboard layout.
func DefaultPDFConfig() PDFConfig {
	return PDFConfig{
		Engine:       EngineAuto,
		PageSize:     "A4",
		Orientation:  "landscape",
		MarginTop:    "10mm",
		MarginBottom: "10mm",
		MarginLeft:   "10mm",
		MarginRight:  "10mm",
	}
}

// DetectPDFEngine checks which PDF engine is available on the system.
func DetectPDFEngine() PDFEngine {
	if _, err := exec.LookPath("wkhtmltopdf"); err == nil {
		return EngineWKHTML
	}
	if chromiumPath() != "" {
		return EngineChromium
	}
	return EngineNone
}

// GeneratePDF converts an HTML page to a PDF at cfg.OutputPath. When no
// engine is available the HTML is written next to it instead, and the path
// actually written is returned.
func GeneratePDF(ctx context.Context, html string, cfg PDFConfig) (string, error) {
	if cfg.OutputPath == "" {
		return "", fmt.Errorf("output path is required")
	}
	def := DefaultPDFConfig()
	if cfg.PageSize == "" {
		cfg.PageSize = def.PageSize
	}
	if cfg.Orientation == "" {
		cfg.Orientation = def.Orientation
	}
	for _, m := range []*string{&cfg.MarginTop, &cfg.MarginBottom, &cfg.MarginLeft, &cfg.MarginRight} {
		if *m == "" {
			*m = "10mm"
		}
	}

	engine := cfg.Engine
	if engine == EngineAuto {
		engine = DetectPDFEngine()
	}

	switch engine {
	case EngineWKHTML:
		return cfg.OutputPath, generateWithWKHTML(ctx, html, cfg)
	case EngineChromium:
		return cfg.OutputPath, generateWithChromium(ctx, html, cfg)
	case EngineNone:
		return writeHTMLFallback(html, cfg.OutputPath)
	default:
		return "", fmt.Errorf("unsupported PDF engine: %s", engine)
	}
}

func generateWithWKHTML(ctx context.Context, html string, cfg PDFConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	args := []string{
		"--page-size", cfg.PageSize,
		"--orientation", cfg.Orientation,
		"--margin-top", cfg.MarginTop,
		"--margin-bottom", cfg.MarginBottom,
		"--margin-left", cfg.MarginLeft,
		"--margin-right", cfg.MarginRight,
		"--encoding", "UTF-8",
		"--enable-local-file-access",
		"--javascript-delay", "1000",
		"--quiet",
		tmpFile,
		cfg.OutputPath,
	}

	cmd := exec.CommandContext(ctx, "wkhtmltopdf", args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("wkhtmltopdf failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func generateWithChromium(ctx context.Context, html string, cfg PDFConfig) error {
	tmpFile, err := writeTempHTML(html)
	if err != nil {
		return err
	}
	defer os.Remove(tmpFile)

	bin := chromiumPath()
	if bin == "" {
		return fmt.Errorf("chromium not found in PATH")
	}

	absOutput, err := filepath.Abs(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("resolving output path: %w", err)
	}

	args := []string{
		"--headless",
		"--disable-gpu",
		"--no-sandbox",
		"--print-to-pdf=" + absOutput,
		"--print-to-pdf-no-header",
	}
	if strings.EqualFold(cfg.Orientation, "landscape") {
		args = append(args, "--landscape")
	}
	args = append(args, "file://"+tmpFile)

	cmd := exec.CommandContext(ctx, bin, args...)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("chromium PDF export failed: %w\nOutput: %s", err, string(output))
	}
	return nil
}

func chromiumPath() string {
	for _, name := range chromiumBinaries {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	return ""
}

func writeTempHTML(html string) (string, error) {
	f, err := os.CreateTemp("", "envirorank_report_*.html")
	if err != nil {
		return "", fmt.Errorf("creating temp HTML: %w", err)
	}
	defer f.Close()
	if _, err := f.WriteString(html); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp HTML: %w", err)
	}
	return f.Name(), nil
}

// writeHTMLFallback swaps a .pdf extension for .html and writes the page.
func writeHTMLFallback(html string, outputPath string) (string, error) {
	if strings.HasSuffix(strings.ToLower(outputPath), ".pdf") {
		outputPath = outputPath[:len(outputPath)-4] + ".html"
	}
	if err := os.MkdirAll(filepath.Dir(outputPath), 0755); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}
	if err := os.WriteFile(outputPath, []byte(html), 0644); err != nil {
		return "", fmt.Errorf("writing HTML fallback: %w", err)
	}
	return outputPath, nil
}
