package main

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/seenimoa/envirorank/internal/config"
	"github.com/seenimoa/envirorank/internal/report"
	"github.com/seenimoa/envirorank/pkg/utils"
)

// --- Status Command ---

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and dataset status",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprint(out, pterm.DefaultHeader.
				WithFullWidth().
				WithBackgroundStyle(pterm.NewStyle(pterm.BgDarkGray)).
				WithTextStyle(pterm.NewStyle(pterm.FgLightCyan, pterm.Bold)).
				Sprintln("envirorank "+version))

			summary := fmt.Sprintf("Time:      %s\nDashboard: %s\nRenderer:  %s\nPDF:       %s",
				utils.FormatDateTime(utils.NowSLST()),
				cfg.Dashboard.Title,
				cfg.Dashboard.Renderer,
				pdfEngineName(),
			)
			fmt.Fprint(out, pterm.DefaultBox.WithTitle("Status").WithTitleTopCenter().Sprintln(summary))

			fmt.Fprint(out, pterm.DefaultSection.Sprintln("Settings"))
			data := pterm.TableData{{"Setting", "Key", "Value", "Source"}}
			for _, s := range config.CheckSettings(cfg) {
				data = append(data, []string{s.Name, s.Key, s.Value, string(s.Source)})
			}
			rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
			if err != nil {
				return err
			}
			fmt.Fprintln(out, rendered)

			fmt.Fprint(out, pterm.DefaultSection.Sprintln("Dataset"))
			dc, err := loadContext()
			if err != nil {
				fmt.Fprint(out, pterm.Error.Sprintln(err.Error()))
				return err
			}
			schema := dc.Schema()
			fmt.Fprint(out, pterm.Success.Sprintf("%s: %d districts, %d metrics (key column %s)\n",
				cfg.Dataset.Path, dc.Table().Len(), len(schema.Metrics), schema.KeyColumn))
			fmt.Fprint(out, pterm.Info.Sprintf("default metric: %s, up to %d districts per comparison\n",
				dc.DefaultMetric(), dc.MaxSelections()))
			return nil
		},
	}
}

func pdfEngineName() string {
	if engine := report.DetectPDFEngine(); engine != report.EngineNone {
		return string(engine)
	}
	return "none (HTML fallback)"
}
