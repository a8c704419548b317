package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/seenimoa/envirorank/pkg/models"
	"github.com/seenimoa/envirorank/pkg/utils"
)

// --- Rank Command ---

func rankCmd() *cobra.Command {
	var where, output string

	cmd := &cobra.Command{
		Use:   "rank <metric>",
		Short: "Rank every district on one metric",
		Long: `Rank every district on one metric, highest value first. Tied values
share the best rank. --where hides rows with a CEL expression over
district, m (raw values) and rank, e.g. --where 'm["Rainfall"] > 200.0'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dc, err := loadContext()
			if err != nil {
				return err
			}
			view, err := dc.Ranking(args[0], where)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return printJSON(out, view)
			case "table", "":
				printRanking(out, view, cfg.Dashboard.ValuePrecision)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", output)
			}
		},
	}
	cmd.Flags().StringVar(&where, "where", "", "CEL filter expression")
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}

func printRanking(out io.Writer, view models.RankingView, precision int) {
	table := tablewriter.NewWriter(out)
	table.Append([]string{"Rank", "District", view.Metric})
	for _, row := range view.Rows {
		table.Append([]string{
			strconv.Itoa(row.Rank),
			row.District,
			utils.FormatValue(row.Value, precision),
		})
	}
	table.Render()

	if view.Filter != "" {
		fmt.Fprintf(out, "Filter: %s (showing %d of %d)\n", view.Filter, len(view.Rows), view.Total)
	}
}

// --- Compare Command ---

func compareCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "compare <district>...",
		Short: "Compare up to three districts across every metric",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dc, err := loadContext()
			if err != nil {
				return err
			}
			sel, err := dc.ResolveSelection(args)
			if err != nil {
				return err
			}
			view, err := dc.Compare(sel)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch output {
			case "json":
				return printJSON(out, view)
			case "table", "":
				printComparison(out, view, cfg.Dashboard.ComparePrecision)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}

// printComparison writes the raw values and the ranks as two
// metric × district tables.
func printComparison(out io.Writer, view models.ComparisonView, precision int) {
	header := append([]string{"Metric"}, view.Districts...)

	fmt.Fprintln(out, "Raw values")
	raw := tablewriter.NewWriter(out)
	raw.Append(header)
	for i, m := range view.Metrics {
		row := []string{m}
		for _, v := range view.Raw[i] {
			row = append(row, utils.FormatGrouped(v, precision))
		}
		raw.Append(row)
	}
	raw.Render()

	fmt.Fprintln(out, "Ranks")
	ranks := tablewriter.NewWriter(out)
	ranks.Append(header)
	for i, m := range view.Metrics {
		row := []string{m}
		for _, r := range view.Ranks[i] {
			row = append(row, utils.FormatOrdinal(r))
		}
		ranks.Append(row)
	}
	ranks.Render()
}

// --- Schema Command ---

func schemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Show the columns derived from the district table",
		RunE: func(cmd *cobra.Command, args []string) error {
			dc, err := loadContext()
			if err != nil {
				return err
			}
			schema := dc.Schema()
			stats := dc.Stats()
			out := cmd.OutOrStdout()

			switch output {
			case "json":
				return printJSON(out, schema)
			case "yaml":
				data, err := schema.YAML()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			case "table", "":
				data := pterm.TableData{{"#", "Metric", "Min", "Max"}}
				for i, m := range schema.Metrics {
					r, _ := stats.Range(m)
					data = append(data, []string{
						strconv.Itoa(i + 1),
						m,
						utils.FormatCompact(r.Min),
						utils.FormatCompact(r.Max),
					})
				}
				rendered, err := pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Srender()
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Key column: %s (%d districts)\n", schema.KeyColumn, dc.Table().Len())
				fmt.Fprintln(out, rendered)
				return nil
			default:
				return fmt.Errorf("unknown output format %q (want table, yaml or json)", output)
			}
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, yaml, json)")
	return cmd
}

func printJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
