package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/engine/report"
	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/engine/selector"
)

var (
	tableFormat string
	tableWhere  string
	tableRows   int
)

var tableCmd = &cobra.Command{
	Use:   "table",
	Short: "Print the generated sensor table (CSV, JSON)",
	Long: `Generate the fleet and print the assembled table to stdout instead of rendering it.
No image is written.

Example:
  sensordash table --rows 10 --where 'machine == "Inj" && sensor != "Oil"'`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var sel *selector.Selector
		if tableWhere != "" {
			s, err := selector.Compile(tableWhere)
			if err != nil {
				return err
			}
			sel = s
		}

		eng, err := newEngine(cmd.Context())
		if err != nil {
			return err
		}
		defer eng.Close(cmd.Context())

		table, err := eng.Generate(cmd.Context())
		if err != nil {
			return err
		}

		cols, err := sel.Filter(table.Columns())
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch tableFormat {
		case "csv":
			return report.WriteCSV(out, table, cols, tableRows)
		case "json":
			return report.WriteJSON(out, table, cols, tableRows)
		default:
			return fmt.Errorf("unknown format %q (want csv or json)", tableFormat)
		}
	},
}

func init() {
	tableCmd.Flags().StringVarP(&tableFormat, "format", "f", "csv", "Output format (csv, json)")
	tableCmd.Flags().StringVar(&tableWhere, "where", "", "CEL column filter over machine, sensor and column")
	tableCmd.Flags().IntVarP(&tableRows, "rows", "n", 0, "Print only the first N rows (0 prints all)")
}
