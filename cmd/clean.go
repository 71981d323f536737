package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/cleaning"
	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	clWorkspace string
	clOp        string
	clValue     string
	clOutput    string
)

var cleanCmd = &cobra.Command{
	Use:   "clean <file>",
	Short: "Drop or fill missing values and export the result as CSV",
	Example: `  csvlens clean data.csv --op drop-rows -o clean.csv
  csvlens clean data.csv --op drop-cols -o clean.csv
  csvlens clean data.csv --op fill --value 0 -o clean.csv`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		op, err := cleaning.ParseOp(clOp)
		if err != nil {
			return fmt.Errorf("%w (use drop-rows|drop-cols|fill)", err)
		}
		var ws *workspace.Workspace
		if clWorkspace != "" {
			if ws, err = loadWorkspace(clWorkspace); err != nil {
				return err
			}
		}
		value := clValue
		if op == cleaning.Fill && !cmd.Flags().Changed("value") {
			switch {
			case ws != nil && ws.Settings.FillValue != "":
				value = ws.Settings.FillValue
			case cfg.FillValue != "":
				value = cfg.FillValue
			default:
				return fmt.Errorf("--value is required for --op fill (or set fill_value in config)")
			}
		}

		t, err := loadTable(resolveInput(args[0], ws), ws, "", 0)
		if err != nil {
			return err
		}
		out, err := cleaning.Apply(t, op, value)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{
			"op":      op,
			"rows":    fmt.Sprintf("%d->%d", t.NumRows(), out.NumRows()),
			"columns": fmt.Sprintf("%d->%d", t.NumCols(), out.NumCols()),
		}).Debug("cleaned")

		delim, err := outputDelimiter(ws)
		if err != nil {
			return err
		}
		if clOutput == "" {
			return table.WriteCSV(os.Stdout, out, delim)
		}
		if err := table.SaveCSV(clOutput, out, delim); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote %s (%d rows × %d columns, %d missing)\n", clOutput, out.NumRows(), out.NumCols(), out.MissingCount())
		return nil
	},
}

// outputDelimiter is the delimiter the input was read with (config, then
// workspace, then flags), or comma when auto.
func outputDelimiter(ws *workspace.Workspace) (rune, error) {
	var apply func(table.Options) (table.Options, error)
	if ws != nil {
		apply = ws.LoadOptions
	}
	opt, err := tableOptions(apply)
	if err != nil {
		return 0, err
	}
	if opt.Delimiter == 0 {
		return ',', nil
	}
	return opt.Delimiter, nil
}

func init() {
	rootCmd.AddCommand(cleanCmd)
	cleanCmd.Flags().StringVarP(&clWorkspace, "workspace", "w", "", "workspace whose settings (and dataset names) to use")
	cleanCmd.Flags().StringVar(&clOp, "op", "", "operation: drop-rows | drop-cols | fill")
	cleanCmd.Flags().StringVar(&clValue, "value", "", "replacement for missing cells when --op fill")
	cleanCmd.Flags().StringVarP(&clOutput, "output", "o", "", "output CSV path (default stdout)")
	_ = cleanCmd.MarkFlagRequired("op")
}
