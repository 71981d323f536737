package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/analysis"
	"github.com/KaramelBytes/csvlens/internal/utils"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	misWorkspace string
	misFormat    string
)

var missingCmd = &cobra.Command{
	Use:   "missing <file>",
	Short: "Report missing values per column",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(misFormat)
		if err != nil {
			return err
		}
		var ws *workspace.Workspace
		if misWorkspace != "" {
			if ws, err = loadWorkspace(misWorkspace); err != nil {
				return err
			}
		}
		t, err := loadTable(resolveInput(args[0], ws), ws, "", 0)
		if err != nil {
			return err
		}
		s := analysis.Summarize(t)
		if format == "json" {
			out, err := utils.PrettyJSON(s)
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}
		fmt.Print(analysis.MissingMarkdown(s))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(missingCmd)
	missingCmd.Flags().StringVarP(&misWorkspace, "workspace", "w", "", "workspace whose settings (and dataset names) to use")
	missingCmd.Flags().StringVar(&misFormat, "format", "markdown", "output format: markdown|json")
}
