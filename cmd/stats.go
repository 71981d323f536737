package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/analysis"
	"github.com/KaramelBytes/csvlens/internal/utils"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	stWorkspace string
	stFormat    string
	stHistBins  int
	stCounts    bool
	stSheetName string
)

var statsCmd = &cobra.Command{
	Use:   "stats <file> <column>",
	Short: "Show statistics for one column",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(stFormat)
		if err != nil {
			return err
		}
		var ws *workspace.Workspace
		if stWorkspace != "" {
			if ws, err = loadWorkspace(stWorkspace); err != nil {
				return err
			}
		}
		t, err := loadTable(resolveInput(args[0], ws), ws, stSheetName, 0)
		if err != nil {
			return err
		}
		col := args[1]
		p, err := analysis.ProfileColumn(t, col, cfg.AnalysisOptions())
		if err != nil {
			return err
		}
		var counts []analysis.ValueCount
		if stCounts {
			if counts, err = analysis.ValueCounts(t, col); err != nil {
				return err
			}
		}
		var bins []analysis.Bin
		if stHistBins > 0 {
			if bins, err = analysis.Histogram(t, col, stHistBins); err != nil {
				return err
			}
		}

		if format == "json" {
			out, err := utils.PrettyJSON(struct {
				Profile   analysis.ColumnProfile `json:"profile"`
				Counts    []analysis.ValueCount  `json:"value_counts,omitempty"`
				Histogram []analysis.Bin         `json:"histogram,omitempty"`
			}{p, counts, bins})
			if err != nil {
				return err
			}
			fmt.Println(string(out))
			return nil
		}

		var b strings.Builder
		b.WriteString(p.Markdown())
		if len(counts) > 0 {
			b.WriteString("\n[VALUE COUNTS]\n| Value | Count |\n| --- | --- |\n")
			for _, vc := range counts {
				b.WriteString(fmt.Sprintf("| %s | %d |\n", vc.Value, vc.Count))
			}
		}
		if len(bins) > 0 {
			b.WriteString("\n[HISTOGRAM]\n| Range | Count |\n| --- | --- |\n")
			for _, bin := range bins {
				b.WriteString(fmt.Sprintf("| %.4g – %.4g | %d |\n", bin.Lo, bin.Hi, bin.Count))
			}
		}
		fmt.Print(b.String())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)
	statsCmd.Flags().StringVarP(&stWorkspace, "workspace", "w", "", "workspace whose settings (and dataset names) to use")
	statsCmd.Flags().StringVar(&stFormat, "format", "markdown", "output format: markdown|json")
	statsCmd.Flags().IntVar(&stHistBins, "hist", 0, "numeric columns: also print a histogram with this many bins")
	statsCmd.Flags().BoolVar(&stCounts, "counts", false, "also print the full value frequency table")
	statsCmd.Flags().StringVar(&stSheetName, "sheet-name", "", "XLSX: sheet name to read")
}
