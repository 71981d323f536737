package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/analysis"
	"github.com/KaramelBytes/csvlens/internal/table"
	"github.com/KaramelBytes/csvlens/internal/utils"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	anaWorkspace   string
	anaOutputPath  string
	anaDescription string
	anaFormat      string
	anaSheetName   string
	anaSheetIndex  int
	anaTopN        int
	anaWorkers     int
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Analyze a CSV/TSV/XLSX file and produce a summary with per-column statistics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := parseFormat(anaFormat)
		if err != nil {
			return err
		}
		var ws *workspace.Workspace
		if anaWorkspace != "" {
			if ws, err = loadWorkspace(anaWorkspace); err != nil {
				return err
			}
		}
		path := resolveInput(args[0], ws)
		t, err := loadTable(path, ws, anaSheetName, anaSheetIndex)
		if err != nil {
			return err
		}
		rep, err := analyzeTable(cmd.Context(), t, anaTopN, anaWorkers)
		if err != nil {
			return err
		}
		out, err := renderReport(rep, format)
		if err != nil {
			return err
		}

		// Decide where to write: --output path, or attach to workspace, or stdout
		written := false
		if anaOutputPath != "" {
			if err := os.WriteFile(anaOutputPath, out, 0o644); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Printf("✓ Wrote analysis to %s\n", anaOutputPath)
			written = true
		}
		if ws != nil {
			name, err := attachReport(ws, path, t, anaDescription, rep.Markdown())
			if err != nil {
				return err
			}
			fmt.Printf("✓ Added analysis to workspace '%s' as %s\n", ws.Name, name)
			written = true
		}
		if !written {
			fmt.Println(string(out))
		}
		return nil
	},
}

func parseFormat(s string) (string, error) {
	switch f := strings.ToLower(strings.TrimSpace(s)); f {
	case "", "md", "markdown":
		return "markdown", nil
	case "json":
		return f, nil
	default:
		return "", fmt.Errorf("unsupported --format: %s (use markdown|json)", s)
	}
}

// resolveInput maps a workspace dataset name or ID to its path when arg is
// not a file on disk.
func resolveInput(arg string, ws *workspace.Workspace) string {
	if ws == nil {
		return arg
	}
	if _, err := os.Stat(arg); err == nil {
		return arg
	}
	if d, ok := ws.Find(arg); ok {
		return d.Path
	}
	return arg
}

// loadTable loads path with options from config, the workspace (may be nil)
// and global flags.
func loadTable(path string, ws *workspace.Workspace, sheetName string, sheetIndex int) (*table.Table, error) {
	var apply func(table.Options) (table.Options, error)
	if ws != nil {
		apply = ws.LoadOptions
	}
	opt, err := tableOptions(apply)
	if err != nil {
		return nil, err
	}
	opt.Sheet = sheetName
	if sheetIndex > 0 {
		opt.SheetIndex = sheetIndex
	}
	start := time.Now()
	t, err := table.Load(path, opt)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"file":    path,
		"rows":    t.NumRows(),
		"cols":    t.NumCols(),
		"elapsed": time.Since(start),
	}).Debug("table loaded")
	return t, nil
}

func analyzeTable(ctx context.Context, t *table.Table, topN, workers int) (*analysis.Report, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	opt := cfg.AnalysisOptions()
	if topN > 0 {
		opt.TopN = topN
	}
	if workers > 0 {
		opt.Workers = workers
	}
	start := time.Now()
	rep, err := analysis.Analyze(ctx, t, opt)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{"columns": len(rep.Profiles), "elapsed": time.Since(start)}).Debug("profiled")
	return rep, nil
}

func renderReport(rep *analysis.Report, format string) ([]byte, error) {
	if format == "json" {
		return utils.PrettyJSON(rep)
	}
	return []byte(rep.Markdown()), nil
}

// attachReport records the dataset in ws, writes the Markdown report under
// reports/ and saves the workspace. It returns the report file name.
func attachReport(ws *workspace.Workspace, path string, t *table.Table, desc, md string) (string, error) {
	ws.Record(path, desc, t)
	outFile, err := ws.AddReport(filepath.Base(path), md)
	if err != nil {
		return "", fmt.Errorf("write workspace report: %w", err)
	}
	if err := ws.Save(); err != nil {
		return "", err
	}
	return filepath.Base(outFile), nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaWorkspace, "workspace", "w", "", "workspace name to attach the report to")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the analysis")
	analyzeCmd.Flags().StringVar(&anaDescription, "desc", "", "dataset description when attaching to a workspace")
	analyzeCmd.Flags().StringVar(&anaFormat, "format", "markdown", "output format: markdown|json")
	analyzeCmd.Flags().StringVar(&anaSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeCmd.Flags().IntVar(&anaSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeCmd.Flags().IntVar(&anaTopN, "top", 0, "most frequent values listed per column (overrides config)")
	analyzeCmd.Flags().IntVar(&anaWorkers, "workers", 0, "columns profiled concurrently (overrides config)")
}
