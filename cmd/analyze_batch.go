package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/utils"
	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	abWorkspace   string
	abDescription string
	abFormat      string
	abOutDir      string
	abSheetName   string
	abSheetIndex  int
	abQuiet       bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV/TSV/XLSX files with progress and optional workspace attachment",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files, err := expandInputs(args)
		if err != nil {
			return err
		}
		format, err := parseFormat(abFormat)
		if err != nil {
			return err
		}

		var ws *workspace.Workspace
		if abWorkspace != "" {
			if ws, err = loadWorkspace(abWorkspace); err != nil {
				return err
			}
		}
		if abOutDir != "" {
			if err := os.MkdirAll(abOutDir, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		total := len(files)
		for i, path := range files {
			if !abQuiet {
				fmt.Printf("[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			t, err := loadTable(path, ws, abSheetName, abSheetIndex)
			if err != nil {
				return err
			}
			rep, err := analyzeTable(cmd.Context(), t, 0, 0)
			if err != nil {
				return err
			}

			written := false
			if abOutDir != "" {
				out, err := renderReport(rep, format)
				if err != nil {
					return err
				}
				ext := ".summary.md"
				if format == "json" {
					ext = ".summary.json"
				}
				base := filepath.Base(path)
				dest := utils.UniquePath(abOutDir, strings.TrimSuffix(base, filepath.Ext(base)), ext)
				if err := os.WriteFile(dest, out, 0o644); err != nil {
					return fmt.Errorf("write output: %w", err)
				}
				if !abQuiet {
					fmt.Printf("✓ Wrote analysis to %s\n", dest)
				}
				written = true
			}
			if ws != nil {
				name, err := attachReport(ws, path, t, abDescription, rep.Markdown())
				if err != nil {
					return err
				}
				if !abQuiet {
					fmt.Printf("✓ Added analysis to workspace '%s' as %s\n", ws.Name, name)
				}
				written = true
			}
			if !written && !abQuiet {
				out, err := renderReport(rep, format)
				if err != nil {
					return err
				}
				fmt.Println(string(out))
			}
		}
		return nil
	},
}

// expandInputs resolves glob patterns and literal paths into a sorted,
// de-duplicated file list.
func expandInputs(args []string) ([]string, error) {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		if len(matches) == 0 {
			// treat as literal path if exists
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no input files matched")
	}
	sort.Strings(files)
	return files, nil
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abWorkspace, "workspace", "w", "", "workspace name to attach reports to")
	analyzeBatchCmd.Flags().StringVar(&abDescription, "desc", "", "dataset description when attaching to a workspace")
	analyzeBatchCmd.Flags().StringVar(&abFormat, "format", "markdown", "output format: markdown|json")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "write one report per input into this directory")
	analyzeBatchCmd.Flags().StringVar(&abSheetName, "sheet-name", "", "XLSX: sheet name to analyze")
	analyzeBatchCmd.Flags().IntVar(&abSheetIndex, "sheet-index", 1, "XLSX: 1-based sheet index (used if --sheet-name not provided)")
	analyzeBatchCmd.Flags().BoolVar(&abQuiet, "quiet", false, "suppress progress and non-essential output")
}
