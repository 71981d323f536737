package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/csvlens/internal/workspace"
)

var (
	listWorkspaces bool
	listDatasets   bool
	listWsName     string
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List workspaces or datasets",
	RunE: func(cmd *cobra.Command, args []string) error {
		if listWorkspaces == listDatasets { // either both true or both false
			return fmt.Errorf("specify exactly one of --workspaces or --datasets")
		}
		if listWorkspaces {
			return listAllWorkspaces()
		}
		if listWsName == "" {
			return fmt.Errorf("--workspace is required when using --datasets")
		}
		ws, err := loadWorkspace(listWsName)
		if err != nil {
			return err
		}
		if len(ws.Datasets) == 0 {
			fmt.Println("(no datasets)")
			return nil
		}
		for _, d := range ws.SortedDatasets() {
			line := fmt.Sprintf("- %s: %s [%s rows × %d cols, added %s]", d.ID, d.Name, humanize.Comma(int64(d.Rows)), d.Cols, humanize.Time(d.AddedAt))
			if d.Description != "" {
				line += " (" + d.Description + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}

func listAllWorkspaces() error {
	root, err := defaultWorkspacesDir()
	if err != nil {
		return err
	}
	dirs, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	found := false
	for _, e := range dirs {
		if !e.IsDir() {
			continue
		}
		if workspace.Exists(filepath.Join(root, e.Name())) {
			fmt.Printf("- %s\n", e.Name())
			found = true
		}
	}
	if !found {
		fmt.Println("(no workspaces)")
	}
	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().BoolVar(&listWorkspaces, "workspaces", false, "list workspaces")
	listCmd.Flags().BoolVar(&listDatasets, "datasets", false, "list datasets in a workspace")
	listCmd.Flags().StringVarP(&listWsName, "workspace", "w", "", "workspace name for --datasets")
}
