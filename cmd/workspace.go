package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var wsName string

var workspaceCmd = &cobra.Command{
	Use:   "workspace",
	Short: "Manage per-workspace settings",
}

var workspaceSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set or clear a workspace setting (delimiter, missing_tokens, fill_value)",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if wsName == "" {
			return fmt.Errorf("--workspace is required")
		}
		ws, err := loadWorkspace(wsName)
		if err != nil {
			return err
		}
		val := ""
		if len(args) == 2 {
			val = args[1]
		}
		if err := ws.Set(args[0], val); err != nil {
			return err
		}
		if err := ws.Save(); err != nil {
			return err
		}
		if val == "" {
			fmt.Printf("✓ Cleared %s for %s\n", args[0], wsName)
		} else {
			fmt.Printf("✓ Set %s for %s: %s\n", args[0], wsName, val)
		}
		return nil
	},
}

var workspaceShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show workspace settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		if wsName == "" {
			return fmt.Errorf("--workspace is required")
		}
		ws, err := loadWorkspace(wsName)
		if err != nil {
			return err
		}
		s := ws.Settings
		fmt.Printf("name: %s\n", ws.Name)
		if ws.Description != "" {
			fmt.Printf("description: %s\n", ws.Description)
		}
		fmt.Printf("datasets: %d\n", len(ws.Datasets))
		fmt.Printf("delimiter: %s\n", s.Delimiter)
		fmt.Printf("missing_tokens: %s\n", strings.Join(s.MissingTokens, ","))
		fmt.Printf("fill_value: %s\n", s.FillValue)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(workspaceCmd)
	workspaceCmd.AddCommand(workspaceSetCmd)
	workspaceCmd.AddCommand(workspaceShowCmd)
	workspaceCmd.PersistentFlags().StringVarP(&wsName, "workspace", "w", "", "workspace name")
}
