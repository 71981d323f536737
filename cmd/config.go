package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	cfgpkg "github.com/KaramelBytes/csvlens/internal/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "View or set csvlens configuration",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg == nil {
			fmt.Println("No config loaded")
			return nil
		}
		delim := cfg.Delimiter
		if delim == "" {
			delim = "(auto)"
		}
		tokens := "(default)"
		if len(cfg.MissingTokens) > 0 {
			tokens = strings.Join(cfg.MissingTokens, ",")
		}
		workers := "(all CPUs)"
		if cfg.Workers > 0 {
			workers = fmt.Sprintf("%d", cfg.Workers)
		}
		fmt.Printf("delimiter: %s\n", delim)
		fmt.Printf("missing_tokens: %s\n", tokens)
		fmt.Printf("fill_value: %s\n", cfg.FillValue)
		fmt.Printf("top_n: %d\n", cfg.TopN)
		fmt.Printf("workers: %s\n", workers)
		fmt.Printf("workspaces_dir: %s\n", cfg.WorkspacesDir)
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value and save to disk",
	Long:  "Set a config value and save to disk. Keys: " + strings.Join(cfgpkg.Keys(), ", "),
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		// Reload from disk so flag overrides are not persisted.
		c, err := cfgpkg.Load(cfgFile)
		if err != nil {
			return err
		}
		if err := c.Set(args[0], args[1]); err != nil {
			return err
		}
		if err := cfgpkg.Save(c, cfgFile); err != nil {
			return err
		}
		cfg = c
		fmt.Println("Saved config")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
}
