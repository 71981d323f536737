package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	addWorkspace string
	addDesc      string
)

var addCmd = &cobra.Command{
	Use:   "add <file>",
	Short: "Add a dataset to a workspace",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		file := args[0]
		if addWorkspace == "" {
			return fmt.Errorf("--workspace is required")
		}
		ws, err := loadWorkspace(addWorkspace)
		if err != nil {
			return err
		}
		opt, err := tableOptions(ws.LoadOptions)
		if err != nil {
			return err
		}
		start := time.Now()
		d, _, err := ws.AddDataset(file, addDesc, opt)
		if err != nil {
			return err
		}
		log.WithFields(logrus.Fields{"file": file, "elapsed": time.Since(start)}).Debug("dataset loaded")
		if err := ws.Save(); err != nil {
			return err
		}
		fmt.Printf("✓ Dataset added: %s (%d rows × %d columns)\n", d.Name, d.Rows, d.Cols)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(addCmd)
	addCmd.Flags().StringVarP(&addWorkspace, "workspace", "w", "", "workspace name")
	addCmd.Flags().StringVar(&addDesc, "desc", "", "dataset description")
}
