package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/hydradash/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize hydradash configuration with an interactive wizard",
	Long:  `Runs an interactive wizard that asks where the Hydra admin service lives and writes a .hydradash.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := os.Stat(cfgFile); err == nil {
			fmt.Fprintf(os.Stderr, "Overwriting existing %s\n", cfgFile)
		}
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
