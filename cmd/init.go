package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/api-portal/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize portal configuration with an interactive wizard",
	Long:  `Runs an interactive wizard to configure the portal's branding, storage and port and writes a .apiportal.yml file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := config.RunWizard(cfgFile)
		return err
	},
}

func init() {
	rootCmd.AddCommand(initCmd)
}
