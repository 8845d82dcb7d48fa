package cmd

import (
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/api-portal/internal/config"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "apiportal",
	Short: "Browse and curate a catalog of API specifications",
	Long: `API Portal serves a catalog of OpenAPI/Swagger specifications grouped
into domains and renders them with Swagger UI. Entries can be added at
runtime by URL or by pasting a document, and are persisted locally.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", config.DefaultConfigFile, "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
