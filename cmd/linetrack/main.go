package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	_ "time/tzdata"
)

var (
	configPath  string
	memoryMode  bool
	preloadFile string
)

var rootCmd = &cobra.Command{
	Use:   "linetrack",
	Short: "Hourly sewing-line production targets and efficiency",
	Long: `linetrack allocates a line's daily target across its six sewing processes,
records hourly output against it and reports variance and efficiency.

Operators log hours through the Telegram bot; supervisors pull workbooks
over HTTP or with the export command.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config/example.yaml", "path to the YAML config")
	rootCmd.PersistentFlags().BoolVar(&memoryMode, "memory", false, "keep every store in process instead of Postgres")
	rootCmd.PersistentFlags().StringVar(&preloadFile, "preload", "", "load fixtures from this YAML file into the store first")

	rootCmd.AddCommand(serveCmd, migrateCmd, recomputeCmd, exportCmd, seedCmd, importCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
