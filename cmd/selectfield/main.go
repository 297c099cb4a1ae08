package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "selectfield",
	Short: "Pick several items from a catalog in the terminal",
	Long: "selectfield mounts a searchable multi-select field over a catalog file " +
		"and prints the chosen values on exit.",
	Args: cobra.MaximumNArgs(1),
	RunE: runField,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "selectfield %s\n", version)
	},
}

func init() {
	addRunFlags(rootCmd, &runOpts)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(keysCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
