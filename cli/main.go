package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var categoriesFile string

var rootCmd = &cobra.Command{
	Use:   "helpctl",
	Short: "Preview the bot's help menu in the terminal",
	Long: `helpctl builds the same command registry the bot serves and renders its
help categories and pages offline, without a Discord connection.`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&categoriesFile, "categories", os.Getenv("HELP_CATEGORIES_FILE"), "Category YAML file (embedded defaults when empty)")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(pagesCmd)
}
