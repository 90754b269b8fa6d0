// Package main is the entry point for the pokedex view server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dex-server",
	Short: "Pokedex view server",
	Long:  `dex-server exposes the pokedex browsing core (paginated listing, full-catalog name search, enriched record detail) as a JSON API for rendering front-ends.`,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
