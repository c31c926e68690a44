package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amaumene/animesearch/internal/constants"
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   constants.AppName,
		Short: "Anime torrent search across Nyaa and SubsPlease",
		Long: `animesearch queries the SubsPlease and Nyaa RSS feeds, filters and
deduplicates the results and falls back from one indexer to the next.`,
		SilenceUsage: true,
	}

	rootCmd.Version = constants.AppVersion

	rootCmd.AddCommand(RunServeCommand())
	rootCmd.AddCommand(RunSearchCommand())
	rootCmd.AddCommand(RunProbeCommand())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
