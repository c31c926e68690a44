package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amaumene/animesearch/internal/constants"
	"github.com/amaumene/animesearch/pkg/torrentsearch"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
)

func RunSearchCommand() *cobra.Command {
	var (
		kind       string
		resolution string
		exclude    []string
		uploader   string
		alt        []string
		episodes   int
		limit      int
		asJSON     bool
		debug      bool
	)

	command := &cobra.Command{
		Use:   "search <title>",
		Short: "Search the indexers from the command line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			k, ok := torrentsearch.ParseKind(kind)
			if !ok {
				return errors.Errorf("unknown kind %q, expected single, batch or movie", kind)
			}

			req := models.SearchRequest{
				Exclusions:   exclude,
				Uploader:     uploader,
				Titles:       alt,
				EpisodeCount: episodes,
			}
			if len(args) == 1 {
				req.Title = args[0]
			}
			if resolution != "" {
				if req.Resolution = models.ParseQuality(resolution); req.Resolution == "" {
					return errors.Errorf("unsupported resolution %q", resolution)
				}
			}

			container, err := InitializeServices(false)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.SearchTimeout)
			defer cancel()

			results, err := container.TorrentSearch.Search(ctx, k, req)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, results)
			}
			if debug {
				for _, line := range container.TorrentSearch.DebugInfo(results) {
					fmt.Fprintln(out, line)
				}
				return nil
			}
			printResults(out, results, limit)
			return nil
		},
	}

	command.Flags().StringVar(&kind, "kind", string(torrentsearch.KindSingle), "search kind: single, batch or movie")
	command.Flags().StringVar(&resolution, "resolution", "", "required resolution (1080, 720, 540, 480)")
	command.Flags().StringSliceVar(&exclude, "exclude", nil, "terms to exclude, repeatable or comma separated")
	command.Flags().StringVar(&uploader, "uploader", "", "restrict Nyaa results to an uploader")
	command.Flags().StringSliceVar(&alt, "alt", nil, "alternate titles, repeatable or comma separated")
	command.Flags().IntVar(&episodes, "episodes", 0, "episode count of the series, 0 when unknown")
	command.Flags().IntVar(&limit, "limit", constants.MaxResultsToPrint, "maximum number of results to print")
	command.Flags().BoolVar(&asJSON, "json", false, "print results as JSON")
	command.Flags().BoolVar(&debug, "debug", false, "print ranking details")

	return command
}

func printResults(w io.Writer, results []models.Candidate, limit int) {
	fmt.Fprintf(w, "Found %d torrents\n", len(results))
	for i, c := range results {
		if limit > 0 && i >= limit {
			fmt.Fprintf(w, "  ... %d more\n", len(results)-limit)
			break
		}
		var tags []string
		if c.Type != models.TypeUndefined {
			tags = append(tags, string(c.Type))
		}
		tags = append(tags, string(c.Accuracy))
		fmt.Fprintf(w, "  - %s (Size: %.2f GB, Seeders: %d, %s)\n",
			c.Title,
			float64(c.Size)/constants.BytesToGB,
			c.Seeders,
			strings.Join(tags, ", "))
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
