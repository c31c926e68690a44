package main

import (
	"context"
	"fmt"
	"time"

	"github.com/amaumene/animesearch/pkg/httputil"
	"github.com/amaumene/animesearch/pkg/logger"
	"github.com/amaumene/animesearch/pkg/torrentsearch"
	"github.com/amaumene/animesearch/pkg/torrentsearch/models"
	"github.com/amaumene/animesearch/pkg/torrentsearch/providers"
)

func main() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	log := logger.New()
	fetcher := httputil.NewFetcher(httputil.FetcherOptions{
		Client: httputil.NewHTTPClient(20 * time.Second),
	})

	nyaa := providers.NewNyaaProvider(fetcher, "", log)
	subsplease := providers.NewSubsPleaseProvider(fetcher, providers.SubsPleaseOptions{
		Fallback: nyaa,
		Logger:   log,
	})

	search := torrentsearch.New(torrentsearch.Options{Logger: log, Rank: true})
	search.RegisterProvider(subsplease)
	search.RegisterProvider(nyaa)

	results, err := search.Single(ctx, models.SearchRequest{
		Title:        "Frieren",
		Resolution:   models.Quality1080,
		Exclusions:   []string{"raw"},
		EpisodeCount: 28,
	})
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("Found %d episode torrents:\n", len(results))
	for i, c := range results {
		if i >= 5 {
			break
		}
		fmt.Printf("  - %s (Size: %.2f GB, Seeders: %d, Accuracy: %s)\n",
			c.Title,
			float64(c.Size)/(1024*1024*1024),
			c.Seeders,
			c.Accuracy)
	}

	batches, err := search.Batch(ctx, models.SearchRequest{Title: "Frieren"})
	if err != nil {
		log.Fatal(err)
	}
	fmt.Printf("\nFound %d batch torrents\n", len(batches))
}
