package main

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/amaumene/animesearch/internal/constants"
)

func RunProbeCommand() *cobra.Command {
	var history int

	command := &cobra.Command{
		Use:   "probe",
		Short: "Check that every indexer is reachable and record the result",
		RunE: func(cmd *cobra.Command, args []string) error {
			container, err := InitializeServices(true)
			if err != nil {
				return err
			}
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), constants.ProbeTimeout)
			defer cancel()

			status := container.ProbeProviders(ctx)
			names := make([]string, 0, len(status))
			for name := range status {
				names = append(names, name)
			}
			sort.Strings(names)

			out := cmd.OutOrStdout()
			up := 0
			for _, name := range names {
				state := "down"
				if status[name] {
					state = "up"
					up++
				}
				fmt.Fprintf(out, "%-12s %s\n", name, state)
			}

			if history > 0 {
				records, err := container.ProbeHistory(history)
				if err != nil {
					return err
				}
				for _, name := range names {
					for _, rec := range records[name] {
						fmt.Fprintf(out, "  %s %s ok=%t\n", name, rec.At.Format("2006-01-02 15:04:05"), rec.OK)
					}
				}
			}

			if up == 0 {
				return errors.New("no provider is reachable")
			}
			return nil
		},
	}

	command.Flags().IntVar(&history, "history", 0, "also print this many past probes per provider")
	return command
}
