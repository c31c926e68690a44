package services

import (
	"context"

	"github.com/amaumene/animesearch/internal/database"
)

// ProbeProviders checks every provider, then records the outcome in the
// metrics and, when a database is configured, in the probe history.
// Storage failures are logged and do not affect the returned status.
func (c *Container) ProbeProviders(ctx context.Context) map[string]bool {
	status := c.TorrentSearch.Test(ctx)
	at := c.now()

	for name, ok := range status {
		c.Metrics.SetProviderUp(name, ok)
		if c.DB == nil {
			continue
		}
		if err := c.DB.RecordProbe(name, ok, at); err != nil {
			c.Logger.Warnf("[PROBE] failed to record probe for %s: %v", name, err)
		}
	}

	return status
}

// ProbeHistory returns up to n recorded probes per provider, newest first.
func (c *Container) ProbeHistory(n int) (map[string][]database.ProbeRecord, error) {
	history := map[string][]database.ProbeRecord{}
	if c.DB == nil {
		return history, nil
	}

	names, err := c.DB.Providers()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		records, err := c.DB.LastProbes(name, n)
		if err != nil {
			return nil, err
		}
		history[name] = records
	}
	return history, nil
}
