// Package constants defines numerical limits and conversion factors.
package constants

// Limits and counts for various operations
const (
	// Number of concurrent resolution feed fetches per search
	DefaultFetchConcurrency = 2

	// Number of HTTP attempts per feed fetch
	DefaultHTTPRetries = 2

	// Probe results kept per provider
	MaxProbeHistory = 50

	// Maximum number of results printed by the CLI
	MaxResultsToPrint = 20

	// Conversion factors
	BytesToGB = 1024 * 1024 * 1024
)
