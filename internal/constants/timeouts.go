// Package constants defines timeout values used throughout the application.
package constants

import "time"

// Timeout constants for various operations
const (
	// Timeout for a single indexer HTTP request
	DefaultHTTPTimeout = 20 * time.Second

	// Timeout for a whole search request across the provider chain
	SearchTimeout = 60 * time.Second

	// Timeout for the health probe of all providers
	ProbeTimeout = 10 * time.Second

	// Interval between feed cache sweeps
	CacheCleanupInterval = 5 * time.Minute

	// Graceful shutdown window for the HTTP server
	ShutdownTimeout = 10 * time.Second
)
