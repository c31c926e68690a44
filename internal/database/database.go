// Package database provides data persistence using BoltDB.
package database

import (
	"time"
)

// ProbeRecord is one reachability check of a provider.
type ProbeRecord struct {
	Provider string    `json:"provider"`
	OK       bool      `json:"ok"`
	At       time.Time `json:"at"`
}

// Database defines the interface for data persistence operations.
type Database interface {
	// RecordProbe stores the outcome of a provider probe
	RecordProbe(provider string, ok bool, at time.Time) error
	// LastProbes returns up to n probes of provider, newest first
	LastProbes(provider string, n int) ([]ProbeRecord, error)
	// Providers lists every provider with recorded probes
	Providers() ([]string, error)
	// Close closes the database connection
	Close() error
}
