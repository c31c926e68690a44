// Package constants defines application-wide constants and default values.
package constants

const (
	// Application metadata
	AppName    = "animesearch"
	AppVersion = "1.0.0"

	// Default configuration values
	DefaultPort      = "5000"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "console"

	// Feed cache settings
	DefaultFeedCacheSize = 256
	DefaultFeedCacheTTL  = 10 // minutes

	// Rate limiting, shared by every indexer fetch
	DefaultRateLimit = 5 // requests per second
	DefaultRateBurst = 5 // burst capacity

	// Search chain behaviour
	DefaultMergeMode = "first"

	// Storage
	DefaultDatabasePath = "./data/animesearch.db"
)

// DefaultResolutions lists the SubsPlease feeds tried, in order of preference.
var DefaultResolutions = []string{
	"1080",
	"720",
}
