package providers

// Provider name constants for consistent usage across the codebase
const (
	ProviderNyaa       = "nyaa"
	ProviderSubsPlease = "subsplease"
)

const (
	// DefaultNyaaURL is the English-translated anime category feed.
	DefaultNyaaURL = "https://nyaa.si/?page=rss&c=1_2"
	// DefaultSubsPleaseURL is the site root; feeds live under /rss/.
	DefaultSubsPleaseURL = "https://subsplease.org"
	// DefaultTrustedUploader is the Nyaa account SubsPlease publishes under.
	DefaultTrustedUploader = "subsplease"

	rssAccept = "application/rss+xml,text/xml,*/*"
)

var rssHeaders = map[string]string{"Accept": rssAccept}
