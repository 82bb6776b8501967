package types

import "time"

// HTTPConfig holds shared HTTP settings used for upstream requests.
type HTTPConfig struct {
	// Timeout bounds each HTTP request, including reading the body.
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "ream/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent"`

	// RateLimit caps upstream requests per second. Zero disables the limit.
	RateLimit float64 `json:"rate_limit" yaml:"rate_limit"`
}

// LookupConfig holds settings for URL metadata lookup.
type LookupConfig struct {
	HTTPConfig `yaml:",inline"`

	// ExtraVenues extends the built-in venue vocabulary used to guess the
	// venue of arXiv papers from submitter comments.
	ExtraVenues []string `json:"extra_venues,omitempty" yaml:"extra_venues,omitempty"`

	// VenueRenames maps a matched venue name to the name reported for it
	// (e.g. "NIPS" -> "NeurIPS"). Entries are merged over the built-in table.
	VenueRenames map[string]string `json:"venue_renames,omitempty" yaml:"venue_renames,omitempty"`
}

// LibraryConfig holds settings for the local paper library.
type LibraryConfig struct {
	// DBPath is the SQLite database file holding queued and read papers.
	DBPath string `json:"db_path" yaml:"db_path"`
}

// Config groups all settings for the ream CLI.
type Config struct {
	Lookup   LookupConfig  `json:"lookup" yaml:"lookup"`
	Library  LibraryConfig `json:"library" yaml:"library"`
	LogLevel string        `json:"log_level" yaml:"log_level"`
}
