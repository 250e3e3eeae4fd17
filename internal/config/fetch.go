package config

import "time"

// Fetch configuration constants
const (
	// DefaultAPIBaseURL is the speedrun.com v1 REST API root
	DefaultAPIBaseURL = "https://www.speedrun.com/api/v1"

	// API request configuration
	APIRequestTimeout = 30 * time.Second

	// Run history configuration. The /runs endpoint caps "max" at 200.
	HistoryPageSize    = 200
	MaxHistoryPageSize = 200
	HistoryConcurrency = 4
	HistoryCacheTTL    = 5 * time.Minute
)

// FetchConfig defines how the collaborator talks to the upstream API
type FetchConfig struct {
	BaseURL            string
	Timeout            time.Duration
	HistoryPageSize    int
	HistoryConcurrency int
	HistoryCacheTTL    time.Duration
}

// DefaultFetchConfig provides sensible defaults
var DefaultFetchConfig = FetchConfig{
	BaseURL:            DefaultAPIBaseURL,
	Timeout:            APIRequestTimeout,
	HistoryPageSize:    HistoryPageSize,
	HistoryConcurrency: HistoryConcurrency,
	HistoryCacheTTL:    HistoryCacheTTL,
}
