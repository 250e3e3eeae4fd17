package config

import (
	"testing"
	"time"
)

func TestDefaultFetchConfig(t *testing.T) {
	if DefaultFetchConfig.BaseURL != "https://www.speedrun.com/api/v1" {
		t.Errorf("Expected speedrun.com v1 base URL, got %s", DefaultFetchConfig.BaseURL)
	}

	if DefaultFetchConfig.Timeout != 30*time.Second {
		t.Errorf("Expected Timeout 30s, got %v", DefaultFetchConfig.Timeout)
	}

	if DefaultFetchConfig.HistoryPageSize != 200 {
		t.Errorf("Expected HistoryPageSize 200, got %d", DefaultFetchConfig.HistoryPageSize)
	}

	if DefaultFetchConfig.HistoryPageSize > MaxHistoryPageSize {
		t.Errorf("Default page size %d exceeds API maximum %d", DefaultFetchConfig.HistoryPageSize, MaxHistoryPageSize)
	}

	if DefaultFetchConfig.HistoryConcurrency < 1 {
		t.Errorf("Expected positive HistoryConcurrency, got %d", DefaultFetchConfig.HistoryConcurrency)
	}

	if DefaultFetchConfig.HistoryCacheTTL != 5*time.Minute {
		t.Errorf("Expected HistoryCacheTTL 5m, got %v", DefaultFetchConfig.HistoryCacheTTL)
	}
}
