package processing

import (
	"context"
	"sync"
	"time"

	"speedrun_pbs/internal/app"

	"github.com/rs/zerolog/log"
)

// APICallTracker counts speedrun.com requests per client method, and the
// history requests the cache answered instead
type APICallTracker struct {
	sessionStart time.Time
	sessionCalls int64
	totalCalls   int64
	savedCalls   int64
	byMethod     map[string]int64
	mutex        sync.RWMutex
}

// NewAPICallTracker starts a tracking session now
func NewAPICallTracker() *APICallTracker {
	return &APICallTracker{
		sessionStart: time.Now(),
		byMethod:     make(map[string]int64),
	}
}

// RecordCall counts one upstream request made by method
func (t *APICallTracker) RecordCall(method string) {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.sessionCalls++
	t.totalCalls++
	t.byMethod[method]++
}

// RecordSaved counts one request answered from the history cache
func (t *APICallTracker) RecordSaved() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.savedCalls++
}

// GetSessionStats returns a snapshot of the counters
func (t *APICallTracker) GetSessionStats() APICallStats {
	t.mutex.RLock()
	defer t.mutex.RUnlock()

	byMethod := make(map[string]int64, len(t.byMethod))
	for method, count := range t.byMethod {
		byMethod[method] = count
	}

	return APICallStats{
		SessionCalls:    t.sessionCalls,
		TotalCalls:      t.totalCalls,
		SavedCalls:      t.savedCalls,
		SessionDuration: time.Since(t.sessionStart),
		CallsByEndpoint: byMethod,
	}
}

// ResetSession starts a new session; totals and the per-method breakdown are kept
func (t *APICallTracker) ResetSession() {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	t.sessionStart = time.Now()
	t.sessionCalls = 0
	t.savedCalls = 0
}

// LogSessionSummary logs the session's request counts
func (t *APICallTracker) LogSessionSummary(ctx context.Context) {
	stats := t.GetSessionStats()

	logEvent := log.Info().
		Int64("session_calls", stats.SessionCalls).
		Int64("total_calls", stats.TotalCalls).
		Int64("cache_saved_calls", stats.SavedCalls).
		Dur("session_duration", stats.SessionDuration)

	for method, count := range stats.CallsByEndpoint {
		logEvent = logEvent.Int64(method+"_calls", count)
	}

	logEvent.Msg("API call session summary")
}

// APICallStats is a snapshot of APICallTracker
type APICallStats struct {
	SessionCalls    int64
	TotalCalls      int64
	SavedCalls      int64
	SessionDuration time.Duration
	CallsByEndpoint map[string]int64
}

// PredictHistoryCalls returns the most history requests expanding report can
// issue: one per distinct (game, category), since rows of one category share
// a cached fetch. Rows with an unresolved category are never fetched.
func PredictHistoryCalls(report *app.Report) int64 {
	type gameCategory struct{ gameID, categoryID string }

	seen := make(map[gameCategory]struct{})
	for _, game := range report.Games {
		for _, row := range game.Rows {
			if row.CategoryID == "" {
				continue
			}
			seen[gameCategory{game.Game.GameID, row.CategoryID}] = struct{}{}
		}
	}
	return int64(len(seen))
}
