package processing

import (
	"context"
	"sync"
	"time"

	"speedrun_pbs/internal/app"
	"speedrun_pbs/internal/metrics"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// historyKey identifies one run-history fetch
type historyKey struct {
	runnerID   string
	gameID     string
	categoryID string
}

func (k historyKey) String() string {
	return k.runnerID + "/" + k.gameID + "/" + k.categoryID
}

type cachedHistory struct {
	data      []app.HistoryRun
	timestamp time.Time
}

// CachedSpeedrunClient wraps a speedrun client and caches run history per
// (runner, game, category). Concurrent misses for the same key share one request.
type CachedSpeedrunClient struct {
	client  SpeedrunClientInterface
	ttl     time.Duration
	tracker *APICallTracker
	metrics *metrics.Manager
	group   singleflight.Group
	mutex   sync.RWMutex
	history map[historyKey]*cachedHistory
}

// NewCachedSpeedrunClient creates a caching wrapper around a speedrun client
func NewCachedSpeedrunClient(client SpeedrunClientInterface, tracker *APICallTracker, ttl time.Duration) *CachedSpeedrunClient {
	return &CachedSpeedrunClient{
		client:  client,
		ttl:     ttl,
		tracker: tracker,
		metrics: metrics.Default(),
		history: make(map[historyKey]*cachedHistory),
	}
}

// GetUser delegates to the underlying client
func (c *CachedSpeedrunClient) GetUser(ctx context.Context, name string) (*app.User, error) {
	c.tracker.RecordCall("GetUser")
	return c.client.GetUser(ctx, name)
}

// GetPersonalBests delegates to the underlying client. Every search rebuilds from fresh data.
func (c *CachedSpeedrunClient) GetPersonalBests(ctx context.Context, runnerID string) ([]app.PersonalBest, error) {
	c.tracker.RecordCall("GetPersonalBests")
	return c.client.GetPersonalBests(ctx, runnerID)
}

// GetRunHistory returns cached run history or fetches it. Failed fetches are not cached.
func (c *CachedSpeedrunClient) GetRunHistory(ctx context.Context, runnerID, gameID, categoryID string) ([]app.HistoryRun, error) {
	key := historyKey{runnerID: runnerID, gameID: gameID, categoryID: categoryID}

	c.mutex.RLock()
	cached := c.history[key]
	c.mutex.RUnlock()

	if cached != nil && time.Since(cached.timestamp) < c.ttl {
		log.Debug().
			Str("key", key.String()).
			Dur("cache_age", time.Since(cached.timestamp)).
			Msg("Using cached run history (API call saved)")
		c.metrics.RecordHistoryCache(true)
		c.tracker.RecordSaved()
		return cached.data, nil
	}
	c.metrics.RecordHistoryCache(false)

	// Detached from the first caller: a cancellation must only fail the caller
	// that cancelled. The HTTP client's request timeout bounds the fetch.
	fetchCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (interface{}, error) {
		log.Debug().Str("key", key.String()).Msg("Fetching fresh run history from API")
		data, err := c.client.GetRunHistory(fetchCtx, runnerID, gameID, categoryID)
		if err != nil {
			return nil, err
		}
		c.tracker.RecordCall("GetRunHistory")

		c.mutex.Lock()
		c.history[key] = &cachedHistory{data: data, timestamp: time.Now()}
		c.mutex.Unlock()
		return data, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			log.Debug().Str("key", key.String()).Msg("Shared in-flight run history request")
		}
		return res.Val.([]app.HistoryRun), nil
	}
}

// GetCacheStats returns the number of valid and expired entries
func (c *CachedSpeedrunClient) GetCacheStats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var validEntries, expiredEntries int
	for _, cached := range c.history {
		if time.Since(cached.timestamp) < c.ttl {
			validEntries++
		} else {
			expiredEntries++
		}
	}

	return CacheStats{
		ValidEntries:   validEntries,
		ExpiredEntries: expiredEntries,
		TotalEntries:   validEntries + expiredEntries,
	}
}

// CacheStats represents cache statistics
type CacheStats struct {
	ValidEntries   int
	ExpiredEntries int
	TotalEntries   int
}
