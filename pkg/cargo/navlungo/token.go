package navlungo

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// refreshMargin is subtracted from the token lifetime so a token is
// never presented moments before it lapses server-side.
const refreshMargin = 120 * time.Second

// fetchTokenFunc performs a login and returns the bearer token with its
// lifetime.
type fetchTokenFunc func(ctx context.Context) (token string, expiresIn time.Duration, err error)

// tokenCache hands out a cached bearer token and refreshes it at most
// once at a time. Concurrent callers that miss the cache share a single
// login call.
type tokenCache struct {
	mu        sync.RWMutex
	token     string
	expiresAt time.Time

	group singleflight.Group
	now   func() time.Time
}

func newTokenCache() *tokenCache {
	return &tokenCache{now: time.Now}
}

// Token returns the cached token, refreshing it via fetch when it is
// missing or inside the refresh margin.
func (c *tokenCache) Token(ctx context.Context, fetch fetchTokenFunc) (string, error) {
	c.mu.RLock()
	token, expiresAt := c.token, c.expiresAt
	c.mu.RUnlock()

	if token != "" && c.now().Before(expiresAt) {
		return token, nil
	}

	v, err, _ := c.group.Do("token", func() (interface{}, error) {
		// A concurrent caller may have refreshed while we queued.
		c.mu.RLock()
		token, expiresAt := c.token, c.expiresAt
		c.mu.RUnlock()
		if token != "" && c.now().Before(expiresAt) {
			return token, nil
		}

		fresh, expiresIn, err := fetch(ctx)
		if err != nil {
			return "", err
		}

		c.mu.Lock()
		c.token = fresh
		c.expiresAt = c.now().Add(expiresIn - refreshMargin)
		c.mu.Unlock()

		return fresh, nil
	})
	if err != nil {
		return "", err
	}

	return v.(string), nil
}

// Invalidate drops the cached token. Called after a 401 so the next
// request logs in again.
func (c *tokenCache) Invalidate() {
	c.mu.Lock()
	c.token = ""
	c.expiresAt = time.Time{}
	c.mu.Unlock()
}
