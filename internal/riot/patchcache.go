package riot

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/riftlab/riftgrade/internal/timeline"
)

// versionsURL lists game versions newest first, e.g. ["14.10.1", "14.9.1", ...].
const versionsURL = "https://ddragon.leagueoflegends.com/api/versions.json"

// PatchCache caches the current patch string with a TTL, so every scoring
// request does not hit the versions endpoint. Safe for concurrent use.
type PatchCache struct {
	url  string
	ttl  time.Duration
	now  func() time.Time
	http *http.Client

	mu      sync.Mutex
	patch   string
	expires time.Time
}

// PatchCacheOption configures a PatchCache.
type PatchCacheOption func(*PatchCache)

// WithClock injects the time source; tests advance it by hand.
func WithClock(now func() time.Time) PatchCacheOption {
	return func(c *PatchCache) { c.now = now }
}

// WithVersionsURL overrides the versions endpoint.
func WithVersionsURL(url string) PatchCacheOption {
	return func(c *PatchCache) { c.url = url }
}

// NewPatchCache returns a cache that refreshes at most once per ttl.
func NewPatchCache(ttl time.Duration, opts ...PatchCacheOption) *PatchCache {
	c := &PatchCache{
		url:  versionsURL,
		ttl:  ttl,
		now:  time.Now,
		http: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Current returns the current major.minor patch, refreshing when the cached
// value has expired. A refresh failure serves the stale value when one
// exists rather than failing the caller.
func (c *PatchCache) Current(ctx context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.patch != "" && c.now().Before(c.expires) {
		return c.patch, nil
	}

	patch, err := c.fetch(ctx)
	if err != nil {
		if c.patch != "" {
			return c.patch, nil
		}
		return "", err
	}
	c.patch = patch
	c.expires = c.now().Add(c.ttl)
	return patch, nil
}

func (c *PatchCache) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.url, nil)
	if err != nil {
		return "", err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch versions: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("fetch versions: HTTP %d", resp.StatusCode)
	}

	var versions []string
	if err := json.NewDecoder(resp.Body).Decode(&versions); err != nil {
		return "", err
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("fetch versions: empty list")
	}
	return timeline.NormalizePatch(versions[0]), nil
}
