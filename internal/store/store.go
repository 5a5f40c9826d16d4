package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// cacheVersion tags cached payloads; entries written by an incompatible
// schema read back as cache misses.
const cacheVersion = "1.0"

// cacheEnvelope is the stored form of a cached scrape result.
type cacheEnvelope struct {
	Version string     `json:"version"`
	Data    model.Lead `json:"data"`
}

// LeadFilter specifies criteria for listing stored leads.
type LeadFilter struct {
	Website  string `json:"website,omitempty"`
	Industry string `json:"industry,omitempty"`
	MinScore int    `json:"min_score,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Store defines persistence for scraped leads and the scrape cache.
type Store interface {
	// Scrape cache
	GetCached(ctx context.Context, url string, maxAge time.Duration) (*model.Lead, error)
	PutCached(ctx context.Context, url string, lead model.Lead) error
	DeleteExpiredCache(ctx context.Context, maxAge time.Duration) (int, error)

	// Leads
	UpsertLead(ctx context.Context, lead model.Lead) error
	ListLeads(ctx context.Context, filter LeadFilter) ([]model.Lead, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}

// CacheKey derives the cache key for a page URL from its domain and the
// full URL, hashed so keys are filename- and column-safe.
func CacheKey(url string) string {
	domain, _ := textutil.ExtractDomain(url)
	sum := sha256.Sum256([]byte(domain + "_" + url))
	return hex.EncodeToString(sum[:])
}
