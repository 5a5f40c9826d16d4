// Package pipeline orchestrates the scrape flow: rate limiting, cache
// lookup, fetch with retry, extraction, validation, enrichment, and
// persistence.
package pipeline

import (
	"context"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/config"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/extract"
	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/resilience"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/internal/textutil"
)

// Fetcher renders a page and returns its HTML. Session-state methods let
// the retry loop reset the browser between attempts.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
	ClearSessionState(ctx context.Context) error
	ReassertStealth(ctx context.Context) error
	Close()
}

// Pipeline runs single-URL scrapes and batches over one Fetcher and Store.
type Pipeline struct {
	fetcher  Fetcher
	store    store.Store
	enricher *enrich.Enricher
	limiter  *Limiter
	retry    resilience.RetryConfig
	cacheTTL time.Duration
	required []string
	maxBatch int
}

// New wires a Pipeline from its collaborators and the scrape settings.
// A nil enricher still produces scored leads, just without profile lookups.
func New(fetcher Fetcher, st store.Store, enricher *enrich.Enricher, cfg *config.Config) *Pipeline {
	if enricher == nil {
		enricher = enrich.New(nil)
	}

	maxBatch := cfg.Scrape.MaxURLsPerBatch
	if maxBatch <= 0 {
		maxBatch = 50
	}

	// The configured inter-request delay caps the request rate; the
	// stricter of the two settings wins.
	rps := cfg.RateLimit.RequestsPerSecond
	if d := cfg.Scrape.DelayBetweenRequestsSecs; d > 0 {
		if delayed := 1.0 / float64(d); delayed < rps {
			rps = delayed
		}
	}

	return &Pipeline{
		fetcher:  fetcher,
		store:    st,
		enricher: enricher,
		limiter:  NewLimiter(rps, cfg.RateLimit.BurstSize),
		retry:    resilience.FromScrapeConfig(cfg.Scrape.RetryAttempts, cfg.Scrape.RetryBaseDelaySecs),
		cacheTTL: time.Duration(cfg.Scrape.CacheTTLHours) * time.Hour,
		required: cfg.Scrape.RequiredFields,
		maxBatch: maxBatch,
	}
}

// ScrapeOptions tweaks a single scrape. The zero value is the normal
// cached, enriched path.
type ScrapeOptions struct {
	SkipCache  bool
	SkipEnrich bool
}

// Scrape produces a validated, enriched lead for one URL. A fresh cache
// entry short-circuits the fetch entirely; fetch failures are retried
// with the browser session reset between attempts.
func (p *Pipeline) Scrape(ctx context.Context, url string) (*model.Lead, error) {
	return p.ScrapeWith(ctx, url, ScrapeOptions{})
}

// ScrapeWith is Scrape with per-call overrides.
func (p *Pipeline) ScrapeWith(ctx context.Context, url string, opts ScrapeOptions) (*model.Lead, error) {
	if !textutil.ValidateURL(url) {
		return nil, resilience.NewPermanentError(eris.Errorf("pipeline: invalid url %q", url))
	}

	if !opts.SkipCache {
		cached, err := p.store.GetCached(ctx, url, p.cacheTTL)
		if err != nil {
			// A broken cache read degrades to a miss.
			zap.L().Warn("cache read failed", zap.String("url", url), zap.Error(err))
		}
		if cached != nil {
			zap.L().Debug("cache hit", zap.String("url", url))
			return cached, nil
		}
	}

	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	retryCfg := p.retry
	retryCfg.Cleanup = p.resetSession
	retryCfg.OnRetry = resilience.RetryLogger("scrape", url)

	lead, err := resilience.DoVal(ctx, retryCfg, func(ctx context.Context) (model.Lead, error) {
		html, err := p.fetcher.Fetch(ctx, url)
		if err != nil {
			return model.Lead{}, err
		}
		page, err := extract.NewPage(url, html)
		if err != nil {
			return model.Lead{}, resilience.NewPermanentError(err)
		}
		return extract.AssembleLead(page, time.Now().UTC()), nil
	})
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: scrape %s", url)
	}

	if err := Validate(lead, p.required); err != nil {
		return nil, err
	}

	if opts.SkipEnrich {
		lead.LeadScore = enrich.Score(lead)
	} else if err := p.enricher.Enrich(ctx, &lead); err != nil {
		// Enrichment adds signal but is never worth losing the lead over.
		zap.L().Warn("enrichment failed", zap.String("url", url), zap.Error(err))
		lead.LeadScore = enrich.Score(lead)
	}

	if err := p.store.PutCached(ctx, url, lead); err != nil {
		zap.L().Warn("cache write failed", zap.String("url", url), zap.Error(err))
	}
	if err := p.store.UpsertLead(ctx, lead); err != nil {
		zap.L().Warn("lead upsert failed", zap.String("url", url), zap.Error(err))
	}

	zap.L().Info("scraped lead",
		zap.String("url", url),
		zap.String("name", lead.Name),
		zap.Int("score", lead.LeadScore),
	)
	return &lead, nil
}

// resetSession clears browser state before a retry so a blocked or
// rate-limited session does not poison the next attempt.
func (p *Pipeline) resetSession(ctx context.Context) error {
	if err := p.fetcher.ClearSessionState(ctx); err != nil {
		return err
	}
	return p.fetcher.ReassertStealth(ctx)
}
