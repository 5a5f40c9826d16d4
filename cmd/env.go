package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/browser"
	"github.com/sells-group/leadgen-cli/internal/enrich"
	"github.com/sells-group/leadgen-cli/internal/pipeline"
	"github.com/sells-group/leadgen-cli/internal/store"
	"github.com/sells-group/leadgen-cli/pkg/proxycurl"
)

// env bundles the long-lived resources shared by the scraping commands.
type env struct {
	Store    store.Store
	Browser  *browser.Chrome
	Pipeline *pipeline.Pipeline
}

func (e *env) Close() {
	if e.Browser != nil {
		e.Browser.Close()
	}
	if e.Store != nil {
		_ = e.Store.Close()
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "leads.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func initEnricher() *enrich.Enricher {
	if cfg.Proxycurl.Key == "" {
		zap.L().Info("proxycurl key not set, enrichment lookups disabled")
		return enrich.New(nil)
	}
	client := proxycurl.NewClient(cfg.Proxycurl.Key,
		proxycurl.WithBaseURL(cfg.Proxycurl.BaseURL),
		proxycurl.WithRateLimit(cfg.RateLimit.EnrichRequestsPerMinute),
	)
	return enrich.New(client)
}

func initPipeline(ctx context.Context) (*env, error) {
	st, err := initStore(ctx)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}

	chrome, err := browser.New(cfg.Browser)
	if err != nil {
		_ = st.Close()
		return nil, err
	}

	p := pipeline.New(chrome, st, initEnricher(), cfg)

	return &env{Store: st, Browser: chrome, Pipeline: p}, nil
}
