package pipeline

import (
	"context"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/model"
)

// BatchResult reports the outcome of a batch scrape. Filtered counts
// leads that scraped cleanly but did not match the filter.
type BatchResult struct {
	RunID    string           `json:"run_id"`
	Leads    []model.Lead     `json:"leads"`
	Failures map[string]error `json:"-"`
	Scraped  int              `json:"scraped"`
	Filtered int              `json:"filtered"`
}

// Batch scrapes urls sequentially, applying filter to the results. URLs
// are deduplicated and capped at the configured batch size. Individual
// failures are collected per URL; the batch itself fails only when no
// URL scrapes successfully.
func (p *Pipeline) Batch(ctx context.Context, urls []string, filter model.FilterSpec) (*BatchResult, error) {
	urls = dedupe(urls)
	if len(urls) == 0 {
		return nil, eris.New("pipeline: no urls to scrape")
	}
	if len(urls) > p.maxBatch {
		zap.L().Warn("batch capped",
			zap.Int("requested", len(urls)),
			zap.Int("cap", p.maxBatch),
		)
		urls = urls[:p.maxBatch]
	}

	result := &BatchResult{RunID: uuid.NewString(), Failures: map[string]error{}}
	zap.L().Info("batch started",
		zap.String("run_id", result.RunID),
		zap.Int("urls", len(urls)),
	)

	for _, url := range urls {
		if err := ctx.Err(); err != nil {
			return result, eris.Wrap(err, "pipeline: batch cancelled")
		}

		lead, err := p.Scrape(ctx, url)
		if err != nil {
			zap.L().Warn("batch url failed", zap.String("url", url), zap.Error(err))
			result.Failures[url] = err
			continue
		}
		result.Scraped++

		if !filter.IsZero() && !filter.Match(lead) {
			result.Filtered++
			continue
		}
		result.Leads = append(result.Leads, *lead)
	}

	zap.L().Info("batch complete",
		zap.String("run_id", result.RunID),
		zap.Int("urls", len(urls)),
		zap.Int("scraped", result.Scraped),
		zap.Int("filtered", result.Filtered),
		zap.Int("failed", len(result.Failures)),
	)

	if result.Scraped == 0 {
		return result, eris.Errorf("pipeline: all %d urls failed", len(urls))
	}
	return result, nil
}

func dedupe(urls []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, u := range urls {
		if u == "" || seen[u] {
			continue
		}
		seen[u] = true
		out = append(out, u)
	}
	return out
}
