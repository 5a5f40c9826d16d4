package main

import (
	"encoding/json"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/pipeline"
)

var (
	scrapeURL     string
	scrapeNoCache bool
	scrapeEnrich  bool
)

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a single company website",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("scrape"); err != nil {
			return err
		}
		ctx := cmd.Context()

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		lead, err := env.Pipeline.ScrapeWith(ctx, scrapeURL, pipeline.ScrapeOptions{
			SkipCache:  scrapeNoCache,
			SkipEnrich: !scrapeEnrich,
		})
		if err != nil {
			return err
		}

		zap.L().Info("scrape complete",
			zap.String("website", lead.Website),
			zap.Int("lead_score", lead.LeadScore),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lead)
	},
}

func init() {
	scrapeCmd.Flags().StringVar(&scrapeURL, "url", "", "company website URL (required)")
	_ = scrapeCmd.MarkFlagRequired("url")
	scrapeCmd.Flags().BoolVar(&scrapeNoCache, "no-cache", false, "skip the cache and force a fresh fetch")
	scrapeCmd.Flags().BoolVar(&scrapeEnrich, "enrich", true, "enrich the lead via Proxycurl when a key is configured")
	rootCmd.AddCommand(scrapeCmd)
}
