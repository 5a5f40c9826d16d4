package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/model"
)

var (
	batchFile   string
	batchExport string
	batchName   string

	batchMinEmployees  int
	batchIndustries    []string
	batchLocation      string
	batchTechnologies  []string
	batchMinRevenue    string
	batchFoundedAfter  int
	batchRequireEmail  bool
	batchRequireSocial bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Scrape a batch of company websites from a URL file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("batch"); err != nil {
			return err
		}
		ctx := cmd.Context()

		urls, err := readURLFile(batchFile)
		if err != nil {
			return err
		}

		env, err := initPipeline(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		filter := model.FilterSpec{
			MinEmployees:  batchMinEmployees,
			Industries:    batchIndustries,
			Location:      batchLocation,
			Technologies:  batchTechnologies,
			MinRevenue:    batchMinRevenue,
			FoundedAfter:  batchFoundedAfter,
			RequireEmail:  batchRequireEmail,
			RequireSocial: batchRequireSocial,
		}

		result, err := env.Pipeline.Batch(ctx, urls, filter)
		if err != nil {
			return err
		}

		for url, ferr := range result.Failures {
			zap.L().Warn("url failed", zap.String("url", url), zap.Error(ferr))
		}
		zap.L().Info("batch complete",
			zap.Int("scraped", result.Scraped),
			zap.Int("filtered", result.Filtered),
			zap.Int("failed", len(result.Failures)),
			zap.Int("leads", len(result.Leads)),
		)

		if batchExport != "" {
			path, err := export.Save(result.Leads, batchName, batchExport, cfg.Export.Dir)
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

// readURLFile reads one URL per line, skipping blanks and # comments.
func readURLFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "cmd: open url file %s", path)
	}
	defer f.Close()

	var urls []string
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := sc.Err(); err != nil {
		return nil, eris.Wrapf(err, "cmd: read url file %s", path)
	}
	return urls, nil
}

func init() {
	batchCmd.Flags().StringVar(&batchFile, "file", "", "file with one URL per line (required)")
	_ = batchCmd.MarkFlagRequired("file")

	batchCmd.Flags().StringVar(&batchExport, "export", "", "export results (json, csv, or xlsx)")
	batchCmd.Flags().StringVar(&batchName, "name", "batch", "export file name prefix")

	batchCmd.Flags().IntVar(&batchMinEmployees, "min-employees", 0, "keep leads with at least this many employees")
	batchCmd.Flags().StringSliceVar(&batchIndustries, "industry", nil, "keep leads in any of these industries")
	batchCmd.Flags().StringVar(&batchLocation, "location", "", "keep leads matching comma-separated location terms")
	batchCmd.Flags().StringSliceVar(&batchTechnologies, "tech", nil, "keep leads using any of these technologies")
	batchCmd.Flags().StringVar(&batchMinRevenue, "min-revenue", "", "keep leads at or above this revenue floor (1M, 5M, 10M, 50M, 100M, 500M, 1B+)")
	batchCmd.Flags().IntVar(&batchFoundedAfter, "founded-after", 0, "keep leads founded after this year")
	batchCmd.Flags().BoolVar(&batchRequireEmail, "require-email", false, "keep only leads with an email")
	batchCmd.Flags().BoolVar(&batchRequireSocial, "require-social", false, "keep only leads with a social profile")

	rootCmd.AddCommand(batchCmd)
}
