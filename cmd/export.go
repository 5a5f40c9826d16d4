package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/export"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	exportFormat   string
	exportName     string
	exportIndustry string
	exportMinScore int
	exportLimit    int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored leads to a file",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("export"); err != nil {
			return err
		}
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Migrate(ctx); err != nil {
			return eris.Wrap(err, "migrate store")
		}

		leads, err := st.ListLeads(ctx, store.LeadFilter{
			Industry: exportIndustry,
			MinScore: exportMinScore,
			Limit:    exportLimit,
		})
		if err != nil {
			return err
		}

		path, err := export.Save(leads, exportName, exportFormat, cfg.Export.Dir)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "json", "output format (json, csv, or xlsx)")
	exportCmd.Flags().StringVar(&exportName, "name", "leads", "export file name prefix")
	exportCmd.Flags().StringVar(&exportIndustry, "industry", "", "filter by industry")
	exportCmd.Flags().IntVar(&exportMinScore, "min-score", 0, "minimum lead score")
	exportCmd.Flags().IntVar(&exportLimit, "limit", 0, "maximum rows to export (default 100)")
	rootCmd.AddCommand(exportCmd)
}
