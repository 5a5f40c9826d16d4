package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/leadgen-cli/internal/model"
	"github.com/sells-group/leadgen-cli/internal/store"
)

var (
	leadsWebsite  string
	leadsIndustry string
	leadsMinScore int
	leadsLimit    int
	leadsOffset   int
	leadsJSON     bool
)

var leadsCmd = &cobra.Command{
	Use:   "leads",
	Short: "List stored leads",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.Validate("leads"); err != nil {
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
			Website:  leadsWebsite,
			Industry: leadsIndustry,
			MinScore: leadsMinScore,
			Limit:    leadsLimit,
			Offset:   leadsOffset,
		})
		if err != nil {
			return err
		}

		if leadsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(leads)
		}
		return printLeadTable(leads)
	},
}

func printLeadTable(leads []model.Lead) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WEBSITE\tNAME\tINDUSTRY\tEMAIL\tSCORE")
	for _, l := range leads {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			l.Website, l.Name, l.Industry, l.Email, l.LeadScore)
	}
	return w.Flush()
}

func init() {
	leadsCmd.Flags().StringVar(&leadsWebsite, "website", "", "filter by website")
	leadsCmd.Flags().StringVar(&leadsIndustry, "industry", "", "filter by industry")
	leadsCmd.Flags().IntVar(&leadsMinScore, "min-score", 0, "minimum lead score")
	leadsCmd.Flags().IntVar(&leadsLimit, "limit", 0, "maximum rows to return (default 100)")
	leadsCmd.Flags().IntVar(&leadsOffset, "offset", 0, "rows to skip")
	leadsCmd.Flags().BoolVar(&leadsJSON, "json", false, "output raw JSON")
	rootCmd.AddCommand(leadsCmd)
}
