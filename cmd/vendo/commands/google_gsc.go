package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration/google"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for google gsc.
var (
	gscSite       string
	gscStartDate  string
	gscEndDate    string
	gscDimensions []string
	gscRowLimit   int
	gscStartRow   int
)

func init() {
	gscCmd.PersistentFlags().StringVar(&gscSite, "site", "", "site URL or sc-domain property (default from profile)")
	gscQueryCmd.Flags().StringVar(&gscStartDate, "start-date", "", "window start YYYY-MM-DD (default: 28 days ago)")
	gscQueryCmd.Flags().StringVar(&gscEndDate, "end-date", "", "window end YYYY-MM-DD (default: today)")
	gscQueryCmd.Flags().StringSliceVar(&gscDimensions, "dimensions", []string{"query"}, "dimensions: query, page, country, device, date")
	gscQueryCmd.Flags().IntVar(&gscRowLimit, "limit", 1000, "maximum rows")
	gscQueryCmd.Flags().IntVar(&gscStartRow, "start-row", 0, "pagination offset")

	gscCmd.AddCommand(gscQueryCmd)
	gscCmd.AddCommand(gscSitesCmd)
	googleCmd.AddCommand(gscCmd)
}

var gscCmd = &cobra.Command{
	Use:   "gsc",
	Short: "Google Search Console operations",
}

var gscQueryCmd = &cobra.Command{
	Use:   "query",
	Short: "Run a search analytics query",
	Example: `  # Top queries for the default site, last 28 days
  vendo google gsc query

  # Page performance for a domain property
  vendo google gsc query --site sc-domain:example.com --dimensions page --format csv`,
	Args: cobra.NoArgs,
	RunE: runGSCQuery,
}

func runGSCQuery(cmd *cobra.Command, _ []string) error {
	p, token, err := googleToken()
	if err != nil {
		return err
	}
	site := gscSite
	if site == "" {
		site = p.SiteURL
	}
	if site == "" {
		return errors.NewUserError(errors.New("no Search Console site configured"),
			"Pass --site or set site_url on the google profile")
	}

	start, end := gscStartDate, gscEndDate
	if start == "" {
		start = time.Now().AddDate(0, 0, -28).Format("2006-01-02")
	}
	if end == "" {
		end = time.Now().Format("2006-01-02")
	}

	client := google.NewGSCClient(site, token)
	result, err := client.Query(cmd.Context(), google.SearchQuery{
		StartDate:  start,
		EndDate:    end,
		Dimensions: gscDimensions,
		RowLimit:   gscRowLimit,
		StartRow:   gscStartRow,
	})
	if err != nil {
		return googleErr(err)
	}

	header := append(append([]string{}, gscDimensions...), "CLICKS", "IMPRESSIONS", "CTR", "POSITION")
	tbl := render.Table{Header: header, Raw: rawJSON(result.Raw)}
	for _, row := range result.Rows {
		cells := append([]string{}, row.Keys...)
		cells = append(cells,
			fmt.Sprintf("%.0f", row.Clicks),
			fmt.Sprintf("%.0f", row.Impressions),
			fmt.Sprintf("%.2f%%", row.CTR*100),
			fmt.Sprintf("%.1f", row.Position),
		)
		tbl.Rows = append(tbl.Rows, cells)
	}
	for i, h := range tbl.Header {
		tbl.Header[i] = strings.ToUpper(h)
	}
	return writeOutput(cmd, googleFormat, googleOutput, tbl)
}

var gscSitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "List verified sites",
	Args:  cobra.NoArgs,
	RunE:  runGSCSites,
}

func runGSCSites(cmd *cobra.Command, _ []string) error {
	_, token, err := googleToken()
	if err != nil {
		return err
	}
	// Site listing is account-wide, no site binding needed.
	client := google.NewGSCClient("", token)
	sites, err := client.ListSites(cmd.Context())
	if err != nil {
		return googleErr(err)
	}
	return writeOutput(cmd, googleFormat, googleOutput, recordTable(sites, nil))
}
