package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration/google"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for google ga4.
var (
	ga4Property   string
	ga4StartDate  string
	ga4EndDate    string
	ga4Dimensions []string
	ga4Metrics    []string
	ga4Limit      int
)

func init() {
	ga4Cmd.Flags().StringVar(&ga4Property, "property", "", "GA4 property id (default from profile)")
	ga4Cmd.Flags().StringVar(&ga4StartDate, "start-date", "7daysAgo", "report start (YYYY-MM-DD or NdaysAgo)")
	ga4Cmd.Flags().StringVar(&ga4EndDate, "end-date", "today", "report end")
	ga4Cmd.Flags().StringSliceVar(&ga4Dimensions, "dimensions", []string{"date"}, "report dimensions")
	ga4Cmd.Flags().StringSliceVar(&ga4Metrics, "metrics", []string{"activeUsers", "sessions"}, "report metrics")
	ga4Cmd.Flags().IntVar(&ga4Limit, "limit", 1000, "maximum rows")
	googleCmd.AddCommand(ga4Cmd)
}

var ga4Cmd = &cobra.Command{
	Use:   "ga4",
	Short: "Run a Google Analytics 4 report",
	Example: `  # Daily users and sessions for the last week
  vendo google ga4

  # Top landing pages over 30 days
  vendo google ga4 --start-date 30daysAgo --dimensions landingPage --metrics sessions`,
	Args: cobra.NoArgs,
	RunE: runGA4,
}

func runGA4(cmd *cobra.Command, _ []string) error {
	p, token, err := googleToken()
	if err != nil {
		return err
	}
	property := ga4Property
	if property == "" {
		property = p.PropertyID
	}
	if property == "" {
		return errors.NewUserError(errors.New("no GA4 property configured"),
			"Pass --property or set property_id on the google profile")
	}

	client := google.NewGA4Client(property, token)
	report, err := client.RunReport(cmd.Context(), google.ReportRequest{
		StartDate:  ga4StartDate,
		EndDate:    ga4EndDate,
		Dimensions: ga4Dimensions,
		Metrics:    ga4Metrics,
		Limit:      ga4Limit,
	})
	if err != nil {
		return googleErr(err)
	}

	tbl := render.Table{
		Header: append(append([]string{}, report.DimensionHeaders...), report.MetricHeaders...),
		Rows:   report.Rows,
		Raw:    rawJSON(report.Raw),
	}
	if err := writeOutput(cmd, googleFormat, googleOutput, tbl); err != nil {
		return err
	}
	if googleFormat == "table" && report.RowCount > len(report.Rows) {
		cmd.Printf("\nShowing %d of %d rows. Raise --limit to fetch more\n", len(report.Rows), report.RowCount)
	}
	return nil
}
