package commands

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/integration/spapi"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for spapi orders.
var (
	spapiOrdersSince        string
	spapiOrdersStatuses     []string
	spapiOrdersMarketplaces []string
	spapiOrdersNextToken    string
)

func init() {
	spapiOrdersCmd.Flags().StringVar(&spapiOrdersSince, "since", "7d", "only orders created after this point (7d, 2w, 36h)")
	spapiOrdersCmd.Flags().StringSliceVar(&spapiOrdersStatuses, "status", nil, "filter by order status (Shipped, Unshipped, ...)")
	spapiOrdersCmd.Flags().StringSliceVar(&spapiOrdersMarketplaces, "marketplace", nil, "marketplace ids (default: amazon.com)")
	spapiOrdersCmd.Flags().StringVar(&spapiOrdersNextToken, "next-token", "", "continue from a previous page")
	spapiCmd.AddCommand(spapiOrdersCmd)
}

var spapiOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Example: `  # Orders from the last week
  vendo spapi orders

  # Shipped orders from the last month, as JSON
  vendo spapi orders --since 30d --status Shipped --format json`,
	Args: cobra.NoArgs,
	RunE: runSPAPIOrders,
}

func runSPAPIOrders(cmd *cobra.Command, _ []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	q := spapi.OrdersQuery{
		MarketplaceIDs: spapiMarketplaces(spapiOrdersMarketplaces),
		Statuses:       spapiOrdersStatuses,
		NextToken:      spapiOrdersNextToken,
	}
	if spapiOrdersNextToken == "" {
		after, err := parseSince(spapiOrdersSince, time.Now())
		if err != nil {
			return err
		}
		q.CreatedAfter = after
	}

	page, err := client.ListOrders(cmd.Context(), q)
	if err != nil {
		return spapiErr(err)
	}

	tbl := render.Table{
		Header: []string{"ORDER ID", "DATE", "STATUS", "TOTAL"},
		Raw:    rawJSON(page.Raw),
	}
	for _, o := range page.Orders {
		total := ""
		if o.OrderTotal != nil {
			total = o.OrderTotal.Amount + " " + o.OrderTotal.CurrencyCode
		}
		tbl.Rows = append(tbl.Rows, []string{o.AmazonOrderID, o.PurchaseDate, o.OrderStatus, total})
	}

	if err := writeOutput(cmd, spapiFormat, spapiOutput, tbl); err != nil {
		return err
	}
	if page.NextToken != "" && spapiFormat == "table" {
		cmd.Printf("\nMore results available. Continue with --next-token %s\n", page.NextToken)
	}
	return nil
}
