package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

func init() {
	spapiCmd.AddCommand(spapiOrderCmd)
	spapiCmd.AddCommand(spapiMarketplacesCmd)
}

var spapiOrderCmd = &cobra.Command{
	Use:   "order <order-id>",
	Short: "Show a single order",
	Example: `  vendo spapi order 902-3159896-1390916
  vendo spapi order 902-3159896-1390916 --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSPAPIOrder,
}

func runSPAPIOrder(cmd *cobra.Command, args []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	order, raw, err := client.GetOrder(cmd.Context(), args[0])
	if err != nil {
		return spapiErr(err)
	}

	total := ""
	if order.OrderTotal != nil {
		total = order.OrderTotal.Amount + " " + order.OrderTotal.CurrencyCode
	}
	tbl := render.Table{
		Header: []string{"ORDER ID", "DATE", "STATUS", "CHANNEL", "TOTAL"},
		Rows: [][]string{
			{order.AmazonOrderID, order.PurchaseDate, order.OrderStatus, order.FulfillmentChan, total},
		},
		Raw: rawJSON(raw),
	}
	return writeOutput(cmd, spapiFormat, spapiOutput, tbl)
}

var spapiMarketplacesCmd = &cobra.Command{
	Use:   "marketplaces",
	Short: "List marketplaces the selling account participates in",
	Args:  cobra.NoArgs,
	RunE:  runSPAPIMarketplaces,
}

func runSPAPIMarketplaces(cmd *cobra.Command, _ []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	parts, raw, err := client.ListMarketplaces(cmd.Context())
	if err != nil {
		return spapiErr(err)
	}

	tbl := render.Table{
		Header: []string{"ID", "NAME", "COUNTRY", "CURRENCY"},
		Raw:    rawJSON(raw),
	}
	for _, p := range parts {
		tbl.Rows = append(tbl.Rows, []string{p.ID, p.Name, p.CountryCode, p.Currency})
	}
	return writeOutput(cmd, spapiFormat, spapiOutput, tbl)
}
