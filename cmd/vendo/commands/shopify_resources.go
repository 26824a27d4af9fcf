package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables shared by the shopify list commands.
var (
	shopifyListFirst  int
	shopifyListAfter  string
	shopifyListSearch string
)

func init() {
	for _, cmd := range []*cobra.Command{shopifyProductsCmd, shopifyOrdersCmd} {
		cmd.Flags().IntVar(&shopifyListFirst, "first", 25, "page size")
		cmd.Flags().StringVar(&shopifyListAfter, "after", "", "continue from a previous page cursor")
		cmd.Flags().StringVar(&shopifyListSearch, "search", "", "Shopify search syntax filter (e.g. status:active)")
		shopifyCmd.AddCommand(cmd)
	}
}

var shopifyProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "List products",
	Example: `  vendo shopify products --format table
  vendo shopify products --search "status:active" --first 50`,
	Args: cobra.NoArgs,
	RunE: runShopifyProducts,
}

func runShopifyProducts(cmd *cobra.Command, _ []string) error {
	client, err := newShopifyClient()
	if err != nil {
		return err
	}

	page, err := client.ListProducts(cmd.Context(), shopifyListFirst, shopifyListAfter, shopifyListSearch)
	if err != nil {
		return shopifyQueryError(err)
	}

	tbl := render.Table{
		Header: []string{"ID", "TITLE", "STATUS", "INVENTORY", "VENDOR"},
		Raw:    rawJSON(page.Raw),
	}
	for _, p := range page.Nodes {
		tbl.Rows = append(tbl.Rows, []string{
			p.ID, p.Title, p.Status, strconv.Itoa(p.Inventory), p.Vendor,
		})
	}

	if err := writeOutput(cmd, shopifyFormat, shopifyOutput, tbl); err != nil {
		return err
	}
	shopifyPageHint(cmd, page.HasNext, page.EndCursor)
	return nil
}

var shopifyOrdersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders",
	Example: `  vendo shopify orders --format table
  vendo shopify orders --search "financial_status:pending"`,
	Args: cobra.NoArgs,
	RunE: runShopifyOrders,
}

func runShopifyOrders(cmd *cobra.Command, _ []string) error {
	client, err := newShopifyClient()
	if err != nil {
		return err
	}

	page, err := client.ListOrders(cmd.Context(), shopifyListFirst, shopifyListAfter, shopifyListSearch)
	if err != nil {
		return shopifyQueryError(err)
	}

	tbl := render.Table{
		Header: []string{"NAME", "CREATED", "FINANCIAL", "FULFILLMENT", "TOTAL"},
		Raw:    rawJSON(page.Raw),
	}
	for _, o := range page.Nodes {
		money := o.TotalPriceSet.ShopMoney
		tbl.Rows = append(tbl.Rows, []string{
			o.Name, o.CreatedAt, o.FinancialStatus, o.FulfillmentStatus,
			money.Amount + " " + money.CurrencyCode,
		})
	}

	if err := writeOutput(cmd, shopifyFormat, shopifyOutput, tbl); err != nil {
		return err
	}
	shopifyPageHint(cmd, page.HasNext, page.EndCursor)
	return nil
}

func shopifyPageHint(cmd *cobra.Command, hasNext bool, cursor string) {
	if hasNext && shopifyFormat == "table" {
		cmd.Printf("\nMore results available. Continue with --after %s\n", cursor)
	}
}
