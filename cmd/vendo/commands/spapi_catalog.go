package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/render"
)

var spapiCatalogMarketplaces []string

func init() {
	spapiCatalogCmd.Flags().StringSliceVar(&spapiCatalogMarketplaces, "marketplace", nil, "marketplace ids (default: amazon.com)")
	spapiCmd.AddCommand(spapiCatalogCmd)
}

var spapiCatalogCmd = &cobra.Command{
	Use:   "catalog <asin>",
	Short: "Look up a catalog item by ASIN",
	Example: `  vendo spapi catalog B08N5WRWNW
  vendo spapi catalog B08N5WRWNW --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runSPAPICatalog,
}

func runSPAPICatalog(cmd *cobra.Command, args []string) error {
	client, err := newSPAPIClient()
	if err != nil {
		return err
	}

	item, err := client.GetCatalogItem(cmd.Context(), args[0], spapiMarketplaces(spapiCatalogMarketplaces))
	if err != nil {
		return spapiErr(err)
	}

	tbl := render.Table{
		Header: []string{"ASIN", "MARKETPLACE", "BRAND", "TITLE"},
		Raw:    rawJSON(item.Raw),
	}
	for _, s := range item.Summaries {
		tbl.Rows = append(tbl.Rows, []string{item.ASIN, s.MarketplaceID, s.Brand, s.ItemName})
	}
	return writeOutput(cmd, spapiFormat, spapiOutput, tbl)
}
