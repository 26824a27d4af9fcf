package commands

import (
	"github.com/spf13/cobra"
)

var (
	plytixAssetsPage     int
	plytixAssetsPageSize int
)

func init() {
	plytixAssetsCmd.Flags().IntVar(&plytixAssetsPage, "page", 1, "page number")
	plytixAssetsCmd.Flags().IntVar(&plytixAssetsPageSize, "page-size", 50, "results per page")
	plytixCmd.AddCommand(plytixAssetsCmd)
}

var plytixAssetsCmd = &cobra.Command{
	Use:   "assets",
	Short: "List digital assets",
	Example: `  vendo plytix assets
  vendo plytix assets --page 2 --format json`,
	Args: cobra.NoArgs,
	RunE: runPlytixAssets,
}

func runPlytixAssets(cmd *cobra.Command, _ []string) error {
	client, err := newPlytixClient()
	if err != nil {
		return err
	}

	page, err := client.SearchAssets(cmd.Context(), plytixAssetsPage, plytixAssetsPageSize)
	if err != nil {
		return plytixErr(err)
	}

	tbl := recordTable(page.Assets, rawJSON(page.Raw))
	if err := writeOutput(cmd, plytixFormat, plytixOutput, tbl); err != nil {
		return err
	}
	if page.TotalPages > 1 && plytixFormat == "table" {
		cmd.Printf("\nPage %d of %d (%d assets). Continue with --page %d\n",
			page.Page, page.TotalPages, page.Total, page.Page+1)
	}
	return nil
}
