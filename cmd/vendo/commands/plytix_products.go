package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration/plytix"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for plytix products.
var (
	plytixAttributes []string
	plytixFilters    []string
	plytixPage       int
	plytixPageSize   int
)

func init() {
	plytixProductsCmd.Flags().StringSliceVar(&plytixAttributes, "attributes", []string{"sku", "label"}, "attributes to return")
	plytixProductsCmd.Flags().StringSliceVar(&plytixFilters, "filter", nil, "filter clause field:operator:value, repeatable (AND-ed)")
	plytixProductsCmd.Flags().IntVar(&plytixPage, "page", 1, "page number")
	plytixProductsCmd.Flags().IntVar(&plytixPageSize, "page-size", 50, "results per page")

	plytixCmd.AddCommand(plytixProductsCmd)
	plytixCmd.AddCommand(plytixProductCmd)
	plytixCmd.AddCommand(plytixAttributesCmd)
}

var plytixProductsCmd = &cobra.Command{
	Use:   "products",
	Short: "Search products",
	Example: `  # First page of everything
  vendo plytix products

  # In-stock products with a barcode
  vendo plytix products --filter status:equals:active --filter barcode:exists: --format json`,
	Args: cobra.NoArgs,
	RunE: runPlytixProducts,
}

func runPlytixProducts(cmd *cobra.Command, _ []string) error {
	filters, err := parsePlytixFilters(plytixFilters)
	if err != nil {
		return err
	}
	client, err := newPlytixClient()
	if err != nil {
		return err
	}

	page, err := client.SearchProducts(cmd.Context(), plytixAttributes, filters, plytixPage, plytixPageSize)
	if err != nil {
		return plytixErr(err)
	}

	tbl := recordTable(page.Products, rawJSON(page.Raw))
	if err := writeOutput(cmd, plytixFormat, plytixOutput, tbl); err != nil {
		return err
	}
	if plytixFormat == "table" && page.TotalPages > page.Page {
		cmd.Printf("\nPage %d of %d (%d products). Continue with --page %d\n",
			page.Page, page.TotalPages, page.Total, page.Page+1)
	}
	return nil
}

// parsePlytixFilters turns field:operator:value clauses into one AND
// group. An empty value is allowed for operators like exists.
func parsePlytixFilters(clauses []string) ([][]plytix.SearchFilter, error) {
	if len(clauses) == 0 {
		return nil, nil
	}
	group := make([]plytix.SearchFilter, 0, len(clauses))
	for _, clause := range clauses {
		parts := strings.SplitN(clause, ":", 3)
		if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
			return nil, errors.NewUserError(
				errors.Newf("invalid filter %q", clause),
				"Use field:operator:value, e.g. status:equals:active")
		}
		f := plytix.SearchFilter{Field: parts[0], Operator: parts[1]}
		if len(parts) == 3 {
			f.Value = parts[2]
		}
		group = append(group, f)
	}
	return [][]plytix.SearchFilter{group}, nil
}

var plytixProductCmd = &cobra.Command{
	Use:   "product <id>",
	Short: "Show one product",
	Args:  cobra.ExactArgs(1),
	RunE:  runPlytixProduct,
}

func runPlytixProduct(cmd *cobra.Command, args []string) error {
	client, err := newPlytixClient()
	if err != nil {
		return err
	}
	product, err := client.GetProduct(cmd.Context(), args[0])
	if err != nil {
		return plytixErr(err)
	}
	return writeOutput(cmd, plytixFormat, plytixOutput, render.Table{Raw: product})
}

var plytixAttributesCmd = &cobra.Command{
	Use:   "attributes",
	Short: "List product attributes",
	Args:  cobra.NoArgs,
	RunE:  runPlytixAttributes,
}

func runPlytixAttributes(cmd *cobra.Command, _ []string) error {
	client, err := newPlytixClient()
	if err != nil {
		return err
	}
	attrs, err := client.ListAttributes(cmd.Context(), 1, 100)
	if err != nil {
		return plytixErr(err)
	}
	return writeOutput(cmd, plytixFormat, plytixOutput, recordTable(attrs, nil))
}
