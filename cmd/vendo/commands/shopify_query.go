package commands

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration/shopify"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for shopify query.
var (
	shopifyQueryFile      string
	shopifyQueryVariables string
)

func init() {
	shopifyQueryCmd.Flags().StringVarP(&shopifyQueryFile, "file", "f", "", "read the query from a file instead of the argument")
	shopifyQueryCmd.Flags().StringVar(&shopifyQueryVariables, "variables", "", "query variables as a JSON object")
	shopifyCmd.AddCommand(shopifyQueryCmd)
}

var shopifyQueryCmd = &cobra.Command{
	Use:   "query [graphql]",
	Short: "Run a GraphQL query",
	Example: `  # Inline query
  vendo shopify query '{ shop { name currencyCode } }'

  # Query from a file with variables
  vendo shopify query -f products.graphql --variables '{"first": 25}'`,
	Args: cobra.MaximumNArgs(1),
	RunE: runShopifyQuery,
}

func runShopifyQuery(cmd *cobra.Command, args []string) error {
	query, err := shopifyQueryText(args)
	if err != nil {
		return err
	}

	var variables map[string]any
	if shopifyQueryVariables != "" {
		if err := json.Unmarshal([]byte(shopifyQueryVariables), &variables); err != nil {
			return errors.NewUserError(errors.Wrap(err, "parsing --variables"),
				"Pass variables as a JSON object, e.g. --variables '{\"first\": 25}'")
		}
	}

	client, err := newShopifyClient()
	if err != nil {
		return err
	}

	resp, err := client.Query(cmd.Context(), query, variables)
	if err != nil {
		return shopifyQueryError(err)
	}

	tbl := render.Table{Raw: rawJSON(resp.Data)}
	return writeOutput(cmd, shopifyFormat, shopifyOutput, tbl)
}

func shopifyQueryText(args []string) (string, error) {
	if shopifyQueryFile != "" {
		data, err := os.ReadFile(shopifyQueryFile)
		if err != nil {
			return "", errors.Wrap(err, "reading query file")
		}
		return strings.TrimSpace(string(data)), nil
	}
	if len(args) == 1 && strings.TrimSpace(args[0]) != "" {
		return strings.TrimSpace(args[0]), nil
	}
	return "", errors.NewUserError(errors.New("no query given"),
		"Pass the query as an argument or with --file")
}

// shopifyQueryError maps throttled or unauthorized queries to
// actionable messages.
func shopifyQueryError(err error) error {
	if errors.Is(err, shopify.ErrThrottled) {
		return errors.NewUserError(err, "Reduce the query's cost or retry in a few seconds")
	}
	return mapVendorErr(config.VendorShopify, err)
}
