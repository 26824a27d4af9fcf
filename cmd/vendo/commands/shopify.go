package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/integration/shopify"
)

// Package-level flag variables for the shopify command group.
var (
	shopifyProfile    string
	shopifyAPIVersion string
	shopifyFormat     string
	shopifyOutput     string
)

func init() {
	shopifyCmd.PersistentFlags().StringVar(&shopifyProfile, "profile", "", "credential profile to use")
	shopifyCmd.PersistentFlags().StringVar(&shopifyAPIVersion, "api-version", "", "Admin API version (default from profile)")
	shopifyCmd.PersistentFlags().StringVar(&shopifyFormat, "format", "json", "output format: table, json, csv")
	shopifyCmd.PersistentFlags().StringVarP(&shopifyOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(shopifyCmd)
}

var shopifyCmd = &cobra.Command{
	Use:   "shopify",
	Short: "Shopify Admin GraphQL operations",
	Long: `Run queries against the Shopify Admin GraphQL API.

The profile's endpoint names the shop (myshop or myshop.myshopify.com)
and its access token is a custom-app Admin token. GraphQL responses are
JSON, so json is the default output format.`,
}

// newShopifyClient builds an Admin API client for the selected profile.
func newShopifyClient() (*shopify.Client, error) {
	p, _, err := resolveProfile(config.VendorShopify, shopifyProfile)
	if err != nil {
		return nil, err
	}

	version := shopifyAPIVersion
	if version == "" {
		version = p.APIVersion
	}
	return shopify.NewClient(p.Endpoint, p.AccessToken, version), nil
}
