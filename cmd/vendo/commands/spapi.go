package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration"
	"github.com/vendocli/vendo/internal/integration/spapi"
)

// Package-level flag variables for the spapi command group.
var (
	spapiProfile string
	spapiFormat  string
	spapiOutput  string
)

func init() {
	spapiCmd.PersistentFlags().StringVar(&spapiProfile, "profile", "", "credential profile to use")
	spapiCmd.PersistentFlags().StringVar(&spapiFormat, "format", "table", "output format: table, json, csv")
	spapiCmd.PersistentFlags().StringVarP(&spapiOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(spapiCmd)
}

var spapiCmd = &cobra.Command{
	Use:   "spapi",
	Short: "Amazon Selling Partner API operations",
	Long: `Query the Amazon Selling Partner API.

Authentication uses the profile's LWA refresh token; access tokens are
cached locally and refreshed when they near expiry.`,
}

// newSPAPIClient builds an SP-API client for the selected profile.
func newSPAPIClient() (*spapi.Client, error) {
	p, name, err := resolveProfile(config.VendorSPAPI, spapiProfile)
	if err != nil {
		return nil, err
	}
	src, err := integration.SourceFor(config.VendorSPAPI, name, "", p)
	if err != nil {
		return nil, errors.NewAuthError(err, config.VendorSPAPI)
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = spapi.DefaultEndpoint
	}
	return spapi.NewClient(endpoint, cachedToken(newTokenCache(), src)), nil
}

// spapiMarketplaces returns the marketplace ids for a command, falling
// back to the US marketplace.
func spapiMarketplaces(ids []string) []string {
	if len(ids) > 0 {
		return ids
	}
	return []string{spapi.MarketplaceUS}
}

// spapiErr maps API authentication failures to actionable errors.
func spapiErr(err error) error {
	return mapVendorErr(config.VendorSPAPI, err)
}
