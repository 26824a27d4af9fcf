package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration"
	"github.com/vendocli/vendo/internal/integration/plytix"
)

// Package-level flag variables for the plytix command group.
var (
	plytixProfile string
	plytixFormat  string
	plytixOutput  string
)

func init() {
	plytixCmd.PersistentFlags().StringVar(&plytixProfile, "profile", "", "credential profile to use")
	plytixCmd.PersistentFlags().StringVar(&plytixFormat, "format", "table", "output format: table, json, csv")
	plytixCmd.PersistentFlags().StringVarP(&plytixOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(plytixCmd)
}

var plytixCmd = &cobra.Command{
	Use:   "plytix",
	Short: "Plytix PIM operations",
	Long: `Search and inspect products in the Plytix PIM.

The profile's api_key and secret_key are exchanged for a short-lived
bearer token, cached for its fifteen-minute lifetime.`,
}

// newPlytixClient builds a PIM client for the selected profile.
func newPlytixClient() (*plytix.Client, error) {
	p, name, err := resolveProfile(config.VendorPlytix, plytixProfile)
	if err != nil {
		return nil, err
	}
	src, err := integration.SourceFor(config.VendorPlytix, name, "", p)
	if err != nil {
		return nil, errors.NewAuthError(err, config.VendorPlytix)
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = plytix.DefaultEndpoint
	}
	return plytix.NewClient(endpoint, cachedToken(newTokenCache(), src)), nil
}

// plytixErr maps API authentication failures to actionable errors.
func plytixErr(err error) error {
	return mapVendorErr(config.VendorPlytix, err)
}
