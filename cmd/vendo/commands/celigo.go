package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/integration/celigo"
)

// Package-level flag variables for the celigo command group.
var (
	celigoProfile string
	celigoFormat  string
	celigoOutput  string
)

func init() {
	celigoCmd.PersistentFlags().StringVar(&celigoProfile, "profile", "", "credential profile to use")
	celigoCmd.PersistentFlags().StringVar(&celigoFormat, "format", "table", "output format: table, json, csv")
	celigoCmd.PersistentFlags().StringVarP(&celigoOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(celigoCmd)
}

var celigoCmd = &cobra.Command{
	Use:   "celigo",
	Short: "Celigo integrator.io operations",
	Long: `Inspect and run Celigo integrator.io integrations and flows.

The profile's api_key is a static bearer token; there is no refresh
flow.`,
}

// newCeligoClient builds an integrator.io client for the selected
// profile.
func newCeligoClient() (*celigo.Client, error) {
	p, _, err := resolveProfile(config.VendorCeligo, celigoProfile)
	if err != nil {
		return nil, err
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = celigo.DefaultEndpoint
	}
	return celigo.NewClient(endpoint, p.APIKey), nil
}

// celigoErr maps API authentication failures to actionable errors.
func celigoErr(err error) error {
	return mapVendorErr(config.VendorCeligo, err)
}
