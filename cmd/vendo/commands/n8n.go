package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/integration/n8n"
)

// Package-level flag variables for the n8n command group.
var (
	n8nProfile string
	n8nFormat  string
	n8nOutput  string
)

func init() {
	n8nCmd.PersistentFlags().StringVar(&n8nProfile, "profile", "", "credential profile to use")
	n8nCmd.PersistentFlags().StringVar(&n8nFormat, "format", "table", "output format: table, json, csv")
	n8nCmd.PersistentFlags().StringVarP(&n8nOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(n8nCmd)
}

var n8nCmd = &cobra.Command{
	Use:   "n8n",
	Short: "n8n workflow operations",
	Long: `Manage workflows and inspect executions on an n8n instance.

The profile's endpoint is the instance URL and api_key a public-API
key created in the instance settings.`,
}

// newN8NClient builds a public-API client for the selected profile.
func newN8NClient() (*n8n.Client, error) {
	p, _, err := resolveProfile(config.VendorN8N, n8nProfile)
	if err != nil {
		return nil, err
	}
	return n8n.NewClient(p.Endpoint, p.APIKey), nil
}

// n8nErr maps API authentication failures to actionable errors.
func n8nErr(err error) error {
	return mapVendorErr(config.VendorN8N, err)
}
