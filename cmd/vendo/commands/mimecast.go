package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/integration/mimecast"
)

// Package-level flag variables for the mimecast command group.
var (
	mimecastProfile   string
	mimecastFormat    string
	mimecastOutput    string
	mimecastPageSize  int
	mimecastPageToken string
)

func init() {
	mimecastCmd.PersistentFlags().StringVar(&mimecastProfile, "profile", "", "credential profile to use")
	mimecastCmd.PersistentFlags().StringVar(&mimecastFormat, "format", "table", "output format: table, json, csv")
	mimecastCmd.PersistentFlags().StringVarP(&mimecastOutput, "output", "o", "", "write output to file instead of stdout")
	mimecastCmd.PersistentFlags().IntVar(&mimecastPageSize, "page-size", 100, "results per page")
	mimecastCmd.PersistentFlags().StringVar(&mimecastPageToken, "page-token", "", "continue from a previous page")
	rootCmd.AddCommand(mimecastCmd)
}

var mimecastCmd = &cobra.Command{
	Use:   "mimecast",
	Short: "Mimecast email security operations",
	Long: `Query Mimecast TTP logs, audit events, and message tracking.

Every request is individually signed with the profile's application
and access keys; there is no cached token.`,
}

// newMimecastClient builds a signed API client for the selected
// profile.
func newMimecastClient() (*mimecast.Client, error) {
	p, _, err := resolveProfile(config.VendorMimecast, mimecastProfile)
	if err != nil {
		return nil, err
	}

	endpoint := p.Endpoint
	if endpoint == "" {
		endpoint = mimecast.DefaultEndpoint
	}
	signer := mimecast.NewSigner(p.AppID, p.AppKey, p.AccessKey, p.SecretKey)
	return mimecast.NewClient(endpoint, signer), nil
}

// writeMimecastPage renders one page and a continuation hint.
func writeMimecastPage(cmd *cobra.Command, page *mimecast.Page) error {
	tbl := recordTable(page.Data, rawJSON(page.Raw))
	if err := writeOutput(cmd, mimecastFormat, mimecastOutput, tbl); err != nil {
		return err
	}
	if page.NextToken != "" && mimecastFormat == "table" {
		cmd.Printf("\nMore results available. Continue with --page-token %s\n", page.NextToken)
	}
	return nil
}

// mimecastErr maps API authentication failures to actionable errors.
func mimecastErr(err error) error {
	return mapVendorErr(config.VendorMimecast, err)
}
