package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration"
	"github.com/vendocli/vendo/internal/integration/netsuite"
)

// Package-level flag variables for the netsuite command group.
var (
	netsuiteProfile string
	netsuiteEnv     string
	netsuiteFormat  string
	netsuiteOutput  string
)

func init() {
	netsuiteCmd.PersistentFlags().StringVar(&netsuiteProfile, "profile", "", "credential profile to use")
	netsuiteCmd.PersistentFlags().StringVar(&netsuiteEnv, "env", "", "target environment: prod, sb1, sb2")
	netsuiteCmd.PersistentFlags().StringVar(&netsuiteFormat, "format", "table", "output format: table, json, csv")
	netsuiteCmd.PersistentFlags().StringVarP(&netsuiteOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(netsuiteCmd)
}

var netsuiteCmd = &cobra.Command{
	Use:   "netsuite",
	Short: "NetSuite SuiteQL operations",
	Long: `Run SuiteQL queries against NetSuite's REST query service.

Authentication uses OAuth 2.0 client credentials with a certificate-
signed assertion. The --env flag targets production or a sandbox;
sandbox tokens are cached separately from production tokens.`,
}

// newNetSuiteClient builds a SuiteQL client for the selected profile
// and environment.
func newNetSuiteClient() (*netsuite.Client, error) {
	p, name, err := resolveProfile(config.VendorNetSuite, netsuiteProfile)
	if err != nil {
		return nil, err
	}

	env := netsuiteEnv
	if env == "" {
		env = p.Env
	}
	account, err := netsuite.AccountForEnv(p.AccountID, env)
	if err != nil {
		return nil, errors.NewUserError(err, "Use --env prod, sb1, or sb2")
	}

	src, err := integration.SourceFor(config.VendorNetSuite, name, env, p)
	if err != nil {
		return nil, errors.NewAuthError(err, config.VendorNetSuite)
	}
	return netsuite.NewClient(account, cachedToken(newTokenCache(), src)), nil
}

// netsuiteErr maps API authentication failures to actionable errors.
func netsuiteErr(err error) error {
	return mapVendorErr(config.VendorNetSuite, err)
}
