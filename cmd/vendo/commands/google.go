package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration"
)

// Package-level flag variables for the google command group.
var (
	googleProfile string
	googleFormat  string
	googleOutput  string
)

func init() {
	googleCmd.PersistentFlags().StringVar(&googleProfile, "profile", "", "credential profile to use")
	googleCmd.PersistentFlags().StringVar(&googleFormat, "format", "table", "output format: table, json, csv")
	googleCmd.PersistentFlags().StringVarP(&googleOutput, "output", "o", "", "write output to file instead of stdout")
	rootCmd.AddCommand(googleCmd)
}

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Google Analytics and Search Console operations",
	Long: `Query Google Analytics 4 and Search Console.

Both surfaces share one OAuth profile; the refresh token must carry
the analytics.readonly and webmasters.readonly scopes.`,
}

// googleToken resolves the shared OAuth profile to a cached token
// function, returning the profile alongside for per-surface defaults.
func googleToken() (config.Profile, func(ctx context.Context) (credcache.Token, error), error) {
	p, name, err := resolveProfile(config.VendorGoogle, googleProfile)
	if err != nil {
		return config.Profile{}, nil, err
	}
	src, err := integration.SourceFor(config.VendorGoogle, name, "", p)
	if err != nil {
		return config.Profile{}, nil, errors.NewAuthError(err, config.VendorGoogle)
	}
	return p, cachedToken(newTokenCache(), src), nil
}

// googleErr maps API authentication failures to actionable errors.
func googleErr(err error) error {
	return mapVendorErr(config.VendorGoogle, err)
}
