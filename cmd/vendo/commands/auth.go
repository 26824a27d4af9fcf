package commands

import (
	"sort"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/integration"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for the auth command group.
var (
	authVendor  string
	authProfile string
	authFormat  string
)

func init() {
	authStatusCmd.Flags().StringVar(&authFormat, "format", "table", "output format: table, json, csv")
	authRefreshCmd.Flags().StringVar(&authProfile, "profile", "", "credential profile to refresh")
	authClearCmd.Flags().StringVar(&authVendor, "vendor", "", "only clear one vendor's tokens")

	authCmd.AddCommand(authStatusCmd)
	authCmd.AddCommand(authRefreshCmd)
	authCmd.AddCommand(authClearCmd)
	rootCmd.AddCommand(authCmd)
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage cached vendor credentials",
	Long: `Inspect, refresh, and clear the local token cache.

Tokens are refreshed lazily when a vendor command needs one; these
commands exist for checking state and forcing the issue.`,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cached tokens and their lifetimes",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatus,
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	cache := newTokenCache()
	entries, err := cache.Entries()
	if err != nil {
		return err
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	now := time.Now()
	tbl := render.Table{Header: []string{"KEY", "STATE", "EXPIRES IN", "OBTAINED"}}
	for _, e := range entries {
		state := "fresh"
		if cache.Stale(e.Key) {
			state = "stale"
		}
		ttl := "expired"
		if d := e.Token.TTL(now); d > 0 {
			ttl = d.Round(time.Second).String()
		}
		tbl.Rows = append(tbl.Rows, []string{
			e.Key, state, ttl, e.Token.Obtained.Format(time.RFC3339),
		})
	}
	if len(entries) == 0 && authFormat == "table" {
		cmd.Println("No cached tokens.")
		return nil
	}
	return writeOutput(cmd, authFormat, "", tbl)
}

var authRefreshCmd = &cobra.Command{
	Use:   "refresh <vendor>",
	Short: "Force a token refresh",
	Long: `Discard any cached token for a vendor profile and obtain a fresh
one. Only vendors with a token exchange can be refreshed; static-key
vendors (shopify, celigo, n8n, mimecast) have nothing to refresh.`,
	Example: `  vendo auth refresh netsuite
  vendo auth refresh spapi --profile eu`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: config.Vendors(),
	RunE:      runAuthRefresh,
}

func runAuthRefresh(cmd *cobra.Command, args []string) error {
	vendor := args[0]
	if !config.ValidVendor(vendor) {
		return errors.NewUserError(errors.Newf("unknown vendor %q", vendor), "")
	}
	if !integration.Refreshable(vendor) {
		return errors.NewUserError(
			errors.Newf("%s uses static credentials; there is no token to refresh", vendor),
			"Rotate the key in the vendor's admin console and update the profile")
	}

	p, name, err := resolveProfile(vendor, authProfile)
	if err != nil {
		return err
	}
	src, err := integration.SourceFor(vendor, name, "", p)
	if err != nil {
		return errors.NewAuthError(err, vendor)
	}

	cache := newTokenCache()
	if err := cache.Invalidate(src.Key()); err != nil {
		return err
	}
	tok, err := cache.Get(cmd.Context(), src)
	if err != nil {
		return errors.NewAuthError(err, vendor)
	}
	cmd.Printf("Refreshed %s, valid for %s\n", src.Key(), tok.TTL(time.Now()).Round(time.Second))
	return nil
}

var authClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove cached tokens",
	Example: `  # Everything
  vendo auth clear

  # One vendor
  vendo auth clear --vendor netsuite`,
	Args: cobra.NoArgs,
	RunE: runAuthClear,
}

func runAuthClear(cmd *cobra.Command, _ []string) error {
	removed, err := newTokenCache().InvalidateAll(authVendor)
	if err != nil {
		return err
	}
	cmd.Printf("Removed %d cached token(s)\n", removed)
	return nil
}
