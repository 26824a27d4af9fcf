package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/httpx"
	"github.com/vendocli/vendo/internal/render"
)

// mapVendorErr turns an authentication failure from a vendor API into
// an actionable user error pointing at the cached credentials.
func mapVendorErr(vendor string, err error) error {
	if httpx.IsAuth(err) {
		return errors.NewAuthError(err, vendor)
	}
	return err
}

// requireConfig returns the config loaded at startup, or the load
// error if it failed.
func requireConfig() (*config.Config, error) {
	if configLoadErr != nil {
		return nil, errors.NewConfigError(configLoadErr)
	}
	if loadedConfig == nil {
		return nil, errors.NewConfigError(errors.New("configuration not initialized"))
	}
	return loadedConfig, nil
}

// resolveProfile resolves a vendor profile by flag value, applying the
// config's default-profile fallbacks.
func resolveProfile(vendor, name string) (config.Profile, string, error) {
	cfg, err := requireConfig()
	if err != nil {
		return config.Profile{}, "", err
	}
	p, resolved, err := cfg.ResolveProfile(vendor, name)
	if err != nil {
		return config.Profile{}, "", errors.NewUserError(err,
			"Add a profile under profiles."+vendor+" in the config file")
	}
	if missing := config.MissingFields(vendor, p); len(missing) > 0 {
		return config.Profile{}, "", errors.NewConfigError(errors.Newf(
			"profile %s.%s is missing: %s", vendor, resolved, strings.Join(missing, ", ")))
	}
	return p, resolved, nil
}

// newTokenCache builds the credential cache. Tokens live in the XDG
// cache directory unless VENDO_TOKEN_STORE=env selects the read-only
// environment store for CI.
func newTokenCache() *credcache.Cache {
	var store credcache.Store
	if os.Getenv("VENDO_TOKEN_STORE") == "env" {
		store = credcache.NewEnvStore()
	} else {
		store = credcache.DefaultFileStore()
	}

	skew := time.Duration(config.DefaultSkewMinutes) * time.Minute
	if loadedConfig != nil {
		skew = time.Duration(loadedConfig.Cache.Skew()) * time.Minute
	}
	return credcache.New(store, credcache.WithSkew(skew))
}

// cachedToken adapts a source to the per-request token function the
// vendor clients take.
func cachedToken(cache *credcache.Cache, src credcache.Source) func(ctx context.Context) (credcache.Token, error) {
	return func(ctx context.Context) (credcache.Token, error) {
		return cache.Get(ctx, src)
	}
}

// writeOutput renders a table honoring --format and --output.
func writeOutput(cmd *cobra.Command, formatFlag, outputFlag string, tbl render.Table) error {
	format, err := render.ParseFormat(formatFlag)
	if err != nil {
		return errors.NewUserError(err, "Use --format table, json, or csv")
	}

	if outputFlag != "" {
		w, err := render.Target(outputFlag)
		if err != nil {
			return err
		}
		if err := render.Write(w, format, tbl); err != nil {
			w.Close()
			return err
		}
		return w.Close()
	}
	return render.Write(cmd.OutOrStdout(), format, tbl)
}

// recordTable flattens generic result rows into a table. Columns are
// the union of keys across rows, sorted for stable output; HATEOAS
// "links" arrays are dropped.
func recordTable(rows []map[string]any, raw any) render.Table {
	seen := map[string]bool{}
	for _, row := range rows {
		for k := range row {
			seen[k] = true
		}
	}
	header := make([]string, 0, len(seen))
	for k := range seen {
		if k == "links" {
			continue
		}
		header = append(header, k)
	}
	sort.Strings(header)

	tbl := render.Table{Header: header, Raw: raw}
	if tbl.Raw == nil && rows != nil {
		tbl.Raw = rows
	}
	for _, row := range rows {
		cells := make([]string, len(header))
		for i, k := range header {
			if v, ok := row[k]; ok && v != nil {
				cells[i] = fmt.Sprintf("%v", v)
			}
		}
		tbl.Rows = append(tbl.Rows, cells)
	}
	return tbl
}

// rawJSON wraps a response body so JSON output emits it verbatim
// rather than base64-encoded.
func rawJSON(body []byte) any {
	if len(body) == 0 {
		return nil
	}
	return json.RawMessage(body)
}

// parseSince turns a --since value into a point in time. Accepts Nd
// for days, Nw for weeks, and Go durations like 36h.
func parseSince(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if n, ok := cutSuffixInt(s, "d"); ok {
		return now.AddDate(0, 0, -n), nil
	}
	if n, ok := cutSuffixInt(s, "w"); ok {
		return now.AddDate(0, 0, -7*n), nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return time.Time{}, errors.NewUserError(
			errors.Newf("invalid --since value %q", s),
			"Use a day count like 7d, a week count like 2w, or a duration like 36h")
	}
	return now.Add(-d), nil
}

func cutSuffixInt(s, suffix string) (int, bool) {
	rest, ok := strings.CutSuffix(s, suffix)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}
