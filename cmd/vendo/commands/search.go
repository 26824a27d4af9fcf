package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/marketplace"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorGreen = "\033[32m"
	colorGray  = "\033[90m"
)

// Package-level flag variables for search.
var (
	searchType        string
	searchMarketplace string
	searchJSON        bool
	searchInteractive bool
)

func init() {
	searchCmd.Flags().StringVar(&searchType, "type", "", "filter by entry type (plugin, skill, command)")
	searchCmd.Flags().StringVar(&searchMarketplace, "marketplace", "", "filter by marketplace name")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output in JSON format")
	searchCmd.Flags().BoolVarP(&searchInteractive, "interactive", "i", false, "pick interactively with a fuzzy finder")
	rootCmd.AddCommand(searchCmd)
}

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search plugins across registered marketplaces",
	Long: `Search plugins and their skills and commands across every
registered marketplace.

The search is case-insensitive and matches names and descriptions.
If no query is given, everything is listed (subject to filters).`,
	Example: `  # Find anything mentioning netsuite
  vendo search netsuite

  # Only plugins, in one marketplace
  vendo search --type plugin --marketplace internal

  # Pick interactively
  vendo search -i`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

// searchEntry is one searchable item from a marketplace index.
type searchEntry struct {
	Type        string `json:"type"`
	Marketplace string `json:"marketplace"`
	Plugin      string `json:"plugin"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

func runSearch(cmd *cobra.Command, args []string) error {
	var query string
	if len(args) > 0 {
		query = args[0]
	}

	marketplaces, err := newMarketplaceManager().List()
	if err != nil {
		return err
	}
	if len(marketplaces) == 0 {
		cmd.Println("No marketplaces registered.")
		cmd.Println()
		cmd.Println("Add one with:")
		cmd.Println("  vendo marketplace add <url>")
		return nil
	}

	entries := collectSearchEntries(marketplaces)
	results := filterSearchEntries(entries, query)

	if searchInteractive {
		return runInteractiveSearch(cmd.OutOrStdout(), results)
	}
	if searchJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "encoding JSON")
	}
	return outputSearchTabular(cmd.OutOrStdout(), results)
}

// collectSearchEntries walks every marketplace index and expands each
// listed plugin into its skills and commands. Unreadable indexes and
// plugins are skipped; search is best-effort over what is cached.
func collectSearchEntries(marketplaces []config.Marketplace) []searchEntry {
	var entries []searchEntry
	for _, m := range marketplaces {
		if searchMarketplace != "" && m.Name != searchMarketplace {
			continue
		}
		idx, err := marketplace.ReadIndex(m.Path)
		if err != nil {
			continue
		}
		for i := range idx.Plugins {
			e := &idx.Plugins[i]
			entries = append(entries, searchEntry{
				Type: "plugin", Marketplace: m.Name, Plugin: e.Name,
				Name: e.Name, Description: e.Description,
			})

			p, err := e.LoadPlugin(m.Path)
			if err != nil {
				continue
			}
			for _, s := range p.Skills {
				entries = append(entries, searchEntry{
					Type: "skill", Marketplace: m.Name, Plugin: e.Name,
					Name: s.Name, Description: s.Description,
				})
			}
			for _, c := range p.Commands {
				entries = append(entries, searchEntry{
					Type: "command", Marketplace: m.Name, Plugin: e.Name,
					Name: c.Name, Description: c.Description,
				})
			}
		}
	}
	return entries
}

// filterSearchEntries applies the type filter and query, ranking name
// matches ahead of description-only matches.
func filterSearchEntries(entries []searchEntry, query string) []searchEntry {
	q := strings.ToLower(query)

	type ranked struct {
		entry searchEntry
		rank  int
	}
	var matched []ranked
	for _, e := range entries {
		if searchType != "" && e.Type != searchType {
			continue
		}
		name := strings.ToLower(e.Name)
		desc := strings.ToLower(e.Description)
		rank := -1
		switch {
		case q == "" || name == q:
			rank = 0
		case strings.HasPrefix(name, q):
			rank = 1
		case strings.Contains(name, q):
			rank = 2
		case strings.Contains(desc, q):
			rank = 3
		}
		if rank >= 0 {
			matched = append(matched, ranked{e, rank})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if matched[i].rank != matched[j].rank {
			return matched[i].rank < matched[j].rank
		}
		return matched[i].entry.Name < matched[j].entry.Name
	})

	results := make([]searchEntry, len(matched))
	for i, m := range matched {
		results[i] = m.entry
	}
	return results
}

// outputSearchTabular renders results in a human-readable table.
func outputSearchTabular(w io.Writer, results []searchEntry) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%sTYPE%s\t%sMARKETPLACE%s\t%sNAME%s\t%sDESCRIPTION%s\n",
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset,
		colorBold, colorReset)

	for _, r := range results {
		fmt.Fprintf(tw, "%s\t%s\t%s%s%s\t%s%s%s\n",
			r.Type,
			r.Marketplace,
			colorGreen, r.Name, colorReset,
			colorGray, truncate(r.Description, 50), colorReset)
	}
	return tw.Flush()
}

func runInteractiveSearch(w io.Writer, results []searchEntry) error {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matches found.")
		return nil
	}

	idx, err := fuzzyfinder.Find(
		results,
		func(i int) string {
			return fmt.Sprintf("%s: %s (%s)", results[i].Type, results[i].Name, results[i].Marketplace)
		},
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			r := results[i]
			return fmt.Sprintf("Type: %s\nMarketplace: %s\nPlugin: %s\n\nDescription:\n%s",
				r.Type, r.Marketplace, r.Plugin, r.Description)
		}),
	)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return nil
		}
		return errors.Wrap(err, "interactive search failed")
	}

	r := results[idx]
	fmt.Fprintf(w, "Selected: %s (%s)\n", r.Name, r.Type)
	fmt.Fprintf(w, "Marketplace: %s\n", r.Marketplace)
	if r.Type == "plugin" {
		fmt.Fprintf(w, "Install with: vendo plugin install %s/%s\n", r.Marketplace, r.Name)
	} else {
		fmt.Fprintf(w, "From plugin: %s\n", r.Plugin)
	}
	return nil
}

// truncate shortens a string to maxLen characters, adding "..." if truncated.
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
