package commands

import (
	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/marketplace"
	"github.com/vendocli/vendo/internal/paths"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for the marketplace command group.
var (
	marketplaceName   string
	marketplaceFormat string
)

func init() {
	marketplaceAddCmd.Flags().StringVar(&marketplaceName, "name", "", "custom name for the marketplace")
	marketplaceListCmd.Flags().StringVar(&marketplaceFormat, "format", "table", "output format: table, json, csv")

	marketplaceCmd.AddCommand(marketplaceAddCmd)
	marketplaceCmd.AddCommand(marketplaceListCmd)
	marketplaceCmd.AddCommand(marketplaceRemoveCmd)
	marketplaceCmd.AddCommand(marketplaceUpdateCmd)
	rootCmd.AddCommand(marketplaceCmd)
}

var marketplaceCmd = &cobra.Command{
	Use:     "marketplace",
	Aliases: []string{"mp"},
	Short:   "Manage plugin marketplaces",
	Long: `Register and update plugin marketplace repositories.

A marketplace is a git repository carrying a
.claude-plugin/marketplace.json index of installable plugins. Added
marketplaces are shallow-cloned into the local cache.`,
}

// newMarketplaceManager builds the manager over the active config file.
func newMarketplaceManager() *marketplace.Manager {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	return marketplace.NewManager(path, paths.MarketplaceCacheDir())
}

var marketplaceAddCmd = &cobra.Command{
	Use:   "add <url>",
	Short: "Add a marketplace repository",
	Example: `  # Add from GitHub
  vendo marketplace add https://github.com/example/plugin-marketplace.git

  # Add with custom name
  vendo marketplace add git@github.com:org/plugins.git --name internal`,
	Args: cobra.ExactArgs(1),
	RunE: runMarketplaceAdd,
}

func runMarketplaceAdd(cmd *cobra.Command, args []string) error {
	var opts []marketplace.Option
	if marketplaceName != "" {
		opts = append(opts, marketplace.WithName(marketplaceName))
	}

	mp, err := newMarketplaceManager().Add(args[0], opts...)
	if err != nil {
		return marketplaceAddError(err)
	}
	cmd.Printf("✓ Marketplace '%s' added from %s\n", mp.Name, args[0])
	cmd.Printf("  Cached at: %s\n", mp.Path)
	return nil
}

// marketplaceAddError maps manager failures onto actionable messages.
func marketplaceAddError(err error) error {
	switch {
	case errors.Is(err, marketplace.ErrInvalidURL):
		return errors.NewUserError(err, "Use an https:// or git@host:path.git URL")
	case errors.Is(err, marketplace.ErrNameCollision):
		return errors.NewUserError(err, "Pick a different name with --name")
	case errors.Is(err, marketplace.ErrInvalidName):
		return errors.NewUserError(err, "Names are lowercase letters, digits, and hyphens")
	default:
		return err
	}
}

var marketplaceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered marketplaces",
	Args:  cobra.NoArgs,
	RunE:  runMarketplaceList,
}

func runMarketplaceList(cmd *cobra.Command, _ []string) error {
	marketplaces, err := newMarketplaceManager().List()
	if err != nil {
		return err
	}
	if len(marketplaces) == 0 && marketplaceFormat == "table" {
		cmd.Println("No marketplaces registered. Add one with: vendo marketplace add <url>")
		return nil
	}

	tbl := render.Table{Header: []string{"NAME", "URL", "ADDED"}}
	for _, m := range marketplaces {
		added := ""
		if !m.AddedAt.IsZero() {
			added = m.AddedAt.Format("2006-01-02")
		}
		tbl.Rows = append(tbl.Rows, []string{m.Name, m.URL, added})
	}
	if marketplaceFormat != "table" {
		tbl.Raw = marketplaces
	}
	return writeOutput(cmd, marketplaceFormat, "", tbl)
}

var marketplaceRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm"},
	Short:   "Remove a marketplace and its cached clone",
	Args:    cobra.ExactArgs(1),
	RunE:    runMarketplaceRemove,
}

func runMarketplaceRemove(cmd *cobra.Command, args []string) error {
	if err := newMarketplaceManager().Remove(args[0]); err != nil {
		if errors.Is(err, marketplace.ErrNotFound) {
			return errors.NewUserError(err, "List registered marketplaces with: vendo marketplace list")
		}
		return err
	}
	cmd.Printf("✓ Marketplace '%s' removed\n", args[0])
	return nil
}

var marketplaceUpdateCmd = &cobra.Command{
	Use:   "update [name]",
	Short: "Pull the latest marketplace contents",
	Long:  `Update one marketplace's cached clone, or every registered one when no name is given.`,
	Args:  cobra.MaximumNArgs(1),
	RunE:  runMarketplaceUpdate,
}

func runMarketplaceUpdate(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	if err := newMarketplaceManager().Update(name); err != nil {
		return err
	}
	if name == "" {
		cmd.Println("✓ All marketplaces updated")
	} else {
		cmd.Printf("✓ Marketplace '%s' updated\n", name)
	}
	return nil
}
