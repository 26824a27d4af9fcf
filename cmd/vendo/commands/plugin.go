package commands

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/marketplace"
	"github.com/vendocli/vendo/internal/paths"
	"github.com/vendocli/vendo/internal/plugin"
	"github.com/vendocli/vendo/internal/plugin/validator"
	"github.com/vendocli/vendo/internal/render"
)

// Package-level flag variables for the plugin command group.
var (
	pluginFormat string
	pluginStrict bool
)

func init() {
	pluginListCmd.Flags().StringVar(&pluginFormat, "format", "table", "output format: table, json, csv")
	pluginValidateCmd.Flags().BoolVar(&pluginStrict, "strict", false, "require version and allowed-tools declarations")

	pluginCmd.AddCommand(pluginListCmd)
	pluginCmd.AddCommand(pluginShowCmd)
	pluginCmd.AddCommand(pluginInstallCmd)
	pluginCmd.AddCommand(pluginRemoveCmd)
	pluginCmd.AddCommand(pluginValidateCmd)
	rootCmd.AddCommand(pluginCmd)
}

var pluginCmd = &cobra.Command{
	Use:   "plugin",
	Short: "Manage installed plugins",
	Long: `Install, inspect, and validate plugins.

Plugins bundle Markdown skills and commands under a
.claude-plugin/plugin.json manifest. They install from registered
marketplaces or straight from a local directory.`,
}

func newInstaller() *marketplace.Installer {
	return marketplace.NewInstaller(paths.PluginInstallDir())
}

var pluginListCmd = &cobra.Command{
	Use:   "list",
	Short: "List installed plugins",
	Args:  cobra.NoArgs,
	RunE:  runPluginList,
}

func runPluginList(cmd *cobra.Command, _ []string) error {
	plugins, err := newInstaller().Installed()
	if err != nil {
		return err
	}
	if len(plugins) == 0 && pluginFormat == "table" {
		cmd.Println("No plugins installed. Browse marketplaces with: vendo search")
		return nil
	}

	tbl := render.Table{Header: []string{"NAME", "VERSION", "SKILLS", "COMMANDS", "DESCRIPTION"}}
	for _, p := range plugins {
		tbl.Rows = append(tbl.Rows, []string{
			p.Manifest.Name, p.Manifest.Version,
			strconv.Itoa(len(p.Skills)), strconv.Itoa(len(p.Commands)),
			p.Manifest.Description,
		})
	}
	if pluginFormat != "table" {
		tbl.Raw = plugins
	}
	return writeOutput(cmd, pluginFormat, "", tbl)
}

var pluginShowCmd = &cobra.Command{
	Use:   "show <name>",
	Short: "Show an installed plugin's contents",
	Args:  cobra.ExactArgs(1),
	RunE:  runPluginShow,
}

func runPluginShow(cmd *cobra.Command, args []string) error {
	p, err := plugin.Load(paths.InstalledPluginDir(args[0]))
	if err != nil {
		if errors.Is(err, plugin.ErrNoManifest) {
			return errors.NewUserError(errors.Newf("plugin %q is not installed", args[0]),
				"List installed plugins with: vendo plugin list")
		}
		return err
	}

	cmd.Printf("%s %s\n", p.Manifest.Name, p.Manifest.Version)
	if p.Manifest.Description != "" {
		cmd.Printf("  %s\n", p.Manifest.Description)
	}
	if p.Manifest.Author != nil && p.Manifest.Author.Name != "" {
		cmd.Printf("  Author: %s\n", p.Manifest.Author.Name)
	}
	if len(p.Skills) > 0 {
		cmd.Println("\nSkills:")
		for _, s := range p.Skills {
			cmd.Printf("  %-24s %s\n", s.Name, s.Description)
		}
	}
	if len(p.Commands) > 0 {
		cmd.Println("\nCommands:")
		for _, c := range p.Commands {
			cmd.Printf("  /%-23s %s\n", c.Name, c.Description)
		}
	}
	return nil
}

var pluginInstallCmd = &cobra.Command{
	Use:   "install <plugin>",
	Short: "Install a plugin",
	Long: `Install a plugin from a registered marketplace or a local directory.

The argument is a plugin name, a marketplace-qualified name, or a path
to a plugin directory. Marketplace installs look the name up in each
registered index; qualify it when two marketplaces list the same name.`,
	Example: `  # By name, searching all marketplaces
  vendo plugin install sales-reports

  # Qualified by marketplace
  vendo plugin install internal/sales-reports

  # From a local checkout
  vendo plugin install ./my-plugin`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginInstall,
}

func runPluginInstall(cmd *cobra.Command, args []string) error {
	ref := args[0]

	srcDir, err := resolvePluginSource(ref)
	if err != nil {
		return err
	}
	p, err := newInstaller().Install(srcDir)
	if err != nil {
		return err
	}
	cmd.Printf("✓ Installed %s %s (%d skills, %d commands)\n",
		p.Manifest.Name, p.Manifest.Version, len(p.Skills), len(p.Commands))
	return nil
}

// resolvePluginSource maps an install reference to a plugin directory.
// Local paths win; otherwise the registered marketplaces are searched.
func resolvePluginSource(ref string) (string, error) {
	if strings.HasPrefix(ref, ".") || strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "~") {
		return ref, nil
	}

	mpName, pluginName := "", ref
	if i := strings.IndexByte(ref, '/'); i > 0 {
		mpName, pluginName = ref[:i], ref[i+1:]
	}

	manager := newMarketplaceManager()
	marketplaces, err := manager.List()
	if err != nil {
		return "", err
	}
	if len(marketplaces) == 0 {
		return "", errors.NewUserError(errors.New("no marketplaces registered"),
			"Add one with: vendo marketplace add <url>")
	}

	var matches []string
	for _, m := range marketplaces {
		if mpName != "" && m.Name != mpName {
			continue
		}
		idx, err := marketplace.ReadIndex(m.Path)
		if err != nil {
			continue
		}
		entry, err := idx.Find(pluginName)
		if err != nil {
			continue
		}
		dir, err := entry.SourceDir(m.Path)
		if err != nil {
			return "", err
		}
		matches = append(matches, dir)
	}

	switch len(matches) {
	case 0:
		return "", errors.NewUserError(errors.Newf("plugin %q not found in any marketplace", pluginName),
			"Refresh indexes with: vendo marketplace update")
	case 1:
		return matches[0], nil
	default:
		return "", errors.NewUserError(errors.Newf("plugin %q is listed by %d marketplaces", pluginName, len(matches)),
			"Qualify the name as <marketplace>/<plugin>")
	}
}

var pluginRemoveCmd = &cobra.Command{
	Use:     "remove <name>",
	Aliases: []string{"rm", "uninstall"},
	Short:   "Remove an installed plugin",
	Args:    cobra.ExactArgs(1),
	RunE:    runPluginRemove,
}

func runPluginRemove(cmd *cobra.Command, args []string) error {
	if err := newInstaller().Remove(args[0]); err != nil {
		if errors.Is(err, marketplace.ErrNotInstalled) {
			return errors.NewUserError(err, "List installed plugins with: vendo plugin list")
		}
		return err
	}
	cmd.Printf("✓ Removed %s\n", args[0])
	return nil
}

var pluginValidateCmd = &cobra.Command{
	Use:   "validate <dir>",
	Short: "Validate a plugin directory",
	Long: `Load a plugin directory and check its manifest, skills, and
commands against the packaging rules. Exit code 1 means problems were
found.`,
	Args: cobra.ExactArgs(1),
	RunE: runPluginValidate,
}

func runPluginValidate(cmd *cobra.Command, args []string) error {
	p, err := plugin.Load(args[0])
	if err != nil {
		return err
	}

	var opts []validator.Option
	if pluginStrict {
		opts = append(opts, validator.WithStrict())
	}
	res := validator.New(opts...).Validate(p)
	if res.Valid() {
		cmd.Printf("✓ %s is valid (%d skills, %d commands)\n",
			p.Manifest.Name, len(p.Skills), len(p.Commands))
		return nil
	}

	cmd.Println(validator.Describe(res))
	return errors.NewExitError(errors.Newf("%d validation problem(s)", len(res.Errors)), errors.ExitUser)
}
