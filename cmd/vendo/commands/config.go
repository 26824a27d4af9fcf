package commands

import (
	"encoding/json"
	"os"

	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/editor"
	"github.com/vendocli/vendo/internal/errors"
)

var (
	configShowSecrets bool
	configShowFormat  string
)

func init() {
	configShowCmd.Flags().BoolVar(&configShowSecrets, "secrets", false, "print credential values instead of masking them")
	configShowCmd.Flags().StringVar(&configShowFormat, "format", "yaml", "output format: yaml, toml, json")

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configEditCmd)
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage vendo configuration",
	Long: `Inspect and maintain the config file holding vendor profiles.

Without a subcommand, shows the active configuration with credential
values masked.`,
	Example: `  # Show the active configuration
  vendo config

  # Where is it loaded from?
  vendo config path

  # Create a starter file
  vendo config init`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the active configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := requireConfig()
	if err != nil {
		return err
	}

	out := *cfg
	if !configShowSecrets {
		out.Profiles = maskProfiles(cfg.Profiles)
	}

	var data []byte
	switch configShowFormat {
	case "yaml", "":
		data, err = yaml.Marshal(&out)
	case "toml":
		data, err = toml.Marshal(&out)
	case "json":
		data, err = json.MarshalIndent(&out, "", "  ")
		data = append(data, '\n')
	default:
		return errors.NewUserError(errors.Newf("unknown format %q", configShowFormat),
			"Use --format yaml, toml, or json")
	}
	if err != nil {
		return errors.Wrap(err, "marshaling config")
	}
	cmd.Print(string(data))
	return nil
}

// maskProfiles replaces credential material with a placeholder so the
// output is safe to paste into a ticket.
func maskProfiles(profiles map[string]map[string]config.Profile) map[string]map[string]config.Profile {
	const mask = "********"
	masked := make(map[string]map[string]config.Profile, len(profiles))
	for vendor, byName := range profiles {
		masked[vendor] = make(map[string]config.Profile, len(byName))
		for name, p := range byName {
			for _, field := range []*string{
				&p.ClientSecret, &p.RefreshToken, &p.APIKey, &p.AccessToken,
				&p.AppKey, &p.AccessKey, &p.SecretKey,
			} {
				if *field != "" {
					*field = mask
				}
			}
			masked[vendor][name] = p
		}
	}
	return masked
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file location",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if configFile != "" {
			cmd.Println(configFile)
			return nil
		}
		cmd.Println(config.DefaultPath())
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter config file",
	Long: `Write a skeleton config file with one example profile per vendor.

Refuses to overwrite an existing file. The file is created with 0600
permissions since profiles hold credentials.`,
	Args: cobra.NoArgs,
	RunE: runConfigInit,
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return errors.NewUserError(errors.Newf("config file already exists at %s", path),
			"Edit it with: vendo config edit")
	}

	cfg := &config.Config{
		Version: 1,
		Defaults: map[string]string{
			config.VendorNetSuite: "production",
		},
		Profiles: map[string]map[string]config.Profile{
			config.VendorNetSuite: {
				"production": {
					AccountID:      "1234567",
					ClientID:       "your-client-id",
					CertID:         "your-certificate-id",
					PrivateKeyPath: "~/.config/vendo/netsuite.pem",
					Env:            config.EnvProd,
				},
			},
			config.VendorShopify: {
				"default": {
					Endpoint:    "your-shop.myshopify.com",
					AccessToken: "shpat_...",
				},
			},
		},
	}
	if err := config.Save(cfg, path); err != nil {
		return err
	}
	cmd.Printf("✓ Created %s\n", path)
	cmd.Println("Fill in your vendor profiles, then verify with: vendo doctor")
	return nil
}

var configEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Open the config file in $EDITOR",
	Args:  cobra.NoArgs,
	RunE:  runConfigEdit,
}

func runConfigEdit(_ *cobra.Command, _ []string) error {
	path := configFile
	if path == "" {
		path = config.DefaultPath()
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return errors.NewUserError(errors.Newf("config file not found at %s", path),
			"Create it with: vendo config init")
	}

	return editor.Open(path)
}
