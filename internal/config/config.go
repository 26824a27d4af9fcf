// Package config provides configuration management for vendo using Viper.
package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/vendocli/vendo/internal/paths"
	"github.com/vendocli/vendo/pkg/fileutil"
)

// AppName is the application name used for config file naming.
const AppName = "vendo"

// DefaultSkewMinutes is the refresh window before token expiry.
// A cached token within this many minutes of expiring is treated as stale.
const DefaultSkewMinutes = 5

// Config represents the top-level configuration structure.
type Config struct {
	Version      int                           `mapstructure:"version" yaml:"version" toml:"version" json:"version"`
	Defaults     map[string]string             `mapstructure:"defaults" yaml:"defaults,omitempty" toml:"defaults,omitempty" json:"defaults,omitempty"`
	Profiles     map[string]map[string]Profile `mapstructure:"profiles" yaml:"profiles,omitempty" toml:"profiles,omitempty" json:"profiles,omitempty"`
	Marketplaces map[string]Marketplace        `mapstructure:"marketplaces" yaml:"marketplaces,omitempty" toml:"marketplaces,omitempty" json:"marketplaces,omitempty"`
	Cache        CacheConfig                   `mapstructure:"cache" yaml:"cache,omitempty" toml:"cache,omitempty" json:"cache,omitempty"`
}

// Profile is a named credential set for one vendor environment
// (e.g. "production", "sandbox2"). Which fields are required depends
// on the vendor; see RequiredFields.
type Profile struct {
	// Endpoint is the account- or region-specific API root URL.
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint,omitempty" toml:"endpoint,omitempty" json:"endpoint,omitempty"`

	// OAuth2 client-credentials / refresh-token material.
	ClientID     string `mapstructure:"client_id" yaml:"client_id,omitempty" toml:"client_id,omitempty" json:"client_id,omitempty"`
	ClientSecret string `mapstructure:"client_secret" yaml:"client_secret,omitempty" toml:"client_secret,omitempty" json:"client_secret,omitempty"`
	RefreshToken string `mapstructure:"refresh_token" yaml:"refresh_token,omitempty" toml:"refresh_token,omitempty" json:"refresh_token,omitempty"`

	// Static credentials for vendors without a token exchange.
	APIKey      string `mapstructure:"api_key" yaml:"api_key,omitempty" toml:"api_key,omitempty" json:"api_key,omitempty"`
	AccessToken string `mapstructure:"access_token" yaml:"access_token,omitempty" toml:"access_token,omitempty" json:"access_token,omitempty"`

	// NetSuite certificate-based auth.
	AccountID      string `mapstructure:"account_id" yaml:"account_id,omitempty" toml:"account_id,omitempty" json:"account_id,omitempty"`
	CertID         string `mapstructure:"cert_id" yaml:"cert_id,omitempty" toml:"cert_id,omitempty" json:"cert_id,omitempty"`
	PrivateKeyPath string `mapstructure:"private_key_path" yaml:"private_key_path,omitempty" toml:"private_key_path,omitempty" json:"private_key_path,omitempty"`

	// Mimecast application credentials.
	AppID     string `mapstructure:"app_id" yaml:"app_id,omitempty" toml:"app_id,omitempty" json:"app_id,omitempty"`
	AppKey    string `mapstructure:"app_key" yaml:"app_key,omitempty" toml:"app_key,omitempty" json:"app_key,omitempty"`
	AccessKey string `mapstructure:"access_key" yaml:"access_key,omitempty" toml:"access_key,omitempty" json:"access_key,omitempty"`
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key,omitempty" toml:"secret_key,omitempty" json:"secret_key,omitempty"`

	// Optional vendor-specific defaults.
	Env        string `mapstructure:"env" yaml:"env,omitempty" toml:"env,omitempty" json:"env,omitempty"`                                 // NetSuite: prod, sb1, sb2
	PropertyID string `mapstructure:"property_id" yaml:"property_id,omitempty" toml:"property_id,omitempty" json:"property_id,omitempty"` // GA4 property
	SiteURL    string `mapstructure:"site_url" yaml:"site_url,omitempty" toml:"site_url,omitempty" json:"site_url,omitempty"`             // Search Console site
	APIVersion string `mapstructure:"api_version" yaml:"api_version,omitempty" toml:"api_version,omitempty" json:"api_version,omitempty"` // Shopify Admin API version
}

// Marketplace records a registered plugin marketplace repository.
type Marketplace struct {
	Name    string    `mapstructure:"name" yaml:"name" toml:"name" json:"name"`
	URL     string    `mapstructure:"url" yaml:"url" toml:"url" json:"url"`
	Path    string    `mapstructure:"path" yaml:"path" toml:"path" json:"path"`
	AddedAt time.Time `mapstructure:"added_at" yaml:"added_at,omitempty" toml:"added_at,omitempty" json:"added_at,omitempty"`
}

// CacheConfig holds token cache tuning.
type CacheConfig struct {
	// SkewMinutes is how long before expiry a token is refreshed.
	SkewMinutes int `mapstructure:"skew_minutes" yaml:"skew_minutes,omitempty" toml:"skew_minutes,omitempty" json:"skew_minutes,omitempty"`
}

// Skew returns the configured refresh window, falling back to the default.
func (c CacheConfig) Skew() int {
	if c.SkewMinutes <= 0 {
		return DefaultSkewMinutes
	}
	return c.SkewMinutes
}

// Init initializes Viper with default configuration.
// Call this once at application startup before accessing config values.
func Init() {
	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".") // Current directory
	viper.AddConfigPath(paths.ConfigDir())

	// Environment variable support
	viper.SetEnvPrefix("VENDO")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("cache.skew_minutes", DefaultSkewMinutes)
}

// Load reads the configuration file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations.
// Returns the loaded configuration or default values if no file is found (when path is empty).
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		// If config file not found...
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// If user specified a path, this is an error
			if path != "" {
				return nil, fmt.Errorf("config file not found at %s: %w", path, err)
			}
			// Otherwise (implicit load), it's fine to use defaults
		} else {
			// Real read error (parsing, permissions, etc)
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// Parse decodes raw YAML config bytes without touching the global
// Viper state. Callers that operate on an explicit path, such as the
// marketplace manager, use this instead of Load.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.Version == 0 {
		cfg.Version = 1
	}
	return &cfg, nil
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(paths.ConfigDir(), "config.yaml")
}

// Save writes the configuration to path atomically.
// Profiles carry secrets, so the file is written with 0600 permissions.
func Save(cfg *Config, path string) error {
	if err := paths.EnsureDir(filepath.Dir(path), 0); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return fileutil.AtomicWriteYAMLWithPerm(path, cfg, 0600)
}

// ResolveProfile returns the named profile for a vendor.
// An empty name falls back to the vendor's configured default, then to
// "default", then to the only profile if exactly one exists.
func (c *Config) ResolveProfile(vendor, name string) (Profile, string, error) {
	vendorProfiles := c.Profiles[vendor]
	if len(vendorProfiles) == 0 {
		return Profile{}, "", fmt.Errorf("no profiles configured for vendor %q", vendor)
	}

	if name == "" {
		name = c.Defaults[vendor]
	}
	if name == "" {
		if _, ok := vendorProfiles["default"]; ok {
			name = "default"
		} else if len(vendorProfiles) == 1 {
			for only := range vendorProfiles {
				name = only
			}
		}
	}
	if name == "" {
		return Profile{}, "", fmt.Errorf("multiple profiles configured for vendor %q, select one with --profile", vendor)
	}

	p, ok := vendorProfiles[name]
	if !ok {
		return Profile{}, "", fmt.Errorf("profile %q not found for vendor %q", name, vendor)
	}
	return p, name, nil
}
