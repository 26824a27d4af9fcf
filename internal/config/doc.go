// Package config provides configuration management for the vendo CLI.
//
// This package handles loading, saving, and validating vendo's own
// configuration file, which holds credential profiles for each vendor
// integration and the registered plugin marketplaces.
//
// # Configuration File
//
// The default configuration file location is ~/.config/vendo/config.yaml.
// The configuration file uses YAML format with the following structure:
//
//	version: 1
//	defaults:
//	  netsuite: production
//	profiles:
//	  netsuite:
//	    production:
//	      account_id: "1234567"
//	      client_id: "abc..."
//	      cert_id: "xyz..."
//	      private_key_path: ~/.config/vendo/netsuite.pem
//	      env: prod
//	  shopify:
//	    default:
//	      endpoint: https://my-store.myshopify.com
//	      access_token: shpat_...
//	marketplaces:
//	  commerce-plugins:
//	    url: https://github.com/example/commerce-plugins.git
//	cache:
//	  skew_minutes: 5
//
// Because profiles carry long-lived secrets, Save writes the file with
// 0600 permissions.
package config
