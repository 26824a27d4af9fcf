// Package integration maps configured vendor profiles onto credential
// sources, so the auth and doctor commands can treat every vendor
// uniformly.
package integration

import (
	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/integration/google"
	"github.com/vendocli/vendo/internal/integration/netsuite"
	"github.com/vendocli/vendo/internal/integration/plytix"
	"github.com/vendocli/vendo/internal/integration/spapi"
)

// ErrStaticCredentials marks vendors whose credentials never expire
// and therefore have no refresh flow.
var ErrStaticCredentials = errors.New("vendor uses static credentials")

// Refreshable reports whether a vendor has a token refresh flow.
func Refreshable(vendor string) bool {
	switch vendor {
	case config.VendorSPAPI, config.VendorNetSuite, config.VendorGoogle, config.VendorPlytix:
		return true
	}
	return false
}

// SourceFor builds the credential source for a vendor profile. env is
// only meaningful for NetSuite; other vendors ignore it. Static
// vendors return ErrStaticCredentials.
func SourceFor(vendor, profileName, env string, p config.Profile) (credcache.Source, error) {
	switch vendor {
	case config.VendorSPAPI:
		return &spapi.LWASource{
			Profile:      profileName,
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RefreshToken: p.RefreshToken,
		}, nil

	case config.VendorNetSuite:
		if env == "" {
			env = p.Env
		}
		account, err := netsuite.AccountForEnv(p.AccountID, env)
		if err != nil {
			return nil, err
		}
		return &netsuite.Source{
			Profile:        profileName,
			AccountID:      account,
			ClientID:       p.ClientID,
			CertID:         p.CertID,
			PrivateKeyPath: p.PrivateKeyPath,
		}, nil

	case config.VendorGoogle:
		return &google.RefreshSource{
			Profile:      profileName,
			ClientID:     p.ClientID,
			ClientSecret: p.ClientSecret,
			RefreshToken: p.RefreshToken,
		}, nil

	case config.VendorPlytix:
		return &plytix.Source{
			Profile:     profileName,
			APIKey:      p.APIKey,
			APIPassword: p.SecretKey,
		}, nil

	case config.VendorShopify, config.VendorCeligo, config.VendorN8N, config.VendorMimecast:
		return nil, errors.WithDetail(ErrStaticCredentials, vendor)

	default:
		return nil, errors.Newf("unknown vendor %q", vendor)
	}
}
