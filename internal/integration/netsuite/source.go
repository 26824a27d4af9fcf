// Package netsuite is a thin SuiteQL client for the NetSuite REST API,
// authenticating with the OAuth 2.0 client-credentials flow and a
// certificate-backed JWT assertion.
package netsuite

import (
	"context"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/golang-jwt/jwt/v5"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// assertionTTL is the lifetime of the client assertion, not of the
// issued access token. NetSuite rejects assertions valid longer than
// an hour.
const assertionTTL = 5 * time.Minute

// Environment names for NetSuite accounts.
const (
	EnvProd = "prod"
	EnvSB1  = "sb1"
	EnvSB2  = "sb2"
)

// AccountForEnv maps a base account id to its environment-specific
// form: sandbox environments append _SB1 / _SB2.
func AccountForEnv(accountID, env string) (string, error) {
	base := strings.ToUpper(accountID)
	switch env {
	case "", EnvProd:
		return base, nil
	case EnvSB1:
		return withSuffix(base, "_SB1"), nil
	case EnvSB2:
		return withSuffix(base, "_SB2"), nil
	default:
		return "", errors.Newf("unknown environment %q (expected prod, sb1, or sb2)", env)
	}
}

func withSuffix(account, suffix string) string {
	if strings.HasSuffix(account, suffix) {
		return account
	}
	return account + suffix
}

// Domain returns the account-specific API host, e.g.
// 1234567-sb1.suitetalk.api.netsuite.com.
func Domain(accountID string) string {
	return strings.ToLower(strings.ReplaceAll(accountID, "_", "-")) + ".suitetalk.api.netsuite.com"
}

// BaseURL returns the REST root for an account.
func BaseURL(accountID string) string {
	return "https://" + Domain(accountID)
}

// Source mints access tokens via the client-credentials grant. The
// client assertion is a PS256 JWT signed with the integration's
// certificate key; the certificate id travels in the kid header.
type Source struct {
	Profile        string
	AccountID      string // environment-specific form, from AccountForEnv
	ClientID       string
	CertID         string
	PrivateKeyPath string

	// TokenURL overrides the account token endpoint, for tests.
	TokenURL string

	// HTTPClient overrides the default token client, for tests.
	HTTPClient *httpx.Client

	// now is injectable for assertion-claim tests.
	now func() time.Time
}

// Key returns the cache key for this profile's token. Sandbox and
// production tokens cache separately because the account id differs.
func (s *Source) Key() string {
	return "netsuite/" + s.Profile + "/" + strings.ToLower(s.AccountID)
}

// Refresh signs a fresh assertion and exchanges it for an access token.
func (s *Source) Refresh(ctx context.Context) (credcache.Token, error) {
	if s.AccountID == "" || s.ClientID == "" || s.CertID == "" || s.PrivateKeyPath == "" {
		return credcache.Token{}, errors.New("profile is missing account_id, client_id, cert_id, or private_key_path")
	}

	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = BaseURL(s.AccountID) + "/services/rest/auth/oauth2/v1/token"
	}

	assertion, err := s.signAssertion(tokenURL)
	if err != nil {
		return credcache.Token{}, err
	}

	client := s.HTTPClient
	if client == nil {
		client = httpx.NewClient(tokenURL)
	}

	form := url.Values{}
	form.Set("grant_type", "client_credentials")
	form.Set("client_assertion_type", "urn:ietf:params:oauth:client-assertion-type:jwt-bearer")
	form.Set("client_assertion", assertion)

	// NetSuite returns expires_in as a JSON string.
	var resp struct {
		AccessToken string      `json:"access_token"`
		TokenType   string      `json:"token_type"`
		ExpiresIn   json.Number `json:"expires_in"`
	}
	err = client.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   tokenURL,
		Form:   form,
	}, &resp)
	if err != nil {
		return credcache.Token{}, errors.Wrap(err, "NetSuite token exchange")
	}
	if resp.AccessToken == "" {
		return credcache.Token{}, errors.New("token response had no access_token")
	}

	expiresIn, err := resp.ExpiresIn.Int64()
	if err != nil {
		expiresIn = 3600
	}

	now := s.clock()
	return credcache.Token{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(time.Duration(expiresIn) * time.Second),
		Obtained:    now,
	}, nil
}

// signAssertion builds the PS256 client assertion.
func (s *Source) signAssertion(audience string) (string, error) {
	key, err := s.loadKey()
	if err != nil {
		return "", err
	}

	now := s.clock()
	claims := jwt.MapClaims{
		"iss":   s.ClientID,
		"scope": []string{"rest_webservices"},
		"aud":   audience,
		"iat":   now.Unix(),
		"exp":   now.Add(assertionTTL).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodPS256, claims)
	token.Header["kid"] = s.CertID

	signed, err := token.SignedString(key)
	if err != nil {
		return "", errors.Wrap(err, "signing client assertion")
	}
	return signed, nil
}

func (s *Source) loadKey() (*rsa.PrivateKey, error) {
	pemData, err := os.ReadFile(s.PrivateKeyPath)
	if err != nil {
		return nil, errors.Wrapf(err, "reading private key %s", s.PrivateKeyPath)
	}
	key, err := jwt.ParseRSAPrivateKeyFromPEM(pemData)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing private key %s", s.PrivateKeyPath)
	}
	return key, nil
}

func (s *Source) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}
