// Package spapi is a thin client for the Amazon Selling Partner API:
// LWA token refresh plus the orders, catalog, and reports operations.
package spapi

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// LWAEndpoint is Amazon's Login with Amazon token endpoint.
const LWAEndpoint = "https://api.amazon.com/auth/o2/token"

// LWASource exchanges a long-lived LWA refresh token for a short-lived
// access token. It implements credcache.Source.
type LWASource struct {
	Profile      string
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides LWAEndpoint, for tests.
	TokenURL string

	// HTTPClient overrides the default token client, for tests.
	HTTPClient *httpx.Client
}

// Key returns the cache key for this profile's LWA token.
func (s *LWASource) Key() string {
	return "spapi/" + s.Profile
}

// lwaResponse is the LWA token endpoint response.
type lwaResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int    `json:"expires_in"`
}

// Refresh performs the LWA refresh_token grant.
func (s *LWASource) Refresh(ctx context.Context) (credcache.Token, error) {
	if s.RefreshToken == "" || s.ClientID == "" || s.ClientSecret == "" {
		return credcache.Token{}, errors.New("profile is missing client_id, client_secret, or refresh_token")
	}

	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = LWAEndpoint
	}
	client := s.HTTPClient
	if client == nil {
		client = httpx.NewClient(tokenURL)
	}

	form := url.Values{}
	form.Set("grant_type", "refresh_token")
	form.Set("refresh_token", s.RefreshToken)
	form.Set("client_id", s.ClientID)
	form.Set("client_secret", s.ClientSecret)

	var resp lwaResponse
	err := client.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   tokenURL,
		Form:   form,
	}, &resp)
	if err != nil {
		return credcache.Token{}, errors.Wrap(err, "LWA token refresh")
	}
	if resp.AccessToken == "" {
		return credcache.Token{}, errors.New("LWA response had no access_token")
	}

	now := time.Now()
	return credcache.Token{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		Obtained:    now,
	}, nil
}
