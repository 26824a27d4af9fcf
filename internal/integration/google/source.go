// Package google holds thin clients for the Google Analytics Data API
// (GA4) and the Search Console API, sharing one OAuth 2.0
// refresh-token source.
package google

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/httpx"
)

// TokenEndpoint is Google's OAuth 2.0 token endpoint.
const TokenEndpoint = "https://oauth2.googleapis.com/token"

// RefreshSource exchanges a stored refresh token for access tokens.
// Both GA4 and Search Console commands share the same source, so one
// cache entry serves both when their scopes were granted together.
type RefreshSource struct {
	Profile      string
	ClientID     string
	ClientSecret string
	RefreshToken string

	// TokenURL overrides TokenEndpoint, for tests.
	TokenURL string

	// HTTPClient overrides the default token client, for tests.
	HTTPClient *httpx.Client
}

// Key returns the cache key for this profile's Google token.
func (s *RefreshSource) Key() string {
	return "google/" + s.Profile
}

// Refresh performs the refresh_token grant.
func (s *RefreshSource) Refresh(ctx context.Context) (credcache.Token, error) {
	if s.ClientID == "" || s.ClientSecret == "" || s.RefreshToken == "" {
		return credcache.Token{}, errors.New("profile is missing client_id, client_secret, or refresh_token")
	}

	tokenURL := s.TokenURL
	if tokenURL == "" {
		tokenURL = TokenEndpoint
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

	var resp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
	err := client.DoJSON(ctx, httpx.Request{
		Method: http.MethodPost,
		Path:   tokenURL,
		Form:   form,
	}, &resp)
	if err != nil {
		return credcache.Token{}, errors.Wrap(err, "Google token refresh")
	}
	if resp.AccessToken == "" {
		return credcache.Token{}, errors.New("token response had no access_token")
	}

	now := time.Now()
	return credcache.Token{
		AccessToken: resp.AccessToken,
		TokenType:   "Bearer",
		Expiry:      now.Add(time.Duration(resp.ExpiresIn) * time.Second),
		Obtained:    now,
	}, nil
}

// tokenAuth adapts a token function to an httpx auth decorator.
func tokenAuth(token func(ctx context.Context) (credcache.Token, error)) httpx.AuthFunc {
	return httpx.BearerAuth(func(ctx context.Context) (string, error) {
		tok, err := token(ctx)
		if err != nil {
			return "", err
		}
		return tok.AuthorizationHeader(), nil
	})
}
