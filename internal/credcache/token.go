package credcache

import (
	"time"
)

// Token is a cached short-lived credential for one vendor profile.
type Token struct {
	// AccessToken is the bearer token or signature material.
	AccessToken string `json:"access_token"`

	// TokenType is the authorization scheme, usually "Bearer".
	TokenType string `json:"token_type,omitempty"`

	// Expiry is when the token stops being usable. A zero expiry means
	// the token never expires (static credentials).
	Expiry time.Time `json:"expiry,omitzero"`

	// Obtained records when the token was minted, for diagnostics.
	Obtained time.Time `json:"obtained,omitzero"`
}

// Stale reports whether the token must be refreshed before use.
// A token is stale once now reaches expiry minus the skew window,
// so callers never present a token about to expire mid-request.
func (t Token) Stale(now time.Time, skew time.Duration) bool {
	if t.AccessToken == "" {
		return true
	}
	if t.Expiry.IsZero() {
		return false
	}
	return !now.Before(t.Expiry.Add(-skew))
}

// AuthorizationHeader returns the value for an Authorization header.
// TokenType defaults to "Bearer" when unset.
func (t Token) AuthorizationHeader() string {
	typ := t.TokenType
	if typ == "" {
		typ = "Bearer"
	}
	return typ + " " + t.AccessToken
}

// TTL returns the remaining lifetime of the token, or zero if expired
// or never-expiring.
func (t Token) TTL(now time.Time) time.Duration {
	if t.Expiry.IsZero() || now.After(t.Expiry) {
		return 0
	}
	return t.Expiry.Sub(now)
}
