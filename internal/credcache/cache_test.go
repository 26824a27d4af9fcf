package credcache

import (
	"context"
	"errors"
	"testing"
	"time"
)

// countingSource records how many times Refresh is called.
type countingSource struct {
	key      string
	token    Token
	err      error
	refreshN int
}

func (s *countingSource) Key() string {
	return s.key
}

func (s *countingSource) Refresh(context.Context) (Token, error) {
	s.refreshN++
	if s.err != nil {
		return Token{}, s.err
	}
	return s.token, nil
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestCache_HitMakesNoRefreshCall(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()
	cache := New(store, WithClock(fixedClock(now)))

	// Token expires well outside the skew window.
	cached := Token{AccessToken: "cached", Expiry: now.Add(time.Hour)}
	if err := store.Put("spapi/prod", cached); err != nil {
		t.Fatal(err)
	}

	src := &countingSource{key: "spapi/prod", token: Token{AccessToken: "fresh"}}
	got, err := cache.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "cached" {
		t.Errorf("AccessToken = %q, want cached token", got.AccessToken)
	}
	if src.refreshN != 0 {
		t.Errorf("refresh calls = %d, want 0 on cache hit", src.refreshN)
	}
}

func TestCache_StaleTokenRefreshesExactlyOnce(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()
	cache := New(store, WithClock(fixedClock(now)))

	// Token expires inside the default 5 minute skew window.
	stale := Token{AccessToken: "stale", Expiry: now.Add(2 * time.Minute)}
	if err := store.Put("spapi/prod", stale); err != nil {
		t.Fatal(err)
	}

	fresh := Token{AccessToken: "fresh", Expiry: now.Add(time.Hour)}
	src := &countingSource{key: "spapi/prod", token: fresh}

	got, err := cache.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "fresh" {
		t.Errorf("AccessToken = %q, want fresh token", got.AccessToken)
	}
	if src.refreshN != 1 {
		t.Errorf("refresh calls = %d, want exactly 1", src.refreshN)
	}

	// Store must be overwritten with the new token.
	stored, found, err := store.Get("spapi/prod")
	if err != nil || !found {
		t.Fatalf("store.Get() = %v, %v, %v", stored, found, err)
	}
	if stored.AccessToken != "fresh" {
		t.Errorf("stored token = %q, want overwritten with fresh", stored.AccessToken)
	}
}

func TestCache_MissRefreshes(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	cache := New(NewMemStore(), WithClock(fixedClock(now)))

	src := &countingSource{key: "google/default", token: Token{AccessToken: "new", Expiry: now.Add(time.Hour)}}
	got, err := cache.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "new" || src.refreshN != 1 {
		t.Errorf("token = %q refreshN = %d, want new token from single refresh", got.AccessToken, src.refreshN)
	}
}

func TestCache_RefreshErrorPropagates(t *testing.T) {
	cache := New(NewMemStore())
	wantErr := errors.New("token endpoint returned 400")
	src := &countingSource{key: "spapi/prod", err: wantErr}

	if _, err := cache.Get(context.Background(), src); !errors.Is(err, wantErr) {
		t.Errorf("Get() error = %v, want wrapped refresh error", err)
	}
}

func TestCache_RoundTripIdenticalHeader(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()
	cache := New(store, WithClock(fixedClock(now)))

	written := Token{AccessToken: "Atza|roundtrip", TokenType: "Bearer", Expiry: now.Add(time.Hour)}
	if err := store.Put("spapi/prod", written); err != nil {
		t.Fatal(err)
	}

	src := &countingSource{key: "spapi/prod"}
	got, err := cache.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AuthorizationHeader() != written.AuthorizationHeader() {
		t.Errorf("header = %q, want %q", got.AuthorizationHeader(), written.AuthorizationHeader())
	}
}

func TestCache_CustomSkew(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store := NewMemStore()
	cache := New(store, WithClock(fixedClock(now)), WithSkew(30*time.Minute))

	// Fresh under the default skew, stale under a 30 minute skew.
	tok := Token{AccessToken: "cached", Expiry: now.Add(10 * time.Minute)}
	if err := store.Put("celigo/default", tok); err != nil {
		t.Fatal(err)
	}

	src := &countingSource{key: "celigo/default", token: Token{AccessToken: "fresh"}}
	if _, err := cache.Get(context.Background(), src); err != nil {
		t.Fatal(err)
	}
	if src.refreshN != 1 {
		t.Errorf("refresh calls = %d, want 1 with widened skew", src.refreshN)
	}
}

func TestCache_Invalidate(t *testing.T) {
	store := NewMemStore()
	cache := New(store)
	if err := store.Put("n8n/main", Token{AccessToken: "t"}); err != nil {
		t.Fatal(err)
	}

	if err := cache.Invalidate("n8n/main"); err != nil {
		t.Fatalf("Invalidate() error = %v", err)
	}
	if _, found, _ := store.Get("n8n/main"); found {
		t.Error("token still present after Invalidate")
	}
}

func TestCache_InvalidateAll_VendorPrefix(t *testing.T) {
	store := NewMemStore()
	cache := New(store)
	for _, key := range []string{"spapi/prod", "spapi/sandbox", "shopify/default"} {
		if err := store.Put(key, Token{AccessToken: "t"}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := cache.InvalidateAll("spapi")
	if err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
	if _, found, _ := store.Get("shopify/default"); !found {
		t.Error("unrelated vendor token was removed")
	}
}

func TestCache_InvalidateAll_Everything(t *testing.T) {
	store := NewMemStore()
	cache := New(store)
	for _, key := range []string{"spapi/prod", "shopify/default"} {
		if err := store.Put(key, Token{AccessToken: "t"}); err != nil {
			t.Fatal(err)
		}
	}

	removed, err := cache.InvalidateAll("")
	if err != nil {
		t.Fatalf("InvalidateAll() error = %v", err)
	}
	if removed != 2 {
		t.Errorf("removed = %d, want 2", removed)
	}
}

func TestCache_EnvStoreReadOnlyStillReturnsToken(t *testing.T) {
	t.Setenv("VENDO_TOKEN_CELIGO_DEFAULT", "")
	cache := New(NewEnvStore())
	src := &countingSource{key: "celigo/default", token: Token{AccessToken: "minted"}}

	got, err := cache.Get(context.Background(), src)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.AccessToken != "minted" {
		t.Errorf("token = %q, want freshly minted despite read-only store", got.AccessToken)
	}
}

func TestStaticSource(t *testing.T) {
	src := StaticSource{CacheKey: "shopify/default", Token: Token{AccessToken: "shpat_x"}}
	tok, err := src.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if tok.Stale(time.Now(), DefaultSkew) {
		t.Error("static token should never be stale")
	}

	empty := StaticSource{CacheKey: "shopify/default"}
	if _, err := empty.Refresh(context.Background()); err == nil {
		t.Error("empty static credential should error")
	}
}
