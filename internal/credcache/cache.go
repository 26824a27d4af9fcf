package credcache

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// DefaultSkew is the window before expiry in which a token is refreshed.
const DefaultSkew = 5 * time.Minute

// Source mints short-lived tokens for one vendor profile.
// Each integration provides its own implementation wrapping the vendor's
// token endpoint; static-credential vendors use StaticSource.
type Source interface {
	// Key identifies the cached token, conventionally "vendor/profile".
	Key() string

	// Refresh exchanges the long-lived credential for a fresh token.
	Refresh(ctx context.Context) (Token, error)
}

// Cache wraps a Store with expiry-aware reads and single-flight refresh.
// A Get that finds a fresh token makes no network call; a stale or missing
// token triggers exactly one Refresh per key per process, and the result
// is written back before being returned.
type Cache struct {
	store Store
	skew  time.Duration
	now   func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// Option configures a Cache.
type Option func(*Cache)

// WithSkew overrides the refresh window before expiry.
func WithSkew(skew time.Duration) Option {
	return func(c *Cache) {
		c.skew = skew
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// New creates a Cache over the given store.
func New(store Store, opts ...Option) *Cache {
	c := &Cache{
		store: store,
		skew:  DefaultSkew,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// keyLock returns the per-key mutex, creating it on first use.
func (c *Cache) keyLock(key string) *sync.Mutex {
	c.mu.Lock()
	defer c.mu.Unlock()
	l, ok := c.locks[key]
	if !ok {
		l = &sync.Mutex{}
		c.locks[key] = l
	}
	return l
}

// Get returns a usable token for the source, refreshing if stale.
func (c *Cache) Get(ctx context.Context, src Source) (Token, error) {
	key := src.Key()

	lock := c.keyLock(key)
	lock.Lock()
	defer lock.Unlock()

	tok, found, err := c.store.Get(key)
	if err != nil {
		return Token{}, errors.Wrapf(err, "reading cached token for %s", key)
	}
	if found && !tok.Stale(c.now(), c.skew) {
		slog.Debug("token cache hit", "key", key, "ttl", tok.TTL(c.now()).Round(time.Second))
		return tok, nil
	}

	slog.Debug("token cache miss", "key", key, "found", found)
	fresh, err := src.Refresh(ctx)
	if err != nil {
		return Token{}, errors.Wrapf(err, "refreshing token for %s", key)
	}
	if fresh.Obtained.IsZero() {
		fresh.Obtained = c.now()
	}

	if err := c.store.Put(key, fresh); err != nil {
		// Read-only stores cannot persist; the fresh token still works
		// for this invocation.
		if !errors.Is(err, ErrReadOnlyStore) {
			return Token{}, errors.Wrapf(err, "caching token for %s", key)
		}
	}
	return fresh, nil
}

// Invalidate removes the cached token for key.
func (c *Cache) Invalidate(key string) error {
	return errors.Wrapf(c.store.Delete(key), "invalidating token for %s", key)
}

// InvalidateAll removes every cached token, optionally filtered to keys
// with the given prefix (e.g. a vendor name). An empty prefix clears all.
func (c *Cache) InvalidateAll(prefix string) (int, error) {
	keys, err := c.store.Keys()
	if err != nil {
		return 0, errors.Wrap(err, "listing cached tokens")
	}

	removed := 0
	for _, key := range keys {
		if prefix != "" && !matchesPrefix(key, prefix) {
			continue
		}
		if err := c.store.Delete(key); err != nil {
			return removed, errors.Wrapf(err, "invalidating token for %s", key)
		}
		removed++
	}
	return removed, nil
}

// Entry describes one cached token for status listings.
type Entry struct {
	Key   string
	Token Token
}

// Entries lists all cached tokens.
func (c *Cache) Entries() ([]Entry, error) {
	keys, err := c.store.Keys()
	if err != nil {
		return nil, errors.Wrap(err, "listing cached tokens")
	}

	entries := make([]Entry, 0, len(keys))
	for _, key := range keys {
		tok, found, err := c.store.Get(key)
		if err != nil || !found {
			continue
		}
		entries = append(entries, Entry{Key: key, Token: tok})
	}
	return entries, nil
}

// Stale reports whether the cached token under key would trigger a
// refresh right now. Missing tokens are stale.
func (c *Cache) Stale(key string) bool {
	tok, found, err := c.store.Get(key)
	if err != nil || !found {
		return true
	}
	return tok.Stale(c.now(), c.skew)
}

// matchesPrefix reports whether key is under the given vendor prefix.
func matchesPrefix(key, prefix string) bool {
	if key == prefix {
		return true
	}
	return len(key) > len(prefix) && key[:len(prefix)] == prefix && key[len(prefix)] == '/'
}

// StaticSource adapts a long-lived credential (Shopify access token,
// Celigo bearer, n8n API key) to the Source interface. Refresh simply
// returns the credential with no expiry, so it always "hits".
type StaticSource struct {
	CacheKey string
	Token    Token
}

// Key implements Source.
func (s StaticSource) Key() string {
	return s.CacheKey
}

// Refresh implements Source.
func (s StaticSource) Refresh(context.Context) (Token, error) {
	if s.Token.AccessToken == "" {
		return Token{}, errors.New("static credential is empty")
	}
	return s.Token, nil
}
