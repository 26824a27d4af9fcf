package credcache

import (
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
)

// ErrReadOnlyStore indicates a write was attempted on a read-only store.
var ErrReadOnlyStore = errors.New("token store is read-only")

// Store persists tokens keyed by "vendor/profile".
// Implementations need not be safe for cross-process use; the CLI is a
// single-invocation process and the file store relies on atomic renames
// so concurrent invocations cannot corrupt a token, only overwrite it.
type Store interface {
	// Get retrieves a token. The second return reports whether it was found.
	Get(key string) (Token, bool, error)

	// Put stores a token, replacing any existing one.
	Put(key string, tok Token) error

	// Delete removes a token. Deleting a missing key is not an error.
	Delete(key string) error

	// Keys lists all stored keys in lexical order.
	Keys() ([]string, error)
}

// MemStore is an in-memory Store for tests and single-invocation use.
type MemStore struct {
	mu     sync.RWMutex
	tokens map[string]Token
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{tokens: make(map[string]Token)}
}

// Get retrieves a token from memory.
func (s *MemStore) Get(key string) (Token, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tok, ok := s.tokens[key]
	return tok, ok, nil
}

// Put stores a token in memory.
func (s *MemStore) Put(key string, tok Token) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[key] = tok
	return nil
}

// Delete removes a token from memory.
func (s *MemStore) Delete(key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, key)
	return nil
}

// Keys lists stored keys in lexical order.
func (s *MemStore) Keys() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	keys := make([]string, 0, len(s.tokens))
	for k := range s.tokens {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// EnvStore reads tokens from environment variables, for CI environments
// where no file cache should be written. The key "shopify/default" maps
// to the variable VENDO_TOKEN_SHOPIFY_DEFAULT. Tokens sourced from the
// environment never expire; rotating them is the environment's job.
// All writes fail with ErrReadOnlyStore.
type EnvStore struct{}

// EnvVarPrefix is the prefix for environment-sourced tokens.
const EnvVarPrefix = "VENDO_TOKEN_"

// NewEnvStore creates a read-only environment-backed store.
func NewEnvStore() *EnvStore {
	return &EnvStore{}
}

// EnvVarName returns the environment variable holding the token for key.
func EnvVarName(key string) string {
	mapped := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - ('a' - 'A')
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
	return EnvVarPrefix + mapped
}

// Get reads the token for key from the environment.
func (s *EnvStore) Get(key string) (Token, bool, error) {
	val, ok := os.LookupEnv(EnvVarName(key))
	if !ok || val == "" {
		return Token{}, false, nil
	}
	return Token{AccessToken: val, Obtained: time.Now()}, true, nil
}

// Put always fails; the environment is read-only.
func (s *EnvStore) Put(string, Token) error {
	return ErrReadOnlyStore
}

// Delete always fails; the environment is read-only.
func (s *EnvStore) Delete(string) error {
	return ErrReadOnlyStore
}

// Keys returns the keys of all VENDO_TOKEN_ variables present.
func (s *EnvStore) Keys() ([]string, error) {
	var keys []string
	for _, kv := range os.Environ() {
		name, _, ok := strings.Cut(kv, "=")
		if !ok || !strings.HasPrefix(name, EnvVarPrefix) {
			continue
		}
		// Vendor names contain no underscores, so the first one is the
		// key separator; the rest belong to the profile name.
		rest := strings.ToLower(strings.TrimPrefix(name, EnvVarPrefix))
		vendor, profile, found := strings.Cut(rest, "_")
		if found {
			keys = append(keys, vendor+"/"+strings.ReplaceAll(profile, "_", "-"))
		} else {
			keys = append(keys, vendor)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
