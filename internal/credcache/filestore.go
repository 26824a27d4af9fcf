package credcache

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/paths"
	"github.com/vendocli/vendo/pkg/fileutil"
)

// FileStore persists one JSON file per token under a directory,
// typically ~/.cache/vendo/tokens. Files are written atomically with
// 0600 permissions since they hold live credentials.
type FileStore struct {
	dir string
}

// NewFileStore creates a file-backed store rooted at dir.
// The directory is created lazily on first Put.
func NewFileStore(dir string) *FileStore {
	return &FileStore{dir: dir}
}

// DefaultFileStore returns a store rooted at the standard token cache dir.
func DefaultFileStore() *FileStore {
	return NewFileStore(paths.TokenCacheDir())
}

// Dir returns the directory backing the store.
func (s *FileStore) Dir() string {
	return s.dir
}

// fileSuffix is appended to sanitized keys to form cache file names.
const fileSuffix = ".json"

// fileName maps a cache key to its file name. Keys are "vendor/profile";
// the separator becomes "--" so the name stays flat and reversible
// (profile names cannot contain consecutive hyphens).
func fileName(key string) string {
	return strings.ReplaceAll(key, "/", "--") + fileSuffix
}

// keyFromFile reverses fileName. Returns "" for foreign files.
func keyFromFile(name string) string {
	if !strings.HasSuffix(name, fileSuffix) {
		return ""
	}
	base := strings.TrimSuffix(name, fileSuffix)
	return strings.Replace(base, "--", "/", 1)
}

// Get reads the token for key from disk.
func (s *FileStore) Get(key string) (Token, bool, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, fileName(key)))
	if err != nil {
		if os.IsNotExist(err) {
			return Token{}, false, nil
		}
		return Token{}, false, errors.Wrap(err, "reading token cache")
	}

	var tok Token
	if err := json.Unmarshal(data, &tok); err != nil {
		// A corrupt cache entry behaves like a miss; the refresh path
		// will overwrite it.
		return Token{}, false, nil
	}
	return tok, true, nil
}

// Put writes the token for key to disk atomically with 0600 permissions.
func (s *FileStore) Put(key string, tok Token) error {
	if err := paths.EnsureDir(s.dir, 0); err != nil {
		return errors.Wrap(err, "creating token cache directory")
	}
	path := filepath.Join(s.dir, fileName(key))
	return errors.Wrap(fileutil.AtomicWriteJSONWithPerm(path, tok, 0600), "writing token cache")
}

// Delete removes the token file for key. Missing files are not an error.
func (s *FileStore) Delete(key string) error {
	err := os.Remove(filepath.Join(s.dir, fileName(key)))
	if err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "removing token cache")
	}
	return nil
}

// Keys lists cached keys in lexical order.
func (s *FileStore) Keys() ([]string, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "listing token cache")
	}

	var keys []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if key := keyFromFile(e.Name()); key != "" {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys, nil
}
