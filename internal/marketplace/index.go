// Package marketplace manages git-backed plugin marketplaces: adding
// and updating their checkouts, reading their indexes, and installing
// plugins into the Claude Code plugin directory.
package marketplace

import (
	"encoding/json"
	"path/filepath"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/plugin"
	"github.com/vendocli/vendo/pkg/fileutil"
)

// IndexFile is the marketplace index, relative to the checkout root.
const IndexFile = ".claude-plugin/marketplace.json"

// Index is the parsed marketplace.json.
type Index struct {
	Name    string  `json:"name"`
	Owner   *Owner  `json:"owner,omitempty"`
	Plugins []Entry `json:"plugins"`
}

// Owner identifies who maintains the marketplace.
type Owner struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	URL   string `json:"url,omitempty"`
}

// Entry is one plugin listed in a marketplace index.
type Entry struct {
	Name        string `json:"name"`
	Source      string `json:"source"`
	Description string `json:"description,omitempty"`
	Version     string `json:"version,omitempty"`
}

// ErrPluginNotListed is returned when a plugin name is absent from an index.
var ErrPluginNotListed = errors.New("plugin not listed in marketplace")

// ReadIndex parses the marketplace index in a checkout directory.
func ReadIndex(checkoutDir string) (*Index, error) {
	path := filepath.Join(checkoutDir, filepath.FromSlash(IndexFile))
	data, err := fileutil.ReadFileWithLimit(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading marketplace index %s", path)
	}

	var idx Index
	if err := json.Unmarshal(data, &idx); err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return &idx, nil
}

// Find returns the entry for a plugin name.
func (idx *Index) Find(name string) (*Entry, error) {
	for i := range idx.Plugins {
		if idx.Plugins[i].Name == name {
			return &idx.Plugins[i], nil
		}
	}
	return nil, errors.WithDetail(ErrPluginNotListed, name)
}

// SourceDir resolves an entry's source to a directory under the
// checkout. Sources are repo-relative paths such as "./plugins/foo";
// paths that escape the checkout are rejected.
func (e *Entry) SourceDir(checkoutDir string) (string, error) {
	src := filepath.Clean(filepath.FromSlash(e.Source))
	if filepath.IsAbs(src) || src == ".." || len(src) >= 3 && src[:3] == ".."+string(filepath.Separator) {
		return "", errors.Newf("plugin source %q escapes the marketplace checkout", e.Source)
	}
	return filepath.Join(checkoutDir, src), nil
}

// LoadPlugin loads the plugin an entry points at.
func (e *Entry) LoadPlugin(checkoutDir string) (*plugin.Plugin, error) {
	dir, err := e.SourceDir(checkoutDir)
	if err != nil {
		return nil, err
	}
	return plugin.Load(dir)
}
