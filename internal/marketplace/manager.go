package marketplace

import (
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/git"
	"github.com/vendocli/vendo/pkg/fileutil"
)

// Sentinel errors for marketplace operations.
var (
	ErrNotFound      = errors.New("marketplace not found")
	ErrInvalidURL    = errors.New("invalid marketplace URL")
	ErrNameCollision = errors.New("marketplace with this name already exists")
	ErrInvalidName   = errors.New("invalid marketplace name")
)

// namePattern validates marketplace names: lowercase alphanumeric with
// hyphens, starting with a letter.
var namePattern = regexp.MustCompile(`^[a-z][a-z0-9]*(-[a-z0-9]+)*$`)

// Option configures Add behavior.
type Option func(*addOptions)

type addOptions struct {
	name string
}

// WithName overrides the marketplace name derived from the URL.
func WithName(name string) Option {
	return func(o *addOptions) { o.name = name }
}

// Manager manages registered marketplaces. Registrations persist in
// the config file; checkouts live under cacheDir.
type Manager struct {
	configPath string
	cacheDir   string
}

// NewManager creates a marketplace manager. configPath is where the
// registrations are persisted; cacheDir is where clones are kept.
func NewManager(configPath, cacheDir string) *Manager {
	return &Manager{configPath: configPath, cacheDir: cacheDir}
}

// Add clones a marketplace repository and registers it.
func (m *Manager) Add(url string, opts ...Option) (*config.Marketplace, error) {
	var options addOptions
	for _, opt := range opts {
		opt(&options)
	}

	if !git.IsURL(url) {
		return nil, errors.WithDetail(ErrInvalidURL, url)
	}
	if err := git.ValidateURL(url); err != nil {
		return nil, errors.WithDetail(ErrInvalidURL, err.Error())
	}

	name := options.name
	if name == "" {
		name = deriveNameFromURL(url)
	}
	if !namePattern.MatchString(name) {
		return nil, errors.WithDetailf(ErrInvalidName,
			"name %q must be lowercase alphanumeric with hyphens, starting with a letter", name)
	}

	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}
	if existing, exists := cfg.Marketplaces[name]; exists {
		return nil, errors.WithDetailf(ErrNameCollision,
			"name %q is already used by %s; use --name to specify an alternate name",
			name, existing.URL)
	}

	if err := os.MkdirAll(m.cacheDir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating cache directory")
	}

	destPath := filepath.Join(m.cacheDir, name)
	if err := git.Clone(url, destPath, 1); err != nil {
		if cleanupErr := os.RemoveAll(destPath); cleanupErr != nil {
			return nil, errors.Wrapf(err, "cloning marketplace (cleanup also failed: %v)", cleanupErr)
		}
		return nil, errors.Wrap(err, "cloning marketplace")
	}

	// The checkout must carry an index before it is registered.
	if _, err := ReadIndex(destPath); err != nil {
		os.RemoveAll(destPath)
		return nil, errors.Wrap(err, "repository is not a plugin marketplace")
	}

	mp := config.Marketplace{
		Name:    name,
		URL:     url,
		Path:    destPath,
		AddedAt: time.Now(),
	}

	if cfg.Marketplaces == nil {
		cfg.Marketplaces = make(map[string]config.Marketplace)
	}
	cfg.Marketplaces[name] = mp

	if err := m.saveConfig(cfg); err != nil {
		os.RemoveAll(destPath)
		return nil, errors.Wrap(err, "saving config")
	}

	return &mp, nil
}

// List returns all registered marketplaces sorted by name.
func (m *Manager) List() ([]config.Marketplace, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	mps := make([]config.Marketplace, 0, len(cfg.Marketplaces))
	for _, mp := range cfg.Marketplaces {
		mps = append(mps, mp)
	}
	sort.Slice(mps, func(i, j int) bool { return mps[i].Name < mps[j].Name })
	return mps, nil
}

// Get retrieves a marketplace by name.
func (m *Manager) Get(name string) (*config.Marketplace, error) {
	cfg, err := m.loadConfig()
	if err != nil {
		return nil, errors.Wrap(err, "loading config")
	}

	mp, exists := cfg.Marketplaces[name]
	if !exists {
		return nil, errors.WithDetailf(ErrNotFound, "marketplace %q not found", name)
	}
	return &mp, nil
}

// Remove unregisters a marketplace and deletes its checkout. The
// config is persisted before cached data is deleted so a partial
// failure never leaves a registration pointing at missing files.
func (m *Manager) Remove(name string) error {
	cfg, err := m.loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	mp, exists := cfg.Marketplaces[name]
	if !exists {
		return errors.WithDetailf(ErrNotFound, "marketplace %q not found", name)
	}

	delete(cfg.Marketplaces, name)
	if err := m.saveConfig(cfg); err != nil {
		return errors.Wrap(err, "saving config")
	}

	if err := os.RemoveAll(mp.Path); err != nil {
		return errors.Wrapf(err, "config updated but failed to remove checkout %q", mp.Path)
	}
	return nil
}

// Update pulls the latest changes for one marketplace, or for all of
// them when name is empty.
func (m *Manager) Update(name string) error {
	cfg, err := m.loadConfig()
	if err != nil {
		return errors.Wrap(err, "loading config")
	}

	if name != "" {
		mp, exists := cfg.Marketplaces[name]
		if !exists {
			return errors.WithDetailf(ErrNotFound, "marketplace %q not found", name)
		}
		return git.Pull(mp.Path)
	}

	for _, mp := range cfg.Marketplaces {
		if err := git.Pull(mp.Path); err != nil {
			return errors.Wrapf(err, "updating marketplace %q", mp.Name)
		}
	}
	return nil
}

func (m *Manager) loadConfig() (*config.Config, error) {
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return &config.Config{
			Version:      1,
			Marketplaces: make(map[string]config.Marketplace),
		}, nil
	}

	data, err := fileutil.ReadFileWithLimit(m.configPath)
	if err != nil {
		return nil, err
	}
	return config.Parse(data)
}

func (m *Manager) saveConfig(cfg *config.Config) error {
	if err := os.MkdirAll(filepath.Dir(m.configPath), 0o755); err != nil {
		return errors.Wrap(err, "creating config directory")
	}
	return config.Save(cfg, m.configPath)
}

// deriveNameFromURL extracts a marketplace name from a git URL: the
// last path segment with the .git suffix stripped, lowercased.
func deriveNameFromURL(url string) string {
	if strings.HasPrefix(url, "git@") {
		if colonIdx := strings.LastIndex(url, ":"); colonIdx != -1 {
			url = url[colonIdx+1:]
		}
	}
	name := filepath.Base(url)
	name = strings.TrimSuffix(name, ".git")
	return strings.ToLower(name)
}
