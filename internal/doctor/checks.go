package doctor

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/plugin"
	"github.com/vendocli/vendo/pkg/fileutil"
)

// ConfigCheck verifies the config file exists, parses, and every
// profile carries its vendor's required fields.
type ConfigCheck struct {
	Path string
}

// NewConfigCheck creates a check for the config file at path.
func NewConfigCheck(path string) *ConfigCheck {
	return &ConfigCheck{Path: path}
}

func (c *ConfigCheck) Name() string     { return "config-file" }
func (c *ConfigCheck) Category() string { return "config" }

func (c *ConfigCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	data, err := fileutil.ReadFileWithLimit(c.Path)
	if errors.Is(err, fs.ErrNotExist) {
		result.Status = SeverityWarning
		result.Message = "no config file found"
		result.FixHint = "Run: vendo config init"
		result.Details = map[string]any{"path": c.Path}
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read config: %v", err)
		return result
	}

	cfg, err := config.Parse(data)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("config does not parse: %v", err)
		return result
	}

	if errs := config.Validate(cfg); len(errs) > 0 {
		msgs := make([]string, len(errs))
		for i, e := range errs {
			msgs[i] = e.Error()
		}
		result.Status = SeverityError
		result.Message = fmt.Sprintf("%d profile problem(s)", len(errs))
		result.Details = map[string]any{"problems": msgs}
		return result
	}

	profiles := 0
	for _, vendorProfiles := range cfg.Profiles {
		profiles += len(vendorProfiles)
	}
	result.Status = SeverityPass
	result.Message = fmt.Sprintf("config valid, %d profile(s) configured", profiles)
	return result
}

// CacheDirCheck verifies the token cache directory keeps secrets
// private: 0700 on the directory, 0600 on token files.
type CacheDirCheck struct {
	Dir string
}

// NewCacheDirCheck creates a check for the token cache directory.
func NewCacheDirCheck(dir string) *CacheDirCheck {
	return &CacheDirCheck{Dir: dir}
}

func (c *CacheDirCheck) Name() string     { return "cache-permissions" }
func (c *CacheDirCheck) Category() string { return "credentials" }

func (c *CacheDirCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	info, err := os.Stat(c.Dir)
	if os.IsNotExist(err) {
		result.Status = SeverityInfo
		result.Message = "token cache directory not created yet"
		return result
	}
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot stat cache directory: %v", err)
		return result
	}

	var loose []string
	if perm := info.Mode().Perm(); perm&0o077 != 0 {
		loose = append(loose, fmt.Sprintf("%s (%o)", c.Dir, perm))
	}

	entries, err := os.ReadDir(c.Dir)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot list cache directory: %v", err)
		return result
	}
	for _, e := range entries {
		fi, err := e.Info()
		if err != nil {
			continue
		}
		if perm := fi.Mode().Perm(); !fi.IsDir() && perm&0o077 != 0 {
			loose = append(loose, fmt.Sprintf("%s (%o)", filepath.Join(c.Dir, e.Name()), perm))
		}
	}

	if len(loose) > 0 {
		result.Status = SeverityWarning
		result.Message = fmt.Sprintf("%d path(s) readable by other users", len(loose))
		result.Details = map[string]any{"paths": loose}
		result.FixHint = fmt.Sprintf("Run: chmod 700 %s && chmod 600 %s/*.json", c.Dir, c.Dir)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("cache permissions ok, %d token file(s)", len(entries))
	return result
}

// TokenCheck reports how many cached tokens are fresh versus stale.
type TokenCheck struct {
	Store credcache.Store
	Skew  time.Duration
}

// NewTokenCheck creates a check over a token store.
func NewTokenCheck(store credcache.Store, skew time.Duration) *TokenCheck {
	return &TokenCheck{Store: store, Skew: skew}
}

func (c *TokenCheck) Name() string     { return "cached-tokens" }
func (c *TokenCheck) Category() string { return "credentials" }

func (c *TokenCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	keys, err := c.Store.Keys()
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot list tokens: %v", err)
		return result
	}
	if len(keys) == 0 {
		result.Status = SeverityInfo
		result.Message = "no cached tokens"
		return result
	}

	now := time.Now()
	var stale []string
	for _, key := range keys {
		tok, ok, err := c.Store.Get(key)
		if err != nil || !ok || tok.Stale(now, c.Skew) {
			stale = append(stale, key)
		}
	}

	if len(stale) > 0 {
		// Stale entries refresh on next use; this is informational.
		result.Status = SeverityInfo
		result.Message = fmt.Sprintf("%d of %d token(s) stale, will refresh on next use", len(stale), len(keys))
		result.Details = map[string]any{"stale": stale}
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d cached token(s), all fresh", len(keys))
	return result
}

// PluginDirCheck verifies the Claude Code plugin directory and counts
// valid installs.
type PluginDirCheck struct {
	InstallDir string
}

// NewPluginDirCheck creates a check for the plugin install directory.
func NewPluginDirCheck(installDir string) *PluginDirCheck {
	return &PluginDirCheck{InstallDir: installDir}
}

func (c *PluginDirCheck) Name() string     { return "plugin-directory" }
func (c *PluginDirCheck) Category() string { return "plugins" }

func (c *PluginDirCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	if _, err := os.Stat(c.InstallDir); os.IsNotExist(err) {
		result.Status = SeverityInfo
		result.Message = "no plugins installed"
		return result
	}

	plugins, err := plugin.ListInstalled(c.InstallDir)
	if err != nil {
		result.Status = SeverityError
		result.Message = fmt.Sprintf("cannot read plugin directory: %v", err)
		return result
	}

	result.Status = SeverityPass
	result.Message = fmt.Sprintf("%d plugin(s) installed", len(plugins))
	return result
}

// GitCheck verifies git is on PATH; marketplace operations need it.
type GitCheck struct{}

// NewGitCheck creates a git availability check.
func NewGitCheck() *GitCheck {
	return &GitCheck{}
}

func (c *GitCheck) Name() string     { return "git-binary" }
func (c *GitCheck) Category() string { return "environment" }

func (c *GitCheck) Run() *CheckResult {
	result := &CheckResult{Name: c.Name(), Category: c.Category()}

	path, err := exec.LookPath("git")
	if err != nil {
		result.Status = SeverityWarning
		result.Message = "git not found on PATH"
		result.FixHint = "Install git to use marketplace commands"
		return result
	}

	result.Status = SeverityPass
	result.Message = "git found"
	result.Details = map[string]any{"path": path}
	return result
}
