package paths

import (
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/cockroachdb/errors"
)

// AppName is the directory name used under XDG base directories.
const AppName = "vendo"

// Sentinel errors for path resolution.
var (
	// ErrHomeDirNotFound indicates the user's home directory could not be determined.
	ErrHomeDirNotFound = errors.New("home directory not found")

	// ErrPermissionDenied indicates the operation was rejected due to file system permissions.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrInvalidPath indicates the provided path is malformed or invalid.
	ErrInvalidPath = errors.New("invalid path")
)

// DefaultDirPerm is the default permission for newly created directories (private).
const DefaultDirPerm = 0o700

// EnsureDir creates the directory and any necessary parents with specified permissions.
// If perm is 0, DefaultDirPerm (0700) is used.
// This function is idempotent; it returns nil if the directory already exists.
func EnsureDir(path string, perm os.FileMode) error {
	if perm == 0 {
		perm = DefaultDirPerm
	}
	return os.MkdirAll(path, perm)
}

// Home returns the user's home directory.
// This is a thin wrapper around os.UserHomeDir for consistency.
// Note: It returns an empty string on error for backward compatibility.
// Use ResolveHome for proper error handling.
func Home() string {
	h, _ := ResolveHome()
	return h
}

// ResolveHome returns the user's home directory.
// Returns ErrHomeDirNotFound if the directory cannot be determined.
func ResolveHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(ErrHomeDirNotFound, err.Error())
	}
	return home, nil
}

// ConfigHome returns the XDG config home directory.
// On Linux: ~/.config
// On macOS: ~/Library/Application Support
// On Windows: %LOCALAPPDATA%
func ConfigHome() string {
	return xdg.ConfigHome
}

// CacheHome returns the XDG cache home directory.
// On Linux: ~/.cache
// On macOS: ~/Library/Caches
// On Windows: %LOCALAPPDATA%\cache
func CacheHome() string {
	return xdg.CacheHome
}

// ConfigDir returns the vendo configuration directory.
// Returns: <ConfigHome>/vendo/
func ConfigDir() string {
	return filepath.Join(ConfigHome(), AppName)
}

// TokenCacheDir returns the directory holding cached vendor tokens.
// Returns: <CacheHome>/vendo/tokens/
func TokenCacheDir() string {
	return filepath.Join(CacheHome(), AppName, "tokens")
}

// MarketplaceCacheDir returns the directory for cached marketplace clones.
// Returns: <CacheHome>/vendo/marketplaces/
func MarketplaceCacheDir() string {
	return filepath.Join(CacheHome(), AppName, "marketplaces")
}

// ClaudeDir returns the Claude Code configuration directory (~/.claude).
// Returns an empty string if the home directory cannot be determined.
func ClaudeDir() string {
	home := Home()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".claude")
}

// PluginInstallDir returns the directory plugins are installed into.
// Returns: ~/.claude/plugins/
func PluginInstallDir() string {
	claude := ClaudeDir()
	if claude == "" {
		return ""
	}
	return filepath.Join(claude, "plugins")
}

// InstalledPluginDir returns the install location for a named plugin.
func InstalledPluginDir(name string) string {
	base := PluginInstallDir()
	if base == "" {
		return ""
	}
	return filepath.Join(base, name)
}
