// Package paths provides cross-platform path resolution for the vendo CLI.
//
// Configuration lives under the XDG config home, short-lived state (cached
// vendor tokens, marketplace clones) under the XDG cache home, and installed
// plugins under the Claude Code configuration directory (~/.claude/plugins).
//
// # XDG Base Directory Compliance
//
// The package wraps github.com/adrg/xdg for cross-platform XDG Base Directory
// Specification compliance. On Linux and macOS, paths follow XDG conventions
// (~/.config, ~/.cache).
package paths
