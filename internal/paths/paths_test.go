package paths

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "dir")
	if err := EnsureDir(dir, 0); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}

	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if !info.IsDir() {
		t.Error("expected a directory")
	}
	if perm := info.Mode().Perm(); perm != DefaultDirPerm {
		t.Errorf("permissions = %o, want %o", perm, DefaultDirPerm)
	}

	// Idempotent
	if err := EnsureDir(dir, 0); err != nil {
		t.Errorf("EnsureDir() second call error = %v", err)
	}
}

func TestTokenCacheDir(t *testing.T) {
	got := TokenCacheDir()
	if !strings.HasSuffix(got, filepath.Join(AppName, "tokens")) {
		t.Errorf("TokenCacheDir() = %q, want suffix %q", got, filepath.Join(AppName, "tokens"))
	}
}

func TestConfigDir(t *testing.T) {
	got := ConfigDir()
	if !strings.HasSuffix(got, AppName) {
		t.Errorf("ConfigDir() = %q, want suffix %q", got, AppName)
	}
}

func TestInstalledPluginDir(t *testing.T) {
	got := InstalledPluginDir("amazon-spapi")
	if got == "" {
		t.Skip("no home directory in test environment")
	}
	want := filepath.Join(".claude", "plugins", "amazon-spapi")
	if !strings.HasSuffix(got, want) {
		t.Errorf("InstalledPluginDir() = %q, want suffix %q", got, want)
	}
}
