package plugin

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func scaffoldPlugin(t *testing.T, dir string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, ManifestDir, ManifestFile), `{
  "name": "order-tools",
  "version": "1.2.0",
  "description": "Order lookup helpers",
  "author": {"name": "Ops Team"}
}`)
	writeFile(t, filepath.Join(dir, "skills", "order-lookup", "SKILL.md"), `---
name: order-lookup
description: Look up orders by id
allowed-tools: Read Bash(git:*)
---

Fetch the order and summarize it.
`)
	writeFile(t, filepath.Join(dir, "commands", "orders.md"), `---
description: List recent orders
argument-hint: "[days]"
---

List orders from the last $ARGUMENTS days.
`)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	scaffoldPlugin(t, dir)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if p.Manifest.Name != "order-tools" {
		t.Errorf("manifest name = %q, want %q", p.Manifest.Name, "order-tools")
	}
	if p.Manifest.Author == nil || p.Manifest.Author.Name != "Ops Team" {
		t.Errorf("author = %+v, want Ops Team", p.Manifest.Author)
	}

	if len(p.Skills) != 1 {
		t.Fatalf("len(Skills) = %d, want 1", len(p.Skills))
	}
	s := p.Skills[0]
	if s.Name != "order-lookup" {
		t.Errorf("skill name = %q", s.Name)
	}
	if s.AllowedTools != "Read Bash(git:*)" {
		t.Errorf("allowed-tools = %q", s.AllowedTools)
	}
	if s.Instructions != "Fetch the order and summarize it." {
		t.Errorf("instructions = %q", s.Instructions)
	}

	if len(p.Commands) != 1 {
		t.Fatalf("len(Commands) = %d, want 1", len(p.Commands))
	}
	c := p.Commands[0]
	if c.Name != "orders" {
		t.Errorf("command name = %q, want orders", c.Name)
	}
	if c.ArgumentHint != "[days]" {
		t.Errorf("argument-hint = %q", c.ArgumentHint)
	}
}

func TestLoadLegacyManifestLocation(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ManifestFile), `{"name": "legacy", "description": "d"}`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Manifest.Name != "legacy" {
		t.Errorf("name = %q", p.Manifest.Name)
	}
}

func TestLoadMissingManifest(t *testing.T) {
	_, err := Load(t.TempDir())
	if !errors.Is(err, ErrNoManifest) {
		t.Errorf("Load() error = %v, want ErrNoManifest", err)
	}
}

func TestLoadDefaultsNameFromDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "my-plugin")
	writeFile(t, filepath.Join(dir, ManifestDir, ManifestFile), `{"description": "d"}`)

	p, err := Load(dir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Manifest.Name != "my-plugin" {
		t.Errorf("name = %q, want my-plugin", p.Manifest.Name)
	}
}

func TestParseSkillBytesMissingFrontmatter(t *testing.T) {
	_, err := ParseSkillBytes([]byte("no frontmatter here"), "SKILL.md")
	if err == nil {
		t.Fatal("expected error for skill without frontmatter")
	}
}

func TestParseCommandFileNoFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sync.md")
	writeFile(t, path, "Run the sync.\n")

	cmd, err := ParseCommandFile(path)
	if err != nil {
		t.Fatalf("ParseCommandFile() error = %v", err)
	}
	if cmd.Name != "sync" {
		t.Errorf("name = %q", cmd.Name)
	}
	if cmd.Body != "Run the sync." {
		t.Errorf("body = %q", cmd.Body)
	}
}

func TestListInstalled(t *testing.T) {
	root := t.TempDir()
	scaffoldPlugin(t, filepath.Join(root, "order-tools"))
	writeFile(t, filepath.Join(root, "not-a-plugin", "README.md"), "nope")

	plugins, err := ListInstalled(root)
	if err != nil {
		t.Fatalf("ListInstalled() error = %v", err)
	}
	if len(plugins) != 1 {
		t.Fatalf("len = %d, want 1 (manifest-less dirs skipped)", len(plugins))
	}
	if plugins[0].Manifest.Name != "order-tools" {
		t.Errorf("name = %q", plugins[0].Manifest.Name)
	}
}

func TestListInstalledMissingDir(t *testing.T) {
	plugins, err := ListInstalled(filepath.Join(t.TempDir(), "absent"))
	if err != nil {
		t.Fatalf("ListInstalled() error = %v", err)
	}
	if plugins != nil {
		t.Errorf("plugins = %v, want nil", plugins)
	}
}
