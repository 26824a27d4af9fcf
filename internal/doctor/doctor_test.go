package doctor

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/vendocli/vendo/internal/credcache"
)

// stubCheck returns a fixed result.
type stubCheck struct {
	name   string
	status Severity
}

func (s stubCheck) Name() string     { return s.name }
func (s stubCheck) Category() string { return "test" }
func (s stubCheck) Run() *CheckResult {
	return &CheckResult{Name: s.name, Category: "test", Status: s.status}
}

func TestRunnerSummary(t *testing.T) {
	r := NewRunner()
	r.AddCheck(stubCheck{"a", SeverityPass})
	r.AddCheck(stubCheck{"b", SeverityWarning})
	r.AddCheck(stubCheck{"c", SeverityError})
	r.AddCheck(stubCheck{"d", SeverityInfo})

	report := r.Run()
	if len(report.Results) != 4 {
		t.Fatalf("len(Results) = %d", len(report.Results))
	}
	want := Summary{Passed: 1, Info: 1, Warnings: 1, Errors: 1}
	if report.Summary != want {
		t.Errorf("Summary = %+v, want %+v", report.Summary, want)
	}
	if !report.HasErrors() || !report.HasWarnings() {
		t.Error("HasErrors/HasWarnings = false")
	}
}

func TestConfigCheckMissingFile(t *testing.T) {
	check := NewConfigCheck(filepath.Join(t.TempDir(), "config.yaml"))
	result := check.Run()
	if result.Status != SeverityWarning {
		t.Errorf("status = %v, want warning", result.Status)
	}
	if result.FixHint == "" {
		t.Error("expected a fix hint")
	}
}

func TestConfigCheckValid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
profiles:
  celigo:
    default:
      api_key: tok
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewConfigCheck(path).Run()
	if result.Status != SeverityPass {
		t.Errorf("status = %v (%s), want pass", result.Status, result.Message)
	}
}

func TestConfigCheckIncompleteProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `version: 1
profiles:
  spapi:
    prod:
      client_id: only-this
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewConfigCheck(path).Run()
	if result.Status != SeverityError {
		t.Errorf("status = %v, want error", result.Status)
	}
}

func TestCacheDirCheck(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "tokens")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "spapi--prod.json"), []byte("{}"), 0o600); err != nil {
		t.Fatal(err)
	}

	result := NewCacheDirCheck(dir).Run()
	if result.Status != SeverityPass {
		t.Errorf("status = %v (%s), want pass", result.Status, result.Message)
	}

	// Loosen a token file.
	if err := os.Chmod(filepath.Join(dir, "spapi--prod.json"), 0o644); err != nil {
		t.Fatal(err)
	}
	result = NewCacheDirCheck(dir).Run()
	if result.Status != SeverityWarning {
		t.Errorf("status = %v, want warning after chmod 644", result.Status)
	}
}

func TestCacheDirCheckMissing(t *testing.T) {
	result := NewCacheDirCheck(filepath.Join(t.TempDir(), "absent")).Run()
	if result.Status != SeverityInfo {
		t.Errorf("status = %v, want info", result.Status)
	}
}

func TestTokenCheck(t *testing.T) {
	store := credcache.NewMemStore()
	now := time.Now()
	store.Put("spapi/prod", credcache.Token{AccessToken: "a", Expiry: now.Add(time.Hour)})
	store.Put("google/default", credcache.Token{AccessToken: "b", Expiry: now.Add(-time.Hour)})

	result := NewTokenCheck(store, 5*time.Minute).Run()
	if result.Status != SeverityInfo {
		t.Errorf("status = %v (%s), want info for stale tokens", result.Status, result.Message)
	}

	store.Delete("google/default")
	result = NewTokenCheck(store, 5*time.Minute).Run()
	if result.Status != SeverityPass {
		t.Errorf("status = %v (%s), want pass", result.Status, result.Message)
	}
}

func TestPluginDirCheckMissing(t *testing.T) {
	result := NewPluginDirCheck(filepath.Join(t.TempDir(), "plugins")).Run()
	if result.Status != SeverityInfo {
		t.Errorf("status = %v, want info", result.Status)
	}
}
