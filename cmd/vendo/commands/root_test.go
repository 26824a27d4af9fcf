package commands

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/vendocli/vendo/internal/logging"
)

func TestSetupLogging_VerbosityFlags(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()

	tests := []struct {
		name      string
		verbosity int
		wantLevel slog.Level
	}{
		{"default (0)", 0, slog.LevelInfo},
		{"verbose (1)", 1, slog.LevelDebug},
		{"debug (2)", 2, slog.LevelDebug - 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verbosity = tt.verbosity
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}

			logger := slog.Default()
			if !logger.Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestSetupLogging_QuietVerboseConflict(t *testing.T) {
	origVerbosity, origQuiet := verbosity, quiet
	defer func() { verbosity, quiet = origVerbosity, origQuiet }()

	verbosity = 1
	quiet = true
	if err := setupLogging(rootCmd); err == nil {
		t.Error("expected error combining --quiet with --verbose")
	}
}

func TestSetupLogging_EnvVar(t *testing.T) {
	origVerbosity := verbosity
	defer func() { verbosity = origVerbosity }()
	verbosity = 0

	tests := []struct {
		envVal    string
		wantLevel slog.Level
	}{
		{"1", slog.LevelDebug},
		{"true", slog.LevelDebug},
		{"2", slog.LevelDebug - 4},
		{"0", slog.LevelInfo},
		{"foo", slog.LevelInfo},
	}

	for _, tt := range tests {
		t.Run("VENDO_DEBUG="+tt.envVal, func(t *testing.T) {
			t.Setenv("VENDO_DEBUG", tt.envVal)
			if err := setupLogging(rootCmd); err != nil {
				t.Fatalf("setupLogging failed: %v", err)
			}
			if !slog.Default().Enabled(context.Background(), tt.wantLevel) {
				t.Errorf("expected level %v to be enabled", tt.wantLevel)
			}
		})
	}
}

func TestRootCommandRegistration(t *testing.T) {
	want := []string{
		"spapi", "netsuite", "shopify", "celigo", "n8n", "mimecast",
		"google", "plytix", "auth", "doctor", "plugin", "marketplace",
		"search", "config",
	}

	registered := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range want {
		if !registered[name] {
			t.Errorf("command %q not registered on root", name)
		}
	}
}

func TestVerbosityLevels(t *testing.T) {
	if got := logging.LevelFromVerbosity(0); got != slog.LevelInfo {
		t.Errorf("LevelFromVerbosity(0) = %v, want info", got)
	}
}

func TestFlagSpellingsParseIdentically(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"space separated", []string{"--since", "14d", "--status", "Shipped"}},
		{"equals form", []string{"--since=14d", "--status=Shipped"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spapiOrdersSince = ""
			spapiOrdersStatuses = nil

			if err := spapiOrdersCmd.ParseFlags(tt.args); err != nil {
				t.Fatalf("ParseFlags(%v) error = %v", tt.args, err)
			}
			if spapiOrdersSince != "14d" {
				t.Errorf("since = %q, want %q", spapiOrdersSince, "14d")
			}
			if len(spapiOrdersStatuses) != 1 || spapiOrdersStatuses[0] != "Shipped" {
				t.Errorf("statuses = %v, want [Shipped]", spapiOrdersStatuses)
			}
		})
	}
}

func TestUnknownFlagErrors(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs([]string{"spapi", "orders", "--no-such-flag"})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	if err == nil {
		t.Fatal("Execute() error = nil, want unknown flag error")
	}
	if !strings.Contains(err.Error(), "unknown flag") {
		t.Errorf("error = %q, want unknown flag message", err)
	}
}
