package commands

import (
	"encoding/json"
	"time"

	"github.com/spf13/cobra"

	"github.com/vendocli/vendo/internal/config"
	"github.com/vendocli/vendo/internal/credcache"
	"github.com/vendocli/vendo/internal/doctor"
	"github.com/vendocli/vendo/internal/errors"
	"github.com/vendocli/vendo/internal/paths"
)

var (
	doctorJSON    bool
	doctorQuiet   bool
	doctorVerbose bool
)

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	doctorCmd.Flags().BoolVar(&doctorQuiet, "quiet", false,
		"suppress output, exit code only")
	doctorCmd.Flags().BoolVar(&doctorVerbose, "verbose", false,
		"show detailed check-by-check output")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Diagnose configuration issues",
	Long: `Run diagnostic checks on the vendo setup.

Validates the config file and its profiles, checks token cache
permissions and staleness, and verifies the plugin and git environment.

Output modes (mutually exclusive):
  (default)   Show errors and warnings
  --verbose   Show all checks including passed ones
  --quiet     No output, exit code only
  --json      Machine-readable JSON output

Exit codes:
  0 - All checks passed (no errors or warnings)
  1 - Warnings present, no errors
  2 - Errors present`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	count := 0
	if doctorJSON {
		count++
	}
	if doctorQuiet {
		count++
	}
	if doctorVerbose {
		count++
	}

	if count > 1 {
		return errors.NewUserError(
			errors.New("flags --json, --quiet, and --verbose are mutually exclusive"), "")
	}
	return nil
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	configPath := configFile
	if configPath == "" {
		configPath = config.DefaultPath()
	}
	skew := time.Duration(config.DefaultSkewMinutes) * time.Minute
	if loadedConfig != nil {
		skew = time.Duration(loadedConfig.Cache.Skew()) * time.Minute
	}

	runner := doctor.NewRunner()
	runner.AddCheck(doctor.NewConfigCheck(configPath))
	runner.AddCheck(doctor.NewCacheDirCheck(paths.TokenCacheDir()))
	runner.AddCheck(doctor.NewTokenCheck(credcache.DefaultFileStore(), skew))
	runner.AddCheck(doctor.NewPluginDirCheck(paths.PluginInstallDir()))
	runner.AddCheck(doctor.NewGitCheck())

	report := runner.Run()

	if err := outputDoctorReport(cmd, report); err != nil {
		return err
	}

	if report.HasErrors() {
		return errors.NewExitError(errDoctorErrors, errors.ExitSystem)
	}
	if report.HasWarnings() {
		return errors.NewExitError(errDoctorWarnings, errors.ExitUser)
	}
	return nil
}

func outputDoctorReport(cmd *cobra.Command, report *doctor.Report) error {
	if doctorQuiet {
		return nil
	}
	if doctorJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(report), "encoding JSON")
	}
	return outputDoctorText(cmd, report)
}

func outputDoctorText(cmd *cobra.Command, report *doctor.Report) error {
	// Normal mode shows only errors and warnings; verbose shows all.
	showAll := doctorVerbose

	hasOutput := false
	for _, result := range report.Results {
		if !showAll && result.Status != doctor.SeverityError && result.Status != doctor.SeverityWarning {
			continue
		}

		hasOutput = true
		cmd.Printf("%s [%s] %s: %s\n", statusIcon(result.Status), result.Category, result.Name, result.Message)

		if showAll {
			for _, d := range result.Details {
				cmd.Printf("    %s\n", d)
			}
		}
		if result.FixHint != "" && (result.Status == doctor.SeverityError || result.Status == doctor.SeverityWarning) {
			cmd.Printf("  hint: %s\n", result.FixHint)
		}
	}

	if hasOutput || showAll {
		cmd.Println()
	}
	cmd.Printf("Summary: %d passed, %d info, %d warnings, %d errors\n",
		report.Summary.Passed, report.Summary.Info, report.Summary.Warnings, report.Summary.Errors)
	return nil
}

func statusIcon(s doctor.Severity) string {
	switch s {
	case doctor.SeverityPass:
		return "✓"
	case doctor.SeverityInfo:
		return "ℹ"
	case doctor.SeverityWarning:
		return "⚠"
	case doctor.SeverityError:
		return "✗"
	default:
		return "?"
	}
}

// errDoctorWarnings is a sentinel error for exit code 1.
var errDoctorWarnings = errors.New("warnings found")

// errDoctorErrors is a sentinel error for exit code 2.
var errDoctorErrors = errors.New("errors found")
