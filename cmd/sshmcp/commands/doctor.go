package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thoreinstein/sshmcp/internal/doctor"
	sshmcperrors "github.com/thoreinstein/sshmcp/internal/errors"
)

var doctorJSON bool

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false,
		"output results as JSON")
	rootCmd.AddCommand(doctorCmd)
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Inspect the runtime environment",
	Long: `Report how the next 'sshmcp run' would resolve its runtime.

Shows the detected platform, where node and npx were found (or that
provisioning will happen on first run), and the state of the private
install directory. All checks are read-only: nothing is downloaded and
nothing is written.

The persistent -q/--quiet flag suppresses the report; the exit code
still reflects the outcome.

Exit codes:
  0 - runtime fully resolved
  1 - provisioning will run on first start`,
	PreRunE: validateDoctorFlags,
	RunE:    runDoctor,
}

// validateDoctorFlags ensures output flags are mutually exclusive.
func validateDoctorFlags(_ *cobra.Command, _ []string) error {
	if doctorJSON && quiet {
		return errors.New("flags --json and --quiet are mutually exclusive")
	}
	return nil
}

func runDoctor(_ *cobra.Command, _ []string) error {
	report := doctor.Run(installOptions())

	if err := outputDoctorReport(report); err != nil {
		return err
	}

	if report.HasWarnings() {
		// The report itself is the output; signal via exit code only.
		return sshmcperrors.NewExitError(nil, sshmcperrors.ExitUser)
	}
	return nil
}

func outputDoctorReport(report *doctor.Report) error {
	if quiet {
		return nil
	}

	if doctorJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	}

	for _, result := range report.Results {
		fmt.Printf("%s %s: %s\n", statusIcon(result.Status), result.Name, result.Message)
	}
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
	default:
		return "?"
	}
}
