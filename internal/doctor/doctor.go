// Package doctor reports on the host environment for diagnostics. Every
// check is read-only: no network access and no filesystem mutation.
package doctor

import (
	"fmt"
	"os"

	"github.com/thoreinstein/sshmcp/internal/install"
	"github.com/thoreinstein/sshmcp/internal/locate"
	"github.com/thoreinstein/sshmcp/internal/platform"
)

// Severity indicates the importance level of a check result.
type Severity int

const (
	// SeverityPass indicates the check passed without issues.
	SeverityPass Severity = iota

	// SeverityInfo indicates informational output, not a problem.
	SeverityInfo

	// SeverityWarning indicates a condition that provisioning will repair.
	SeverityWarning
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityPass:
		return "pass"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// MarshalJSON renders the severity as its string form.
func (s Severity) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// CheckResult represents the outcome of a single diagnostic check.
type CheckResult struct {
	// Name is the identifier for this check.
	Name string `json:"name"`

	// Status indicates the severity of the check result.
	Status Severity `json:"status"`

	// Message describes the check outcome.
	Message string `json:"message"`
}

// Report aggregates all check results.
type Report struct {
	Results []*CheckResult `json:"results"`
}

// HasWarnings returns true if any check carries SeverityWarning.
func (r *Report) HasWarnings() bool {
	for _, res := range r.Results {
		if res.Status == SeverityWarning {
			return true
		}
	}
	return false
}

// Run executes all environment checks against the given provisioning
// options and returns the aggregated report.
func Run(opts install.Options) *Report {
	tokens := platform.Detect()
	report := &Report{}

	report.Results = append(report.Results, &CheckResult{
		Name:   "platform",
		Status: SeverityInfo,
		Message: fmt.Sprintf("%s/%s, %s archives",
			tokens.OS.DistToken(), tokens.Arch, tokens.Archive),
	})

	report.Results = append(report.Results, checkNode(tokens, opts))
	report.Results = append(report.Results, checkLauncher(tokens, opts))
	report.Results = append(report.Results, checkInstallDir(opts))

	return report
}

func checkNode(tokens platform.Tokens, opts install.Options) *CheckResult {
	p, err := locate.Node(tokens, opts.Version)
	if err != nil {
		return &CheckResult{
			Name:    "node",
			Status:  SeverityWarning,
			Message: fmt.Sprintf("not found; v%s will be installed on first run", opts.Version),
		}
	}
	return &CheckResult{Name: "node", Status: SeverityPass, Message: p}
}

func checkLauncher(tokens platform.Tokens, opts install.Options) *CheckResult {
	p, err := locate.NPX(tokens, opts.Version)
	if err != nil {
		return &CheckResult{
			Name:    "npx",
			Status:  SeverityWarning,
			Message: "not found; will be resolved after the runtime is installed",
		}
	}
	return &CheckResult{Name: "npx", Status: SeverityPass, Message: p}
}

func checkInstallDir(opts install.Options) *CheckResult {
	if _, err := os.Stat(opts.InstallDir); err != nil {
		return &CheckResult{
			Name:    "install dir",
			Status:  SeverityInfo,
			Message: fmt.Sprintf("%s (not created yet)", opts.InstallDir),
		}
	}

	m, err := install.ReadManifest(opts.InstallDir)
	if err != nil {
		return &CheckResult{
			Name:    "install dir",
			Status:  SeverityInfo,
			Message: fmt.Sprintf("%s (no manifest)", opts.InstallDir),
		}
	}
	return &CheckResult{
		Name:    "install dir",
		Status:  SeverityPass,
		Message: fmt.Sprintf("%s (v%s, %s/%s)", opts.InstallDir, m.Version, m.OS, m.Arch),
	}
}
