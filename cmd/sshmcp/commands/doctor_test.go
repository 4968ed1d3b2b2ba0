package commands

import (
	"testing"

	"github.com/thoreinstein/sshmcp/internal/doctor"
)

func TestValidateDoctorFlags(t *testing.T) {
	origJSON := doctorJSON
	origQuiet := quiet
	defer func() {
		doctorJSON = origJSON
		quiet = origQuiet
	}()

	tests := []struct {
		name    string
		json    bool
		quiet   bool
		wantErr bool
	}{
		{"no flags", false, false, false},
		{"json only", true, false, false},
		{"quiet only", false, true, false},
		{"json and quiet", true, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doctorJSON = tt.json
			quiet = tt.quiet

			err := validateDoctorFlags(nil, nil)
			if tt.wantErr && err == nil {
				t.Error("expected an error")
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestOutputDoctorReport_QuietSuppressesOutput(t *testing.T) {
	origQuiet := quiet
	defer func() { quiet = origQuiet }()
	quiet = true

	report := &doctor.Report{Results: []*doctor.CheckResult{
		{Name: "node", Status: doctor.SeverityPass, Message: "/usr/bin/node"},
	}}

	out := captureStdout(t, func() {
		if err := outputDoctorReport(report); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})
	if out != "" {
		t.Errorf("expected no output in quiet mode, got %q", out)
	}
}

func TestStatusIcon(t *testing.T) {
	tests := []struct {
		severity doctor.Severity
		want     string
	}{
		{doctor.SeverityPass, "✓"},
		{doctor.SeverityInfo, "ℹ"},
		{doctor.SeverityWarning, "⚠"},
		{doctor.Severity(42), "?"},
	}

	for _, tt := range tests {
		if got := statusIcon(tt.severity); got != tt.want {
			t.Errorf("statusIcon(%v) = %q, want %q", tt.severity, got, tt.want)
		}
	}
}
