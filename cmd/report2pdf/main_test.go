package main

// Notes:
// - runMain is the testable entry point; main() only sets GOMAXPROCS and exits.

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/capture"
	"github.com/alnah/go-report2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestRunMain - Command dispatch and exit codes
// ---------------------------------------------------------------------------

func TestRunMain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		args       []string
		wantCode   int
		wantStdout string
		wantStderr string
	}{
		{"no command", []string{"report2pdf"}, ExitUsage, "", "Usage: report2pdf"},
		{"unknown command", []string{"report2pdf", "convert"}, ExitUsage, "", "Unknown command: convert"},
		{"version", []string{"report2pdf", "version"}, ExitSuccess, "report2pdf dev", ""},
		{"help", []string{"report2pdf", "help"}, ExitSuccess, "Commands:", ""},
		{"command help flag", []string{"report2pdf", "render", "--help"}, ExitSuccess, "", "Usage: report2pdf render"},
		{"bad flag", []string{"report2pdf", "render", "--nope"}, ExitUsage, "", "error:"},
		{"diagram list", []string{"report2pdf", "diagram", "--list"}, ExitSuccess, "", ""},
		{"unknown diagram", []string{"report2pdf", "diagram", "gantt"}, ExitUsage, "", "unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if code := runMain(tt.args, te.Environment); code != tt.wantCode {
				t.Errorf("exit code = %d, want %d\nstderr: %s", code, tt.wantCode, te.stderr)
			}
			if !strings.Contains(te.stdout.String(), tt.wantStdout) {
				t.Errorf("stdout = %q, want %q", te.stdout, tt.wantStdout)
			}
			if !strings.Contains(te.stderr.String(), tt.wantStderr) {
				t.Errorf("stderr = %q, want %q", te.stderr, tt.wantStderr)
			}
		})
	}
}

func TestRunMain_WarnsUnknownEnvVars(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	te.Environ = func() []string { return []string{"REPORT2PDF_TIMEOT=30s", "PATH=/usr/bin"} }

	runMain([]string{"report2pdf", "version"}, te.Environment)
	if !strings.Contains(te.stderr.String(), "REPORT2PDF_TIMEOT") {
		t.Errorf("stderr = %q, want typo warning", te.stderr)
	}
}

func TestHasVerboseFlag(t *testing.T) {
	t.Parallel()

	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"render", "-v"}, true},
		{[]string{"render", "--verbose", "doc.yaml"}, true},
		{[]string{"render", "doc.yaml"}, false},
		{[]string{"render", "--", "-v"}, false},
	}
	for _, tt := range tests {
		if got := hasVerboseFlag(tt.args); got != tt.want {
			t.Errorf("hasVerboseFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}
}

// ---------------------------------------------------------------------------
// TestHintFor - Hints appended to error output
// ---------------------------------------------------------------------------

func TestHintFor(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"server timeout", fmt.Errorf("capture: %w", capture.ErrServerTimeout), "report2pdf serve"},
		{"deadline", context.DeadlineExceeded, "--timeout"},
		{"browser", report2pdf.ErrBrowserConnect, "report2pdf doctor"},
		{"config", fmt.Errorf("%w: tried ci.yaml, ci.yml, /home/u/.config/go-report2pdf/ci.yaml", config.ErrConfigNotFound), "create /home/u/.config/go-report2pdf/ci.yaml"},
		{"bands", ErrBandsMissing, "layout --yaml"},
		{"none", errors.New("plain"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := hintFor(tt.err, te.Environment)
			if tt.want == "" {
				if got != "" {
					t.Errorf("hintFor() = %q, want none", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("hintFor() = %q, want %q", got, tt.want)
			}
		})
	}
}
