package main

import (
	"errors"
	"strings"
	"testing"
)

func TestRunHelp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no command", nil, "Commands:"},
		{"render", []string{"render"}, "--html-only"},
		{"layout", []string{"layout"}, "--yaml"},
		{"serve", []string{"serve"}, "/project-report-pdf"},
		{"capture", []string{"capture"}, "tmp/toc-screenshot.png"},
		{"diagram", []string{"diagram"}, "--list"},
		{"inspect", []string{"inspect"}, "--map"},
		{"doctor", []string{"doctor"}, "--json"},
		{"version", []string{"version"}, "report2pdf version"},
		{"help", []string{"help"}, "help [command]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if err := runHelp(tt.args, te.Environment); err != nil {
				t.Fatalf("runHelp() error = %v", err)
			}
			if !strings.Contains(te.stdout.String(), tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, te.stdout)
			}
		})
	}
}

func TestRunHelp_UnknownCommand(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	err := runHelp([]string{"convert"}, te.Environment)
	if !errors.Is(err, ErrUsage) {
		t.Errorf("error = %v, want ErrUsage", err)
	}
	if !strings.Contains(te.stderr.String(), "Usage: report2pdf") {
		t.Errorf("stderr = %q, want usage", te.stderr)
	}
}
