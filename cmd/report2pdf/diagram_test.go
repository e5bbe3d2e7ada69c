package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alnah/go-report2pdf/internal/diagram"
)

// ---------------------------------------------------------------------------
// TestRunDiagram - Listing and exporting built-in diagrams
// ---------------------------------------------------------------------------

func TestRunDiagram_List(t *testing.T) {
	t.Parallel()

	te := newTestEnv(t)
	if err := runDiagram([]string{"--list"}, te.Environment); err != nil {
		t.Fatalf("runDiagram() error = %v", err)
	}
	got := strings.Fields(te.stdout.String())
	if want := diagram.Names(); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("listed %v, want %v", got, want)
	}
}

func TestRunDiagram_Export(t *testing.T) {
	t.Parallel()

	name := diagram.Names()[0]
	dir := t.TempDir()

	tests := []struct {
		name   string
		args   []string
		file   string
		prefix []byte
	}{
		{"svg to stdout", []string{name}, "", []byte("<svg")},
		{"svg file", []string{name, "-o", filepath.Join(dir, "d.svg")}, filepath.Join(dir, "d.svg"), []byte("<svg")},
		{"png file", []string{name, "-o", filepath.Join(dir, "nested", "d.png"), "--scale", "1"}, filepath.Join(dir, "nested", "d.png"), []byte("\x89PNG")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if err := runDiagram(tt.args, te.Environment); err != nil {
				t.Fatalf("runDiagram() error = %v", err)
			}

			data := te.stdout.Bytes()
			if tt.file != "" {
				var err error
				if data, err = os.ReadFile(tt.file); err != nil {
					t.Fatalf("output not written: %v", err)
				}
				if !strings.Contains(te.stdout.String(), "Created "+tt.file) {
					t.Errorf("stdout = %q", te.stdout)
				}
			}
			if !bytes.Contains(data, tt.prefix) {
				t.Errorf("output does not contain %q", tt.prefix)
			}
		})
	}
}

func TestRunDiagram_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		wantErr error
	}{
		{"no name", nil, ErrUsage},
		{"two names", []string{"a", "b"}, ErrUsage},
		{"unknown diagram", []string{"no-such-diagram"}, diagram.ErrUnknownDiagram},
		{"bad extension", []string{diagram.Names()[0], "-o", "d.gif"}, ErrUsage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			te := newTestEnv(t)
			if err := runDiagram(tt.args, te.Environment); !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
