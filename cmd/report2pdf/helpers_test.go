package main

// Notes:
// - Shared fakes and environment builders for the command tests.
// - fakePool hands out one fakeRenderer; no browser is started.
// No coverage gaps: this is test infrastructure, not production code.

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	report2pdf "github.com/alnah/go-report2pdf"
	"github.com/alnah/go-report2pdf/internal/assets"
	"github.com/alnah/go-report2pdf/internal/document"
	"github.com/alnah/go-report2pdf/internal/layout"
)

const reportYAML = `
title: Online Library Management System
sections:
  - title: Abstract
    blocks:
      - {type: paragraph, text: "The system tracks books and members."}
  - title: SDLC
    chapter: "06"
    breakBefore: true
    blocks:
      - {type: heading, level: 2, text: Process}
      - {type: paragraph, text: "Waterfall phases."}
`

// ---------------------------------------------------------------------------
// Fakes
// ---------------------------------------------------------------------------

type fakeRenderer struct {
	mu     sync.Mutex
	inputs []report2pdf.Input
	err    error
}

func (f *fakeRenderer) Render(_ context.Context, in report2pdf.Input) (*report2pdf.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, in)
	if f.err != nil {
		return nil, f.err
	}
	res := &report2pdf.Result{HTML: []byte("<html>preview</html>")}
	if in.HTMLOnly {
		return res, nil
	}
	res.PDF = []byte("%PDF-1.7 fake")
	res.Book = &layout.Book{Pages: []layout.Page{
		{Number: 1, Header: &layout.Band{Left: in.Document.Title}, Footer: &layout.Band{Left: "BCA Project", Right: "1"}},
		{Number: 2, Header: &layout.Band{Left: in.Document.Title}, Footer: &layout.Band{Left: "BCA Project", Right: "2"}},
	}}
	return res, nil
}

func (f *fakeRenderer) calls() []report2pdf.Input {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]report2pdf.Input(nil), f.inputs...)
}

type fakePool struct {
	r        *fakeRenderer
	size     int
	opts     poolOptions
	closed   bool
	acquired int
	mu       sync.Mutex
}

func (p *fakePool) Acquire(context.Context) (Renderer, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.acquired++
	return p.r, nil
}

func (p *fakePool) Release(Renderer) {}
func (p *fakePool) Size() int        { return p.size }

func (p *fakePool) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// ---------------------------------------------------------------------------
// Environment
// ---------------------------------------------------------------------------

type testEnv struct {
	*Environment
	stdout *bytes.Buffer
	stderr *bytes.Buffer
	vars   map[string]string
	pool   *fakePool
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	te := &testEnv{
		stdout: &bytes.Buffer{},
		stderr: &bytes.Buffer{},
		vars:   map[string]string{},
	}
	renderer := &fakeRenderer{}
	te.Environment = &Environment{
		Now:         func() time.Time { return time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC) },
		Stdout:      te.stdout,
		Stderr:      te.stderr,
		Getenv:      func(k string) string { return te.vars[k] },
		Environ:     func() []string { return nil },
		AssetLoader: assets.NewEmbeddedLoader(),
		NewPool: func(size int, opts poolOptions) Pool {
			te.pool = &fakePool{r: renderer, size: size, opts: opts}
			return te.pool
		},
	}
	return te
}

// writeFile creates dir/name with content and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("setup: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("setup: %v", err)
	}
	return path
}

func mustDefaultDocument(t *testing.T) *document.Document {
	t.Helper()
	doc, err := document.Default()
	if err != nil {
		t.Fatalf("document.Default() error = %v", err)
	}
	return doc
}
