package main

// Notes:
// - buildCaptureConfig precedence is tested directly: flags > config > defaults.
// - runCapture tests swap the package-level newCapturer, so they run serially.

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/capture"
	"github.com/alnah/go-report2pdf/internal/config"
)

// ---------------------------------------------------------------------------
// TestBuildCaptureConfig - Layering of defaults, config, and flags
// ---------------------------------------------------------------------------

func TestBuildCaptureConfig(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     config.CaptureConfig
		flags   captureFlags
		check   func(t *testing.T, c capture.Config)
		wantErr error
	}{
		{
			name: "defaults",
			check: func(t *testing.T, c capture.Config) {
				if c.URL != capture.DefaultURL || c.Output != capture.DefaultOutput {
					t.Errorf("URL/Output = %q, %q", c.URL, c.Output)
				}
				if c.ServerTimeout != 60*time.Second || c.ViewerTimeout != 60*time.Second {
					t.Errorf("timeouts = %v, %v", c.ServerTimeout, c.ViewerTimeout)
				}
				if c.PollInterval != time.Second || c.Settle != 2*time.Second {
					t.Errorf("poll/settle = %v, %v", c.PollInterval, c.Settle)
				}
			},
		},
		{
			name: "config overrides defaults",
			cfg:  config.CaptureConfig{URL: "http://127.0.0.1:8080/project-report-pdf", ServerTimeout: "90s", Settle: "500ms"},
			check: func(t *testing.T, c capture.Config) {
				if c.URL != "http://127.0.0.1:8080/project-report-pdf" {
					t.Errorf("URL = %q", c.URL)
				}
				if c.ServerTimeout != 90*time.Second || c.Settle != 500*time.Millisecond {
					t.Errorf("server/settle = %v, %v", c.ServerTimeout, c.Settle)
				}
				if c.ViewerTimeout != capture.DefaultViewerTimeout {
					t.Errorf("ViewerTimeout = %v, want default", c.ViewerTimeout)
				}
			},
		},
		{
			name:  "flags override config",
			cfg:   config.CaptureConfig{Output: "from-config.png", ServerTimeout: "90s"},
			flags: captureFlags{output: "from-flag.png", serverTimeout: 5 * time.Second},
			check: func(t *testing.T, c capture.Config) {
				if c.Output != "from-flag.png" || c.ServerTimeout != 5*time.Second {
					t.Errorf("Output/ServerTimeout = %q, %v", c.Output, c.ServerTimeout)
				}
			},
		},
		{
			name:    "bad config duration",
			cfg:     config.CaptureConfig{PollInterval: "often"},
			wantErr: config.ErrInvalidField,
		},
		{
			name:    "bad flag url",
			flags:   captureFlags{url: "ftp://localhost/report"},
			wantErr: capture.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := buildCaptureConfig(tt.cfg, &tt.flags)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.check(t, got)
		})
	}
}

// ---------------------------------------------------------------------------
// TestRunCapture - Command wiring with a fake capturer
// ---------------------------------------------------------------------------

type fakeCapturer struct {
	cfg capture.Config
	err error
}

func (f *fakeCapturer) Run(context.Context) error { return f.err }

func stubCapturer(t *testing.T, err error) *fakeCapturer {
	t.Helper()
	fake := &fakeCapturer{err: err}
	orig := newCapturer
	newCapturer = func(cfg capture.Config, _ *zap.Logger) captureRunner {
		fake.cfg = cfg
		return fake
	}
	t.Cleanup(func() { newCapturer = orig })
	return fake
}

func TestRunCapture(t *testing.T) {
	fake := stubCapturer(t, nil)
	te := newTestEnv(t)

	args := []string{"-o", "shots/toc.png", "--settle", "10ms"}
	if err := runCapture(context.Background(), args, te.Environment); err != nil {
		t.Fatalf("runCapture() error = %v", err)
	}
	if fake.cfg.Output != "shots/toc.png" || fake.cfg.Settle != 10*time.Millisecond {
		t.Errorf("capturer config = %+v", fake.cfg)
	}
	if te.stdout.String() != "Created shots/toc.png\n" {
		t.Errorf("stdout = %q", te.stdout)
	}
}

func TestRunCapture_Errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		runErr   error
		wantErr  error
		wantCode int
	}{
		{"positional arg", []string{"extra"}, nil, ErrUsage, ExitUsage},
		{"server timeout", nil, capture.ErrServerTimeout, capture.ErrServerTimeout, ExitTimeout},
		{"screenshot failure", nil, capture.ErrScreenshot, capture.ErrScreenshot, ExitBrowser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubCapturer(t, tt.runErr)
			te := newTestEnv(t)

			err := runCapture(context.Background(), tt.args, te.Environment)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if code := exitCodeFor(err); code != tt.wantCode {
				t.Errorf("exitCodeFor() = %d, want %d", code, tt.wantCode)
			}
		})
	}
}
