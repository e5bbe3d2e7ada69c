// Package capture screenshots the PDF viewer page of the preview server in
// a headless browser.
//
// A run moves through four states: it polls the server until the page
// answers 200 (fatal after ServerTimeout), opens the page and waits for the
// viewer iframe to receive a blob: URL (a timeout there only logs a
// warning), lets rendering settle, and writes a full-page PNG.
package capture

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/alnah/go-report2pdf/internal/fileutil"
)

// Defaults.
const (
	DefaultURL             = "http://localhost:3000/project-report-pdf"
	DefaultOutput          = "tmp/toc-screenshot.png"
	DefaultPollInterval    = time.Second
	DefaultServerTimeout   = 60 * time.Second
	DefaultViewerTimeout   = 60 * time.Second
	DefaultSettle          = 2 * time.Second
	DefaultViewerSelector  = "#pdf-viewer"
	DefaultViewerAttribute = "src"
	DefaultViewerPrefix    = "blob:"
	DefaultViewportWidth   = 1280
	DefaultViewportHeight  = 1600
)

// Sentinel errors.
var (
	ErrServerTimeout = errors.New("server did not become ready")
	ErrNavigation    = errors.New("failed to open page")
	ErrScreenshot    = errors.New("failed to take screenshot")
	ErrInvalidConfig = errors.New("invalid capture config")
)

// State is the stage a capture run is in.
type State int

// Capture states in order.
const (
	Polling State = iota
	WaitingForViewer
	Capturing
	Done
)

func (s State) String() string {
	switch s {
	case Polling:
		return "polling"
	case WaitingForViewer:
		return "waiting-for-viewer"
	case Capturing:
		return "capturing"
	case Done:
		return "done"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Config controls a capture run.
type Config struct {
	URL             string
	Output          string
	PollInterval    time.Duration
	ServerTimeout   time.Duration
	ViewerTimeout   time.Duration
	Settle          time.Duration
	ViewerSelector  string
	ViewerAttribute string
	ViewerPrefix    string
	ViewportWidth   int
	ViewportHeight  int
}

// DefaultConfig returns the standard capture of the local preview server.
func DefaultConfig() Config {
	return Config{
		URL:             DefaultURL,
		Output:          DefaultOutput,
		PollInterval:    DefaultPollInterval,
		ServerTimeout:   DefaultServerTimeout,
		ViewerTimeout:   DefaultViewerTimeout,
		Settle:          DefaultSettle,
		ViewerSelector:  DefaultViewerSelector,
		ViewerAttribute: DefaultViewerAttribute,
		ViewerPrefix:    DefaultViewerPrefix,
		ViewportWidth:   DefaultViewportWidth,
		ViewportHeight:  DefaultViewportHeight,
	}
}

// Validate checks required fields and durations.
func (c Config) Validate() error {
	switch {
	case !strings.HasPrefix(c.URL, "http://") && !strings.HasPrefix(c.URL, "https://"):
		return fmt.Errorf("%w: url %q must be http(s)", ErrInvalidConfig, c.URL)
	case c.Output == "":
		return fmt.Errorf("%w: output path is empty", ErrInvalidConfig)
	case c.PollInterval <= 0:
		return fmt.Errorf("%w: poll interval must be positive", ErrInvalidConfig)
	case c.ServerTimeout <= 0 || c.ViewerTimeout <= 0:
		return fmt.Errorf("%w: timeouts must be positive", ErrInvalidConfig)
	case c.Settle < 0:
		return fmt.Errorf("%w: settle delay must not be negative", ErrInvalidConfig)
	case c.ViewerSelector == "" || c.ViewerAttribute == "":
		return fmt.Errorf("%w: viewer selector and attribute are required", ErrInvalidConfig)
	case c.ViewportWidth <= 0 || c.ViewportHeight <= 0:
		return fmt.Errorf("%w: viewport must be positive", ErrInvalidConfig)
	}
	return nil
}

// Browser opens pages. Close releases the browser process.
type Browser interface {
	Open(ctx context.Context, url string) (Page, error)
	Close() error
}

// Page is an opened page.
type Page interface {
	// Attribute returns the attribute of the first element matching
	// selector; ok is false when the element or attribute is absent.
	Attribute(ctx context.Context, selector, name string) (value string, ok bool, err error)
	// Screenshot returns a full-page PNG.
	Screenshot(ctx context.Context) ([]byte, error)
}

// Capturer runs captures.
type Capturer struct {
	cfg         Config
	client      *http.Client
	openBrowser func(Config) (Browser, error)
	logger      *zap.Logger
	onState     func(State)
}

// Option configures a Capturer.
type Option func(*Capturer)

// WithHTTPClient sets the client used to poll the server.
func WithHTTPClient(c *http.Client) Option {
	return func(cp *Capturer) {
		if c != nil {
			cp.client = c
		}
	}
}

// WithBrowser replaces the headless Chrome browser.
func WithBrowser(open func(Config) (Browser, error)) Option {
	return func(cp *Capturer) {
		if open != nil {
			cp.openBrowser = open
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(cp *Capturer) {
		if l != nil {
			cp.logger = l
		}
	}
}

// WithStateHook is called on every state transition.
func WithStateHook(fn func(State)) Option {
	return func(cp *Capturer) {
		cp.onState = fn
	}
}

// New creates a Capturer.
func New(cfg Config, opts ...Option) *Capturer {
	c := &Capturer{
		cfg:         cfg,
		client:      &http.Client{Timeout: cfg.PollInterval * 5},
		openBrowser: NewRodBrowser,
		logger:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Capturer) enter(s State) {
	c.logger.Debug("capture state", zap.Stringer("state", s))
	if c.onState != nil {
		c.onState(s)
	}
}

// WaitForServer polls the URL every PollInterval until it answers 200.
// Non-200 responses and network errors mean "not ready". After
// ServerTimeout it returns ErrServerTimeout, even while a request is still
// in flight.
func (c *Capturer) WaitForServer(ctx context.Context) error {
	waitCtx, cancel := context.WithTimeout(ctx, c.cfg.ServerTimeout)
	defer cancel()

	timedOut := func() error {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fmt.Errorf("%w: %s after %s", ErrServerTimeout, c.cfg.URL, c.cfg.ServerTimeout)
	}

	for attempt := 1; ; attempt++ {
		ready, err := c.probe(waitCtx)
		if ready {
			c.logger.Info("server ready", zap.String("url", c.cfg.URL), zap.Int("attempts", attempt))
			return nil
		}
		if waitCtx.Err() != nil {
			return timedOut()
		}
		c.logger.Debug("server not ready", zap.Int("attempt", attempt), zap.Error(err))

		if err := sleep(waitCtx, c.cfg.PollInterval); err != nil {
			return timedOut()
		}
	}
}

func (c *Capturer) probe(ctx context.Context) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.cfg.URL, nil)
	if err != nil {
		return false, err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return false, err
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("status %d", resp.StatusCode)
	}
	return true, nil
}

// WaitForViewer polls the viewer attribute until it starts with the
// configured prefix. A timeout is not an error: it logs a warning and
// returns false so the capture proceeds.
func (c *Capturer) WaitForViewer(ctx context.Context, page Page) (bool, error) {
	deadline := time.Now().Add(c.cfg.ViewerTimeout)
	for {
		value, ok, err := page.Attribute(ctx, c.cfg.ViewerSelector, c.cfg.ViewerAttribute)
		if err == nil && ok && strings.HasPrefix(value, c.cfg.ViewerPrefix) {
			return true, nil
		}
		if ctx.Err() != nil {
			return false, ctx.Err()
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			c.logger.Warn("viewer did not load, capturing anyway",
				zap.String("selector", c.cfg.ViewerSelector),
				zap.Duration("timeout", c.cfg.ViewerTimeout))
			return false, nil
		}
		if err := sleep(ctx, min(c.cfg.PollInterval, remaining)); err != nil {
			return false, err
		}
	}
}

// Run performs one capture and writes the PNG to Output, creating its
// directory. The browser is closed on every path.
func (c *Capturer) Run(ctx context.Context) (err error) {
	if err := c.cfg.Validate(); err != nil {
		return err
	}

	c.enter(Polling)
	if err := c.WaitForServer(ctx); err != nil {
		return err
	}

	browser, err := c.openBrowser(c.cfg)
	if err != nil {
		return err
	}
	defer func() {
		err = multierr.Append(err, browser.Close())
	}()

	page, err := browser.Open(ctx, c.cfg.URL)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrNavigation, c.cfg.URL, err)
	}

	c.enter(WaitingForViewer)
	if _, err := c.WaitForViewer(ctx, page); err != nil {
		return err
	}
	if err := sleep(ctx, c.cfg.Settle); err != nil {
		return err
	}

	c.enter(Capturing)
	png, err := page.Screenshot(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrScreenshot, err)
	}
	if err := fileutil.WriteFile(c.cfg.Output, png); err != nil {
		return err
	}
	c.logger.Info("screenshot saved", zap.String("path", c.cfg.Output), zap.Int("bytes", len(png)))

	c.enter(Done)
	return nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
