package report2pdf

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-report2pdf/internal/fileutil"
	"github.com/alnah/go-report2pdf/internal/process"
)

// pdfRenderer abstracts HTML to PDF printing to allow testing without a
// browser.
type pdfRenderer interface {
	ToPDF(ctx context.Context, htmlContent string) ([]byte, error)
	Close() error
}

// browserSource hands out a connected browser.
type browserSource interface {
	Browser() (*rod.Browser, error)
}

// Compile-time interface checks
var (
	_ pdfRenderer   = (*rodRenderer)(nil)
	_ browserSource = (*rodRenderer)(nil)
)

// rodRenderer prints fixed-page HTML with headless Chrome via go-rod.
// Rod downloads Chromium on first run if none is found. The browser is
// launched lazily and shared by printing and measuring.
type rodRenderer struct {
	timeout time.Duration

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// newRodRenderer creates a rodRenderer with the given timeout.
func newRodRenderer(timeout time.Duration) *rodRenderer {
	return &rodRenderer{timeout: timeout}
}

// Browser lazily launches and connects to the browser.
func (r *rodRenderer) Browser() (*rod.Browser, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browser != nil {
		return r.browser, nil
	}

	l := process.NewLauncher()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}

	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		process.Kill(l)
		return nil, fmt.Errorf("%w: %v", ErrBrowserConnect, err)
	}
	r.launcher, r.browser = l, b
	return b, nil
}

// Close releases browser resources.
func (r *rodRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	var err error
	if r.browser != nil {
		err = r.browser.Close()
		r.browser = nil
	}
	process.Kill(r.launcher)
	r.launcher = nil
	return err
}

// ToPDF writes htmlContent to a temporary file, opens it in headless Chrome
// and prints it with the CSS page size and no margins.
func (r *rodRenderer) ToPDF(ctx context.Context, htmlContent string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	tmpPath, cleanup, err := fileutil.WriteTempFile(htmlContent, "html")
	if err != nil {
		return nil, err
	}
	defer cleanup()

	browser, err := r.Browser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Page(proto.TargetCreateTarget{URL: "file://" + tmpPath})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageCreate, err)
	}
	defer page.Close()

	page = page.Context(ctx)
	if err := page.Timeout(r.pageTimeout(ctx)).WaitLoad(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPageLoad, err)
	}
	if _, err := page.Eval(waitFontsJS); err != nil {
		return nil, fmt.Errorf("%w: waiting for fonts: %v", ErrPageLoad, err)
	}

	reader, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PreferCSSPageSize: true,
		MarginTop:         floatPtr(0),
		MarginBottom:      floatPtr(0),
		MarginLeft:        floatPtr(0),
		MarginRight:       floatPtr(0),
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPDFGeneration, err)
	}

	pdfBuf, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("%w: reading PDF stream: %v", ErrPDFGeneration, err)
	}
	return pdfBuf, nil
}

// pageTimeout is the renderer timeout, shortened by the context deadline.
func (r *rodRenderer) pageTimeout(ctx context.Context) time.Duration {
	timeout := r.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if left := time.Until(deadline); left < timeout {
			timeout = max(left, time.Millisecond)
		}
	}
	return timeout
}

// waitFontsJS resolves once embedded web fonts are ready, so line boxes use
// the final metrics.
const waitFontsJS = `() => document.fonts.ready.then(() => true)`

// floatPtr returns a pointer to a float64 value.
func floatPtr(v float64) *float64 {
	return &v
}
