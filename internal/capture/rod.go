package capture

import (
	"context"
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"github.com/alnah/go-report2pdf/internal/process"
)

// rodBrowser drives headless Chrome.
type rodBrowser struct {
	cfg      Config
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodBrowser launches headless Chrome.
func NewRodBrowser(cfg Config) (Browser, error) {
	l := process.NewLauncher()
	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}
	b := rod.New().ControlURL(u)
	if err := b.Connect(); err != nil {
		process.Kill(l)
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}
	return &rodBrowser{cfg: cfg, launcher: l, browser: b}, nil
}

// Open navigates a new tab to url and waits for the load event.
func (b *rodBrowser) Open(ctx context.Context, url string) (Page, error) {
	page, err := b.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	page = page.Context(ctx)
	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             b.cfg.ViewportWidth,
		Height:            b.cfg.ViewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return nil, err
	}
	if err := page.Navigate(url); err != nil {
		return nil, err
	}
	if err := page.WaitLoad(); err != nil {
		return nil, err
	}
	return &rodPage{page: page}, nil
}

// Close closes the browser and kills its process tree.
func (b *rodBrowser) Close() error {
	err := b.browser.Close()
	process.Kill(b.launcher)
	return err
}

type rodPage struct {
	page *rod.Page
}

func (p *rodPage) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	has, el, err := p.page.Context(ctx).Has(selector)
	if err != nil || !has {
		return "", false, err
	}
	v, err := el.Attribute(name)
	if err != nil || v == nil {
		return "", false, err
	}
	return *v, true, nil
}

func (p *rodPage) Screenshot(ctx context.Context) ([]byte, error) {
	return p.page.Context(ctx).Screenshot(true, &proto.PageCaptureScreenshot{
		Format: proto.PageCaptureScreenshotFormatPng,
	})
}
