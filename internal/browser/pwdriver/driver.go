// Package pwdriver attaches playwright-go to remote browsers over CDP. It is
// the alternate backend selected by browser.driver: playwright.
package pwdriver

import (
	"context"
	"fmt"
	"sync"

	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
)

// Driver shares one playwright driver process across connections. The
// process starts on the first Connect and runs until Stop.
type Driver struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	start     func() (*playwright.Playwright, error)
	startOnce sync.Once
	mu        sync.Mutex
	pw        *playwright.Playwright
	startErr  error
}

var (
	_ browser.Driver  = (*Driver)(nil)
	_ browser.Stopper = (*Driver)(nil)
)

func NewDriver(logger *zap.Logger, cfg config.BrowserConfig) *Driver {
	return &Driver{logger: logger.Named("playwright"), cfg: cfg, start: startPlaywright}
}

// startPlaywright installs the playwright driver if needed (never browsers)
// and launches it.
func startPlaywright() (*playwright.Playwright, error) {
	opts := &playwright.RunOptions{SkipInstallBrowsers: true, Verbose: false}
	if err := playwright.Install(opts); err != nil {
		return nil, fmt.Errorf("install playwright driver: %w", err)
	}
	pw, err := playwright.Run(opts)
	if err != nil {
		return nil, fmt.Errorf("start playwright: %w", err)
	}
	return pw, nil
}

func (d *Driver) process() (*playwright.Playwright, error) {
	d.startOnce.Do(func() {
		pw, err := d.start()
		d.mu.Lock()
		defer d.mu.Unlock()
		d.pw, d.startErr = pw, err
		if err == nil {
			d.logger.Debug("Playwright driver started.")
		}
	})
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pw, d.startErr
}

// Connect attaches to the endpoint with ConnectOverCDP.
func (d *Driver) Connect(ctx context.Context, endpoint string) (browser.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	pw, err := d.process()
	if err != nil {
		return nil, err
	}
	if pw == nil {
		return nil, browser.ErrDriverStopped
	}

	timeout := float64(d.cfg.DefaultTimeout.Milliseconds())
	b, err := pw.Chromium.ConnectOverCDP(endpoint, playwright.BrowserTypeConnectOverCDPOptions{
		Timeout: &timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("connect over CDP: %w", err)
	}

	d.logger.Debug("Connected to remote browser.", zap.String("version", b.Version()))
	return &Browser{logger: d.logger, cfg: d.cfg, browser: b}, nil
}

// Stop shuts the playwright driver process down. It is a no-op when no
// connection was ever made, and later Connect calls fail.
func (d *Driver) Stop() error {
	// Claim the once so a Connect after Stop never starts a new process.
	d.startOnce.Do(func() {})
	d.mu.Lock()
	pw := d.pw
	d.pw = nil
	d.mu.Unlock()
	if pw == nil {
		return nil
	}
	if err := pw.Stop(); err != nil {
		return fmt.Errorf("stop playwright: %w", err)
	}
	return nil
}

// Browser wraps a CDP-attached playwright browser.
type Browser struct {
	logger    *zap.Logger
	cfg       config.BrowserConfig
	browser   playwright.Browser
	closeOnce sync.Once
}

// DefaultPage returns the first page of the first context.
func (b *Browser) DefaultPage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	contexts := b.browser.Contexts()
	if len(contexts) == 0 {
		return nil, browser.ErrNoPage
	}
	pages := contexts[0].Pages()
	if len(pages) == 0 {
		return nil, browser.ErrNoPage
	}

	p := &Page{
		logger:  b.logger,
		cfg:     b.cfg,
		context: contexts[0],
		page:    pages[0],
		timeout: b.cfg.DefaultTimeout,
		headers: map[string]string{},
	}
	p.page.SetDefaultTimeout(float64(b.cfg.DefaultTimeout.Milliseconds()))
	return p, nil
}

func (b *Browser) Close(context.Context) error {
	var err error
	b.closeOnce.Do(func() {
		if cerr := b.browser.Close(); cerr != nil {
			err = fmt.Errorf("close browser: %w", cerr)
		}
	})
	return err
}
