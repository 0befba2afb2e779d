// internal/browser/session/driver.go
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
)

// Driver attaches chromedp to remote browsers.
type Driver struct {
	logger *zap.Logger
	cfg    config.BrowserConfig
}

var _ browser.Driver = (*Driver)(nil)

// NewDriver creates a chromedp driver.
func NewDriver(logger *zap.Logger, cfg config.BrowserConfig) *Driver {
	return &Driver{logger: logger.Named("chromedp"), cfg: cfg}
}

// Connect dials the browser's DevTools websocket. The endpoint is used
// verbatim. No tab is created: chromedp.Targets allocates the connection
// without attaching to a target.
func (d *Driver) Connect(ctx context.Context, endpoint string) (browser.Browser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	allocCtx, allocCancel := chromedp.NewRemoteAllocator(Detach(ctx), endpoint, chromedp.NoModifyURL)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(d.logger.Sugar().Debugf),
		chromedp.WithErrorf(d.logger.Sugar().Debugf),
	)

	b := &Browser{
		logger:        d.logger,
		cfg:           d.cfg,
		ctx:           browserCtx,
		cancelBrowser: browserCancel,
		cancelAlloc:   allocCancel,
	}

	// Bound the dial by the caller without tying the connection to it.
	type result struct{ err error }
	done := make(chan result, 1)
	go func() {
		_, err := chromedp.Targets(browserCtx)
		done <- result{err}
	}()

	select {
	case r := <-done:
		if r.err != nil {
			b.Close(context.Background())
			return nil, fmt.Errorf("connect to browser: %w", r.err)
		}
	case <-ctx.Done():
		b.Close(context.Background())
		return nil, fmt.Errorf("connect to browser: %w", ctx.Err())
	}

	d.logger.Debug("Connected to remote browser.")
	return b, nil
}

// Browser is a chromedp connection to one remote browser.
type Browser struct {
	logger *zap.Logger
	cfg    config.BrowserConfig

	ctx           context.Context
	cancelBrowser context.CancelFunc
	cancelAlloc   context.CancelFunc
	closeOnce     sync.Once
}

// DefaultPage attaches to the first existing page target.
func (b *Browser) DefaultPage(ctx context.Context) (browser.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	targets, err := chromedp.Targets(b.ctx)
	if err != nil {
		return nil, fmt.Errorf("list targets: %w", err)
	}

	for _, t := range targets {
		if t.Type != "page" {
			continue
		}
		pageCtx, cancel := chromedp.NewContext(b.ctx, chromedp.WithTargetID(t.TargetID))
		p := newPage(pageCtx, cancel, b.logger.With(zap.String("target_id", string(t.TargetID))), b.cfg)
		if err := p.attach(ctx); err != nil {
			cancel()
			return nil, err
		}
		return p, nil
	}
	return nil, browser.ErrNoPage
}

// Close drops the connection. The remote browser itself is released through
// the provisioning service.
func (b *Browser) Close(context.Context) error {
	b.closeOnce.Do(func() {
		b.cancelBrowser()
		b.cancelAlloc()
	})
	return nil
}
