// internal/browser/session/page.go
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/input"
	"github.com/chromedp/cdproto/network"
	cdppage "github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
)

const (
	inputTimeout     = 10 * time.Second
	evaluateTimeout  = 20 * time.Second
	closeTimeout     = 5 * time.Second
	selectorPollFreq = 100 * time.Millisecond
)

// Page drives one attached tab through chromedp.
type Page struct {
	ctx    context.Context // carries the target connection
	cancel context.CancelFunc
	logger *zap.Logger
	cfg    config.BrowserConfig
	idle   *idleTracker

	mu             sync.Mutex
	defaultTimeout time.Duration
	mouseX, mouseY float64
	closeOnce      sync.Once
}

var _ browser.Page = (*Page)(nil)

func newPage(ctx context.Context, cancel context.CancelFunc, logger *zap.Logger, cfg config.BrowserConfig) *Page {
	return &Page{
		ctx:            ctx,
		cancel:         cancel,
		logger:         logger,
		cfg:            cfg,
		idle:           newIdleTracker(logger),
		defaultTimeout: cfg.DefaultTimeout,
	}
}

// attach enables the network domain and starts request tracking.
func (p *Page) attach(ctx context.Context) error {
	chromedp.ListenTarget(p.ctx, p.idle.handle)
	if err := p.run(ctx, p.timeout(0), network.Enable()); err != nil {
		return fmt.Errorf("attach to page: %w", err)
	}
	return nil
}

func (p *Page) timeout(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.defaultTimeout
}

// run executes actions against the tab, bounded by ctx and the timeout.
func (p *Page) run(ctx context.Context, timeout time.Duration, actions ...chromedp.Action) error {
	opCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		opCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	runCtx, cancel := CombineContext(p.ctx, opCtx)
	defer cancel()

	err := chromedp.Run(runCtx, actions...)
	if err != nil && opCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
		return fmt.Errorf("timed out after %v: %w", timeout, context.DeadlineExceeded)
	}
	return err
}

func (p *Page) evaluate(ctx context.Context, timeout time.Duration, script string, out interface{}) error {
	var raw []byte
	var res interface{}
	if out != nil {
		res = &raw
	}
	err := p.run(ctx, timeout, chromedp.Evaluate(script, res, func(ep *runtime.EvaluateParams) *runtime.EvaluateParams {
		return ep.WithReturnByValue(true).WithAwaitPromise(true)
	}))
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode evaluation result: %w (payload: %s)", err, string(raw))
	}
	return nil
}

// -- humanoid.Executor --

func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	return p.run(ctx, 0, chromedp.Sleep(d))
}

func (p *Page) MouseMove(ctx context.Context, x, y float64) error {
	if err := p.run(ctx, inputTimeout, input.DispatchMouseEvent(input.MouseMoved, x, y)); err != nil {
		return err
	}
	p.mu.Lock()
	p.mouseX, p.mouseY = x, y
	p.mu.Unlock()
	return nil
}

func (p *Page) mouseButton(ctx context.Context, typ input.MouseType, buttons int64) error {
	p.mu.Lock()
	x, y := p.mouseX, p.mouseY
	p.mu.Unlock()
	return p.run(ctx, inputTimeout, input.DispatchMouseEvent(typ, x, y).
		WithButton(input.Left).
		WithButtons(buttons).
		WithClickCount(1))
}

func (p *Page) MouseDown(ctx context.Context) error { return p.mouseButton(ctx, input.MousePressed, 1) }
func (p *Page) MouseUp(ctx context.Context) error   { return p.mouseButton(ctx, input.MouseReleased, 0) }

func (p *Page) TypeText(ctx context.Context, text string) error {
	return p.run(ctx, inputTimeout, chromedp.KeyEvent(text))
}

func (p *Page) BoundingBox(ctx context.Context, selector string) (*humanoid.Box, error) {
	script, err := boundingBoxScript(selector)
	if err != nil {
		return nil, err
	}
	var box *humanoid.Box
	if err := p.evaluate(ctx, inputTimeout, script, &box); err != nil {
		return nil, fmt.Errorf("bounding box for %q: %w", selector, err)
	}
	if box != nil && (box.Width <= 0 || box.Height <= 0) {
		return nil, nil
	}
	return box, nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	script, err := clickScript(selector)
	if err != nil {
		return err
	}
	return p.expectMatch(ctx, selector, script)
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	script, err := fillScript(selector, value)
	if err != nil {
		return err
	}
	return p.expectMatch(ctx, selector, script)
}

func (p *Page) expectMatch(ctx context.Context, selector, script string) error {
	var found bool
	if err := p.evaluate(ctx, inputTimeout, script, &found); err != nil {
		return fmt.Errorf("%q: %w", selector, err)
	}
	if !found {
		return fmt.Errorf("no element matches %q", selector)
	}
	return nil
}

func (p *Page) ScrollTo(ctx context.Context, y float64) error {
	return p.evaluate(ctx, inputTimeout, scrollScript(y), nil)
}

// -- browser.Page --

// Navigate loads url in the tab. chromedp.Navigate waits for the load event,
// which also satisfies DOMContentLoaded.
func (p *Page) Navigate(ctx context.Context, url string, opts browser.NavigateOptions) error {
	timeout := p.timeout(opts.Timeout)
	deadline := time.Now().Add(timeout)

	p.idle.reset()
	if err := p.run(ctx, timeout, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	if opts.WaitUntil != browser.WaitNetworkIdle {
		return nil
	}

	idleCtx, cancel := context.WithDeadline(ctx, deadline)
	defer cancel()
	if err := p.idle.wait(idleCtx, p.cfg.NetworkIdleQuiet); err != nil {
		return fmt.Errorf("navigate to %s: waiting for network idle: %w", url, err)
	}
	return nil
}

func (p *Page) WaitForSelector(ctx context.Context, selectors []string, opts browser.WaitOptions) (string, error) {
	scripts := make([]string, len(selectors))
	for i, sel := range selectors {
		s, err := existsScript(sel, opts.Visible)
		if err != nil {
			return "", err
		}
		scripts[i] = s
	}

	waitCtx, cancel := context.WithTimeout(ctx, p.timeout(opts.Timeout))
	defer cancel()

	ticker := time.NewTicker(selectorPollFreq)
	defer ticker.Stop()
	for {
		for i, script := range scripts {
			var found bool
			err := p.evaluate(waitCtx, 0, script, &found)
			if err == nil && found {
				return selectors[i], nil
			}
			// Evaluation fails while a navigation swaps the execution context.
			if err != nil && waitCtx.Err() == nil {
				p.logger.Debug("Selector probe failed.", zap.String("selector", selectors[i]), zap.Error(err))
			}
		}
		select {
		case <-waitCtx.Done():
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			return "", fmt.Errorf("%w: %v", browser.ErrSelectorTimeout, selectors)
		case <-ticker.C:
		}
	}
}

var namedKeys = map[string]string{
	"Tab":       kb.Tab,
	"Enter":     kb.Enter,
	"Escape":    kb.Escape,
	"Backspace": kb.Backspace,
}

func (p *Page) Press(ctx context.Context, key string) error {
	if k, ok := namedKeys[key]; ok {
		key = k
	}
	return p.run(ctx, inputTimeout, chromedp.KeyEvent(key))
}

func (p *Page) Evaluate(ctx context.Context, script string, out interface{}) error {
	return p.evaluate(ctx, evaluateTimeout, script, out)
}

func (p *Page) WaitForNetworkIdle(ctx context.Context) error {
	idleCtx, cancel := context.WithTimeout(ctx, p.timeout(0))
	defer cancel()
	return p.idle.wait(idleCtx, p.cfg.NetworkIdleQuiet)
}

func (p *Page) Emulate(ctx context.Context, e browser.Emulation) error {
	return p.run(ctx, inputTimeout,
		emulation.SetDeviceMetricsOverride(int64(e.Width), int64(e.Height), e.ScaleFactor, e.Mobile),
		emulation.SetTouchEmulationEnabled(e.Touch),
	)
}

func (p *Page) SetUserAgent(ctx context.Context, userAgent string) error {
	return p.run(ctx, inputTimeout, emulation.SetUserAgentOverride(userAgent))
}

func (p *Page) SetDefaultTimeout(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.defaultTimeout = d
}

// Close closes the tab and detaches from it. Closing twice is a no-op.
func (p *Page) Close(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		err = p.run(ctx, closeTimeout, cdppage.Close())
		p.cancel()
		if errors.Is(err, context.Canceled) {
			err = nil
		}
	})
	return err
}
