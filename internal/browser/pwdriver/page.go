package pwdriver

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/playwright-community/playwright-go"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const (
	actionTimeout = 10 * time.Second
	probeTimeout  = 2 * time.Second
)

// Page adapts a playwright page. Playwright calls are not context aware, so
// each method checks ctx before issuing them.
type Page struct {
	logger  *zap.Logger
	cfg     config.BrowserConfig
	context playwright.BrowserContext
	page    playwright.Page

	mu        sync.Mutex
	timeout   time.Duration
	headers   map[string]string
	closeOnce sync.Once
}

var _ browser.Page = (*Page)(nil)

func ms(d time.Duration) *float64 {
	v := float64(d.Milliseconds())
	return &v
}

func (p *Page) defaultTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.timeout
}

func (p *Page) pick(d time.Duration) time.Duration {
	if d > 0 {
		return d
	}
	return p.defaultTimeout()
}

// -- humanoid.Executor --

func (p *Page) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *Page) MouseMove(ctx context.Context, x, y float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Mouse().Move(x, y)
}

func (p *Page) MouseDown(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Mouse().Down(playwright.MouseDownOptions{Button: playwright.MouseButtonLeft})
}

func (p *Page) MouseUp(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Mouse().Up(playwright.MouseUpOptions{Button: playwright.MouseButtonLeft})
}

func (p *Page) TypeText(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Keyboard().Type(text)
}

func (p *Page) BoundingBox(ctx context.Context, selector string) (*humanoid.Box, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	loc := p.page.Locator(selector).First()
	n, err := p.page.Locator(selector).Count()
	if err != nil {
		return nil, fmt.Errorf("bounding box for %q: %w", selector, err)
	}
	if n == 0 {
		return nil, nil
	}
	rect, err := loc.BoundingBox(playwright.LocatorBoundingBoxOptions{Timeout: ms(probeTimeout)})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return nil, nil
		}
		return nil, fmt.Errorf("bounding box for %q: %w", selector, err)
	}
	if rect == nil || rect.Width <= 0 || rect.Height <= 0 {
		return nil, nil
	}
	return &humanoid.Box{X: rect.X, Y: rect.Y, Width: rect.Width, Height: rect.Height}, nil
}

func (p *Page) Click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().Click(playwright.LocatorClickOptions{Timeout: ms(actionTimeout)})
}

func (p *Page) Fill(ctx context.Context, selector, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Locator(selector).First().Fill(value, playwright.LocatorFillOptions{Timeout: ms(actionTimeout)})
}

func (p *Page) ScrollTo(ctx context.Context, y float64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := p.page.Evaluate(`y => window.scrollTo({top: y, behavior: 'smooth'})`, y)
	return err
}

// -- browser.Page --

var waitStates = map[browser.WaitUntil]*playwright.WaitUntilState{
	browser.WaitLoad:             playwright.WaitUntilStateLoad,
	browser.WaitDOMContentLoaded: playwright.WaitUntilStateDomcontentloaded,
	browser.WaitNetworkIdle:      playwright.WaitUntilStateNetworkidle,
}

func (p *Page) Navigate(ctx context.Context, url string, opts browser.NavigateOptions) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	gotoOpts := playwright.PageGotoOptions{Timeout: ms(p.pick(opts.Timeout))}
	if state, ok := waitStates[opts.WaitUntil]; ok {
		gotoOpts.WaitUntil = state
	}
	if _, err := p.page.Goto(url, gotoOpts); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

// WaitForSelector uses a comma-joined locator so the first of any selector wins.
func (p *Page) WaitForSelector(ctx context.Context, selectors []string, opts browser.WaitOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	state := playwright.WaitForSelectorStateAttached
	if opts.Visible {
		state = playwright.WaitForSelectorStateVisible
	}
	loc := p.page.Locator(strings.Join(selectors, ", ")).First()
	err := loc.WaitFor(playwright.LocatorWaitForOptions{State: state, Timeout: ms(p.pick(opts.Timeout))})
	if err != nil {
		if errors.Is(err, playwright.ErrTimeout) {
			return "", fmt.Errorf("%w: %v", browser.ErrSelectorTimeout, selectors)
		}
		return "", err
	}
	for _, sel := range selectors {
		if n, err := p.page.Locator(sel).Count(); err == nil && n > 0 {
			return sel, nil
		}
	}
	return selectors[0], nil
}

func (p *Page) Press(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.Keyboard().Press(key)
}

func (p *Page) Evaluate(ctx context.Context, script string, out interface{}) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	v, err := p.page.Evaluate(script)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode evaluation result: %w", err)
	}
	return json.Unmarshal(b, out)
}

func (p *Page) WaitForNetworkIdle(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return p.page.WaitForLoadState(playwright.PageWaitForLoadStateOptions{
		State:   playwright.LoadStateNetworkidle,
		Timeout: ms(p.defaultTimeout()),
	})
}

// Emulate applies device metrics through a CDP session since a connected
// context's viewport cannot be reconfigured.
func (p *Page) Emulate(ctx context.Context, e browser.Emulation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	cdp, err := p.context.NewCDPSession(p.page)
	if err != nil {
		return fmt.Errorf("open CDP session: %w", err)
	}
	defer func() { _ = cdp.Detach() }()

	if _, err := cdp.Send("Emulation.setDeviceMetricsOverride", map[string]interface{}{
		"width":             e.Width,
		"height":            e.Height,
		"deviceScaleFactor": e.ScaleFactor,
		"mobile":            e.Mobile,
	}); err != nil {
		return fmt.Errorf("set device metrics: %w", err)
	}
	if _, err := cdp.Send("Emulation.setTouchEmulationEnabled", map[string]interface{}{
		"enabled": e.Touch,
	}); err != nil {
		return fmt.Errorf("set touch emulation: %w", err)
	}
	return p.page.SetViewportSize(e.Width, e.Height)
}

// SetUserAgent overrides the User-Agent request header for the page.
func (p *Page) SetUserAgent(ctx context.Context, userAgent string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	p.mu.Lock()
	p.headers["User-Agent"] = userAgent
	headers := make(map[string]string, len(p.headers))
	for k, v := range p.headers {
		headers[k] = v
	}
	p.mu.Unlock()
	return p.page.SetExtraHTTPHeaders(headers)
}

func (p *Page) SetDefaultTimeout(d time.Duration) {
	p.mu.Lock()
	p.timeout = d
	p.mu.Unlock()
	p.page.SetDefaultTimeout(float64(d.Milliseconds()))
}

func (p *Page) Close(ctx context.Context) error {
	var err error
	p.closeOnce.Do(func() {
		err = p.page.Close()
		if errors.Is(err, playwright.ErrTargetClosed) {
			err = nil
		}
	})
	return err
}
