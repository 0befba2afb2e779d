package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
)

// fakePage behaves like a target where every control exists. Scripts are
// answered from evalResults by script constant.
type fakePage struct {
	mu sync.Mutex

	navigations []string
	clicks      []string
	fills       map[string]string
	typed       []string
	keys        []string
	evaluated   []string
	closed      int

	missing     map[string]bool
	evalResults map[string]interface{}
	evalErrs    map[string]error
	clickErrs   map[string]error
	boxErrs     map[string]error
	navErr      error
	emulateErr  error
	panicOn     string
	closePanics bool
}

func newFakePage() *fakePage {
	return &fakePage{
		fills:   map[string]string{},
		missing: map[string]bool{},
		evalResults: map[string]interface{}{
			scriptUserAgent:    "Mozilla/5.0 (fake)",
			scriptScrollHeight: 2400,
			scriptCSRFToken:    "tok-123",
			scriptLoginBanner:  "",
			scriptModalVisible: false,
			scriptRemoveModal:  true,
		},
		evalErrs:  map[string]error{},
		clickErrs: map[string]error{},
		boxErrs:   map[string]error{},
	}
}

func (p *fakePage) record(dst *[]string, v string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	*dst = append(*dst, v)
}

func (p *fakePage) Sleep(ctx context.Context, _ time.Duration) error { return ctx.Err() }

func (p *fakePage) MouseMove(context.Context, float64, float64) error { return nil }
func (p *fakePage) MouseDown(context.Context) error                   { return nil }
func (p *fakePage) MouseUp(context.Context) error                     { return nil }

func (p *fakePage) TypeText(_ context.Context, text string) error {
	p.record(&p.typed, text)
	return nil
}

func (p *fakePage) BoundingBox(_ context.Context, selector string) (*humanoid.Box, error) {
	if p.panicOn == selector {
		panic("boom at " + selector)
	}
	if err := p.boxErrs[selector]; err != nil {
		return nil, err
	}
	if p.missing[selector] {
		return nil, nil
	}
	return &humanoid.Box{X: 100, Y: 100, Width: 80, Height: 30}, nil
}

func (p *fakePage) Click(_ context.Context, selector string) error {
	if err := p.clickErrs[selector]; err != nil {
		return err
	}
	p.record(&p.clicks, selector)
	return nil
}

func (p *fakePage) Fill(_ context.Context, selector, value string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.fills[selector] = value
	return nil
}

func (p *fakePage) ScrollTo(context.Context, float64) error { return nil }

func (p *fakePage) Navigate(_ context.Context, url string, _ browser.NavigateOptions) error {
	if p.navErr != nil {
		return p.navErr
	}
	p.record(&p.navigations, url)
	return nil
}

func (p *fakePage) WaitForSelector(ctx context.Context, selectors []string, _ browser.WaitOptions) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	for _, s := range selectors {
		if !p.missing[s] {
			return s, nil
		}
	}
	return "", browser.ErrSelectorTimeout
}

func (p *fakePage) Press(_ context.Context, key string) error {
	p.record(&p.keys, key)
	return nil
}

func (p *fakePage) Evaluate(_ context.Context, script string, out interface{}) error {
	p.record(&p.evaluated, script)
	if err := p.evalErrs[script]; err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	v, ok := p.evalResults[script]
	if !ok {
		return fmt.Errorf("unexpected script %q", script)
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func (p *fakePage) WaitForNetworkIdle(ctx context.Context) error { return ctx.Err() }

func (p *fakePage) Emulate(context.Context, browser.Emulation) error { return p.emulateErr }

func (p *fakePage) SetUserAgent(context.Context, string) error { return nil }

func (p *fakePage) SetDefaultTimeout(time.Duration) {}

func (p *fakePage) Close(context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed++
	if p.closePanics {
		panic("page close")
	}
	return nil
}

func (p *fakePage) clicked(selector string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, c := range p.clicks {
		if c == selector {
			return true
		}
	}
	return false
}

func (p *fakePage) didEvaluate(script string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, s := range p.evaluated {
		if s == script {
			return true
		}
	}
	return false
}

type fakeBrowser struct {
	page   *fakePage
	closed int
}

func (b *fakeBrowser) DefaultPage(context.Context) (browser.Page, error) {
	if b.page == nil {
		return nil, browser.ErrNoPage
	}
	return b.page, nil
}

func (b *fakeBrowser) Close(context.Context) error {
	b.closed++
	return nil
}

type fakeDriver struct {
	browser    *fakeBrowser
	connectErr error
	endpoints  []string
}

func (d *fakeDriver) Connect(_ context.Context, endpoint string) (browser.Browser, error) {
	d.endpoints = append(d.endpoints, endpoint)
	if d.connectErr != nil {
		return nil, d.connectErr
	}
	return d.browser, nil
}

var (
	json    = jsoniter.ConfigCompatibleWithStandardLibrary
	errFake = errors.New("fake failure")
)
