// internal/browser/driver.go
package browser

import (
	"context"
	"errors"
	"time"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
)

// WaitUntil names the load event a navigation waits for.
type WaitUntil string

const (
	WaitLoad             WaitUntil = "load"
	WaitDOMContentLoaded WaitUntil = "domcontentloaded"
	WaitNetworkIdle      WaitUntil = "networkidle"
)

// NavigateOptions controls a single navigation. A zero Timeout uses the page default.
type NavigateOptions struct {
	WaitUntil WaitUntil
	Timeout   time.Duration
}

// WaitOptions controls WaitForSelector. A zero Timeout uses the page default.
type WaitOptions struct {
	// Visible requires a rendered, non-hidden element rather than mere presence.
	Visible bool
	Timeout time.Duration
}

// Emulation describes the device metrics applied to a page.
type Emulation struct {
	Width       int
	Height      int
	ScaleFactor float64
	Mobile      bool
	Touch       bool
}

var (
	// ErrNoPage is returned when a connected browser exposes no page target.
	ErrNoPage = errors.New("browser has no open page")
	// ErrSelectorTimeout is returned when none of the awaited selectors matched in time.
	ErrSelectorTimeout = errors.New("timed out waiting for selector")
	ErrDriverStopped   = errors.New("browser driver stopped")
)

// Page is one automated tab. It embeds the low-level inputs used by the
// human interaction primitives. Selectors accept the dialect parsed by
// ParseSelector.
type Page interface {
	humanoid.Executor

	Navigate(ctx context.Context, url string, opts NavigateOptions) error
	// WaitForSelector blocks until any of the selectors matches and returns
	// the one that did.
	WaitForSelector(ctx context.Context, selectors []string, opts WaitOptions) (string, error)
	// Press dispatches a named key such as "Tab" or "Enter".
	Press(ctx context.Context, key string) error
	// Evaluate runs a script expression and decodes its JSON result into out,
	// which may be nil.
	Evaluate(ctx context.Context, script string, out interface{}) error
	WaitForNetworkIdle(ctx context.Context) error
	Emulate(ctx context.Context, e Emulation) error
	SetUserAgent(ctx context.Context, userAgent string) error
	SetDefaultTimeout(d time.Duration)
	Close(ctx context.Context) error
}

// Browser is a connection to a remote browser.
type Browser interface {
	// DefaultPage returns the page the browser was provisioned with. It never
	// opens a new one.
	DefaultPage(ctx context.Context) (Page, error)
	Close(ctx context.Context) error
}

// Driver attaches to remote browsers over the Chrome DevTools Protocol.
type Driver interface {
	Connect(ctx context.Context, endpoint string) (Browser, error)
}

// Stopper is implemented by drivers that keep a local process alive across
// connections.
type Stopper interface {
	Stop() error
}
