package workflow

import (
	"context"
	"sync"

	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/device"
	"github.com/xkilldash9x/hogflix-traffic/internal/geo"
	"github.com/xkilldash9x/hogflix-traffic/internal/identity"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
)

// run is the mutable state of one session.
type run struct {
	number int
	logger *zap.Logger
	state  State

	user       identity.User
	utm        identity.UTM
	plan       identity.Plan
	movie      int
	geo        geo.Location
	device     device.Profile
	landingURL string

	session *provision.Session
	browser browser.Browser
	page    browser.Page
	human   *humanoid.Humanoid
	ptr     humanoid.PointerState

	// csrfToken is extracted for observability only and never gates login.
	csrfToken string

	releaseOnce sync.Once
}

func (d *Driver) newRun(number int) *run {
	gen := identity.NewGenerator(d.rng)
	r := &run{
		number: number,
		logger: d.logger.With(zap.Int("session", number)),
		state:  StateRequestProvision,
		user:   gen.User(),
		utm:    gen.UTM(),
		plan:   gen.Plan(),
		movie:  gen.MovieNumber(),
	}
	r.landingURL = d.landingURL(r.utm.Values())
	return r
}

// click performs a simulated click. Primitive outcomes never fail a stage
// on their own.
func (r *run) click(ctx context.Context, selector string) humanoid.Outcome {
	var out humanoid.Outcome
	r.ptr, out = r.human.Click(ctx, r.ptr, selector)
	r.logOutcome("click", selector, out)
	return out
}

func (r *run) typeInto(ctx context.Context, selector, text string) humanoid.Outcome {
	var out humanoid.Outcome
	r.ptr, out = r.human.Type(ctx, r.ptr, selector, text)
	r.logOutcome("type", selector, out)
	return out
}

func (r *run) logOutcome(primitive, selector string, out humanoid.Outcome) {
	switch out.Status {
	case humanoid.StatusDegraded:
		r.logger.Warn("Interaction degraded.", zap.String("primitive", primitive), zap.String("selector", selector), zap.String("reason", out.Reason))
	case humanoid.StatusFailed:
		r.logger.Error("Interaction failed.", zap.String("primitive", primitive), zap.String("selector", selector), zap.String("reason", out.Reason))
	}
}

func (r *run) pause(ctx context.Context, band humanoid.Band) error {
	return r.human.Pause(ctx, band)
}
