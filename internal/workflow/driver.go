package workflow

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
)

const (
	tracerName     = "github.com/xkilldash9x/hogflix-traffic/internal/workflow"
	releaseTimeout = 30 * time.Second
)

// Provisioner leases and releases remote browsers.
type Provisioner interface {
	Create(ctx context.Context, req provision.SessionRequest) (*provision.Session, error)
	Update(ctx context.Context, id string, update provision.SessionUpdate) error
}

// Outcome is the result of one session. Only Succeeded matters to the fleet;
// the rest is for logs, the ledger and tests.
type Outcome struct {
	Number    int
	Succeeded bool
	// State is DONE or FAILED. FailedAt names the state that failed.
	State     State
	FailedAt  State
	Err       error
	SessionID string
	Device    string
	City      string
	Duration  time.Duration
	Report    *Report
}

// Driver runs sessions.
type Driver struct {
	cfg         config.Interface
	logger      *zap.Logger
	provisioner Provisioner
	browsers    browser.Driver
	rng         *gofakeit.Faker
	metrics     *observability.Metrics
	tracer      trace.Tracer
}

// Option customizes a Driver.
type Option func(*Driver)

// WithRand sets the random source. Tests pass a seeded one.
func WithRand(rng *gofakeit.Faker) Option {
	return func(d *Driver) { d.rng = rng }
}

// WithMetrics records stage durations and primitive outcomes.
func WithMetrics(m *observability.Metrics) Option {
	return func(d *Driver) { d.metrics = m }
}

// NewDriver creates a workflow driver.
func NewDriver(cfg config.Interface, provisioner Provisioner, browsers browser.Driver, logger *zap.Logger, opts ...Option) *Driver {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Driver{
		cfg:         cfg,
		logger:      logger.Named("workflow"),
		provisioner: provisioner,
		browsers:    browsers,
		tracer:      otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(d)
	}
	if d.rng == nil {
		d.rng = gofakeit.New(0)
	}
	return d
}

type stage struct {
	state State
	run   func(ctx context.Context, r *run) error
}

func (d *Driver) stages() []stage {
	return []stage{
		{StateRequestProvision, d.requestProvision},
		{StateBrowserAttach, d.attach},
		{StateLanding, d.landing},
		{StateSignupForm, d.signupForm},
		{StatePlanSelect, d.planSelect},
		{StateSubmitSignup, d.submitSignup},
		{StateLogin, d.login},
		{StateContentSelect, d.contentSelect},
		{StatePlayback, d.playback},
		{StateLogout, d.logout},
	}
}

// Run executes one session from provisioning to release. It never panics and
// never returns an error; failures are reported in the Outcome. The
// provisioned browser is released on every path once an id exists.
func (d *Driver) Run(ctx context.Context, number int) (out Outcome) {
	start := time.Now()
	r := d.newRun(number)
	out = Outcome{Number: number}

	ctx, span := d.tracer.Start(ctx, "session", trace.WithAttributes(attribute.Int("session.number", number)))
	defer span.End()

	// Registered first so it runs after panic recovery below.
	defer func() {
		d.cleanup(ctx, r, out.Succeeded)

		out.Duration = time.Since(start)
		if r.session != nil {
			out.SessionID = r.session.ID
		}
		out.Device = r.device.Name()
		out.City = r.geo.City
		if out.Succeeded {
			out.State = StateDone
			rep := r.report(d.cfg.Target().ReplayURLPrefix)
			out.Report = &rep
			r.logger.Info("Session complete.", reportField(rep))
			return
		}
		out.State = StateFailed
		span.SetStatus(codes.Error, out.Err.Error())
		r.logger.Error("Session failed.", zap.Stringer("state", out.FailedAt), zap.Error(out.Err))
	}()

	defer func() {
		if p := recover(); p != nil {
			out.Succeeded = false
			out.Err = &StageError{State: out.FailedAt, Err: fmt.Errorf("panic: %v", p)}
		}
	}()

	r.logger.Info("Starting session.")
	for _, s := range d.stages() {
		out.FailedAt = s.state
		if err := d.runStage(ctx, r, s); err != nil {
			out.Err = &StageError{State: s.state, Err: err}
			return out
		}
	}
	out.FailedAt = ""
	out.Succeeded = true
	return out
}

func (d *Driver) runStage(ctx context.Context, r *run, s stage) (err error) {
	ctx, span := d.tracer.Start(ctx, s.state.String())
	defer span.End()

	start := time.Now()
	r.state = s.state
	r.logger.Debug("Entering state.", zap.Stringer("state", s.state))

	defer func() {
		d.metrics.ObserveStage(s.state.String(), time.Since(start), err)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
	}()
	return protect(func() error { return s.run(ctx, r) })
}

// protect runs fn and turns a panic into an error.
func protect(fn func() error) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("panic: %v", p)
		}
	}()
	return fn()
}

// cleanup pauses (on success only), closes the page and the browser, then
// releases the session exactly once. Every failure here is a warning.
func (d *Driver) cleanup(ctx context.Context, r *run, succeeded bool) {
	if r.session == nil {
		return
	}
	r.state = StateCleanup
	start := time.Now()

	// Release even when the run was cancelled.
	cctx := context.WithoutCancel(ctx)
	defer d.release(cctx, r, start)

	if succeeded && r.human != nil {
		if err := protect(func() error { return r.human.Pause(ctx, humanoid.Long) }); err != nil {
			r.logger.Warn("Final pause interrupted.", zap.Error(err))
		}
	}
	if r.page != nil {
		if err := protect(func() error { return r.page.Close(cctx) }); err != nil {
			r.logger.Warn("Failed to close page.", zap.Error(err))
		}
	}
	if r.browser != nil {
		if err := protect(func() error { return r.browser.Close(cctx) }); err != nil {
			r.logger.Warn("Failed to close browser connection.", zap.Error(err))
		}
	}
}

func (d *Driver) release(ctx context.Context, r *run, start time.Time) {
	r.releaseOnce.Do(func() {
		rctx, cancel := context.WithTimeout(ctx, releaseTimeout)
		defer cancel()
		err := protect(func() error {
			return d.provisioner.Update(rctx, r.session.ID, provision.SessionUpdate{Status: provision.StatusReleased})
		})
		if err != nil {
			r.logger.Warn("Failed to release session.", zap.String("session_id", r.session.ID), zap.Error(err))
		}
		d.metrics.ObserveStage(StateCleanup.String(), time.Since(start), err)
	})
}

// route joins a path onto the target base URL.
func (d *Driver) route(path string) string {
	return strings.TrimRight(d.cfg.Target().BaseURL, "/") + "/" + path
}

// landingURL is the base URL with UTM parameters, utm_term included when set.
func (d *Driver) landingURL(values url.Values) string {
	return d.route("") + "?" + values.Encode()
}

// isAbort reports whether err comes from the run being cancelled rather than
// from the page.
func isAbort(ctx context.Context, err error) bool {
	return ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded))
}
