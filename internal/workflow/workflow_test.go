package workflow

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/device"
	"github.com/xkilldash9x/hogflix-traffic/internal/mocks"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
)

const (
	testSessionID  = "sess-1"
	testConnectURL = "wss://connect.example/sess-1"
)

type harness struct {
	cfg         *config.Config
	provisioner *mocks.MockProvisioner
	drv         *fakeDriver
	page        *fakePage
	metrics     *observability.Metrics
	driver      *Driver
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	cfg := config.NewDefaultConfig()
	cfg.TargetCfg.BaseURL = "https://hogflix.example/"
	cfg.TargetCfg.ReplayURLPrefix = "https://replay.example/sessions/"

	page := newFakePage()
	h := &harness{
		cfg:         cfg,
		provisioner: mocks.NewMockProvisioner(),
		drv:         &fakeDriver{browser: &fakeBrowser{page: page}},
		page:        page,
		metrics:     observability.NewMetrics(),
	}
	h.driver = NewDriver(cfg, h.provisioner, h.drv, zaptest.NewLogger(t),
		WithRand(gofakeit.New(7)), WithMetrics(h.metrics))
	return h
}

func (h *harness) expectProvision() {
	h.provisioner.On("Create", mock.Anything, mock.AnythingOfType("provision.SessionRequest")).
		Return(&provision.Session{ID: testSessionID, ConnectURL: testConnectURL, Status: provision.StatusRunning}, nil)
	h.provisioner.On("Update", mock.Anything, testSessionID, provision.SessionUpdate{Status: provision.StatusReleased}).
		Return(nil)
}

func TestRun_Success(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()

	out := h.driver.Run(context.Background(), 1)

	require.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
	assert.Equal(t, StateDone, out.State)
	assert.Empty(t, out.FailedAt)
	assert.NoError(t, out.Err)
	assert.Equal(t, testSessionID, out.SessionID)
	assert.NotEmpty(t, out.Device)
	assert.NotEmpty(t, out.City)

	assert.Equal(t, []string{testConnectURL}, h.drv.endpoints)
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
	assert.Equal(t, 1, h.page.closed)
	assert.Equal(t, 1, h.drv.browser.closed)

	require.Len(t, h.page.navigations, 4)
	assert.True(t, strings.HasPrefix(h.page.navigations[0], "https://hogflix.example/?"))
	assert.Equal(t, "https://hogflix.example/signup", h.page.navigations[1])
	assert.Equal(t, "https://hogflix.example/login", h.page.navigations[2])
	assert.Equal(t, "https://hogflix.example/", h.page.navigations[3])

	// The interstitial was present and confirmed with a direct click.
	assert.True(t, h.page.clicked(interstitialSelectors[0]))
	assert.False(t, h.page.didEvaluate(scriptRemoveModal))
}

func TestRun_Report(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()

	out := h.driver.Run(context.Background(), 3)
	require.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
	require.NotNil(t, out.Report)

	rep := out.Report
	assert.Equal(t, "https://replay.example/sessions/"+testSessionID, rep.ReplayURL)
	assert.Contains(t, []string{"desktop", "tablet", "mobile"}, rep.Device)
	assert.Regexp(t, `^\d+x\d+$`, rep.Screen)
	assert.Contains(t, []string{"chromium", "webkit", "firefox"}, rep.Browser)
	assert.Len(t, rep.Password, 9)

	u, err := url.Parse(rep.URL)
	require.NoError(t, err)
	assert.Equal(t, "hogflix.example", u.Host)
	assert.NotEmpty(t, u.Query().Get("utm_source"))
	assert.NotEmpty(t, u.Query().Get("utm_medium"))
	assert.NotEmpty(t, u.Query().Get("utm_campaign"))

	// Signup typed the same credentials the report carries.
	typed := strings.Join(h.page.typed, "")
	assert.Contains(t, typed, rep.Username)
	assert.Contains(t, typed, rep.Password)

	for _, line := range []string{"- Replay: ", "- Username: ", "- Password: ", "- Browser: ", "- Screen: ", "- Device: ", "- URL: "} {
		assert.Contains(t, rep.String(), line)
	}
}

func TestReport_DeviceIsCategory(t *testing.T) {
	h := newHarness(t)
	r := h.driver.newRun(1)
	r.session = &provision.Session{ID: testSessionID}
	r.device = device.Profile{
		Category: device.Mobile,
		Variant:  device.IPhone,
		Viewport: device.Viewport{Width: 390, Height: 844},
	}

	rep := r.report("https://replay.example/sessions/")

	assert.Equal(t, "mobile", rep.Device)
	assert.Equal(t, "390x844", rep.Screen)
	assert.Contains(t, rep.String(), "- Device: mobile\n")
}

func TestRun_LoginRejected(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()
	h.page.evalResults[scriptLoginBanner] = "Invalid credentials"

	out := h.driver.Run(context.Background(), 1)

	assert.False(t, out.Succeeded)
	assert.Equal(t, StateFailed, out.State)
	assert.Equal(t, StateLogin, out.FailedAt)
	assert.Nil(t, out.Report)

	var loginErr *LoginError
	require.ErrorAs(t, out.Err, &loginErr)
	assert.Equal(t, "Invalid credentials", loginErr.Banner)

	var stageErr *StageError
	require.ErrorAs(t, out.Err, &stageErr)
	assert.Equal(t, StateLogin, stageErr.State)

	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
	assert.Equal(t, 1, h.page.closed)
}

func TestRun_ProvisioningFailure(t *testing.T) {
	h := newHarness(t)
	h.provisioner.On("Create", mock.Anything, mock.Anything).Return(nil, errFake)

	out := h.driver.Run(context.Background(), 1)

	assert.False(t, out.Succeeded)
	assert.Equal(t, StateRequestProvision, out.FailedAt)
	assert.ErrorIs(t, out.Err, ErrProvisioning)
	assert.ErrorIs(t, out.Err, errFake)
	assert.Empty(t, out.SessionID)
	assert.Empty(t, h.drv.endpoints)
	h.provisioner.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
}

func TestRun_ReleasedOnEarlyFailures(t *testing.T) {
	t.Run("connect", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.drv.connectErr = errFake

		out := h.driver.Run(context.Background(), 1)

		assert.Equal(t, StateBrowserAttach, out.FailedAt)
		assert.ErrorIs(t, out.Err, errFake)
		assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
		assert.Zero(t, h.page.closed)
	})

	t.Run("device emulation", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.emulateErr = errFake

		out := h.driver.Run(context.Background(), 1)

		assert.Equal(t, StateBrowserAttach, out.FailedAt)
		assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
		assert.Equal(t, 1, h.page.closed)
		assert.Equal(t, 1, h.drv.browser.closed)
	})

	t.Run("landing navigation", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.navErr = errFake

		out := h.driver.Run(context.Background(), 1)

		assert.Equal(t, StateLanding, out.FailedAt)
		assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
	})
}

func TestRun_ReleaseSurvivesCancellation(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	out := h.driver.Run(ctx, 1)

	assert.False(t, out.Succeeded)
	assert.ErrorIs(t, out.Err, context.Canceled)
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
}

func TestRun_RecoversFromPanic(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()
	h.page.panicOn = selEmail

	var out Outcome
	require.NotPanics(t, func() {
		out = h.driver.Run(context.Background(), 1)
	})

	assert.False(t, out.Succeeded)
	assert.Equal(t, StateSignupForm, out.FailedAt)
	assert.ErrorContains(t, out.Err, "panic: boom at #email")
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
	assert.Equal(t, uint64(1), stageSamples(t, h.metrics, StateSignupForm, "failure"))
	assert.Zero(t, stageSamples(t, h.metrics, StateSignupForm, "success"))
}

func TestRun_RecoversFromLogoutPanic(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()
	h.page.panicOn = selLogout

	var out Outcome
	require.NotPanics(t, func() {
		out = h.driver.Run(context.Background(), 1)
	})

	assert.False(t, out.Succeeded)
	assert.Equal(t, StateLogout, out.FailedAt)
	assert.ErrorContains(t, out.Err, "panic: boom at "+selLogout)
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
}

func TestRun_ReleasedWhenPageClosePanics(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()
	h.page.closePanics = true

	var out Outcome
	require.NotPanics(t, func() {
		out = h.driver.Run(context.Background(), 1)
	})

	assert.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
	assert.Equal(t, 1, h.page.closed)
	assert.Equal(t, 1, h.drv.browser.closed)
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
}

// stageSamples counts stage_duration_seconds observations for one stage and result.
func stageSamples(t *testing.T, m *observability.Metrics, state State, result string) uint64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != "hogflix_traffic_stage_duration_seconds" {
			continue
		}
		for _, metric := range f.GetMetric() {
			labels := map[string]string{}
			for _, l := range metric.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			if labels["stage"] == state.String() && labels["result"] == result {
				return metric.GetHistogram().GetSampleCount()
			}
		}
	}
	return 0
}

func TestRun_Interstitial(t *testing.T) {
	t.Run("absent is the normal path", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		for _, sel := range interstitialSelectors {
			h.page.missing[sel] = true
		}

		out := h.driver.Run(context.Background(), 1)

		require.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
		for _, sel := range interstitialSelectors {
			assert.False(t, h.page.clicked(sel))
		}
	})

	t.Run("click failure is tolerated", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.clickErrs[interstitialSelectors[0]] = errFake

		out := h.driver.Run(context.Background(), 1)
		assert.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
	})
}

func TestRun_SignupModal(t *testing.T) {
	t.Run("closed with its button", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.evalResults[scriptModalVisible] = true

		out := h.driver.Run(context.Background(), 1)

		require.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
		assert.True(t, h.page.clicked(selCloseModal))
		assert.False(t, h.page.didEvaluate(scriptRemoveModal))
	})

	t.Run("removed when the button is missing", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.evalResults[scriptModalVisible] = true
		h.page.clickErrs[selCloseModal] = errFake

		out := h.driver.Run(context.Background(), 1)

		require.True(t, out.Succeeded, "unexpected failure: %v", out.Err)
		assert.True(t, h.page.didEvaluate(scriptRemoveModal))
	})

	t.Run("removal failure fails the stage", func(t *testing.T) {
		h := newHarness(t)
		h.expectProvision()
		h.page.evalResults[scriptModalVisible] = true
		h.page.clickErrs[selCloseModal] = errFake
		h.page.evalErrs[scriptRemoveModal] = errFake

		out := h.driver.Run(context.Background(), 1)

		assert.Equal(t, StateContentSelect, out.FailedAt)
		assert.ErrorIs(t, out.Err, errFake)
		assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
	})
}

func TestRun_LogoutClickFailure(t *testing.T) {
	h := newHarness(t)
	h.expectProvision()
	// Neither the simulated nor the direct click works.
	h.page.boxErrs[selLogout] = errFake
	h.page.clickErrs[selLogout] = errFake

	out := h.driver.Run(context.Background(), 1)

	assert.False(t, out.Succeeded)
	assert.Equal(t, StateLogout, out.FailedAt)
	assert.Equal(t, 1, h.provisioner.ReleaseCount(testSessionID))
}

func newStageRun(t *testing.T, h *harness) *run {
	t.Helper()
	r := h.driver.newRun(1)
	r.page = h.page
	r.human = humanoid.NewTestHumanoid(h.page, 11)
	return r
}

func TestLogin_CSRFTokenIsInformational(t *testing.T) {
	t.Run("kept when present", func(t *testing.T) {
		h := newHarness(t)
		r := newStageRun(t, h)

		require.NoError(t, h.driver.login(context.Background(), r))
		assert.Equal(t, "tok-123", r.csrfToken)
	})

	t.Run("missing does not block login", func(t *testing.T) {
		h := newHarness(t)
		h.page.evalResults[scriptCSRFToken] = ""
		r := newStageRun(t, h)

		require.NoError(t, h.driver.login(context.Background(), r))
		assert.Empty(t, r.csrfToken)
	})

	t.Run("lookup error does not block login", func(t *testing.T) {
		h := newHarness(t)
		h.page.evalErrs[scriptCSRFToken] = errFake
		r := newStageRun(t, h)

		require.NoError(t, h.driver.login(context.Background(), r))
	})
}

func TestSignupForm_FillsEveryField(t *testing.T) {
	h := newHarness(t)
	r := newStageRun(t, h)

	require.NoError(t, h.driver.signupForm(context.Background(), r))

	want := r.user.Username + r.user.Email + r.user.Password + r.user.Password
	assert.Equal(t, want, strings.Join(h.page.typed, ""))
	assert.GreaterOrEqual(t, len(h.page.keys), 4)
	for _, k := range h.page.keys {
		assert.Equal(t, "Tab", k)
	}
}

func TestSignupForm_MissingFormFails(t *testing.T) {
	h := newHarness(t)
	h.page.missing[selFormControl] = true
	r := newStageRun(t, h)

	err := h.driver.signupForm(context.Background(), r)
	assert.ErrorContains(t, err, "signup form")
}

func TestNewRun_LandingURL(t *testing.T) {
	h := newHarness(t)
	for i := 0; i < 50; i++ {
		r := h.driver.newRun(i)
		u, err := url.Parse(r.landingURL)
		require.NoError(t, err)
		q := u.Query()
		assert.Equal(t, r.utm.Source, q.Get("utm_source"))
		assert.Equal(t, r.utm.Term != "", q.Has("utm_term"))
		assert.GreaterOrEqual(t, r.movie, 1)
		assert.LessOrEqual(t, r.movie, 3)
	}
}

func TestState_Terminal(t *testing.T) {
	assert.True(t, StateDone.Terminal())
	assert.True(t, StateFailed.Terminal())
	assert.False(t, StateCleanup.Terminal())
	assert.False(t, StateLogin.Terminal())
}

func TestErrors(t *testing.T) {
	err := &StageError{State: StateLogin, Err: &LoginError{Banner: "Invalid credentials"}}
	assert.Equal(t, "LOGIN: login failed: Invalid credentials", err.Error())
	assert.True(t, errors.As(err, new(*LoginError)))
}
