package workflow

import (
	"context"
	"fmt"
	"strings"

	"github.com/brianvoe/gofakeit/v7"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
	"github.com/xkilldash9x/hogflix-traffic/internal/device"
	"github.com/xkilldash9x/hogflix-traffic/internal/geo"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
)

// adultConfirmRate is the share of signups that tick the adult checkbox.
const adultConfirmRate = 0.55

func (d *Driver) requestProvision(ctx context.Context, r *run) error {
	r.geo = geo.Select(d.rng)
	r.device = device.Select(d.rng)

	pc := d.cfg.Provisioner()
	sess, err := d.provisioner.Create(ctx, provision.SessionRequest{
		Geo:       r.geo,
		Device:    r.device,
		Region:    pc.Region,
		ProxyType: pc.ProxyType,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvisioning, err)
	}
	r.session = sess
	r.logger = r.logger.With(zap.String("session_id", sess.ID))
	r.logger.Info("Provisioned browser.",
		zap.String("city", r.geo.City),
		zap.String("country", r.geo.Country),
		zap.String("browser", r.device.BrowserType()),
		zap.String("device", r.device.Name()))
	return nil
}

func (d *Driver) attach(ctx context.Context, r *run) error {
	bcfg := d.cfg.Browser()

	b, err := d.browsers.Connect(ctx, r.session.ConnectURL)
	if err != nil {
		return err
	}
	r.browser = b

	page, err := b.DefaultPage(ctx)
	if err != nil {
		return fmt.Errorf("default page: %w", err)
	}
	r.page = page
	page.SetDefaultTimeout(bcfg.DefaultTimeout)

	vp := r.device.Viewport
	if err := page.Emulate(ctx, browser.Emulation{
		Width:       vp.Width,
		Height:      vp.Height,
		ScaleFactor: r.device.ScaleFactor,
		Mobile:      r.device.IsMobile,
		Touch:       r.device.HasTouch,
	}); err != nil {
		return fmt.Errorf("apply device profile: %w", err)
	}

	if ua := r.device.UserAgent; ua != "" {
		if err := page.SetUserAgent(ctx, ua); err != nil {
			r.logger.Warn("Could not set user agent, continuing anyway.", zap.Error(err))
		}
	}

	var opts []humanoid.Option
	if d.metrics != nil {
		opts = append(opts, humanoid.WithObserver(d.metrics))
	}
	r.human = humanoid.New(humanoid.FromConfig(bcfg.Humanoid), r.logger.Named("humanoid"), page,
		gofakeit.New(d.rng.Uint64()), opts...)

	var ua string
	if err := page.Evaluate(ctx, scriptUserAgent, &ua); err != nil {
		r.logger.Debug("Could not read user agent.", zap.Error(err))
	} else {
		r.logger.Info("Attached to browser.", zap.String("user_agent", ua))
	}
	return nil
}

func (d *Driver) landing(ctx context.Context, r *run) error {
	bcfg := d.cfg.Browser()
	err := r.page.Navigate(ctx, r.landingURL, browser.NavigateOptions{
		WaitUntil: browser.WaitNetworkIdle,
		Timeout:   bcfg.LandingTimeout,
	})
	if err != nil {
		return err
	}
	if err := d.passInterstitial(ctx, r); err != nil {
		return err
	}
	return r.pause(ctx, humanoid.Medium)
}

func (d *Driver) signupForm(ctx context.Context, r *run) error {
	err := r.page.Navigate(ctx, d.route(routeSignup), browser.NavigateOptions{WaitUntil: browser.WaitNetworkIdle})
	if err != nil {
		return err
	}
	if _, err := r.page.WaitForSelector(ctx, []string{selFormControl}, browser.WaitOptions{Visible: true}); err != nil {
		return fmt.Errorf("signup form: %w", err)
	}
	if err := r.pause(ctx, humanoid.Short); err != nil {
		return err
	}

	fields := []struct{ selector, value string }{
		{selUsername, r.user.Username},
		{selEmail, r.user.Email},
		{selPassword, r.user.Password},
		{selPassword2, r.user.Password},
	}
	for i, f := range fields {
		if i > 0 {
			if err := r.pause(ctx, humanoid.Medium); err != nil {
				return err
			}
		}
		r.typeInto(ctx, f.selector, f.value)
		if err := r.page.Press(ctx, "Tab"); err != nil {
			return fmt.Errorf("press Tab after %s: %w", f.selector, err)
		}
	}

	if d.rng.Float64() < adultConfirmRate {
		if err := r.page.Press(ctx, "Tab"); err != nil {
			return fmt.Errorf("press Tab to checkbox: %w", err)
		}
		r.click(ctx, selAdultCheckbox)
	}
	return nil
}

func (d *Driver) planSelect(ctx context.Context, r *run) error {
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	var height float64
	if err := r.page.Evaluate(ctx, scriptScrollHeight, &height); err != nil {
		return fmt.Errorf("measure page: %w", err)
	}
	r.logOutcome("scroll", "window", r.human.Scroll(ctx, height))
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	r.click(ctx, planButton(r.plan.ButtonLabel()))
	r.logger.Debug("Selected plan.", zap.String("plan", r.plan.Name))
	return nil
}

func (d *Driver) submitSignup(ctx context.Context, r *run) error {
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	r.click(ctx, selSignupSubmit)
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	r.logger.Info("Signed up.", zap.String("username", r.user.Username), zap.String("password", r.user.Password))
	return nil
}

func (d *Driver) login(ctx context.Context, r *run) error {
	if err := r.page.Navigate(ctx, d.route(routeLogin), browser.NavigateOptions{WaitUntil: browser.WaitDOMContentLoaded}); err != nil {
		return err
	}
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}

	if err := r.page.Evaluate(ctx, scriptCSRFToken, &r.csrfToken); err != nil {
		r.logger.Warn("Error reading CSRF token.", zap.Error(err))
	} else if r.csrfToken == "" {
		r.logger.Warn("CSRF token not found, proceeding without it.")
	}

	r.typeInto(ctx, selUsername, r.user.Username)
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	r.typeInto(ctx, selPassword, r.user.Password)
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	r.click(ctx, selLoginSubmit)
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}

	var banner string
	if err := r.page.Evaluate(ctx, scriptLoginBanner, &banner); err != nil {
		return fmt.Errorf("read login result: %w", err)
	}
	if banner = strings.TrimSpace(banner); banner != "" {
		return &LoginError{Banner: banner}
	}
	return nil
}

func (d *Driver) contentSelect(ctx context.Context, r *run) error {
	if err := r.pause(ctx, humanoid.Medium); err != nil {
		return err
	}
	if err := r.page.Navigate(ctx, d.route(""), browser.NavigateOptions{WaitUntil: browser.WaitDOMContentLoaded}); err != nil {
		return err
	}
	if err := d.dismissSignupModal(ctx, r); err != nil {
		return err
	}

	r.click(ctx, movieTile(r.movie))
	if err := r.page.WaitForNetworkIdle(ctx); err != nil {
		return fmt.Errorf("after selecting movie %d: %w", r.movie, err)
	}
	r.logger.Debug("Watching.", zap.Int("movie", r.movie))
	return r.pause(ctx, humanoid.Long)
}

func (d *Driver) playback(ctx context.Context, r *run) error {
	if _, err := r.page.WaitForSelector(ctx, []string{selWelcome}, browser.WaitOptions{}); err != nil {
		return fmt.Errorf("welcome indicator: %w", err)
	}
	r.click(ctx, selWelcome)
	return r.pause(ctx, humanoid.Medium)
}

// logout races the logout click against the network settling.
func (d *Driver) logout(ctx context.Context, r *run) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return protect(func() error { return r.page.WaitForNetworkIdle(gctx) })
	})
	g.Go(func() error {
		return protect(func() error {
			if err := r.click(gctx, selLogout).Err(); err != nil {
				return fmt.Errorf("logout click: %w", err)
			}
			return nil
		})
	})
	if err := g.Wait(); err != nil {
		return err
	}
	r.logger.Info("Logged out.")
	return nil
}
