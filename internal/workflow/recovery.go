package workflow

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/humanoid"
)

// passInterstitial confirms the tunnel warning page when it is shown. Its
// absence is the normal path; only cancellation is an error.
func (d *Driver) passInterstitial(ctx context.Context, r *run) error {
	matched, err := r.page.WaitForSelector(ctx, interstitialSelectors, browser.WaitOptions{
		Timeout: d.cfg.Browser().InterstitialTimeout,
	})
	if err != nil {
		if isAbort(ctx, err) {
			return err
		}
		r.logger.Debug("No interstitial found, proceeding with normal flow.")
		return nil
	}

	r.logger.Info("Interstitial detected, continuing.", zap.String("selector", matched))
	if err := r.page.Click(ctx, matched); err != nil {
		r.logger.Warn("Could not click interstitial control.", zap.Error(err))
		return nil
	}
	if err := r.page.WaitForNetworkIdle(ctx); err != nil {
		if isAbort(ctx, err) {
			return err
		}
		r.logger.Warn("Network did not settle after interstitial.", zap.Error(err))
	}
	return nil
}

// dismissSignupModal closes the signup modal if it is showing, removing it
// from the DOM when its close control is missing. It is a no-op otherwise.
func (d *Driver) dismissSignupModal(ctx context.Context, r *run) error {
	var visible bool
	if err := r.page.Evaluate(ctx, scriptModalVisible, &visible); err != nil {
		return fmt.Errorf("detect signup modal: %w", err)
	}
	if !visible {
		return nil
	}

	r.logger.Info("Modal detected, attempting to close.")
	err := r.page.Click(ctx, selCloseModal)
	if err == nil {
		return r.pause(ctx, humanoid.Short)
	}
	r.logger.Info("Could not find close button, removing modal programmatically.", zap.Error(err))
	if err := r.page.Evaluate(ctx, scriptRemoveModal, nil); err != nil {
		return fmt.Errorf("remove signup modal: %w", err)
	}
	return nil
}
