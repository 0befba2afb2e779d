// File: internal/service/factory.go
package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/pwdriver"
	"github.com/xkilldash9x/hogflix-traffic/internal/browser/session"
	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/fleet"
	"github.com/xkilldash9x/hogflix-traffic/internal/ledger"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
	"github.com/xkilldash9x/hogflix-traffic/internal/workflow"
)

// Browser driver names accepted by browser.driver.
const (
	DriverChromedp   = "chromedp"
	DriverPlaywright = "playwright"
)

// ComponentFactory builds the components of a fleet run. The command depends
// on this interface so tests can substitute the whole graph.
type ComponentFactory interface {
	Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error)
}

type concreteFactory struct{}

// NewComponentFactory returns the production factory.
func NewComponentFactory() ComponentFactory {
	return &concreteFactory{}
}

// NewBrowserDriver selects the automation driver named in the config.
func NewBrowserDriver(cfg config.BrowserConfig, logger *zap.Logger) (browser.Driver, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverChromedp:
		return session.NewDriver(logger, cfg), nil
	case DriverPlaywright:
		return pwdriver.NewDriver(logger, cfg), nil
	default:
		return nil, fmt.Errorf("unknown browser driver %q", cfg.Driver)
	}
}

// Create wires the provisioning client, browser driver, workflow driver and
// fleet. Metrics serving, tracing and the ledger are attached when enabled.
func (f *concreteFactory) Create(ctx context.Context, cfg config.Interface, logger *zap.Logger) (*Components, error) {
	if err := cfg.Credentials().Validate(); err != nil {
		return nil, err
	}

	c := &Components{logger: logger, Metrics: observability.NewMetrics()}
	success := false
	defer func() {
		if !success {
			c.Shutdown()
		}
	}()

	if mc := cfg.Metrics(); mc.Enabled {
		if err := c.Metrics.Serve(mc.ListenAddr, mc.Path); err != nil {
			return nil, err
		}
		logger.Info("Serving metrics.", zap.String("addr", mc.ListenAddr), zap.String("path", mc.Path))
	}

	shutdown, err := observability.SetupTracing(ctx, cfg.Tracing(), cfg.Logger().ServiceName)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}
	c.shutdownTracing = shutdown

	c.Provisioner = provision.NewClient(cfg.Provisioner(), cfg.Credentials(), logger, provision.WithMetrics(c.Metrics))

	c.Browsers, err = NewBrowserDriver(cfg.Browser(), logger)
	if err != nil {
		return nil, err
	}

	c.Workflow = workflow.NewDriver(cfg, c.Provisioner, c.Browsers, logger, workflow.WithMetrics(c.Metrics))

	fleetOpts := []fleet.Option{fleet.WithMetrics(c.Metrics)}
	if lc := cfg.Ledger(); lc.Enabled {
		c.Ledger, err = ledger.Open(lc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open ledger: %w", err)
		}
		fleetOpts = append(fleetOpts, fleet.WithRecorder(c.Ledger))
		logger.Info("Recording outcomes.", zap.String("path", lc.Path))
	}

	c.Fleet, err = fleet.New(cfg.Fleet(), c.Workflow, logger, fleetOpts...)
	if err != nil {
		return nil, err
	}

	success = true
	return c, nil
}
