// File: internal/service/components.go
package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/browser"
	"github.com/xkilldash9x/hogflix-traffic/internal/fleet"
	"github.com/xkilldash9x/hogflix-traffic/internal/ledger"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/provision"
	"github.com/xkilldash9x/hogflix-traffic/internal/workflow"
)

const shutdownTimeout = 10 * time.Second

// Components holds everything a fleet run needs and owns its teardown.
type Components struct {
	Metrics     *observability.Metrics
	Provisioner *provision.Client
	Browsers    browser.Driver
	Workflow    *workflow.Driver
	Fleet       *fleet.Orchestrator
	Ledger      *ledger.Ledger

	shutdownTracing func(context.Context) error
	logger          *zap.Logger
}

// Shutdown flushes traces, stops the metrics endpoint and the browser driver,
// and closes the ledger.
// Errors are logged and never returned.
func (c *Components) Shutdown() {
	logger := c.logger
	if logger == nil {
		logger = observability.GetLogger()
	}

	// The run context may already be cancelled here.
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if c.shutdownTracing != nil {
		if err := c.shutdownTracing(ctx); err != nil {
			logger.Warn("Error flushing traces.", zap.Error(err))
		}
	}
	if err := c.Metrics.Shutdown(ctx); err != nil {
		logger.Warn("Error stopping metrics endpoint.", zap.Error(err))
	}
	if s, ok := c.Browsers.(browser.Stopper); ok {
		if err := s.Stop(); err != nil {
			logger.Warn("Error stopping browser driver.", zap.Error(err))
		}
	}
	if err := c.Ledger.Close(); err != nil {
		logger.Warn("Error closing ledger.", zap.Error(err))
	}
	logger.Debug("Components shut down.")
}
