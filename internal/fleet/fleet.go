// File: internal/fleet/fleet.go
// Description: Runs a randomly sized batch of simulated user sessions one after
// another and tallies how many completed.

package fleet

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xkilldash9x/hogflix-traffic/internal/config"
	"github.com/xkilldash9x/hogflix-traffic/internal/observability"
	"github.com/xkilldash9x/hogflix-traffic/internal/workflow"
)

// Runner executes one session. *workflow.Driver satisfies it.
type Runner interface {
	Run(ctx context.Context, number int) workflow.Outcome
}

// Recorder persists session outcomes. *ledger.Ledger satisfies it.
type Recorder interface {
	Record(ctx context.Context, runID string, out workflow.Outcome) error
}

// Sleeper waits between sessions. It returns early with the context error.
type Sleeper func(ctx context.Context, d time.Duration) error

// Summary is the tally of one fleet run.
type Summary struct {
	RunID     string
	Total     int
	Succeeded int
	Outcomes  []workflow.Outcome
}

func (s Summary) String() string {
	return fmt.Sprintf("%d/%d sessions succeeded", s.Succeeded, s.Total)
}

// Orchestrator runs the fleet.
type Orchestrator struct {
	cfg      config.FleetConfig
	runner   Runner
	logger   *zap.Logger
	rng      *gofakeit.Faker
	metrics  *observability.Metrics
	recorder Recorder
	sleep    Sleeper
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

func WithRand(rng *gofakeit.Faker) Option {
	return func(o *Orchestrator) { o.rng = rng }
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithRecorder stores every outcome. Recording failures are only logged.
func WithRecorder(r Recorder) Option {
	return func(o *Orchestrator) { o.recorder = r }
}

func WithSleeper(s Sleeper) Option {
	return func(o *Orchestrator) { o.sleep = s }
}

// New creates an Orchestrator.
func New(cfg config.FleetConfig, runner Runner, logger *zap.Logger, opts ...Option) (*Orchestrator, error) {
	if runner == nil || logger == nil {
		return nil, fmt.Errorf("cannot initialize fleet with nil dependencies")
	}
	if cfg.MinSessions < 1 || cfg.MaxSessions < cfg.MinSessions {
		return nil, fmt.Errorf("invalid session bounds [%d,%d]", cfg.MinSessions, cfg.MaxSessions)
	}
	if cfg.MinDelay < 0 || cfg.MaxDelay < cfg.MinDelay {
		return nil, fmt.Errorf("invalid delay bounds [%s,%s]", cfg.MinDelay, cfg.MaxDelay)
	}

	o := &Orchestrator{
		cfg:    cfg,
		runner: runner,
		logger: logger.Named("fleet"),
		sleep:  sleepContext,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.rng == nil {
		o.rng = gofakeit.New(0)
	}
	return o, nil
}

// SessionCount draws the number of sessions for a run, inclusive of both bounds.
func (o *Orchestrator) SessionCount() int {
	return o.rng.IntRange(o.cfg.MinSessions, o.cfg.MaxSessions)
}

func (o *Orchestrator) delay() time.Duration {
	lo, hi := int(o.cfg.MinDelay/time.Millisecond), int(o.cfg.MaxDelay/time.Millisecond)
	return time.Duration(o.rng.IntRange(lo, hi)) * time.Millisecond
}

// Run executes sessions 1..N strictly in sequence, pausing after each one
// regardless of its outcome. Session failures never stop the loop; a
// cancelled context does.
func (o *Orchestrator) Run(ctx context.Context) Summary {
	sum := Summary{RunID: uuid.NewString(), Total: o.SessionCount()}
	logger := o.logger.With(zap.String("run_id", sum.RunID))
	logger.Info("Starting fleet run.", zap.Int("sessions", sum.Total))

	for i := 1; i <= sum.Total; i++ {
		if ctx.Err() != nil {
			logger.Warn("Fleet run cancelled.", zap.Int("completed", len(sum.Outcomes)))
			break
		}

		out := o.runner.Run(ctx, i)
		sum.Outcomes = append(sum.Outcomes, out)
		if out.Succeeded {
			sum.Succeeded++
		}
		o.metrics.ObserveSession(out.Succeeded)

		if o.recorder != nil {
			if err := o.recorder.Record(ctx, sum.RunID, out); err != nil {
				logger.Warn("Failed to record session outcome.", zap.Int("session", i), zap.Error(err))
			}
		}

		if err := o.sleep(ctx, o.delay()); err != nil {
			logger.Warn("Fleet run cancelled.", zap.Int("completed", len(sum.Outcomes)))
			break
		}
	}

	logger.Info("Fleet run finished.", zap.Int("succeeded", sum.Succeeded), zap.Int("total", sum.Total))
	return sum
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
