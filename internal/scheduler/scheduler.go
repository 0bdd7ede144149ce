package scheduler

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/smallbiznis/sitekit/internal/clock"
	obsmetrics "github.com/smallbiznis/sitekit/internal/observability/metrics"
	publishdomain "github.com/smallbiznis/sitekit/internal/publish/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var ErrInvalidConfig = errors.New("scheduler: missing dependency")

type Params struct {
	fx.In

	Log          *zap.Logger
	Clock        clock.Clock
	Orchestrator publishdomain.Orchestrator
	Config       Config `optional:"true"`
}

// Scheduler runs the background maintenance loop. Its one recurring concern
// is the stuck-build sweep: builds whose completion signal was lost get
// force-completed so tenants are not left staring at a progress bar forever.
type Scheduler struct {
	log          *zap.Logger
	cfg          Config
	clock        clock.Clock
	orchestrator publishdomain.Orchestrator
}

func New(p Params) (*Scheduler, error) {
	if p.Log == nil || p.Clock == nil || p.Orchestrator == nil {
		return nil, ErrInvalidConfig
	}
	cfg := p.Config.withDefaults()
	return &Scheduler{
		log:          p.Log.Named("scheduler").With(zap.String("component", "scheduler")),
		cfg:          cfg,
		clock:        p.Clock,
		orchestrator: p.Orchestrator,
	}, nil
}

func (s *Scheduler) runJob(
	parent context.Context,
	name string,
	timeout time.Duration,
	fn func(ctx context.Context) error,
) error {
	start := s.clock.Now()
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	log := s.log.With(zap.String("job", name))
	pubMetrics := obsmetrics.Publish()
	pubMetrics.IncJobRun(name)

	err := fn(ctx)
	pubMetrics.ObserveJobDuration(name, time.Since(start))
	if err == nil {
		return nil
	}

	// Deadline is a soft timeout: log, count, carry on next run.
	isTimeout := errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled)
	if isTimeout {
		pubMetrics.IncJobTimeout(name)
	}
	pubMetrics.IncJobError(name, err)
	if isTimeout {
		log.Warn("job timed out",
			zap.Duration("timeout", timeout),
			zap.Error(err),
		)
		return nil
	}

	log.Warn("job failed", zap.Error(err))
	return fmt.Errorf("%s: %w", name, err)
}

func (s *Scheduler) RunOnce(parent context.Context) error {
	return s.runJob(parent, "stuck_sweep", s.cfg.JobTimeout, s.StuckSweepJob)
}

// StuckSweepJob reconciles building sites that went quiet past the stuck
// threshold.
func (s *Scheduler) StuckSweepJob(ctx context.Context) error {
	recovered, err := s.orchestrator.SweepStuck(ctx)
	if err != nil {
		return err
	}
	if recovered > 0 {
		s.log.Info("stuck sweep recovered sites", zap.Int("recovered", recovered))
	}
	return nil
}

func (s *Scheduler) RunForever(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.RunInterval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil {
			s.log.Warn("scheduler run failed", zap.Error(err))
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
