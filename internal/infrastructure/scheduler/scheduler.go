package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/config"
	"github.com/dennisr7/ZontaNaplesWebsite-sub000/internal/usecase"
)

const jobTimeout = 5 * time.Minute

// Jobs bundles the services the background schedules drive.
type Jobs struct {
	Lifecycle *usecase.LifecycleService
	Reminders *usecase.ReminderService
	Reconcile *usecase.ReconcileService
}

// Scheduler runs the expiry sweep, retention purge, renewal reminder
// sweep, and webhook replay on their configured cron schedules.
type Scheduler struct {
	cron   *cron.Cron
	logger *zap.Logger
}

// New creates a scheduler with all payment jobs registered.
func New(cfg config.PaymentsConfig, jobs Jobs, logger *zap.Logger) (*Scheduler, error) {
	c := cron.New()

	register := func(name, spec string, run func(ctx context.Context)) error {
		_, err := c.AddFunc(spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()
			run(ctx)
		})
		if err != nil {
			logger.Error("Failed to register scheduled job",
				zap.String("job", name),
				zap.String("schedule", spec),
				zap.Error(err))
		}
		return err
	}

	if err := register("expiry_sweep", cfg.ExpirySchedule, func(ctx context.Context) {
		result, err := jobs.Lifecycle.Sweep(ctx)
		if err != nil {
			logger.Error("Expiry sweep failed", zap.Error(err))
			return
		}
		logger.Info("Expiry sweep completed",
			zap.Int64("expired", result.Expired),
			zap.Int64("purged", result.Purged))
	}); err != nil {
		return nil, err
	}

	if err := register("renewal_reminders", cfg.ReminderSchedule, func(ctx context.Context) {
		result, err := jobs.Reminders.Run(ctx)
		if err != nil {
			logger.Error("Renewal reminder sweep failed", zap.Error(err))
			return
		}
		logger.Info("Renewal reminder sweep completed",
			zap.Int("due", result.Due),
			zap.Int("sent", result.Sent),
			zap.Int("failed", len(result.Failures)))
	}); err != nil {
		return nil, err
	}

	if err := register("webhook_replay", cfg.RetrySchedule, func(ctx context.Context) {
		retried, err := jobs.Reconcile.RetryFailed(ctx)
		if err != nil {
			logger.Error("Webhook replay failed", zap.Error(err))
			return
		}
		if retried > 0 {
			logger.Info("Webhook replay completed", zap.Int("retried", retried))
		}
	}); err != nil {
		return nil, err
	}

	return &Scheduler{cron: c, logger: logger}, nil
}

// Start begins running jobs on their schedules.
func (s *Scheduler) Start() {
	s.logger.Info("Starting background scheduler")
	s.cron.Start()
}

// Stop halts scheduling and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	ctx := s.cron.Stop()
	<-ctx.Done()
}
