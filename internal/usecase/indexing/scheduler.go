package indexing

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Scheduler runs Reindex on a cron schedule. Overlapping runs are skipped.
type Scheduler struct {
	cron   *cron.Cron
	svc    *Service
	spec   string
	logger *zap.Logger
}

// NewScheduler creates a scheduler for spec, e.g. "@every 15m" or "0 */6 * * *".
func NewScheduler(svc *Service, spec string, logger *zap.Logger) *Scheduler {
	cl := cronLogger{logger.Sugar()}
	return &Scheduler{
		cron:   cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		svc:    svc,
		spec:   spec,
		logger: logger,
	}
}

// Start registers the sync job and starts the scheduler. The first run fires on the
// first tick; use Reindex directly for an immediate sync.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.run(ctx) }); err != nil {
		return fmt.Errorf("schedule reindex %q: %w", s.spec, err)
	}
	s.cron.Start()
	s.logger.Info("Index sync scheduled", zap.String("spec", s.spec))
	return nil
}

// Stop stops the scheduler and returns a context done when a running job completes.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	reports, err := s.svc.Reindex(ctx, nil, false)
	if err != nil {
		s.logger.Warn("Scheduled reindex finished with errors", zap.Error(err))
		return
	}
	total := 0
	for _, r := range reports {
		total += r.Indexed
	}
	s.logger.Info("Scheduled reindex finished", zap.Int("documents", total))
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
