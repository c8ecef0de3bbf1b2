package cron

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"monerispay/internal/config"
	"monerispay/internal/repository"
)

// Scheduler manages the background housekeeping jobs.
type Scheduler struct {
	cron   *cron.Cron
	cfg    *config.Config
	orders *repository.OrderRepository
	logger *zap.Logger
}

// New creates a new cron scheduler.
func New(cfg *config.Config, orders *repository.OrderRepository, logger *zap.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(cron.WithSeconds()),
		cfg:    cfg,
		orders: orders,
		logger: logger,
	}
}

// Start registers and starts all cron jobs.
func (s *Scheduler) Start() {
	s.logger.Info("Starting cron scheduler...")

	// Expire stale pending orders - every hour
	s.cron.AddFunc("0 0 * * * *", func() {
		s.logger.Debug("Running: expire stale pending orders")
		s.expireStalePending()
	})

	s.cron.Start()
}

// Stop stops the scheduler and returns a context that is done once running
// jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

// expireStalePending cancels orders that never came back from the gateway.
// A late callback for an expired order is still safe: settlement refuses
// anything that is no longer pending.
func (s *Scheduler) expireStalePending() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.orders.ExpireStalePending(ctx, s.cfg.Store.PendingOrderTTL)
	if err != nil {
		s.logger.Error("expire stale pending orders failed", zap.Error(err))
		return
	}
	if n > 0 {
		s.logger.Info("expired stale pending orders", zap.Int64("count", n))
	}
}
