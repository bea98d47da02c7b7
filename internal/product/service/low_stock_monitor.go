package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ridloal/product-catalog/internal/platform/logger"
	"github.com/robfig/cron/v3"
)

const lowStockRunTimeout = 30 * time.Second

// LowStockMonitor runs ProductService.CheckLowStock on a cron schedule.
// The schedule has a seconds field, e.g. "0 */15 * * * *".
type LowStockMonitor struct {
	svc       ProductService
	scheduler *cron.Cron
}

func NewLowStockMonitor(svc ProductService) *LowStockMonitor {
	return &LowStockMonitor{
		svc: svc,
		scheduler: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cron.PrintfLogger(logger.L())),
			cron.WithChain(cron.SkipIfStillRunning(cron.PrintfLogger(logger.L()))),
		),
	}
}

func (m *LowStockMonitor) Start(spec string) error {
	if _, err := m.scheduler.AddFunc(spec, m.run); err != nil {
		return fmt.Errorf("invalid low stock schedule %q: %w", spec, err)
	}
	m.scheduler.Start()
	logger.Info("Low stock monitor scheduled with spec '%s'", spec)
	return nil
}

// Stop halts the scheduler and waits for a running check to finish.
func (m *LowStockMonitor) Stop() {
	<-m.scheduler.Stop().Done()
	logger.Info("Low stock monitor stopped")
}

func (m *LowStockMonitor) run() {
	logger.Debug("Scheduler: running low stock check")
	ctx, cancel := context.WithTimeout(context.Background(), lowStockRunTimeout)
	defer cancel()
	if _, err := m.svc.CheckLowStock(ctx); err != nil {
		logger.Error("Scheduler: low stock check failed", err)
	}
}
