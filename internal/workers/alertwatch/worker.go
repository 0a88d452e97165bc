package alertwatch

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/coinfolio/coinfolio_service/internal/infrastructure/config"
)

// Sweeper evaluates all armed alerts once and reports how many fired
type Sweeper interface {
	Sweep(ctx context.Context) (int, error)
}

// Worker runs the alert sweep on a cron schedule. Overlapping runs are
// skipped: a sweep that outlives the schedule interval blocks the next
// tick instead of stacking goroutines.
type Worker struct {
	cron      *cron.Cron
	sweeper   Sweeper
	config    config.AlertsConfig
	logger    *zap.Logger
	telemetry *sweepTelemetry

	mu      sync.Mutex
	running bool
	lastRun time.Time
}

func NewWorker(sweeper Sweeper, cfg config.AlertsConfig, logger *zap.Logger) (*Worker, error) {
	telemetry, err := initTelemetry()
	if err != nil {
		return nil, err
	}

	return &Worker{
		cron:      cron.New(cron.WithLogger(cron.VerbosePrintfLogger(&cronLogger{logger}))),
		sweeper:   sweeper,
		config:    cfg,
		logger:    logger,
		telemetry: telemetry,
	}, nil
}

// Start registers the sweep job and launches the scheduler
func (w *Worker) Start() error {
	if !w.config.Enabled {
		w.logger.Info("Alert sweep worker disabled")
		return nil
	}

	if _, err := w.cron.AddFunc(w.config.Schedule, w.runSweep); err != nil {
		return err
	}

	w.cron.Start()
	w.logger.Info("Alert sweep worker started", zap.String("schedule", w.config.Schedule))
	return nil
}

// Stop halts the scheduler and waits for an in-flight sweep to finish
func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
	w.logger.Info("Alert sweep worker stopped")
}

func (w *Worker) runSweep() {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		w.logger.Warn("Skipping alert sweep, previous run still in flight")
		return
	}
	w.running = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		w.running = false
		w.lastRun = time.Now()
		w.mu.Unlock()
	}()

	timeout := time.Duration(w.config.SweepTimeout) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	fired, err := w.sweeper.Sweep(ctx)
	elapsed := time.Since(start)

	w.telemetry.SweepsTotal.Add(ctx, 1)
	w.telemetry.SweepDuration.Record(ctx, elapsed.Seconds())

	if err != nil {
		w.telemetry.SweepErrors.Add(ctx, 1)
		w.logger.Error("Alert sweep failed",
			zap.Duration("duration", elapsed),
			zap.Error(err))
		return
	}

	w.telemetry.AlertsFired.Add(ctx, int64(fired))
	w.logger.Info("Alert sweep completed",
		zap.Int("fired", fired),
		zap.Duration("duration", elapsed))
}

// cronLogger adapts zap to cron's printf-style logger
type cronLogger struct {
	logger *zap.Logger
}

func (l *cronLogger) Printf(format string, args ...interface{}) {
	l.logger.Sugar().Debugf(format, args...)
}
