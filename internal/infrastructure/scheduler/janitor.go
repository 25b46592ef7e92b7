package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// WorkspaceSweeper removes workspaces whose deadline passed the cutoff and
// reports how many were removed. The workspace store implements this.
type WorkspaceSweeper interface {
	ExpireBefore(ctx context.Context, cutoff time.Time) (int, error)
}

// JanitorConfig holds configuration for the workspace janitor
type JanitorConfig struct {
	// SweepInterval is how often expired workspaces are removed
	SweepInterval time.Duration
}

// DefaultJanitorConfig returns default janitor configuration
func DefaultJanitorConfig() JanitorConfig {
	return JanitorConfig{
		SweepInterval: time.Minute,
	}
}

// Janitor periodically removes expired workspaces. Sessions already expire
// logically when their deadline passes; the janitor reclaims the memory the
// in-memory store would otherwise hold forever. The Redis store expires keys
// natively, so its sweeps are cheap no-ops.
type Janitor struct {
	config  JanitorConfig
	sweeper WorkspaceSweeper
	logger  *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool
}

// NewJanitor creates a new workspace janitor
func NewJanitor(config JanitorConfig, sweeper WorkspaceSweeper, logger *zap.Logger) *Janitor {
	if config.SweepInterval <= 0 {
		config.SweepInterval = DefaultJanitorConfig().SweepInterval
	}
	return &Janitor{
		config:  config,
		sweeper: sweeper,
		logger:  logger,
	}
}

// Start starts the janitor
func (j *Janitor) Start(ctx context.Context) error {
	j.mu.Lock()
	if j.isRunning {
		j.mu.Unlock()
		return nil
	}
	j.isRunning = true
	j.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel

	j.wg.Add(1)
	go j.runLoop(ctx)

	j.logger.Info("Workspace janitor started",
		zap.Duration("sweep_interval", j.config.SweepInterval),
	)

	return nil
}

// Stop gracefully stops the janitor
func (j *Janitor) Stop(ctx context.Context) error {
	j.mu.Lock()
	if !j.isRunning {
		j.mu.Unlock()
		return nil
	}
	j.isRunning = false
	j.mu.Unlock()

	if j.cancel != nil {
		j.cancel()
	}

	done := make(chan struct{})
	go func() {
		j.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		j.logger.Info("Workspace janitor stopped")
		return nil
	case <-ctx.Done():
		j.logger.Warn("Workspace janitor stop timed out")
		return ctx.Err()
	}
}

// runLoop sweeps on a fixed interval until the context is cancelled
func (j *Janitor) runLoop(ctx context.Context) {
	defer j.wg.Done()

	ticker := time.NewTicker(j.config.SweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			j.Sweep(ctx)
		}
	}
}

// Sweep removes workspaces that expired before now. Exposed so callers can
// force a sweep outside the regular interval.
func (j *Janitor) Sweep(ctx context.Context) {
	removed, err := j.sweeper.ExpireBefore(ctx, time.Now())
	if err != nil {
		j.logger.Error("Workspace sweep failed", zap.Error(err))
		return
	}

	if removed > 0 {
		j.logger.Info("Expired workspaces removed",
			zap.Int("count", removed),
		)
	}
}
