package sync

import (
	"context"
	"errors"
	gosync "sync"
	"time"

	"github.com/safenode/vaultsync/internal/logger"
)

// SyncFunc runs one sync cycle on behalf of the job. The client wires it to
// its own state so the job never touches the key or vault directly.
type SyncFunc func(ctx context.Context) error

// Job periodically triggers a sync in the background while the vault is
// unlocked.
type Job struct {
	logger   *logger.Logger
	interval time.Duration
	run      SyncFunc

	mu     gosync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

// NewJob constructs a background sync job.
func NewJob(interval time.Duration, run SyncFunc, logger *logger.Logger) *Job {
	return &Job{
		logger:   logger,
		interval: interval,
		run:      run,
	}
}

// Start launches the periodic loop. Starting a running job is a no-op.
func (j *Job) Start(ctx context.Context) {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.cancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	j.cancel = cancel
	j.done = make(chan struct{})

	go j.loop(ctx, j.done)
	j.logger.Info().Dur("interval", j.interval).Msg("background sync started")
}

// Stop cancels the loop and waits for the in-flight cycle to finish.
// Stopping a stopped job is a no-op.
func (j *Job) Stop() {
	j.mu.Lock()
	cancel, done := j.cancel, j.done
	j.cancel, j.done = nil, nil
	j.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	j.logger.Info().Msg("background sync stopped")
}

func (j *Job) loop(ctx context.Context, done chan struct{}) {
	defer close(done)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := j.run(ctx); err != nil {
				// Being offline is routine for a sync client.
				if errors.Is(err, ErrOffline) {
					j.logger.Debug().Err(err).Msg("periodic sync queued")
					continue
				}
				j.logger.Err(err).Str("func", "*Job.loop").Msg("periodic sync failed")
			}
		}
	}
}
