package sync

import (
	"errors"
	"fmt"
	gosync "sync"
	"time"
)

// ErrLockedOut is returned while the unlock cooldown is in effect.
var ErrLockedOut = errors.New("too many failed unlock attempts")

const (
	// defaultMaxAttempts consecutive decryption failures trigger a cooldown.
	defaultMaxAttempts = 3

	defaultCooldown = 30 * time.Second
)

// UnlockGuard throttles master-password attempts. Wrong-password decryption
// failures are structural, so without a guard they could be hammered at full
// speed by anything holding the local blob.
type UnlockGuard struct {
	mu          gosync.Mutex
	maxAttempts int
	cooldown    time.Duration
	now         func() time.Time

	failures    int
	lockedUntil time.Time
}

// NewUnlockGuard constructs a guard with the default attempt budget and
// cooldown.
func NewUnlockGuard() *UnlockGuard {
	return &UnlockGuard{
		maxAttempts: defaultMaxAttempts,
		cooldown:    defaultCooldown,
		now:         time.Now,
	}
}

// Allow reports whether an unlock attempt may proceed right now.
func (g *UnlockGuard) Allow() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if remaining := g.lockedUntil.Sub(g.now()); remaining > 0 {
		return fmt.Errorf("%w: retry in %s", ErrLockedOut, remaining.Round(time.Second))
	}
	return nil
}

// RecordFailure counts one failed attempt and starts the cooldown when the
// budget is exhausted.
func (g *UnlockGuard) RecordFailure() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures++
	if g.failures >= g.maxAttempts {
		g.lockedUntil = g.now().Add(g.cooldown)
		g.failures = 0
	}
}

// RecordSuccess resets the failure counter.
func (g *UnlockGuard) RecordSuccess() {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.failures = 0
	g.lockedUntil = time.Time{}
}
