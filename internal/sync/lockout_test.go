package sync

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestGuard(clock *time.Time) *UnlockGuard {
	g := NewUnlockGuard()
	g.now = func() time.Time { return *clock }
	return g
}

func TestUnlockGuard_LocksAfterBudgetExhausted(t *testing.T) {
	clock := testNow
	g := newTestGuard(&clock)

	for i := 0; i < defaultMaxAttempts-1; i++ {
		g.RecordFailure()
		assert.NoError(t, g.Allow())
	}

	g.RecordFailure()
	err := g.Allow()
	require.ErrorIs(t, err, ErrLockedOut)
	assert.Contains(t, err.Error(), "retry in")
}

func TestUnlockGuard_CooldownExpires(t *testing.T) {
	clock := testNow
	g := newTestGuard(&clock)

	for i := 0; i < defaultMaxAttempts; i++ {
		g.RecordFailure()
	}
	require.ErrorIs(t, g.Allow(), ErrLockedOut)

	clock = clock.Add(defaultCooldown + time.Second)
	assert.NoError(t, g.Allow())
}

func TestUnlockGuard_SuccessResetsEverything(t *testing.T) {
	clock := testNow
	g := newTestGuard(&clock)

	for i := 0; i < defaultMaxAttempts; i++ {
		g.RecordFailure()
	}
	require.ErrorIs(t, g.Allow(), ErrLockedOut)

	g.RecordSuccess()
	assert.NoError(t, g.Allow())

	// The budget starts over, a single failure does not lock again.
	g.RecordFailure()
	assert.NoError(t, g.Allow())
}
