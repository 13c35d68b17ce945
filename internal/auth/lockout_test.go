package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordFailure_BelowThreshold(t *testing.T) {
	now := time.Now()
	state := LockoutState{}

	for i := 0; i < LockoutThreshold-1; i++ {
		state = RecordFailure(state, now)
	}

	assert.Equal(t, LockoutThreshold-1, state.FailedCount)
	assert.Nil(t, state.LockedUntil)
	assert.False(t, IsLocked(state, now))
}

func TestRecordFailure_CrossesThreshold(t *testing.T) {
	now := time.Now()
	state := LockoutState{FailedCount: LockoutThreshold - 1}

	state = RecordFailure(state, now)

	assert.Equal(t, LockoutThreshold, state.FailedCount)
	require.NotNil(t, state.LockedUntil)
	assert.Equal(t, now.Add(LockoutDuration), *state.LockedUntil)
	assert.True(t, IsLocked(state, now))
}

func TestRecordFailure_BeyondThresholdExtendsLock(t *testing.T) {
	now := time.Now()
	earlier := now.Add(-10 * time.Minute)

	state := LockoutState{FailedCount: LockoutThreshold - 1}
	state = RecordFailure(state, earlier)
	state = RecordFailure(state, now)

	require.NotNil(t, state.LockedUntil)
	assert.Equal(t, now.Add(LockoutDuration), *state.LockedUntil)
}

func TestIsLocked_ExpiresLazily(t *testing.T) {
	now := time.Now()
	state := LockoutState{FailedCount: LockoutThreshold}
	until := now.Add(-time.Second)
	state.LockedUntil = &until

	// The window has elapsed, so the account is usable again without any
	// manual intervention.
	assert.False(t, IsLocked(state, now))
	assert.Zero(t, RemainingLockout(state, now))
}

func TestRecordSuccess_ResetsState(t *testing.T) {
	now := time.Now()
	until := now.Add(LockoutDuration)
	state := LockoutState{FailedCount: LockoutThreshold, LockedUntil: &until}

	state = RecordSuccess(state)

	assert.Zero(t, state.FailedCount)
	assert.Nil(t, state.LockedUntil)
	assert.False(t, IsLocked(state, now))
}

func TestRemainingLockout(t *testing.T) {
	now := time.Now()
	until := now.Add(12 * time.Minute)
	state := LockoutState{FailedCount: LockoutThreshold, LockedUntil: &until}

	assert.Equal(t, 12*time.Minute, RemainingLockout(state, now))
}
