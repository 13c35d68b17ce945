package auth

import (
	"time"
)

const (
	// LockoutThreshold is the number of consecutive failed logins that
	// triggers a temporary lock.
	LockoutThreshold = 5

	// LockoutDuration is how long an account stays locked once the
	// threshold is crossed. Expiry is checked lazily at the next attempt;
	// no unlock job exists.
	LockoutDuration = 30 * time.Minute
)

// LockoutState is the per-account failed-login bookkeeping.
type LockoutState struct {
	FailedCount int
	LockedUntil *time.Time
}

// RecordFailure returns the state after one more failed attempt. Crossing
// the threshold sets the lock window relative to the attempt time.
func RecordFailure(state LockoutState, now time.Time) LockoutState {
	next := LockoutState{
		FailedCount: state.FailedCount + 1,
		LockedUntil: state.LockedUntil,
	}
	if next.FailedCount >= LockoutThreshold {
		until := now.Add(LockoutDuration)
		next.LockedUntil = &until
	}
	return next
}

// RecordSuccess resets the counter and clears any lock.
func RecordSuccess(state LockoutState) LockoutState {
	return LockoutState{}
}

// IsLocked reports whether the account is locked at the given instant.
func IsLocked(state LockoutState, now time.Time) bool {
	return state.LockedUntil != nil && state.LockedUntil.After(now)
}

// RemainingLockout returns how long the lock still holds, zero if unlocked.
func RemainingLockout(state LockoutState, now time.Time) time.Duration {
	if !IsLocked(state, now) {
		return 0
	}
	return state.LockedUntil.Sub(now)
}
