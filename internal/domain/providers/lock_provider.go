package providers

import (
	"context"
)

// Unlock releases a lock obtained from a SlotLocker
type Unlock func()

// SlotLocker serializes bookings that target the same key (a clinic day).
// Acquire blocks until the lock is held or ctx is done.
type SlotLocker interface {
	Acquire(ctx context.Context, key string) (Unlock, error)
}

// BookingLockKey returns the lock key for a clinic day
func BookingLockKey(day string) string {
	return "booking_lock:" + day
}
