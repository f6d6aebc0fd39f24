package locking

import (
	"context"
	"sync"
	"time"

	"github.com/zatekoja/dentalclinic/internal/domain/providers"
	apperrors "github.com/zatekoja/dentalclinic/pkg/errors"
)

// LocalLocker serializes bookings inside a single process. It is used when no
// Redis is configured and is only correct for a single API replica.
type LocalLocker struct {
	mu    sync.Mutex
	locks map[string]*localLock
	wait  time.Duration
}

// localLock is held by at most one caller; refs counts the holder and waiters
type localLock struct {
	ch   chan struct{}
	refs int
}

// NewLocalLocker creates an in-process keyed lock
func NewLocalLocker(wait time.Duration) providers.SlotLocker {
	return &LocalLocker{
		locks: make(map[string]*localLock),
		wait:  wait,
	}
}

// Acquire blocks until the key is free, wait elapses or ctx is done
func (l *LocalLocker) Acquire(ctx context.Context, key string) (providers.Unlock, error) {
	lock := l.ref(key)

	if l.wait > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.wait)
		defer cancel()
	}

	select {
	case lock.ch <- struct{}{}:
	case <-ctx.Done():
		l.unref(key)
		return nil, apperrors.NewTransientError(apperrors.CodeLockUnavailable, "booking is busy, please retry", ctx.Err()).
			WithArabic("النظام مشغول حالياً، يرجى المحاولة مرة أخرى")
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			<-lock.ch
			l.unref(key)
		})
	}, nil
}

func (l *LocalLocker) ref(key string) *localLock {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[key]
	if !ok {
		lock = &localLock{ch: make(chan struct{}, 1)}
		l.locks[key] = lock
	}
	lock.refs++
	return lock
}

// unref drops the entry once nobody holds or waits for the key
func (l *LocalLocker) unref(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock := l.locks[key]
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, key)
	}
}
