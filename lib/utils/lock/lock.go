package lock

import (
	"context"
	"sync"
	"time"
)

var (
	lockMap   sync.Map
	pollEvery = 25 * time.Millisecond
)

// WithKey runs safeCode while holding key. success is false when the key stayed busy for
// longer than wait or ctx ended first, safeCode is not run in that case.
func WithKey(ctx context.Context, key string, wait time.Duration, safeCode func() error) (success bool, err error) {
	timeout := time.NewTimer(wait)
	defer timeout.Stop()
	for {
		if _, loaded := lockMap.LoadOrStore(key, struct{}{}); !loaded {
			break
		}
		select {
		case <-timeout.C:
			return false, nil
		case <-ctx.Done():
			return false, nil
		case <-time.After(pollEvery):
		}
	}
	defer lockMap.Delete(key)
	return true, safeCode()
}

// IsHeld reports whether another caller currently holds key.
func IsHeld(key string) bool {
	_, held := lockMap.Load(key)
	return held
}
