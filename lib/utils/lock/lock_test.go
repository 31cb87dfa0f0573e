package lock

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestWithKey(t *testing.T) {
	ctx := context.Background()

	t.Run(`runs and releases`, func(t *testing.T) {
		ok, err := WithKey(ctx, "rec-1", time.Second, func() error {
			require.True(t, IsHeld("rec-1"))
			return nil
		})
		require.True(t, ok)
		require.Nil(t, err)
		require.False(t, IsHeld("rec-1"))
	})

	t.Run(`returns safeCode error`, func(t *testing.T) {
		expected := errors.New("write failed")
		ok, err := WithKey(ctx, "rec-2", time.Second, func() error { return expected })
		require.True(t, ok)
		require.Equal(t, expected, err)
		require.False(t, IsHeld("rec-2"))
	})

	t.Run(`busy key times out`, func(t *testing.T) {
		release := make(chan struct{})
		started := make(chan struct{})
		go func() {
			_, _ = WithKey(ctx, "rec-3", time.Second, func() error {
				close(started)
				<-release
				return nil
			})
		}()
		<-started
		ran := false
		ok, err := WithKey(ctx, "rec-3", 60*time.Millisecond, func() error {
			ran = true
			return nil
		})
		require.False(t, ok)
		require.Nil(t, err)
		require.False(t, ran)
		close(release)
	})

	t.Run(`serializes holders of one key`, func(t *testing.T) {
		var inside, maxInside, failed int32
		wg := sync.WaitGroup{}
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				ok, _ := WithKey(ctx, "rec-4", 5*time.Second, func() error {
					n := atomic.AddInt32(&inside, 1)
					for {
						m := atomic.LoadInt32(&maxInside)
						if n <= m || atomic.CompareAndSwapInt32(&maxInside, m, n) {
							break
						}
					}
					time.Sleep(5 * time.Millisecond)
					atomic.AddInt32(&inside, -1)
					return nil
				})
				if !ok {
					atomic.AddInt32(&failed, 1)
				}
			}()
		}
		wg.Wait()
		require.Equal(t, int32(0), failed)
		require.Equal(t, int32(1), atomic.LoadInt32(&maxInside))
	})
}
