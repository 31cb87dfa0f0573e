package baseworker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	t.Run(`runs until context ends`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		var calls int32
		done := make(chan struct{})
		w := NewInstance("test", time.Millisecond, time.Millisecond)
		go func() {
			w.Run(ctx, func(ctx context.Context) error {
				if atomic.AddInt32(&calls, 1) == 3 {
					cancel()
				}
				return nil
			})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not stop")
		}
		require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
	})

	t.Run(`survives failing and panicking jobs`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		var calls int32
		done := make(chan struct{})
		w := NewInstance("test", time.Millisecond, time.Millisecond)
		go func() {
			w.Run(ctx, func(ctx context.Context) error {
				switch atomic.AddInt32(&calls, 1) {
				case 1:
					return errors.New("boom")
				case 2:
					panic("boom")
				default:
					cancel()
				}
				return nil
			})
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("worker did not stop")
		}
		require.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(3))
	})
}
