package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSleepContext(t *testing.T) {
	t.Run(`waits the duration`, func(t *testing.T) {
		require.Nil(t, SleepContext(context.Background(), time.Millisecond))
	})
	t.Run(`stops on cancel`, func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		require.ErrorIs(t, SleepContext(ctx, time.Hour), context.Canceled)
		require.True(t, IsContextDone(ctx))
	})
}
