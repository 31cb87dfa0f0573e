package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	calls int
	fail  int // number of leading calls that fail
	err   error
	data  string
}

func (f *fakeSource) load(ctx context.Context) ([]byte, error) {
	f.calls++
	if f.calls <= f.fail {
		return nil, f.err
	}
	return []byte(f.data), nil
}

type clock struct {
	now time.Time
}

func (c *clock) Now() time.Time { return c.now }

func newTestCache(store Store, src *fakeSource, c *clock) (*ReadThrough, *[]time.Duration) {
	waits := []time.Duration{}
	r := NewReadThrough(store, "employees", DefaultPolicy(), src.load)
	r.now = c.Now
	r.sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return nil
	}
	if m, ok := store.(*memoryStore); ok {
		m.now = c.Now
	}
	return r, &waits
}

func TestBackoff(t *testing.T) {
	base, limit := time.Second, 30*time.Second
	require.Equal(t, time.Second, Backoff(base, limit, 0))
	require.Equal(t, 2*time.Second, Backoff(base, limit, 1))
	require.Equal(t, 4*time.Second, Backoff(base, limit, 2))
	require.Equal(t, 16*time.Second, Backoff(base, limit, 4))
	require.Equal(t, 30*time.Second, Backoff(base, limit, 5))
	require.Equal(t, 30*time.Second, Backoff(base, limit, 50))
}

func TestReadThrough(t *testing.T) {
	ctx := context.Background()
	start := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)

	t.Run(`fresh entry is served from cache`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1"}
		r, _ := newTestCache(NewMemoryStore(), src, c)

		data, err := r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v1", string(data))

		src.data = "v2"
		c.now = start.Add(4 * time.Minute)
		data, err = r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v1", string(data))
		require.Equal(t, 1, src.calls)
	})

	t.Run(`stale entry is refreshed`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1"}
		r, _ := newTestCache(NewMemoryStore(), src, c)
		_, err := r.Get(ctx)
		require.Nil(t, err)

		src.data = "v2"
		c.now = start.Add(6 * time.Minute)
		data, err := r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v2", string(data))
	})

	t.Run(`retained entry is served when refresh fails`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1"}
		r, waits := newTestCache(NewMemoryStore(), src, c)
		_, err := r.Get(ctx)
		require.Nil(t, err)

		src.fail = 100
		src.err = errors.New("upstream down")
		c.now = start.Add(7 * time.Minute)
		data, err := r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v1", string(data))
		require.Equal(t, []time.Duration{time.Second, 2 * time.Second, 4 * time.Second}, *waits)
		require.Equal(t, 5, src.calls)
	})

	t.Run(`expired entry is not served`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1"}
		r, _ := newTestCache(NewMemoryStore(), src, c)
		_, err := r.Get(ctx)
		require.Nil(t, err)

		src.fail = 100
		src.err = errors.New("upstream down")
		c.now = start.Add(11 * time.Minute)
		_, err = r.Get(ctx)
		require.NotNil(t, err)
	})

	t.Run(`retry recovers`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1", fail: 2, err: errors.New("flaky")}
		r, waits := newTestCache(NewMemoryStore(), src, c)
		data, err := r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v1", string(data))
		require.Len(t, *waits, 2)
	})

	t.Run(`permanent errors are not retried`, func(t *testing.T) {
		c := &clock{now: start}
		notFound := errors.New("no data")
		src := &fakeSource{fail: 100, err: Permanent(notFound)}
		r, waits := newTestCache(NewMemoryStore(), src, c)
		_, err := r.Get(ctx)
		require.True(t, errors.Is(err, notFound))
		require.Len(t, *waits, 0)
		require.Equal(t, 1, src.calls)
	})

	t.Run(`invalidate forces a load`, func(t *testing.T) {
		c := &clock{now: start}
		src := &fakeSource{data: "v1"}
		r, _ := newTestCache(NewMemoryStore(), src, c)
		_, err := r.Get(ctx)
		require.Nil(t, err)
		src.data = "v2"
		require.Nil(t, r.Invalidate(ctx))
		data, err := r.Get(ctx)
		require.Nil(t, err)
		require.Equal(t, "v2", string(data))
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	s := miniredis.RunT(t)
	store, err := NewRedisStore(ctx, "redis://"+s.Addr())
	require.Nil(t, err)

	t.Run(`miss`, func(t *testing.T) {
		entry, err := store.Get(ctx, "nothing")
		require.Nil(t, err)
		require.Nil(t, entry)
	})

	t.Run(`set get delete`, func(t *testing.T) {
		fetched := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		require.Nil(t, store.Set(ctx, "employees", Entry{Data: []byte(`[1]`), FetchedAt: fetched}, time.Minute))
		entry, err := store.Get(ctx, "employees")
		require.Nil(t, err)
		require.NotNil(t, entry)
		require.Equal(t, `[1]`, string(entry.Data))
		require.True(t, fetched.Equal(entry.FetchedAt))

		require.Nil(t, store.Delete(ctx, "employees"))
		entry, err = store.Get(ctx, "employees")
		require.Nil(t, err)
		require.Nil(t, entry)
	})

	t.Run(`retain ttl`, func(t *testing.T) {
		require.Nil(t, store.Set(ctx, "employees", Entry{Data: []byte(`[]`), FetchedAt: time.Now()}, time.Minute))
		s.FastForward(2 * time.Minute)
		entry, err := store.Get(ctx, "employees")
		require.Nil(t, err)
		require.Nil(t, entry)
	})

	t.Run(`bad url`, func(t *testing.T) {
		_, err := NewRedisStore(ctx, "not-a-url")
		require.NotNil(t, err)
	})
}
