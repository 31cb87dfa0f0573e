package cache

import (
	"context"
	"time"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"bbs-backend/lib/utils/helpers"
)

type Loader func(ctx context.Context) ([]byte, error)

// Policy: entries younger than Fresh are served as is, entries younger than Retain are
// served when a refresh fails.
type Policy struct {
	Fresh       time.Duration
	Retain      time.Duration
	Retries     int
	BackoffBase time.Duration
	BackoffCap  time.Duration
}

func DefaultPolicy() Policy {
	return Policy{
		Fresh:       5 * time.Minute,
		Retain:      10 * time.Minute,
		Retries:     3,
		BackoffBase: time.Second,
		BackoffCap:  30 * time.Second,
	}
}

type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent marks a loader error that retrying cannot fix.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// ReadThrough is never the system of record, writers call Invalidate.
type ReadThrough struct {
	store  Store
	key    string
	load   Loader
	policy Policy
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration) error
}

func NewReadThrough(store Store, key string, policy Policy, load Loader) *ReadThrough {
	return &ReadThrough{
		store:  store,
		key:    key,
		load:   load,
		policy: policy,
		now:    time.Now,
		sleep:  helpers.SleepContext,
	}
}

func (r *ReadThrough) logger() *log.Entry {
	return log.WithField("cache_key", r.key)
}

func (r *ReadThrough) Get(ctx context.Context) ([]byte, error) {
	entry, err := r.store.Get(ctx, r.key)
	if err != nil {
		r.logger().WithError(err).Warn("cache read failed, loading from source")
		entry = nil
	}
	if entry != nil && r.now().Sub(entry.FetchedAt) < r.policy.Fresh {
		return entry.Data, nil
	}
	data, err := r.Refresh(ctx)
	if err != nil {
		if entry != nil && r.now().Sub(entry.FetchedAt) < r.policy.Retain {
			r.logger().WithError(err).Warn("refresh failed, serving stale entry")
			return entry.Data, nil
		}
		return nil, err
	}
	return data, nil
}

// Refresh loads from the source with retries and stores the result.
func (r *ReadThrough) Refresh(ctx context.Context) ([]byte, error) {
	var err error
	for attempt := 0; ; attempt++ {
		var data []byte
		data, err = r.load(ctx)
		if err == nil {
			entry := Entry{Data: data, FetchedAt: r.now()}
			if setErr := r.store.Set(ctx, r.key, entry, r.policy.Retain); setErr != nil {
				r.logger().WithError(setErr).Warn("cache write failed")
			}
			return data, nil
		}
		var permanent *permanentError
		if errors.As(err, &permanent) {
			return nil, permanent.err
		}
		if attempt >= r.policy.Retries {
			break
		}
		wait := Backoff(r.policy.BackoffBase, r.policy.BackoffCap, attempt)
		r.logger().WithError(err).WithField("attempt", attempt+1).Warnf("load failed, retry in %v", wait)
		if sleepErr := r.sleep(ctx, wait); sleepErr != nil {
			return nil, err
		}
	}
	return nil, err
}

func (r *ReadThrough) Invalidate(ctx context.Context) error {
	return r.store.Delete(ctx, r.key)
}

// Backoff is base*2^attempt capped at limit.
func Backoff(base, limit time.Duration, attempt int) time.Duration {
	wait := base
	for i := 0; i < attempt; i++ {
		wait *= 2
		if wait >= limit {
			return limit
		}
	}
	if wait > limit {
		return limit
	}
	return wait
}
