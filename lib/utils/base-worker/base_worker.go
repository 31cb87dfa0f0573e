package baseworker

import (
	"context"
	"runtime/debug"
	"time"

	log "github.com/sirupsen/logrus"
)

type BaseImpl struct {
	WorkerName    string
	firstRunDelay time.Duration
	runInterval   time.Duration
}

func NewInstance(workerName string, firstRunDelay, runInterval time.Duration) *BaseImpl {
	return &BaseImpl{
		WorkerName:    workerName,
		firstRunDelay: firstRunDelay,
		runInterval:   runInterval,
	}
}

func (i BaseImpl) GetLogger() *log.Entry {
	return log.WithField("worker_name", i.WorkerName)
}

// Run calls jobFunc after firstRunDelay and then every runInterval until ctx is done.
// A panicking job is logged and the loop keeps going.
func (i BaseImpl) Run(ctx context.Context, jobFunc func(ctx context.Context) error) {
	period := i.firstRunDelay
	logger := i.GetLogger()
	for {
		select {
		case <-ctx.Done():
			logger.Info("worker stopped")
			return
		case <-time.After(period):
			i.runJob(ctx, jobFunc)
		}
		period = i.runInterval
	}
}

func (i BaseImpl) runJob(ctx context.Context, jobFunc func(ctx context.Context) error) {
	logger := i.GetLogger()
	defer func() {
		if r := recover(); r != nil {
			logger.
				WithField("panic_stack", string(debug.Stack())).
				Errorf("panic: (%v)", r)
		}
	}()
	logger.Debug("job started")
	if err := jobFunc(ctx); err != nil {
		logger.WithError(err).Error("job failed")
		return
	}
	logger.Debug("job done")
}
