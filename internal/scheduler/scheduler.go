// Package scheduler runs a task on a fixed interval. The core only
// exposes the synchronous refresh operation; this loop is the
// external trigger.
package scheduler

import (
	"context"
	"time"

	"swinglab/internal/logger"
)

type IntervalScheduler struct {
	Interval       time.Duration
	RunImmediately bool

	ctx context.Context
}

func NewIntervalScheduler(ctx context.Context, interval time.Duration) *IntervalScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	return &IntervalScheduler{
		Interval: interval,
		ctx:      ctx,
	}
}

// Start blocks, running task every Interval until the context is
// done.
func (s *IntervalScheduler) Start(task func()) {
	if s == nil {
		return
	}
	if task == nil {
		logger.Warnf("IntervalScheduler: task is nil, exit")
		return
	}
	if s.Interval <= 0 {
		logger.Warnf("IntervalScheduler: invalid interval=%s, exit", s.Interval)
		return
	}
	if s.ctx == nil {
		s.ctx = context.Background()
	}

	logger.Infof("IntervalScheduler: started interval=%s run_immediately=%v", s.Interval, s.RunImmediately)
	if s.RunImmediately {
		task()
	}

	timer := time.NewTimer(s.Interval)
	defer timer.Stop()
	for {
		select {
		case <-s.ctx.Done():
			logger.Infof("IntervalScheduler: ctx done, exit")
			return
		case <-timer.C:
		}
		task()
		timer.Reset(s.Interval)
	}
}
