package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntervalSchedulerRunsTaskUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	ticks := make(chan struct{}, 8)

	s := NewIntervalScheduler(ctx, 5*time.Millisecond)
	done := make(chan struct{})
	go func() {
		s.Start(func() { ticks <- struct{}{} })
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-ticks:
		case <-time.After(2 * time.Second):
			t.Fatal("scheduler never fired")
		}
	}
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}

func TestIntervalSchedulerRunImmediately(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ticks := make(chan struct{}, 1)

	s := NewIntervalScheduler(ctx, time.Hour)
	s.RunImmediately = true
	go s.Start(func() { ticks <- struct{}{} })

	select {
	case <-ticks:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate run never happened")
	}
}

func TestIntervalSchedulerRejectsBadInput(t *testing.T) {
	s := NewIntervalScheduler(context.Background(), 0)
	s.Start(func() { t.Fatal("task must not run with zero interval") })

	s = NewIntervalScheduler(context.Background(), time.Second)
	s.Start(nil) // returns instead of panicking

	assert.NotPanics(t, func() { (*IntervalScheduler)(nil).Start(func() {}) })
}
