// Package schedule drives a job on a fixed interval.
package schedule

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

// Job is one invocation. A returned error is logged; the loop keeps going.
type Job func(ctx context.Context) error

type Ticker struct {
	Interval time.Duration
	Timeout  time.Duration // per invocation; zero means none
	Log      logrus.FieldLogger
}

// RunOnce runs job a single time under the per-invocation timeout.
func (t Ticker) RunOnce(ctx context.Context, job Job) error {
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.Timeout)
		defer cancel()
	}
	return job(ctx)
}

// Run fires job immediately and then on every tick until ctx is done.
// Invocations never overlap; a tick that lands during a slow run is dropped.
func (t Ticker) Run(ctx context.Context, job Job) {
	t.fire(ctx, job)

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			t.Log.WithError(ctx.Err()).Info("stopping schedule")
			return
		case <-ticker.C:
			t.fire(ctx, job)
		}
	}
}

func (t Ticker) fire(ctx context.Context, job Job) {
	start := time.Now()
	err := t.RunOnce(ctx, job)
	entry := t.Log.WithField("took", time.Since(start).Truncate(time.Millisecond).String())
	if err != nil {
		entry.WithError(err).Error("invocation failed")
		return
	}
	entry.Debug("invocation finished")
}
