package sink

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"btc-price-publisher/internal/event"
)

// PushObserver is told the outcome of every per-sink push.
type PushObserver func(sink string, err error)

type multiSink struct {
	sinks   []Sink
	observe PushObserver
}

// NewMulti fans every push out to all sinks concurrently. A failing sink does
// not cancel the others; their errors are joined.
func NewMulti(observe PushObserver, sinks ...Sink) Sink {
	if observe == nil {
		observe = func(string, error) {}
	}
	return &multiSink{sinks: sinks, observe: observe}
}

func (m *multiSink) Name() string { return "multi" }

func (m *multiSink) Push(ctx context.Context, events []event.Event) error {
	errs := make([]error, len(m.sinks))
	var g errgroup.Group
	for i, s := range m.sinks {
		g.Go(func() error {
			err := s.Push(ctx, events)
			m.observe(s.Name(), err)
			if err != nil {
				errs[i] = fmt.Errorf("%s: %w", s.Name(), err)
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

func (m *multiSink) Close() error {
	var errs []error
	for _, s := range m.sinks {
		if err := s.Close(); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return errors.Join(errs...)
}
