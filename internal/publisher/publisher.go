// Package publisher fetches the current Bitcoin price once per invocation and
// publishes it as a BitcoinPriceEvent.
package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"btc-price-publisher/internal/event"
	"btc-price-publisher/internal/metrics"
	"btc-price-publisher/internal/price"
	"btc-price-publisher/internal/sink"
)

type Options struct {
	Provider price.PriceProvider
	Sink     sink.Sink
	Currency string
	Metrics  *metrics.Metrics // optional
	Log      logrus.FieldLogger
	Now      func() time.Time // optional, defaults to time.Now
}

type Publisher struct {
	provider price.PriceProvider
	sink     sink.Sink
	currency string
	metrics  *metrics.Metrics
	log      logrus.FieldLogger
	now      func() time.Time
}

func New(opts Options) *Publisher {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	return &Publisher{
		provider: opts.Provider,
		sink:     opts.Sink,
		currency: opts.Currency,
		metrics:  opts.Metrics,
		log:      opts.Log.WithField("provider", opts.Provider.Name()),
		now:      now,
	}
}

// Run performs one fetch-and-publish cycle.
//
// A failed fetch is logged and swallowed: nothing is published and Run returns
// nil. A malformed response or a failed publish is returned to the caller.
func (p *Publisher) Run(ctx context.Context) error {
	start := time.Now()

	q, err := p.provider.GetBTCPrice(ctx, p.currency)
	if err != nil {
		if errors.Is(err, price.ErrFetchFailed) {
			p.log.WithError(err).Info("Unable to fetch price")
			p.observe(metrics.ResultFetchFailed, start)
			return nil
		}
		result := metrics.ResultFetchFailed
		if errors.Is(err, price.ErrMalformedResponse) {
			result = metrics.ResultMalformed
		}
		p.observe(result, start)
		return fmt.Errorf("fetch price: %w", err)
	}

	p.log.WithFields(logrus.Fields{
		"price":    q.Value,
		"currency": q.Currency,
	}).Info("Fetched price from API")

	ev := event.NewBitcoinPrice(p.provider.Name(), q.Currency, q.Value, p.now())
	if err := p.sink.Push(ctx, []event.Event{ev}); err != nil {
		p.observe(metrics.ResultPublishFailed, start)
		return fmt.Errorf("publish event: %w", err)
	}

	p.log.WithField("event_id", ev.ID).Debug("published price event")
	p.observe(metrics.ResultPublished, start)
	if p.metrics != nil {
		p.metrics.ObservePublished(q.Currency, q.Value, ev.Time)
	}
	return nil
}

func (p *Publisher) observe(result string, start time.Time) {
	if p.metrics == nil {
		return
	}
	p.metrics.ObserveInvocation(result, time.Since(start))
}
