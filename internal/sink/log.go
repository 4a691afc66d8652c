package sink

import (
	"context"

	"github.com/sirupsen/logrus"

	"btc-price-publisher/internal/event"
)

type logSink struct {
	log logrus.FieldLogger
}

// NewLog writes every event as one structured log entry.
func NewLog(log logrus.FieldLogger) Sink {
	return &logSink{log: log}
}

func (l *logSink) Name() string { return "log" }

func (l *logSink) Push(_ context.Context, events []event.Event) error {
	for _, e := range events {
		l.log.WithFields(logrus.Fields{
			"event_type": e.Type,
			"event_id":   e.ID,
			"source":     e.Source,
			"currency":   e.Currency,
			"price":      e.Detail.Price,
		}).Info("event")
	}
	return nil
}

func (l *logSink) Close() error { return nil }
