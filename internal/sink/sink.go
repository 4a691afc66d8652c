package sink

import (
	"context"

	"btc-price-publisher/internal/event"
)

// Sink is the minimal interface all sinks must implement.
type Sink interface {
	Name() string
	Push(ctx context.Context, events []event.Event) error
	Close() error
}
