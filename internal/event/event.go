// Package event defines the events this service publishes to its sinks.
package event

import (
	"time"

	"github.com/google/uuid"
)

// TypeBitcoinPrice is the logical type of a published price sample.
const TypeBitcoinPrice = "BitcoinPriceEvent"

// BitcoinPrice is the payload of a BitcoinPriceEvent.
type BitcoinPrice struct {
	Price float64 `json:"price"`
}

// Event is the envelope every sink receives.
type Event struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Source   string       `json:"source"`   // provider name, e.g. "coindesk"
	Currency string       `json:"currency"` // quote currency, e.g. "USD"
	Time     time.Time    `json:"time"`
	Detail   BitcoinPrice `json:"detail"`
}

// NewBitcoinPrice wraps one price sample into a fresh envelope.
func NewBitcoinPrice(source, currency string, price float64, at time.Time) Event {
	return Event{
		ID:       uuid.NewString(),
		Type:     TypeBitcoinPrice,
		Source:   source,
		Currency: currency,
		Time:     at.UTC(),
		Detail:   BitcoinPrice{Price: price},
	}
}
