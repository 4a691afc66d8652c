package sink

import (
	"strconv"
	"time"

	"btc-price-publisher/internal/event"
)

var sampleTime = time.Date(2022, 12, 1, 10, 30, 0, 0, time.UTC)

func sampleEvent(price float64) event.Event {
	return event.NewBitcoinPrice("coindesk", "USD", price, sampleTime)
}

func itoa(v int64) string { return strconv.FormatInt(v, 10) }
