package price

import (
	"context"
	"errors"
)

var (
	// ErrFetchFailed covers transport failures and non-2xx responses.
	ErrFetchFailed = errors.New("price fetch failed")
	// ErrMalformedResponse covers any body that does not carry the expected price field.
	ErrMalformedResponse = errors.New("malformed price response")
)

// Quote is one fetched price sample.
type Quote struct {
	Currency string  // e.g., USD
	Value    float64 // price of 1 BTC in currency
}

type PriceProvider interface {
	GetBTCPrice(ctx context.Context, currency string) (Quote, error)
	Name() string
}
