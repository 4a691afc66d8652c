package price_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/price"
)

func TestNewProviderFromConfig(t *testing.T) {
	t.Parallel()

	p, err := price.NewProviderFromConfig(config.PriceProvider{Type: "coindesk"})
	require.NoError(t, err)
	require.Equal(t, "coindesk", p.Name())

	p, err = price.NewProviderFromConfig(config.PriceProvider{Type: "coingecko"})
	require.NoError(t, err)
	require.Equal(t, "coingecko", p.Name())

	_, err = price.NewProviderFromConfig(config.PriceProvider{})
	require.EqualError(t, err, "price.provider.type is required")

	_, err = price.NewProviderFromConfig(config.PriceProvider{Type: "kraken"})
	require.EqualError(t, err, "unknown price provider: kraken")
}
