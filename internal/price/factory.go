package price

import (
	"fmt"
	"time"

	"btc-price-publisher/internal/config"
	"btc-price-publisher/internal/util"
)

func NewProviderFromConfig(pc config.PriceProvider) (PriceProvider, error) {
	client := util.NewHTTPClient(util.DefaultDur(pc.Timeout, 10*time.Second))
	switch pc.Type {
	case "coindesk":
		return NewCoinDesk(pc.BaseURL, pc.APIKey, pc.UserAgent, client), nil
	case "coingecko":
		return NewCoinGecko(pc.BaseURL, pc.APIKey, pc.UserAgent, client), nil
	case "":
		return nil, fmt.Errorf("price.provider.type is required")
	default:
		return nil, fmt.Errorf("unknown price provider: %s", pc.Type)
	}
}
