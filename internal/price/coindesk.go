package price

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// CoinDesk reads the Bitcoin Price Index.
// Endpoint used: /v1/bpi/currentprice.json, field bpi.<CUR>.rate_float
type CoinDesk struct {
	baseURL   string
	apiKey    string // optional
	userAgent string
	client    HTTPClient
}

const (
	CoinDeskBaseURL = "https://api.coindesk.com"
	coinDeskPath    = "/v1/bpi/currentprice.json"
	maxBody         = 1 << 20
)

// coinDeskResp holds only what we read. Pointers keep a missing or null key apart from 0.
type coinDeskResp struct {
	BPI map[string]*coinDeskRate `json:"bpi"`
}

type coinDeskRate struct {
	RateFloat *float64 `json:"rate_float"`
}

func NewCoinDesk(baseURL, apiKey, userAgent string, client HTTPClient) *CoinDesk {
	if baseURL == "" {
		baseURL = CoinDeskBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CoinDesk{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: userAgent,
		client:    client,
	}
}

func (c *CoinDesk) Name() string { return "coindesk" }

func (c *CoinDesk) GetBTCPrice(ctx context.Context, currency string) (Quote, error) {
	currency = strings.ToUpper(strings.TrimSpace(currency))
	if currency == "" {
		currency = "USD"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+coinDeskPath, http.NoBody)
	if err != nil {
		return Quote{}, fmt.Errorf("coindesk: creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("coindesk: %w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return Quote{}, fmt.Errorf("coindesk: http %d: %w", resp.StatusCode, ErrFetchFailed)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBody))
	if err != nil {
		return Quote{}, fmt.Errorf("coindesk: reading body: %w: %w", ErrFetchFailed, err)
	}

	var data coinDeskResp
	if err := json.Unmarshal(raw, &data); err != nil {
		return Quote{}, fmt.Errorf("coindesk: decoding body: %w: %w", ErrMalformedResponse, err)
	}
	rate, ok := data.BPI[currency]
	if !ok || rate == nil {
		return Quote{}, fmt.Errorf("coindesk: missing 'bpi.%s': %w", currency, ErrMalformedResponse)
	}
	if rate.RateFloat == nil {
		return Quote{}, fmt.Errorf("coindesk: missing 'bpi.%s.rate_float': %w", currency, ErrMalformedResponse)
	}
	if *rate.RateFloat < 0 {
		return Quote{}, fmt.Errorf("coindesk: negative rate %g: %w", *rate.RateFloat, ErrMalformedResponse)
	}
	return Quote{Currency: currency, Value: *rate.RateFloat}, nil
}
