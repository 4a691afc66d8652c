package price

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

// CoinGecko docs: https://docs.coingecko.com/
// Auth header: "x-cg-pro-api-key: <KEY>" (works for free & pro keys)
// Endpoint used: /simple/price?ids=bitcoin&vs_currencies=<fiat>

const CoinGeckoBaseURL = "https://api.coingecko.com/api/v3"

type CoinGecko struct {
	baseURL   string
	apiKey    string // optional
	userAgent string
	client    HTTPClient
}

// cgResp keeps the value as a pointer so an explicit null is malformed, not 0.
type cgResp map[string]map[string]*float64

func NewCoinGecko(baseURL, apiKey, userAgent string, client HTTPClient) *CoinGecko {
	if baseURL == "" {
		baseURL = CoinGeckoBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	return &CoinGecko{
		baseURL:   strings.TrimRight(baseURL, "/"),
		apiKey:    strings.TrimSpace(apiKey),
		userAgent: userAgent,
		client:    client,
	}
}

func (c *CoinGecko) Name() string { return "coingecko" }

func (c *CoinGecko) GetBTCPrice(ctx context.Context, fiat string) (Quote, error) {
	fiat = strings.ToLower(strings.TrimSpace(fiat))
	if fiat == "" {
		fiat = "usd"
	}
	q := url.Values{}
	q.Set("ids", "bitcoin")
	q.Set("vs_currencies", fiat)

	u := fmt.Sprintf("%s/simple/price?%s", c.baseURL, q.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, http.NoBody)
	if err != nil {
		return Quote{}, fmt.Errorf("coingecko: creating request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if c.apiKey != "" {
		req.Header.Set("x-cg-pro-api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("coingecko: %w: %w", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return Quote{}, fmt.Errorf("coingecko: rate limited (%d): %w", resp.StatusCode, ErrFetchFailed)
	}
	if resp.StatusCode/100 != 2 {
		return Quote{}, fmt.Errorf("coingecko: http %d: %w", resp.StatusCode, ErrFetchFailed)
	}

	var data cgResp
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return Quote{}, fmt.Errorf("coingecko: decoding body: %w: %w", ErrMalformedResponse, err)
	}
	m, ok := data["bitcoin"]
	if !ok {
		return Quote{}, fmt.Errorf("coingecko: missing 'bitcoin' key: %w", ErrMalformedResponse)
	}
	val, ok := m[fiat]
	if !ok || val == nil {
		return Quote{}, fmt.Errorf("coingecko: missing fiat '%s': %w", fiat, ErrMalformedResponse)
	}
	if *val < 0 {
		return Quote{}, fmt.Errorf("coingecko: negative rate %g: %w", *val, ErrMalformedResponse)
	}
	return Quote{Currency: strings.ToUpper(fiat), Value: *val}, nil
}
