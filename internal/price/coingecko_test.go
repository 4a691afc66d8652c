package price_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"btc-price-publisher/internal/price"
)

func TestCoinGecko_GetBTCPrice(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/simple/price", r.URL.Path)
		assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
		assert.Equal(t, "eur", r.URL.Query().Get("vs_currencies"))
		assert.Equal(t, "cg-key", r.Header.Get("x-cg-pro-api-key"))
		_, _ = io.WriteString(w, `{"bitcoin":{"eur":61234.5}}`)
	}))
	t.Cleanup(srv.Close)

	cg := price.NewCoinGecko(srv.URL, "cg-key", "", srv.Client())

	q, err := cg.GetBTCPrice(t.Context(), "EUR")
	require.NoError(t, err)
	require.Equal(t, "EUR", q.Currency)
	require.Equal(t, 61234.5, q.Value)
}

func TestCoinGecko_GetBTCPrice_RateLimited(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	httpClient := NewMockHTTPClient(ctrl)
	httpClient.EXPECT().
		Do(gomock.Any()).
		Return(jsonResponse(http.StatusTooManyRequests, `{}`), nil).
		Times(1)

	cg := price.NewCoinGecko("", "", "", httpClient)

	_, err := cg.GetBTCPrice(t.Context(), "usd")
	require.ErrorIs(t, err, price.ErrFetchFailed)
	require.ErrorContains(t, err, "rate limited")
}

func TestCoinGecko_GetBTCPrice_Malformed(t *testing.T) {
	t.Parallel()

	for name, body := range map[string]string{
		"missing bitcoin": `{"ethereum":{"usd":1}}`,
		"missing fiat":    `{"bitcoin":{"eur":1}}`,
		"null fiat":       `{"bitcoin":{"usd":null}}`,
		"string value":    `{"bitcoin":{"usd":"1"}}`,
		"not json":        `<html>`,
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			httpClient := NewMockHTTPClient(ctrl)
			httpClient.EXPECT().
				Do(gomock.Any()).
				Return(jsonResponse(http.StatusOK, body), nil).
				Times(1)

			cg := price.NewCoinGecko("", "", "", httpClient)

			_, err := cg.GetBTCPrice(t.Context(), "usd")
			require.ErrorIs(t, err, price.ErrMalformedResponse)
		})
	}
}
