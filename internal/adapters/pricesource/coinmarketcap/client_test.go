package coinmarketcap_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/SscSPs/price_scraper_app/internal/adapters/pricesource/coinmarketcap"
	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const bitcoinPage = `<html><body>
<div class="sc-16r8icm-0 kjciSH priceTitle">
  <div class="priceValue___11gHJ "><span>$64,123.45</span></div>
</div>
</body></html>`

const newLayoutPage = `<html><body>
<span class="sc-65e7f566-0" data-test="text-cdp-price-display">$3,012.07</span>
</body></html>`

func newSourceServer(t *testing.T) (*httptest.Server, *atomic.Value) {
	t.Helper()
	lastUserAgent := &atomic.Value{}
	lastUserAgent.Store("")
	mux := http.NewServeMux()
	mux.HandleFunc("/currencies/bitcoin/", func(w http.ResponseWriter, r *http.Request) {
		lastUserAgent.Store(r.Header.Get("User-Agent"))
		fmt.Fprint(w, bitcoinPage)
	})
	mux.HandleFunc("/currencies/ethereum/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, newLayoutPage)
	})
	mux.HandleFunc("/currencies/bitcoin-cash/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<div class="priceValue"><span>$412.9</span></div>`)
	})
	mux.HandleFunc("/currencies/no-price/", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<html><body><h1>Coming soon</h1></body></html>`)
	})
	mux.HandleFunc("/currencies/broken/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	mux.HandleFunc("/currencies/slow/", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
		fmt.Fprint(w, bitcoinPage)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, lastUserAgent
}

func newClient(srv *httptest.Server, timeout time.Duration) *coinmarketcap.Client {
	return coinmarketcap.NewClient(coinmarketcap.Config{
		BaseURL:   srv.URL + "/currencies/",
		UserAgent: "price-scraper-test/1.0",
		Timeout:   timeout,
	})
}

func TestClient_PageURL(t *testing.T) {
	c := coinmarketcap.NewClient(coinmarketcap.Config{})
	assert.Equal(t, "https://coinmarketcap.com/currencies/bitcoin-cash/", c.PageURL("  Bitcoin Cash "))
}

func TestClient_FetchPrice(t *testing.T) {
	srv, userAgent := newSourceServer(t)
	c := newClient(srv, time.Second)

	price, err := c.FetchPrice(context.Background(), "Bitcoin")

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("64123.45").Equal(price), "got %s", price)
	assert.Equal(t, "price-scraper-test/1.0", userAgent.Load())
}

func TestClient_FetchPrice_FallbackSelector(t *testing.T) {
	srv, _ := newSourceServer(t)
	c := newClient(srv, time.Second)

	price, err := c.FetchPrice(context.Background(), "ethereum")

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("3012.07").Equal(price))
}

func TestClient_FetchPrice_NormalizesCurrency(t *testing.T) {
	srv, _ := newSourceServer(t)
	c := newClient(srv, time.Second)

	price, err := c.FetchPrice(context.Background(), " Bitcoin Cash ")

	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("412.9").Equal(price))
}

func TestClient_FetchPrice_Errors(t *testing.T) {
	srv, _ := newSourceServer(t)

	tests := []struct {
		name     string
		currency string
		timeout  time.Duration
		wantErr  error
	}{
		{name: "page missing", currency: "unknown-coin", timeout: time.Second, wantErr: apperrors.ErrUpstreamNotFound},
		{name: "price node missing", currency: "no price", timeout: time.Second, wantErr: apperrors.ErrUpstreamNotFound},
		{name: "empty currency", currency: "   ", timeout: time.Second, wantErr: apperrors.ErrUpstreamNotFound},
		{name: "upstream error status", currency: "broken", timeout: time.Second, wantErr: apperrors.ErrTransport},
		{name: "timeout", currency: "slow", timeout: 50 * time.Millisecond, wantErr: apperrors.ErrTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newClient(srv, tt.timeout)
			price, err := c.FetchPrice(context.Background(), tt.currency)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, price.IsZero())
		})
	}
}

func TestClient_FetchPrice_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	base := srv.URL
	srv.Close()

	c := coinmarketcap.NewClient(coinmarketcap.Config{BaseURL: base, Timeout: time.Second})
	_, err := c.FetchPrice(context.Background(), "bitcoin")

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.Equal(t, "Connection error, please retry", apperrors.Message(err))
}

func TestClient_CurrencyExists(t *testing.T) {
	srv, _ := newSourceServer(t)
	c := newClient(srv, time.Second)

	ok, err := c.CurrencyExists(context.Background(), "Bitcoin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CurrencyExists(context.Background(), "not-a-coin")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = c.CurrencyExists(context.Background(), "broken")
	assert.ErrorIs(t, err, apperrors.ErrTransport)
	assert.False(t, ok)
}

func TestClient_RejectsDotSegmentCurrencies(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		fmt.Fprint(w, bitcoinPage)
	}))
	t.Cleanup(srv.Close)
	c := newClient(srv, time.Second)

	for _, currency := range []string{"..", ".", " . ", "-", "?"} {
		ok, err := c.CurrencyExists(context.Background(), currency)
		require.NoError(t, err, currency)
		assert.False(t, ok, currency)

		_, err = c.FetchPrice(context.Background(), currency)
		assert.ErrorIs(t, err, apperrors.ErrUpstreamNotFound, currency)
	}
	assert.Zero(t, hits.Load())
}

func TestParsePrice(t *testing.T) {
	tests := []struct {
		raw     string
		want    string
		wantErr bool
	}{
		{raw: "$64,123.45", want: "64123.45"},
		{raw: " $0.000012 ", want: "0.000012"},
		{raw: "1 234.5", want: "1234.5"},
		{raw: "$1,000", want: "1000"},
		{raw: "$0.0₅1234", want: "0.000001234"},
		{raw: "$0.0₁₂98", want: "0.00000000000098"},
		{raw: "-$12.5", want: "-12.5"},
		{raw: "N/A", wantErr: true},
		{raw: "1.2.3", wantErr: true},
		{raw: "12-5", wantErr: true},
		{raw: "$1.5₃", wantErr: true},
		{raw: "$0.0₉₉1", wantErr: true},
		{raw: "$١٢٣", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, err := coinmarketcap.ParsePrice(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.want).Equal(got), "got %s", got)
		})
	}
}
