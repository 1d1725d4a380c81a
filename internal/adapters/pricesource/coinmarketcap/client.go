package coinmarketcap

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"github.com/SscSPs/price_scraper_app/internal/apperrors"
	"github.com/SscSPs/price_scraper_app/internal/core/domain"
	"github.com/SscSPs/price_scraper_app/internal/core/ports/external"
	"github.com/shopspring/decimal"
)

const (
	DefaultBaseURL  = "https://coinmarketcap.com/currencies"
	DefaultSelector = `div[class*="priceValue"]`
)

// fallbackSelectors are tried after the configured selector, newest page layout first.
var fallbackSelectors = []string{
	`span[data-test="text-cdp-price-display"]`,
	`[class*="priceValue"] span`,
}

// Config configures the page scraper.
type Config struct {
	BaseURL   string
	Selector  string
	UserAgent string
	Timeout   time.Duration
}

// Client scrapes currency prices from coinmarketcap style pages: one page per currency slug,
// price rendered as text inside a node matched by a CSS selector.
type Client struct {
	baseURL   string
	selectors []string
	userAgent string
	client    *http.Client
}

var _ external.PriceSource = (*Client)(nil)

// NewClient creates a Client. Empty fields fall back to the coinmarketcap defaults.
func NewClient(cfg Config) *Client {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	selector := strings.TrimSpace(cfg.Selector)
	if selector == "" {
		selector = DefaultSelector
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 60 * time.Second,
		}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &Client{
		baseURL:   baseURL,
		selectors: append([]string{selector}, fallbackSelectors...),
		userAgent: cfg.UserAgent,
		client: &http.Client{
			Timeout:   timeout,
			Transport: tr,
		},
	}
}

// PageURL builds the page address for currency, e.g. "Bitcoin Cash" -> {base}/bitcoin-cash/.
func (c *Client) PageURL(currency string) string {
	return c.baseURL + "/" + url.PathEscape(domain.CurrencySlug(currency)) + "/"
}

// addressable reports whether slug names a page. It needs a letter or digit, which also rules out dot segments.
func addressable(slug string) bool {
	return strings.IndexFunc(slug, func(r rune) bool {
		return unicode.IsLetter(r) || unicode.IsDigit(r)
	}) >= 0
}

func (c *Client) get(ctx context.Context, currency string) (*http.Response, error) {
	if !addressable(domain.CurrencySlug(currency)) {
		return nil, apperrors.NewAppError(apperrors.KindUpstreamNotFound,
			fmt.Sprintf("[%s] is not a valid currency name", strings.TrimSpace(currency)), nil)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.PageURL(currency), nil)
	if err != nil {
		return nil, apperrors.NewAppError(apperrors.KindInternal, "Please retry", fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "text/html")
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, err
		}
		return nil, apperrors.NewAppError(apperrors.KindTransportFailure, "Connection error, please retry", err)
	}
	return resp, nil
}

func (c *Client) notFound(currency string) error {
	return apperrors.NewAppError(apperrors.KindUpstreamNotFound,
		fmt.Sprintf("%s not found in %s", domain.CurrencySlug(currency), c.PageURL(currency)), nil)
}

// FetchPrice downloads the currency page and extracts the displayed price.
func (c *Client) FetchPrice(ctx context.Context, currency string) (decimal.Decimal, error) {
	resp, err := c.get(ctx, currency)
	if err != nil {
		return decimal.Zero, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return decimal.Zero, c.notFound(currency)
	}
	if resp.StatusCode/100 != 2 {
		return decimal.Zero, apperrors.NewAppError(apperrors.KindTransportFailure, "Connection error, please retry",
			fmt.Errorf("price source returned http %d", resp.StatusCode))
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(apperrors.KindTransportFailure, "Connection error, please retry",
			fmt.Errorf("read page: %w", err))
	}

	var raw string
	for _, sel := range c.selectors {
		raw = strings.TrimSpace(doc.Find(sel).First().Text())
		if raw != "" {
			break
		}
	}
	if raw == "" {
		return decimal.Zero, apperrors.NewAppError(apperrors.KindUpstreamNotFound,
			fmt.Sprintf("[%s] not found", strings.TrimSpace(currency)), nil)
	}

	price, err := ParsePrice(raw)
	if err != nil {
		return decimal.Zero, apperrors.NewAppError(apperrors.KindUpstreamNotFound,
			fmt.Sprintf("[%s] price could not be read", strings.TrimSpace(currency)), err)
	}
	return price, nil
}

// CurrencyExists reports whether the source serves a page for currency.
func (c *Client) CurrencyExists(ctx context.Context, currency string) (bool, error) {
	resp, err := c.get(ctx, currency)
	if err != nil {
		if apperrors.KindOf(err) == apperrors.KindUpstreamNotFound {
			return false, nil
		}
		return false, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode/100 == 2:
		return true, nil
	default:
		return false, apperrors.NewAppError(apperrors.KindTransportFailure, "Connection error, please retry",
			fmt.Errorf("price source returned http %d", resp.StatusCode))
	}
}

// maxSubscriptZeros bounds the zero run a subscript may expand to.
const maxSubscriptZeros = 30

func isSubscriptDigit(r rune) bool {
	return r >= '₀' && r <= '₉'
}

// ParsePrice turns a displayed price such as "$64,123.45" into a decimal.
// Currency symbols, thousands separators and whitespace are dropped. A zero followed by
// subscript digits is a zero run, so "$0.0₅1234" reads as 0.000001234.
func ParsePrice(raw string) (decimal.Decimal, error) {
	runes := []rune(raw)
	var b strings.Builder
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '0' && i+1 < len(runes) && isSubscriptDigit(runes[i+1]):
			n := 0
			for i+1 < len(runes) && isSubscriptDigit(runes[i+1]) {
				i++
				n = n*10 + int(runes[i]-'₀')
				if n > maxSubscriptZeros {
					return decimal.Zero, fmt.Errorf("zero run too long in %q", raw)
				}
			}
			b.WriteString(strings.Repeat("0", n))
		case r >= '0' && r <= '9', r == '.':
			b.WriteRune(r)
		case r == '-':
			if b.Len() > 0 {
				return decimal.Zero, fmt.Errorf("misplaced sign in %q", raw)
			}
			b.WriteRune(r)
		case unicode.IsNumber(r):
			return decimal.Zero, fmt.Errorf("unexpected digit %q in %q", r, raw)
		}
	}
	cleaned := b.String()
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("no digits in %q", raw)
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse %q: %w", raw, err)
	}
	return d, nil
}
