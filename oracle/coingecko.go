// Package oracle provides the USD price lookups the seller flow uses to
// convert a USD-denominated ask into token units. It is an external
// collaborator of the payment core: its failures surface to the seller UI
// and never reach the payment builder.
package oracle

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultBaseURL is the CoinGecko simple-price API root.
const DefaultBaseURL = "https://api.coingecko.com/api/v3"

var (
	// ErrUnsupportedCurrency means the symbol has no known quote id.
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	// ErrPriceFetchFailed means the quote API could not be reached or
	// returned an unusable response.
	ErrPriceFetchFailed = errors.New("price fetch failed")
)

// symbol → CoinGecko coin id, lowercase
var coinIDs = map[string]string{
	"eth":   "ethereum",
	"btc":   "bitcoin",
	"sol":   "solana",
	"bnb":   "binancecoin",
	"busd":  "binance-usd",
	"usdt":  "tether",
	"usdc":  "usd-coin",
	"dai":   "dai",
	"link":  "chainlink",
	"cake":  "pancakeswap-token",
	"twt":   "trust-wallet-token",
	"alice": "my-neighbor-alice",
	"band":  "band-protocol",
	"trx":   "tron",
	"btt":   "bittorrent",
	"jst":   "just",
	"sun":   "sun-token",
	"ray":   "raydium",
	"srm":   "serum",
	"orca":  "orca",
	"hype":  "hyperliquid",
}

// conversion results are limited to 5 fractional digits, enough precision
// for an invoice without unpayable dust amounts
const conversionScale = 5

// Client queries a CoinGecko-compatible simple-price endpoint.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a price client. A nil httpClient gets a 10s-timeout
// default; an empty baseURL uses the public CoinGecko API.
func NewClient(httpClient *http.Client, baseURL string) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), http: httpClient}
}

// USDPrice returns the current USD price of one unit of the asset.
func (c *Client) USDPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	coinID, ok := coinIDs[strings.ToLower(strings.TrimSpace(symbol))]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s", ErrUnsupportedCurrency, symbol)
	}

	endpoint := fmt.Sprintf("%s/simple/price?ids=%s&vs_currencies=usd",
		c.baseURL, url.QueryEscape(coinID))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %v", ErrPriceFetchFailed, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w for %s: %v", ErrPriceFetchFailed, symbol, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return decimal.Zero, fmt.Errorf("%w for %s: status %d", ErrPriceFetchFailed, symbol, resp.StatusCode)
	}

	var quotes map[string]map[string]decimal.Decimal
	if err := json.NewDecoder(resp.Body).Decode(&quotes); err != nil {
		return decimal.Zero, fmt.Errorf("%w for %s: %v", ErrPriceFetchFailed, symbol, err)
	}

	price, ok := quotes[coinID]["usd"]
	if !ok || !price.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w for %s: no usd quote", ErrPriceFetchFailed, symbol)
	}
	return price, nil
}

// ConvertUSD converts a USD-denominated ask into token units, rounded to
// 5 fractional digits.
func (c *Client) ConvertUSD(ctx context.Context, amountUSD decimal.Decimal, symbol string) (decimal.Decimal, error) {
	if !amountUSD.IsPositive() {
		return decimal.Zero, fmt.Errorf("usd amount must be greater than zero, got %s", amountUSD)
	}

	price, err := c.USDPrice(ctx, symbol)
	if err != nil {
		return decimal.Zero, err
	}
	return amountUSD.Div(price).Round(conversionScale), nil
}
