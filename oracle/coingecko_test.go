package oracle

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
)

func priceServer(t *testing.T, status int, body string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Path; got != "/simple/price" {
			t.Errorf("path = %s, want /simple/price", got)
		}
		w.WriteHeader(status)
		fmt.Fprint(w, body)
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.Client(), srv.URL)
}

func TestUSDPrice(t *testing.T) {
	c := priceServer(t, http.StatusOK, `{"ethereum":{"usd":2000.5}}`)

	price, err := c.USDPrice(context.Background(), "ETH")
	if err != nil {
		t.Fatal(err)
	}
	if !price.Equal(decimal.RequireFromString("2000.5")) {
		t.Errorf("price = %s, want 2000.5", price)
	}
}

func TestUSDPriceQueriesCoinID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("ids"); got != "pancakeswap-token" {
			t.Errorf("ids = %q, want pancakeswap-token", got)
		}
		if got := r.URL.Query().Get("vs_currencies"); got != "usd" {
			t.Errorf("vs_currencies = %q, want usd", got)
		}
		fmt.Fprint(w, `{"pancakeswap-token":{"usd":2.5}}`)
	}))
	defer srv.Close()

	c := NewClient(srv.Client(), srv.URL)
	if _, err := c.USDPrice(context.Background(), "cake"); err != nil {
		t.Fatal(err)
	}
}

func TestUSDPriceUnsupportedCurrency(t *testing.T) {
	c := NewClient(nil, "")

	_, err := c.USDPrice(context.Background(), "WAGMI")
	if !errors.Is(err, ErrUnsupportedCurrency) {
		t.Errorf("err = %v, want ErrUnsupportedCurrency", err)
	}
}

func TestUSDPriceFetchFailures(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{"rate limited", http.StatusTooManyRequests, ``},
		{"not json", http.StatusOK, `<html>maintenance</html>`},
		{"missing quote", http.StatusOK, `{"ethereum":{}}`},
		{"zero price", http.StatusOK, `{"ethereum":{"usd":0}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := priceServer(t, tt.status, tt.body)
			_, err := c.USDPrice(context.Background(), "eth")
			if !errors.Is(err, ErrPriceFetchFailed) {
				t.Errorf("err = %v, want ErrPriceFetchFailed", err)
			}
		})
	}
}

func TestConvertUSD(t *testing.T) {
	c := priceServer(t, http.StatusOK, `{"ethereum":{"usd":3000}}`)

	got, err := c.ConvertUSD(context.Background(), decimal.RequireFromString("100"), "eth")
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(decimal.RequireFromString("0.03333")) {
		t.Errorf("converted = %s, want 0.03333 (rounded to 5 digits)", got)
	}
}

func TestConvertUSDRejectsNonPositiveAmount(t *testing.T) {
	c := NewClient(nil, "")

	if _, err := c.ConvertUSD(context.Background(), decimal.Zero, "eth"); err == nil {
		t.Error("expected an error for a zero usd amount")
	}
}
