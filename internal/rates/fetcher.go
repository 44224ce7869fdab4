// Package rates supplies exchange-rate tables: fetchers for the sources
// fintrack can read from, and a cache that tracks each table's availability.
package rates

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mmynk/fintrack/internal/currency"
	"github.com/mmynk/fintrack/internal/storage"
)

// Fetcher loads the complete rate table for a base currency.
type Fetcher interface {
	Fetch(ctx context.Context, base string) (currency.Table, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, base string) (currency.Table, error)

func (f FetcherFunc) Fetch(ctx context.Context, base string) (currency.Table, error) {
	return f(ctx, base)
}

// maxResponseBytes caps how much of a rate API response is read.
const maxResponseBytes = 1 << 20

// HTTPFetcher reads rates from a JSON API answering
// GET {URL}?base=USD with {"base": "USD", "rates": {"EUR": 0.9, ...}}.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher whose requests time out after timeout.
func NewHTTPFetcher(rawURL string, timeout time.Duration) *HTTPFetcher {
	return &HTTPFetcher{URL: rawURL, Client: &http.Client{Timeout: timeout}}
}

type ratesResponse struct {
	Base  string                     `json:"base"`
	Rates map[string]decimal.Decimal `json:"rates"`
}

// Fetch requests the table for base.
func (f *HTTPFetcher) Fetch(ctx context.Context, base string) (currency.Table, error) {
	u, err := url.Parse(f.URL)
	if err != nil {
		return currency.Table{}, fmt.Errorf("invalid rates URL: %w", err)
	}
	q := u.Query()
	q.Set("base", base)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return currency.Table{}, fmt.Errorf("failed to build rates request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return currency.Table{}, fmt.Errorf("rates request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return currency.Table{}, fmt.Errorf("rates request failed: %s", resp.Status)
	}

	var body ratesResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return currency.Table{}, fmt.Errorf("failed to decode rates: %w", err)
	}
	if body.Base != "" && currency.Normalize(body.Base) != base {
		return currency.Table{}, fmt.Errorf("rates source answered for base %s, asked for %s", body.Base, base)
	}
	if len(body.Rates) == 0 {
		return currency.Table{}, fmt.Errorf("rates source returned no rates for %s", base)
	}
	return currency.NewTable(base, body.Rates), nil
}

// StoreFetcher reads manually maintained rates from the database.
type StoreFetcher struct {
	Store storage.RateStore
}

// Fetch returns the stored table for base. A base with no stored rates yields
// a table that only supports same-currency and base conversions.
func (f StoreFetcher) Fetch(ctx context.Context, base string) (currency.Table, error) {
	stored, err := f.Store.ListRates(ctx, base)
	if err != nil {
		return currency.Table{}, err
	}
	return currency.NewTable(base, stored), nil
}
