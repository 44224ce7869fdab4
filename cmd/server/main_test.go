package main

import (
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/config"
	"github.com/mmynk/fintrack/internal/rates"
	"github.com/mmynk/fintrack/internal/storage/sqlite"
)

func TestCORSPreflight(t *testing.T) {
	called := false
	h := corsMiddleware("https://app.example.com", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/fintrack.v1.PeopleService/GetDebts", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/fintrack.v1.PeopleService/GetDebts", nil))
	assert.True(t, called)
}

func TestRateSource(t *testing.T) {
	store, err := sqlite.New(filepath.Join(t.TempDir(), "rates.db"))
	require.NoError(t, err)
	defer store.Close()

	fetcher, rateStore := rateSource(&config.Config{RatesSource: config.RatesSourceStore}, store)
	assert.IsType(t, rates.StoreFetcher{}, fetcher)
	assert.NotNil(t, rateStore)

	fetcher, rateStore = rateSource(&config.Config{RatesSource: config.RatesSourceHTTP, RatesURL: "https://rates.example.com/latest"}, store)
	assert.IsType(t, &rates.HTTPFetcher{}, fetcher)
	assert.Nil(t, rateStore)
}
