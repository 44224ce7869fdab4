package rates

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/fintrack/internal/currency"
)

type fakeFetcher struct {
	calls atomic.Int32
	mu    sync.Mutex
	rate  string
	err   error
	gate  chan struct{}
}

// Fetch reads the upstream values before waiting on gate, like a source that
// answered before the response made it back.
func (f *fakeFetcher) Fetch(ctx context.Context, base string) (currency.Table, error) {
	f.calls.Add(1)
	f.mu.Lock()
	rate, err := f.rate, f.err
	f.mu.Unlock()

	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return currency.Table{}, ctx.Err()
		}
	}
	if err != nil {
		return currency.Table{}, err
	}
	return currency.NewTable(base, map[string]decimal.Decimal{"EUR": decimal.RequireFromString(rate)}), nil
}

func (f *fakeFetcher) set(rate string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rate, f.err = rate, err
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

func newTestCache(f Fetcher, reg prometheus.Registerer) (*Cache, *clock) {
	clk := &clock{t: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewCache(f, Options{TTL: time.Hour, RetryAfter: time.Minute, Timeout: time.Second, Registerer: reg})
	c.now = clk.now
	return c, clk
}

func TestCacheSnapshotLoadsInBackground(t *testing.T) {
	f := &fakeFetcher{rate: "0.9", gate: make(chan struct{})}
	c, _ := newTestCache(f, nil)

	snap := c.Snapshot("usd")
	assert.Equal(t, currency.StateLoading, snap.State)
	_, err := snap.Convert(decimal.NewFromInt(1), "USD", "EUR")
	assert.ErrorIs(t, err, currency.ErrRatesUnavailable)

	// still loading while the fetch is in flight, and no second fetch starts
	assert.Equal(t, currency.StateLoading, c.Snapshot("USD").State)

	close(f.gate)
	c.Wait()

	snap = c.Snapshot("USD")
	require.Equal(t, currency.StateReady, snap.State)
	assert.Equal(t, int32(1), f.calls.Load())
	got, err := snap.Convert(decimal.NewFromInt(100), "USD", "EUR")
	require.NoError(t, err)
	assert.True(t, got.Equal(decimal.NewFromInt(90)))
}

func TestCacheServesStaleWhileRefreshing(t *testing.T) {
	f := &fakeFetcher{rate: "0.9"}
	c, clk := newTestCache(f, nil)

	_, err := c.Refresh(context.Background(), "USD")
	require.NoError(t, err)

	clk.advance(30 * time.Minute)
	c.Snapshot("USD")
	c.Wait()
	assert.Equal(t, int32(1), f.calls.Load(), "fresh table must not be refetched")

	f.set("0.5", nil)
	clk.advance(31 * time.Minute)
	stale := c.Snapshot("USD")
	assert.Equal(t, currency.StateReady, stale.State)
	assert.True(t, stale.Table.Rates["EUR"].Equal(decimal.RequireFromString("0.9")))
	c.Wait()

	fresh := c.Snapshot("USD")
	assert.True(t, fresh.Table.Rates["EUR"].Equal(decimal.RequireFromString("0.5")))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestCacheFailureState(t *testing.T) {
	boom := errors.New("upstream down")
	f := &fakeFetcher{err: boom}
	reg := prometheus.NewRegistry()
	c, clk := newTestCache(f, reg)

	snap, err := c.Refresh(context.Background(), "USD")
	require.ErrorIs(t, err, boom)
	assert.Equal(t, currency.StateFailed, snap.State)
	assert.Equal(t, currency.StateFailed, c.Snapshot("USD").State)
	c.Wait()
	assert.Equal(t, int32(1), f.calls.Load(), "retry waits for RetryAfter")

	f.set("0.8", nil)
	clk.advance(2 * time.Minute)
	c.Snapshot("USD")
	c.Wait()
	assert.Equal(t, currency.StateReady, c.Snapshot("USD").State)

	// a later failure keeps the good table
	f.set("", boom)
	_, err = c.Refresh(context.Background(), "USD")
	require.Error(t, err)
	assert.Equal(t, currency.StateReady, c.Snapshot("USD").State)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.metrics.fetches.WithLabelValues("USD", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.metrics.fetches.WithLabelValues("USD", "ok")))
}

func TestCacheInvalidate(t *testing.T) {
	f := &fakeFetcher{rate: "0.9"}
	c, _ := newTestCache(f, nil)

	_, err := c.Refresh(context.Background(), "USD")
	require.NoError(t, err)

	f.set("0.7", nil)
	c.Invalidate("USD")
	assert.Equal(t, currency.StateReady, c.Snapshot("USD").State)
	c.Wait()
	assert.True(t, c.Snapshot("USD").Table.Rates["EUR"].Equal(decimal.RequireFromString("0.7")))

	c.Invalidate("GBP") // unknown base is a no-op
}

func TestCacheInvalidateDuringRefresh(t *testing.T) {
	f := &fakeFetcher{rate: "0.9"}
	c, clk := newTestCache(f, nil)

	_, err := c.Refresh(context.Background(), "USD")
	require.NoError(t, err)

	// the TTL refresh reads 0.9 and then stalls
	f.gate = make(chan struct{})
	clk.advance(61 * time.Minute)
	c.Snapshot("USD")
	require.Eventually(t, func() bool { return f.calls.Load() == 2 }, time.Second, time.Millisecond)

	f.set("0.5", nil)
	c.Invalidate("USD")
	close(f.gate)
	c.Wait()

	snap := c.Snapshot("USD")
	require.Equal(t, currency.StateReady, snap.State)
	assert.True(t, snap.Table.Rates["EUR"].Equal(decimal.RequireFromString("0.5")), "got %s", snap.Table.Rates["EUR"])
	assert.Equal(t, int32(3), f.calls.Load())

	c.Wait()
	assert.Equal(t, int32(3), f.calls.Load(), "a current table is not refetched")
}

func TestCacheInvalidateWhileLoading(t *testing.T) {
	f := &fakeFetcher{rate: "0.9", gate: make(chan struct{})}
	c, _ := newTestCache(f, nil)

	assert.Equal(t, currency.StateLoading, c.Snapshot("USD").State)
	require.Eventually(t, func() bool { return f.calls.Load() == 1 }, time.Second, time.Millisecond)

	f.set("0.6", nil)
	c.Invalidate("USD")
	close(f.gate)
	c.Wait()

	snap := c.Snapshot("USD")
	require.Equal(t, currency.StateReady, snap.State)
	assert.True(t, snap.Table.Rates["EUR"].Equal(decimal.RequireFromString("0.6")))
	assert.Equal(t, int32(2), f.calls.Load())
}

func TestCacheRefreshIgnoresCallerCancellation(t *testing.T) {
	var calls atomic.Int32
	fetcher := FetcherFunc(func(ctx context.Context, base string) (currency.Table, error) {
		calls.Add(1)
		if err := ctx.Err(); err != nil {
			return currency.Table{}, err
		}
		return currency.NewTable(base, map[string]decimal.Decimal{"EUR": decimal.RequireFromString("0.9")}), nil
	})
	c, _ := newTestCache(fetcher, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	snap, err := c.Refresh(ctx, "USD")
	require.NoError(t, err)
	assert.Equal(t, currency.StateReady, snap.State)
	assert.Equal(t, currency.StateReady, c.Snapshot("USD").State)
	assert.Equal(t, int32(1), calls.Load())
}
