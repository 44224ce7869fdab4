package rates

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"

	"github.com/mmynk/fintrack/internal/currency"
)

// Options configures a Cache.
type Options struct {
	// TTL is how long a fetched table counts as fresh.
	TTL time.Duration
	// RetryAfter is the minimum wait before retrying a failed fetch.
	RetryAfter time.Duration
	// Timeout bounds background refreshes.
	Timeout time.Duration
	// Registerer receives the cache metrics. Nil disables metrics.
	Registerer prometheus.Registerer
	Logger     *slog.Logger
}

type entry struct {
	snapshot   currency.Snapshot
	attempted  time.Time
	refreshing bool
	stale      bool
	// gen is bumped by Invalidate. A fetch that started under an older gen
	// leaves the entry stale.
	gen uint64
}

// Cache keeps one rate table per base currency together with its state.
//
// Snapshot never blocks: a missing table is reported as loading while it is
// fetched in the background, and a stale one keeps being served as ready
// until the refresh lands. Concurrent fetches for the same base are collapsed.
type Cache struct {
	fetcher Fetcher
	opts    Options
	logger  *slog.Logger
	metrics *metrics
	now     func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
	group   singleflight.Group
	wg      sync.WaitGroup
}

// NewCache creates a cache in front of fetcher.
func NewCache(fetcher Fetcher, opts Options) *Cache {
	if opts.TTL <= 0 {
		opts.TTL = time.Hour
	}
	if opts.RetryAfter <= 0 {
		opts.RetryAfter = 30 * time.Second
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 10 * time.Second
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Cache{
		fetcher: fetcher,
		opts:    opts,
		logger:  logger.With("component", "rates"),
		metrics: newMetrics(opts.Registerer),
		now:     time.Now,
		entries: make(map[string]*entry),
	}
}

// Snapshot returns the current state of the table for base, starting a
// background refresh when the table is missing, stale, or due for a retry.
func (c *Cache) Snapshot(base string) currency.Snapshot {
	base = currency.Normalize(base)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(base)
	c.maybeRefresh(base, e)
	return e.snapshot
}

// entry returns the entry for base, creating a loading one. Callers hold c.mu.
func (c *Cache) entry(base string) *entry {
	e, ok := c.entries[base]
	if !ok {
		e = &entry{snapshot: currency.Snapshot{State: currency.StateLoading}}
		c.entries[base] = e
	}
	return e
}

// maybeRefresh starts a background refresh of e when it is due and none is
// running. Callers hold c.mu.
func (c *Cache) maybeRefresh(base string, e *entry) {
	if e.refreshing || !c.due(e, c.now()) {
		return
	}
	e.refreshing = true
	c.wg.Add(1)
	go c.refreshInBackground(base)
}

// due reports whether e should be refetched. Callers hold c.mu.
func (c *Cache) due(e *entry, now time.Time) bool {
	switch e.snapshot.State {
	case currency.StateReady:
		return e.stale || now.Sub(e.snapshot.FetchedAt) >= c.opts.TTL
	case currency.StateFailed:
		return now.Sub(e.attempted) >= c.opts.RetryAfter
	default:
		return e.attempted.IsZero()
	}
}

func (c *Cache) refreshInBackground(base string) {
	defer c.wg.Done()
	// Errors are recorded on the entry.
	_, _ = c.Refresh(context.Background(), base)

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(base)
	e.refreshing = false
	// Still stale when Invalidate ran during the fetch.
	c.maybeRefresh(base, e)
}

// Refresh fetches the table for base now and returns the resulting snapshot.
// Concurrent callers share one fetch. It runs detached from ctx, bounded by
// Options.Timeout, so one caller giving up does not fail the others.
// A failed fetch keeps previously fetched data ready; without previous data
// the snapshot moves to the failed state.
func (c *Cache) Refresh(ctx context.Context, base string) (currency.Snapshot, error) {
	base = currency.Normalize(base)
	v, err, _ := c.group.Do(base, func() (any, error) {
		return c.fetch(ctx, base)
	})
	snap, _ := v.(currency.Snapshot)
	return snap, err
}

func (c *Cache) fetch(ctx context.Context, base string) (currency.Snapshot, error) {
	c.mu.Lock()
	gen := c.entry(base).gen
	c.mu.Unlock()

	fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.opts.Timeout)
	defer cancel()
	start := time.Now()
	table, err := c.fetcher.Fetch(fetchCtx, base)
	c.metrics.observe(base, err, time.Since(start))

	c.mu.Lock()
	defer c.mu.Unlock()
	e := c.entry(base)
	e.attempted = c.now()

	if err != nil {
		c.logger.Warn("Exchange rate fetch failed", "base", base, "error", err)
		if e.snapshot.State != currency.StateReady {
			e.snapshot = currency.Snapshot{State: currency.StateFailed, Err: err}
		}
		return e.snapshot, err
	}

	e.stale = e.gen != gen
	e.snapshot = currency.Snapshot{State: currency.StateReady, Table: table, FetchedAt: e.attempted}
	c.logger.Debug("Exchange rates refreshed", "base", base, "currencies", len(table.Rates), "stale", e.stale)
	return e.snapshot, nil
}

// Invalidate marks the table for base out of date so the next Snapshot
// refetches it. A ready table is served until the new one lands. A fetch
// already in flight when Invalidate runs does not count as the refetch.
func (c *Cache) Invalidate(base string) {
	base = currency.Normalize(base)
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[base]
	if !ok {
		return
	}
	e.gen++
	if e.snapshot.State == currency.StateReady {
		e.stale = true
		return
	}
	e.snapshot = currency.Snapshot{State: currency.StateLoading}
	e.attempted = time.Time{}
}

// Wait blocks until background refreshes started so far have finished.
func (c *Cache) Wait() {
	c.wg.Wait()
}

type metrics struct {
	fetches  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics(reg prometheus.Registerer) *metrics {
	if reg == nil {
		return nil
	}
	m := &metrics{
		fetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fintrack",
			Subsystem: "rates",
			Name:      "fetches_total",
			Help:      "Exchange rate table fetches by base currency and result.",
		}, []string{"base", "result"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fintrack",
			Subsystem: "rates",
			Name:      "fetch_duration_seconds",
			Help:      "Time spent fetching exchange rate tables.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(m.fetches, m.duration)
	return m
}

func (m *metrics) observe(base string, err error, elapsed time.Duration) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.fetches.WithLabelValues(base, result).Inc()
	m.duration.Observe(elapsed.Seconds())
}
