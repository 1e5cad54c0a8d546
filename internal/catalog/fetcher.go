package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

const (
	// FreshnessWindow is how long a fetched list is reused without a new
	// network call.
	FreshnessWindow = 5 * time.Minute

	DefaultTimeout = 5 * time.Second

	maxBodyBytes = 32 << 20 // 32MB
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// HTTPDoer is satisfied by *http.Client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FetchResult is what Fetch hands back on a non-error return.
type FetchResult struct {
	Products  []RemoteProduct
	FetchedAt time.Time
	// Cached is set when the list came from a fresh cache entry.
	Cached bool
	// Stale is set when the network failed and an expired cache entry was
	// served instead. Warning then holds the cause.
	Stale   bool
	Warning error
}

// Fetcher pulls the remote product list and keeps one cache slot.
type Fetcher struct {
	url     string
	client  HTTPDoer
	timeout time.Duration
	now     func() time.Time
	logger  *zap.SugaredLogger
	metrics *Metrics

	mu       sync.Mutex
	cached   []RemoteProduct
	cachedAt time.Time
	hasCache bool
}

type FetcherOption func(*Fetcher)

func WithHTTPClient(c HTTPDoer) FetcherOption {
	return func(f *Fetcher) { f.client = c }
}

func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

func WithFetchMetrics(m *Metrics) FetcherOption {
	return func(f *Fetcher) { f.metrics = m }
}

func NewFetcher(url string, logger *zap.SugaredLogger, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		url:     url,
		client:  http.DefaultClient,
		timeout: DefaultTimeout,
		now:     time.Now,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the current remote product list. A fresh cache entry is
// returned without touching the network. When the request fails, an
// existing cache entry is served even if expired; only when there is none
// does Fetch return an error, wrapping ErrFetchFailed.
func (f *Fetcher) Fetch(ctx context.Context) (FetchResult, error) {
	f.mu.Lock()
	if f.hasCache && f.now().Sub(f.cachedAt) < FreshnessWindow {
		res := FetchResult{Products: f.cached, FetchedAt: f.cachedAt, Cached: true}
		f.mu.Unlock()
		f.logger.Debugw("using cached catalog", "items", len(res.Products))
		f.metrics.observeFetch("cached")
		return res, nil
	}
	f.mu.Unlock()

	products, err := f.get(ctx)

	f.mu.Lock()
	defer f.mu.Unlock()

	if err == nil {
		now := f.now()
		f.cached, f.cachedAt, f.hasCache = products, now, true
		f.logger.Infow("fetched remote catalog", "url", f.url, "items", len(products))
		f.metrics.observeFetch("fresh")
		return FetchResult{Products: products, FetchedAt: now}, nil
	}

	if f.hasCache {
		f.logger.Warnw("catalog fetch failed, using stale data",
			"url", f.url,
			"cached_at", f.cachedAt,
			"error", err,
		)
		f.metrics.observeFetch("stale")
		return FetchResult{
			Products:  f.cached,
			FetchedAt: f.cachedAt,
			Stale:     true,
			Warning:   err,
		}, nil
	}

	f.logger.Errorw("catalog fetch failed", "url", f.url, "error", err)
	f.metrics.observeFetch("failed")
	return FetchResult{Products: []RemoteProduct{}}, fmt.Errorf("%w: %w", ErrFetchFailed, err)
}

// Invalidate drops the cache slot so the next Fetch goes to the network.
func (f *Fetcher) Invalidate() {
	f.mu.Lock()
	f.cached, f.cachedAt, f.hasCache = nil, time.Time{}, false
	f.mu.Unlock()
}

func (f *Fetcher) get(ctx context.Context) ([]RemoteProduct, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", ErrNetwork, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status %d", ErrNetwork, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", ErrNetwork, err)
	}

	return Decode(body)
}

// Decode parses a JSON array of products and applies the minimal shape
// checks: product_id and name present, price not negative, product_id
// unique. Any violation is reported as ErrInvalidFormat.
func Decode(body []byte) ([]RemoteProduct, error) {
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("%w: body is not valid JSON", ErrInvalidFormat)
	}
	if !gjson.ParseBytes(body).IsArray() {
		return nil, fmt.Errorf("%w: top-level value is not an array", ErrInvalidFormat)
	}

	var products []RemoteProduct
	if err := json.Unmarshal(body, &products); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFormat, err)
	}

	seen := make(map[string]struct{}, len(products))
	for i, p := range products {
		if err := validate.Struct(p); err != nil {
			return nil, fmt.Errorf("%w: item %d: %w", ErrInvalidFormat, i, err)
		}
		if _, dup := seen[p.ProductID]; dup {
			return nil, fmt.Errorf("%w: duplicate product_id %q", ErrInvalidFormat, p.ProductID)
		}
		seen[p.ProductID] = struct{}{}
	}

	if products == nil {
		products = []RemoteProduct{}
	}
	return products, nil
}
