package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrEmptyCatalog is returned by a load whose fetch produced no products.
var ErrEmptyCatalog = errors.New("catalog: remote list is empty")

// ProductFetcher is what the catalog needs from a fetcher.
type ProductFetcher interface {
	Fetch(ctx context.Context) (FetchResult, error)
	Invalidate()
}

type State int32

const (
	StateUninitialized State = iota
	StateLoading
	StateReady
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateReady:
		return "ready"
	default:
		return "uninitialized"
	}
}

// Catalog is the single access point for the current product set. It owns
// the decision between the remote list and the bundled dataset.
type Catalog struct {
	fetcher    ProductFetcher
	normalizer *Normalizer
	logger     *zap.SugaredLogger
	metrics    *Metrics
	now        func() time.Time

	fallback *Snapshot
	current  atomic.Pointer[Snapshot]
	ready    atomic.Bool
	inflight atomic.Int32

	// publishMu keeps the snapshot gauge in step with the stored pointer.
	publishMu sync.Mutex
}

type Option func(*Catalog)

func WithMetrics(m *Metrics) Option {
	return func(c *Catalog) { c.metrics = m }
}

func WithNow(now func() time.Time) Option {
	return func(c *Catalog) { c.now = now }
}

// New builds a catalog serving the bundled dataset until Initialize
// completes. The bundled dataset must yield at least one available product.
func New(fetcher ProductFetcher, normalizer *Normalizer, bundled []RemoteProduct, logger *zap.SugaredLogger, opts ...Option) (*Catalog, error) {
	c := &Catalog{
		fetcher:    fetcher,
		normalizer: normalizer,
		logger:     logger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	items, err := normalizer.ConvertAll(Available(bundled))
	if err != nil {
		return nil, fmt.Errorf("normalize bundled catalog: %w", err)
	}
	if len(items) == 0 {
		return nil, errors.New("bundled catalog has no available products")
	}
	c.fallback = &Snapshot{
		ID:        uuid.NewString(),
		Items:     items,
		FetchedAt: c.now(),
		Source:    SourceStaticFallback,
	}
	c.current.Store(c.fallback)
	return c, nil
}

// Initialize loads the remote catalog and publishes it, or publishes the
// bundled dataset when the fetch fails, comes back empty, or cannot be
// normalized. It always returns a snapshot.
func (c *Catalog) Initialize(ctx context.Context) *Snapshot {
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	snap, err := c.load(ctx)
	if err != nil {
		c.logger.Warnw("remote catalog unavailable, serving bundled dataset",
			"error", err,
			"items", len(c.fallback.Items),
		)
		c.metrics.observeRefresh(string(SourceStaticFallback))
		snap = c.fallback
	} else {
		c.metrics.observeRefresh(string(SourceRemote))
	}
	c.publish(snap)
	return snap
}

// Refresh forces a network round trip. On failure the previously
// published snapshot stays in place and is returned along with the error.
// Overlapping refreshes are allowed; the last one to finish wins.
func (c *Catalog) Refresh(ctx context.Context) (*Snapshot, error) {
	c.inflight.Add(1)
	defer c.inflight.Add(-1)

	c.fetcher.Invalidate()
	snap, err := c.load(ctx)
	if err != nil {
		prev := c.current.Load()
		c.logger.Warnw("catalog refresh failed, keeping previous snapshot",
			"error", err,
			"snapshot", prev.ID,
			"source", prev.Source,
		)
		c.metrics.observeRefresh("kept")
		c.ready.Store(true)
		return prev, err
	}
	c.metrics.observeRefresh(string(SourceRemote))
	c.publish(snap)
	return snap, nil
}

// Current returns the published snapshot. It never returns nil.
func (c *Catalog) Current() *Snapshot {
	return c.current.Load()
}

// Fallback returns the bundled dataset snapshot.
func (c *Catalog) Fallback() *Snapshot {
	return c.fallback
}

func (c *Catalog) State() State {
	if c.inflight.Load() > 0 {
		return StateLoading
	}
	if c.ready.Load() {
		return StateReady
	}
	return StateUninitialized
}

func (c *Catalog) Search(query string) []DisplayProduct {
	return Search(c.Current(), query)
}

func (c *Catalog) ByCategory(category string) []DisplayProduct {
	return ByCategory(c.Current(), category)
}

func (c *Catalog) CategoriesWithCounts() []CategoryCount {
	return CategoriesWithCounts(c.Current())
}

func (c *Catalog) Find(opts FindOptions) []DisplayProduct {
	return Find(c.Current(), opts)
}

func (c *Catalog) load(ctx context.Context) (*Snapshot, error) {
	res, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	if len(res.Products) == 0 {
		return nil, ErrEmptyCatalog
	}
	if res.Stale {
		c.logger.Warnw("publishing stale catalog", "fetched_at", res.FetchedAt, "cause", res.Warning)
	}

	items, err := c.normalizer.ConvertAll(Available(res.Products))
	if err != nil {
		return nil, fmt.Errorf("normalize remote catalog: %w", err)
	}

	return &Snapshot{
		ID:        uuid.NewString(),
		Items:     items,
		FetchedAt: res.FetchedAt,
		Source:    SourceRemote,
		Stale:     res.Stale,
	}, nil
}

func (c *Catalog) publish(s *Snapshot) {
	c.publishMu.Lock()
	c.current.Store(s)
	c.ready.Store(true)
	c.metrics.observeSnapshot(s)
	c.publishMu.Unlock()

	c.logger.Infow("catalog snapshot published",
		"snapshot", s.ID,
		"source", s.Source,
		"items", len(s.Items),
		"stale", s.Stale,
	)
}
