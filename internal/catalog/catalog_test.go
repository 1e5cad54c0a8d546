package catalog

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var bundled = []RemoteProduct{
	{ProductID: "bundled-1", Name: "Bundled Speaker", Category: "Electronics", IsAvailable: true, Price: 10},
	{ProductID: "bundled-2", Name: "Bundled Pan", Category: "Home", IsAvailable: true, Price: 20},
	{ProductID: "bundled-3", Name: "Retired Item", Category: "Home", IsAvailable: false},
}

// scriptedFetcher answers Fetch calls from a queue of replies.
type scriptedFetcher struct {
	mu          sync.Mutex
	replies     []fetchReply
	invalidated int
}

type fetchReply struct {
	res FetchResult
	err error
}

func (s *scriptedFetcher) Fetch(context.Context) (FetchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.replies) == 0 {
		return FetchResult{Products: []RemoteProduct{}}, ErrFetchFailed
	}
	r := s.replies[0]
	s.replies = s.replies[1:]
	return r.res, r.err
}

func (s *scriptedFetcher) Invalidate() {
	s.mu.Lock()
	s.invalidated++
	s.mu.Unlock()
}

func ok(products ...RemoteProduct) fetchReply {
	return fetchReply{res: FetchResult{Products: products, FetchedAt: time.Unix(1700000000, 0)}}
}

func failed(err error) fetchReply {
	return fetchReply{res: FetchResult{Products: []RemoteProduct{}}, err: err}
}

func newTestCatalog(t *testing.T, f ProductFetcher, opts ...Option) *Catalog {
	t.Helper()
	c, err := New(f, NewNormalizer(nil), bundled, nopLogger(), opts...)
	require.NoError(t, err)
	return c
}

func TestNew_RejectsEmptyBundle(t *testing.T) {
	_, err := New(&scriptedFetcher{}, NewNormalizer(nil), []RemoteProduct{{ProductID: "x", IsAvailable: false}}, nopLogger())
	assert.Error(t, err)
}

func TestCatalog_CurrentBeforeInitializeIsBundled(t *testing.T) {
	c := newTestCatalog(t, &scriptedFetcher{})

	snap := c.Current()
	require.NotNil(t, snap)
	assert.Equal(t, SourceStaticFallback, snap.Source)
	assert.Len(t, snap.Items, 2)
	assert.Equal(t, StateUninitialized, c.State())
}

func TestCatalog_InitializeFallsBackOnNetworkError(t *testing.T) {
	f := NewFetcher("http://catalog.invalid/products.json", nopLogger(), WithHTTPClient(failingDoer()))
	c := newTestCatalog(t, f)

	snap := c.Initialize(context.Background())

	want, err := NewNormalizer(nil).ConvertAll(Available(bundled))
	require.NoError(t, err)
	assert.Equal(t, SourceStaticFallback, snap.Source)
	assert.Equal(t, want, snap.Items)
	assert.Same(t, snap, c.Current())
	assert.Equal(t, StateReady, c.State())
}

func TestCatalog_InitializeRemote(t *testing.T) {
	f := &scriptedFetcher{replies: []fetchReply{ok(
		RemoteProduct{ProductID: "r1", Name: "Remote One", Category: "Electronics", IsAvailable: true},
		RemoteProduct{ProductID: "r2", Name: "Hidden", Category: "Home", IsAvailable: false},
		RemoteProduct{ProductID: "r3", Name: "Remote Three", Category: "Home", IsAvailable: true},
	)}}
	c := newTestCatalog(t, f)

	snap := c.Initialize(context.Background())

	assert.Equal(t, SourceRemote, snap.Source)
	require.Len(t, snap.Items, 2)
	assert.Equal(t, "r1", snap.Items[0].ProductID)
	assert.Equal(t, "r3", snap.Items[1].ProductID)
	assert.Equal(t, time.Unix(1700000000, 0), snap.FetchedAt)
	assert.NotEmpty(t, snap.ID)
	assert.NotEqual(t, c.Fallback().ID, snap.ID)
}

func TestCatalog_InitializeFallsBackOnEmptyList(t *testing.T) {
	c := newTestCatalog(t, &scriptedFetcher{replies: []fetchReply{ok()}})

	snap := c.Initialize(context.Background())
	assert.Equal(t, SourceStaticFallback, snap.Source)
}

func TestCatalog_InitializeFallsBackOnNormalizeError(t *testing.T) {
	f := &scriptedFetcher{replies: []fetchReply{ok(
		RemoteProduct{ProductID: "r1", Name: "Remote", ImageURL: "bad.jpg", IsAvailable: true},
	)}}
	c, err := New(f, NewNormalizer(prefixResolver{failOn: "bad.jpg"}), bundled, nopLogger())
	require.NoError(t, err)

	snap := c.Initialize(context.Background())
	assert.Equal(t, SourceStaticFallback, snap.Source)
}

func TestCatalog_InitializePublishesStaleRemote(t *testing.T) {
	reply := ok(RemoteProduct{ProductID: "r1", Name: "Remote", IsAvailable: true})
	reply.res.Stale = true
	reply.res.Warning = ErrNetwork
	c := newTestCatalog(t, &scriptedFetcher{replies: []fetchReply{reply}})

	snap := c.Initialize(context.Background())
	assert.Equal(t, SourceRemote, snap.Source)
	assert.True(t, snap.Stale)
}

func TestCatalog_RefreshKeepsPreviousSnapshotOnFailure(t *testing.T) {
	f := &scriptedFetcher{replies: []fetchReply{
		ok(RemoteProduct{ProductID: "r1", Name: "Remote", IsAvailable: true}),
		failed(ErrNetwork),
	}}
	c := newTestCatalog(t, f)
	first := c.Initialize(context.Background())
	require.Equal(t, SourceRemote, first.Source)

	snap, err := c.Refresh(context.Background())

	assert.ErrorIs(t, err, ErrNetwork)
	assert.Same(t, first, snap)
	assert.Same(t, first, c.Current())
	assert.Equal(t, 1, f.invalidated)
}

func TestCatalog_RefreshPublishesNewSnapshot(t *testing.T) {
	f := &scriptedFetcher{replies: []fetchReply{
		failed(ErrNetwork),
		ok(RemoteProduct{ProductID: "r1", Name: "Remote", IsAvailable: true}),
	}}
	c := newTestCatalog(t, f)
	require.Equal(t, SourceStaticFallback, c.Initialize(context.Background()).Source)

	snap, err := c.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, SourceRemote, snap.Source)
	assert.Same(t, snap, c.Current())
}

// gatedFetcher blocks each Fetch call until its gate is released, so tests
// can control the order in which overlapping refreshes resolve.
type gatedFetcher struct {
	mu      sync.Mutex
	calls   int
	gates   []chan fetchReply
	started chan int
}

func newGatedFetcher(n int) *gatedFetcher {
	g := &gatedFetcher{started: make(chan int, n)}
	for i := 0; i < n; i++ {
		g.gates = append(g.gates, make(chan fetchReply, 1))
	}
	return g
}

func (g *gatedFetcher) Fetch(ctx context.Context) (FetchResult, error) {
	g.mu.Lock()
	i := g.calls
	g.calls++
	g.mu.Unlock()
	g.started <- i
	r := <-g.gates[i]
	return r.res, r.err
}

func (g *gatedFetcher) Invalidate() {}

func TestCatalog_LastRefreshToResolveWins(t *testing.T) {
	g := newGatedFetcher(2)
	c := newTestCatalog(t, g)

	results := make(chan *Snapshot, 2)
	go func() {
		s, _ := c.Refresh(context.Background())
		results <- s
	}()
	require.Equal(t, 0, <-g.started)
	go func() {
		s, _ := c.Refresh(context.Background())
		results <- s
	}()
	require.Equal(t, 1, <-g.started)
	assert.Equal(t, StateLoading, c.State())

	// The second refresh resolves first, the first one last.
	g.gates[1] <- ok(RemoteProduct{ProductID: "second", Name: "Second", IsAvailable: true})
	<-results
	g.gates[0] <- ok(RemoteProduct{ProductID: "first", Name: "First", IsAvailable: true})
	<-results

	require.Len(t, c.Current().Items, 1)
	assert.Equal(t, "first", c.Current().Items[0].ProductID)
	assert.Equal(t, StateReady, c.State())
}

func TestCatalog_ServesPreviousSnapshotDuringRefresh(t *testing.T) {
	g := newGatedFetcher(1)
	c := newTestCatalog(t, g)
	before := c.Current()

	done := make(chan struct{})
	go func() {
		_, _ = c.Refresh(context.Background())
		close(done)
	}()
	<-g.started

	assert.Same(t, before, c.Current())
	assert.Len(t, c.Search("bundled"), 2)

	g.gates[0] <- failed(errors.New("boom"))
	<-done
	assert.Same(t, before, c.Current())
}

func TestCatalog_QueriesUseCurrentSnapshot(t *testing.T) {
	c := newTestCatalog(t, &scriptedFetcher{})

	assert.Len(t, c.Search("speaker"), 1)
	assert.Len(t, c.ByCategory("home"), 1)
	assert.Len(t, c.CategoriesWithCounts(), 2)
	assert.Len(t, c.Find(FindOptions{Query: "bundled"}), 2)
}

func TestCatalog_Metrics(t *testing.T) {
	m := NewMetrics(nil)
	f := NewFetcher("http://catalog.invalid/products.json", nopLogger(), WithHTTPClient(failingDoer()))
	c := newTestCatalog(t, f, WithMetrics(m))

	c.Initialize(context.Background())

	assert.Equal(t, 1.0, testutil.ToFloat64(m.refreshes.WithLabelValues("static-fallback")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("static-fallback")))
}

func TestCatalog_SnapshotGaugeTracksOnlyCurrentSource(t *testing.T) {
	m := NewMetrics(nil)
	remote := []RemoteProduct{
		{ProductID: "r1", Name: "Remote One", IsAvailable: true},
		{ProductID: "r2", Name: "Remote Two", IsAvailable: true},
		{ProductID: "r3", Name: "Remote Three", IsAvailable: true},
	}
	c := newTestCatalog(t, &scriptedFetcher{replies: []fetchReply{ok(remote...)}}, WithMetrics(m))

	c.Initialize(context.Background())
	assert.Equal(t, 3.0, testutil.ToFloat64(m.items.WithLabelValues("remote")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.items.WithLabelValues("static-fallback")))

	c.publish(c.Fallback())
	assert.Equal(t, 0.0, testutil.ToFloat64(m.items.WithLabelValues("remote")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.items.WithLabelValues("static-fallback")))
}

func TestCatalog_ConcurrentPublishesLeaveOneSourceSet(t *testing.T) {
	m := NewMetrics(nil)
	c := newTestCatalog(t, &scriptedFetcher{}, WithMetrics(m))
	remote := &Snapshot{ID: "remote", Source: SourceRemote, Items: make([]DisplayProduct, 5)}

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if i%2 == 0 {
				c.publish(remote)
			} else {
				c.publish(c.Fallback())
			}
		}()
	}
	wg.Wait()

	cur := c.Current()
	other := SourceRemote
	if cur.Source == SourceRemote {
		other = SourceStaticFallback
	}
	assert.Equal(t, float64(len(cur.Items)), testutil.ToFloat64(m.items.WithLabelValues(string(cur.Source))))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.items.WithLabelValues(string(other))))
}

func TestCatalog_EndToEndWithHTTPSource(t *testing.T) {
	srv := newCatalogServer(t, http.StatusOK, twoProducts)
	f := NewFetcher(srv.URL, nopLogger())
	c := newTestCatalog(t, f)

	snap := c.Initialize(context.Background())
	require.Equal(t, SourceRemote, snap.Source)
	require.Len(t, snap.Items, 1, "unavailable skillet filtered out")
	assert.Equal(t, "B09XS7JWHH", snap.Items[0].ASIN)

	srv.set(http.StatusInternalServerError, "")
	again, err := c.Refresh(context.Background())
	assert.ErrorIs(t, err, ErrFetchFailed)
	assert.Same(t, snap, again)
}
