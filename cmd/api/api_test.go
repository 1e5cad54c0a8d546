package main

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"tubby/internal/config"
	"tubby/internal/ratelimiter"
)

const remoteCatalog = `[
  {"product_id": "remote-speaker", "name": "Remote Speaker", "description": "Loud and portable",
   "price": 99.5, "currency": "USD", "affiliate_url": "https://www.amazon.com/dp/B0REMOTE01?tag=x",
   "image_url": "https://img.example/speaker.jpg", "category": "Electronics", "is_available": true},
  {"product_id": "remote-collar", "name": "Reflective Dog Collar", "description": "Night walks",
   "price": 20, "currency": "USD", "affiliate_url": "https://www.amazon.com/dp/B0COLLAR01",
   "image_url": "https://img.example/collar.jpg", "category": "pet-supplies", "is_available": true}
]`

// upstream serves the remote catalog once healthy is set, and a 503 before.
type upstream struct {
	healthy atomic.Bool
}

func (u *upstream) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !u.healthy.Load() {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	io.WriteString(w, remoteCatalog)
}

func newTestApplication(t *testing.T, mutate func(*config.Config)) (*application, *upstream) {
	t.Helper()

	up := &upstream{}
	srv := httptest.NewServer(up)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Addr: ":0",
		Env:  "test",
		Catalog: config.CatalogConfig{
			URL:     srv.URL,
			Timeout: time.Second,
		},
	}
	if mutate != nil {
		mutate(cfg)
	}

	app, err := newApplication(cfg, zap.NewNop().Sugar())
	require.NoError(t, err)
	return app, up
}

func serve(app *application, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	app.mount().ServeHTTP(rr, req)
	return rr
}

func decodeData(t *testing.T, rr *httptest.ResponseRecorder, v any) {
	t.Helper()
	envelope := struct {
		Data json.RawMessage `json:"data"`
	}{}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, v))
}

type productsPage struct {
	Products []struct {
		ProductID string  `json:"product_id"`
		ASIN      string  `json:"asin"`
		Name      string  `json:"name"`
		Price     float64 `json:"price"`
		Category  string  `json:"category"`
	} `json:"products"`
	Count      int    `json:"count"`
	SnapshotID string `json:"snapshot_id"`
	Source     string `json:"source"`
	Pagination struct {
		Total   int  `json:"total"`
		HasNext bool `json:"has_next"`
	} `json:"pagination"`
}

func TestHealthCheck(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/health", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Catalog struct {
			Source string `json:"source"`
			State  string `json:"state"`
			Items  int    `json:"items"`
		} `json:"catalog"`
	}
	decodeData(t, rr, &body)
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, version, body.Version)
	assert.Equal(t, "static-fallback", body.Catalog.Source)
	assert.Equal(t, "uninitialized", body.Catalog.State)
	assert.Equal(t, 9, body.Catalog.Items)
}

func TestListProducts_ServesFallbackBeforeFirstLoad(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products?limit=4&page=1", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var page productsPage
	decodeData(t, rr, &page)
	assert.Len(t, page.Products, 4)
	assert.Equal(t, 9, page.Pagination.Total)
	assert.True(t, page.Pagination.HasNext)
	assert.Equal(t, "static-fallback", page.Source)
	assert.Equal(t, "sony-wh1000xm5", page.Products[0].ProductID)
	assert.Equal(t, "B09XS7JWHH", page.Products[0].ASIN)
}

func TestListProducts_ETag(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	etag := rr.Header().Get("ETag")
	require.NotEmpty(t, etag)

	req := httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("If-None-Match", etag)
	rr = serve(app, req)
	assert.Equal(t, http.StatusNotModified, rr.Code)
	assert.Empty(t, rr.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/v1/products", nil)
	req.Header.Set("If-None-Match", `"some-older-snapshot"`)
	rr = serve(app, req)
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestSearchProducts(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	t.Run("plain query", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/search?q=SONY", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var page productsPage
		decodeData(t, rr, &page)
		require.Equal(t, 1, page.Count)
		assert.Equal(t, "sony-wh1000xm5", page.Products[0].ProductID)
	})

	t.Run("no match", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/search?q=nonexistent", nil))
		require.Equal(t, http.StatusOK, rr.Code)
		assert.Contains(t, rr.Body.String(), `"products":[]`)
	})

	t.Run("filtered", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet,
			"/v1/products/search?q=dog&category=pet-supplies&max_price=100", nil))
		require.Equal(t, http.StatusOK, rr.Code)

		var page productsPage
		decodeData(t, rr, &page)
		require.NotEmpty(t, page.Products)
		for _, p := range page.Products {
			assert.Equal(t, "pet-supplies", p.Category)
			assert.LessOrEqual(t, p.Price, 100.0)
		}
	})

	t.Run("missing query", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/search", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("malformed price", func(t *testing.T) {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/search?q=dog&max_price=cheap", nil))
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Contains(t, rr.Body.String(), "max_price")
	})
}

func TestGetProduct(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	for _, id := range []string{"B09XS7JWHH", "sony-wh1000xm5"} {
		rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/"+id, nil))
		require.Equal(t, http.StatusOK, rr.Code, id)
		assert.Contains(t, rr.Body.String(), `"product_id":"sony-wh1000xm5"`)
	}

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/B000000000", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductSpeech(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/B09XS7JWHH/speech", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Speech string `json:"speech"`
	}
	decodeData(t, rr, &body)
	assert.True(t, strings.HasPrefix(body.Speech, "I found the "))
	assert.Contains(t, body.Speech, "USD 348.00")
}

func TestCategories(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/categories", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var categories []struct {
		Name        string `json:"name"`
		Count       int    `json:"count"`
		DisplayName string `json:"display_name"`
	}
	decodeData(t, rr, &categories)
	require.Len(t, categories, 4)
	assert.Equal(t, "electronics", categories[0].Name)
	assert.Equal(t, "pet-supplies", categories[1].Name)
	assert.Equal(t, "Pet Supplies", categories[1].DisplayName)
	assert.Equal(t, 3, categories[1].Count)

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/categories/pet-supplies/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var page productsPage
	decodeData(t, rr, &page)
	assert.Equal(t, 3, page.Count)

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/categories/Pet-Supplies/products", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	decodeData(t, rr, &page)
	assert.Zero(t, page.Count, "category match is exact")
}

func TestCategoryProducts_Escaping(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	var body struct {
		Category string `json:"category"`
		Count    int    `json:"count"`
	}

	rr := serve(app, httptest.NewRequest(http.MethodGet, "/v1/categories/100%25-cotton/products", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &body)
	assert.Equal(t, "100%-cotton", body.Category)
	assert.Zero(t, body.Count)

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/categories/pet%2Dsupplies/products", nil))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	decodeData(t, rr, &body)
	assert.Equal(t, "pet-supplies", body.Category)
	assert.Equal(t, 3, body.Count)
}

func TestRefreshCatalog(t *testing.T) {
	hash, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	app, up := newTestApplication(t, func(cfg *config.Config) {
		cfg.Auth = config.AuthConfig{User: "ops", PassHash: string(hash)}
	})

	refresh := func(user, pass string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/v1/catalog/refresh", nil)
		if user != "" {
			req.SetBasicAuth(user, pass)
		}
		return serve(app, req)
	}

	assert.Equal(t, http.StatusUnauthorized, refresh("", "").Code)
	assert.Equal(t, http.StatusUnauthorized, refresh("ops", "wrong").Code)

	rr := refresh("ops", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"refreshed":false`)
	assert.Contains(t, rr.Body.String(), `"source":"static-fallback"`)

	up.healthy.Store(true)
	rr = refresh("ops", "s3cret")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"refreshed":true`)

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/catalog", nil))
	var info catalogStatus
	decodeData(t, rr, &info)
	assert.Equal(t, "remote", string(info.Source))
	assert.Equal(t, "ready", info.State)
	assert.Equal(t, 2, info.Items)

	rr = serve(app, httptest.NewRequest(http.MethodGet, "/v1/products/B0COLLAR01", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestBasicAuth_NotConfigured(t *testing.T) {
	app, _ := newTestApplication(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/debug/vars", nil)
	req.SetBasicAuth("", "")
	rr := serve(app, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
}

func TestRateLimiterMiddleware(t *testing.T) {
	app, _ := newTestApplication(t, func(cfg *config.Config) {
		cfg.RateLimiter = config.RateLimiterConfig{Enabled: true, RequestsPerTimeFrame: 2, TimeFrame: time.Minute}
	})
	require.IsType(t, &ratelimiter.FixedWindowRateLimiter{}, app.rateLimiter)

	mux := app.mount()
	do := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
		req.RemoteAddr = "10.1.1.1:5555"
		rr := httptest.NewRecorder()
		mux.ServeHTTP(rr, req)
		return rr
	}

	assert.Equal(t, http.StatusOK, do().Code)
	assert.Equal(t, http.StatusOK, do().Code)

	rr := do()
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Equal(t, "60", rr.Header().Get("Retry-After"))
}

func TestMetricsEndpoint(t *testing.T) {
	app, up := newTestApplication(t, nil)
	up.healthy.Store(true)

	mux := app.mount()
	app.catalog.Initialize(t.Context())
	mux.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/products/B0REMOTE01", nil))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	body := rr.Body.String()
	assert.Contains(t, body, `request_duration_seconds_count{code="200",method="GET",url="/v1/products/{productID}`)
	assert.Contains(t, body, `catalog_fetch_total{result="fresh"} 1`)
	assert.Contains(t, body, `catalog_refresh_total{outcome="remote"} 1`)
	assert.Contains(t, body, `catalog_snapshot_items{source="remote"} 2`)
}

func TestSwaggerDocs(t *testing.T) {
	app, _ := newTestApplication(t, nil)
	mux := app.mount()

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/swagger/doc.json", nil))
	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Info struct {
			Title   string `json:"title"`
			Version string `json:"version"`
		} `json:"info"`
		BasePath string                     `json:"basePath"`
		Paths    map[string]json.RawMessage `json:"paths"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&doc))
	assert.Equal(t, "Tubby Catalog API", doc.Info.Title)
	assert.Equal(t, version, doc.Info.Version)
	assert.Equal(t, "/v1", doc.BasePath)
	for _, path := range []string{"/health", "/catalog/refresh", "/products/search", "/categories/{category}/products"} {
		assert.Contains(t, doc.Paths, path)
	}

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/v1/swagger/index.html", nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "swagger-ui")
}
