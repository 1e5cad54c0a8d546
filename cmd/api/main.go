package main

import (
	"expvar"
	"fmt"
	"log"
	"net/http"
	"runtime"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"tubby/internal/catalog"
	"tubby/internal/catalog/fallback"
	"tubby/internal/config"
	applog "tubby/internal/logger"
	"tubby/internal/media"
	"tubby/internal/ratelimiter"
)

var version = "1.0.0"

//	@title			Tubby Catalog API
//	@description	Storefront product catalog: remote catalog with a bundled fallback, search and categories.

//	@BasePath					/v1
//	@securityDefinitions.basic	BasicAuth

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := applog.New(cfg.LogLevel)
	defer logger.Sync()

	app, err := newApplication(cfg, logger)
	if err != nil {
		logger.Fatal(err)
	}

	//Metrics collected http://localhost:8080/v1/debug/vars
	expvar.NewString("version").Set(version)
	expvar.Publish("catalog", expvar.Func(func() any {
		return app.catalogInfo()
	}))
	expvar.Publish("goroutines", expvar.Func(func() any {
		return runtime.NumGoroutine()
	}))

	mux := app.mount()

	if err := app.run(mux); err != nil {
		logger.Fatal(err)
	}
}

// newApplication wires the catalog pipeline: media resolver, normalizer,
// fetcher and the bundled dataset behind the facade.
func newApplication(cfg *config.Config, logger *zap.SugaredLogger) (*application, error) {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := catalog.NewMetrics(registry)

	resolver, err := media.New(cfg.Catalog.MediaBaseURL, cfg.CloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("media resolver: %w", err)
	}

	bundled, err := fallback.Products()
	if err != nil {
		return nil, err
	}

	fetcher := catalog.NewFetcher(cfg.Catalog.URL, logger.Named("fetcher"),
		catalog.WithHTTPClient(&http.Client{}),
		catalog.WithTimeout(cfg.Catalog.Timeout),
		catalog.WithFetchMetrics(metrics),
	)

	cat, err := catalog.New(fetcher, catalog.NewNormalizer(resolver), bundled, logger.Named("catalog"),
		catalog.WithMetrics(metrics),
	)
	if err != nil {
		return nil, err
	}

	app := &application{
		config:   cfg,
		logger:   logger,
		catalog:  cat,
		registry: registry,
	}
	if cfg.RateLimiter.Enabled {
		app.rateLimiter = ratelimiter.NewFixedWindowLimiter(
			cfg.RateLimiter.RequestsPerTimeFrame,
			cfg.RateLimiter.TimeFrame,
		)
	}

	logger.Infow("catalog configured",
		"url", cfg.Catalog.URL,
		"timeout", cfg.Catalog.Timeout,
		"refresh_interval", cfg.Catalog.RefreshInterval.String(),
		"bundled_items", len(cat.Fallback().Items),
		"started", time.Now().Format(time.RFC3339),
	)
	return app, nil
}
