package main

import (
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"tubby/internal/catalog"
	"tubby/internal/catalog/fallback"
	"tubby/internal/config"
	applog "tubby/internal/logger"
	"tubby/internal/media"
)

// rootOptions holds the persistent flags. Zero values defer to the
// environment configuration.
type rootOptions struct {
	url      string
	timeout  time.Duration
	logLevel string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:           "catalogctl",
		Short:         "Inspect and maintain the product catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&opts.url, "url", "", "catalog URL (default $CATALOG_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 0, "fetch timeout (default $CATALOG_TIMEOUT)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (default $LOG_LEVEL)")

	root.AddCommand(
		newFetchCmd(opts),
		newCategoriesCmd(opts),
		newMigrateCmd(opts),
		newHashPasswordCmd(),
	)
	return root
}

func (o *rootOptions) config() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if o.url != "" {
		cfg.Catalog.URL = o.url
	}
	if o.timeout > 0 {
		cfg.Catalog.Timeout = o.timeout
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	return cfg, nil
}

func (o *rootOptions) logger(cfg *config.Config) *zap.SugaredLogger {
	return applog.NewTo(os.Stderr, cfg.LogLevel)
}

// buildCatalog wires the same pipeline the API server runs, without metrics.
func (o *rootOptions) buildCatalog() (*catalog.Catalog, error) {
	cfg, err := o.config()
	if err != nil {
		return nil, err
	}
	logger := o.logger(cfg)

	resolver, err := media.New(cfg.Catalog.MediaBaseURL, cfg.CloudinaryURL)
	if err != nil {
		return nil, err
	}
	bundled, err := fallback.Products()
	if err != nil {
		return nil, err
	}

	fetcher := catalog.NewFetcher(cfg.Catalog.URL, logger.Named("fetcher"),
		catalog.WithHTTPClient(&http.Client{}),
		catalog.WithTimeout(cfg.Catalog.Timeout),
	)
	cat, err := catalog.New(fetcher, catalog.NewNormalizer(resolver), bundled, logger.Named("catalog"))
	if err != nil {
		return nil, err
	}
	return cat, nil
}
