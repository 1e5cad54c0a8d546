package main

import (
	"context"
	"time"
)

func (app *application) loadCatalog(ctx context.Context) {
	snap := app.catalog.Initialize(ctx)
	app.logger.Infof("Catalog ready with %d items from %s at %s",
		len(snap.Items), snap.Source, snap.FetchedAt.Format(time.RFC1123))
}

// refreshCatalogEvery re-fetches the remote catalog on a fixed interval
// until ctx is done. A non-positive interval disables it.
func (app *application) refreshCatalogEvery(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			snap, err := app.catalog.Refresh(ctx)
			if err != nil {
				app.logger.Errorf("Error refreshing catalog: %v", err)
				continue
			}
			app.logger.Infof("Successfully refreshed catalog with %d items at %s",
				len(snap.Items), snap.FetchedAt.Format(time.RFC1123))
		}
	}
}
