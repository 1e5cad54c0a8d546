package main

import (
	"context"
	"net/http"
	"time"

	"tubby/internal/catalog"
)

type catalogStatus struct {
	ID        string         `json:"id"`
	Source    catalog.Source `json:"source"`
	State     string         `json:"state"`
	Items     int            `json:"items"`
	Stale     bool           `json:"stale"`
	FetchedAt time.Time      `json:"fetched_at"`
}

func (app *application) catalogInfo() catalogStatus {
	snap := app.catalog.Current()
	return catalogStatus{
		ID:        snap.ID,
		Source:    snap.Source,
		State:     app.catalog.State().String(),
		Items:     len(snap.Items),
		Stale:     snap.Stale,
		FetchedAt: snap.FetchedAt,
	}
}

type refreshResponse struct {
	Refreshed bool          `json:"refreshed"`
	Error     string        `json:"error,omitempty"`
	Catalog   catalogStatus `json:"catalog"`
}

// catalogInfoHandler godoc
//
//	@Summary		Catalog snapshot metadata
//	@Description	ID, source, state, size and fetch time of the snapshot being served.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	catalogStatus
//	@Router			/catalog [get]
func (app *application) catalogInfoHandler(w http.ResponseWriter, r *http.Request) {
	app.jsonResponse(w, http.StatusOK, app.catalogInfo())
}

// refreshCatalogHandler godoc
//
//	@Summary		Refresh the catalog
//	@Description	Re-fetches the remote catalog. A failed refresh keeps serving the previous snapshot and reports refreshed=false.
//	@Tags			Catalog
//	@Produce		json
//	@Success		200	{object}	refreshResponse
//	@Failure		401	{object}	error	"Unauthorized"
//	@Security		BasicAuth
//	@Router			/catalog/refresh [post]
func (app *application) refreshCatalogHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*app.config.Catalog.Timeout)
	defer cancel()

	response := refreshResponse{Refreshed: true}
	if _, err := app.catalog.Refresh(ctx); err != nil {
		app.logger.Warnw("catalog refresh failed", "error", err.Error())
		response.Refreshed = false
		response.Error = err.Error()
	}
	response.Catalog = app.catalogInfo()

	app.jsonResponse(w, http.StatusOK, response)
}
