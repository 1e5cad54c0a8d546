package main

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"tubby/internal/catalog"
	"tubby/internal/params"
)

type productListResponse struct {
	Products   []catalog.DisplayProduct `json:"products"`
	Pagination params.Pagination        `json:"pagination"`
	SnapshotID string                   `json:"snapshot_id"`
	Source     catalog.Source           `json:"source"`
}

type searchResponse struct {
	Query    string                   `json:"query"`
	Count    int                      `json:"count"`
	Products []catalog.DisplayProduct `json:"products"`
}

type speechResponse struct {
	ASIN   string `json:"asin"`
	Speech string `json:"speech"`
}

type categoryProductsResponse struct {
	Category    string                   `json:"category"`
	DisplayName string                   `json:"display_name"`
	Count       int                      `json:"count"`
	Products    []catalog.DisplayProduct `json:"products"`
}

// notModified sets the snapshot ETag and reports whether the client already
// holds this snapshot's representation.
func notModified(w http.ResponseWriter, r *http.Request, snap *catalog.Snapshot) bool {
	etag := `"` + snap.ID + `"`
	w.Header().Set("ETag", etag)

	for _, candidate := range strings.Split(r.Header.Get("If-None-Match"), ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == etag || candidate == "*" {
			w.WriteHeader(http.StatusNotModified)
			return true
		}
	}
	return false
}

// listProductsHandler godoc
//
//	@Summary		List products
//	@Description	Paginated products of the current catalog snapshot. The ETag is the snapshot ID.
//	@Tags			Products
//	@Produce		json
//	@Param			page			query		int		false	"Page number (default 1)"
//	@Param			limit			query		int		false	"Items per page (default 24, max 100)"
//	@Param			If-None-Match	header		string	false	"ETag from a previous response"
//	@Success		200				{object}	productListResponse
//	@Success		304				"Snapshot unchanged"
//	@Router			/products [get]
func (app *application) listProductsHandler(w http.ResponseWriter, r *http.Request) {
	snap := app.catalog.Current()
	if notModified(w, r, snap) {
		return
	}

	pagination := params.ParsePagination(r.URL.Query())
	pagination.ComputeMeta(len(snap.Items))
	start, end := pagination.Window(len(snap.Items))

	app.jsonResponse(w, http.StatusOK, productListResponse{
		Products:   snap.Items[start:end],
		Pagination: pagination,
		SnapshotID: snap.ID,
		Source:     snap.Source,
	})
}

// searchProductsHandler godoc
//
//	@Summary		Search products
//	@Description	Case-insensitive text search. With any filter (max_price, category, limit) the assistant finder is used and also matches short and voice descriptions.
//	@Tags			Products
//	@Produce		json
//	@Param			q			query		string	true	"Search text"
//	@Param			max_price	query		number	false	"Maximum price"
//	@Param			category	query		string	false	"Category, e.g. pet-supplies"
//	@Param			limit		query		int		false	"Maximum results (default 5 when filtering)"
//	@Success		200			{object}	searchResponse
//	@Failure		400			{object}	error	"Invalid search parameters"
//	@Router			/products/search [get]
func (app *application) searchProductsHandler(w http.ResponseWriter, r *http.Request) {
	search, err := params.ParseSearch(r.URL.Query())
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(search); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid search: %w", err))
		return
	}

	snap := app.catalog.Current()

	var products []catalog.DisplayProduct
	if search.Filtered() {
		products = catalog.Find(snap, catalog.FindOptions{
			Query:    search.Query,
			MaxPrice: search.MaxPrice,
			Category: search.Category,
			Limit:    search.Limit,
		})
	} else {
		products = catalog.Search(snap, search.Query)
	}

	app.jsonResponse(w, http.StatusOK, searchResponse{
		Query:    search.Query,
		Count:    len(products),
		Products: products,
	})
}

// getProductHandler godoc
//
//	@Summary		Get a product
//	@Description	Looks a product up by ASIN or product_id.
//	@Tags			Products
//	@Produce		json
//	@Param			productID	path		string	true	"ASIN or product_id"
//	@Success		200			{object}	catalog.DisplayProduct
//	@Failure		404			{object}	error	"Product not found"
//	@Router			/products/{productID} [get]
func (app *application) getProductHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := app.lookupProduct(w, r)
	if !ok {
		return
	}
	app.jsonResponse(w, http.StatusOK, product)
}

// productSpeechHandler godoc
//
//	@Summary		Product speech summary
//	@Description	One-line summary a voice assistant reads out for the product.
//	@Tags			Products
//	@Produce		json
//	@Param			productID	path		string	true	"ASIN or product_id"
//	@Success		200			{object}	speechResponse
//	@Failure		404			{object}	error	"Product not found"
//	@Router			/products/{productID}/speech [get]
func (app *application) productSpeechHandler(w http.ResponseWriter, r *http.Request) {
	product, ok := app.lookupProduct(w, r)
	if !ok {
		return
	}
	app.jsonResponse(w, http.StatusOK, speechResponse{
		ASIN:   product.ASIN,
		Speech: catalog.SpeechSummary(product),
	})
}

func (app *application) lookupProduct(w http.ResponseWriter, r *http.Request) (catalog.DisplayProduct, bool) {
	id := strings.TrimSpace(chi.URLParam(r, "productID"))
	product, ok := app.catalog.Current().Lookup(id)
	if !ok {
		app.notFoundResponse(w, r, fmt.Errorf("product %q not found", id))
		return catalog.DisplayProduct{}, false
	}
	return product, true
}

// listCategoriesHandler godoc
//
//	@Summary		List categories
//	@Description	Categories with product counts, most populated first.
//	@Tags			Categories
//	@Produce		json
//	@Param			If-None-Match	header	string	false	"ETag from a previous response"
//	@Success		200				{array}	catalog.CategoryCount
//	@Success		304				"Snapshot unchanged"
//	@Router			/categories [get]
func (app *application) listCategoriesHandler(w http.ResponseWriter, r *http.Request) {
	snap := app.catalog.Current()
	if notModified(w, r, snap) {
		return
	}
	app.jsonResponse(w, http.StatusOK, catalog.CategoriesWithCounts(snap))
}

// categoryProductsHandler godoc
//
//	@Summary		Products in a category
//	@Description	Exact match on the normalized (lower-case) category.
//	@Tags			Categories
//	@Produce		json
//	@Param			category	path		string	true	"Category, e.g. electronics"
//	@Success		200			{object}	categoryProductsResponse
//	@Failure		400			{object}	error	"Malformed category"
//	@Router			/categories/{category}/products [get]
func (app *application) categoryProductsHandler(w http.ResponseWriter, r *http.Request) {
	// chi matches on RawPath when the request has one, leaving params escaped.
	category := chi.URLParam(r, "category")
	if r.URL.RawPath != "" {
		unescaped, err := url.PathUnescape(category)
		if err != nil {
			app.badRequestResponse(w, r, fmt.Errorf("invalid category: %w", err))
			return
		}
		category = unescaped
	}

	products := catalog.ByCategory(app.catalog.Current(), category)
	app.jsonResponse(w, http.StatusOK, categoryProductsResponse{
		Category:    category,
		DisplayName: catalog.DisplayName(category),
		Count:       len(products),
		Products:    products,
	})
}
