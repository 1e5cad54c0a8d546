package params

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultLimit = 24
	MaxLimit     = 100
)

// URL: /v1/products?page=2&limit=24
// → ParsePagination() → Pagination{Limit:24, Page:2, Offset:24}
// → Window(len(items)) → items[24:48]
// → ComputeMeta(len(items)) → TotalPages, HasNext, ...
type Pagination struct {
	Limit      int  `json:"limit"`
	Offset     int  `json:"offset"`
	Page       int  `json:"page"`
	Total      int  `json:"total"`
	TotalPages int  `json:"total_pages"`
	HasNext    bool `json:"has_next"`
	HasPrev    bool `json:"has_prev"`
}

// ParsePagination parses ?limit=...&page=... leniently: bad values fall back
// to defaults, oversized limits are clamped.
func ParsePagination(q url.Values) Pagination {
	p := Pagination{
		Limit: DefaultLimit,
		Page:  1,
	}

	if limitStr := strings.TrimSpace(q.Get("limit")); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil {
			switch {
			case limit <= 0:
				p.Limit = DefaultLimit
			case limit > MaxLimit:
				p.Limit = MaxLimit
			default:
				p.Limit = limit
			}
		}
	}

	if pageStr := strings.TrimSpace(q.Get("page")); pageStr != "" {
		if page, err := strconv.Atoi(pageStr); err == nil && page > 0 {
			p.Page = page
		}
	}

	p.Offset = (p.Page - 1) * p.Limit
	return p
}

// ComputeMeta fills the totals once the collection size is known.
func (p *Pagination) ComputeMeta(total int) {
	p.Total = total
	if p.Limit > 0 {
		p.TotalPages = int(math.Ceil(float64(total) / float64(p.Limit)))
	}
	p.HasPrev = p.Page > 1
	p.HasNext = (p.Page * p.Limit) < total
}

// Window returns the [start, end) slice bounds of the page within a
// collection of n items.
func (p Pagination) Window(n int) (int, int) {
	start := min(p.Offset, n)
	end := min(start+p.Limit, n)
	return start, end
}

// Search holds the product search query string.
//
//	GET /v1/products/search?q=dog&max_price=50&category=pet-supplies&limit=5
type Search struct {
	Query    string   `validate:"required,max=200"`
	MaxPrice *float64 `validate:"omitempty,gte=0"`
	Category string   `validate:"max=100"`
	Limit    int      `validate:"gte=0,lte=50"`
}

// Filtered reports whether any filter beyond the text query was given.
func (s Search) Filtered() bool {
	return s.MaxPrice != nil || s.Category != "" || s.Limit > 0
}

// ParseSearch reads the search parameters. Unlike pagination, malformed
// numbers are an error: the caller asked for a filter it did not get.
func ParseSearch(q url.Values) (Search, error) {
	s := Search{
		Query:    strings.TrimSpace(q.Get("q")),
		Category: strings.ToLower(strings.TrimSpace(q.Get("category"))),
	}

	if v := strings.TrimSpace(q.Get("max_price")); v != "" {
		price, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return s, fmt.Errorf("invalid max_price %q", v)
		}
		s.MaxPrice = &price
	}

	if v := strings.TrimSpace(q.Get("limit")); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return s, fmt.Errorf("invalid limit %q", v)
		}
		s.Limit = limit
	}

	return s, nil
}
