// Package legacy migrates the old ASIN-keyed local product list into the
// unified catalog schema. It is meant to run once per dataset.
package legacy

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"tubby/internal/catalog"
)

var ErrMissingASIN = errors.New("legacy product has no asin")

// Product is one entry of the legacy list.
type Product struct {
	ASIN        string   `json:"asin"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	URL         string   `json:"url"`
	ImageURL    string   `json:"image_url"`
	Rating      *float64 `json:"rating,omitempty"`
	Reviews     *int     `json:"reviews,omitempty"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Subcategory *string  `json:"subcategory,omitempty"`
	Badge       *string  `json:"badge,omitempty"`
	LocalImages []string `json:"local_images,omitempty"`
	LocalVideos []string `json:"local_videos,omitempty"`
	ImageCount  *int     `json:"image_count,omitempty"`
	VideoCount  *int     `json:"video_count,omitempty"`
}

// ToUnified converts one legacy entry. Legacy lists only ever held
// purchasable items priced in dollars.
func ToUnified(p Product) (catalog.RemoteProduct, error) {
	asin := strings.TrimSpace(p.ASIN)
	if asin == "" {
		if found, ok := catalog.ExtractASIN(p.URL); ok {
			asin = found
		}
	}
	if asin == "" {
		return catalog.RemoteProduct{}, fmt.Errorf("%w: %q", ErrMissingASIN, p.Name)
	}

	return catalog.RemoteProduct{
		ProductID:    asin,
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		Currency:     "USD",
		AffiliateURL: p.URL,
		ImageURL:     p.ImageURL,
		Category:     p.Category,
		IsAvailable:  true,
		Rating:       p.Rating,
		Reviews:      p.Reviews,
		Subcategory:  p.Subcategory,
		Badge:        p.Badge,
		LocalImages:  p.LocalImages,
		LocalVideos:  p.LocalVideos,
		ImageCount:   p.ImageCount,
		VideoCount:   p.VideoCount,
	}, nil
}

// Migrate reads a legacy JSON array from r and writes the unified array to
// w. The output is checked with catalog.Decode before it is written, so a
// migrated file is always accepted by the fetcher.
func Migrate(r io.Reader, w io.Writer) (int, error) {
	var legacy []Product
	if err := json.NewDecoder(r).Decode(&legacy); err != nil {
		return 0, fmt.Errorf("decode legacy list: %w", err)
	}

	unified := make([]catalog.RemoteProduct, 0, len(legacy))
	for i, p := range legacy {
		u, err := ToUnified(p)
		if err != nil {
			return 0, fmt.Errorf("item %d: %w", i, err)
		}
		unified = append(unified, u)
	}

	out, err := json.MarshalIndent(unified, "", "  ")
	if err != nil {
		return 0, fmt.Errorf("encode unified list: %w", err)
	}
	if _, err := catalog.Decode(out); err != nil {
		return 0, err
	}
	if _, err := w.Write(append(out, '\n')); err != nil {
		return 0, fmt.Errorf("write unified list: %w", err)
	}
	return len(unified), nil
}
