package catalog

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

// Marketplace product pages: /dp/<ID> or /gp/product/<ID>, ID being 10
// alphanumeric characters.
var asinPattern = regexp.MustCompile(`/(?:dp|gp/product)/([A-Za-z0-9]{10})(?:[/?#]|$)`)

// MediaResolver turns a catalog media path into an absolute URL.
type MediaResolver interface {
	Resolve(path string) (string, error)
}

// ExtractASIN pulls the marketplace identifier out of an affiliate link.
func ExtractASIN(affiliateURL string) (string, bool) {
	m := asinPattern.FindStringSubmatch(affiliateURL)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Convert maps a wire product to its display form. It has no side effects.
func Convert(r RemoteProduct) DisplayProduct {
	asin, ok := ExtractASIN(r.AffiliateURL)
	if !ok {
		asin = r.ProductID
	}

	category := strings.ToLower(r.Category)
	subcategory := category
	if r.Subcategory != nil {
		subcategory = *r.Subcategory
	}

	d := DisplayProduct{
		ProductID:        r.ProductID,
		Name:             r.Name,
		ShortName:        r.ShortName,
		Price:            r.Price,
		Currency:         r.Currency,
		ASIN:             asin,
		URL:              r.AffiliateURL,
		ImageURL:         r.ImageURL,
		Description:      r.Description,
		VoiceDescription: r.VoiceDescription,
		Category:         category,
		Subcategory:      subcategory,
		Badge:            r.Badge,
		LocalImages:      slices.Clone(r.LocalImages),
		LocalVideos:      slices.Clone(r.LocalVideos),
		ImageCount:       countOf(r.ImageCount, r.LocalImages),
		VideoCount:       countOf(r.VideoCount, r.LocalVideos),
	}
	if r.Rating != nil {
		d.Rating = *r.Rating
	}
	if r.Reviews != nil {
		d.Reviews = *r.Reviews
	}
	return d
}

func countOf(explicit *int, paths []string) int {
	if explicit != nil {
		return *explicit
	}
	return len(paths)
}

// Normalizer converts whole lists, optionally making media paths absolute.
type Normalizer struct {
	media MediaResolver
}

// NewNormalizer accepts a nil resolver, in which case media paths are left
// as published.
func NewNormalizer(media MediaResolver) *Normalizer {
	return &Normalizer{media: media}
}

// ConvertAll converts every entry in order. It does not filter.
func (n *Normalizer) ConvertAll(list []RemoteProduct) ([]DisplayProduct, error) {
	out := make([]DisplayProduct, 0, len(list))
	for _, r := range list {
		d := Convert(r)
		if n != nil && n.media != nil {
			if err := n.resolveMedia(&d); err != nil {
				return nil, fmt.Errorf("product %s: %w", r.ProductID, err)
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (n *Normalizer) resolveMedia(d *DisplayProduct) error {
	var err error
	if d.ImageURL, err = n.media.Resolve(d.ImageURL); err != nil {
		return fmt.Errorf("image_url: %w", err)
	}
	for i, p := range d.LocalImages {
		if d.LocalImages[i], err = n.media.Resolve(p); err != nil {
			return fmt.Errorf("local_images[%d]: %w", i, err)
		}
	}
	for i, p := range d.LocalVideos {
		if d.LocalVideos[i], err = n.media.Resolve(p); err != nil {
			return fmt.Errorf("local_videos[%d]: %w", i, err)
		}
	}
	return nil
}

// Available keeps only entries marked is_available.
func Available(list []RemoteProduct) []RemoteProduct {
	out := make([]RemoteProduct, 0, len(list))
	for _, r := range list {
		if r.IsAvailable {
			out = append(out, r)
		}
	}
	return out
}
