package catalog

import "time"

// RemoteProduct is one entry of the unified product master list as
// published by the remote catalog source.
type RemoteProduct struct {
	ProductID        string   `json:"product_id" yaml:"product_id" validate:"required"`
	Name             string   `json:"name" yaml:"name" validate:"required"`
	ShortName        *string  `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Description      string   `json:"description" yaml:"description"`
	VoiceDescription *string  `json:"voice_description,omitempty" yaml:"voice_description,omitempty"`
	Price            float64  `json:"price" yaml:"price" validate:"gte=0"`
	Currency         string   `json:"currency" yaml:"currency"`
	AffiliateURL     string   `json:"affiliate_url" yaml:"affiliate_url"`
	ImageURL         string   `json:"image_url" yaml:"image_url"`
	Category         string   `json:"category" yaml:"category"`
	IsAvailable      bool     `json:"is_available" yaml:"is_available"`
	Rating           *float64 `json:"rating,omitempty" yaml:"rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Reviews          *int     `json:"reviews,omitempty" yaml:"reviews,omitempty" validate:"omitempty,gte=0"`
	Subcategory      *string  `json:"subcategory,omitempty" yaml:"subcategory,omitempty"`
	Badge            *string  `json:"badge,omitempty" yaml:"badge,omitempty"`
	LocalImages      []string `json:"local_images,omitempty" yaml:"local_images,omitempty"`
	LocalVideos      []string `json:"local_videos,omitempty" yaml:"local_videos,omitempty"`
	ImageCount       *int     `json:"image_count,omitempty" yaml:"image_count,omitempty"`
	VideoCount       *int     `json:"video_count,omitempty" yaml:"video_count,omitempty"`
}

// DisplayProduct is the shape storefront consumers work with.
type DisplayProduct struct {
	ProductID        string   `json:"product_id" yaml:"product_id"`
	Name             string   `json:"name" yaml:"name"`
	ShortName        *string  `json:"short_name,omitempty" yaml:"short_name,omitempty"`
	Price            float64  `json:"price" yaml:"price"`
	Currency         string   `json:"currency" yaml:"currency"`
	ASIN             string   `json:"asin" yaml:"asin"`
	URL              string   `json:"url" yaml:"url"`
	ImageURL         string   `json:"image_url" yaml:"image_url"`
	Rating           float64  `json:"rating" yaml:"rating"`
	Reviews          int      `json:"reviews" yaml:"reviews"`
	Description      string   `json:"description" yaml:"description"`
	VoiceDescription *string  `json:"voice_description,omitempty" yaml:"voice_description,omitempty"`
	Category         string   `json:"category" yaml:"category"`
	Subcategory      string   `json:"subcategory" yaml:"subcategory"`
	Badge            *string  `json:"badge,omitempty" yaml:"badge,omitempty"`
	LocalImages      []string `json:"local_images,omitempty" yaml:"local_images,omitempty"`
	LocalVideos      []string `json:"local_videos,omitempty" yaml:"local_videos,omitempty"`
	ImageCount       int      `json:"image_count" yaml:"image_count"`
	VideoCount       int      `json:"video_count" yaml:"video_count"`
}

// Source tells where a snapshot's items came from.
type Source string

const (
	SourceRemote         Source = "remote"
	SourceStaticFallback Source = "static-fallback"
)

// Snapshot is an immutable, atomically published set of products.
// Never modify a Snapshot after it has been published.
type Snapshot struct {
	ID        string           `json:"id" yaml:"id"`
	Items     []DisplayProduct `json:"items" yaml:"items"`
	FetchedAt time.Time        `json:"fetched_at" yaml:"fetched_at"`
	Source    Source           `json:"source" yaml:"source"`
	Stale     bool             `json:"stale" yaml:"stale"`
}

// Lookup finds a product by ASIN or product ID.
func (s *Snapshot) Lookup(id string) (DisplayProduct, bool) {
	if s == nil || id == "" {
		return DisplayProduct{}, false
	}
	for _, p := range s.Items {
		if p.ASIN == id || p.ProductID == id {
			return p, true
		}
	}
	return DisplayProduct{}, false
}

// CategoryCount is one row of the category breakdown.
type CategoryCount struct {
	Name        string `json:"name" yaml:"name"`
	Count       int    `json:"count" yaml:"count"`
	DisplayName string `json:"display_name" yaml:"display_name"`
}
