// Package media turns the relative media paths found in the product
// catalog into absolute URLs.
package media

import (
	"fmt"
	"net/url"
	"path"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
)

// Resolver rewrites one media path. Absolute http(s) URLs and empty paths
// are returned unchanged by every implementation.
type Resolver interface {
	Resolve(path string) (string, error)
}

// New picks the resolver for the given settings: Cloudinary when a
// CLOUDINARY_URL is configured, a base URL otherwise. With neither it
// returns a nil Resolver and paths are served as published.
func New(baseURL, cloudinaryURL string) (Resolver, error) {
	switch {
	case cloudinaryURL != "":
		r, err := NewCloudinaryResolver(cloudinaryURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	case baseURL != "":
		r, err := NewBaseURLResolver(baseURL)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, nil
	}
}

func isAbsolute(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

// BaseURLResolver joins relative paths onto a bucket or CDN base URL.
type BaseURLResolver struct {
	base *url.URL
}

func NewBaseURLResolver(base string) (*BaseURLResolver, error) {
	u, err := url.Parse(strings.TrimRight(strings.TrimSpace(base), "/") + "/")
	if err != nil {
		return nil, fmt.Errorf("parse media base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("media base url %q must be absolute", base)
	}
	return &BaseURLResolver{base: u}, nil
}

func (r *BaseURLResolver) Resolve(p string) (string, error) {
	if p == "" || isAbsolute(p) {
		return p, nil
	}
	ref, err := url.Parse(strings.TrimLeft(p, "/"))
	if err != nil {
		return "", fmt.Errorf("parse media path %q: %w", p, err)
	}
	return r.base.ResolveReference(ref).String(), nil
}

var videoExtensions = map[string]bool{
	".mp4":  true,
	".webm": true,
	".mov":  true,
	".m3u8": true,
}

// CloudinaryResolver maps relative paths to Cloudinary delivery URLs. The
// path minus its extension is used as the public ID. Building the URL is
// local; no request is made to Cloudinary.
type CloudinaryResolver struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryResolver(cloudinaryURL string) (*CloudinaryResolver, error) {
	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary: %w", err)
	}
	cld.Config.URL.Secure = true
	return &CloudinaryResolver{cld: cld}, nil
}

func (r *CloudinaryResolver) Resolve(p string) (string, error) {
	if p == "" || isAbsolute(p) {
		return p, nil
	}
	clean := strings.TrimLeft(p, "/")
	ext := strings.ToLower(path.Ext(clean))
	publicID := strings.TrimSuffix(clean, path.Ext(clean))

	if videoExtensions[ext] {
		video, err := r.cld.Video(publicID)
		if err != nil {
			return "", fmt.Errorf("cloudinary video %q: %w", publicID, err)
		}
		return video.String()
	}
	image, err := r.cld.Image(publicID)
	if err != nil {
		return "", fmt.Errorf("cloudinary image %q: %w", publicID, err)
	}
	return image.String()
}
