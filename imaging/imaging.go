// Package imaging validates, resizes and thumbnails uploaded images before
// they are committed to the content repository.
package imaging

import (
	"github.com/dustin/go-humanize"

	"github.com/enki-verse/enkiverse-website/config"
)

// Limits bounds what an upload may be.
type Limits struct {
	MaxBytes     int64
	MaxPixels    int64 // Width times height, checked before decoding
	AllowedTypes []string
}

// Options controls encoding of the large image and its thumbnail.
type Options struct {
	MaxWidth     int
	Quality      int
	ThumbWidth   int
	ThumbHeight  int
	ThumbQuality int
}

// DefaultLimits allows 5 MiB JPEG, PNG, GIF and WebP files of up to 40
// megapixels.
func DefaultLimits() Limits {
	return Limits{
		MaxBytes:     5 * 1024 * 1024,
		MaxPixels:    40_000_000,
		AllowedTypes: []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
	}
}

// DefaultOptions encodes 800px wide images at quality 80 and 200x200
// thumbnails at quality 70.
func DefaultOptions() Options {
	return Options{
		MaxWidth:     800,
		Quality:      80,
		ThumbWidth:   200,
		ThumbHeight:  200,
		ThumbQuality: 70,
	}
}

// FromConfig builds Limits and Options from the images config section.
// Zero values fall back to the defaults.
func FromConfig(cfg config.ImagesConfig) (Limits, Options) {
	l, o := DefaultLimits(), DefaultOptions()
	if cfg.MaxBytes > 0 {
		l.MaxBytes = cfg.MaxBytes
	}
	if cfg.MaxPixels > 0 {
		l.MaxPixels = cfg.MaxPixels
	}
	if len(cfg.AllowedTypes) > 0 {
		l.AllowedTypes = cfg.AllowedTypes
	}
	if cfg.MaxWidth > 0 {
		o.MaxWidth = cfg.MaxWidth
	}
	if cfg.Quality > 0 {
		o.Quality = cfg.Quality
	}
	if cfg.ThumbWidth > 0 {
		o.ThumbWidth = cfg.ThumbWidth
	}
	if cfg.ThumbHeight > 0 {
		o.ThumbHeight = cfg.ThumbHeight
	}
	if cfg.ThumbQuality > 0 {
		o.ThumbQuality = cfg.ThumbQuality
	}
	return l, o
}

// FormatFileSize renders a byte count for people, e.g. "5.0 MiB".
func FormatFileSize(n int64) string {
	if n < 0 {
		n = 0
	}
	return humanize.IBytes(uint64(n))
}

// Paths returns the repository paths of the large image and thumbnail for
// filename under base, e.g. assets/images/large/x.jpg.
func Paths(filename, base string) (large, thumb string) {
	if base == "" {
		base = "assets/images"
	}
	for len(base) > 0 && base[len(base)-1] == '/' {
		base = base[:len(base)-1]
	}
	return base + "/large/" + filename, base + "/thumbnails/" + filename
}
