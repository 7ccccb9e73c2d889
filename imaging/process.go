package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"math"

	_ "image/gif"
	_ "image/png"

	"github.com/dustin/go-humanize"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// Processed is an encoded JPEG and its size.
type Processed struct {
	Data          []byte
	Width, Height int
}

// CalculateDimensions fits width x height inside maxWidth x maxHeight
// keeping the aspect ratio. Images are never enlarged and a non-empty
// image never scales below 1x1.
func CalculateDimensions(width, height, maxWidth, maxHeight int) (int, int) {
	if width <= 0 || height <= 0 {
		return 0, 0
	}
	aspect := float64(width) / float64(height)
	w := math.Min(float64(width), float64(maxWidth))
	h := w / aspect
	if maxHeight > 0 && h > float64(maxHeight) {
		h = float64(maxHeight)
		w = h * aspect
	}
	return max(1, int(math.Round(w))), max(1, int(math.Round(h)))
}

// Decode decodes a JPEG, PNG, GIF or WebP image.
func Decode(data []byte) (image.Image, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding image: %w", err)
	}
	return img, nil
}

// Resize scales img to width x height with Catmull-Rom resampling onto an
// opaque white canvas, since JPEG has no alpha.
func Resize(img image.Image, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), draw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("encoding jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

// Process scales img to at most opts.MaxWidth wide and encodes it as JPEG.
func Process(img image.Image, opts Options) (Processed, error) {
	b := img.Bounds()
	w, h := CalculateDimensions(b.Dx(), b.Dy(), opts.MaxWidth, 0)
	return scaleAndEncode(img, w, h, opts.Quality)
}

// Thumbnail fits img inside opts.ThumbWidth x opts.ThumbHeight and encodes
// it as JPEG.
func Thumbnail(img image.Image, opts Options) (Processed, error) {
	b := img.Bounds()
	w, h := CalculateDimensions(b.Dx(), b.Dy(), opts.ThumbWidth, opts.ThumbHeight)
	return scaleAndEncode(img, w, h, opts.ThumbQuality)
}

func scaleAndEncode(img image.Image, w, h, quality int) (Processed, error) {
	if w <= 0 || h <= 0 {
		return Processed{}, fmt.Errorf("scaling to %dx%d: empty image", w, h)
	}
	data, err := encodeJPEG(Resize(img, w, h), quality)
	if err != nil {
		return Processed{}, err
	}
	return Processed{Data: data, Width: w, Height: h}, nil
}

// checkPixels reads only the image header and rejects images whose decoded
// size would exceed limits.MaxPixels. Unreadable headers are left to Decode.
func checkPixels(name string, data []byte, limits Limits) error {
	if limits.MaxPixels <= 0 {
		return nil
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	if px := int64(cfg.Width) * int64(cfg.Height); px > limits.MaxPixels {
		return &ValidationError{Name: name, Problems: []string{
			fmt.Sprintf("image is %dx%d, limit is %s pixels", cfg.Width, cfg.Height, humanize.Comma(limits.MaxPixels)),
		}}
	}
	return nil
}

// Upload is a validated image ready to commit.
type Upload struct {
	Name      string
	Large     Processed
	Thumb     Processed
	LargePath string
	ThumbPath string
}

// Prepare validates, decodes, scales and thumbnails one file. base is the
// repository image directory.
func Prepare(name string, data []byte, limits Limits, opts Options, base string) (Upload, error) {
	if err := Validate(name, data, limits); err != nil {
		return Upload{}, err
	}
	if err := checkPixels(name, data, limits); err != nil {
		return Upload{}, err
	}
	img, err := Decode(data)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", name, err)
	}
	large, err := Process(img, opts)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: %w", name, err)
	}
	thumb, err := Thumbnail(img, opts)
	if err != nil {
		return Upload{}, fmt.Errorf("%s: thumbnail: %w", name, err)
	}
	lp, tp := Paths(name, base)
	return Upload{Name: name, Large: large, Thumb: thumb, LargePath: lp, ThumbPath: tp}, nil
}
