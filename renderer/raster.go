package renderer

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"
	"os"

	"golang.org/x/image/draw"

	"github.com/enki-verse/enkiverse-website/field"
)

// Raster is a software surface backed by an NRGBA image.
type Raster struct {
	img        *image.NRGBA
	background color.NRGBA
	mode       field.CompositeMode
}

// NewRaster creates a raster of the given size. Clear fills it with
// background; use a zero color for a transparent canvas.
func NewRaster(width, height int, background color.NRGBA) *Raster {
	r := &Raster{background: background}
	r.Resize(width, height)
	return r
}

// Resize reallocates the raster. Contents are discarded.
func (r *Raster) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	r.img = image.NewNRGBA(image.Rect(0, 0, width, height))
	r.Clear()
}

// Size implements field.Surface.
func (r *Raster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

// Clear implements field.Surface.
func (r *Raster) Clear() {
	draw.Draw(r.img, r.img.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)
}

// SetComposite implements field.Surface.
func (r *Raster) SetComposite(mode field.CompositeMode) {
	r.mode = mode
}

// FillRadial implements field.Surface. Pixels are sampled at their centers.
func (r *Raster) FillRadial(x, y, radius float64, inner, outer color.NRGBA) {
	if radius <= 0 {
		return
	}
	in, out := fromNRGBA(inner), fromNRGBA(outer)
	bounds := image.Rect(
		int(math.Floor(x-radius)), int(math.Floor(y-radius)),
		int(math.Ceil(x+radius))+1, int(math.Ceil(y+radius))+1,
	).Intersect(r.img.Bounds())

	for py := bounds.Min.Y; py < bounds.Max.Y; py++ {
		for px := bounds.Min.X; px < bounds.Max.X; px++ {
			d := math.Hypot(float64(px)+0.5-x, float64(py)+0.5-y)
			if d > radius {
				continue
			}
			dst := fromNRGBA(r.img.NRGBAAt(px, py))
			r.img.SetNRGBA(px, py, composite(r.mode, dst, radial(in, out, d, radius)).nrgba())
		}
	}
}

// Image returns the backing image.
func (r *Raster) Image() *image.NRGBA {
	return r.img
}

// WritePNG encodes the raster as PNG.
func (r *Raster) WritePNG(w io.Writer) error {
	if err := png.Encode(w, r.img); err != nil {
		return fmt.Errorf("encoding png: %w", err)
	}
	return nil
}

// SavePNG writes the raster to a PNG file.
func (r *Raster) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := r.WritePNG(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
