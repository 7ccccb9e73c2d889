package renderer

import (
	"fmt"
	"image/color"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/enki-verse/enkiverse-website/field"
)

// Vector is a surface that records circles and writes them as an SVG
// document. Difference compositing maps to CSS mix-blend-mode.
type Vector struct {
	width, height int
	background    color.NRGBA
	mode          field.CompositeMode
	circles       []vectorCircle
}

type vectorCircle struct {
	x, y, r      int
	inner, outer color.NRGBA
	mode         field.CompositeMode
}

// NewVector creates an SVG surface. A zero background leaves the document
// transparent.
func NewVector(width, height int, background color.NRGBA) *Vector {
	return &Vector{width: width, height: height, background: background}
}

// Resize changes the document size and drops recorded circles.
func (v *Vector) Resize(width, height int) {
	v.width, v.height = width, height
	v.Clear()
}

// Size implements field.Surface.
func (v *Vector) Size() (int, int) {
	return v.width, v.height
}

// Clear implements field.Surface.
func (v *Vector) Clear() {
	v.circles = v.circles[:0]
}

// SetComposite implements field.Surface.
func (v *Vector) SetComposite(mode field.CompositeMode) {
	v.mode = mode
}

// FillRadial implements field.Surface. Coordinates are rounded to whole
// units; circles that round to zero radius are dropped.
func (v *Vector) FillRadial(x, y, r float64, inner, outer color.NRGBA) {
	ri := int(math.Round(r))
	if ri <= 0 {
		return
	}
	v.circles = append(v.circles, vectorCircle{
		x: int(math.Round(x)), y: int(math.Round(y)), r: ri,
		inner: inner, outer: outer,
		mode: v.mode,
	})
}

// Len returns the number of recorded circles.
func (v *Vector) Len() int {
	return len(v.circles)
}

// WriteSVG writes the recorded frame as an SVG document.
func (v *Vector) WriteSVG(w io.Writer) {
	canvas := svg.New(w)
	canvas.Start(v.width, v.height)
	canvas.Title("ENKIVERSE particle field")

	canvas.Def()
	for i, c := range v.circles {
		canvas.RadialGradient(gradientID(i), 50, 50, 50, 50, 50, []svg.Offcolor{
			{Offset: 0, Color: hex(c.inner), Opacity: float64(c.inner.A) / 255},
			{Offset: 100, Color: hex(c.outer), Opacity: float64(c.outer.A) / 255},
		})
	}
	canvas.DefEnd()

	if v.background.A > 0 {
		canvas.Rect(0, 0, v.width, v.height, fmt.Sprintf("fill:%s;fill-opacity:%.2f", hex(v.background), float64(v.background.A)/255))
	}

	// Consecutive circles sharing a mode go into one group
	open := false
	var mode field.CompositeMode
	for i, c := range v.circles {
		if !open || c.mode != mode {
			if open {
				canvas.Gend()
			}
			canvas.Gstyle("mix-blend-mode:" + mixBlend(c.mode))
			open, mode = true, c.mode
		}
		canvas.Circle(c.x, c.y, c.r, "fill:url(#"+gradientID(i)+")")
	}
	if open {
		canvas.Gend()
	}
	canvas.End()
}

func gradientID(i int) string {
	return fmt.Sprintf("p%d", i)
}

func mixBlend(mode field.CompositeMode) string {
	if mode == field.CompositeDifference {
		return "difference"
	}
	return "normal"
}

func hex(c color.NRGBA) string {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}.Hex()
}
