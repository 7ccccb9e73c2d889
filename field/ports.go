package field

import "image/color"

// CompositeMode selects how a surface blends newly drawn pixels.
type CompositeMode int

const (
	CompositeSourceOver CompositeMode = iota
	CompositeDifference
)

// String returns the canvas name of the mode.
func (m CompositeMode) String() string {
	switch m {
	case CompositeDifference:
		return "difference"
	default:
		return "source-over"
	}
}

// Surface is a 2-D drawing target the field paints onto each frame.
type Surface interface {
	// Size returns the current pixel dimensions.
	Size() (width, height int)
	Clear()
	SetComposite(mode CompositeMode)
	// FillRadial fills a circle with a radial gradient from inner at the
	// center to outer at radius r.
	FillRadial(x, y, r float64, inner, outer color.NRGBA)
}

// FrameHandle identifies a requested frame. The zero value means none.
type FrameHandle uint64

// Scheduler requests a callback before the next repaint.
type Scheduler interface {
	RequestFrame(cb func()) FrameHandle
	CancelFrame(h FrameHandle)
}
