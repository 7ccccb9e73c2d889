//go:build js && wasm

package renderer

import (
	"fmt"
	"image/color"
	"math"
	"syscall/js"

	"github.com/enki-verse/enkiverse-website/field"
)

// Canvas is a surface over an HTML canvas 2-D context.
type Canvas struct {
	el  js.Value
	ctx js.Value
}

// FindCanvas looks up a canvas element by id. ok is false when the page has
// no such element.
func FindCanvas(id string) (c *Canvas, ok bool) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, false
	}
	return &Canvas{el: el, ctx: el.Call("getContext", "2d")}, true
}

// FitWindow sizes the canvas to the browser viewport.
func (c *Canvas) FitWindow() {
	win := js.Global()
	c.el.Set("width", win.Get("innerWidth").Int())
	c.el.Set("height", win.Get("innerHeight").Int())
}

// Size implements field.Surface.
func (c *Canvas) Size() (int, int) {
	return c.el.Get("width").Int(), c.el.Get("height").Int()
}

// Clear implements field.Surface.
func (c *Canvas) Clear() {
	w, h := c.Size()
	c.ctx.Call("clearRect", 0, 0, w, h)
}

// SetComposite implements field.Surface.
func (c *Canvas) SetComposite(mode field.CompositeMode) {
	c.ctx.Set("globalCompositeOperation", mode.String())
}

// FillRadial implements field.Surface.
func (c *Canvas) FillRadial(x, y, r float64, inner, outer color.NRGBA) {
	if r < 0 {
		r = 0
	}
	grad := c.ctx.Call("createRadialGradient", x, y, 0, x, y, r)
	grad.Call("addColorStop", 0, cssColor(inner))
	grad.Call("addColorStop", 1, cssColor(outer))
	c.ctx.Call("beginPath")
	c.ctx.Call("arc", x, y, r, 0, 2*math.Pi, false)
	c.ctx.Set("fillStyle", grad)
	c.ctx.Call("fill")
}

func cssColor(c color.NRGBA) string {
	return fmt.Sprintf("rgba(%d, %d, %d, %.3f)", c.R, c.G, c.B, float64(c.A)/255)
}

// AnimationFrames schedules callbacks with requestAnimationFrame.
type AnimationFrames struct {
	funcs map[field.FrameHandle]js.Func
}

// NewAnimationFrames creates a browser frame scheduler.
func NewAnimationFrames() *AnimationFrames {
	return &AnimationFrames{funcs: make(map[field.FrameHandle]js.Func)}
}

// RequestFrame implements field.Scheduler.
func (a *AnimationFrames) RequestFrame(cb func()) field.FrameHandle {
	var h field.FrameHandle
	fn := js.FuncOf(func(js.Value, []js.Value) any {
		a.release(h)
		cb()
		return nil
	})
	h = field.FrameHandle(js.Global().Call("requestAnimationFrame", fn).Int())
	a.funcs[h] = fn
	return h
}

// CancelFrame implements field.Scheduler.
func (a *AnimationFrames) CancelFrame(h field.FrameHandle) {
	if _, ok := a.funcs[h]; !ok {
		return
	}
	js.Global().Call("cancelAnimationFrame", int(h))
	a.release(h)
}

func (a *AnimationFrames) release(h field.FrameHandle) {
	if fn, ok := a.funcs[h]; ok {
		fn.Release()
		delete(a.funcs, h)
	}
}

// BindPage wires window pointer, resize and page visibility events to f.
// The returned function removes the listeners.
func BindPage(c *Canvas, f *field.Field) (unbind func()) {
	win := js.Global()
	doc := win.Get("document")

	move := js.FuncOf(func(_ js.Value, args []js.Value) any {
		e := args[0]
		f.PointerMove(e.Get("x").Float(), e.Get("y").Float())
		return nil
	})
	out := js.FuncOf(func(js.Value, []js.Value) any {
		f.PointerOut()
		return nil
	})
	resize := js.FuncOf(func(js.Value, []js.Value) any {
		c.FitWindow()
		f.Resize()
		return nil
	})
	visibility := js.FuncOf(func(js.Value, []js.Value) any {
		f.SetVisible(!doc.Get("hidden").Bool())
		return nil
	})

	win.Call("addEventListener", "mousemove", move)
	win.Call("addEventListener", "mouseout", out)
	win.Call("addEventListener", "resize", resize)
	doc.Call("addEventListener", "visibilitychange", visibility)

	return func() {
		win.Call("removeEventListener", "mousemove", move)
		win.Call("removeEventListener", "mouseout", out)
		win.Call("removeEventListener", "resize", resize)
		doc.Call("removeEventListener", "visibilitychange", visibility)
		for _, fn := range []js.Func{move, out, resize, visibility} {
			fn.Release()
		}
	}
}
