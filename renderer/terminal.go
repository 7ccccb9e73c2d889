package renderer

import (
	"context"
	"image/color"
	"math"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/enki-verse/enkiverse-website/field"
)

// Terminal cell size in surface pixels.
const (
	CellWidth  = 8
	CellHeight = 16
)

// Terminal is a surface over a tcell screen. Each cell is a CellWidth by
// CellHeight block of surface pixels shaded by the color at its center,
// composited over a black backdrop.
type Terminal struct {
	screen     tcell.Screen
	cols, rows int
	cells      []rgbaF
	mode       field.CompositeMode
}

// NewTerminal wraps an initialized screen and enables mouse and focus
// reporting.
func NewTerminal(screen tcell.Screen) *Terminal {
	screen.EnableMouse(tcell.MouseMotionEvents)
	screen.EnableFocus()
	screen.HideCursor()
	t := &Terminal{screen: screen}
	t.syncSize()
	return t
}

func (t *Terminal) syncSize() {
	t.cols, t.rows = t.screen.Size()
	t.cells = make([]rgbaF, t.cols*t.rows)
	t.Clear()
}

// Size implements field.Surface.
func (t *Terminal) Size() (int, int) {
	return t.cols * CellWidth, t.rows * CellHeight
}

// Clear implements field.Surface.
func (t *Terminal) Clear() {
	for i := range t.cells {
		t.cells[i] = rgbaF{a: 1}
	}
}

// SetComposite implements field.Surface.
func (t *Terminal) SetComposite(mode field.CompositeMode) {
	t.mode = mode
}

// FillRadial implements field.Surface. The cell under the center is always
// shaded so particles smaller than a cell stay visible.
func (t *Terminal) FillRadial(x, y, r float64, inner, outer color.NRGBA) {
	if r <= 0 {
		return
	}
	in, out := fromNRGBA(inner), fromNRGBA(outer)
	cx, cy := int(x/CellWidth), int(y/CellHeight)
	x0, x1 := int(math.Floor((x-r)/CellWidth)), int(math.Floor((x+r)/CellWidth))
	y0, y1 := int(math.Floor((y-r)/CellHeight)), int(math.Floor((y+r)/CellHeight))

	for row := max(y0, 0); row <= min(y1, t.rows-1); row++ {
		for col := max(x0, 0); col <= min(x1, t.cols-1); col++ {
			d := math.Hypot((float64(col)+0.5)*CellWidth-x, (float64(row)+0.5)*CellHeight-y)
			if d > r && (col != cx || row != cy) {
				continue
			}
			i := row*t.cols + col
			t.cells[i] = composite(t.mode, t.cells[i], radial(in, out, d, r))
		}
	}
}

// Cell returns the shaded color of a cell.
func (t *Terminal) Cell(col, row int) color.NRGBA {
	if col < 0 || row < 0 || col >= t.cols || row >= t.rows {
		return color.NRGBA{}
	}
	return t.cells[row*t.cols+col].nrgba()
}

// Show copies the cells to the screen.
func (t *Terminal) Show() {
	for row := 0; row < t.rows; row++ {
		for col := 0; col < t.cols; col++ {
			c := t.cells[row*t.cols+col].nrgba()
			if c.R == 0 && c.G == 0 && c.B == 0 {
				t.screen.SetContent(col, row, ' ', nil, tcell.StyleDefault)
				continue
			}
			fg := tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
			t.screen.SetContent(col, row, '█', nil, tcell.StyleDefault.Foreground(fg))
		}
	}
	t.screen.Show()
}

// HandleEvent maps a terminal event onto the field. It returns false when
// the user asked to quit.
func (t *Terminal) HandleEvent(ev tcell.Event, f *field.Field) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC ||
			(ev.Key() == tcell.KeyRune && ev.Rune() == 'q') {
			return false
		}
	case *tcell.EventMouse:
		col, row := ev.Position()
		f.PointerMove((float64(col)+0.5)*CellWidth, (float64(row)+0.5)*CellHeight)
	case *tcell.EventFocus:
		if !ev.Focused {
			f.PointerOut()
		}
		f.SetVisible(ev.Focused)
	case *tcell.EventResize:
		t.screen.Sync()
		t.syncSize()
		f.Resize()
	}
	return true
}

// Run drives the field on a ticker until ctx is done, the user quits or
// maxFrames frames have been stepped (0 means no limit). onFrame runs after
// every presented frame.
func (t *Terminal) Run(ctx context.Context, f *field.Field, sched *field.StepScheduler, fps int, maxFrames int64, onFrame func()) {
	if fps <= 0 {
		fps = 30
	}
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	events := make(chan tcell.Event, 100)
	quit := make(chan struct{})
	go func() {
		for {
			ev := t.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-quit:
				return
			}
		}
	}()
	defer close(quit)

	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-events:
			if !t.HandleEvent(ev, f) {
				return
			}
		case <-ticker.C:
			if sched.Step() == 0 {
				continue
			}
			t.Show()
			if onFrame != nil {
				onFrame()
			}
			if maxFrames > 0 && f.Tick() >= maxFrames {
				return
			}
		}
	}
}
