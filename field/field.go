// Package field runs the hero background particle simulation.
//
// A Field owns an ECS world of particles and drives it through a Scheduler,
// painting each frame onto a Surface. It is single-threaded: every method
// must be called from the goroutine that runs the scheduler callbacks.
package field

import (
	"fmt"
	"image/color"
	"log/slog"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/enki-verse/enkiverse-website/components"
	"github.com/enki-verse/enkiverse-website/systems"
	"github.com/enki-verse/enkiverse-website/telemetry"
)

// Particle is a snapshot of a single particle.
type Particle struct {
	X, Y                   float64
	DirectionX, DirectionY float64
	Size, BaseSize         float64
	Color                  color.NRGBA
}

// Option configures a Field.
type Option func(*Field)

// WithPerf records per-phase frame timing.
func WithPerf(p *telemetry.PerfCollector) Option {
	return func(f *Field) { f.perf = p }
}

// WithStats collects windowed population stats. onFlush receives each
// completed window.
func WithStats(c *telemetry.Collector, onFlush func(telemetry.WindowStats)) Option {
	return func(f *Field) {
		f.stats = c
		f.onStats = onFlush
	}
}

// Field is the particle field simulator.
// A nil *Field is valid and every method is a no-op.
type Field struct {
	world *ecs.World
	rng   *rand.Rand

	mapper  *ecs.Map4[components.Position, components.Velocity, components.Body, components.Tint]
	posMap  *ecs.Map[components.Position]
	velMap  *ecs.Map[components.Velocity]
	bodyMap *ecs.Map[components.Body]
	tintMap *ecs.Map[components.Tint]

	// Spawn order; the merge scan depends on it
	order []ecs.Entity

	motion  *systems.MotionSystem
	pointer *systems.PointerSystem
	merge   *systems.MergeSystem

	surface   Surface
	scheduler Scheduler
	params    Params
	geometry  Geometry
	ptr       systems.PointerState

	handle  FrameHandle
	running bool
	visible bool
	tick    int64

	perf    *telemetry.PerfCollector
	stats   *telemetry.Collector
	onStats func(telemetry.WindowStats)

	lastMerges    int
	lastShrinking int
}

// New creates a field painting onto surface. It returns nil when surface or
// scheduler is nil, leaving the caller with a no-op field. A nil rng seeds a
// fresh source.
func New(surface Surface, scheduler Scheduler, params Params, rng *rand.Rand, opts ...Option) *Field {
	if surface == nil || scheduler == nil {
		return nil
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(rand.Int63()))
	}
	params = params.normalized()

	world := ecs.NewWorld()
	f := &Field{
		world:     world,
		rng:       rng,
		mapper:    ecs.NewMap4[components.Position, components.Velocity, components.Body, components.Tint](world),
		posMap:    ecs.NewMap[components.Position](world),
		velMap:    ecs.NewMap[components.Velocity](world),
		bodyMap:   ecs.NewMap[components.Body](world),
		tintMap:   ecs.NewMap[components.Tint](world),
		motion:    systems.NewMotionSystem(world),
		pointer:   systems.NewPointerSystem(world, params.Rates),
		merge:     systems.NewMergeSystem(world, params.MaxMergeRadius),
		surface:   surface,
		scheduler: scheduler,
		params:    params,
		visible:   true,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Start seeds the population and requests the first frame.
func (f *Field) Start() {
	if f == nil {
		return
	}
	f.running = true
	f.Reinitialize()
}

// Stop cancels any pending frame. The population is kept.
func (f *Field) Stop() {
	if f == nil {
		return
	}
	f.running = false
	f.cancel()
}

// Reinitialize re-reads the surface size, discards the population and seeds
// a new one. A running, visible field requests a fresh frame.
func (f *Field) Reinitialize() {
	if f == nil {
		return
	}
	w, h := f.surface.Size()
	f.geometry = NewGeometry(w, h, f.params.AttractDivisor, f.params.ShrinkDivisor)
	f.cancel()

	for _, e := range f.order {
		f.world.RemoveEntity(e)
	}
	f.order = f.order[:0]

	n := PopulationCount(w, h, f.params.Density)
	for i := 0; i < n; i++ {
		f.Spawn(f.randomParticle())
	}

	slog.Debug("field initialized", "width", w, "height", h, "particles", n)

	if f.running && f.visible {
		f.request()
	}
}

// Resize reinitializes the field for the current surface size.
func (f *Field) Resize() {
	f.Reinitialize()
}

// randomParticle draws a particle fully inside the current surface.
func (f *Field) randomParticle() Particle {
	p := f.params
	size := p.MinRadius + f.rng.Float64()*(p.MaxRadius-p.MinRadius)
	g := f.geometry
	return Particle{
		X:          f.rng.Float64()*(g.Width-size*2) + size,
		Y:          f.rng.Float64()*(g.Height-size*2) + size,
		DirectionX: (f.rng.Float64()*2 - 1) * p.MaxSpeed,
		DirectionY: (f.rng.Float64()*2 - 1) * p.MaxSpeed,
		Size:       size,
		BaseSize:   size,
		Color:      p.Palette[f.rng.Intn(len(p.Palette))],
	}
}

// Spawn adds a particle at the end of the spawn order. A zero BaseSize is
// taken from Size.
func (f *Field) Spawn(p Particle) {
	if f == nil {
		return
	}
	if p.BaseSize == 0 {
		p.BaseSize = p.Size
	}
	if p.Size < 0 {
		p.Size = 0
	}
	pos := components.Position{X: p.X, Y: p.Y}
	vel := components.Velocity{X: p.DirectionX, Y: p.DirectionY}
	body := components.Body{Size: p.Size, BaseSize: p.BaseSize}
	tint := components.Tint{Color: p.Color}
	e := f.mapper.NewEntity(&pos, &vel, &body, &tint)
	f.order = append(f.order, e)
}

// Frame is the per-frame scheduler callback. A hidden or stopped field
// returns without requesting another frame.
func (f *Field) Frame() {
	if f == nil {
		return
	}
	f.handle = 0
	if !f.running || !f.visible {
		return
	}
	f.step()
	f.request()
}

// step runs one update and draw cycle.
func (f *Field) step() {
	f.tick++
	f.perf.StartTick()

	f.perf.StartPhase(telemetry.PhaseMotion)
	f.motion.Update(f.geometry.Bounds())

	f.perf.StartPhase(telemetry.PhasePointer)
	f.lastShrinking = f.pointer.Update(f.ptr, f.geometry.Zones())

	f.perf.StartPhase(telemetry.PhaseMerge)
	res := f.merge.Update(f.order)
	for _, e := range res.Removed {
		f.world.RemoveEntity(e)
	}
	f.order = res.Survivors
	f.lastMerges = res.Merges

	f.perf.StartPhase(telemetry.PhaseDraw)
	if err := f.draw(); err != nil {
		slog.Warn("field draw skipped", "tick", f.tick, "error", err)
	}

	f.perf.EndTick()
	f.perf.RecordFrame()
	f.recordStats()
}

// draw clears the surface and paints every particle. A panicking surface
// loses this frame only.
func (f *Field) draw() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("surface panic: %v", r)
		}
	}()

	f.surface.Clear()
	f.surface.SetComposite(CompositeDifference)
	for _, e := range f.order {
		pos := f.posMap.Get(e)
		body := f.bodyMap.Get(e)
		tint := f.tintMap.Get(e)
		f.surface.FillRadial(pos.X, pos.Y, body.Size, tint.Color, Fade(tint.Color, f.params.EdgeAlpha))
	}
	return nil
}

func (f *Field) recordStats() {
	if f.stats == nil {
		return
	}
	f.stats.RecordFrame(f.lastMerges, f.lastShrinking, f.ptr.Defined)
	if !f.stats.ShouldFlush(f.tick) {
		return
	}
	ws := f.stats.Flush(f.tick, f.Sizes())
	if f.onStats != nil {
		f.onStats(ws)
	}
}

// request asks the scheduler for the next frame unless one is pending.
func (f *Field) request() {
	if f.handle != 0 {
		return
	}
	f.handle = f.scheduler.RequestFrame(f.Frame)
}

func (f *Field) cancel() {
	if f.handle == 0 {
		return
	}
	f.scheduler.CancelFrame(f.handle)
	f.handle = 0
}

// PointerMove records the pointer position in surface coordinates.
func (f *Field) PointerMove(x, y float64) {
	if f == nil {
		return
	}
	f.ptr = systems.PointerState{Defined: true, X: x, Y: y}
}

// PointerOut clears the pointer.
func (f *Field) PointerOut() {
	if f == nil {
		return
	}
	f.ptr = systems.PointerState{}
}

// SetVisible pauses or resumes the loop. Hiding lets the pending frame be the
// last one; showing a running field with nothing pending runs a frame at once.
func (f *Field) SetVisible(visible bool) {
	if f == nil {
		return
	}
	f.visible = visible
	if visible && f.running && f.handle == 0 {
		f.Frame()
	}
}

// Particles returns snapshots in spawn order.
func (f *Field) Particles() []Particle {
	if f == nil {
		return nil
	}
	out := make([]Particle, 0, len(f.order))
	for _, e := range f.order {
		pos := f.posMap.Get(e)
		vel := f.velMap.Get(e)
		body := f.bodyMap.Get(e)
		tint := f.tintMap.Get(e)
		out = append(out, Particle{
			X: pos.X, Y: pos.Y,
			DirectionX: vel.X, DirectionY: vel.Y,
			Size: body.Size, BaseSize: body.BaseSize,
			Color: tint.Color,
		})
	}
	return out
}

// Sizes returns the current radius of every particle in spawn order.
func (f *Field) Sizes() []float64 {
	if f == nil {
		return nil
	}
	out := make([]float64, len(f.order))
	for i, e := range f.order {
		out[i] = f.bodyMap.Get(e).Size
	}
	return out
}

// Count returns the population size.
func (f *Field) Count() int {
	if f == nil {
		return 0
	}
	return len(f.order)
}

// Geometry returns the current surface geometry.
func (f *Field) Geometry() Geometry {
	if f == nil {
		return Geometry{}
	}
	return f.geometry
}

// Pointer returns the current pointer state.
func (f *Field) Pointer() systems.PointerState {
	if f == nil {
		return systems.PointerState{}
	}
	return f.ptr
}

// Params returns the field parameters.
func (f *Field) Params() Params {
	if f == nil {
		return Params{}
	}
	return f.params
}

// Running reports whether Start was called without a later Stop.
func (f *Field) Running() bool { return f != nil && f.running }

// Visible reports the last visibility set.
func (f *Field) Visible() bool { return f != nil && f.visible }

// Pending reports whether a frame request is outstanding.
func (f *Field) Pending() bool { return f != nil && f.handle != 0 }

// Tick returns the number of frames stepped.
func (f *Field) Tick() int64 {
	if f == nil {
		return 0
	}
	return f.tick
}

// LastFrame returns the merge count and shrinking count of the latest frame.
func (f *Field) LastFrame() (merges, shrinking int) {
	if f == nil {
		return 0, 0
	}
	return f.lastMerges, f.lastShrinking
}
