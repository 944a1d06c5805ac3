package cloud

import (
	"errors"
	"log/slog"
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"tagsphere/internal/sphere"
)

const (
	// FrameBudget is the number of seconds one tick accounts for when the host
	// does not report a measured elapsed time.
	FrameBudget = 0.016

	idleThreshold = 2.0
	idleSpeed     = 0.005
	speedDamping  = 20.0
)

var (
	ErrAlreadyStarted = errors.New("engine already started")
	ErrStopped        = errors.New("engine stopped")
)

// Mode tells who steers the sphere.
type Mode int

const (
	Idle Mode = iota
	UserDriven
)

func (m Mode) String() string {
	switch m {
	case Idle:
		return "idle"
	case UserDriven:
		return "user-driven"
	default:
		return "unknown"
	}
}

// Rect is an axis-aligned rectangle in client space.
type Rect struct {
	Left, Top, Width, Height float64
}

// Center returns the client-space center of the rectangle.
func (r Rect) Center() (x, y float64) {
	return r.Left + r.Width/2, r.Top + r.Height/2
}

// Point is a client-space pointer position.
type Point struct {
	X, Y float64
}

// Transform is the per-item output of a render pass. X and Y are offsets from the
// container center, Depth is the rotated z in [-1, 1].
type Transform struct {
	X, Y    float64
	Scale   float64
	Opacity float64
	Depth   float64
}

// Orientation is the rotation state of the whole sphere.
type Orientation struct {
	Axis  mgl64.Vec3
	Angle float64
	Speed float64
}

// Surface is the host the engine draws on.
type Surface interface {
	// Container returns the current client-space rect of the container.
	Container() Rect
	// Viewport returns the size of the whole visible area.
	Viewport() (width, height float64)
	// ItemSize returns the current rendered size of item i.
	ItemSize(i int) (width, height float64)
	// Apply writes the transform of item i.
	Apply(i int, t Transform)
}

// Flusher is implemented by surfaces that batch Apply calls; Flush runs once after
// every render pass.
type Flusher interface {
	Flush()
}

// Option configures an Engine.
type Option func(e *Engine)

// WithFrameBudget sets the seconds a tick accounts for in fixed-step mode.
func WithFrameBudget(seconds float64) Option {
	return func(e *Engine) {
		if seconds > 0 {
			e.frameBudget = seconds
		}
	}
}

// WithVariableStep makes ticks honour the elapsed time reported by the host.
// maxStep caps a single step after stalls; 0 disables the cap.
func WithVariableStep(maxStep float64) Option {
	return func(e *Engine) {
		e.variableStep = true
		e.maxStep = maxStep
	}
}

// WithLogger sets the logger used for lifecycle events.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// Engine owns the orientation of one sphere and projects its items every tick.
// It is not safe for concurrent use; hosts call it from a single goroutine.
type Engine struct {
	surface Surface
	points  []mgl64.Vec3
	factors []float64
	minFont float64

	orientation Orientation
	mode        Mode
	idleTime    float64
	size        float64

	frameBudget  float64
	variableStep bool
	maxStep      float64

	scheduler  Scheduler
	cancelTick func()
	detach     []func()
	stopped    bool

	logger *slog.Logger
}

// New builds an engine for the given labels; item i of the surface shows labels[i].
// The item count is fixed from here on. The initial layout is rendered immediately.
func New(surface Surface, labels []string, options ...Option) *Engine {
	e := &Engine{
		surface:     surface,
		points:      sphere.Generate(len(labels)),
		factors:     SizeFactors(labels),
		orientation: Orientation{Axis: mgl64.Vec3{1, 0, 0}},
		mode:        Idle,
		frameBudget: FrameBudget,
		logger:      slog.Default(),
	}
	for _, opt := range options {
		opt(e)
	}

	e.minFont = MinFontSize(surface.Viewport())
	e.size = characteristicSize(surface.Container())
	e.Render()
	return e
}

func (e *Engine) Len() int {
	return len(e.points)
}

// Points returns a copy of the sphere points.
func (e *Engine) Points() []mgl64.Vec3 {
	points := make([]mgl64.Vec3, len(e.points))
	copy(points, e.points)
	return points
}

func (e *Engine) SizeFactor(i int) float64 {
	return e.factors[i]
}

func (e *Engine) MinFontSize() float64 {
	return e.minFont
}

func (e *Engine) Orientation() Orientation {
	return e.orientation
}

func (e *Engine) Mode() Mode {
	return e.mode
}

func (e *Engine) IdleTime() float64 {
	return e.idleTime
}

// Size returns the characteristic size the sphere is projected with.
func (e *Engine) Size() float64 {
	return e.size
}

// Resize recomputes the characteristic size from the container and re-renders.
func (e *Engine) Resize() {
	if e.stopped {
		return
	}
	e.size = characteristicSize(e.surface.Container())
	e.Render()
}

// PointerMove steers the sphere from a client-space pointer position. The farther
// the pointer is from the container center, the faster the sphere spins.
func (e *Engine) PointerMove(x, y float64) {
	if e.stopped {
		return
	}
	if e.mode != UserDriven {
		e.logger.Debug("pointer took over rotation", slog.Float64("idle", e.idleTime))
	}
	e.mode = UserDriven
	e.idleTime = 0

	cx, cy := e.surface.Container().Center()
	dx, dy := x-cx, y-cy
	a := math.Atan2(dx, dy) - math.Pi/2

	speed := 0.0
	vw, vh := e.surface.Viewport()
	if extent := math.Max(vw, vh); extent > 0 {
		speed = math.Hypot(dx, dy) / extent / speedDamping
	}

	e.orientation.Axis = mgl64.Vec3{math.Sin(a), math.Cos(a), 0}
	e.orientation.Speed = speed
}

// TouchMove steers the sphere from the first contact point.
func (e *Engine) TouchMove(touches []Point) {
	if len(touches) == 0 {
		return
	}
	e.PointerMove(touches[0].X, touches[0].Y)
}

// Tick advances the rotation by one frame and renders. elapsed is the measured time
// since the previous frame in seconds; it is only honoured in variable-step mode.
func (e *Engine) Tick(elapsed float64) {
	if e.stopped {
		return
	}

	step := e.frameBudget
	if e.variableStep && elapsed > 0 {
		step = elapsed
		if e.maxStep > 0 {
			step = math.Min(step, e.maxStep)
		}
	}

	e.orientation.Angle += e.orientation.Speed * (step / e.frameBudget)

	if e.mode == Idle {
		e.idleTime += step
		if e.idleTime > idleThreshold {
			e.orientation.Speed = idleSpeed
			e.orientation.Axis = idleAxis(e.idleTime)
		}
	}

	e.Render()
}

// idleAxis wanders slowly; the component frequencies share no short common period.
func idleAxis(t float64) mgl64.Vec3 {
	return mgl64.Vec3{
		math.Sin(t*0.5) * 0.5,
		math.Cos(t*0.3) * 0.5,
		math.Sin(t*0.2) * 0.5,
	}
}

// Render projects every item with the current orientation and writes its transform.
func (e *Engine) Render() {
	if e.stopped || len(e.points) == 0 {
		return
	}

	r := sphere.Rotation(e.orientation.Axis, e.orientation.Angle)
	container := e.surface.Container()

	for i, p := range e.points {
		v := r.Mul3x1(p)
		x, y := sphere.Project(v, e.size)

		w, h := e.surface.ItemSize(i)
		x = sphere.Clamp(x, container.Width, w)
		y = sphere.Clamp(y, container.Height, h)

		e.surface.Apply(i, Transform{
			X:       x,
			Y:       y,
			Scale:   sphere.DepthScale(v[2]) * e.factors[i],
			Opacity: sphere.Opacity(v[2]),
			Depth:   v[2],
		})
	}

	if f, ok := e.surface.(Flusher); ok {
		f.Flush()
	}
}

// Start hands the tick loop to the host scheduler. Every tick schedules the next one
// until Stop is called.
func (e *Engine) Start(s Scheduler) error {
	if e.stopped {
		return ErrStopped
	}
	if e.scheduler != nil {
		return ErrAlreadyStarted
	}
	e.scheduler = s
	e.schedule()
	e.logger.Info("sphere started", slog.Int("items", len(e.points)))
	return nil
}

func (e *Engine) schedule() {
	e.cancelTick = e.scheduler.Schedule(e.frame)
}

func (e *Engine) frame(elapsed float64) {
	e.cancelTick = nil
	if e.stopped {
		return
	}
	e.Tick(elapsed)
	if !e.stopped {
		e.schedule()
	}
}

// Attach registers a function that detaches one of the host listeners feeding this
// engine. It runs on Stop, or immediately when the engine is already stopped.
func (e *Engine) Attach(detach func()) {
	if e.stopped {
		detach()
		return
	}
	e.detach = append(e.detach, detach)
}

// Stop cancels the pending tick and detaches every registered listener.
// Calling Stop more than once is a no-op.
func (e *Engine) Stop() {
	if e.stopped {
		return
	}
	e.stopped = true

	if e.cancelTick != nil {
		e.cancelTick()
		e.cancelTick = nil
	}
	for i := len(e.detach) - 1; i >= 0; i-- {
		e.detach[i]()
	}
	e.detach = nil

	e.logger.Info("sphere stopped", slog.Float64("angle", e.orientation.Angle), slog.String("mode", e.mode.String()))
}

func (e *Engine) Stopped() bool {
	return e.stopped
}
