package glview

import (
	"fmt"
	"image"
	"log/slog"
	"runtime"
	"sort"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"tagsphere/internal/cloud"
	"tagsphere/internal/render"
)

type Config struct {
	Title  string
	Width  int
	Height int

	Labels        []string
	EngineOptions []cloud.Option
	Logger        *slog.Logger
}

// surface is the cloud.Surface of a glfw window. Sizes are framebuffer pixels.
type surface struct {
	width      float64
	height     float64
	sizes      []image.Point
	transforms []cloud.Transform
	pixelScale float64
}

var _ cloud.Surface = &surface{}

func (s *surface) Container() cloud.Rect {
	return cloud.Rect{Width: s.width, Height: s.height}
}

func (s *surface) Viewport() (float64, float64) {
	return s.width, s.height
}

func (s *surface) ItemSize(i int) (float64, float64) {
	scale := s.pixelScale * s.transforms[i].Scale
	return float64(s.sizes[i].X) * scale, float64(s.sizes[i].Y) * scale
}

func (s *surface) Apply(i int, t cloud.Transform) {
	s.transforms[i] = t
}

// frameScheduler hands the pending engine tick to the window loop.
type frameScheduler struct {
	pending func(elapsed float64)
}

func (f *frameScheduler) Schedule(fn func(elapsed float64)) (cancel func()) {
	f.pending = fn
	return func() {
		f.pending = nil
	}
}

func (f *frameScheduler) run(elapsed float64) {
	fn := f.pending
	f.pending = nil
	if fn != nil {
		fn(elapsed)
	}
}

// Run opens a window showing the label sphere and blocks until it is closed.
// It must be called from the main goroutine.
func Run(config Config) error {
	runtime.LockOSThread()
	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("failed to initialize glfw: %w", err)
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	window, err := glfw.CreateWindow(config.Width, config.Height, config.Title, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to create window: %w", err)
	}
	window.MakeContextCurrent()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("failed to initialize gl: %w", err)
	}
	logger.Info("OpenGL ready", slog.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	q, err := newQuad()
	if err != nil {
		return err
	}
	defer q.delete()

	glyphs := render.NewGlyphs()
	bitmaps := glyphs.Labels(config.Labels)
	textures := make([]uint32, len(bitmaps))
	sizes := make([]image.Point, len(bitmaps))
	for i, bitmap := range bitmaps {
		textures[i] = newTexture(bitmap)
		sizes[i] = bitmap.Bounds().Size()
	}
	defer func() {
		if len(textures) > 0 {
			gl.DeleteTextures(int32(len(textures)), &textures[0])
		}
	}()

	fbWidth, fbHeight := window.GetFramebufferSize()
	s := &surface{
		width:      float64(fbWidth),
		height:     float64(fbHeight),
		sizes:      sizes,
		transforms: make([]cloud.Transform, len(bitmaps)),
		pixelScale: render.PixelScale(glyphs, float64(fbWidth), float64(fbHeight)),
	}
	for i := range s.transforms {
		s.transforms[i].Scale = 1
	}

	engine := cloud.New(s, config.Labels, append(config.EngineOptions, cloud.WithLogger(logger))...)
	sched := &frameScheduler{}

	// cursor positions are in screen coordinates, the surface is in framebuffer pixels
	window.SetCursorPosCallback(func(w *glfw.Window, x, y float64) {
		winWidth, winHeight := w.GetSize()
		if winWidth == 0 || winHeight == 0 {
			return
		}
		engine.PointerMove(x*s.width/float64(winWidth), y*s.height/float64(winHeight))
	})
	engine.Attach(func() { window.SetCursorPosCallback(nil) })

	window.SetFramebufferSizeCallback(func(_ *glfw.Window, width, height int) {
		s.width = float64(width)
		s.height = float64(height)
		gl.Viewport(0, 0, int32(width), int32(height))
		engine.Resize()
	})
	engine.Attach(func() { window.SetFramebufferSizeCallback(nil) })

	window.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if key == glfw.KeyEscape && action == glfw.Press {
			w.SetShouldClose(true)
		}
	})
	engine.Attach(func() { window.SetKeyCallback(nil) })

	if err := engine.Start(sched); err != nil {
		return err
	}
	defer engine.Stop()

	gl.Enable(gl.BLEND)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(0.06, 0.07, 0.11, 1.0)

	order := make([]int, len(textures))
	for i := range order {
		order[i] = i
	}

	lastFrameTime := glfw.GetTime()
	lastFpsTime := lastFrameTime
	frameCount := 0

	for !window.ShouldClose() {
		currentTime := glfw.GetTime()
		deltaTime := currentTime - lastFrameTime
		lastFrameTime = currentTime

		frameCount++
		if currentTime-lastFpsTime >= 1.0 {
			window.SetTitle(fmt.Sprintf("%s | FPS: %d", config.Title, frameCount))
			frameCount = 0
			lastFpsTime = currentTime
		}

		sched.run(deltaTime)

		gl.Clear(gl.COLOR_BUFFER_BIT)
		gl.UseProgram(q.program)
		gl.BindVertexArray(q.vao)
		gl.ActiveTexture(gl.TEXTURE0)
		gl.Uniform1i(q.label, 0)

		projection := mgl32.Ortho2D(0, float32(s.width), float32(s.height), 0)
		cx, cy := s.Container().Center()

		// far labels first so nearer ones blend over them
		sort.SliceStable(order, func(a, b int) bool {
			return s.transforms[order[a]].Depth < s.transforms[order[b]].Depth
		})
		for _, i := range order {
			t := s.transforms[i]
			w, h := s.ItemSize(i)
			model := mgl32.Translate3D(float32(cx+t.X), float32(cy+t.Y), 0).
				Mul4(mgl32.Scale3D(float32(w), float32(h), 1))
			mvp := projection.Mul4(model)

			gl.UniformMatrix4fv(q.mvp, 1, false, &mvp[0])
			gl.Uniform1f(q.opacity, float32(t.Opacity))
			gl.BindTexture(gl.TEXTURE_2D, textures[i])
			gl.DrawElements(gl.TRIANGLES, q.vertCount, gl.UNSIGNED_INT, gl.PtrOffset(0))
		}

		window.SwapBuffers()
		glfw.PollEvents()
	}

	logger.Info("window closed")
	return nil
}
