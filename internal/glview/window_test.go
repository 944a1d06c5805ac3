package glview

import (
	"image"
	"io"
	"log/slog"
	"math"
	"testing"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tagsphere/internal/cloud"
)

func TestFrameScheduler(t *testing.T) {
	sched := &frameScheduler{}
	var got []float64
	sched.Schedule(func(elapsed float64) { got = append(got, elapsed) })

	sched.run(0.02)
	sched.run(0.03)
	assert.Equal(t, []float64{0.02}, got, "a scheduled frame runs once")

	sched.Schedule(func(elapsed float64) { got = append(got, elapsed) })
	cancel := sched.Schedule(func(elapsed float64) { got = append(got, -elapsed) })
	cancel()
	sched.run(0.04)
	assert.Equal(t, []float64{0.02}, got)
}

func TestSurface_DrivenByEngine(t *testing.T) {
	s := &surface{
		width:      800,
		height:     600,
		sizes:      []image.Point{{60, 20}, {30, 20}, {90, 20}},
		transforms: make([]cloud.Transform, 3),
		pixelScale: 2,
	}
	engine := cloud.New(s, []string{"Go", "gl", "glfw"}, cloud.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	sched := &frameScheduler{}
	require.NoError(t, engine.Start(sched))

	engine.PointerMove(700, 300)
	for range 30 {
		sched.run(1.0 / 60)
	}
	assert.Positive(t, engine.Orientation().Angle)

	for i, tr := range s.transforms {
		w, _ := s.ItemSize(i)
		assert.InDelta(t, float64(s.sizes[i].X)*2*tr.Scale, w, 1e-9)
		assert.LessOrEqual(t, math.Abs(tr.X), 400.0)
		assert.LessOrEqual(t, math.Abs(tr.Y), 300.0)
	}

	engine.Stop()
	assert.Nil(t, sched.pending)
}

func TestInfoLog(t *testing.T) {
	const message = "0:3(1): error: syntax error"
	getiv := func(object, pname uint32, params *int32) {
		assert.Equal(t, uint32(7), object)
		assert.Equal(t, uint32(gl.INFO_LOG_LENGTH), pname)
		*params = int32(len(message) + 1)
	}
	getLog := func(object uint32, bufSize int32, length *int32, log *uint8) {
		assert.Equal(t, uint32(7), object)
		buf := unsafe.Slice(log, bufSize)
		copy(buf, message)
		buf[len(message)] = 0
	}
	assert.Equal(t, message, infoLog(7, getiv, getLog))

	empty := func(_, _ uint32, params *int32) { *params = 0 }
	assert.Empty(t, infoLog(7, empty, func(uint32, int32, *int32, *uint8) {}))
}
