package render

import (
	"image"
	"image/color"
	"math"
	"sort"

	"tagsphere/internal/cloud"
)

var (
	Background = color.RGBA{R: 0x10, G: 0x12, B: 0x1c, A: 0xff}
	FrameColor = color.RGBA{R: 0x3a, G: 0x40, B: 0x58, A: 0xff}
)

// Canvas is an in-memory cloud.Surface: the container fills the whole image and the
// items are label bitmaps. Draw paints the latest transforms.
type Canvas struct {
	img        *image.RGBA
	bitmaps    []*image.RGBA
	transforms []cloud.Transform
	pixelScale float64
}

var _ cloud.Surface = &Canvas{}

// NewCanvas returns a canvas of the given size showing one bitmap per label.
// Bitmaps are enlarged so labels are never drawn below the minimum font size.
func NewCanvas(width, height int, labels []string, glyphs *Glyphs) *Canvas {
	c := &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		bitmaps:    glyphs.Labels(labels),
		transforms: make([]cloud.Transform, len(labels)),
		pixelScale: PixelScale(glyphs, float64(width), float64(height)),
	}
	for i := range c.transforms {
		c.transforms[i].Scale = 1
		c.transforms[i].Opacity = 1
	}
	return c
}

// PixelScale is the factor bringing label bitmaps up to the minimum font size of a
// viewport; it never shrinks them.
func PixelScale(glyphs *Glyphs, viewportWidth, viewportHeight float64) float64 {
	return math.Max(1, cloud.MinFontSize(viewportWidth, viewportHeight)/float64(glyphs.LineHeight()))
}

func (c *Canvas) Container() cloud.Rect {
	b := c.img.Bounds()
	return cloud.Rect{Width: float64(b.Dx()), Height: float64(b.Dy())}
}

func (c *Canvas) Viewport() (float64, float64) {
	b := c.img.Bounds()
	return float64(b.Dx()), float64(b.Dy())
}

// ItemSize returns the drawn size of item i, including its latest scale.
func (c *Canvas) ItemSize(i int) (float64, float64) {
	b := c.bitmaps[i].Bounds()
	scale := c.pixelScale * c.transforms[i].Scale
	return float64(b.Dx()) * scale, float64(b.Dy()) * scale
}

func (c *Canvas) Apply(i int, t cloud.Transform) {
	c.transforms[i] = t
}

func (c *Canvas) Transform(i int) cloud.Transform {
	return c.transforms[i]
}

// Draw paints the frame far-to-near and returns the image.
func (c *Canvas) Draw() *image.RGBA {
	Fill(c.img, Background)
	DrawRect(c.img, c.img.Bounds(), FrameColor)

	order := make([]int, len(c.transforms))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return c.transforms[order[a]].Depth < c.transforms[order[b]].Depth
	})

	cx, cy := c.Container().Center()
	for _, i := range order {
		t := c.transforms[i]
		DrawScaled(c.img, c.bitmaps[i], cx+t.X, cy+t.Y, t.Scale*c.pixelScale, t.Opacity)
	}
	return c.img
}
