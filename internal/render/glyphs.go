package render

import (
	"image"
	"image/color"
	"log/slog"

	"tinygo.org/x/drivers"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/freemono"
	"tinygo.org/x/tinyfont/notosans"
)

// LabelColor is the ink of label bitmaps; opacity is applied when they are drawn.
var LabelColor = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}

// bitmapDisplay lets tinyfont draw into an RGBA image.
type bitmapDisplay struct {
	img *image.RGBA
}

var _ drivers.Displayer = &bitmapDisplay{}

func (d *bitmapDisplay) Size() (x, y int16) {
	b := d.img.Bounds()
	return int16(b.Dx()), int16(b.Dy())
}

func (d *bitmapDisplay) SetPixel(x, y int16, c color.RGBA) {
	if !(image.Point{X: int(x), Y: int(y)}).In(d.img.Bounds()) {
		return
	}
	d.img.SetRGBA(int(x), int(y), c)
}

func (d *bitmapDisplay) Display() error {
	return nil
}

// boxGlyph stands in for runes no face covers, so such labels still show up.
type boxGlyph struct {
	r    rune
	size uint8
}

func (b boxGlyph) Draw(display drivers.Displayer, x int16, y int16, c color.RGBA) {
	info := b.Info()
	left, top := x+int16(info.XOffset), y+int16(info.YOffset)
	right, bottom := left+int16(info.Width)-1, top+int16(info.Height)-1
	for i := left; i <= right; i++ {
		display.SetPixel(i, top, c)
		display.SetPixel(i, bottom, c)
	}
	for j := top; j <= bottom; j++ {
		display.SetPixel(left, j, c)
		display.SetPixel(right, j, c)
	}
}

func (b boxGlyph) Info() tinyfont.GlyphInfo {
	width := b.size * 2 / 3
	return tinyfont.GlyphInfo{
		Rune:     b.r,
		Width:    width,
		Height:   b.size,
		XAdvance: width + 2,
		XOffset:  1,
		YOffset:  -int8(b.size),
	}
}

// faceChain looks a rune up in each face in turn and falls back to a box.
type faceChain struct {
	faces []*tinyfont.Font
	box   uint8
}

var _ tinyfont.Fonter = &faceChain{}

func (f *faceChain) lookup(r rune) (tinyfont.Glypher, bool) {
	for _, face := range f.faces {
		// tinyfont answers unknown runes with an empty glyph of rune 0
		if glyph := face.GetGlyph(r); glyph.Info().Rune == r {
			return glyph, true
		}
	}
	return boxGlyph{r: r, size: f.box}, false
}

func (f *faceChain) GetGlyph(r rune) tinyfont.Glypher {
	glyph, _ := f.lookup(r)
	return glyph
}

func (f *faceChain) GetYAdvance() uint8 {
	return f.faces[0].GetYAdvance()
}

// Glyphs rasterizes label text into bitmaps.
type Glyphs struct {
	font    *faceChain
	padding int
	color   color.RGBA
	logger  *slog.Logger
}

// NewGlyphs uses FreeMono Bold for ASCII and Noto Sans for the other scripts it
// covers. Runes neither face has are drawn as boxes.
func NewGlyphs() *Glyphs {
	primary := &freemono.Bold9pt7b
	return &Glyphs{
		font: &faceChain{
			faces: []*tinyfont.Font{primary, &notosans.Notosans12pt},
			box:   primary.GetYAdvance() * 2 / 3,
		},
		padding: 4,
		color:   LabelColor,
		logger:  slog.Default(),
	}
}

// Missing returns the runes of text no face can draw, in order of appearance.
func (g *Glyphs) Missing(text string) []rune {
	var missing []rune
	seen := map[rune]struct{}{}
	for _, r := range text {
		if _, ok := g.font.lookup(r); ok || r == ' ' {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		missing = append(missing, r)
	}
	return missing
}

// LineHeight is the unscaled height of a label bitmap.
func (g *Glyphs) LineHeight() int {
	return int(g.font.GetYAdvance()) + 2*g.padding
}

// Label returns the bitmap of one label on a transparent background.
func (g *Glyphs) Label(text string) *image.RGBA {
	if missing := g.Missing(text); len(missing) > 0 {
		g.logger.Warn("label has characters without glyphs, drawing boxes",
			slog.String("label", text), slog.Int("missing", len(missing)))
	}

	_, width := tinyfont.LineWidth(g.font, text)
	advance := int(g.font.GetYAdvance())

	img := image.NewRGBA(image.Rect(0, 0, int(width)+2*g.padding, g.LineHeight()))
	baseline := g.padding + advance*3/4
	tinyfont.WriteLine(&bitmapDisplay{img: img}, g.font, int16(g.padding), int16(baseline), text, g.color)
	return img
}

func (g *Glyphs) Labels(texts []string) []*image.RGBA {
	bitmaps := make([]*image.RGBA, len(texts))
	for i, text := range texts {
		bitmaps[i] = g.Label(text)
	}
	return bitmaps
}
