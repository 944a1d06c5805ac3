package render

import (
	"image"
	"image/color"
	"math"
)

// Fill paints the whole image with col.
func Fill(img *image.RGBA, col color.RGBA) {
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = col.R
		img.Pix[i+1] = col.G
		img.Pix[i+2] = col.B
		img.Pix[i+3] = col.A
	}
}

// DrawLine draws a line on the image from (x1, y1) to (x2, y2) with a DDA walk,
// blending col over the existing pixels.
func DrawLine(img *image.RGBA, x1, y1, x2, y2 int, col color.RGBA) {
	dx := float64(x2 - x1)
	dy := float64(y2 - y1)
	steps := math.Max(math.Abs(dx), math.Abs(dy))
	if steps == 0 {
		blend(img, x1, y1, col, 1)
		return
	}

	xInc := dx / steps
	yInc := dy / steps

	x := float64(x1)
	y := float64(y1)

	for i := 0; i <= int(steps); i++ {
		blend(img, int(math.Round(x)), int(math.Round(y)), col, 1)
		x += xInc
		y += yInc
	}
}

// DrawRect outlines the rectangle r.
func DrawRect(img *image.RGBA, r image.Rectangle, col color.RGBA) {
	maxX, maxY := r.Max.X-1, r.Max.Y-1
	DrawLine(img, r.Min.X, r.Min.Y, maxX, r.Min.Y, col)
	DrawLine(img, maxX, r.Min.Y, maxX, maxY, col)
	DrawLine(img, maxX, maxY, r.Min.X, maxY, col)
	DrawLine(img, r.Min.X, maxY, r.Min.X, r.Min.Y, col)
}

// DrawScaled draws src centered on (cx, cy), scaled by scale with nearest-neighbour
// sampling and faded by opacity.
func DrawScaled(dst, src *image.RGBA, cx, cy, scale, opacity float64) {
	if scale <= 0 || opacity <= 0 {
		return
	}
	sb := src.Bounds()
	w := float64(sb.Dx()) * scale
	h := float64(sb.Dy()) * scale

	x0 := int(math.Round(cx - w/2))
	y0 := int(math.Round(cy - h/2))
	x1 := x0 + int(math.Round(w))
	y1 := y0 + int(math.Round(h))

	area := image.Rect(x0, y0, x1, y1).Intersect(dst.Bounds())
	for y := area.Min.Y; y < area.Max.Y; y++ {
		sy := sb.Min.Y + int(float64(y-y0)/scale)
		if sy >= sb.Max.Y {
			sy = sb.Max.Y - 1
		}
		for x := area.Min.X; x < area.Max.X; x++ {
			sx := sb.Min.X + int(float64(x-x0)/scale)
			if sx >= sb.Max.X {
				sx = sb.Max.X - 1
			}
			c := src.RGBAAt(sx, sy)
			if c.A == 0 {
				continue
			}
			blend(dst, x, y, c, opacity)
		}
	}
}

// blend composites col, with its alpha multiplied by opacity, over the pixel at (x, y).
func blend(img *image.RGBA, x, y int, col color.RGBA, opacity float64) {
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}
	a := float64(col.A) / 255 * math.Min(1, opacity)
	if a <= 0 {
		return
	}

	offset := img.PixOffset(x, y)
	pix := img.Pix[offset : offset+4 : offset+4]
	pix[0] = mix(pix[0], col.R, a)
	pix[1] = mix(pix[1], col.G, a)
	pix[2] = mix(pix[2], col.B, a)
	pix[3] = uint8(math.Round(float64(pix[3]) + (255-float64(pix[3]))*a))
}

func mix(dst, src uint8, a float64) uint8 {
	return uint8(math.Round(float64(dst)*(1-a) + float64(src)*a))
}
