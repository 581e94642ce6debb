package viewer

import (
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"gonum.org/v1/gonum/stat"
)

// Window maps modality values to grey levels.
type Window struct {
	Center float64
	Width  float64
}

// AutoWindow centres the window on the mean and spans two standard
// deviations on each side.
func AutoWindow(data []float64) Window {
	if len(data) == 0 {
		return Window{Center: 0, Width: 1}
	}
	mean, std := stat.MeanStdDev(data, nil)
	if math.IsNaN(std) || math.IsInf(std, 0) || std == 0 {
		return Window{Center: mean, Width: 1}
	}
	return Window{Center: mean, Width: 4 * std}
}

// Gray maps v to 0..255.
func (w Window) Gray(v float64) uint8 {
	width := w.Width
	if width < 1 {
		width = 1
	}
	lo := w.Center - width/2
	g := (v - lo) / width * 255
	switch {
	case g <= 0:
		return 0
	case g >= 255:
		return 255
	}
	return uint8(g + 0.5)
}

// Gray converts the plane to an 8-bit image.
func (p *Plane) Gray(w Window) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, p.Width, p.Height))
	for i, v := range p.Data {
		img.Pix[(i/p.Width)*img.Stride+i%p.Width] = w.Gray(v)
	}
	return img
}

// Render draws the plane into a width x height image, keeping its aspect
// ratio, with the plane label in the top left corner.
func Render(p *Plane, w Window, width, height int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.Black), image.Point{}, draw.Src)

	if p.Width > 0 && p.Height > 0 && width > 0 && height > 0 {
		scale := math.Min(float64(width)/float64(p.Width), float64(height)/float64(p.Height))
		sw := max(1, int(float64(p.Width)*scale))
		sh := max(1, int(float64(p.Height)*scale))
		x0, y0 := (width-sw)/2, (height-sh)/2
		draw.BiLinear.Scale(dst, image.Rect(x0, y0, x0+sw, y0+sh), p.Gray(w), image.Rect(0, 0, p.Width, p.Height), draw.Src, nil)
	}

	drawLabel(dst, p.Label())
	return dst
}

func drawLabel(img *image.RGBA, text string) {
	face := basicfont.Face7x13
	x, y := 6, 4+face.Metrics().Ascent.Ceil()

	d := &font.Drawer{Dst: img, Src: image.NewUniform(color.Black), Face: face}
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			if dx != 0 || dy != 0 {
				d.Dot = fixed.P(x+dx, y+dy)
				d.DrawString(text)
			}
		}
	}

	d.Src = image.NewUniform(color.RGBA{255, 220, 0, 255})
	d.Dot = fixed.P(x, y)
	d.DrawString(text)
}
