package overlay

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// Canvas is a Renderer that rasterizes into a transparent RGBA image the size of the
// window. The frame composites it over the scene when anything was drawn.
type Canvas struct {
	img     *image.RGBA
	drawn   bool
	scratch *image.RGBA
}

var _ Renderer = &Canvas{}

// NewCanvas creates a cleared canvas.
//
// Parameters:
//   - width: the canvas width in pixels
//   - height: the canvas height in pixels
//
// Returns:
//   - *Canvas: the new canvas
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Begin(width, height)
	return c
}

// Begin clears the canvas for a new frame, resizing it if the window size changed.
//
// Parameters:
//   - width: the canvas width in pixels
//   - height: the canvas height in pixels
func (c *Canvas) Begin(width, height int) {
	width, height = max(width, 1), max(height, 1)
	if c.img == nil || c.img.Rect.Dx() != width || c.img.Rect.Dy() != height {
		c.img = image.NewRGBA(image.Rect(0, 0, width, height))
	} else {
		clear(c.img.Pix)
	}
	c.drawn = false
}

// Image returns the canvas pixels.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// Drawn reports whether anything was drawn since Begin.
func (c *Canvas) Drawn() bool {
	return c.drawn
}

// Size returns the canvas size.
func (c *Canvas) Size() (int, int) {
	return c.img.Rect.Dx(), c.img.Rect.Dy()
}

func (c *Canvas) DrawText(f Font, content string, pos image.Point, col color.RGBA) {
	if content == "" {
		return
	}
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: f.Face,
	}
	for i, line := range strings.Split(content, "\n") {
		d.Dot = fixed.P(pos.X, pos.Y+f.Ascent+i*f.LineHeight)
		d.DrawString(line)
	}
	c.drawn = true
}

func (c *Canvas) DrawTexture(tex TextureRef, rect image.Rectangle, tint color.RGBA) {
	if tex == nil || rect.Empty() || !rect.Overlaps(c.img.Rect) {
		return
	}

	local := image.Rect(0, 0, rect.Dx(), rect.Dy())
	if c.scratch == nil || c.scratch.Rect.Dx() < local.Dx() || c.scratch.Rect.Dy() < local.Dy() {
		c.scratch = image.NewRGBA(local)
	}
	dst := c.scratch.SubImage(local).(*image.RGBA)
	draw.Draw(dst, local, image.Transparent, image.Point{}, draw.Src)
	draw.BiLinear.Scale(dst, local, tex, tex.Bounds(), draw.Src, nil)

	if tint != White {
		tintPixels(dst, tint)
	}
	draw.Draw(c.img, rect, dst, image.Point{}, draw.Over)
	c.drawn = true
}

// tintPixels multiplies every premultiplied pixel of img by tint.
func tintPixels(img *image.RGBA, tint color.RGBA) {
	b := img.Rect
	for y := b.Min.Y; y < b.Max.Y; y++ {
		row := img.Pix[img.PixOffset(b.Min.X, y):img.PixOffset(b.Max.X, y)]
		for i := 0; i < len(row); i += 4 {
			row[i+0] = uint8(uint16(row[i+0]) * uint16(tint.R) / 255)
			row[i+1] = uint8(uint16(row[i+1]) * uint16(tint.G) / 255)
			row[i+2] = uint8(uint16(row[i+2]) * uint16(tint.B) / 255)
			row[i+3] = uint8(uint16(row[i+3]) * uint16(tint.A) / 255)
		}
	}
}
