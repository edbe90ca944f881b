// Package overlay draws the 2D elements shown over the scene: the console, the profiler
// view and the HUD. Overlays draw through a Renderer; Canvas is the Renderer the frame
// composites over the swap chain image.
package overlay

import (
	"image"
	"image/color"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
)

var (
	White  = color.RGBA{255, 255, 255, 255}
	Yellow = color.RGBA{255, 255, 0, 255}
)

// TextureRef is an image an overlay can draw as a textured quad.
type TextureRef = image.Image

// Renderer is the 2D drawing surface of an overlay.
type Renderer interface {
	// DrawText draws content with its first baseline at pos.Y+font ascent. Newlines start
	// new lines LineHeight apart.
	DrawText(f Font, content string, pos image.Point, c color.RGBA)

	// DrawTexture draws tex stretched over rect, multiplied by tint.
	DrawTexture(tex TextureRef, rect image.Rectangle, tint color.RGBA)
}

// Font is a fixed-size face plus the metrics overlays lay text out with.
type Font struct {
	Face       font.Face
	LineHeight int
	Ascent     int
}

// DefaultFont returns the 7x13 bitmap font.
//
// Returns:
//   - Font: the font
func DefaultFont() Font {
	return NewFont(basicfont.Face7x13)
}

// NewFont wraps a face and reads its metrics.
//
// Parameters:
//   - face: the font face
//
// Returns:
//   - Font: the font
func NewFont(face font.Face) Font {
	m := face.Metrics()
	return Font{
		Face:       face,
		LineHeight: m.Height.Ceil(),
		Ascent:     m.Ascent.Ceil(),
	}
}

// Measure returns the pixel size of content laid out in f.
//
// Parameters:
//   - content: the text, possibly spanning several lines
//
// Returns:
//   - image.Point: the width of the widest line and the total height
func (f Font) Measure(content string) image.Point {
	lines := strings.Split(content, "\n")
	var w int
	for _, line := range lines {
		w = max(w, font.MeasureString(f.Face, line).Ceil())
	}
	return image.Pt(w, len(lines)*f.LineHeight)
}
