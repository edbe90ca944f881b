package overlay

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blur"
	"golang.org/x/image/draw"
)

// HUD is the heads-up line shown when neither the console nor the profiler view is open.
type HUD struct {
	font Font
}

// NewHUD creates a HUD drawn in f.
//
// Parameters:
//   - f: the font
//
// Returns:
//   - *HUD: the new HUD
func NewHUD(f Font) *HUD {
	return &HUD{font: f}
}

// Text returns the HUD line for the given point light count.
func (h *HUD) Text(pointLights int) string {
	return fmt.Sprintf(" Number of point lights : %d", pointLights)
}

// Draw renders the HUD line in the top left corner.
//
// Parameters:
//   - r: the overlay renderer
//   - pointLights: the active point light count
func (h *HUD) Draw(r Renderer, pointLights int) {
	r.DrawText(h.font, h.Text(pointLights), image.Pt(10, 10), White)
}

// ConsoleBackground generates the translucent panel drawn behind the console: a dark
// vertical gradient with a soft bright rule along its bottom edge.
//
// Parameters:
//   - width: the texture width
//   - height: the texture height
//
// Returns:
//   - image.Image: the generated texture
func ConsoleBackground(width, height int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		t := float32(y) / float32(max(height-1, 1))
		c := color.RGBA{
			R: uint8(10 + 20*t),
			G: uint8(20 + 30*t),
			B: uint8(40 + 60*t),
			A: 210,
		}
		draw.Draw(img, image.Rect(0, y, width, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
	rule := image.Rect(0, height-4, width, height)
	draw.Draw(img, rule, image.NewUniform(color.RGBA{120, 160, 220, 255}), image.Point{}, draw.Src)
	return blur.Gaussian(img, 1.5)
}
