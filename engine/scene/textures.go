package scene

import (
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/blend"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/noise"
	"golang.org/x/image/draw"
)

// CheckerTexture fills a size×size image with a cells×cells checkerboard.
//
// Parameters:
//   - size: edge length in pixels
//   - cells: number of squares per edge
//   - a: color of the square at the origin
//   - b: the alternating color
//
// Returns:
//   - *image.RGBA: the generated image
func CheckerTexture(size, cells int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	cell := max(size/max(cells, 1), 1)
	for y := 0; y < size; y += cell {
		for x := 0; x < size; x += cell {
			c := a
			if (x/cell+y/cell)%2 == 1 {
				c = b
			}
			draw.Draw(img, image.Rect(x, y, x+cell, y+cell), image.NewUniform(c), image.Point{}, draw.Src)
		}
	}
	return img
}

// StripeTexture fills a size×size image with vertical stripes, which wrap around a
// cylinder as bands running along its height.
//
// Parameters:
//   - size: edge length in pixels
//   - stripes: number of stripe pairs
//   - a: first stripe color
//   - b: second stripe color
//
// Returns:
//   - *image.RGBA: the generated image
func StripeTexture(size, stripes int, a, b color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	width := max(size/max(2*stripes, 1), 1)
	for x := 0; x < size; x += width {
		c := a
		if (x/width)%2 == 1 {
			c = b
		}
		draw.Draw(img, image.Rect(x, 0, x+width, size), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

// GradientTexture fills a size×size image with a vertical gradient from top to bottom.
//
// Parameters:
//   - size: edge length in pixels
//   - top: color of the first row
//   - bottom: color of the last row
//
// Returns:
//   - *image.RGBA: the generated image
func GradientTexture(size int, top, bottom color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := range size {
		t := float32(y) / float32(max(size-1, 1))
		c := color.RGBA{
			R: lerp8(top.R, bottom.R, t),
			G: lerp8(top.G, bottom.G, t),
			B: lerp8(top.B, bottom.B, t),
			A: lerp8(top.A, bottom.A, t),
		}
		draw.Draw(img, image.Rect(0, y, size, y+1), image.NewUniform(c), image.Point{}, draw.Src)
	}
	return img
}

// CrateTexture is a two-tone checker roughened by multiplying in soft monochrome noise.
//
// Parameters:
//   - size: edge length in pixels
//
// Returns:
//   - *image.RGBA: the generated image
func CrateTexture(size int) *image.RGBA {
	base := CheckerTexture(size, 4, color.RGBA{176, 124, 72, 255}, color.RGBA{150, 100, 56, 255})
	grain := noise.Generate(size, size, &noise.Options{Monochrome: true, NoiseFn: noise.Uniform})
	lightened := image.NewRGBA(grain.Bounds())
	for i := 0; i < len(grain.Pix); i += 4 {
		// keep the grain subtle: map [0,255] onto [200,255]
		v := 200 + grain.Pix[i]/5
		lightened.Pix[i], lightened.Pix[i+1], lightened.Pix[i+2], lightened.Pix[i+3] = v, v, v, 255
	}
	return blend.Multiply(base, blur.Box(lightened, 1))
}

// SolidTexture returns a single pixel of c.
func SolidTexture(c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, c)
	return img
}

func lerp8(a, b uint8, t float32) uint8 {
	return uint8(float32(a) + (float32(b)-float32(a))*t + 0.5)
}
