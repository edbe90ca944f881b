package overlay

import "github.com/Carmen-Shannon/oxy-mirror/engine/settings"

// ConsoleBuilderOption is a function that configures a Console during construction.
type ConsoleBuilderOption func(*Console)

// WithSettings registers the built-in commands against s.
//
// Parameters:
//   - s: the settings the commands edit
//
// Returns:
//   - ConsoleBuilderOption: a function that applies the settings option
func WithSettings(s *settings.Settings) ConsoleBuilderOption {
	return func(c *Console) {
		c.settings = s
	}
}

// WithConsoleFont sets the console font.
//
// Parameters:
//   - f: the font
//
// Returns:
//   - ConsoleBuilderOption: a function that applies the font option
func WithConsoleFont(f Font) ConsoleBuilderOption {
	return func(c *Console) {
		c.font = f
	}
}

// WithBackground sets the texture drawn behind the console text.
//
// Parameters:
//   - tex: the background texture
//
// Returns:
//   - ConsoleBuilderOption: a function that applies the background option
func WithBackground(tex TextureRef) ConsoleBuilderOption {
	return func(c *Console) {
		c.background = tex
	}
}

// WithSlideSpeed sets how fast the console slides in, in pixels per second.
//
// Parameters:
//   - pixelsPerSecond: the slide speed
//
// Returns:
//   - ConsoleBuilderOption: a function that applies the speed option
func WithSlideSpeed(pixelsPerSecond float32) ConsoleBuilderOption {
	return func(c *Console) {
		if pixelsPerSecond > 0 {
			c.speed = pixelsPerSecond
		}
	}
}

// WithHeight overrides the console height in pixels.
//
// Parameters:
//   - height: the height
//
// Returns:
//   - ConsoleBuilderOption: a function that applies the height option
func WithHeight(height int) ConsoleBuilderOption {
	return func(c *Console) {
		if height > 0 {
			c.height = height
		}
	}
}
