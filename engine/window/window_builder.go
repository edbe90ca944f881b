package window

// windowConfig collects the options applied by NewWindow.
type windowConfig struct {
	title               string
	width, height       int
	minWidth, minHeight int
	maxWidth, maxHeight int
	resizable           bool
}

func defaultWindowConfig() *windowConfig {
	return &windowConfig{
		title:     "Oxy Mirror",
		width:     1280,
		height:    720,
		minWidth:  320,
		minHeight: 240,
		maxWidth:  3840,
		maxHeight: 2160,
		resizable: true,
	}
}

// WindowBuilderOption is a functional option for configuring a window.
type WindowBuilderOption func(c *windowConfig)

// WithTitle sets the window title displayed in the title bar.
//
// Parameters:
//   - title: the window title text
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithTitle(title string) WindowBuilderOption {
	return func(c *windowConfig) {
		c.title = title
	}
}

// WithWidth sets the requested client width. Non-positive values are ignored.
//
// Parameters:
//   - width: width in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithWidth(width int) WindowBuilderOption {
	return func(c *windowConfig) {
		if width > 0 {
			c.width = width
		}
	}
}

// WithHeight sets the requested client height. Non-positive values are ignored.
//
// Parameters:
//   - height: height in screen coordinates
//
// Returns:
//   - WindowBuilderOption: option function to apply
func WithHeight(height int) WindowBuilderOption {
	return func(c *windowConfig) {
		if height > 0 {
			c.height = height
		}
	}
}

// WithResizable allows or forbids interactive resizing.
func WithResizable(resizable bool) WindowBuilderOption {
	return func(c *windowConfig) {
		c.resizable = resizable
	}
}
