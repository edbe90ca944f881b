package input

// ControllerBuilderOption is a function that configures a Controller during construction.
type ControllerBuilderOption func(*Controller)

// WithConsole sets the console toggled by the grave accent key.
//
// Parameters:
//   - console: the console
//
// Returns:
//   - ControllerBuilderOption: a function that applies the console option
func WithConsole(console Console) ControllerBuilderOption {
	return func(c *Controller) {
		c.console = console
	}
}

// WithProfilerView sets the view cycled by F1.
//
// Parameters:
//   - view: the profiler view
//
// Returns:
//   - ControllerBuilderOption: a function that applies the view option
func WithProfilerView(view ProfilerView) ControllerBuilderOption {
	return func(c *Controller) {
		c.view = view
	}
}

// WithQuit sets the function Escape calls when the console is closed.
//
// Parameters:
//   - quit: the quit function
//
// Returns:
//   - ControllerBuilderOption: a function that applies the quit option
func WithQuit(quit func()) ControllerBuilderOption {
	return func(c *Controller) {
		c.onQuit = quit
	}
}
