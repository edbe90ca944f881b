package renderer

// deviceConfig collects the pre-creation options applied by NewDevice.
type deviceConfig struct {
	forceFallbackAdapter bool
	presentMode          PresentMode
	sampleCount          MSAASampleCount
	uniformSpace         uint64
}

// DeviceBuilderOption is a functional option used to configure a Device during construction.
type DeviceBuilderOption func(*deviceConfig)

func defaultDeviceConfig() *deviceConfig {
	return &deviceConfig{
		presentMode:  PresentModeUncapped,
		sampleCount:  MSAA4x,
		uniformSpace: 1 << 20,
	}
}

// WithPresentMode sets the surface present mode which controls how frames are delivered to the display.
//
// Parameters:
//   - mode: the PresentMode to use (VSync or Uncapped)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the present mode option to a device
func WithPresentMode(mode PresentMode) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.presentMode = mode
	}
}

// WithMSAA sets the multisample anti-aliasing sample count for the device.
// When not specified, the default is MSAA4x. Use MSAAOff to disable MSAA entirely.
// Invalid counts are ignored.
//
// Parameters:
//   - count: the MSAASampleCount to use (MSAAOff or MSAA4x)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the MSAA option to a device
func WithMSAA(count MSAASampleCount) DeviceBuilderOption {
	return func(c *deviceConfig) {
		if count.Valid() {
			c.sampleCount = count
		}
	}
}

// WithForceSoftwareRenderer forces WGPU to use a CPU/software fallback adapter instead of
// hardware GPU acceleration. This requires a software Vulkan ICD to be installed on the system
// (e.g. SwiftShader or lavapipe).
//
// Parameters:
//   - force: true to force the software fallback adapter, false to use hardware (default)
//
// Returns:
//   - DeviceBuilderOption: a function that applies the force software renderer option to a device
func WithForceSoftwareRenderer(force bool) DeviceBuilderOption {
	return func(c *deviceConfig) {
		c.forceFallbackAdapter = force
	}
}

// WithUniformSpace sets the size of the per-frame constant ring. Every Apply consumes one
// 256-byte aligned slice per uniform block.
//
// Parameters:
//   - bytes: the ring size in bytes
//
// Returns:
//   - DeviceBuilderOption: a function that applies the uniform space option to a device
func WithUniformSpace(bytes uint64) DeviceBuilderOption {
	return func(c *deviceConfig) {
		if bytes > 0 {
			c.uniformSpace = bytes
		}
	}
}
