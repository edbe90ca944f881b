package light

import (
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
)

// rigConfig collects the options applied by NewRig.
type rigConfig struct {
	directional      [DirectionalLightCount]DirectionalLight
	directionalCount int
	activeCount      int
	pointLights      []PointLight
	rand             *rand.Rand
}

// RigBuilderOption is a function that configures a Rig during construction.
type RigBuilderOption func(*rigConfig)

func defaultRigConfig() *rigConfig {
	return &rigConfig{
		directional: [DirectionalLightCount]DirectionalLight{
			{
				Ambient:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
				Diffuse:   mgl32.Vec4{0.5, 0.5, 0.5, 1},
				Specular:  mgl32.Vec4{0.5, 0.5, 0.5, 1},
				Direction: mgl32.Vec3{0.57735, -0.57735, 0.57735},
			},
			{
				Ambient:   mgl32.Vec4{0, 0, 0, 1},
				Diffuse:   mgl32.Vec4{0.20, 0.20, 0.20, 1},
				Specular:  mgl32.Vec4{0.25, 0.25, 0.25, 1},
				Direction: mgl32.Vec3{-0.57735, -0.57735, 0.57735},
			},
			{
				Ambient:   mgl32.Vec4{0, 0, 0, 1},
				Diffuse:   mgl32.Vec4{0.2, 0.2, 0.2, 1},
				Specular:  mgl32.Vec4{0, 0, 0, 1},
				Direction: mgl32.Vec3{0, -0.707, -0.707},
			},
		},
		directionalCount: 1,
		activeCount:      3,
		rand:             rand.New(rand.NewSource(1)),
	}
}

// WithDirectionalLights is an option builder that replaces the three directional lights.
//
// Parameters:
//   - lights: the directional records
//
// Returns:
//   - RigBuilderOption: a function that applies the directional lights option
func WithDirectionalLights(lights [DirectionalLightCount]DirectionalLight) RigBuilderOption {
	return func(c *rigConfig) {
		c.directional = lights
	}
}

// WithDirectionalCount is an option builder that sets the initial directional light count.
//
// Parameters:
//   - n: the count in [0, DirectionalLightCount]
//
// Returns:
//   - RigBuilderOption: a function that applies the directional count option
func WithDirectionalCount(n int) RigBuilderOption {
	return func(c *rigConfig) {
		c.directionalCount = max(0, min(n, DirectionalLightCount))
	}
}

// WithActiveCount is an option builder that sets the initial point light count.
//
// Parameters:
//   - n: the count in [0, MaxPointLights]
//
// Returns:
//   - RigBuilderOption: a function that applies the active count option
func WithActiveCount(n int) RigBuilderOption {
	return func(c *rigConfig) {
		c.activeCount = n
	}
}

// WithPointLights is an option builder that provides the leading working records.
// Records beyond len(lights) are generated with a random diffuse color.
//
// Parameters:
//   - lights: the working records, at most MaxPointLights are used
//
// Returns:
//   - RigBuilderOption: a function that applies the point lights option
func WithPointLights(lights []PointLight) RigBuilderOption {
	return func(c *rigConfig) {
		c.pointLights = lights
	}
}

// WithSeed is an option builder that seeds the random diffuse colors of generated records.
//
// Parameters:
//   - seed: the random seed
//
// Returns:
//   - RigBuilderOption: a function that applies the seed option
func WithSeed(seed int64) RigBuilderOption {
	return func(c *rigConfig) {
		c.rand = rand.New(rand.NewSource(seed))
	}
}
