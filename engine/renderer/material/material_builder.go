package material

import "fmt"

// MaterialBuilderOption is a function that configures a material instance during construction.
type MaterialBuilderOption func(*Material)

// WithName is an option builder that sets the name of the material.
//
// Parameters:
//   - name: the identifier for the material
//
// Returns:
//   - MaterialBuilderOption: a function that applies the name option to a material
func WithName(name string) MaterialBuilderOption {
	return func(m *Material) {
		m.Name = name
	}
}

// WithBlended is an option builder that marks the material as drawn with the ambient blend state.
//
// Parameters:
//   - blended: whether the material opts into blending
//
// Returns:
//   - MaterialBuilderOption: a function that applies the blended option to a material
func WithBlended(blended bool) MaterialBuilderOption {
	return func(m *Material) {
		m.Blended = blended
	}
}

// WithProperty is an option builder that adds a property. Options apply before the
// material can be sealed, so a failure here is a duplicate name and panics.
//
// Parameters:
//   - name: the property name
//   - value: the property value
//
// Returns:
//   - MaterialBuilderOption: a function that adds the property to a material
func WithProperty(name string, value PropertyValue) MaterialBuilderOption {
	return func(m *Material) {
		if err := m.Add(name, value); err != nil {
			panic(fmt.Sprintf("material: failed to add property: %v", err))
		}
	}
}

// WithColors is an option builder that adds the Ambient, Diffuse and Specular vectors
// used by the lit effect. The specular w component is the specular power.
//
// Parameters:
//   - ambient: the ambient reflectance
//   - diffuse: the diffuse reflectance, alpha is the surface opacity
//   - specular: the specular reflectance and power
//
// Returns:
//   - MaterialBuilderOption: a function that adds the three properties to a material
func WithColors(ambient, diffuse, specular Vector4Value) MaterialBuilderOption {
	return func(m *Material) {
		WithProperty(PropertyAmbient, ambient)(m)
		WithProperty(PropertyDiffuse, diffuse)(m)
		WithProperty(PropertySpecular, specular)(m)
	}
}

// WithTexture is an option builder that adds the diffuse texture property.
//
// Parameters:
//   - tex: the texture and its coordinate transform
//
// Returns:
//   - MaterialBuilderOption: a function that adds the texture property to a material
func WithTexture(tex TextureValue) MaterialBuilderOption {
	return WithProperty(PropertyTextureDiffuse, tex)
}
