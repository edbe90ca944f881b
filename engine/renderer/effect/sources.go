package effect

import _ "embed"

// Names of the effects the demo compiles at startup.
const (
	NameBasic  = "basic"
	NameColor  = "color"
	NameSprite = "sprite"
)

// BasicSource is the lit, textured, fogged effect used for every scene object.
//
//go:embed shaders/basic.wgsl
var BasicSource string

// ColorSource is the unlit per-vertex color effect used for gizmos.
//
//go:embed shaders/color.wgsl
var ColorSource string

// SpriteSource composites the overlay texture over the frame.
//
//go:embed shaders/sprite.wgsl
var SpriteSource string

// Sources maps each effect name to its WGSL source.
var Sources = map[string]string{
	NameBasic:  BasicSource,
	NameColor:  ColorSource,
	NameSprite: SpriteSource,
}
