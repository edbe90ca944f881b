package effect

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newBasic(t *testing.T) Effect {
	t.Helper()
	fx, err := NewEffect(NameBasic, BasicSource)
	require.NoError(t, err)
	return fx
}

func u32At(b []byte, off uint64) uint32 {
	return binary.LittleEndian.Uint32(b[off:])
}

func f32At(b []byte, off uint64) float32 {
	return math.Float32frombits(u32At(b, off))
}

func TestAllEffectsParse(t *testing.T) {
	for name, src := range Sources {
		fx, err := NewEffect(name, src)
		require.NoError(t, err, name)
		assert.Equal(t, name, fx.Name())
	}
}

func TestBasicFrameLayout(t *testing.T) {
	fx := newBasic(t)

	want := map[string]struct {
		kind   SlotKind
		offset uint64
	}{
		"DirLights":       {SlotKindArray, 0},
		"FogColor":        {SlotKindVector, 192},
		"EyePosW":         {SlotKindVector, 208},
		"PointLightCount": {SlotKindScalar, 220},
		"DirLightCount":   {SlotKindScalar, 224},
		"FogStart":        {SlotKindScalar, 228},
		"FogRange":        {SlotKindScalar, 232},
		"UseFog":          {SlotKindScalar, 236},
		"UseAlphaClip":    {SlotKindScalar, 240},
		"UseTexture":      {SlotKindScalar, 244},
	}
	for name, w := range want {
		slot, err := fx.Slot(name)
		require.NoError(t, err, name)
		assert.Equal(t, w.kind, slot.Kind, name)
		assert.Equal(t, w.offset, slot.Offset, name)
		assert.Equal(t, "Frame", slot.Block, name)
	}
	assert.Len(t, fx.BlockData("Frame"), 256)

	_, err := fx.Slot("_pad0")
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestBasicObjectLayout(t *testing.T) {
	fx := newBasic(t)

	for name, off := range map[string]uint64{
		"World":               0,
		"WorldInvTranspose":   64,
		"WorldViewProj":       128,
		"Texture_Diffuse_Trf": 192,
		"Ambient":             256,
		"Diffuse":             272,
		"Specular":            288,
		"Reflect":             304,
	} {
		slot, err := fx.Slot(name)
		require.NoError(t, err, name)
		assert.Equal(t, off, slot.Offset, name)
		assert.Equal(t, 1, slot.Group, name)
	}
	assert.Len(t, fx.BlockData("Object"), 320)
}

func TestBasicResourceSlots(t *testing.T) {
	fx := newBasic(t)

	for name, gb := range map[string][2]int{
		"PointLights":     {0, 1},
		"TextureSampler":  {0, 2},
		"Texture_Diffuse": {1, 1},
	} {
		slot, err := fx.Slot(name)
		require.NoError(t, err, name)
		assert.Equal(t, SlotKindResource, slot.Kind, name)
		assert.Equal(t, gb[0], slot.Group, name)
		assert.Equal(t, gb[1], slot.Binding, name)
	}

	_, err := fx.Slot("Frame")
	assert.ErrorIs(t, err, ErrUnknownSlot)
}

func TestSettersWriteBlockBytes(t *testing.T) {
	fx := newBasic(t)

	require.NoError(t, fx.SetFloat("FogStart", 15))
	require.NoError(t, fx.SetInt("PointLightCount", 7))
	require.NoError(t, fx.SetBool("UseFog", true))
	require.NoError(t, fx.SetVector("EyePosW", mgl32.Vec4{1, 2, 3, 99}))
	require.NoError(t, fx.SetVector("FogColor", mgl32.Vec4{0.1, 0.2, 0.3, 1}))

	frame := fx.BlockData("Frame")
	assert.Equal(t, float32(15), f32At(frame, 228))
	assert.Equal(t, uint32(7), u32At(frame, 220))
	assert.Equal(t, uint32(1), u32At(frame, 236))
	assert.Equal(t, float32(3), f32At(frame, 216))
	assert.Equal(t, uint32(7), u32At(frame, 220), "vec3 write must not spill into the next field")
	assert.Equal(t, float32(1), f32At(frame, 204))

	require.NoError(t, fx.SetBool("UseFog", false))
	assert.Zero(t, u32At(frame, 236))
}

func TestSetMatrixIsColumnMajor(t *testing.T) {
	fx := newBasic(t)

	m := mgl32.Translate3D(4, 5, 6)
	require.NoError(t, fx.SetMatrix("World", m))

	object := fx.BlockData("Object")
	assert.Equal(t, float32(4), f32At(object, 48))
	assert.Equal(t, float32(5), f32At(object, 52))
	assert.Equal(t, float32(6), f32At(object, 56))
	assert.Equal(t, float32(1), f32At(object, 60))
}

func TestSetArray(t *testing.T) {
	fx := newBasic(t)

	data := make([]byte, 192)
	data[191] = 0xAB
	require.NoError(t, fx.SetArray("DirLights", data))
	assert.Equal(t, byte(0xAB), fx.BlockData("Frame")[191])

	err := fx.SetArray("DirLights", make([]byte, 193))
	assert.ErrorIs(t, err, ErrSlotKindMismatch)
}

func TestSetResource(t *testing.T) {
	fx := newBasic(t)

	require.NoError(t, fx.SetResource("Texture_Diffuse", "tex"))
	assert.Equal(t, "tex", fx.Resource("Texture_Diffuse"))
	assert.Nil(t, fx.Resource("TextureSampler"))
}

func TestKindMismatch(t *testing.T) {
	fx := newBasic(t)

	cases := map[string]error{
		"float to u32":       fx.SetFloat("UseFog", 1),
		"int to f32":         fx.SetInt("FogStart", 1),
		"bool to f32":        fx.SetBool("FogRange", true),
		"vector to matrix":   fx.SetVector("World", mgl32.Vec4{}),
		"matrix to vector":   fx.SetMatrix("Diffuse", mgl32.Ident4()),
		"resource to vector": fx.SetResource("Ambient", "x"),
		"scalar to resource": fx.SetFloat("Texture_Diffuse", 1),
	}
	for name, err := range cases {
		var be *BindingError
		require.ErrorAs(t, err, &be, name)
		assert.ErrorIs(t, err, ErrSlotKindMismatch, name)
		assert.Equal(t, NameBasic, be.Effect, name)
	}
}

func TestUnknownSlot(t *testing.T) {
	fx := newBasic(t)

	err := fx.SetVector("Emissive", mgl32.Vec4{})
	var be *BindingError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, "Emissive", be.Slot)
	assert.Equal(t, SlotKindVector, be.Kind)
	assert.ErrorIs(t, err, ErrUnknownSlot)
	assert.Contains(t, err.Error(), "Emissive")
}

func TestColorAndSpriteSlots(t *testing.T) {
	color, err := NewEffect(NameColor, ColorSource)
	require.NoError(t, err)
	slot, err := color.Slot("WorldViewProj")
	require.NoError(t, err)
	assert.Equal(t, SlotKindMatrix, slot.Kind)

	sprite, err := NewEffect(NameSprite, SpriteSource)
	require.NoError(t, err)
	assert.Empty(t, sprite.UniformBlocks())
	names := []string{}
	for _, s := range sprite.Slots() {
		names = append(names, s.Name)
	}
	assert.Equal(t, []string{"SpriteTex", "SpriteSampler"}, names)
}

func TestNewEffectParseError(t *testing.T) {
	_, err := NewEffect("bad", "fn nothing() {}")
	assert.Error(t, err)
}
