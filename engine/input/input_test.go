package input

import (
	"path/filepath"
	"testing"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/overlay"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(c *Controller, keys ...uint32) {
	for _, k := range keys {
		c.KeyDown(k)
		c.KeyUp(k)
	}
}

func TestDirectionalCountKeys(t *testing.T) {
	s := settings.NewSettings()
	c := NewController(s)

	press(c, common.Key0)
	assert.Equal(t, 0, s.Snapshot().DirLightCount)
	press(c, common.Key3)
	assert.Equal(t, 3, s.Snapshot().DirLightCount)
	press(c, common.Key2)
	assert.Equal(t, 2, s.Snapshot().DirLightCount)
}

func TestPointLightKeysAreEdgeTriggered(t *testing.T) {
	s := settings.NewSettings(settings.WithValues(func() settings.Values {
		v := settings.Defaults()
		v.PointLightCount = 5
		return v
	}()))
	c := NewController(s)

	c.KeyDown(common.KeyKPAdd)
	c.KeyDown(common.KeyKPAdd) // auto-repeat
	c.KeyDown(common.KeyKPAdd)
	assert.Equal(t, 6, s.Snapshot().PointLightCount)
	c.KeyUp(common.KeyKPAdd)

	press(c, common.KeyEqual)
	assert.Equal(t, 7, s.Snapshot().PointLightCount)

	press(c, common.KeyMinus, common.KeyKPSubtract)
	assert.Equal(t, 5, s.Snapshot().PointLightCount)
}

func TestPointLightKeysStayInRange(t *testing.T) {
	s := settings.NewSettings(settings.WithValues(func() settings.Values {
		v := settings.Defaults()
		v.PointLightCount = 0
		return v
	}()))
	c := NewController(s)

	press(c, common.KeyMinus)
	assert.Equal(t, 0, s.Snapshot().PointLightCount)

	s.Update(func(v *settings.Values) { v.PointLightCount = 64 })
	press(c, common.KeyKPAdd)
	assert.Equal(t, 64, s.Snapshot().PointLightCount)
}

func TestStateKeys(t *testing.T) {
	s := settings.NewSettings()
	c := NewController(s)

	cases := []struct {
		key   uint32
		check func(v settings.Values) bool
	}{
		{common.KeyU, func(v settings.Values) bool { return v.Blend == states.BlendFactor }},
		{common.KeyI, func(v settings.Values) bool { return v.Blend == states.BlendAlphaToCoverage }},
		{common.KeyO, func(v settings.Values) bool { return v.Blend == states.BlendTransparent }},
		{common.KeyP, func(v settings.Values) bool { return v.Blend == states.BlendOpaque }},
		{common.KeyL, func(v settings.Values) bool { return v.Sampler == common.SamplerLinear }},
		{common.KeyA, func(v settings.Values) bool { return v.Sampler == common.SamplerAnisotropic }},
		{common.KeyS, func(v settings.Values) bool { return v.Rasterizer == states.RasterSolid }},
	}
	for _, tc := range cases {
		press(c, tc.key)
		assert.True(t, tc.check(s.Snapshot()), "key %d", tc.key)
	}
}

func TestToggleKeys(t *testing.T) {
	s := settings.NewSettings()
	c := NewController(s)
	before := s.Snapshot()

	press(c, common.KeyR, common.KeyF, common.KeyT, common.KeyB, common.KeyV, common.KeyM)
	after := s.Snapshot()
	assert.Equal(t, !before.DrawReflections, after.DrawReflections)
	assert.Equal(t, !before.Fog.Enabled, after.Fog.Enabled)
	assert.Equal(t, !before.UseTexture, after.UseTexture)
	assert.Equal(t, !before.UseBlending, after.UseBlending)
	assert.Equal(t, !before.VSync, after.VSync)
	assert.Equal(t, renderer.MSAAOff, after.MSAA)

	press(c, common.KeyM)
	assert.Equal(t, renderer.MSAA4x, s.Snapshot().MSAA)
}

func TestWireframeKey(t *testing.T) {
	s := settings.NewSettings()
	c := NewController(s)

	press(c, common.KeyW)
	v := s.Snapshot()
	assert.True(t, v.Wireframe)
	assert.False(t, v.UseBlending)
	assert.Equal(t, states.RasterWireframe, v.Rasterizer)
	assert.Equal(t, states.BlendOpaque, v.Blend)

	press(c, common.KeyW)
	v = s.Snapshot()
	assert.False(t, v.Wireframe)
	assert.Equal(t, states.RasterSolid, v.Rasterizer)
}

func TestConsoleCapturesKeys(t *testing.T) {
	s := settings.NewSettings()
	console := overlay.NewConsole(overlay.WithSettings(s))
	c := NewController(s, WithConsole(console))

	press(c, common.KeyGraveAccent)
	require.True(t, console.Active())

	before := s.Snapshot()
	press(c, common.KeyR, common.KeyW, common.Key0)
	assert.Equal(t, before, s.Snapshot(), "keys are ignored while the console is open")

	for _, r := range "lights 9" {
		c.Char(r)
	}
	c.Char('`')
	press(c, common.KeyEnter)
	assert.Equal(t, 9, s.Snapshot().PointLightCount)

	press(c, common.KeyGraveAccent)
	assert.False(t, console.Active())
	c.Char('x')
	assert.Empty(t, console.Input())
}

func TestConsoleBackspaceRepeats(t *testing.T) {
	s := settings.NewSettings()
	console := overlay.NewConsole(overlay.WithSettings(s))
	c := NewController(s, WithConsole(console))
	press(c, common.KeyGraveAccent)

	for _, r := range "abc" {
		c.Char(r)
	}
	c.KeyDown(common.KeyBackspace)
	c.KeyDown(common.KeyBackspace)
	c.KeyUp(common.KeyBackspace)
	assert.Equal(t, "a", console.Input())
}

func TestEscapeClosesConsoleBeforeQuitting(t *testing.T) {
	s := settings.NewSettings()
	console := overlay.NewConsole()
	quits := 0
	c := NewController(s, WithConsole(console), WithQuit(func() { quits++ }))

	press(c, common.KeyGraveAccent)
	press(c, common.KeyEsc)
	assert.False(t, console.Active())
	assert.Zero(t, quits)

	press(c, common.KeyEsc)
	assert.Equal(t, 1, quits)
}

func TestF1CyclesProfilerView(t *testing.T) {
	view := overlay.NewProfilerView()
	c := NewController(settings.NewSettings(), WithProfilerView(view))

	press(c, common.KeyF1)
	assert.Equal(t, overlay.ViewCPU, view.Mode())
	press(c, common.KeyF1)
	assert.Equal(t, overlay.ViewFrame, view.Mode())
	press(c, common.KeyF1)
	assert.Equal(t, overlay.ViewOff, view.Mode())
}

func TestF5SavesSettings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	s := settings.NewSettings(settings.WithPath(path))
	c := NewController(s)

	press(c, common.KeyR, common.KeyF5)
	loaded, err := settings.Load(path)
	require.NoError(t, err)
	assert.False(t, loaded.Snapshot().DrawReflections)
}

func TestNilSettingsPanics(t *testing.T) {
	assert.Panics(t, func() { NewController(nil) })
}
