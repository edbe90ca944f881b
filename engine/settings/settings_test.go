package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClamps(t *testing.T) {
	v := Defaults()
	v.Fog.Start = 2
	v.Fog.Range = 900
	v.BlendFactor = mgl32.Vec4{-1, 0.25, 2, 1}
	v.PointLightCount = 65
	v.DirLightCount = -1
	v.Rasterizer = "hatched"
	v.Blend = "additive"
	v.Sampler = "nearest"
	v.MSAA = 8

	n := v.Normalize()
	assert.Equal(t, float32(MinFogStart), n.Fog.Start)
	assert.Equal(t, float32(MaxFogRange), n.Fog.Range)
	assert.Equal(t, mgl32.Vec4{0, 0.25, 1, 1}, n.BlendFactor)
	assert.Equal(t, 64, n.PointLightCount)
	assert.Equal(t, 0, n.DirLightCount)
	assert.Equal(t, states.RasterSolid, n.Rasterizer)
	assert.Equal(t, states.BlendOpaque, n.Blend)
	assert.Equal(t, common.SamplerAnisotropic, n.Sampler)
	assert.Equal(t, renderer.MSAA4x, n.MSAA)
}

func TestWireframeToggle(t *testing.T) {
	v := Defaults()
	v.Blend = states.BlendTransparent
	v.SetWireframe(true)
	assert.True(t, v.Wireframe)
	assert.False(t, v.UseBlending)
	assert.Equal(t, states.RasterWireframe, v.Rasterizer)
	assert.Equal(t, states.BlendOpaque, v.Blend)

	v.SetWireframe(false)
	assert.False(t, v.Wireframe)
	assert.Equal(t, states.RasterSolid, v.Rasterizer)
	assert.False(t, v.UseBlending, "turning wireframe off leaves blending off")
}

func TestMeshQuat(t *testing.T) {
	v := Defaults()
	assert.Equal(t, mgl32.QuatIdent(), v.MeshQuat())

	v.MeshRotation = mgl32.Vec4{0, 2, 0, 0}
	q := v.MeshQuat()
	assert.InDelta(t, 1.0, q.V.Y(), 1e-6)
	assert.InDelta(t, 0.0, q.W, 1e-6)
}

func TestUpdateClampsAndSnapshotCopies(t *testing.T) {
	s := NewSettings()
	snap := s.Snapshot()

	got := s.Update(func(v *Values) { v.PointLightCount += 100 })
	assert.Equal(t, 64, got.PointLightCount)
	assert.Equal(t, 3, snap.PointLightCount, "snapshots are copies")
	assert.Equal(t, 64, s.Snapshot().PointLightCount)
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	s, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, Defaults(), s.Snapshot())
	assert.Equal(t, path, s.Path())
}

func TestLoadPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte("point_lights: 12\nfog:\n  start: 5\nrasterizer: cull-none\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	v := s.Snapshot()
	assert.Equal(t, 12, v.PointLightCount)
	assert.Equal(t, float32(MinFogStart), v.Fog.Start)
	assert.Equal(t, float32(175), v.Fog.Range)
	assert.Equal(t, states.RasterCullNone, v.Rasterizer)
	assert.True(t, v.VSync)
}

func TestLoadWireframeAppliesCoupledStates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte("wireframe: true\n"), 0o644))

	s, err := Load(path)
	require.NoError(t, err)
	v := s.Snapshot()
	assert.True(t, v.Wireframe)
	assert.False(t, v.UseBlending)
	assert.Equal(t, states.RasterWireframe, v.Rasterizer)
	assert.Equal(t, states.BlendOpaque, v.Blend)

	require.NoError(t, os.WriteFile(path, []byte("wireframe: false\n"), 0o644))
	require.NoError(t, s.Reload())
	v = s.Snapshot()
	assert.False(t, v.Wireframe)
	assert.Equal(t, states.RasterSolid, v.Rasterizer)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	require.NoError(t, os.WriteFile(path, []byte("point_lights: [oops\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse settings")
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "mirror.yaml")
	s := NewSettings(WithPath(path))
	s.Update(func(v *Values) {
		v.DirLightCount = 3
		v.Fog.Enabled = false
		v.Blend = states.BlendFactor
		v.MSAA = renderer.MSAAOff
	})
	require.NoError(t, s.Save())

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, s.Snapshot(), loaded.Snapshot())
}

func TestUnboundSettingsCannotSave(t *testing.T) {
	s := NewSettings()
	assert.Error(t, s.Save())
	assert.Error(t, s.Reload())
	assert.Error(t, s.Watch(nil))
}

func TestWatchReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mirror.yaml")
	s := NewSettings(WithPath(path))
	require.NoError(t, s.Save())

	reloaded := make(chan Values, 4)
	require.NoError(t, s.Watch(func(v Values) { reloaded <- v }))
	defer s.Close()

	require.NoError(t, os.WriteFile(path, []byte("point_lights: 9\n"), 0o644))

	// A write can arrive as a truncate event followed by the content.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case v := <-reloaded:
			if v.PointLightCount != 9 {
				continue
			}
			assert.Equal(t, 9, s.Snapshot().PointLightCount)
			return
		case <-deadline:
			t.Fatal("settings were not reloaded")
		}
	}
}

func TestCloseWithoutWatch(t *testing.T) {
	assert.NoError(t, NewSettings().Close())
}
