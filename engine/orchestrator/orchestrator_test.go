package orchestrator

import (
	"errors"
	"image"
	"testing"
	"time"

	"github.com/Carmen-Shannon/oxy-mirror/engine/camera"
	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/overlay"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/renderertest"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/Carmen-Shannon/oxy-mirror/engine/scene"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// draws per pass
const (
	gizmoDraws     = 2
	directDraws    = 2*scene.ColumnCount + 2
	reflectedDraws = 2*scene.ColumnCount + 2
)

type fakeOverlay struct {
	active bool
	draws  int
}

func (f *fakeOverlay) Active() bool { return f.active }

func (f *fakeOverlay) Draw(r overlay.Renderer, _ int) {
	f.draws++
	r.DrawText(overlay.DefaultFont(), "x", image.Pt(0, 0), overlay.White)
}

type fixture struct {
	rec      *renderertest.Recorder
	rig      *light.Rig
	cam      camera.Camera
	settings *settings.Settings
	console  *fakeOverlay
	view     *fakeOverlay
	orch     *Orchestrator
}

func newFixture(t *testing.T, mutate func(v *settings.Values)) *fixture {
	t.Helper()

	rec := renderertest.New()
	geo, err := geometry.Build()
	require.NoError(t, err)
	require.NoError(t, rec.UploadGeometry(geo))

	basic, err := effect.NewEffect(effect.NameBasic, effect.Sources[effect.NameBasic])
	require.NoError(t, err)
	color, err := effect.NewEffect(effect.NameColor, effect.Sources[effect.NameColor])
	require.NoError(t, err)

	sc, err := scene.New(rec, scene.WithTextureSize(8))
	require.NoError(t, err)

	s := settings.NewSettings()
	if mutate != nil {
		s.Update(mutate)
	}

	f := &fixture{
		rec:      rec,
		rig:      light.NewRig(rec, light.WithSeed(1)),
		cam:      camera.NewCamera(),
		settings: s,
		console:  &fakeOverlay{},
		view:     &fakeOverlay{},
	}
	f.orch = New(
		WithDevice(rec),
		WithGeometry(geo),
		WithEffects(basic, color),
		WithRig(f.rig),
		WithCamera(f.cam),
		WithSettings(s),
		WithScene(sc),
		WithConsole(f.console),
		WithProfilerView(f.view),
		WithSize(64, 32),
	)
	return f
}

// frame runs one Update and Draw with a clean call log.
func (f *fixture) frame(t *testing.T) {
	t.Helper()
	require.NoError(t, f.orch.Update(1.0/60))
	f.rec.Reset()
	require.NoError(t, f.orch.Draw())
}

func names(calls []renderertest.Call) []string {
	out := make([]string, len(calls))
	for i, c := range calls {
		out[i] = c.Name
	}
	return out
}

func TestFrameOrder(t *testing.T) {
	f := newFixture(t, nil)
	f.frame(t)

	ops := f.rec.Ops()
	calls := f.rec.Calls()
	require.GreaterOrEqual(t, len(ops), 12)

	assert.Equal(t, renderertest.OpClear, ops[0])
	assert.Equal(t, renderer.LightSteelBlue, calls[0].Color)
	assert.Equal(t, "line-list", calls[1].Name)
	assert.Equal(t, renderer.GeometryGizmo.String(), calls[2].Name)
	assert.Equal(t, string(states.BlendOpaque), calls[3].Name)
	assert.Equal(t, []string{
		renderertest.OpApply, renderertest.OpDrawIndexed,
		renderertest.OpApply, renderertest.OpDrawIndexed,
	}, ops[4:8])
	assert.Equal(t, effect.NameColor, calls[4].Name)
	assert.Equal(t, "triangle-list", calls[8].Name)
	assert.Equal(t, renderer.GeometryScene.String(), calls[9].Name)

	n := len(ops)
	assert.Equal(t, []string{
		renderertest.OpSetRasterizer,
		renderertest.OpSetBlend,
		renderertest.OpComposite,
		renderertest.OpPresent,
	}, ops[n-4:])
	assert.Equal(t, string(states.RasterSolid), calls[n-4].Name)
	assert.Equal(t, string(states.BlendAlphaToCoverage), calls[n-3].Name)
	assert.True(t, calls[n-1].VSync)

	assert.Len(t, f.rec.Filter(renderertest.OpDrawIndexed), gizmoDraws+directDraws+1+reflectedDraws+1)
}

func TestMirrorStencilSequence(t *testing.T) {
	f := newFixture(t, nil)
	f.frame(t)

	assert.Equal(t, []string{
		string(states.DepthMarkStencil),
		string(states.DepthDefault),
		string(states.DepthDrawStenciled),
		string(states.DepthDefault),
		string(states.DepthDefault),
	}, names(f.rec.Filter(renderertest.OpSetDepthStencil)))

	blends := names(f.rec.Filter(renderertest.OpSetBlend))
	assert.Contains(t, blends, string(states.BlendNoTargetWrites))
	assert.Contains(t, blends, string(states.BlendTransparent))
}

func TestReflectedObjectsAreMirrored(t *testing.T) {
	f := newFixture(t, nil)
	f.frame(t)

	applies := f.rec.Filter(renderertest.OpApply)
	var lit []renderertest.Call
	for _, c := range applies {
		if c.Name == effect.NameBasic {
			lit = append(lit, c)
		}
	}
	// direct pass, stencil mark, reflected pass, final grid
	require.Len(t, lit, directDraws+1+reflectedDraws+1)

	box := lit[0]
	mirroredBox := lit[directDraws+1]
	assert.NotEqual(t, box.Blocks, mirroredBox.Blocks)
}

func TestLightsRestoredAfterReflection(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.orch.Update(1.0/60))

	storages := f.rec.Storages()
	require.NotEmpty(t, storages)
	active := storages[len(storages)-1]
	working := append([]byte(nil), active.Data...)
	require.NotEmpty(t, working)

	f.rec.Reset()
	require.NoError(t, f.orch.Draw())

	writes := f.rec.Filter(renderertest.OpWriteStorage)
	require.GreaterOrEqual(t, len(writes), 2)
	assert.NotEqual(t, working, writes[0].Data, "mirrored lights are uploaded for the reflection")
	assert.Equal(t, working, writes[len(writes)-1].Data)
	assert.Equal(t, working, active.Data)

	st := f.rig.State()
	assert.Equal(t, light.NewRig(renderertest.New(), light.WithSeed(1)).State().Directional, st.Directional)
}

func TestNoMirrorWithoutReflections(t *testing.T) {
	f := newFixture(t, func(v *settings.Values) { v.DrawReflections = false })
	f.frame(t)

	assert.Empty(t, f.rec.Filter(renderertest.OpSetDepthStencil))
	assert.Empty(t, f.rec.Filter(renderertest.OpWriteStorage))
	assert.Len(t, f.rec.Filter(renderertest.OpDrawIndexed), gizmoDraws+directDraws+1)
}

func TestWireframeFrame(t *testing.T) {
	f := newFixture(t, func(v *settings.Values) { v.SetWireframe(true) })
	f.frame(t)

	assert.Empty(t, f.rec.Filter(renderertest.OpSetDepthStencil))
	raster := names(f.rec.Filter(renderertest.OpSetRasterizer))
	assert.Equal(t, string(states.RasterWireframe), raster[0])
	assert.Empty(t, f.rec.Filter(renderertest.OpComposite), "no HUD in wireframe")
	assert.Len(t, f.rec.Filter(renderertest.OpPresent), 1)
}

func TestBlendedDirectDrawRestoresStates(t *testing.T) {
	f := newFixture(t, func(v *settings.Values) { v.Blend = states.BlendTransparent })
	f.frame(t)

	calls := f.rec.Calls()
	// the box is the first lit draw and is blended
	first := -1
	for i, c := range calls {
		if c.Op == renderertest.OpApply && c.Name == effect.NameBasic {
			first = i
			break
		}
	}
	require.Greater(t, first, 2)

	assert.Equal(t, renderertest.OpSetBlend, calls[first-2].Op)
	assert.Equal(t, string(states.BlendTransparent), calls[first-2].Name)
	assert.Equal(t, renderertest.OpSetRasterizer, calls[first-1].Op)
	assert.Equal(t, string(states.RasterCullNone), calls[first-1].Name)

	assert.Equal(t, renderertest.OpDrawIndexed, calls[first+1].Op)
	assert.Equal(t, renderertest.OpSetRasterizer, calls[first+2].Op)
	assert.Equal(t, string(states.RasterSolid), calls[first+2].Name)
	assert.Equal(t, renderertest.OpSetBlend, calls[first+3].Op)
	assert.Equal(t, string(states.BlendDefault), calls[first+3].Name)
}

func TestOverlaySelection(t *testing.T) {
	f := newFixture(t, nil)

	f.console.active = true
	f.view.active = true
	f.frame(t)
	assert.Equal(t, 1, f.console.draws)
	assert.Equal(t, 0, f.view.draws)
	assert.Len(t, f.rec.Filter(renderertest.OpComposite), 1)

	f.console.active = false
	f.frame(t)
	assert.Equal(t, 1, f.console.draws)
	assert.Equal(t, 1, f.view.draws)

	f.view.active = false
	f.frame(t)
	assert.Equal(t, 1, f.view.draws)
	assert.Len(t, f.rec.Filter(renderertest.OpComposite), 1, "HUD is drawn")
}

func TestUpdateAppliesSettings(t *testing.T) {
	f := newFixture(t, func(v *settings.Values) {
		v.PointLightCount = 5
		v.DirLightCount = 3
		v.MSAA = renderer.MSAAOff
	})
	require.NoError(t, f.orch.Update(0.1))
	assert.Equal(t, 5, f.rig.ActiveCount())
	assert.Equal(t, 3, f.rig.State().DirectionalCount)
	assert.Equal(t, renderer.MSAAOff, f.rec.SampleCount())

	f.settings.Update(func(v *settings.Values) {
		v.PointLightCount = 0
		v.MSAA = renderer.MSAA4x
	})
	require.NoError(t, f.orch.Update(0.1))
	assert.Equal(t, 0, f.rig.ActiveCount())
	assert.Equal(t, renderer.MSAA4x, f.rec.SampleCount())

	f.rec.Reset()
	require.NoError(t, f.orch.Draw())
	assert.Empty(t, f.rec.Filter(renderertest.OpWriteStorage))
}

func TestTimerAdvancesAtHalfRate(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.orch.Update(0.2))
	require.NoError(t, f.orch.Update(0.2))
	assert.InDelta(t, 0.2, f.orch.Timer(), 1e-6)
}

func TestResize(t *testing.T) {
	f := newFixture(t, nil)
	f.orch.Resize(800, 600)
	w, h := f.rec.Size()
	assert.Equal(t, 800, w)
	assert.Equal(t, 600, h)
	assert.InDelta(t, 800.0/600.0, f.cam.Aspect(), 1e-6)

	f.orch.Resize(0, 600)
	w, _ = f.rec.Size()
	assert.Equal(t, 800, w)
}

func TestNewPanicsWithoutCollaborators(t *testing.T) {
	assert.PanicsWithValue(t, "orchestrator: failed to create orchestrator: no device", func() { New() })
	assert.PanicsWithValue(t, "orchestrator: failed to create orchestrator: no geometry ranges", func() {
		New(WithDevice(renderertest.New()))
	})
}

func TestFailedReflectedDrawReleasesLights(t *testing.T) {
	f := newFixture(t, nil)
	require.NoError(t, f.orch.Update(1.0/60))
	active := f.rec.Storages()[len(f.rec.Storages())-1]
	working := append([]byte(nil), active.Data...)

	boom := errors.New("device lost")
	f.rec.FailOp = renderertest.OpDrawIndexed
	f.rec.FailAfter = gizmoDraws + directDraws + 1 + 3
	f.rec.FailErr = boom

	err := f.orch.Draw()
	require.ErrorIs(t, err, boom)
	assert.Equal(t, working, active.Data)

	done := make(chan struct{})
	go func() {
		_ = f.rig.State()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("rig lock still held after a failed frame")
	}
}
