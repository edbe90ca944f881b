// Package orchestrator sequences a frame of the mirror demo into render state changes
// and draw calls: a gizmo pass, the lit scene, the stencil-masked planar reflection
// of the scene in the ground grid, and one overlay.
package orchestrator

import (
	"fmt"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/camera"
	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/overlay"
	"github.com/Carmen-Shannon/oxy-mirror/engine/profiler"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/material"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/Carmen-Shannon/oxy-mirror/engine/scene"
	"github.com/Carmen-Shannon/oxy-mirror/engine/settings"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// Effect slot names written by the orchestrator.
const (
	SlotDirLights         = "DirLights"
	SlotPointLights       = "PointLights"
	SlotPointLightCount   = "PointLightCount"
	SlotDirLightCount     = "DirLightCount"
	SlotEyePos            = "EyePosW"
	SlotSampler           = "TextureSampler"
	SlotFogColor          = "FogColor"
	SlotFogStart          = "FogStart"
	SlotFogRange          = "FogRange"
	SlotUseFog            = "UseFog"
	SlotUseAlphaClip      = "UseAlphaClip"
	SlotUseTexture        = "UseTexture"
	SlotWorld             = "World"
	SlotWorldInvTranspose = "WorldInvTranspose"
	SlotWorldViewProj     = "WorldViewProj"
)

// Profiler scope names.
const (
	ScopeUpdate  = "Update"
	ScopeDraw    = "Draw Scene"
	ScopeMirror  = "Mirror"
	ScopeOverlay = "Overlay"
)

// timerRate scales frame time into the light orbit timer.
const timerRate = 0.5

var opaqueFactor = mgl32.Vec4{1, 1, 1, 1}

// RangeSource resolves object names to index ranges in the uploaded geometry.
type RangeSource interface {
	Range(name geometry.ObjectName) (geometry.Range, error)
}

// Overlay is a full-screen 2D layer that is only drawn while active.
type Overlay interface {
	Active() bool
	Draw(r overlay.Renderer, width int)
}

// Orchestrator drives one frame at a time. Update and Draw must be called from the
// same goroutine.
type Orchestrator struct {
	dev      renderer.Device
	ranges   RangeSource
	basic    effect.Effect
	color    effect.Effect
	rig      *light.Rig
	cam      camera.Camera
	settings *settings.Settings
	prof     *profiler.Profiler
	scene    *scene.Scene

	console Overlay
	view    Overlay
	hud     *overlay.HUD
	canvas  *overlay.Canvas

	width  int
	height int

	timer  float32
	values settings.Values
}

// New creates an orchestrator from its collaborators. The device, geometry ranges,
// both effects, the rig, the camera, the settings and the scene are required.
//
// Parameters:
//   - opts: variadic list of OrchestratorBuilderOption functions supplying the collaborators
//
// Returns:
//   - *Orchestrator: the new orchestrator
func New(opts ...OrchestratorBuilderOption) *Orchestrator {
	o := &Orchestrator{width: 1, height: 1}
	for _, opt := range opts {
		opt(o)
	}

	switch {
	case o.dev == nil:
		panic("orchestrator: failed to create orchestrator: no device")
	case o.ranges == nil:
		panic("orchestrator: failed to create orchestrator: no geometry ranges")
	case o.basic == nil || o.color == nil:
		panic("orchestrator: failed to create orchestrator: missing effect")
	case o.rig == nil:
		panic("orchestrator: failed to create orchestrator: no light rig")
	case o.cam == nil:
		panic("orchestrator: failed to create orchestrator: no camera")
	case o.settings == nil:
		panic("orchestrator: failed to create orchestrator: no settings")
	case o.scene == nil:
		panic("orchestrator: failed to create orchestrator: no scene")
	}

	if o.prof == nil {
		o.prof = profiler.NewProfiler()
	}
	if o.hud == nil {
		o.hud = overlay.NewHUD(overlay.DefaultFont())
	}
	if o.canvas == nil {
		o.canvas = overlay.NewCanvas(o.width, o.height)
	}
	o.values = o.settings.Snapshot()
	o.cam.Resize(o.width, o.height)
	return o
}

// Timer returns the light orbit timer.
func (o *Orchestrator) Timer() float32 {
	return o.timer
}

// Resize reconfigures the device targets and the camera aspect for a new surface size.
//
// Parameters:
//   - width: surface width in pixels
//   - height: surface height in pixels
func (o *Orchestrator) Resize(width, height int) {
	if width <= 0 || height <= 0 {
		return
	}
	o.width, o.height = width, height
	o.dev.Resize(width, height)
	o.cam.Resize(width, height)
}

// Update advances the scene by dt seconds: it takes a settings snapshot for the frame,
// applies light count and MSAA changes, moves the point lights along their orbits and
// uploads them, and updates the camera.
//
// Parameters:
//   - dt: frame time in seconds
//
// Returns:
//   - error: error if a light reallocation or upload failed
func (o *Orchestrator) Update(dt float32) error {
	defer o.prof.Scope(ScopeUpdate)()

	v := o.settings.Snapshot()
	o.values = v

	o.scene.SetMeshRotation(v.MeshQuat())
	o.timer += dt * timerRate

	if v.PointLightCount != o.rig.ActiveCount() {
		if err := o.rig.SetActiveCount(v.PointLightCount); err != nil {
			return fmt.Errorf("orchestrator: failed to set point light count: %w", err)
		}
	}
	if v.DirLightCount != o.rig.State().DirectionalCount {
		if err := o.rig.SetDirectionalCount(v.DirLightCount); err != nil {
			return fmt.Errorf("orchestrator: failed to set directional light count: %w", err)
		}
	}
	if v.MSAA != o.dev.SampleCount() {
		if err := o.dev.SetSampleCount(v.MSAA); err != nil {
			return fmt.Errorf("orchestrator: failed to set sample count: %w", err)
		}
	}

	if o.rig.ActiveCount() > 0 {
		if err := o.rig.Animate(o.timer); err != nil {
			return fmt.Errorf("orchestrator: failed to upload point lights: %w", err)
		}
	}

	o.cam.Update()
	return nil
}

// Draw records and presents one frame using the settings snapshot taken by the last Update.
//
// Returns:
//   - error: the first device, binding or light upload failure
func (o *Orchestrator) Draw() error {
	defer o.prof.Scope(ScopeDraw)()
	v := o.values

	if err := o.dev.Clear(renderer.LightSteelBlue); err != nil {
		return err
	}

	viewProj := o.cam.ViewProjection()
	if err := o.drawGizmos(viewProj); err != nil {
		return err
	}
	if err := o.drawScene(v, viewProj); err != nil {
		return err
	}

	if err := o.dev.SetRasterizer(states.RasterSolid); err != nil {
		return err
	}
	if err := o.dev.SetBlend(states.BlendAlphaToCoverage, v.BlendFactor); err != nil {
		return err
	}

	if err := o.drawOverlay(v); err != nil {
		return err
	}
	return o.dev.Present(v.VSync)
}

func (o *Orchestrator) drawGizmos(viewProj mgl32.Mat4) error {
	o.dev.SetTopology(wgpu.PrimitiveTopologyLineList)
	o.dev.SetGeometry(renderer.GeometryGizmo)
	if err := o.dev.SetBlend(states.BlendOpaque, opaqueFactor); err != nil {
		return err
	}

	for _, d := range []*scene.Drawable{&o.scene.WireBox, &o.scene.Axis} {
		r, err := o.ranges.Range(d.Object)
		if err != nil {
			return err
		}
		if err := o.color.SetMatrix(SlotWorldViewProj, viewProj.Mul4(d.World)); err != nil {
			return err
		}
		if err := o.dev.Apply(o.color); err != nil {
			return err
		}
		if err := o.dev.DrawIndexed(r); err != nil {
			return err
		}
	}
	return nil
}

func (o *Orchestrator) drawScene(v settings.Values, viewProj mgl32.Mat4) error {
	o.dev.SetTopology(wgpu.PrimitiveTopologyTriangleList)
	o.dev.SetGeometry(renderer.GeometryScene)
	if err := o.dev.SetRasterizer(v.Rasterizer); err != nil {
		return err
	}
	if err := o.pushFrame(v, o.rig.State()); err != nil {
		return err
	}

	s := o.scene
	if err := o.drawDirect(v, &s.Box, viewProj); err != nil {
		return err
	}
	for i := range s.Cylinders {
		if err := o.drawDirect(v, &s.Cylinders[i], viewProj); err != nil {
			return err
		}
	}
	if err := o.drawDirect(v, &s.Mesh, viewProj); err != nil {
		return err
	}
	for i := range s.Spheres {
		if err := o.drawDirect(v, &s.Spheres[i], viewProj); err != nil {
			return err
		}
	}

	if v.Wireframe || !v.DrawReflections {
		return o.drawObject(&s.Grid, s.Grid.World, viewProj)
	}
	return o.drawMirror(v, viewProj)
}

// drawDirect draws d unreflected. Blended materials use the ambient blend state and,
// with blending on, no culling; the ambient states are restored afterwards.
func (o *Orchestrator) drawDirect(v settings.Values, d *scene.Drawable, viewProj mgl32.Mat4) error {
	if !d.Material.Blended {
		return o.drawObject(d, d.World, viewProj)
	}

	if err := o.dev.SetBlend(v.Blend, v.BlendFactor); err != nil {
		return err
	}
	if v.UseBlending {
		if err := o.dev.SetRasterizer(states.RasterCullNone); err != nil {
			return err
		}
	}
	if err := o.drawObject(d, d.World, viewProj); err != nil {
		return err
	}
	if err := o.dev.SetRasterizer(v.Rasterizer); err != nil {
		return err
	}
	return o.dev.SetBlend(states.BlendDefault, v.BlendFactor)
}

// drawMirror marks the visible grid pixels in the stencil buffer, draws the reflected
// scene into them with mirrored lights, then blends the grid over the reflection.
func (o *Orchestrator) drawMirror(v settings.Values, viewProj mgl32.Mat4) (err error) {
	defer o.prof.Scope(ScopeMirror)()
	s := o.scene

	if err := o.dev.SetBlend(states.BlendNoTargetWrites, v.BlendFactor); err != nil {
		return err
	}
	if err := o.dev.SetDepthStencil(states.DepthMarkStencil); err != nil {
		return err
	}
	if err := o.drawObject(&s.Grid, s.Grid.World, viewProj); err != nil {
		return err
	}
	if err := o.dev.SetDepthStencil(states.DepthDefault); err != nil {
		return err
	}
	if err := o.dev.SetBlend(states.BlendDefault, v.BlendFactor); err != nil {
		return err
	}

	guard, err := o.rig.Reflect(common.MirrorPlaneY)
	if err != nil {
		return fmt.Errorf("orchestrator: failed to reflect lights: %w", err)
	}
	defer func() {
		if rerr := guard.Restore(); rerr != nil && err == nil {
			err = fmt.Errorf("orchestrator: failed to restore lights: %w", rerr)
		}
	}()
	if err := o.pushLights(guard.State()); err != nil {
		return err
	}

	if err := o.drawReflected(v, viewProj); err != nil {
		return err
	}

	if err := guard.Restore(); err != nil {
		return fmt.Errorf("orchestrator: failed to restore lights: %w", err)
	}
	if err := o.pushLights(o.rig.State()); err != nil {
		return err
	}

	if err := o.dev.SetBlend(states.BlendTransparent, v.BlendFactor); err != nil {
		return err
	}
	if err := o.drawObject(&s.Grid, s.Grid.World, viewProj); err != nil {
		return err
	}
	if err := o.dev.SetBlend(states.BlendDefault, v.BlendFactor); err != nil {
		return err
	}
	return o.dev.SetDepthStencil(states.DepthDefault)
}

// drawReflected draws box, cylinders, spheres and mesh mirrored across the grid plane,
// clipped to the stencil mark. Reflection flips winding, so culling is clockwise.
func (o *Orchestrator) drawReflected(v settings.Values, viewProj mgl32.Mat4) error {
	s := o.scene
	mirror := common.MirrorPlaneY.Reflection()

	blendedRaster := states.RasterCullClockwise
	if v.UseBlending {
		blendedRaster = states.RasterCullNone
	}

	if err := o.dev.SetDepthStencil(states.DepthDrawStenciled); err != nil {
		return err
	}

	if err := o.dev.SetRasterizer(blendedRaster); err != nil {
		return err
	}
	if err := o.drawObject(&s.Box, mirror.Mul4(s.Box.World), viewProj); err != nil {
		return err
	}

	if err := o.dev.SetRasterizer(states.RasterCullClockwise); err != nil {
		return err
	}
	for i := range s.Cylinders {
		d := &s.Cylinders[i]
		if err := o.drawObject(d, mirror.Mul4(d.World), viewProj); err != nil {
			return err
		}
	}

	if err := o.dev.SetRasterizer(blendedRaster); err != nil {
		return err
	}
	for i := range s.Spheres {
		d := &s.Spheres[i]
		if err := o.dev.SetBlend(v.Blend, v.BlendFactor); err != nil {
			return err
		}
		if err := o.drawObject(d, mirror.Mul4(d.World), viewProj); err != nil {
			return err
		}
		if err := o.dev.SetBlend(states.BlendDefault, v.BlendFactor); err != nil {
			return err
		}
	}

	if err := o.dev.SetRasterizer(states.RasterCullClockwise); err != nil {
		return err
	}
	if err := o.drawObject(&s.Mesh, mirror.Mul4(s.Mesh.World), viewProj); err != nil {
		return err
	}

	if err := o.dev.SetRasterizer(states.RasterDefault); err != nil {
		return err
	}
	return o.dev.SetDepthStencil(states.DepthDefault)
}

// drawObject writes the per-object constants for d at world, binds its material and draws it.
func (o *Orchestrator) drawObject(d *scene.Drawable, world, viewProj mgl32.Mat4) error {
	r, err := o.ranges.Range(d.Object)
	if err != nil {
		return err
	}

	fx := o.basic
	if err := fx.SetMatrix(SlotWorld, world); err != nil {
		return err
	}
	if err := fx.SetMatrix(SlotWorldInvTranspose, common.InverseTranspose(world)); err != nil {
		return err
	}
	if err := fx.SetMatrix(SlotWorldViewProj, viewProj.Mul4(world)); err != nil {
		return err
	}
	if err := material.Bind(d.Material, fx); err != nil {
		return err
	}
	if err := o.dev.Apply(fx); err != nil {
		return fmt.Errorf("orchestrator: failed to apply %s: %w", d.Name, err)
	}
	return o.dev.DrawIndexed(r)
}

// pushFrame writes the per-frame constants of the lit effect.
func (o *Orchestrator) pushFrame(v settings.Values, st light.State) error {
	fx := o.basic
	if err := o.pushLights(st); err != nil {
		return err
	}

	sampler, err := o.dev.Sampler(v.Sampler)
	if err != nil {
		return fmt.Errorf("orchestrator: failed to get sampler %q: %w", v.Sampler, err)
	}
	eye := o.cam.EyePosition()

	for _, set := range []func() error{
		func() error { return fx.SetVector(SlotEyePos, eye.Vec4(1)) },
		func() error { return fx.SetResource(SlotSampler, sampler) },
		func() error { return fx.SetVector(SlotFogColor, v.Fog.Color) },
		func() error { return fx.SetFloat(SlotFogStart, v.Fog.Start) },
		func() error { return fx.SetFloat(SlotFogRange, v.Fog.Range) },
		func() error { return fx.SetBool(SlotUseFog, v.Fog.Enabled) },
		func() error { return fx.SetBool(SlotUseAlphaClip, v.UseBlending) },
		func() error { return fx.SetBool(SlotUseTexture, v.UseTexture) },
	} {
		if err := set(); err != nil {
			return err
		}
	}
	return nil
}

// pushLights writes the light state into the lit effect.
func (o *Orchestrator) pushLights(st light.State) error {
	fx := o.basic
	if err := fx.SetArray(SlotDirLights, light.MarshalDirectionalLights(st.Directional)); err != nil {
		return err
	}
	if err := fx.SetResource(SlotPointLights, st.PointLights); err != nil {
		return err
	}
	if err := fx.SetInt(SlotPointLightCount, int32(st.PointLightCount)); err != nil {
		return err
	}
	return fx.SetInt(SlotDirLightCount, int32(st.DirectionalCount))
}

// drawOverlay draws exactly one of console, profiler view or HUD into the canvas and
// composites it over the frame.
func (o *Orchestrator) drawOverlay(v settings.Values) error {
	defer o.prof.Scope(ScopeOverlay)()

	o.canvas.Begin(o.width, o.height)
	switch {
	case o.console != nil && o.console.Active():
		o.console.Draw(o.canvas, o.width)
	case o.view != nil && o.view.Active():
		o.view.Draw(o.canvas, o.width)
	case !v.Wireframe:
		o.hud.Draw(o.canvas, o.rig.ActiveCount())
	}

	if !o.canvas.Drawn() {
		return nil
	}
	return o.dev.Composite(o.canvas.Image())
}
