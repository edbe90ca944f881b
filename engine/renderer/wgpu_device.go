package renderer

import (
	"fmt"
	"image"
	"image/color"
	"runtime"
	"sort"
	"sync"

	"github.com/Carmen-Shannon/oxy-mirror/common"
	"github.com/Carmen-Shannon/oxy-mirror/engine/geometry"
	"github.com/Carmen-Shannon/oxy-mirror/engine/light"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/effect"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/pipeline"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/shader"
	"github.com/Carmen-Shannon/oxy-mirror/engine/renderer/states"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// geometryBuffers are the static buffers of one GeometrySet. edges is the line-list index
// stream used to draw the triangle buffer as wireframe.
type geometryBuffers struct {
	vertex *wgpu.Buffer
	index  *wgpu.Buffer
	edges  *wgpu.Buffer
}

// effectLayout holds the GPU objects shared by every pipeline created for one effect.
type effectLayout struct {
	module *wgpu.ShaderModule
	groups []*wgpu.BindGroupLayout
	layout *wgpu.PipelineLayout
}

// appliedEffect is the state captured by Apply: the effect and the bind groups holding
// the constants and resources it had at that moment.
type appliedEffect struct {
	fx         effect.Effect
	layout     *effectLayout
	bindGroups []*wgpu.BindGroup
}

type wgpuDevice struct {
	mu *sync.Mutex

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface
	device   *wgpu.Device
	queue    *wgpu.Queue

	surfaceFormat wgpu.TextureFormat
	alphaMode     wgpu.CompositeAlphaMode
	width, height int
	presentMode   PresentMode
	sampleCount   MSAASampleCount
	reconfigure   bool

	msaaTexture  *wgpu.Texture
	msaaView     *wgpu.TextureView
	depthTexture *wgpu.Texture
	depthView    *wgpu.TextureView

	scene geometryBuffers
	gizmo geometryBuffers

	layouts   map[string]*effectLayout
	pipelines map[pipeline.Key]pipeline.Pipeline
	samplers  map[string]*wgpuSampler
	storages  map[*wgpuStorage]struct{}

	uniforms      *frameRing
	uniformBuffer *wgpu.Buffer
	storageRing   *frameRing
	storageBuffer *wgpu.Buffer

	sprite  effect.Effect
	overlay *wgpuTexture

	// Frame state, valid between Clear and Present.
	encoder         *wgpu.CommandEncoder
	pass            *wgpu.RenderPassEncoder
	frameSurface    *wgpu.Texture
	frameView       *wgpu.TextureView
	frameBindGroups []*wgpu.BindGroup
	applied         *appliedEffect

	topology     wgpu.PrimitiveTopology
	geometrySet  GeometrySet
	rasterizer   states.RasterizerState
	blend        states.BlendState
	blendFactor  mgl32.Vec4
	depthStencil states.DepthStencilState
}

var _ Device = &wgpuDevice{}

// NewDevice creates the WebGPU instance, surface, adapter and device for a window and
// configures the swapchain with the window's size.
//
// Parameters:
//   - window: the window to present into
//   - opts: variadic list of DeviceBuilderOption functions to configure the device
//
// Returns:
//   - Device: the device
//   - error: error if the adapter, device or built-in effects could not be created
func NewDevice(window SurfaceSource, opts ...DeviceBuilderOption) (Device, error) {
	cfg := defaultDeviceConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	runtime.LockOSThread()
	d := &wgpuDevice{
		mu:          &sync.Mutex{},
		instance:    wgpu.CreateInstance(nil),
		presentMode: cfg.presentMode,
		sampleCount: cfg.sampleCount,
		layouts:     make(map[string]*effectLayout),
		pipelines:   make(map[pipeline.Key]pipeline.Pipeline),
		samplers:    make(map[string]*wgpuSampler),
		storages:    make(map[*wgpuStorage]struct{}),
		uniforms:    newFrameRing(cfg.uniformSpace),
		storageRing: newFrameRing(cfg.uniformSpace),
	}
	d.resetStates()

	d.surface = d.instance.CreateSurface(window.SurfaceDescriptor())

	a, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		ForceFallbackAdapter: cfg.forceFallbackAdapter,
		CompatibleSurface:    d.surface,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request adapter: %w", err)
	}
	d.adapter = a

	dev, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to request device: %w", err)
	}
	d.device = dev
	d.queue = dev.GetQueue()

	d.uniformBuffer, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Uniform Ring",
		Size:  d.uniforms.size(),
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create uniform ring: %w", err)
	}
	d.storageBuffer, err = d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Frame Storage Ring",
		Size:  d.storageRing.size(),
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage ring: %w", err)
	}

	d.sprite, err = effect.NewEffect(effect.NameSprite, effect.SpriteSource)
	if err != nil {
		return nil, err
	}

	d.width, d.height = window.Width(), window.Height()
	d.configureSurface()
	return d, nil
}

// configureSurface is a wrapper for boilerplate logic required when calling Configure on a surface.
// It recreates the MSAA color target and the depth-stencil target for the current size and
// sample count. Callers hold d.mu.
func (d *wgpuDevice) configureSurface() {
	d.reconfigure = false
	if d.width <= 0 || d.height <= 0 {
		return
	}

	capabilities := d.surface.GetCapabilities(d.adapter)
	d.surfaceFormat = capabilities.Formats[0]
	d.alphaMode = capabilities.AlphaModes[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(d.width),
		Height:      uint32(d.height),
		PresentMode: d.presentMode.wgpu(),
		AlphaMode:   d.alphaMode,
	})

	d.releaseTargets()
	count := uint32(d.sampleCount)

	if count > 1 {
		// The render pass draws into the MSAA texture and resolves into the swapchain view.
		msaaTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
			Label: "MSAA Texture",
			Size: wgpu.Extent3D{
				Width:              uint32(d.width),
				Height:             uint32(d.height),
				DepthOrArrayLayers: 1,
			},
			MipLevelCount: 1,
			SampleCount:   count,
			Dimension:     wgpu.TextureDimension2D,
			Format:        d.surfaceFormat,
			Usage:         wgpu.TextureUsageRenderAttachment,
		})
		if err != nil {
			panic(fmt.Sprintf("renderer: failed to create MSAA texture: %v", err))
		}
		d.msaaTexture = msaaTexture
		d.msaaView, err = msaaTexture.CreateView(nil)
		if err != nil {
			panic(fmt.Sprintf("renderer: failed to create MSAA view: %v", err))
		}
	}

	// Depth-stencil sample count must match the color attachment.
	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Stencil Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(d.width),
			Height:             uint32(d.height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   count,
		Dimension:     wgpu.TextureDimension2D,
		Format:        pipeline.DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth-stencil texture: %v", err))
	}
	d.depthTexture = depthTexture
	d.depthView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(fmt.Sprintf("renderer: failed to create depth-stencil view: %v", err))
	}
}

func (d *wgpuDevice) releaseTargets() {
	if d.msaaView != nil {
		d.msaaView.Release()
		d.msaaView = nil
	}
	if d.msaaTexture != nil {
		d.msaaTexture.Release()
		d.msaaTexture = nil
	}
	if d.depthView != nil {
		d.depthView.Release()
		d.depthView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
}

func (d *wgpuDevice) resetStates() {
	d.topology = wgpu.PrimitiveTopologyTriangleList
	d.geometrySet = GeometryScene
	d.rasterizer, _ = states.Rasterizer(states.RasterDefault)
	d.blend, _ = states.Blend(states.BlendDefault)
	d.blendFactor = mgl32.Vec4{1, 1, 1, 1}
	d.depthStencil, _ = states.DepthStencil(states.DepthDefault)
	d.applied = nil
}

func (d *wgpuDevice) AllocateStorage(label string, size uint64) (light.Storage, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: label,
		Size:  size,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create storage buffer %q: %w", label, err)
	}
	s := &wgpuStorage{dev: d, label: label, buffer: buf, size: size}
	d.storages[s] = struct{}{}
	return s, nil
}

func (d *wgpuDevice) UploadGeometry(p *geometry.Provider) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.releaseGeometry()

	var err error
	scene, gizmo := p.Scene(), p.Gizmo()
	if d.scene.vertex, err = d.createBuffer("Scene Vertex Buffer", wgpu.BufferUsageVertex, scene.VertexBytes()); err != nil {
		return err
	}
	if d.scene.index, err = d.createBuffer("Scene Index Buffer", wgpu.BufferUsageIndex, scene.IndexBytes()); err != nil {
		return err
	}
	if d.scene.edges, err = d.createBuffer("Scene Edge Buffer", wgpu.BufferUsageIndex, common.SliceToBytes(p.SceneEdges())); err != nil {
		return err
	}
	if d.gizmo.vertex, err = d.createBuffer("Gizmo Vertex Buffer", wgpu.BufferUsageVertex, gizmo.VertexBytes()); err != nil {
		return err
	}
	if d.gizmo.index, err = d.createBuffer("Gizmo Index Buffer", wgpu.BufferUsageIndex, gizmo.IndexBytes()); err != nil {
		return err
	}
	return nil
}

// createBuffer creates a buffer initialised with data. Empty data creates no buffer.
func (d *wgpuDevice) createBuffer(label string, usage wgpu.BufferUsage, data []byte) (*wgpu.Buffer, error) {
	if len(data) == 0 {
		return nil, nil
	}
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            label,
		Size:             alignUp(uint64(len(data)), 4),
		Usage:            usage | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", label, err)
	}
	d.queue.WriteBuffer(buf, 0, data)
	return buf, nil
}

func (d *wgpuDevice) releaseGeometry() {
	for _, set := range []*geometryBuffers{&d.scene, &d.gizmo} {
		for _, buf := range []*wgpu.Buffer{set.vertex, set.index, set.edges} {
			if buf != nil {
				buf.Release()
			}
		}
		*set = geometryBuffers{}
	}
}

func (d *wgpuDevice) CreateTexture(label string, img image.Image) (Texture, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.createTexture(label, common.NewTextureStagingData(img))
}

func (d *wgpuDevice) createTexture(label string, stagingData *common.TextureStagingData) (*wgpuTexture, error) {
	tex, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label:     label,
		Usage:     wgpu.TextureUsageTextureBinding | wgpu.TextureUsageCopyDst,
		Dimension: wgpu.TextureDimension2D,
		Size: wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
		Format:        wgpu.TextureFormatRGBA8UnormSrgb,
		MipLevelCount: 1,
		SampleCount:   1,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create texture %q: %w", label, err)
	}

	t := &wgpuTexture{
		label:   label,
		texture: tex,
		width:   int(stagingData.Width),
		height:  int(stagingData.Height),
	}
	d.writeTexture(t, stagingData)

	t.view, err = tex.CreateView(nil)
	if err != nil {
		tex.Release()
		return nil, fmt.Errorf("failed to create view for texture %q: %w", label, err)
	}
	return t, nil
}

func (d *wgpuDevice) writeTexture(t *wgpuTexture, stagingData *common.TextureStagingData) {
	d.queue.WriteTexture(
		&wgpu.ImageCopyTexture{
			Texture:  t.texture,
			MipLevel: 0,
			Origin:   wgpu.Origin3D{},
			Aspect:   wgpu.TextureAspectAll,
		},
		stagingData.Pixels,
		&wgpu.TextureDataLayout{
			Offset:       0,
			BytesPerRow:  stagingData.Width * 4,
			RowsPerImage: stagingData.Height,
		},
		&wgpu.Extent3D{
			Width:              stagingData.Width,
			Height:             stagingData.Height,
			DepthOrArrayLayers: 1,
		},
	)
}

func (d *wgpuDevice) Sampler(name string) (Sampler, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.samplerByName(name)
}

func (d *wgpuDevice) samplerByName(name string) (*wgpuSampler, error) {
	if s, ok := d.samplers[name]; ok {
		return s, nil
	}
	stagingData, ok := common.SamplerByName(name)
	if !ok {
		return nil, fmt.Errorf("unknown sampler %q", name)
	}

	samp, err := d.device.CreateSampler(&wgpu.SamplerDescriptor{
		Label:         name + " Sampler",
		AddressModeU:  common.Coalesce(stagingData.AddressModeU, wgpu.AddressModeRepeat),
		AddressModeV:  common.Coalesce(stagingData.AddressModeV, wgpu.AddressModeRepeat),
		AddressModeW:  common.Coalesce(stagingData.AddressModeW, wgpu.AddressModeRepeat),
		MagFilter:     common.Coalesce(stagingData.MagFilter, wgpu.FilterModeLinear),
		MinFilter:     common.Coalesce(stagingData.MinFilter, wgpu.FilterModeLinear),
		MipmapFilter:  common.Coalesce(stagingData.MipmapFilter, wgpu.MipmapFilterModeLinear),
		LodMinClamp:   common.Coalesce(stagingData.LodMinClamp, 0.0),
		LodMaxClamp:   common.Coalesce(stagingData.LodMaxClamp, 32.0),
		MaxAnisotropy: common.Coalesce(stagingData.MaxAnisotropy, 1),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create sampler %q: %w", name, err)
	}
	s := &wgpuSampler{name: name, sampler: samp}
	d.samplers[name] = s
	return s, nil
}

func (d *wgpuDevice) Clear(c color.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	// If a previous frame's surface texture is still held, acquiring another one fails
	// with "Surface image is already acquired".
	if d.frameSurface != nil {
		return fmt.Errorf("previous frame surface not yet presented")
	}
	if d.reconfigure {
		d.configureSurface()
	}
	if d.depthView == nil {
		return fmt.Errorf("surface is not configured: %w", ErrNoFrame)
	}

	surfaceTexture, err := d.surface.GetCurrentTexture()
	if err != nil {
		return err
	}

	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return err
	}

	// When MSAA is enabled, the MSAA texture is the color attachment View and
	// the swapchain view is the ResolveTarget.
	colorAttachment := wgpu.RenderPassColorAttachment{
		View:    view,
		LoadOp:  wgpu.LoadOpClear,
		StoreOp: wgpu.StoreOpStore,
		ClearValue: wgpu.Color{
			R: float64(c.R) / 255,
			G: float64(c.G) / 255,
			B: float64(c.B) / 255,
			A: float64(c.A) / 255,
		},
	}
	if d.sampleCount > 1 {
		colorAttachment.View = d.msaaView
		colorAttachment.ResolveTarget = view
		colorAttachment.StoreOp = wgpu.StoreOpDiscard
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{colorAttachment},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:              d.depthView,
			DepthLoadOp:       wgpu.LoadOpClear,
			DepthStoreOp:      wgpu.StoreOpDiscard,
			DepthClearValue:   1.0,
			StencilLoadOp:     wgpu.LoadOpClear,
			StencilStoreOp:    wgpu.StoreOpDiscard,
			StencilClearValue: 0,
		},
	})

	d.encoder = encoder
	d.pass = pass
	d.frameSurface = surfaceTexture
	d.frameView = view
	d.uniforms.reset()
	d.storageRing.reset()

	d.resetStates()
	d.pass.SetBlendConstant(toColor(d.blendFactor))
	d.pass.SetStencilReference(d.depthStencil.StencilReference)
	return nil
}

func (d *wgpuDevice) SetTopology(t wgpu.PrimitiveTopology) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.topology = t
}

func (d *wgpuDevice) SetGeometry(g GeometrySet) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.geometrySet = g
}

func (d *wgpuDevice) SetRasterizer(name states.RasterizerName) error {
	s, err := states.Rasterizer(name)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.rasterizer = s
	return nil
}

func (d *wgpuDevice) SetBlend(name states.BlendName, factor mgl32.Vec4) error {
	s, err := states.Blend(name)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.blend = s
	d.blendFactor = factor
	if d.pass != nil {
		d.pass.SetBlendConstant(toColor(factor))
	}
	return nil
}

func (d *wgpuDevice) SetDepthStencil(name states.DepthStencilName) error {
	s, err := states.DepthStencil(name)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.depthStencil = s
	if d.pass != nil {
		d.pass.SetStencilReference(s.StencilReference)
	}
	return nil
}

func (d *wgpuDevice) Apply(fx effect.Effect) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil {
		return ErrNoFrame
	}
	applied, err := d.apply(fx)
	if err != nil {
		return err
	}
	d.applied = applied
	return nil
}

// apply creates the bind groups of fx from its current constants and resources.
// Callers hold d.mu and have an open pass.
func (d *wgpuDevice) apply(fx effect.Effect) (*appliedEffect, error) {
	layout, err := d.effectLayout(fx)
	if err != nil {
		return nil, err
	}

	s := fx.Shader()
	applied := &appliedEffect{fx: fx, layout: layout, bindGroups: make([]*wgpu.BindGroup, len(layout.groups))}
	for g, bgl := range layout.groups {
		desc := s.BindGroupLayoutDescriptor(g)
		entries := make([]wgpu.BindGroupEntry, 0, len(desc.Entries))
		for _, e := range desc.Entries {
			entry, err := d.bindEntry(fx, s.BindGroupVarName(g, int(e.Binding)), e)
			if err != nil {
				return nil, fmt.Errorf("effect %q group %d binding %d: %w", fx.Name(), g, e.Binding, err)
			}
			entries = append(entries, entry)
		}

		bg, err := d.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
			Label:   fmt.Sprintf("%s Bind Group %d", fx.Name(), g),
			Layout:  bgl,
			Entries: entries,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create bind group %d for effect %q: %w", g, fx.Name(), err)
		}
		d.frameBindGroups = append(d.frameBindGroups, bg)
		applied.bindGroups[g] = bg
	}
	return applied, nil
}

// bindEntry resolves one layout entry. Uniform blocks are copied into the frame's uniform
// ring; every other binding is looked up as a resource handle.
func (d *wgpuDevice) bindEntry(fx effect.Effect, varName string, e wgpu.BindGroupLayoutEntry) (wgpu.BindGroupEntry, error) {
	if e.Buffer.Type == wgpu.BufferBindingTypeUniform {
		data := fx.BlockData(varName)
		offset, err := d.uniforms.alloc(data)
		if err != nil {
			return wgpu.BindGroupEntry{}, err
		}
		return wgpu.BindGroupEntry{
			Binding: e.Binding,
			Buffer:  d.uniformBuffer,
			Offset:  offset,
			Size:    uint64(len(data)),
		}, nil
	}

	switch r := fx.Resource(varName).(type) {
	case nil:
		return wgpu.BindGroupEntry{}, fmt.Errorf("%q: %w", varName, ErrUnboundResource)
	case light.Handle:
		return d.storageEntry(varName, r.Storage, e.Binding)
	case light.Storage:
		return d.storageEntry(varName, r, e.Binding)
	case *wgpuTexture:
		if r.view == nil {
			return wgpu.BindGroupEntry{}, fmt.Errorf("texture %q was released: %w", r.label, ErrUnboundResource)
		}
		return wgpu.BindGroupEntry{Binding: e.Binding, TextureView: r.view}, nil
	case *wgpuSampler:
		return wgpu.BindGroupEntry{Binding: e.Binding, Sampler: r.sampler}, nil
	default:
		return wgpu.BindGroupEntry{}, fmt.Errorf("%q holds %T: %w", varName, r, ErrUnsupportedResource)
	}
}

func (d *wgpuDevice) storageEntry(varName string, s light.Storage, binding uint32) (wgpu.BindGroupEntry, error) {
	ws, ok := s.(*wgpuStorage)
	if !ok {
		return wgpu.BindGroupEntry{}, fmt.Errorf("%q holds %T: %w", varName, s, ErrUnsupportedResource)
	}
	return ws.entry(binding)
}

// effectLayout returns the shader module and bind group layouts of fx, creating them on first use.
func (d *wgpuDevice) effectLayout(fx effect.Effect) (*effectLayout, error) {
	if l, ok := d.layouts[fx.Name()]; ok {
		return l, nil
	}

	s := fx.Shader()
	module, err := d.device.CreateShaderModule(s.Module())
	if err != nil {
		return nil, fmt.Errorf("failed to create shader module for effect %q: %w", fx.Name(), err)
	}

	descriptors := s.BindGroupLayoutDescriptors()
	maxGroup := -1
	for g := range descriptors {
		maxGroup = max(maxGroup, g)
	}
	groups := make([]*wgpu.BindGroupLayout, maxGroup+1)
	for g := range groups {
		desc := s.BindGroupLayoutDescriptor(g)
		if desc.Label == "" {
			desc.Label = fmt.Sprintf("%s Group %d", fx.Name(), g)
		}
		bgl, bglErr := d.device.CreateBindGroupLayout(&desc)
		if bglErr != nil {
			return nil, fmt.Errorf("failed to create bind group layout for group %d: %w", g, bglErr)
		}
		groups[g] = bgl
	}

	layout, err := d.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            fx.Name() + " Pipeline Layout",
		BindGroupLayouts: groups,
	})
	if err != nil {
		return nil, err
	}

	l := &effectLayout{module: module, groups: groups, layout: layout}
	d.layouts[fx.Name()] = l
	return l, nil
}

// pipelineFor returns the cached render pipeline for the applied effect and the given
// states, registering it on first use.
func (d *wgpuDevice) pipelineFor(
	applied *appliedEffect,
	topology wgpu.PrimitiveTopology,
	rasterizer states.RasterizerState,
	blend states.BlendState,
	depthStencil states.DepthStencilState,
	depthTest bool,
) (pipeline.Pipeline, error) {
	p := pipeline.NewPipeline(
		pipeline.WithShader(applied.fx.Shader()),
		pipeline.WithTopology(topology),
		pipeline.WithRasterizer(rasterizer),
		pipeline.WithBlend(blend),
		pipeline.WithDepthStencil(depthStencil),
		pipeline.WithDepthTestEnabled(depthTest),
		pipeline.WithSampleCount(uint32(d.sampleCount)),
		pipeline.WithColorFormat(d.surfaceFormat),
	)
	if cached, ok := d.pipelines[p.Key()]; ok {
		return cached, nil
	}
	if err := d.registerRenderPipeline(p, applied.layout); err != nil {
		return nil, err
	}
	d.pipelines[p.Key()] = p
	return p, nil
}

// registerRenderPipeline creates the GPU render pipeline described by p.
func (d *wgpuDevice) registerRenderPipeline(p pipeline.Pipeline, layout *effectLayout) error {
	s := p.Shader()

	keys := make([]int, 0, len(s.VertexLayouts()))
	for k := range s.VertexLayouts() {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	vertexLayouts := make([]wgpu.VertexBufferLayout, 0, len(keys))
	for _, k := range keys {
		vertexLayouts = append(vertexLayouts, s.VertexLayouts()[k]...)
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.PipelineKey() + " Render Pipeline",
		Layout: layout.layout,
		Vertex: wgpu.VertexState{
			Module:     layout.module,
			EntryPoint: s.EntryPoint(shader.ShaderTypeVertex),
			Buffers:    vertexLayouts,
		},
		Fragment: &wgpu.FragmentState{
			Module:     layout.module,
			EntryPoint: s.EntryPoint(shader.ShaderTypeFragment),
			Targets:    []wgpu.ColorTargetState{p.ColorTargetState()},
		},
		Primitive:    p.PrimitiveState(),
		Multisample:  p.MultisampleState(),
		DepthStencil: p.DepthStencilState(),
	})
	if err != nil {
		return fmt.Errorf("failed to create render pipeline %s: %w", p.PipelineKey(), err)
	}

	// The pipeline layout is shared per effect and released with it, not with the pipeline.
	p.SetRenderPipeline(created, nil)
	return nil
}

func (d *wgpuDevice) DrawIndexed(r geometry.Range) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil {
		return ErrNoFrame
	}
	if d.applied == nil {
		return ErrNoEffect
	}
	if r.IndexCount == 0 {
		return nil
	}

	p, err := d.pipelineFor(d.applied, d.topology, d.rasterizer, d.blend, d.depthStencil, true)
	if err != nil {
		return err
	}

	bufs := d.scene
	if d.geometrySet == GeometryGizmo {
		bufs = d.gizmo
	}
	first, count, index := r.IndexOffset, r.IndexCount, bufs.index
	if p.Topology() != d.topology {
		// Wireframe: each triangle of the range owns two indices per edge in the edge stream.
		first, count, index = 2*first, 2*count, bufs.edges
	}
	if bufs.vertex == nil || index == nil {
		return fmt.Errorf("no %s geometry uploaded", d.geometrySet)
	}

	d.pass.SetPipeline(p.RenderPipeline())
	for i, bg := range d.applied.bindGroups {
		d.pass.SetBindGroup(uint32(i), bg, nil)
	}
	d.pass.SetVertexBuffer(0, bufs.vertex, 0, wgpu.WholeSize)
	d.pass.SetIndexBuffer(index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
	d.pass.DrawIndexed(count, 1, first, r.VertexOffset, 0)
	return nil
}

func (d *wgpuDevice) Composite(img *image.RGBA) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil {
		return ErrNoFrame
	}

	stagingData := common.NewTextureStagingData(img)
	if d.overlay == nil || d.overlay.width != int(stagingData.Width) || d.overlay.height != int(stagingData.Height) {
		if d.overlay != nil {
			d.overlay.Release()
		}
		overlay, err := d.createTexture("Overlay Texture", stagingData)
		if err != nil {
			return err
		}
		d.overlay = overlay
	} else {
		d.writeTexture(d.overlay, stagingData)
	}

	samp, err := d.samplerByName(common.SamplerLinear)
	if err != nil {
		return err
	}
	if err := d.sprite.SetResource("SpriteTex", d.overlay); err != nil {
		return err
	}
	if err := d.sprite.SetResource("SpriteSampler", samp); err != nil {
		return err
	}

	applied, err := d.apply(d.sprite)
	if err != nil {
		return err
	}
	cullNone, _ := states.Rasterizer(states.RasterCullNone)
	transparent, _ := states.Blend(states.BlendTransparent)
	depth, _ := states.DepthStencil(states.DepthDefault)
	p, err := d.pipelineFor(applied, wgpu.PrimitiveTopologyTriangleList, cullNone, transparent, depth, false)
	if err != nil {
		return err
	}

	d.pass.SetPipeline(p.RenderPipeline())
	for i, bg := range applied.bindGroups {
		d.pass.SetBindGroup(uint32(i), bg, nil)
	}
	d.pass.Draw(3, 1, 0, 0)
	return nil
}

func (d *wgpuDevice) Present(vsync bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.pass == nil {
		return ErrNoFrame
	}
	d.pass.End()

	if used := d.uniforms.used(); len(used) > 0 {
		d.queue.WriteBuffer(d.uniformBuffer, 0, used)
	}
	if used := d.storageRing.used(); len(used) > 0 {
		d.queue.WriteBuffer(d.storageBuffer, 0, used)
	}

	commandBuffer, err := d.encoder.Finish(nil)
	if err != nil {
		d.endFrame()
		return fmt.Errorf("failed to finish frame: %w", err)
	}
	d.queue.Submit(commandBuffer)
	commandBuffer.Release()

	d.surface.Present()

	for s := range d.storages {
		s.flush()
	}
	d.endFrame()

	if mode := PresentModeFor(vsync); mode != d.presentMode {
		d.presentMode = mode
		d.reconfigure = true
	}
	return nil
}

// endFrame releases the frame's encoder, swapchain texture and bind groups.
func (d *wgpuDevice) endFrame() {
	if d.encoder != nil {
		d.encoder.Release()
		d.encoder = nil
	}
	d.pass = nil
	if d.frameView != nil {
		d.frameView.Release()
		d.frameView = nil
	}
	if d.frameSurface != nil {
		d.frameSurface.Release()
		d.frameSurface = nil
	}
	for _, bg := range d.frameBindGroups {
		bg.Release()
	}
	d.frameBindGroups = d.frameBindGroups[:0]
	d.applied = nil
}

func (d *wgpuDevice) Resize(width, height int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.width, d.height = width, height
	d.reconfigure = true
}

func (d *wgpuDevice) SetSampleCount(count MSAASampleCount) error {
	if !count.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidSampleCount, count)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if count != d.sampleCount {
		d.sampleCount = count
		d.reconfigure = true
	}
	return nil
}

func (d *wgpuDevice) SampleCount() MSAASampleCount {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sampleCount
}

func (d *wgpuDevice) Description() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return fmt.Sprintf("WebGPU %dx%d, surface format %v, MSAA x%d", d.width, d.height, d.surfaceFormat, d.sampleCount)
}

func (d *wgpuDevice) Release() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.endFrame()
	for _, p := range d.pipelines {
		p.Release()
	}
	d.pipelines = make(map[pipeline.Key]pipeline.Pipeline)
	for _, l := range d.layouts {
		l.layout.Release()
		for _, g := range l.groups {
			g.Release()
		}
		l.module.Release()
	}
	d.layouts = make(map[string]*effectLayout)
	for _, s := range d.samplers {
		s.sampler.Release()
	}
	d.samplers = make(map[string]*wgpuSampler)
	for s := range d.storages {
		if s.buffer != nil {
			s.buffer.Release()
			s.buffer = nil
		}
	}
	d.storages = make(map[*wgpuStorage]struct{})
	if d.overlay != nil {
		d.overlay.Release()
		d.overlay = nil
	}
	d.releaseGeometry()
	d.releaseTargets()
	d.uniformBuffer.Release()
	d.storageBuffer.Release()
	d.device.Release()
	d.adapter.Release()
	d.surface.Release()
	d.instance.Release()
}

func toColor(v mgl32.Vec4) *wgpu.Color {
	return &wgpu.Color{R: float64(v[0]), G: float64(v[1]), B: float64(v[2]), A: float64(v[3])}
}
