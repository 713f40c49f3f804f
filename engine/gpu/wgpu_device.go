package gpu

import (
	"errors"
	"fmt"
	"log"
	"runtime"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/hellogl/common"
	"github.com/Carmen-Shannon/hellogl/engine/window"
)

// wgpuShader is the emulated shader object. The module is created by CompileShader so the
// WGSL compiler can report diagnostics at the same point the GL driver would.
type wgpuShader struct {
	stage      StageType
	source     string
	entryPoint string
	module     *wgpu.ShaderModule
	compiled   bool
	infoLog    string
	flagged    bool
	attached   int
}

// wgpuPipelineKey captures every piece of GL-style state that is baked into a WebGPU render
// pipeline. A program rebuilds its pipeline when the key at draw time differs.
type wgpuPipelineKey struct {
	depthEnabled bool
	depthFunc    DepthFunc
	components   int32
	stride       uint64
	offset       uint64
}

// wgpuProgram is the emulated program object. Linking copies the stage sources so the
// pipeline can be rebuilt after the stage objects are gone.
type wgpuProgram struct {
	shaders  []Handle
	linked   bool
	infoLog  string
	vertex   wgpuStageSource
	fragment wgpuStageSource
	pipeline *wgpu.RenderPipeline
	key      wgpuPipelineKey
}

type wgpuStageSource struct {
	source     string
	entryPoint string
}

type wgpuAttrib struct {
	enabled bool
	buffer  Handle
	size    int32
	stride  int32
	offset  uintptr
}

type wgpuVertexArray struct {
	attribs map[uint32]*wgpuAttrib
}

type wgpuBuffer struct {
	buffer *wgpu.Buffer
	size   uint64
}

// wgpuDevice implements Device with WebGPU, emulating the GL object model on top of
// shader modules, render pipelines and vertex buffers.
type wgpuDevice struct {
	window window.Window

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	device   *wgpu.Device
	queue    *wgpu.Queue
	surface  *wgpu.Surface

	surfaceFormat    wgpu.TextureFormat
	depthTexture     *wgpu.Texture
	depthTextureView *wgpu.TextureView

	nextHandle Handle
	shaders    map[Handle]*wgpuShader
	programs   map[Handle]*wgpuProgram
	arrays     map[Handle]*wgpuVertexArray
	buffers    map[Handle]*wgpuBuffer

	currentProgram Handle
	currentArray   Handle
	currentBuffer  Handle

	viewport     [4]int32
	clearColor   wgpu.Color
	clearDepth   float32
	depthEnabled bool
	depthFunc    DepthFunc

	// Frame state between the first Clear/Draw and Present.
	frameEncoder *wgpu.CommandEncoder
	framePass    *wgpu.RenderPassEncoder
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ Device = &wgpuDevice{}

// newWGPUDevice creates the instance, surface, adapter and device for the window and
// configures the surface at the window's framebuffer size.
func newWGPUDevice(w window.Window) (*wgpuDevice, error) {
	runtime.LockOSThread()

	desc := w.SurfaceDescriptor()
	if desc == nil {
		return nil, fmt.Errorf("%w: window has no surface", ErrContextCreation)
	}

	d := &wgpuDevice{
		window:     w,
		instance:   wgpu.CreateInstance(nil),
		nextHandle: 1,
		shaders:    make(map[Handle]*wgpuShader),
		programs:   make(map[Handle]*wgpuProgram),
		arrays:     make(map[Handle]*wgpuVertexArray),
		buffers:    make(map[Handle]*wgpuBuffer),
		viewport:   [4]int32{0, 0, int32(w.Width()), int32(w.Height())},
		clearColor: wgpu.Color{A: 1},
		clearDepth: 1,
		depthFunc:  DepthFuncLess,
	}
	d.surface = d.instance.CreateSurface(desc)

	adapter, err := d.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: d.surface,
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("%w: failed to request adapter: %v", ErrContextCreation, err)
	}
	d.adapter = adapter

	device, err := adapter.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Main Device",
	})
	if err != nil {
		d.Release()
		return nil, fmt.Errorf("%w: failed to request device: %v", ErrContextCreation, err)
	}
	d.device = device
	d.queue = device.GetQueue()

	if err := d.configureSurface(w.Width(), w.Height()); err != nil {
		d.Release()
		return nil, fmt.Errorf("%w: %v", ErrContextCreation, err)
	}

	log.Printf("[GPU] WebGPU surface %dx%d, format %v", w.Width(), w.Height(), d.surfaceFormat)
	return d, nil
}

// configureSurface configures the swapchain and creates the matching depth texture.
func (d *wgpuDevice) configureSurface(width, height int) error {
	capabilities := d.surface.GetCapabilities(d.adapter)
	if len(capabilities.Formats) == 0 {
		return errors.New("surface reports no texture formats")
	}
	d.surfaceFormat = capabilities.Formats[0]

	d.surface.Configure(d.adapter, d.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      d.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	depthTexture, err := d.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		return fmt.Errorf("failed to create depth texture: %w", err)
	}
	view, err := depthTexture.CreateView(nil)
	if err != nil {
		depthTexture.Release()
		return fmt.Errorf("failed to create depth texture view: %w", err)
	}
	d.depthTexture = depthTexture
	d.depthTextureView = view
	return nil
}

func (d *wgpuDevice) allocHandle() Handle {
	h := d.nextHandle
	d.nextHandle++
	return h
}

func (d *wgpuDevice) Backend() BackendType {
	return BackendTypeWGPU
}

func (d *wgpuDevice) CreateShader(stage StageType) Handle {
	if stage != StageVertex && stage != StageFragment {
		return 0
	}
	h := d.allocHandle()
	d.shaders[h] = &wgpuShader{stage: stage}
	return h
}

func (d *wgpuDevice) ShaderSource(shader Handle, source string) {
	if s, ok := d.shaders[shader]; ok {
		s.source = source
	}
}

func (d *wgpuDevice) CompileShader(shader Handle) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	if s.module != nil {
		s.module.Release()
		s.module = nil
	}
	s.compiled = false
	s.infoLog = ""

	s.entryPoint = parseEntryPoint(s.source, s.stage)
	if s.entryPoint == "" {
		s.infoLog = fmt.Sprintf("error: no @%s entry point found", s.stage)
		return
	}

	module, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: s.stage.String() + " shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: s.source,
		},
	})
	if err != nil {
		s.infoLog = err.Error()
		return
	}
	s.module = module
	s.compiled = true
}

func (d *wgpuDevice) ShaderCompileStatus(shader Handle) bool {
	s, ok := d.shaders[shader]
	return ok && s.compiled
}

func (d *wgpuDevice) ShaderInfoLog(shader Handle) string {
	if s, ok := d.shaders[shader]; ok {
		return s.infoLog
	}
	return ""
}

func (d *wgpuDevice) DeleteShader(shader Handle) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	s.flagged = true
	if s.attached == 0 {
		d.freeShader(shader)
	}
}

func (d *wgpuDevice) freeShader(shader Handle) {
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	if s.module != nil {
		s.module.Release()
	}
	delete(d.shaders, shader)
}

func (d *wgpuDevice) IsShader(shader Handle) bool {
	_, ok := d.shaders[shader]
	return ok
}

func (d *wgpuDevice) CreateProgram() Handle {
	h := d.allocHandle()
	d.programs[h] = &wgpuProgram{}
	return h
}

func (d *wgpuDevice) AttachShader(program, shader Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	s, ok := d.shaders[shader]
	if !ok {
		return
	}
	for _, h := range p.shaders {
		if h == shader {
			return
		}
	}
	p.shaders = append(p.shaders, shader)
	s.attached++
}

func (d *wgpuDevice) DetachShader(program, shader Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for i, h := range p.shaders {
		if h != shader {
			continue
		}
		p.shaders = append(p.shaders[:i], p.shaders[i+1:]...)
		if s, ok := d.shaders[shader]; ok {
			s.attached--
			if s.flagged && s.attached == 0 {
				d.freeShader(shader)
			}
		}
		return
	}
}

func (d *wgpuDevice) LinkProgram(program Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	if p.pipeline != nil {
		p.pipeline.Release()
		p.pipeline = nil
	}
	p.linked = false
	p.infoLog = ""

	var vertex, fragment *wgpuShader
	for _, h := range p.shaders {
		s := d.shaders[h]
		if !s.compiled {
			p.infoLog = fmt.Sprintf("error: attached %s shader is not compiled", s.stage)
			return
		}
		switch s.stage {
		case StageVertex:
			vertex = s
		case StageFragment:
			fragment = s
		}
	}
	if vertex == nil || fragment == nil {
		p.infoLog = "error: program needs one vertex and one fragment shader"
		return
	}

	p.vertex = wgpuStageSource{source: vertex.source, entryPoint: vertex.entryPoint}
	p.fragment = wgpuStageSource{source: fragment.source, entryPoint: fragment.entryPoint}

	// Link against the position-only layout every program here consumes; the real
	// layout is checked again at draw time.
	key := d.pipelineKey()
	if key.components == 0 {
		key.components = 3
		key.stride = 12
	}
	if err := d.buildPipeline(p, key); err != nil {
		p.infoLog = err.Error()
		return
	}
	p.linked = true
}

// buildPipeline (re)creates the render pipeline of a linked program for the given state key.
func (d *wgpuDevice) buildPipeline(p *wgpuProgram, key wgpuPipelineKey) error {
	vs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "vertex shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.vertex.source,
		},
	})
	if err != nil {
		return err
	}
	defer vs.Release()
	fs, err := d.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "fragment shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: p.fragment.source,
		},
	})
	if err != nil {
		return err
	}
	defer fs.Release()

	var buffers []wgpu.VertexBufferLayout
	if key.components > 0 {
		buffers = []wgpu.VertexBufferLayout{{
			ArrayStride: key.stride,
			StepMode:    wgpu.VertexStepModeVertex,
			Attributes: []wgpu.VertexAttribute{{
				Format:         wgpuFloatFormat(key.components),
				Offset:         key.offset,
				ShaderLocation: 0,
			}},
		}}
	}

	depthCompare := wgpu.CompareFunctionAlways
	if key.depthEnabled {
		switch key.depthFunc {
		case DepthFuncGreater:
			depthCompare = wgpu.CompareFunctionGreater
		case DepthFuncLess:
			depthCompare = wgpu.CompareFunctionLess
		}
	}

	created, err := d.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label: "Program Render Pipeline",
		Vertex: wgpu.VertexState{
			Module:     vs,
			EntryPoint: p.vertex.entryPoint,
			Buffers:    buffers,
		},
		Fragment: &wgpu.FragmentState{
			Module:     fs,
			EntryPoint: p.fragment.entryPoint,
			Targets: []wgpu.ColorTargetState{{
				Format:    d.surfaceFormat,
				WriteMask: wgpu.ColorWriteMaskAll,
			}},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleList,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: key.depthEnabled,
			DepthCompare:      depthCompare,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		return err
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	p.pipeline = created
	p.key = key
	return nil
}

// pipelineKey snapshots the current depth state and the attribute 0 layout of the bound
// vertex array.
func (d *wgpuDevice) pipelineKey() wgpuPipelineKey {
	key := wgpuPipelineKey{
		depthEnabled: d.depthEnabled,
		depthFunc:    d.depthFunc,
	}
	if a := d.attrib(0); a != nil && a.enabled {
		key.components = a.size
		key.stride = uint64(a.stride)
		if key.stride == 0 {
			key.stride = uint64(a.size) * 4
		}
		key.offset = uint64(a.offset)
	}
	return key
}

func wgpuFloatFormat(components int32) wgpu.VertexFormat {
	switch components {
	case 1:
		return wgpu.VertexFormatFloat32
	case 2:
		return wgpu.VertexFormatFloat32x2
	case 4:
		return wgpu.VertexFormatFloat32x4
	default:
		return wgpu.VertexFormatFloat32x3
	}
}

func (d *wgpuDevice) ProgramLinkStatus(program Handle) bool {
	p, ok := d.programs[program]
	return ok && p.linked
}

func (d *wgpuDevice) ProgramInfoLog(program Handle) string {
	if p, ok := d.programs[program]; ok {
		return p.infoLog
	}
	return ""
}

func (d *wgpuDevice) UseProgram(program Handle) {
	if program != 0 {
		if _, ok := d.programs[program]; !ok {
			return
		}
	}
	d.currentProgram = program
}

func (d *wgpuDevice) DeleteProgram(program Handle) {
	p, ok := d.programs[program]
	if !ok {
		return
	}
	for len(p.shaders) > 0 {
		d.DetachShader(program, p.shaders[0])
	}
	if p.pipeline != nil {
		p.pipeline.Release()
	}
	delete(d.programs, program)
	if d.currentProgram == program {
		d.currentProgram = 0
	}
}

func (d *wgpuDevice) IsProgram(program Handle) bool {
	_, ok := d.programs[program]
	return ok
}

func (d *wgpuDevice) GenVertexArray() Handle {
	h := d.allocHandle()
	d.arrays[h] = &wgpuVertexArray{attribs: make(map[uint32]*wgpuAttrib)}
	return h
}

func (d *wgpuDevice) BindVertexArray(vao Handle) {
	if vao != 0 {
		if _, ok := d.arrays[vao]; !ok {
			return
		}
	}
	d.currentArray = vao
}

func (d *wgpuDevice) DeleteVertexArray(vao Handle) {
	if _, ok := d.arrays[vao]; !ok {
		return
	}
	delete(d.arrays, vao)
	if d.currentArray == vao {
		d.currentArray = 0
	}
}

func (d *wgpuDevice) GenBuffer() Handle {
	h := d.allocHandle()
	d.buffers[h] = &wgpuBuffer{}
	return h
}

func (d *wgpuDevice) BindArrayBuffer(buffer Handle) {
	if buffer != 0 {
		if _, ok := d.buffers[buffer]; !ok {
			return
		}
	}
	d.currentBuffer = buffer
}

func (d *wgpuDevice) ArrayBufferStaticData(data []float32) {
	b, ok := d.buffers[d.currentBuffer]
	if !ok {
		return
	}
	if b.buffer != nil {
		b.buffer.Release()
		b.buffer = nil
		b.size = 0
	}
	if len(data) == 0 {
		return
	}
	bytes := common.SliceToBytes(data)
	buf, err := d.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label:            "Vertex Buffer",
		Size:             uint64(len(bytes)),
		Usage:            wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
		MappedAtCreation: false,
	})
	if err != nil {
		log.Printf("[GPU] failed to create vertex buffer: %v", err)
		return
	}
	d.queue.WriteBuffer(buf, 0, bytes)
	b.buffer = buf
	b.size = uint64(len(bytes))
}

func (d *wgpuDevice) DeleteBuffer(buffer Handle) {
	b, ok := d.buffers[buffer]
	if !ok {
		return
	}
	if b.buffer != nil {
		b.buffer.Release()
	}
	delete(d.buffers, buffer)
	if d.currentBuffer == buffer {
		d.currentBuffer = 0
	}
}

// attrib returns the attribute slot of the bound vertex array, or nil if none is bound.
func (d *wgpuDevice) attrib(index uint32) *wgpuAttrib {
	vao, ok := d.arrays[d.currentArray]
	if !ok {
		return nil
	}
	a, ok := vao.attribs[index]
	if !ok {
		a = &wgpuAttrib{size: 4}
		vao.attribs[index] = a
	}
	return a
}

func (d *wgpuDevice) EnableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = true
	}
}

func (d *wgpuDevice) DisableVertexAttribArray(index uint32) {
	if a := d.attrib(index); a != nil {
		a.enabled = false
	}
}

func (d *wgpuDevice) VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset uintptr) {
	a := d.attrib(index)
	if a == nil {
		return
	}
	a.buffer = d.currentBuffer
	a.size = size
	a.stride = stride
	a.offset = offset
}

func (d *wgpuDevice) Viewport(x, y, width, height int32) {
	d.viewport = [4]int32{x, y, width, height}
}

func (d *wgpuDevice) SetClearColor(r, g, b, a float32) {
	d.clearColor = wgpu.Color{R: float64(r), G: float64(g), B: float64(b), A: float64(a)}
}

func (d *wgpuDevice) SetClearDepth(depth float64) {
	d.clearDepth = float32(depth)
}

func (d *wgpuDevice) SetDepthTest(enabled bool, fn DepthFunc) {
	d.depthEnabled = enabled
	d.depthFunc = fn
}

// beginPass acquires the frame's surface texture on first use and opens a render pass with
// the requested load operations. An open pass is ended first so a mid-frame Clear starts
// a fresh pass over the same target.
func (d *wgpuDevice) beginPass(mask ClearMask) error {
	if d.framePass != nil {
		d.framePass.End()
		d.framePass = nil
	}
	if d.frameSurface == nil {
		surfaceTexture, err := d.surface.GetCurrentTexture()
		if err != nil {
			return err
		}
		view, err := surfaceTexture.CreateView(nil)
		if err != nil {
			surfaceTexture.Release()
			return err
		}
		d.frameSurface = surfaceTexture
		d.frameView = view
	}
	if d.frameEncoder == nil {
		encoder, err := d.device.CreateCommandEncoder(nil)
		if err != nil {
			return err
		}
		d.frameEncoder = encoder
	}

	colorLoad := wgpu.LoadOpLoad
	if mask&ClearColor != 0 {
		colorLoad = wgpu.LoadOpClear
	}
	depthLoad := wgpu.LoadOpLoad
	if mask&ClearDepth != 0 {
		depthLoad = wgpu.LoadOpClear
	}

	d.framePass = d.frameEncoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       d.frameView,
			LoadOp:     colorLoad,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: d.clearColor,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            d.depthTextureView,
			DepthLoadOp:     depthLoad,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: d.clearDepth,
		},
	})

	// GL viewports are bottom-left based, WebGPU viewports top-left based.
	x, y, w, h := d.viewport[0], d.viewport[1], d.viewport[2], d.viewport[3]
	if w > 0 && h > 0 {
		top := int32(d.window.Height()) - y - h
		d.framePass.SetViewport(float32(x), float32(top), float32(w), float32(h), 0, 1)
	}
	return nil
}

func (d *wgpuDevice) Clear(mask ClearMask) {
	if err := d.beginPass(mask); err != nil {
		log.Printf("[GPU] failed to begin frame: %v", err)
	}
}

func (d *wgpuDevice) DrawTriangles(first, count int32) {
	if count <= 0 {
		return
	}
	p, ok := d.programs[d.currentProgram]
	if !ok || !p.linked {
		return
	}
	a := d.attrib(0)
	if a == nil || !a.enabled {
		return
	}
	b, ok := d.buffers[a.buffer]
	if !ok || b.buffer == nil {
		return
	}

	if key := d.pipelineKey(); key != p.key {
		if err := d.buildPipeline(p, key); err != nil {
			log.Printf("[GPU] failed to rebuild pipeline: %v", err)
			return
		}
	}

	if d.framePass == nil {
		if err := d.beginPass(0); err != nil {
			log.Printf("[GPU] failed to begin frame: %v", err)
			return
		}
	}

	d.framePass.SetPipeline(p.pipeline)
	d.framePass.SetVertexBuffer(0, b.buffer, 0, wgpu.WholeSize)
	d.framePass.Draw(uint32(count), 1, uint32(first), 0)
}

// Present ends the frame's render pass, submits it and presents the surface texture.
func (d *wgpuDevice) Present() {
	if d.frameSurface == nil {
		return
	}
	if d.framePass != nil {
		d.framePass.End()
		d.framePass = nil
	}
	if d.frameEncoder != nil {
		commandBuffer, err := d.frameEncoder.Finish(nil)
		if err == nil {
			d.queue.Submit(commandBuffer)
			commandBuffer.Release()
		} else {
			log.Printf("[GPU] failed to finish frame: %v", err)
		}
		d.frameEncoder.Release()
		d.frameEncoder = nil
	}

	d.surface.Present()

	d.frameView.Release()
	d.frameView = nil
	d.frameSurface.Release()
	d.frameSurface = nil
}

// Release frees every remaining backend object in reverse creation order.
func (d *wgpuDevice) Release() {
	for h := range d.programs {
		d.DeleteProgram(h)
	}
	for h := range d.shaders {
		d.freeShader(h)
	}
	for h := range d.buffers {
		d.DeleteBuffer(h)
	}
	if d.depthTextureView != nil {
		d.depthTextureView.Release()
		d.depthTextureView = nil
	}
	if d.depthTexture != nil {
		d.depthTexture.Release()
		d.depthTexture = nil
	}
	if d.queue != nil {
		d.queue.Release()
		d.queue = nil
	}
	if d.device != nil {
		d.device.Release()
		d.device = nil
	}
	if d.adapter != nil {
		d.adapter.Release()
		d.adapter = nil
	}
	if d.surface != nil {
		d.surface.Release()
		d.surface = nil
	}
	if d.instance != nil {
		d.instance.Release()
		d.instance = nil
	}
}
