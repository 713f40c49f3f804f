package renderer

import (
	"errors"
	"log"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
	"github.com/Carmen-Shannon/hellogl/engine/renderer/shader"
)

// DepthConvention selects how the depth buffer is cleared and compared.
type DepthConvention int

const (
	// DepthReversed clears depth to 0 and keeps fragments with a greater depth. The shipped
	// shaders are written against this convention, so it is the default.
	DepthReversed DepthConvention = iota

	// DepthStandard clears depth to 1 and keeps fragments with a smaller depth.
	DepthStandard
)

// renderer is the implementation of the Renderer interface.
type renderer struct {
	device  gpu.Device
	program shader.Program
	mesh    MeshBuffer

	viewport   [4]int32
	clearColor [4]float32
	depth      DepthConvention

	released bool
}

// Renderer draws one linked program over one uploaded mesh and owns both for teardown.
type Renderer interface {
	// Program returns the program used for drawing.
	//
	// Returns:
	//   - shader.Program: the linked program
	Program() shader.Program

	// Mesh returns the uploaded geometry.
	//
	// Returns:
	//   - MeshBuffer: the mesh buffer
	Mesh() MeshBuffer

	// DrawFrame clears color and depth and issues one unindexed triangle-list draw over
	// every uploaded vertex. It does nothing after Release.
	DrawFrame()

	// Present shows the finished frame.
	Present()

	// Release unbinds and deletes the program, then disables the position attribute and
	// deletes the vertex buffer and the vertex array, in that order. Calling it again is
	// a no-op.
	Release()
}

var _ Renderer = &renderer{}

// NewRenderer takes ownership of a linked program and an uploaded mesh and sets up the
// fixed render state: viewport, clear color, depth test and clear depth per the depth
// convention, the current program and the mesh's vertex array.
//
// Parameters:
//   - device: the graphics context
//   - program: the linked program
//   - mesh: the uploaded mesh
//   - options: functional options to configure the renderer
//
// Returns:
//   - Renderer: the configured renderer
//   - error: error if program or mesh is missing
func NewRenderer(device gpu.Device, program shader.Program, mesh MeshBuffer, options ...RendererBuilderOption) (Renderer, error) {
	if program == nil || !program.Valid() {
		return nil, errors.New("renderer: a linked program is required")
	}
	if mesh == nil {
		return nil, errors.New("renderer: a mesh buffer is required")
	}

	r := &renderer{
		device:     device,
		program:    program,
		mesh:       mesh,
		viewport:   [4]int32{0, 0, 800, 800},
		clearColor: [4]float32{0.2, 0.3, 0.3, 1.0},
		depth:      DepthReversed,
	}
	for _, opt := range options {
		opt(r)
	}

	device.Viewport(r.viewport[0], r.viewport[1], r.viewport[2], r.viewport[3])
	device.SetClearColor(r.clearColor[0], r.clearColor[1], r.clearColor[2], r.clearColor[3])
	switch r.depth {
	case DepthStandard:
		device.SetDepthTest(true, gpu.DepthFuncLess)
		device.SetClearDepth(1)
	default:
		device.SetDepthTest(true, gpu.DepthFuncGreater)
		device.SetClearDepth(0)
	}
	program.Use()
	mesh.Bind()

	log.Printf("[Renderer] %s: %d vertices per frame", device.Backend(), mesh.VertexCount())
	return r, nil
}

func (r *renderer) Program() shader.Program {
	return r.program
}

func (r *renderer) Mesh() MeshBuffer {
	return r.mesh
}

func (r *renderer) DrawFrame() {
	if r.released {
		return
	}
	r.device.Clear(gpu.ClearColor | gpu.ClearDepth)
	r.device.DrawTriangles(0, r.mesh.VertexCount())
}

func (r *renderer) Present() {
	if r.released {
		return
	}
	r.device.Present()
}

func (r *renderer) Release() {
	if r.released {
		return
	}
	r.released = true
	r.program.Release()
	r.mesh.Release()
}
