// Package gpu defines the explicit graphics context used by every rendering component.
//
// A Device wraps one live graphics context and exposes the small, handle-based subset of
// the OpenGL 3.3 core object model this program needs: shader stages, programs, vertex
// arrays, array buffers, fixed-function state and draw/present. Components receive the
// Device in their constructors instead of relying on an ambient current context, which
// lets tests swap in gputest.Device and lets the WebGPU backend emulate the same model.
//
// A Device is not safe for concurrent use. All calls must come from the thread that owns
// the context.
package gpu

import (
	"errors"
	"fmt"
)

// BackendType identifies the graphics API implementation behind a Device.
type BackendType int

const (
	// BackendTypeGL selects the OpenGL 3.3 core profile backend (go-gl/gl).
	BackendTypeGL BackendType = iota

	// BackendTypeWGPU selects the WebGPU backend (cogentcore/webgpu).
	BackendTypeWGPU
)

// String returns the human readable backend name.
func (b BackendType) String() string {
	switch b {
	case BackendTypeGL:
		return "OpenGL 3.3 core"
	case BackendTypeWGPU:
		return "WebGPU"
	default:
		return fmt.Sprintf("BackendType(%d)", int(b))
	}
}

// Handle is an opaque name for a GPU object. Zero is never a valid object.
type Handle uint32

// StageType identifies a shader pipeline stage.
type StageType int

const (
	// StageVertex is the vertex processing stage.
	StageVertex StageType = iota

	// StageFragment is the fragment processing stage.
	StageFragment
)

// String returns the lower-case stage name used in diagnostics.
func (s StageType) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// DepthFunc selects the comparison used by the depth test.
type DepthFunc int

const (
	// DepthFuncLess passes fragments whose depth is smaller than the stored value.
	DepthFuncLess DepthFunc = iota

	// DepthFuncGreater passes fragments whose depth is larger than the stored value.
	DepthFuncGreater

	// DepthFuncAlways passes every fragment.
	DepthFuncAlways
)

// ClearMask selects the buffers wiped by Clear.
type ClearMask uint8

const (
	// ClearColor clears the color attachment to the configured clear color.
	ClearColor ClearMask = 1 << iota

	// ClearDepth clears the depth attachment to the configured clear depth.
	ClearDepth
)

// ErrContextCreation is returned when a backend cannot bind or initialize its graphics context.
var ErrContextCreation = errors.New("graphics context creation failed")

// Device is a live graphics context. Method names and semantics follow the OpenGL object
// model so that behavior is identical across backends:
//
//   - Create*/Gen* allocate a handle; Delete* release it. Deleting zero is a no-op.
//   - A shader deleted while attached to a program is only flagged; it is freed when it
//     is detached or the program is deleted.
//   - Is* report whether a handle currently names a live object.
//   - Compile and link never fail with an error; the outcome is queried through the status
//     and info log accessors, exactly like the driver reports it.
type Device interface {
	// Backend reports which graphics API implements this device.
	//
	// Returns:
	//   - BackendType: the backend identifier
	Backend() BackendType

	// CreateShader allocates an empty shader object for the given stage.
	//
	// Parameters:
	//   - stage: the pipeline stage the shader will be compiled for
	//
	// Returns:
	//   - Handle: the new shader object
	CreateShader(stage StageType) Handle

	// ShaderSource replaces the source text of a shader object.
	//
	// Parameters:
	//   - shader: the shader object
	//   - source: the complete source text
	ShaderSource(shader Handle, source string)

	// CompileShader compiles the current source of a shader object.
	//
	// Parameters:
	//   - shader: the shader object
	CompileShader(shader Handle)

	// ShaderCompileStatus reports whether the last compile succeeded.
	//
	// Parameters:
	//   - shader: the shader object
	//
	// Returns:
	//   - bool: true if the shader compiled
	ShaderCompileStatus(shader Handle) bool

	// ShaderInfoLog returns the compiler diagnostics for a shader object. The log may be
	// non-empty on success when the compiler emitted warnings.
	//
	// Parameters:
	//   - shader: the shader object
	//
	// Returns:
	//   - string: the diagnostic text, or "" if there is none
	ShaderInfoLog(shader Handle) string

	// DeleteShader frees a shader object, or flags it for deletion if it is attached.
	//
	// Parameters:
	//   - shader: the shader object
	DeleteShader(shader Handle)

	// IsShader reports whether a handle names a live shader object.
	//
	// Parameters:
	//   - shader: the handle to test
	//
	// Returns:
	//   - bool: true if the shader object exists
	IsShader(shader Handle) bool

	// CreateProgram allocates an empty program object.
	//
	// Returns:
	//   - Handle: the new program object
	CreateProgram() Handle

	// AttachShader attaches a shader object to a program.
	AttachShader(program, shader Handle)

	// DetachShader detaches a shader object from a program, freeing it if it was flagged.
	DetachShader(program, shader Handle)

	// LinkProgram links the shaders attached to a program.
	LinkProgram(program Handle)

	// ProgramLinkStatus reports whether the last link succeeded.
	ProgramLinkStatus(program Handle) bool

	// ProgramInfoLog returns the linker diagnostics for a program object.
	ProgramInfoLog(program Handle) string

	// UseProgram makes a program current. Zero unbinds.
	UseProgram(program Handle)

	// DeleteProgram frees a program object and any flagged shaders attached to it.
	DeleteProgram(program Handle)

	// IsProgram reports whether a handle names a live program object.
	IsProgram(program Handle) bool

	// GenVertexArray allocates a vertex array object.
	GenVertexArray() Handle

	// BindVertexArray makes a vertex array current. Zero unbinds.
	BindVertexArray(vao Handle)

	// DeleteVertexArray frees a vertex array object.
	DeleteVertexArray(vao Handle)

	// GenBuffer allocates a buffer object.
	GenBuffer() Handle

	// BindArrayBuffer binds a buffer as the current vertex attribute source. Zero unbinds.
	BindArrayBuffer(buffer Handle)

	// ArrayBufferStaticData uploads data once into the bound array buffer with static usage.
	//
	// Parameters:
	//   - data: the float32 values to copy into GPU memory
	ArrayBufferStaticData(data []float32)

	// DeleteBuffer frees a buffer object.
	DeleteBuffer(buffer Handle)

	// EnableVertexAttribArray enables a vertex attribute slot on the bound vertex array.
	EnableVertexAttribArray(index uint32)

	// DisableVertexAttribArray disables a vertex attribute slot on the bound vertex array.
	DisableVertexAttribArray(index uint32)

	// VertexAttribPointer describes how the bound array buffer feeds an attribute slot.
	// Components are always float32.
	//
	// Parameters:
	//   - index: the attribute slot
	//   - size: the number of components per vertex (1-4)
	//   - normalized: whether fixed-point data is normalized (ignored for floats)
	//   - stride: the byte distance between vertices, 0 for tightly packed
	//   - offset: the byte offset of the first component in the buffer
	VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset uintptr)

	// Viewport sets the window-space rectangle that normalized device coordinates map to.
	Viewport(x, y, width, height int32)

	// SetClearColor sets the color written by Clear(ClearColor).
	SetClearColor(r, g, b, a float32)

	// SetClearDepth sets the depth written by Clear(ClearDepth).
	SetClearDepth(depth float64)

	// SetDepthTest enables or disables the depth test with the given comparison.
	SetDepthTest(enabled bool, fn DepthFunc)

	// Clear wipes the selected buffers of the current frame.
	Clear(mask ClearMask)

	// DrawTriangles draws an unindexed triangle list from the bound vertex array.
	//
	// Parameters:
	//   - first: the index of the first vertex
	//   - count: the number of vertices to draw
	DrawTriangles(first, count int32)

	// Present shows the finished frame on the window surface.
	Present()

	// Release tears down backend resources that are not represented by handles.
	// Handle-owned objects must be deleted by their owners first.
	Release()
}
