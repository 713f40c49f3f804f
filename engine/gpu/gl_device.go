package gpu

import (
	"fmt"
	"log"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"

	"github.com/Carmen-Shannon/hellogl/engine/window"
)

// glDevice implements Device on top of an OpenGL 3.3 core profile context.
// Handles are the raw GL object names.
type glDevice struct {
	window window.Window
}

var _ Device = &glDevice{}

// newGLDevice makes the window's context current and resolves the GL entry points through
// the window's proc-address function.
//
// go-gl/gl: https://pkg.go.dev/github.com/go-gl/gl/v3.3-core/gl
func newGLDevice(w window.Window) (*glDevice, error) {
	w.MakeContextCurrent()
	if err := gl.InitWithProcAddrFunc(w.ProcAddress); err != nil {
		return nil, fmt.Errorf("%w: failed to initialize OpenGL context: %v", ErrContextCreation, err)
	}
	log.Printf("[GPU] OpenGL %s, GLSL %s, renderer %s",
		gl.GoStr(gl.GetString(gl.VERSION)),
		gl.GoStr(gl.GetString(gl.SHADING_LANGUAGE_VERSION)),
		gl.GoStr(gl.GetString(gl.RENDERER)))
	return &glDevice{window: w}, nil
}

func (d *glDevice) Backend() BackendType {
	return BackendTypeGL
}

func (d *glDevice) CreateShader(stage StageType) Handle {
	switch stage {
	case StageVertex:
		return Handle(gl.CreateShader(gl.VERTEX_SHADER))
	case StageFragment:
		return Handle(gl.CreateShader(gl.FRAGMENT_SHADER))
	default:
		return 0
	}
}

func (d *glDevice) ShaderSource(shader Handle, source string) {
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(uint32(shader), 1, csources, nil)
	free()
}

func (d *glDevice) CompileShader(shader Handle) {
	gl.CompileShader(uint32(shader))
}

func (d *glDevice) ShaderCompileStatus(shader Handle) bool {
	var status int32
	gl.GetShaderiv(uint32(shader), gl.COMPILE_STATUS, &status)
	return status == gl.TRUE
}

func (d *glDevice) ShaderInfoLog(shader Handle) string {
	var logLength int32
	gl.GetShaderiv(uint32(shader), gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	buf := make([]uint8, logLength+1)
	gl.GetShaderInfoLog(uint32(shader), logLength, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (d *glDevice) DeleteShader(shader Handle) {
	if shader == 0 {
		return
	}
	gl.DeleteShader(uint32(shader))
}

func (d *glDevice) IsShader(shader Handle) bool {
	if shader == 0 {
		return false
	}
	return gl.IsShader(uint32(shader))
}

func (d *glDevice) CreateProgram() Handle {
	return Handle(gl.CreateProgram())
}

func (d *glDevice) AttachShader(program, shader Handle) {
	gl.AttachShader(uint32(program), uint32(shader))
}

func (d *glDevice) DetachShader(program, shader Handle) {
	gl.DetachShader(uint32(program), uint32(shader))
}

func (d *glDevice) LinkProgram(program Handle) {
	gl.LinkProgram(uint32(program))
}

func (d *glDevice) ProgramLinkStatus(program Handle) bool {
	var status int32
	gl.GetProgramiv(uint32(program), gl.LINK_STATUS, &status)
	return status == gl.TRUE
}

func (d *glDevice) ProgramInfoLog(program Handle) string {
	var logLength int32
	gl.GetProgramiv(uint32(program), gl.INFO_LOG_LENGTH, &logLength)
	if logLength <= 0 {
		return ""
	}
	buf := make([]uint8, logLength+1)
	gl.GetProgramInfoLog(uint32(program), logLength, nil, &buf[0])
	return gl.GoStr(&buf[0])
}

func (d *glDevice) UseProgram(program Handle) {
	gl.UseProgram(uint32(program))
}

func (d *glDevice) DeleteProgram(program Handle) {
	if program == 0 {
		return
	}
	gl.DeleteProgram(uint32(program))
}

func (d *glDevice) IsProgram(program Handle) bool {
	if program == 0 {
		return false
	}
	return gl.IsProgram(uint32(program))
}

func (d *glDevice) GenVertexArray() Handle {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return Handle(vao)
}

func (d *glDevice) BindVertexArray(vao Handle) {
	gl.BindVertexArray(uint32(vao))
}

func (d *glDevice) DeleteVertexArray(vao Handle) {
	if vao == 0 {
		return
	}
	name := uint32(vao)
	gl.DeleteVertexArrays(1, &name)
}

func (d *glDevice) GenBuffer() Handle {
	var buf uint32
	gl.GenBuffers(1, &buf)
	return Handle(buf)
}

func (d *glDevice) BindArrayBuffer(buffer Handle) {
	gl.BindBuffer(gl.ARRAY_BUFFER, uint32(buffer))
}

func (d *glDevice) ArrayBufferStaticData(data []float32) {
	if len(data) == 0 {
		gl.BufferData(gl.ARRAY_BUFFER, 0, nil, gl.STATIC_DRAW)
		return
	}
	gl.BufferData(gl.ARRAY_BUFFER, len(data)*int(unsafe.Sizeof(data[0])), gl.Ptr(data), gl.STATIC_DRAW)
}

func (d *glDevice) DeleteBuffer(buffer Handle) {
	if buffer == 0 {
		return
	}
	name := uint32(buffer)
	gl.DeleteBuffers(1, &name)
}

func (d *glDevice) EnableVertexAttribArray(index uint32) {
	gl.EnableVertexAttribArray(index)
}

func (d *glDevice) DisableVertexAttribArray(index uint32) {
	gl.DisableVertexAttribArray(index)
}

func (d *glDevice) VertexAttribPointer(index uint32, size int32, normalized bool, stride int32, offset uintptr) {
	gl.VertexAttribPointerWithOffset(index, size, gl.FLOAT, normalized, stride, offset)
}

func (d *glDevice) Viewport(x, y, width, height int32) {
	gl.Viewport(x, y, width, height)
}

func (d *glDevice) SetClearColor(r, g, b, a float32) {
	gl.ClearColor(r, g, b, a)
}

func (d *glDevice) SetClearDepth(depth float64) {
	gl.ClearDepth(depth)
}

func (d *glDevice) SetDepthTest(enabled bool, fn DepthFunc) {
	if !enabled {
		gl.Disable(gl.DEPTH_TEST)
		return
	}
	gl.Enable(gl.DEPTH_TEST)
	switch fn {
	case DepthFuncGreater:
		gl.DepthFunc(gl.GREATER)
	case DepthFuncAlways:
		gl.DepthFunc(gl.ALWAYS)
	default:
		gl.DepthFunc(gl.LESS)
	}
}

func (d *glDevice) Clear(mask ClearMask) {
	var bits uint32
	if mask&ClearColor != 0 {
		bits |= gl.COLOR_BUFFER_BIT
	}
	if mask&ClearDepth != 0 {
		bits |= gl.DEPTH_BUFFER_BIT
	}
	if bits != 0 {
		gl.Clear(bits)
	}
}

func (d *glDevice) DrawTriangles(first, count int32) {
	gl.DrawArrays(gl.TRIANGLES, first, count)
}

func (d *glDevice) Present() {
	d.window.SwapBuffers()
}

// Release is a no-op: the GL context belongs to the window and dies with it.
func (d *glDevice) Release() {}
