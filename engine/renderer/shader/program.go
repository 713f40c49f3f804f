package shader

import (
	"fmt"
	"log"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

// Program is a linked vertex/fragment pair ready for drawing.
type Program interface {
	// Handle returns the device program object, or zero after Release.
	//
	// Returns:
	//   - gpu.Handle: the program object
	Handle() gpu.Handle

	// InfoLog returns the linker output, which may hold warnings on success.
	InfoLog() string

	// Valid reports whether the program still names a live program object.
	Valid() bool

	// Use makes the program current on its device.
	Use()

	// Release unbinds the program and deletes it. Calling it again is a no-op.
	Release()
}

// program is the implementation of the Program interface.
type program struct {
	device  gpu.Device
	handle  gpu.Handle
	infoLog string
}

var _ Program = &program{}

// LinkProgram links a vertex and a fragment stage into a program. Both stages are consumed:
// they are flagged for deletion as soon as they are attached and detached after the link,
// so they are freed on every return path, including link failure and invalid input.
// A non-empty linker log is logged whether or not the link succeeded.
//
// Parameters:
//   - device: the graphics context the stages were compiled on
//   - vertex: the compiled vertex stage
//   - fragment: the compiled fragment stage
//
// Returns:
//   - Program: the linked program, nil on failure
//   - error: a *DiagnosticError wrapping ErrLinkFailed
func LinkProgram(device gpu.Device, vertex, fragment CompiledStage) (Program, error) {
	defer func() {
		if vertex != nil {
			vertex.Release()
		}
		if fragment != nil {
			fragment.Release()
		}
	}()

	if err := checkStage(vertex, gpu.StageVertex); err != nil {
		return nil, err
	}
	if err := checkStage(fragment, gpu.StageFragment); err != nil {
		return nil, err
	}

	handle := device.CreateProgram()
	vs, fs := vertex.Handle(), fragment.Handle()
	device.AttachShader(handle, vs)
	device.AttachShader(handle, fs)
	vertex.Release()
	fragment.Release()

	device.LinkProgram(handle)
	device.DetachShader(handle, vs)
	device.DetachShader(handle, fs)

	ok := device.ProgramLinkStatus(handle)
	infoLog := device.ProgramInfoLog(handle)
	if infoLog != "" {
		log.Printf("[Shader] program link log:\n%s", infoLog)
	}
	if !ok {
		device.DeleteProgram(handle)
		return nil, &DiagnosticError{Kind: ErrLinkFailed, Log: infoLog}
	}

	log.Printf("[Shader] linked program %d from %q and %q", handle, vertex.Path(), fragment.Path())
	return &program{
		device:  device,
		handle:  handle,
		infoLog: infoLog,
	}, nil
}

func checkStage(s CompiledStage, want gpu.StageType) error {
	if s == nil || !s.Valid() {
		return &DiagnosticError{Kind: ErrLinkFailed, Log: fmt.Sprintf("%s stage is missing or already released", want)}
	}
	if s.Stage() != want {
		return &DiagnosticError{Kind: ErrLinkFailed, Log: fmt.Sprintf("expected a %s stage, got %s", want, s.Stage())}
	}
	return nil
}

// NewProgramFromFiles builds both stages from disk and links them. The linker is only
// reached when both stages compiled; a stage built before a later failure is released.
//
// Parameters:
//   - device: the graphics context
//   - vertexPath: the vertex shader file
//   - fragmentPath: the fragment shader file
//
// Returns:
//   - Program: the linked program, nil on failure
//   - error: ErrSourceUnreadable, or a *DiagnosticError wrapping ErrCompileFailed or ErrLinkFailed
func NewProgramFromFiles(device gpu.Device, vertexPath, fragmentPath string) (Program, error) {
	vertex, err := BuildStage(device, vertexPath, gpu.StageVertex)
	if err != nil {
		return nil, err
	}
	fragment, err := BuildStage(device, fragmentPath, gpu.StageFragment)
	if err != nil {
		vertex.Release()
		return nil, err
	}
	return LinkProgram(device, vertex, fragment)
}

func (p *program) Handle() gpu.Handle {
	return p.handle
}

func (p *program) InfoLog() string {
	return p.infoLog
}

func (p *program) Valid() bool {
	return p.handle != 0 && p.device.IsProgram(p.handle)
}

func (p *program) Use() {
	if p.handle == 0 {
		return
	}
	p.device.UseProgram(p.handle)
}

func (p *program) Release() {
	if p.handle == 0 {
		return
	}
	p.device.UseProgram(0)
	p.device.DeleteProgram(p.handle)
	p.handle = 0
}
