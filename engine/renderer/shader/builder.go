package shader

import (
	"log"

	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

// CompiledStage is one successfully compiled shader stage. It is owned by whoever holds it
// until it is handed to LinkProgram, which always consumes it.
type CompiledStage interface {
	// Handle returns the device shader object, or zero once the stage has been consumed.
	//
	// Returns:
	//   - gpu.Handle: the shader object
	Handle() gpu.Handle

	// Stage returns the pipeline stage the shader was compiled for.
	//
	// Returns:
	//   - gpu.StageType: the stage kind
	Stage() gpu.StageType

	// Path returns the source file the stage was compiled from.
	Path() string

	// InfoLog returns the compiler output, which may hold warnings on success.
	InfoLog() string

	// Valid reports whether the stage still names a live shader object.
	//
	// Returns:
	//   - bool: false after Release or after the stage was linked
	Valid() bool

	// Release deletes the shader object. Calling it again is a no-op.
	Release()
}

// compiledStage is the implementation of the CompiledStage interface.
type compiledStage struct {
	device  gpu.Device
	handle  gpu.Handle
	stage   gpu.StageType
	path    string
	infoLog string
}

var _ CompiledStage = &compiledStage{}

// CompileStage asks the device to compile a loaded source. A non-empty info log is logged
// whether or not the compile succeeded. On failure the shader object is deleted and no
// stage is returned.
//
// Parameters:
//   - device: the graphics context to compile on
//   - src: the stage source
//
// Returns:
//   - CompiledStage: the compiled stage, nil on failure
//   - error: a *DiagnosticError wrapping ErrCompileFailed if the driver rejects the source
func CompileStage(device gpu.Device, src Source) (CompiledStage, error) {
	handle := device.CreateShader(src.Stage)
	if handle == 0 {
		return nil, &DiagnosticError{Kind: ErrCompileFailed, Stage: src.Stage, Path: src.Path, Log: "could not create shader object"}
	}
	device.ShaderSource(handle, src.Text)
	device.CompileShader(handle)

	ok := device.ShaderCompileStatus(handle)
	infoLog := device.ShaderInfoLog(handle)
	if infoLog != "" {
		log.Printf("[Shader] %s shader %q compile log:\n%s", src.Stage, src.Path, infoLog)
	}
	if !ok {
		device.DeleteShader(handle)
		return nil, &DiagnosticError{Kind: ErrCompileFailed, Stage: src.Stage, Path: src.Path, Log: infoLog}
	}

	return &compiledStage{
		device:  device,
		handle:  handle,
		stage:   src.Stage,
		path:    src.Path,
		infoLog: infoLog,
	}, nil
}

// BuildStage loads a shader file and compiles it. An unreadable file fails before any
// device object is created.
//
// Parameters:
//   - device: the graphics context to compile on
//   - path: the shader file
//   - stage: the stage the file is written for
//
// Returns:
//   - CompiledStage: the compiled stage, nil on failure
//   - error: ErrSourceUnreadable or a *DiagnosticError wrapping ErrCompileFailed
func BuildStage(device gpu.Device, path string, stage gpu.StageType) (CompiledStage, error) {
	src, err := LoadSource(path, stage)
	if err != nil {
		log.Printf("[Shader] %v", err)
		return nil, err
	}
	return CompileStage(device, src)
}

func (s *compiledStage) Handle() gpu.Handle {
	return s.handle
}

func (s *compiledStage) Stage() gpu.StageType {
	return s.stage
}

func (s *compiledStage) Path() string {
	return s.path
}

func (s *compiledStage) InfoLog() string {
	return s.infoLog
}

func (s *compiledStage) Valid() bool {
	return s.handle != 0 && s.device.IsShader(s.handle)
}

func (s *compiledStage) Release() {
	if s.handle == 0 {
		return
	}
	s.device.DeleteShader(s.handle)
	s.handle = 0
}
