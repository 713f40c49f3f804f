// Package cli holds the command-line flow shared by the viewer binaries.
package cli

import (
	"fmt"
	"io"
	"log"

	"github.com/Carmen-Shannon/hellogl/engine"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
)

const (
	// ExitOK is returned when the window was closed normally.
	ExitOK = 0

	// ExitFailure is returned when setup fails. The process exit status is 255.
	ExitFailure = -1
)

// BackendOptions returns the engine options of one viewer binary: the backend and its
// shader pair. Nothing is read from flags or the environment.
//
// Parameters:
//   - backendType: the graphics API of the binary
//
// Returns:
//   - []engine.EngineBuilderOption: options to pass to Run
func BackendOptions(backendType gpu.BackendType) []engine.EngineBuilderOption {
	vertexPath, fragmentPath := "assets/shaders/vertex.glsl", "assets/shaders/fragment.glsl"
	if backendType == gpu.BackendTypeWGPU {
		vertexPath, fragmentPath = "assets/shaders/vertex.wgsl", "assets/shaders/fragment.wgsl"
	}
	return []engine.EngineBuilderOption{
		engine.WithBackend(backendType),
		engine.WithShaderPaths(vertexPath, fragmentPath),
	}
}

// Run prints the usage line, builds the engine for the optional model path in args[1],
// draws until the window closes and tears everything down.
//
// Parameters:
//   - args: the full argument list, program name first
//   - stdout: where the usage line is written
//   - options: engine options applied before the model path
//
// Returns:
//   - int: ExitOK or ExitFailure
func Run(args []string, stdout io.Writer, options ...engine.EngineBuilderOption) int {
	prog := "hellogl"
	if len(args) > 0 {
		prog = args[0]
	}
	fmt.Fprintf(stdout, "Usage: %s model.obj\n", prog)

	if len(args) == 2 {
		options = append(options, engine.WithModelPath(args[1]))
	}

	e := engine.NewEngine(options...)
	if err := e.Setup(); err != nil {
		log.Printf("[Main] %v", err)
		return ExitFailure
	}
	defer e.Close()

	if _, err := e.Run(); err != nil {
		log.Printf("[Main] %v", err)
		return ExitFailure
	}
	return ExitOK
}
