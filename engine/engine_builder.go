package engine

import (
	"github.com/Carmen-Shannon/hellogl/common"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
	"github.com/Carmen-Shannon/hellogl/engine/loader"
	"github.com/Carmen-Shannon/hellogl/engine/renderer"
	"github.com/Carmen-Shannon/hellogl/engine/scheduler"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the engine instance.
type EngineBuilderOption func(*engine)

// WithBackend selects the graphics API. Defaults to gpu.BackendTypeGL.
//
// Parameters:
//   - backendType: the backend to create the device for
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithBackend(backendType gpu.BackendType) EngineBuilderOption {
	return func(e *engine) {
		e.backend = backendType
	}
}

// WithModelPath sets the model file to display. Empty keeps DefaultModelPath.
//
// Parameters:
//   - path: an .obj, .gltf or .glb file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithModelPath(path string) EngineBuilderOption {
	return func(e *engine) {
		e.modelPath = common.Coalesce(path, e.modelPath)
	}
}

// WithShaderPaths sets the vertex and fragment shader files. Empty paths keep the defaults.
//
// Parameters:
//   - vertexPath: the vertex stage source file
//   - fragmentPath: the fragment stage source file
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithShaderPaths(vertexPath, fragmentPath string) EngineBuilderOption {
	return func(e *engine) {
		e.vertexShaderPath = common.Coalesce(vertexPath, e.vertexShaderPath)
		e.fragmentShaderPath = common.Coalesce(fragmentPath, e.fragmentShaderPath)
	}
}

// WithProfiling enables or disables performance profiling output.
//
// Parameters:
//   - enabled: if true, logs the achieved frame rate once per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithRenderFrameLimit sets the frame rate cap in frames per second.
// Values <= 0 keep the default of 50.
//
// Parameters:
//   - fps: maximum render frames per second
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderFrameLimit(fps float64) EngineBuilderOption {
	return func(e *engine) {
		e.frameRate = fps
	}
}

// WithClock replaces the time source of the frame loop and the profiler.
//
// Parameters:
//   - clock: the clock to pace against
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithClock(clock scheduler.Clock) EngineBuilderOption {
	return func(e *engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRendererOptions forwards options to the renderer, applied after the engine's
// window-sized viewport.
//
// Parameters:
//   - options: renderer options such as renderer.WithDepthConvention
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRendererOptions(options ...renderer.RendererBuilderOption) EngineBuilderOption {
	return func(e *engine) {
		e.rendererOptions = append(e.rendererOptions, options...)
	}
}

// WithLoader sets a custom loader, e.g. one pre-populated with loader.WithModel.
//
// Parameters:
//   - l: the loader used to resolve the model path
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithLoader(l loader.Loader) EngineBuilderOption {
	return func(e *engine) {
		e.loader = l
	}
}

// WithWindowFactory replaces how the window is created.
//
// Parameters:
//   - factory: called once during Setup with the client API the backend needs
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindowFactory(factory WindowFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.newWindow = factory
		}
	}
}

// WithDeviceFactory replaces how the device is created.
//
// Parameters:
//   - factory: called once during Setup with the created window
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDeviceFactory(factory DeviceFactory) EngineBuilderOption {
	return func(e *engine) {
		if factory != nil {
			e.newDevice = factory
		}
	}
}
