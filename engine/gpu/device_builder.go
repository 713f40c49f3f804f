package gpu

import (
	"fmt"

	"github.com/Carmen-Shannon/hellogl/engine/window"
)

// NewDevice binds a graphics context to the given window and returns a Device for it.
// The window must have been created for the matching client API: ClientAPIOpenGL for
// BackendTypeGL and ClientAPINone for BackendTypeWGPU.
//
// Parameters:
//   - backendType: the graphics API to use
//   - w: the window providing the context or surface
//
// Returns:
//   - Device: the live device
//   - error: ErrContextCreation wrapped with the backend reason
func NewDevice(backendType BackendType, w window.Window) (Device, error) {
	if w == nil {
		return nil, fmt.Errorf("%w: no window", ErrContextCreation)
	}
	switch backendType {
	case BackendTypeGL:
		if w.ClientAPI() != window.ClientAPIOpenGL {
			return nil, fmt.Errorf("%w: window has no OpenGL context", ErrContextCreation)
		}
		return newGLDevice(w)
	case BackendTypeWGPU:
		if w.ClientAPI() != window.ClientAPINone {
			return nil, fmt.Errorf("%w: window already owns an OpenGL context", ErrContextCreation)
		}
		return newWGPUDevice(w)
	default:
		return nil, fmt.Errorf("%w: unknown backend %v", ErrContextCreation, backendType)
	}
}
