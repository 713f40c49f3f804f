package window

import (
	"errors"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
)

// ClientAPI selects which graphics API the window creates a context for.
type ClientAPI int

const (
	// ClientAPIOpenGL requests an OpenGL core profile context of the configured version.
	ClientAPIOpenGL ClientAPI = iota

	// ClientAPINone creates no context; the surface is handed to WebGPU instead.
	ClientAPINone
)

// ErrWindowCreation is returned when the windowing system cannot be initialized or the
// window cannot be created.
var ErrWindowCreation = errors.New("window creation failed")

// Window provides the rendering surface, input events and presentation.
// Wraps the platform window implementation with a common interface.
type Window interface {
	// SetKeyDownCallback sets the callback for key press and repeat events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyDownCallback(callback func(keyCode uint32))

	// SetKeyUpCallback sets the callback for key release events.
	//
	// Parameters:
	//   - callback: function receiving the virtual key code
	SetKeyUpCallback(callback func(keyCode uint32))

	// ShouldClose reports whether a close was requested by the user, the Escape key or
	// the windowing system. A closed window always reports true.
	//
	// Returns:
	//   - bool: true once a close has been requested
	ShouldClose() bool

	// SetShouldClose sets or clears the close request flag.
	//
	// Parameters:
	//   - value: the new flag value
	SetShouldClose(value bool)

	// PollEvents processes pending window and input events without blocking.
	PollEvents()

	// SwapBuffers presents the back buffer of the OpenGL context.
	SwapBuffers()

	// MakeContextCurrent binds the window's OpenGL context to the calling thread.
	MakeContextCurrent()

	// ProcAddress resolves an OpenGL entry point for the current context.
	//
	// Parameters:
	//   - name: the GL function name
	//
	// Returns:
	//   - unsafe.Pointer: the function address, or nil if unavailable
	ProcAddress(name string) unsafe.Pointer

	// SurfaceDescriptor returns a wgpu.SurfaceDescriptor suitable for creating a WebGPU surface.
	//
	// Returns:
	//   - *wgpu.SurfaceDescriptor: the platform-specific surface descriptor, or nil if the window is closed
	SurfaceDescriptor() *wgpu.SurfaceDescriptor

	// ClientAPI reports which graphics API the window was created for.
	ClientAPI() ClientAPI

	// Width returns the framebuffer width in pixels.
	Width() int

	// Height returns the framebuffer height in pixels.
	Height() int

	// Close destroys the window and releases the windowing system.
	// Safe to call more than once; later calls are no-ops.
	//
	// Returns:
	//   - error: error if the platform reports a failure
	Close() error
}

// engineWindow is the implementation of the Window interface.
// Holds window configuration, platform state and event callbacks.
type engineWindow struct {
	title string

	width  int
	height int

	resizable bool

	clientAPI    ClientAPI
	versionMajor int
	versionMinor int

	// internalWindow holds the platform-specific window data (glfwWindow).
	internalWindow any

	onKeyDown func(keyCode uint32)
	onKeyUp   func(keyCode uint32)
}

var _ Window = &engineWindow{}

// NewWindow creates and shows a window with the specified options.
// Applies default values first, then each option in order.
//
// Parameters:
//   - options: functional options to configure the window
//
// Returns:
//   - Window: the created window
//   - error: ErrWindowCreation wrapped with the platform reason
func NewWindow(options ...WindowBuilderOption) (Window, error) {
	w := &engineWindow{
		title:        "OpenGL starter pack",
		width:        800,
		height:       800,
		resizable:    false,
		clientAPI:    ClientAPIOpenGL,
		versionMajor: 3,
		versionMinor: 3,
	}
	for _, opt := range options {
		opt(w)
	}
	if err := newPlatformWindow(w); err != nil {
		return nil, err
	}
	return w, nil
}

func (w *engineWindow) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *engineWindow) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *engineWindow) ShouldClose() bool {
	return platformShouldClose(w)
}

func (w *engineWindow) SetShouldClose(value bool) {
	platformSetShouldClose(w, value)
}

func (w *engineWindow) PollEvents() {
	platformPollEvents(w)
}

func (w *engineWindow) SwapBuffers() {
	platformSwapBuffers(w)
}

func (w *engineWindow) MakeContextCurrent() {
	platformMakeContextCurrent(w)
}

func (w *engineWindow) ProcAddress(name string) unsafe.Pointer {
	return platformProcAddress(name)
}

func (w *engineWindow) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return platformGetSurfaceDescriptor(w)
}

func (w *engineWindow) ClientAPI() ClientAPI {
	return w.clientAPI
}

func (w *engineWindow) Width() int {
	return w.width
}

func (w *engineWindow) Height() int {
	return w.height
}

func (w *engineWindow) Close() error {
	return platformCloseWindow(w)
}
