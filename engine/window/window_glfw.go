package window

import (
	"fmt"
	"log"
	"runtime"
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// glfwWindow holds the GLFW-specific window state.
type glfwWindow struct {
	parent *engineWindow
	window *glfw.Window
	closed bool
}

// newPlatformWindow initializes GLFW, creates the window with the requested context hints,
// and registers the key callback. On failure GLFW is terminated before returning.
//
// GLFW reference: https://www.glfw.org/docs/latest/window_guide.html
// go-gl/glfw: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw
func newPlatformWindow(w *engineWindow) error {
	runtime.LockOSThread()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("%w: failed to initialize GLFW: %v", ErrWindowCreation, err)
	}

	switch w.clientAPI {
	case ClientAPINone:
		// WebGPU provides its own graphics API, so disable OpenGL context creation.
		glfw.WindowHint(glfw.ClientAPI, glfw.NoAPI)
		log.Printf("[Window] Starting GLFW without a client API")
	default:
		glfw.WindowHint(glfw.ContextVersionMajor, w.versionMajor)
		glfw.WindowHint(glfw.ContextVersionMinor, w.versionMinor)
		glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
		glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
		log.Printf("[Window] Starting GLFW context, OpenGL %d.%d", w.versionMajor, w.versionMinor)
	}
	if w.resizable {
		glfw.WindowHint(glfw.Resizable, glfw.True)
	} else {
		glfw.WindowHint(glfw.Resizable, glfw.False)
	}

	win, err := glfw.CreateWindow(w.width, w.height, w.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return fmt.Errorf("%w: failed to create GLFW window: %v", ErrWindowCreation, err)
	}

	gw := &glfwWindow{
		parent: w,
		window: win,
	}
	w.internalWindow = gw

	if w.clientAPI == ClientAPIOpenGL {
		win.MakeContextCurrent()
	}

	// Every key event is logged and forwarded; key bindings belong to the callbacks.
	// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#Window.SetKeyCallback
	win.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
		log.Printf("[Window] key_callback(key=%d, scancode=%d, action=%d, mods=%d)", key, scancode, action, mods)
		switch action {
		case glfw.Press, glfw.Repeat:
			if w.onKeyDown != nil {
				w.onKeyDown(uint32(key))
			}
		case glfw.Release:
			if w.onKeyUp != nil {
				w.onKeyUp(uint32(key))
			}
		}
	})

	// Record the real framebuffer size (may differ from requested on high-DPI).
	w.width, w.height = win.GetFramebufferSize()

	return nil
}

// platformGetSurfaceDescriptor creates a platform-appropriate wgpu.SurfaceDescriptor from the GLFW window.
//
// Reference: https://pkg.go.dev/github.com/cogentcore/webgpu/wgpuglfw#GetSurfaceDescriptor
func platformGetSurfaceDescriptor(w *engineWindow) *wgpu.SurfaceDescriptor {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return nil
	}
	return wgpuglfw.GetSurfaceDescriptor(gw.window)
}

func platformShouldClose(w *engineWindow) bool {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return true
	}
	return gw.window.ShouldClose()
}

func platformSetShouldClose(w *engineWindow, value bool) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return
	}
	gw.window.SetShouldClose(value)
}

// platformPollEvents polls GLFW for pending events without blocking.
//
// Reference: https://pkg.go.dev/github.com/go-gl/glfw/v3.3/glfw#PollEvents
func platformPollEvents(w *engineWindow) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return
	}
	glfw.PollEvents()
}

func platformSwapBuffers(w *engineWindow) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return
	}
	gw.window.SwapBuffers()
}

func platformMakeContextCurrent(w *engineWindow) {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok || gw.closed {
		return
	}
	gw.window.MakeContextCurrent()
}

func platformProcAddress(name string) unsafe.Pointer {
	return glfw.GetProcAddress(name)
}

// platformCloseWindow destroys the GLFW window and terminates the GLFW library.
// A second call finds the window already closed and returns nil.
func platformCloseWindow(w *engineWindow) error {
	gw, ok := w.internalWindow.(*glfwWindow)
	if !ok {
		return fmt.Errorf("window is not initialized")
	}
	if gw.closed {
		return nil
	}
	gw.closed = true
	gw.window.Destroy()
	glfw.Terminate()
	return nil
}
