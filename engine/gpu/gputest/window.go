package gputest

import (
	"unsafe"

	"github.com/cogentcore/webgpu/wgpu"

	"github.com/Carmen-Shannon/hellogl/engine/window"
)

// Window is an in-memory window.Window. It reports a close request once ShouldClose has
// been called more than CloseAfter times, or after SetShouldClose(true).
type Window struct {
	API        window.ClientAPI
	CloseAfter int

	Checks int
	Polls  int
	Swaps  int
	Closed int

	closeRequested bool
	onKeyDown      func(keyCode uint32)
	onKeyUp        func(keyCode uint32)
}

var _ window.Window = &Window{}

// NewWindow returns a 800x800 window that asks to close after closeAfter checks.
func NewWindow(closeAfter int) *Window {
	return &Window{CloseAfter: closeAfter}
}

// PressKey delivers a key press and release to the registered callbacks.
func (w *Window) PressKey(keyCode uint32) {
	if w.onKeyDown != nil {
		w.onKeyDown(keyCode)
	}
	if w.onKeyUp != nil {
		w.onKeyUp(keyCode)
	}
}

func (w *Window) SetKeyDownCallback(callback func(keyCode uint32)) {
	w.onKeyDown = callback
}

func (w *Window) SetKeyUpCallback(callback func(keyCode uint32)) {
	w.onKeyUp = callback
}

func (w *Window) ShouldClose() bool {
	w.Checks++
	return w.closeRequested || w.Closed > 0 || w.Checks > w.CloseAfter
}

func (w *Window) SetShouldClose(value bool) {
	w.closeRequested = value
}

func (w *Window) PollEvents() {
	w.Polls++
}

func (w *Window) SwapBuffers() {
	w.Swaps++
}

func (w *Window) MakeContextCurrent() {}

func (w *Window) ProcAddress(string) unsafe.Pointer {
	return nil
}

func (w *Window) SurfaceDescriptor() *wgpu.SurfaceDescriptor {
	return nil
}

func (w *Window) ClientAPI() window.ClientAPI {
	return w.API
}

func (w *Window) Width() int {
	return 800
}

func (w *Window) Height() int {
	return 800
}

func (w *Window) Close() error {
	w.Closed++
	return nil
}
