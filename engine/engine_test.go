package engine

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/hellogl/common"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
	"github.com/Carmen-Shannon/hellogl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/hellogl/engine/loader"
	"github.com/Carmen-Shannon/hellogl/engine/model"
	"github.com/Carmen-Shannon/hellogl/engine/renderer/shader"
	"github.com/Carmen-Shannon/hellogl/engine/window"
)

// sleepingClock moves forward only when slept on.
type sleepingClock struct{ now time.Time }

func (c *sleepingClock) Now() time.Time { return c.now }
func (c *sleepingClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

type harness struct {
	win *gputest.Window
	dev *gputest.Device
	dir string
}

func newHarness(t *testing.T, closeAfter int) *harness {
	t.Helper()
	h := &harness{
		win: gputest.NewWindow(closeAfter),
		dev: gputest.NewDevice(),
		dir: t.TempDir(),
	}
	h.write(t, "vertex.glsl", "#version 330 core\nvoid main() { gl_Position = vec4(0.0); }\n")
	h.write(t, "fragment.glsl", "#version 330 core\nvoid main() {}\n")
	h.write(t, "tri.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")
	return h
}

func (h *harness) write(t *testing.T, name, text string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(h.dir, name), []byte(text), 0o644))
}

func (h *harness) path(name string) string {
	return filepath.Join(h.dir, name)
}

func (h *harness) engine(options ...EngineBuilderOption) Engine {
	base := []EngineBuilderOption{
		WithModelPath(h.path("tri.obj")),
		WithShaderPaths(h.path("vertex.glsl"), h.path("fragment.glsl")),
		WithClock(&sleepingClock{now: time.Unix(0, 0)}),
		WithWindowFactory(func(api window.ClientAPI) (window.Window, error) {
			h.win.API = api
			return h.win, nil
		}),
		WithDeviceFactory(func(gpu.BackendType, window.Window) (gpu.Device, error) {
			return h.dev, nil
		}),
	}
	return NewEngine(append(base, options...)...)
}

func TestOneTriangleEndToEnd(t *testing.T) {
	h := newHarness(t, 40)
	e := h.engine(WithProfiling(true))

	require.NoError(t, e.Setup())
	assert.Equal(t, window.ClientAPIOpenGL, h.win.API)

	mesh := e.Renderer().Mesh()
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, h.dev.Uploads[mesh.Buffer()])
	assert.Equal(t, [4]int32{0, 0, 800, 800}, h.dev.ViewportRect)

	frames, err := e.Run()
	require.NoError(t, err)
	assert.Positive(t, frames)
	assert.Equal(t, frames, h.win.Polls)
	require.Len(t, h.dev.Draws, frames)
	for _, d := range h.dev.Draws {
		assert.Equal(t, int32(3), d.Count)
	}

	e.Close()
	assert.Equal(t, 0, h.dev.LiveObjects())
	assert.Equal(t, 1, h.dev.ReleaseCount)
	assert.Equal(t, 1, h.win.Closed)

	e.Close()
	assert.Equal(t, 1, h.dev.ReleaseCount)
	assert.Equal(t, 1, h.win.Closed)
}

func TestSyntaxErrorNeverLinks(t *testing.T) {
	h := newHarness(t, 0)
	h.write(t, "vertex.glsl", "#version 330 core\nvoid main() {\n")
	e := h.engine()

	err := e.Setup()
	require.Error(t, err)
	assert.ErrorIs(t, err, shader.ErrCompileFailed)

	var diag *shader.DiagnosticError
	require.True(t, errors.As(err, &diag))
	assert.NotEmpty(t, diag.Log)

	assert.Zero(t, h.dev.LinkCount)
	assert.Empty(t, h.dev.CallsNamed("CreateProgram"))
	assert.Equal(t, 0, h.dev.LiveObjects())
	assert.Equal(t, 1, h.win.Closed)
	assert.Nil(t, e.Renderer())

	_, err = e.Run()
	assert.ErrorIs(t, err, ErrNotSetUp)
}

func TestMissingModelReleasesProgram(t *testing.T) {
	h := newHarness(t, 0)
	e := h.engine(WithModelPath(h.path("missing.obj")))

	err := e.Setup()
	require.Error(t, err)
	assert.ErrorContains(t, err, "failed to load model")
	assert.Equal(t, 1, h.dev.LinkCount)
	assert.Equal(t, 0, h.dev.LiveObjects())
	assert.Equal(t, 1, h.dev.ReleaseCount)
	assert.Equal(t, 1, h.win.Closed)
}

func TestWindowFailureCreatesNoDevice(t *testing.T) {
	h := newHarness(t, 0)
	deviceCreated := false
	e := h.engine(
		WithWindowFactory(func(window.ClientAPI) (window.Window, error) {
			return nil, window.ErrWindowCreation
		}),
		WithDeviceFactory(func(gpu.BackendType, window.Window) (gpu.Device, error) {
			deviceCreated = true
			return h.dev, nil
		}),
	)

	err := e.Setup()
	assert.ErrorIs(t, err, window.ErrWindowCreation)
	assert.False(t, deviceCreated)
	assert.Nil(t, e.Window())
	assert.Empty(t, h.dev.Calls)
}

func TestContextFailureClosesWindow(t *testing.T) {
	h := newHarness(t, 0)
	e := h.engine(WithDeviceFactory(func(gpu.BackendType, window.Window) (gpu.Device, error) {
		return nil, gpu.ErrContextCreation
	}))

	err := e.Setup()
	assert.ErrorIs(t, err, gpu.ErrContextCreation)
	assert.Equal(t, 1, h.win.Closed)
}

func TestWGPUBackendRequestsNoClientAPI(t *testing.T) {
	h := newHarness(t, 0)
	e := h.engine(WithBackend(gpu.BackendTypeWGPU))

	require.NoError(t, e.Setup())
	assert.Equal(t, window.ClientAPINone, h.win.API)
	e.Close()
}

func TestPreloadedModel(t *testing.T) {
	m, err := model.NewModel(model.WithTriangles([][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
		{{0, 0, 1}, {1, 0, 1}, {0, 1, 1}},
	}))
	require.NoError(t, err)

	h := newHarness(t, 0)
	e := h.engine(
		WithModelPath("cached"),
		WithLoader(loader.NewLoader(loader.WithModel("cached", m))),
	)
	require.NoError(t, e.Setup())
	defer e.Close()

	assert.Equal(t, int32(6), e.Renderer().Mesh().VertexCount())
}

func TestEscapeRequestsClose(t *testing.T) {
	h := newHarness(t, 1000)
	e := h.engine()
	require.NoError(t, e.Setup())
	defer e.Close()

	h.win.PressKey(common.KeySpace)
	assert.False(t, h.win.ShouldClose())

	h.win.PressKey(common.KeyEsc)
	assert.True(t, h.win.ShouldClose())

	frames, err := e.Run()
	require.NoError(t, err)
	assert.Zero(t, frames)
}

func TestSetupLeavesNoWorkerRunning(t *testing.T) {
	before := runtime.NumGoroutine()

	h := newHarness(t, 0)
	e := h.engine()
	require.NoError(t, e.Setup())
	e.Close()

	assert.Eventually(t, func() bool {
		return runtime.NumGoroutine() <= before
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSetupAfterFailureIsRefused(t *testing.T) {
	h := newHarness(t, 0)
	windows := 0
	e := h.engine(
		WithModelPath(h.path("missing.obj")),
		WithWindowFactory(func(api window.ClientAPI) (window.Window, error) {
			windows++
			return h.win, nil
		}),
	)

	require.Error(t, e.Setup())
	assert.ErrorIs(t, e.Setup(), ErrClosed)
	assert.Equal(t, 1, windows)
	assert.Equal(t, 1, h.dev.LinkCount)
}

func TestSetupAfterCloseIsRefused(t *testing.T) {
	h := newHarness(t, 0)
	e := h.engine()
	e.Close()

	assert.ErrorIs(t, e.Setup(), ErrClosed)
	assert.Nil(t, e.Window())
	assert.Empty(t, h.dev.Calls)
}
