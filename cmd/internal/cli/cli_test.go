package cli

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/hellogl/engine"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
	"github.com/Carmen-Shannon/hellogl/engine/gpu/gputest"
	"github.com/Carmen-Shannon/hellogl/engine/window"
)

type stepClock struct{ now time.Time }

func (c *stepClock) Now() time.Time { return c.now }
func (c *stepClock) Sleep(d time.Duration) { c.now = c.now.Add(d) }

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func testOptions(t *testing.T, win *gputest.Window, dev *gputest.Device, vertexText string) []engine.EngineBuilderOption {
	t.Helper()
	dir := t.TempDir()
	return []engine.EngineBuilderOption{
		engine.WithShaderPaths(
			writeFile(t, dir, "vertex.glsl", vertexText),
			writeFile(t, dir, "fragment.glsl", "void main() {}"),
		),
		engine.WithModelPath(writeFile(t, dir, "default.obj", "v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n")),
		engine.WithClock(&stepClock{now: time.Unix(0, 0)}),
		engine.WithWindowFactory(func(window.ClientAPI) (window.Window, error) { return win, nil }),
		engine.WithDeviceFactory(func(gpu.BackendType, window.Window) (gpu.Device, error) { return dev, nil }),
	}
}

func TestRunGracefulClose(t *testing.T) {
	win, dev := gputest.NewWindow(20), gputest.NewDevice()
	var out bytes.Buffer

	code := Run([]string{"hellogl"}, &out, testOptions(t, win, dev, "void main() {}")...)

	assert.Equal(t, ExitOK, code)
	assert.Equal(t, "Usage: hellogl model.obj\n", out.String())
	assert.NotEmpty(t, dev.Draws)
	assert.Equal(t, 0, dev.LiveObjects())
	assert.Equal(t, 1, win.Closed)
}

func TestRunModelArgument(t *testing.T) {
	dir := t.TempDir()
	quad := writeFile(t, dir, "quad.obj", "v 0 0 0\nv 1 0 0\nv 1 1 0\nv 0 1 0\nf 1 2 3 4\n")
	win, dev := gputest.NewWindow(20), gputest.NewDevice()

	code := Run([]string{"hellogl", quad}, &bytes.Buffer{}, testOptions(t, win, dev, "void main() {}")...)

	require.Equal(t, ExitOK, code)
	require.NotEmpty(t, dev.Draws)
	assert.Equal(t, int32(6), dev.Draws[0].Count)
}

func TestRunSetupFailure(t *testing.T) {
	win, dev := gputest.NewWindow(20), gputest.NewDevice()

	code := Run([]string{"hellogl"}, &bytes.Buffer{}, testOptions(t, win, dev, "void main() {")...)

	assert.Equal(t, ExitFailure, code)
	assert.Empty(t, dev.Draws)
	assert.Zero(t, dev.LinkCount)
	assert.Equal(t, 1, win.Closed)
}

func TestRunWindowFailure(t *testing.T) {
	options := append(testOptions(t, gputest.NewWindow(0), gputest.NewDevice(), "void main() {}"),
		engine.WithWindowFactory(func(window.ClientAPI) (window.Window, error) {
			return nil, window.ErrWindowCreation
		}))

	assert.Equal(t, ExitFailure, Run([]string{"hellogl"}, &bytes.Buffer{}, options...))
}

func TestBackendOptionsIgnoreEnvironment(t *testing.T) {
	t.Setenv("HELLOGL_PROFILE", "1")

	var logs bytes.Buffer
	log.SetOutput(&logs)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	// Enough ticks for well over one second of clock time.
	win, dev := gputest.NewWindow(1000), gputest.NewDevice()
	options := append(BackendOptions(gpu.BackendTypeGL), testOptions(t, win, dev, "void main() {}")...)

	require.Equal(t, ExitOK, Run([]string{"hellogl"}, &bytes.Buffer{}, options...))
	assert.Greater(t, len(dev.Draws), 50)
	assert.NotContains(t, logs.String(), "[Profiler]")
}

func TestBackendOptionsShaderPairs(t *testing.T) {
	assert.Len(t, BackendOptions(gpu.BackendTypeGL), 2)
	assert.Len(t, BackendOptions(gpu.BackendTypeWGPU), 2)
}
