package engine

import (
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"

	"github.com/Carmen-Shannon/hellogl/common"
	"github.com/Carmen-Shannon/hellogl/engine/gpu"
	"github.com/Carmen-Shannon/hellogl/engine/loader"
	"github.com/Carmen-Shannon/hellogl/engine/model"
	"github.com/Carmen-Shannon/hellogl/engine/profiler"
	"github.com/Carmen-Shannon/hellogl/engine/renderer"
	"github.com/Carmen-Shannon/hellogl/engine/renderer/shader"
	"github.com/Carmen-Shannon/hellogl/engine/scheduler"
	"github.com/Carmen-Shannon/hellogl/engine/window"
)

const (
	// DefaultModelPath is the model loaded when no path is configured.
	DefaultModelPath = "assets/models/default.obj"

	// DefaultVertexShaderPath and DefaultFragmentShaderPath are the GLSL stages used by the
	// OpenGL backend.
	DefaultVertexShaderPath   = "assets/shaders/vertex.glsl"
	DefaultFragmentShaderPath = "assets/shaders/fragment.glsl"
)

var (
	// ErrNotSetUp is returned by Run when Setup has not completed successfully.
	ErrNotSetUp = errors.New("engine is not set up")

	// ErrClosed is returned by Setup once Close has run.
	ErrClosed = errors.New("engine is closed")
)

// WindowFactory creates the window for a client API.
type WindowFactory func(api window.ClientAPI) (window.Window, error)

// DeviceFactory binds a device of the given backend to a window.
type DeviceFactory func(backendType gpu.BackendType, w window.Window) (gpu.Device, error)

// engine implements the Engine interface.
// Owns the window, the device and everything created on it, all on the calling thread.
type engine struct {
	backend            gpu.BackendType
	modelPath          string
	vertexShaderPath   string
	fragmentShaderPath string

	newWindow WindowFactory
	newDevice DeviceFactory

	loader loader.Loader

	clock            scheduler.Clock
	frameRate        float64
	profiler         *profiler.Profiler
	profilingEnabled bool

	rendererOptions []renderer.RendererBuilderOption

	window    window.Window
	device    gpu.Device
	program   shader.Program
	mesh      renderer.MeshBuffer
	renderer  renderer.Renderer
	scheduler scheduler.Scheduler

	closeOnce sync.Once
	closed    bool
}

// Engine sets up the viewer, runs its frame loop and tears it down.
type Engine interface {
	// Setup creates the window, the device and the shader program on the calling thread
	// while a background worker loads and flattens the model. Once both finish the
	// geometry is uploaded and the renderer and scheduler are created.
	// On failure everything created so far is released and the engine is closed.
	//
	// Returns:
	//   - error: the first setup failure wrapping the failing component's sentinel error,
	//     or ErrClosed if Close has already run
	Setup() error

	// Run draws frames until the window asks to close.
	//
	// Returns:
	//   - int: the number of frames drawn
	//   - error: ErrNotSetUp if Setup did not succeed
	Run() (int, error)

	// Close releases the program, the geometry, the device and the window in that order.
	// Safe to call multiple times; subsequent calls are no-ops.
	Close()

	// Window returns the window, or nil before Setup.
	Window() window.Window

	// Device returns the device, or nil before Setup.
	Device() gpu.Device

	// Renderer returns the renderer, or nil until Setup succeeds.
	Renderer() renderer.Renderer

	// Scheduler returns the frame scheduler, or nil until Setup succeeds.
	Scheduler() scheduler.Scheduler
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options applied.
// Nothing is created on the GPU until Setup is called.
//
// Parameters:
//   - options: functional options for engine configuration (backend, paths, profiling, etc.)
//
// Returns:
//   - Engine: the newly created engine
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		backend:            gpu.BackendTypeGL,
		modelPath:          DefaultModelPath,
		vertexShaderPath:   DefaultVertexShaderPath,
		fragmentShaderPath: DefaultFragmentShaderPath,
		newWindow:          defaultWindow,
		newDevice:          gpu.NewDevice,
		clock:              scheduler.SystemClock(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.loader == nil {
		e.loader = loader.NewLoader()
	}

	return e
}

func defaultWindow(api window.ClientAPI) (window.Window, error) {
	return window.NewWindow(window.WithClientAPI(api))
}

func (e *engine) Setup() error {
	if e.closed {
		return ErrClosed
	}
	if e.scheduler != nil {
		return nil
	}

	var (
		wg       sync.WaitGroup
		vertices []float32
		loadErr  error
	)
	// Workers only exit on Stop, so the pool lives for this call only.
	pool := worker.NewDynamicWorkerPool(1, 256, 1*time.Second)
	wg.Add(1)
	pool.SubmitTask(worker.Task{
		ID: 0,
		Do: func() (any, error) {
			defer wg.Done()
			m, err := e.loader.Load(e.modelPath)
			if err != nil {
				loadErr = err
				return nil, err
			}
			vertices = model.Flatten(m)
			return vertices, nil
		},
	})

	err := e.setupGraphics()
	wg.Wait()
	pool.Stop()
	if err == nil && loadErr != nil {
		err = fmt.Errorf("failed to load model: %w", loadErr)
	}
	if err == nil {
		err = e.setupFrame(vertices)
	}
	if err != nil {
		log.Printf("[Engine] setup failed: %v", err)
		e.Close()
		return err
	}
	return nil
}

// setupGraphics creates the window, the device and the linked program.
func (e *engine) setupGraphics() error {
	api := window.ClientAPIOpenGL
	if e.backend == gpu.BackendTypeWGPU {
		api = window.ClientAPINone
	}

	w, err := e.newWindow(api)
	if err != nil {
		return err
	}
	e.window = w
	w.SetKeyDownCallback(func(keyCode uint32) {
		if keyCode == common.KeyEsc {
			w.SetShouldClose(true)
		}
	})

	device, err := e.newDevice(e.backend, w)
	if err != nil {
		return err
	}
	e.device = device
	log.Printf("[Engine] %s device ready (%dx%d)", e.backend, w.Width(), w.Height())

	program, err := shader.NewProgramFromFiles(device, e.vertexShaderPath, e.fragmentShaderPath)
	if err != nil {
		return err
	}
	e.program = program
	return nil
}

// setupFrame uploads the geometry and builds the renderer and scheduler around it.
func (e *engine) setupFrame(vertices []float32) error {
	mesh, err := renderer.UploadMesh(e.device, vertices)
	if err != nil {
		return err
	}
	e.mesh = mesh

	options := append([]renderer.RendererBuilderOption{
		renderer.WithViewport(0, 0, int32(e.window.Width()), int32(e.window.Height())),
	}, e.rendererOptions...)
	r, err := renderer.NewRenderer(e.device, e.program, mesh, options...)
	if err != nil {
		return err
	}
	e.renderer = r

	schedulerOptions := []scheduler.SchedulerBuilderOption{
		scheduler.WithClock(e.clock),
		scheduler.WithFrameRate(e.frameRate),
	}
	if e.profilingEnabled {
		e.profiler = profiler.NewProfiler(e.clock.Now(), time.Second)
		schedulerOptions = append(schedulerOptions, scheduler.WithFrameCallback(func(now time.Time) {
			e.profiler.Tick(now)
		}))
	}
	e.scheduler = scheduler.NewScheduler(r, e.window, schedulerOptions...)
	return nil
}

func (e *engine) Run() (int, error) {
	if e.scheduler == nil {
		return 0, ErrNotSetUp
	}
	frames := e.scheduler.Run()
	log.Printf("[Engine] window closed after %d frames", frames)
	return frames, nil
}

func (e *engine) Close() {
	e.closeOnce.Do(func() {
		e.closed = true
		if e.renderer != nil {
			e.renderer.Release()
		}
		// Setup may have stopped before the renderer took ownership.
		if e.program != nil {
			e.program.Release()
		}
		if e.mesh != nil {
			e.mesh.Release()
		}
		if e.device != nil {
			e.device.Release()
		}
		if e.window != nil {
			if err := e.window.Close(); err != nil {
				log.Printf("[Engine] failed to close window: %v", err)
			}
		}
	})
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Device() gpu.Device {
	return e.device
}

func (e *engine) Renderer() renderer.Renderer {
	return e.renderer
}

func (e *engine) Scheduler() scheduler.Scheduler {
	return e.scheduler
}
