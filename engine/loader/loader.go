package loader

import (
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	"github.com/Carmen-Shannon/hellogl/engine/model"
)

// Format identifies a model container format.
type Format int

const (
	// FormatOBJ is Wavefront OBJ text.
	FormatOBJ Format = iota

	// FormatGLTF is glTF 2.0 JSON with external or data-URI buffers.
	FormatGLTF

	// FormatGLB is the binary glTF 2.0 container.
	FormatGLB
)

func (f Format) String() string {
	switch f {
	case FormatOBJ:
		return "OBJ"
	case FormatGLTF:
		return "glTF"
	case FormatGLB:
		return "GLB"
	default:
		return fmt.Sprintf("Format(%d)", int(f))
	}
}

// ErrUnsupportedFormat is returned for files whose extension maps to no backend.
var ErrUnsupportedFormat = errors.New("unsupported model format")

// FormatFromPath maps a file extension to its Format.
//
// Parameters:
//   - path: the model file path
//
// Returns:
//   - Format: the detected format
//   - error: ErrUnsupportedFormat for unknown extensions
func FormatFromPath(path string) (Format, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".obj":
		return FormatOBJ, nil
	case ".gltf":
		return FormatGLTF, nil
	case ".glb":
		return FormatGLB, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// loader is the implementation of the Loader interface.
type loader struct {
	mu sync.RWMutex

	modelCache map[string]model.Model

	objBackend  loaderBackend
	gltfBackend loaderBackend
}

// Loader loads model files into model.Model values and caches them by path. It is safe
// for concurrent use, so a model can be loaded on a worker while the main thread sets up
// the window and shaders.
type Loader interface {
	// Load imports a model file and caches the result.
	// If the model is already cached (by file path), the cached version is returned.
	// The backend is selected from the file extension (.obj, .gltf, .glb).
	//
	// Parameters:
	//   - path: the file path to the model file
	//
	// Returns:
	//   - model.Model: the loaded and cached model
	//   - error: error if the format is unsupported or loading fails
	Load(path string) (model.Model, error)

	// LoadReader imports a model from a reader stream and caches it by the given name.
	//
	// Parameters:
	//   - name: the cache key for the loaded model
	//   - r: the reader providing model data
	//   - format: the container format of the stream
	//
	// Returns:
	//   - model.Model: the loaded model
	//   - error: error if loading fails
	LoadReader(name string, r io.Reader, format Format) (model.Model, error)

	// Get retrieves a cached model by name. Returns nil if not found.
	//
	// Parameters:
	//   - name: the cache key to look up
	//
	// Returns:
	//   - model.Model: the cached model or nil
	Get(name string) model.Model

	// Models returns a copy of the model cache.
	//
	// Returns:
	//   - map[string]model.Model: all cached models keyed by name
	Models() map[string]model.Model
}

var _ Loader = &loader{}

// NewLoader creates a new Loader with the OBJ and glTF backends and the options applied.
//
// Parameters:
//   - options: a variadic list of LoaderBuilderOption functions to configure the Loader
//
// Returns:
//   - Loader: a new Loader instance
func NewLoader(options ...LoaderBuilderOption) Loader {
	l := &loader{
		modelCache:  make(map[string]model.Model),
		objBackend:  newOBJLoaderBackend(),
		gltfBackend: newGLTFLoaderBackend(),
	}
	for _, option := range options {
		option(l)
	}
	return l
}

func (l *loader) Load(path string) (model.Model, error) {
	if cached := l.Get(path); cached != nil {
		return cached, nil
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	imported, err := l.backend(format).Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return l.store(path, imported)
}

func (l *loader) LoadReader(name string, r io.Reader, format Format) (model.Model, error) {
	if cached := l.Get(name); cached != nil {
		return cached, nil
	}

	backend := l.backend(format)
	if backend == nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
	imported, err := backend.LoadReader(r, format)
	if err != nil {
		return nil, fmt.Errorf("failed to load from reader %q: %w", name, err)
	}
	return l.store(name, imported)
}

func (l *loader) Get(name string) model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.modelCache[name]
}

func (l *loader) Models() map[string]model.Model {
	l.mu.RLock()
	defer l.mu.RUnlock()

	result := make(map[string]model.Model, len(l.modelCache))
	for k, v := range l.modelCache {
		result[k] = v
	}
	return result
}

func (l *loader) backend(format Format) loaderBackend {
	switch format {
	case FormatOBJ:
		return l.objBackend
	case FormatGLTF, FormatGLB:
		return l.gltfBackend
	default:
		return nil
	}
}

// store builds the model from backend output and caches it.
func (l *loader) store(name string, imported *importedMesh) (model.Model, error) {
	m, err := model.NewModel(
		model.WithName(name),
		model.WithPositions(imported.positions),
		model.WithFaces(imported.faces),
	)
	if err != nil {
		return nil, err
	}
	log.Printf("[Loader] %s: %d vertices, %d triangles", name, m.VertexCount(), m.TriangleCount())

	l.mu.Lock()
	l.modelCache[name] = m
	l.mu.Unlock()
	return m, nil
}
