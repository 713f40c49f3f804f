package loader

import (
	"io"
)

// importedMesh is the format-independent result of a backend: positions plus triangle
// index triples into them.
type importedMesh struct {
	positions [][3]float32
	faces     [][3]int
}

// loaderBackend defines the generic interface for decoding a model format.
// Concrete implementations (objLoaderBackend, gltfLoaderBackend) handle format details.
type loaderBackend interface {
	// Load decodes the model file at path.
	//
	// Parameters:
	//   - path: the file path to load
	//
	// Returns:
	//   - *importedMesh: the decoded triangles
	//   - error: error if the file cannot be read or decoded
	Load(path string) (*importedMesh, error)

	// LoadReader decodes a model from a stream.
	//
	// Parameters:
	//   - r: the reader providing model data
	//   - format: the container format of the stream
	//
	// Returns:
	//   - *importedMesh: the decoded triangles
	//   - error: error if decoding fails
	LoadReader(r io.Reader, format Format) (*importedMesh, error)
}
