package model

import (
	"fmt"
)

// model is the implementation of the Model interface.
// Faces index into positions, three corners per triangle.
type model struct {
	name      string
	positions [][3]float32
	faces     [][3]int
}

// Model is a triangle mesh as seen by the renderer: a triangle count and, for every
// (triangle, corner) pair, a 3-component position. Models are immutable once built and
// safe to read from several goroutines.
type Model interface {
	// Name retrieves the model identifier, usually the file it was loaded from.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// TriangleCount returns the number of triangles in the mesh.
	//
	// Returns:
	//   - int: the triangle count, zero for an empty mesh
	TriangleCount() int

	// VertexCount returns the number of distinct positions referenced by the faces.
	//
	// Returns:
	//   - int: the position count
	VertexCount() int

	// Vertex returns the position of one corner of one triangle.
	//
	// Parameters:
	//   - triangle: the triangle index, 0 <= triangle < TriangleCount()
	//   - corner: the corner within the triangle, 0, 1 or 2
	//
	// Returns:
	//   - [3]float32: the x, y, z position
	Vertex(triangle, corner int) [3]float32

	// Bounds returns the axis-aligned box enclosing every position.
	// Both corners are zero for a model without positions.
	//
	// Returns:
	//   - [3]float32: the minimum corner
	//   - [3]float32: the maximum corner
	Bounds() (min, max [3]float32)
}

var _ Model = &model{}

// NewModel creates a Model with the specified options applied and checks that every face
// index refers to an existing position.
//
// Parameters:
//   - options: functional options to configure the model
//
// Returns:
//   - Model: the built model
//   - error: error if a face references a position out of range
func NewModel(options ...ModelBuilderOption) (Model, error) {
	m := &model{}
	for _, opt := range options {
		opt(m)
	}
	for i, f := range m.faces {
		for _, idx := range f {
			if idx < 0 || idx >= len(m.positions) {
				return nil, fmt.Errorf("model %q: face %d references vertex %d of %d", m.name, i, idx, len(m.positions))
			}
		}
	}
	return m, nil
}

func (m *model) Name() string {
	return m.name
}

func (m *model) TriangleCount() int {
	return len(m.faces)
}

func (m *model) VertexCount() int {
	return len(m.positions)
}

func (m *model) Vertex(triangle, corner int) [3]float32 {
	return m.positions[m.faces[triangle][corner]]
}

func (m *model) Bounds() (min, max [3]float32) {
	if len(m.positions) == 0 {
		return
	}
	min, max = m.positions[0], m.positions[0]
	for _, p := range m.positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return
}

// Flatten lays every triangle corner out in a single float32 sequence suitable for an
// unindexed triangle-list draw. Element (t*3+v)*3+c holds component c of corner v of
// triangle t, so the result has exactly 9 x TriangleCount elements.
//
// Parameters:
//   - m: the model to flatten
//
// Returns:
//   - []float32: the flat position sequence, empty (not nil) for an empty model
func Flatten(m Model) []float32 {
	n := m.TriangleCount()
	vertices := make([]float32, 9*n)
	for t := 0; t < n; t++ {
		for v := 0; v < 3; v++ {
			p := m.Vertex(t, v)
			for c := 0; c < 3; c++ {
				vertices[(t*3+v)*3+c] = p[c]
			}
		}
	}
	return vertices
}
