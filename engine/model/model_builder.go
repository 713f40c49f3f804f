package model

// ModelBuilderOption is a functional option for configuring a Model via NewModel.
type ModelBuilderOption func(*model)

// WithName is an option builder that sets the name of the Model.
//
// Parameters:
//   - name: the model identifier
//
// Returns:
//   - ModelBuilderOption: a function that applies the name option to a model
func WithName(name string) ModelBuilderOption {
	return func(m *model) {
		m.name = name
	}
}

// WithPositions is an option builder that sets the vertex positions faces index into.
//
// Parameters:
//   - positions: the x, y, z positions
//
// Returns:
//   - ModelBuilderOption: a function that applies the positions option to a model
func WithPositions(positions [][3]float32) ModelBuilderOption {
	return func(m *model) {
		m.positions = positions
	}
}

// WithFaces is an option builder that sets the triangles as index triples into the positions.
//
// Parameters:
//   - faces: one entry per triangle, three position indices each
//
// Returns:
//   - ModelBuilderOption: a function that applies the faces option to a model
func WithFaces(faces [][3]int) ModelBuilderOption {
	return func(m *model) {
		m.faces = faces
	}
}

// WithTriangles is an option builder that sets an unindexed triangle list. Every corner
// gets its own position and the faces are generated in order.
//
// Parameters:
//   - triangles: the corners of every triangle
//
// Returns:
//   - ModelBuilderOption: a function that replaces positions and faces on a model
func WithTriangles(triangles [][3][3]float32) ModelBuilderOption {
	return func(m *model) {
		m.positions = make([][3]float32, 0, len(triangles)*3)
		m.faces = make([][3]int, len(triangles))
		for i, tri := range triangles {
			m.positions = append(m.positions, tri[0], tri[1], tri[2])
			m.faces[i] = [3]int{i * 3, i*3 + 1, i*3 + 2}
		}
	}
}
