package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlattenSingleTriangle(t *testing.T) {
	m, err := NewModel(WithTriangles([][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}},
	}))
	require.NoError(t, err)

	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, Flatten(m))
}

func TestFlattenOrdering(t *testing.T) {
	positions := [][3]float32{
		{0, 1, 2},
		{10, 11, 12},
		{20, 21, 22},
		{30, 31, 32},
	}
	faces := [][3]int{{0, 1, 2}, {3, 2, 1}, {0, 0, 3}}
	m, err := NewModel(WithPositions(positions), WithFaces(faces))
	require.NoError(t, err)

	got := Flatten(m)
	require.Len(t, got, 9*len(faces))
	for tri, f := range faces {
		for v := 0; v < 3; v++ {
			for c := 0; c < 3; c++ {
				assert.Equal(t, positions[f[v]][c], got[(tri*3+v)*3+c], "triangle %d corner %d component %d", tri, v, c)
			}
		}
	}
}

func TestFlattenLengthProperty(t *testing.T) {
	for _, n := range []int{0, 1, 2, 7, 100} {
		tris := make([][3][3]float32, n)
		for i := range tris {
			tris[i] = [3][3]float32{{float32(i), 0, 0}, {0, float32(i), 0}, {0, 0, float32(i)}}
		}
		m, err := NewModel(WithTriangles(tris))
		require.NoError(t, err)
		assert.Len(t, Flatten(m), 9*n)
		assert.Equal(t, n, m.TriangleCount())
	}
}

func TestFlattenEmptyIsNotNil(t *testing.T) {
	m, err := NewModel()
	require.NoError(t, err)
	assert.NotNil(t, Flatten(m))
	assert.Empty(t, Flatten(m))
}

func TestNewModelRejectsBadIndex(t *testing.T) {
	_, err := NewModel(
		WithName("broken"),
		WithPositions([][3]float32{{0, 0, 0}}),
		WithFaces([][3]int{{0, 0, 1}}),
	)
	assert.ErrorContains(t, err, `model "broken": face 0 references vertex 1 of 1`)
}

func TestBounds(t *testing.T) {
	m, err := NewModel(WithPositions([][3]float32{{1, -2, 3}, {-1, 4, 0}, {0, 0, 9}}))
	require.NoError(t, err)
	min, max := m.Bounds()
	assert.Equal(t, [3]float32{-1, -2, 0}, min)
	assert.Equal(t, [3]float32{1, 4, 9}, max)
	assert.Equal(t, 3, m.VertexCount())
}
