package loader

import (
	"bytes"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Carmen-Shannon/hellogl/engine/model"
)

const quadOBJ = `# a unit quad
o quad
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
vt 0 0
vn 0 0 1
f 1/1/1 2/1/1 3/1/1 4/1/1
`

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, data, 0o644))
	return path
}

func triangles(m model.Model) [][3][3]float32 {
	out := make([][3][3]float32, m.TriangleCount())
	for i := range out {
		for c := 0; c < 3; c++ {
			out[i][c] = m.Vertex(i, c)
		}
	}
	return out
}

func TestLoadOBJFanTriangulation(t *testing.T) {
	path := writeFile(t, "quad.obj", []byte(quadOBJ))

	m, err := NewLoader().Load(path)
	require.NoError(t, err)
	assert.Equal(t, path, m.Name())
	assert.Equal(t, 4, m.VertexCount())
	assert.Equal(t, [][3][3]float32{
		{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}},
		{{0, 0, 0}, {1, 1, 0}, {0, 1, 0}},
	}, triangles(m))
}

func TestLoadOBJNegativeIndices(t *testing.T) {
	src := "v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3//1 -2//1 -1//1\n"
	m, err := NewLoader().LoadReader("neg", strings.NewReader(src), FormatOBJ)
	require.NoError(t, err)
	assert.Equal(t, [][3][3]float32{{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}}, triangles(m))
}

func TestLoadOBJErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"short vertex", "v 1 2\n", "line 1: vertex needs 3 coordinates"},
		{"bad coordinate", "v 1 x 2\n", `line 1: bad coordinate "x"`},
		{"short face", "v 0 0 0\nf 1 1\n", "line 2: face needs at least 3 corners"},
		{"zero index", "v 0 0 0\nf 0 1 1\n", "line 2: face index 0 is invalid"},
		{"out of range", "v 0 0 0\nf 1 2 1\n", "line 2: face index 2 out of range (1 vertices)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewLoader().LoadReader(tt.name, strings.NewReader(tt.src), FormatOBJ)
			assert.ErrorContains(t, err, tt.want)
		})
	}
}

func TestLoadCachesByPath(t *testing.T) {
	path := writeFile(t, "quad.obj", []byte(quadOBJ))
	l := NewLoader()

	first, err := l.Load(path)
	require.NoError(t, err)
	require.NoError(t, os.Remove(path))

	second, err := l.Load(path)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Len(t, l.Models(), 1)
	assert.Nil(t, l.Get("missing"))
}

func TestWithModelPrepopulatesCache(t *testing.T) {
	m, err := model.NewModel(model.WithName("builtin"))
	require.NoError(t, err)

	got, err := NewLoader(WithModel("builtin.obj", m)).Load("builtin.obj")
	require.NoError(t, err)
	assert.Same(t, m, got)
}

func TestLoadUnsupportedFormat(t *testing.T) {
	_, err := NewLoader().Load("model.fbx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = NewLoader().LoadReader("x", strings.NewReader(""), Format(42))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader().Load(filepath.Join(t.TempDir(), "absent.obj"))
	assert.ErrorContains(t, err, "failed to load")
}

// gltfFixture builds a one-primitive document over a single buffer holding the given
// positions and, when indices is non-nil, uint16 indices after them.
func gltfFixture(positions [][3]float32, indices []uint16) (gltfDocument, []byte) {
	var bin bytes.Buffer
	for _, p := range positions {
		for _, c := range p {
			_ = binary.Write(&bin, binary.LittleEndian, math.Float32bits(c))
		}
	}
	posLen := bin.Len()
	for _, i := range indices {
		_ = binary.Write(&bin, binary.LittleEndian, i)
	}
	for bin.Len()%4 != 0 {
		bin.WriteByte(0)
	}

	zero, one := 0, 1
	doc := gltfDocument{
		Asset: gltfAsset{Version: "2.0"},
		Meshes: []gltfMesh{{
			Primitives: []gltfPrimitive{{Attributes: map[string]int{"POSITION": 0}}},
		}},
		Accessors: []gltfAccessor{{
			BufferView:    &zero,
			ComponentType: gltfComponentTypeFloat,
			Count:         len(positions),
			Type:          gltfAccessorTypeVec3,
		}},
		BufferViews: []gltfBufferView{{Buffer: 0, ByteLength: posLen}},
		Buffers:     []gltfBuffer{{ByteLength: bin.Len()}},
	}
	if indices != nil {
		doc.Meshes[0].Primitives[0].Indices = &one
		doc.Accessors = append(doc.Accessors, gltfAccessor{
			BufferView:    &one,
			ComponentType: gltfComponentTypeUnsignedShort,
			Count:         len(indices),
			Type:          gltfAccessorTypeScalar,
		})
		doc.BufferViews = append(doc.BufferViews, gltfBufferView{Buffer: 0, ByteOffset: posLen, ByteLength: len(indices) * 2})
	}
	return doc, bin.Bytes()
}

func encodeGLTF(t *testing.T, doc gltfDocument, bin []byte) []byte {
	t.Helper()
	doc.Buffers[0].URI = "data:application/octet-stream;base64," + base64.StdEncoding.EncodeToString(bin)
	data, err := json.Marshal(doc)
	require.NoError(t, err)
	return data
}

func encodeGLB(t *testing.T, doc gltfDocument, bin []byte) []byte {
	t.Helper()
	js, err := json.Marshal(doc)
	require.NoError(t, err)
	for len(js)%4 != 0 {
		js = append(js, ' ')
	}

	var out bytes.Buffer
	total := uint32(12 + 8 + len(js) + 8 + len(bin))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBHeader{Magic: gltfGLBMagic, Version: gltfGLBVersion, Length: total}))
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(js)), ChunkType: gltfGLBChunkJSON}))
	out.Write(js)
	require.NoError(t, binary.Write(&out, binary.LittleEndian, gltfGLBChunkHeader{ChunkLength: uint32(len(bin)), ChunkType: gltfGLBChunkBIN}))
	out.Write(bin)
	return out.Bytes()
}

func TestLoadGLTFIndexedMatchesUnindexed(t *testing.T) {
	quad := [][3]float32{{0, 0, 0}, {1, 0, 0}, {1, 1, 0}, {0, 1, 0}}
	indexedDoc, indexedBin := gltfFixture(quad, []uint16{0, 1, 2, 0, 2, 3})
	flatDoc, flatBin := gltfFixture([][3]float32{quad[0], quad[1], quad[2], quad[0], quad[2], quad[3]}, nil)

	indexed, err := NewLoader().Load(writeFile(t, "indexed.gltf", encodeGLTF(t, indexedDoc, indexedBin)))
	require.NoError(t, err)
	flat, err := NewLoader().Load(writeFile(t, "flat.gltf", encodeGLTF(t, flatDoc, flatBin)))
	require.NoError(t, err)

	assert.Equal(t, 2, indexed.TriangleCount())
	assert.Equal(t, triangles(flat), triangles(indexed))
	assert.Equal(t, model.Flatten(flat), model.Flatten(indexed))
}

func TestLoadGLB(t *testing.T) {
	doc, bin := gltfFixture([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint16{0, 1, 2})
	data := encodeGLB(t, doc, bin)

	fromFile, err := NewLoader().Load(writeFile(t, "tri.glb", data))
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 0, 0, 1, 0, 0, 0, 1, 0}, model.Flatten(fromFile))

	fromReader, err := NewLoader().LoadReader("tri", bytes.NewReader(data), FormatGLB)
	require.NoError(t, err)
	assert.Equal(t, model.Flatten(fromFile), model.Flatten(fromReader))
}

func TestLoadGLTFSkipsNonTriangles(t *testing.T) {
	doc, bin := gltfFixture([][3]float32{{0, 0, 0}, {1, 0, 0}}, nil)
	lines := 1
	doc.Meshes[0].Primitives[0].Mode = &lines

	m, err := NewLoader().LoadReader("lines", bytes.NewReader(encodeGLTF(t, doc, bin)), FormatGLTF)
	require.NoError(t, err)
	assert.Zero(t, m.TriangleCount())
}

func TestLoadGLTFErrors(t *testing.T) {
	doc, bin := gltfFixture([][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}, []uint16{0, 1, 5})
	_, err := NewLoader().LoadReader("bad index", bytes.NewReader(encodeGLTF(t, doc, bin)), FormatGLTF)
	assert.ErrorContains(t, err, "index 5 out of range")

	doc, bin = gltfFixture([][3]float32{{0, 0, 0}}, nil)
	doc.Asset.Version = "1.0"
	_, err = NewLoader().LoadReader("old", bytes.NewReader(encodeGLTF(t, doc, bin)), FormatGLTF)
	assert.ErrorIs(t, err, errInvalidGLTFVersion)

	_, err = NewLoader().LoadReader("junk", bytes.NewReader([]byte("not a glb file")), FormatGLB)
	assert.ErrorIs(t, err, errInvalidGLBMagic)
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]Format{"a.obj": FormatOBJ, "b.GLTF": FormatGLTF, "c.glb": FormatGLB} {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
	_, err := FormatFromPath("d.stl")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
	assert.Equal(t, "GLB", FormatGLB.String())
	assert.Equal(t, "Format(9)", fmt.Sprint(Format(9)))
}
